package depgraph

import (
	"testing"

	"github.com/0xPolygonMiden/compiler-sub002/hir"
)

// buildAddChain constructs `entry(a: u32, b: u32): c = add a, b; ret c`.
func buildAddChain() (*hir.ConcreteFunction, hir.BlockID) {
	fn := hir.NewFunction("add_chain", hir.Signature{})
	entry := fn.CreateBlock()
	a := fn.AddBlockParam(entry, hir.TypeU32)
	b := fn.AddBlockParam(entry, hir.TypeU32)
	fn.SetEntryBlock(entry)

	_, c := fn.BinaryOp(entry, hir.OpAdd, hir.Unchecked, a, b, hir.TypeU32)
	fn.Ret(entry, c)
	return fn, entry
}

func TestNodeIDRoundTrips(t *testing.T) {
	cases := []Node{
		Stack(hir.Value(7)),
		InstNode(hir.Inst(3), 12),
		Arg(Argument{Kind: ArgDirect, Inst: hir.Inst(3), Index: 1}),
		Arg(Argument{Kind: ArgIndirect, Inst: hir.Inst(3), Index: 1, Successor: 1}),
		Arg(Argument{Kind: ArgConditional, Inst: hir.Inst(3), Index: 1, Successor: 1}),
		Result(hir.Value(9), 2),
	}
	for _, n := range cases {
		id := n.ID()
		got := id.Expand()
		if got.String() != n.String() {
			t.Fatalf("round-trip mismatch: %s != %s", got, n)
		}
	}
}

func TestNodeIDOrderingMatchesVariantRank(t *testing.T) {
	stack := Stack(hir.Value(0xFFFFFFFF)).ID()
	arg := Arg(Argument{Kind: ArgDirect, Inst: hir.Inst(0)}).ID()
	inst := InstNode(hir.Inst(0), 0).ID()
	result := Result(hir.Value(0), 0).ID()
	if !(stack < arg && arg < inst && inst < result) {
		t.Fatalf("expected stack < arg < inst < result, got %d %d %d %d", stack, arg, inst, result)
	}
}

func TestBuildBlockWiresDirectArguments(t *testing.T) {
	fn, entry := buildAddChain()
	g := BuildBlock(fn.DFG(), entry)

	params := fn.DFG().BlockParams(entry)
	a, b := params[0], params[1]

	// The add instruction's two direct arguments should each resolve back
	// to a Stack node for the corresponding block parameter.
	found := map[hir.Value]bool{}
	for _, n := range g.Nodes() {
		if v, ok := n.AsValue(); ok {
			found[v] = true
		}
	}
	if !found[a] || !found[b] {
		t.Fatalf("expected both block params to appear as Stack nodes in the graph")
	}
}

func TestToposortOrdersInstBeforeItsArguments(t *testing.T) {
	fn, entry := buildAddChain()
	g := BuildBlock(fn.DFG(), entry)

	insts := fn.DFG().BlockInsts(entry)
	addInstID := insts[0]
	addNode := InstNode(addInstID, 0).ID()

	order, err := g.Toposort(addNode)
	if err != nil {
		t.Fatalf("unexpected cycle: %v", err)
	}
	if order[0] != addNode {
		t.Fatalf("expected root to be first in toposort output")
	}
}

func TestIndexedAssignsIncreasingIndices(t *testing.T) {
	fn, entry := buildAddChain()
	g := BuildBlock(fn.DFG(), entry)

	insts := fn.DFG().BlockInsts(entry)
	addNode := InstNode(insts[0], 0).ID()

	idx, err := g.Indexed(addNode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := idx.Get(addNode); !ok {
		t.Fatal("expected root node to have an assigned index")
	}
}
