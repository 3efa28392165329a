package schedule

import (
	"testing"

	"github.com/0xPolygonMiden/compiler-sub002/codegen/depgraph"
	"github.com/0xPolygonMiden/compiler-sub002/codegen/operand"
	"github.com/0xPolygonMiden/compiler-sub002/hir"
)

// buildDoubleUse constructs `entry(a: u32): b = add a, a; ret b`, so `a` is
// used twice within the block and must be copied, while `b` is used once
// (by ret) and may be moved.
func buildDoubleUse() (*hir.ConcreteFunction, hir.BlockID) {
	fn := hir.NewFunction("double_use", hir.Signature{})
	entry := fn.CreateBlock()
	a := fn.AddBlockParam(entry, hir.TypeU32)
	fn.SetEntryBlock(entry)

	_, b := fn.BinaryOp(entry, hir.OpAdd, hir.Unchecked, a, a, hir.TypeU32)
	fn.Ret(entry, b)
	return fn, entry
}

func TestBuildMarksRepeatedArgumentAsCopy(t *testing.T) {
	fn, entry := buildDoubleUse()
	g := depgraph.BuildBlock(fn.DFG(), entry)

	sched := Build(fn.DFG(), entry, g, map[hir.Value]struct{}{})

	insts := fn.DFG().BlockInsts(entry)
	addInfo := sched.Insts[insts[0]]
	if len(addInfo.Args) != 2 {
		t.Fatalf("expected 2 args on the add instruction, got %d", len(addInfo.Args))
	}
	for _, a := range addInfo.Args {
		if a.Constraint != operand.Copy {
			t.Fatalf("expected both uses of the repeated argument to be Copy, got %s", a.Constraint)
		}
	}
}

func TestBuildMarksLiveOutValueAsCopy(t *testing.T) {
	fn, entry := buildDoubleUse()
	g := depgraph.BuildBlock(fn.DFG(), entry)

	insts := fn.DFG().BlockInsts(entry)
	b := fn.DFG().FirstResult(insts[0])

	sched := Build(fn.DFG(), entry, g, map[hir.Value]struct{}{b: {}})
	retInfo := sched.Insts[insts[1]]
	for _, arg := range retInfo.Args {
		if arg.Value == b && arg.Constraint != operand.Copy {
			t.Fatalf("expected live-out value to be Copy even with a single in-block use")
		}
	}
}

func TestBuildActionsStartWithInit(t *testing.T) {
	fn, entry := buildDoubleUse()
	g := depgraph.BuildBlock(fn.DFG(), entry)
	sched := Build(fn.DFG(), entry, g, map[hir.Value]struct{}{})

	if len(sched.Actions) == 0 || sched.Actions[0].Kind != ActionInit {
		t.Fatal("expected the first action to be ActionInit")
	}
	instActions := 0
	for _, a := range sched.Actions {
		if a.Kind == ActionInst {
			instActions++
		}
	}
	if instActions != 2 {
		t.Fatalf("expected 2 ActionInst entries (add, ret), got %d", instActions)
	}
}
