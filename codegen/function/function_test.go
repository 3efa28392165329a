package function

import (
	"testing"

	"github.com/0xPolygonMiden/compiler-sub002/hir"
	"github.com/0xPolygonMiden/compiler-sub002/hir/analysis"
	"github.com/0xPolygonMiden/compiler-sub002/masm"
)

func countOps(b *masm.Block, kind masm.OpKind) int {
	n := 0
	for _, op := range b.Ops() {
		if op.Kind() == kind {
			n++
		}
	}
	return n
}

// TestCompileStraightLineAddOne mirrors hir_test.go's add_one fixture: a
// single block, one BinaryOpImm, one Ret. No control flow, no spills -- the
// baseline sanity check that Compile produces a body at all.
func TestCompileStraightLineAddOne(t *testing.T) {
	fn := hir.NewFunction("add_one", hir.Signature{Params: []hir.Type{hir.TypeU32}, Results: []hir.Type{hir.TypeU32}})
	entry := fn.CreateBlock()
	p0 := fn.AddBlockParam(entry, hir.TypeU32)
	fn.SetEntryBlock(entry)
	_, sum := fn.BinaryOpImm(entry, hir.OpAdd, hir.Checked, p0, hir.NewImmediate(hir.TypeU32, 1), hir.TypeU32)
	fn.Ret(entry, sum)

	out, err := Compile(fn, analysis.NewGlobalVariableLayout())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if countOps(out.Body(), masm.OpU32Imm) != 1 {
		t.Fatalf("expected one u32 add-immediate op, got %v", out.Body().Ops())
	}
}

// TestCompileLoopSumEmitsOneWhileAndOneIf builds a loop that sums 0..n,
// guarded by a conditional exit -- spec.md §8 Scenario B -- and checks the
// treeified traversal produces exactly one While nested one If.
func TestCompileLoopSumEmitsOneWhileAndOneIf(t *testing.T) {
	fn := hir.NewFunction("loop_sum", hir.Signature{Params: []hir.Type{hir.TypeU32}, Results: []hir.Type{hir.TypeU32}})
	entry := fn.CreateBlock()
	header := fn.CreateBlock()
	body := fn.CreateBlock()
	exit := fn.CreateBlock()

	n := fn.AddBlockParam(entry, hir.TypeU32)
	fn.SetEntryBlock(entry)
	zero := hir.NewImmediate(hir.TypeU32, 0)
	_, i0 := fn.UnaryOpImm(entry, hir.OpCast, hir.Unchecked, zero, hir.TypeU32)
	fn.Br(entry, header, i0, i0)

	iParam := fn.AddBlockParam(header, hir.TypeU32)
	sumParam := fn.AddBlockParam(header, hir.TypeU32)
	_, cond := fn.Test(header, hir.OpIsOdd, iParam)
	fn.CondBr(header, cond, body, nil, exit, []hir.Value{sumParam})

	_, sum2 := fn.BinaryOp(body, hir.OpAdd, hir.Checked, sumParam, iParam, hir.TypeU32)
	_, i2 := fn.BinaryOpImm(body, hir.OpAdd, hir.Checked, iParam, hir.NewImmediate(hir.TypeU32, 1), hir.TypeU32)
	fn.Br(body, header, i2, sum2)

	exitSum := fn.AddBlockParam(exit, hir.TypeU32)
	fn.Ret(exit, exitSum)

	out, err := Compile(fn, analysis.NewGlobalVariableLayout())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := countOps(out.Body(), masm.OpWhile); got != 1 {
		t.Fatalf("expected exactly one While, got %d in %v", got, out.Body().Ops())
	}
	var whileBody *masm.Block
	for _, op := range out.Body().Ops() {
		if op.Kind() == masm.OpWhile {
			whileBody = op.Body()
		}
	}
	if whileBody == nil {
		t.Fatalf("While op missing a body")
	}
	if got := countOps(whileBody, masm.OpIf); got != 1 {
		t.Fatalf("expected exactly one If inside the loop body, got %d in %v", got, whileBody.Ops())
	}
}

// TestCompileDropsDeadBlockParamOnEntry covers spec.md §8 Scenario D: a
// block parameter that's never used downstream must still be dropped, not
// silently left on the stack.
func TestCompileDropsDeadBlockParamOnEntry(t *testing.T) {
	fn := hir.NewFunction("drop_dead_param", hir.Signature{Params: []hir.Type{hir.TypeU32, hir.TypeU32}, Results: []hir.Type{hir.TypeU32}})
	entry := fn.CreateBlock()
	used := fn.AddBlockParam(entry, hir.TypeU32)
	_ = fn.AddBlockParam(entry, hir.TypeU32) // dead
	fn.SetEntryBlock(entry)
	fn.Ret(entry, used)

	out, err := Compile(fn, analysis.NewGlobalVariableLayout())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := countOps(out.Body(), masm.OpDrop); got < 1 {
		t.Fatalf("expected at least one Drop for the dead parameter, got %v", out.Body().Ops())
	}
}

// TestCompileSwitchPanics confirms the documented invariant: a Switch that
// somehow survives to the function emitter is a fatal bug, not a recoverable
// error (spec.md §9, SPEC_FULL.md §14).
func TestCompileSwitchPanics(t *testing.T) {
	fn := hir.NewFunction("has_switch", hir.Signature{})
	entry := fn.CreateBlock()
	a := fn.CreateBlock()
	b := fn.CreateBlock()
	fn.SetEntryBlock(entry)
	cond := fn.AddBlockParam(entry, hir.TypeU32)
	fn.Switch(entry, cond, []hir.Successor{{Block: a}, {Block: b}})
	fn.Ret(a)
	fn.Ret(b)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected a panic for a surviving Switch")
		}
	}()
	// Exercise the emitter's own guard directly rather than through Compile,
	// since Compile always lowers Switch away first and would never let one
	// reach this check.
	e := &Emitter{fn: fn, visited: map[hir.BlockID]bool{}}
	be := &blockEmitter{e: e, block: entry}
	inst := fn.DFG().InstByID(fn.DFG().BlockInsts(entry)[0])
	_ = be.emitInst(inst, nil, nil)
}
