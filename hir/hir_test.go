package hir

import "testing"

func TestBuilderStraightLineFunction(t *testing.T) {
	fn := NewFunction("add_one", Signature{Params: []Type{TypeU32}, Results: []Type{TypeU32}})
	entry := fn.CreateBlock()
	p0 := fn.AddBlockParam(entry, TypeU32)
	fn.SetEntryBlock(entry)

	_, sum := fn.BinaryOpImm(entry, OpAdd, Checked, p0, NewImmediate(TypeU32, 1), TypeU32)
	fn.Ret(entry, sum)

	if fn.DFG().EntryBlock() != entry {
		t.Fatalf("entry block mismatch")
	}
	if got := fn.Params(); len(got) != 1 || got[0] != p0 {
		t.Fatalf("unexpected params: %v", got)
	}
	insts := fn.DFG().BlockInsts(entry)
	if len(insts) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(insts))
	}
	term := fn.DFG().InstByID(insts[len(insts)-1])
	if term.Kind() != KindRet {
		t.Fatalf("expected terminator to be ret, got %s", term.Kind())
	}
	if fn.DFG().ValueType(sum) != TypeU32 {
		t.Fatalf("sum should be u32")
	}
}

func TestBuilderCondBrRecordsPredecessors(t *testing.T) {
	fn := NewFunction("abs", Signature{Params: []Type{TypeI32}, Results: []Type{TypeI32}})
	entry := fn.CreateBlock()
	thenBlk := fn.CreateBlock()
	elseBlk := fn.CreateBlock()
	join := fn.CreateBlock()
	joinParam := fn.AddBlockParam(join, TypeI32)

	p0 := fn.AddBlockParam(entry, TypeI32)
	fn.SetEntryBlock(entry)

	_, isNeg := fn.Test(entry, OpIsOdd, p0)
	fn.CondBr(entry, isNeg, thenBlk, nil, elseBlk, nil)

	_, neg := fn.UnaryOp(thenBlk, OpNeg, Checked, p0, TypeI32)
	fn.Br(thenBlk, join, neg)
	fn.Br(elseBlk, join, p0)
	fn.Ret(join, joinParam)

	joinPreds := fn.DFG().BlockByID(join).Preds()
	if len(joinPreds) != 2 {
		t.Fatalf("expected 2 preds for join, got %d", len(joinPreds))
	}
	thenPreds := fn.DFG().BlockByID(thenBlk).Preds()
	if len(thenPreds) != 1 || thenPreds[0] != entry {
		t.Fatalf("unexpected thenBlk preds: %v", thenPreds)
	}
}

func TestAnalyzeBranchClassifiesTerminators(t *testing.T) {
	fn := NewFunction("classify", Signature{})
	entry := fn.CreateBlock()
	target := fn.CreateBlock()
	fn.SetEntryBlock(entry)

	br := fn.Br(entry, target)
	ba := fn.DFG().AnalyzeBranch(br)
	if ba.Kind != SingleDest || ba.Block != target {
		t.Fatalf("expected SingleDest to target, got %+v", ba)
	}

	ret := fn.Ret(target)
	ba = fn.DFG().AnalyzeBranch(ret)
	if ba.Kind != NotABranch {
		t.Fatalf("expected NotABranch for ret, got %+v", ba)
	}
}

func TestAllocLocalRoundTrips(t *testing.T) {
	fn := NewFunction("f", Signature{})
	id := fn.DFG().AllocLocal(TypeU64)
	if fn.DFG().LocalType(id) != TypeU64 {
		t.Fatalf("local type mismatch")
	}
	if fn.DFG().NumLocals() != 1 {
		t.Fatalf("expected 1 local")
	}
}
