package masm

import (
	"testing"

	"github.com/0xPolygonMiden/compiler-sub002/hir"
)

func TestFunctionBuildsNestedControl(t *testing.T) {
	fn := NewFunction("intrinsics::u32::checked_add")
	thenBlk := fn.CreateBlock()
	thenBlk.Push(Push(hir.NewFelt(1)))
	elseBlk := fn.CreateBlock()
	elseBlk.Push(Push(hir.NewFelt(0)))

	fn.Body().Push(U32(U32OpAdd, hir.Checked))
	fn.Body().Push(If(thenBlk, elseBlk))

	if fn.Body().Len() != 2 {
		t.Fatalf("expected 2 top-level ops, got %d", fn.Body().Len())
	}
	ifOp := fn.Body().Ops()[1]
	if ifOp.Kind() != OpIf {
		t.Fatalf("expected OpIf, got %v", ifOp.Kind())
	}
	if ifOp.Then().ID() != thenBlk.ID() || ifOp.Else().ID() != elseBlk.ID() {
		t.Fatalf("If branches not wired to the blocks that were passed in")
	}
}

func TestAllocLocalIsSequential(t *testing.T) {
	fn := NewFunction("f")
	a := fn.AllocLocal(hir.TypeU32)
	b := fn.AllocLocal(hir.TypeU64)
	if a != 0 || b != 1 {
		t.Fatalf("expected sequential local ids 0,1, got %d,%d", a, b)
	}
	if len(fn.Locals()) != 2 {
		t.Fatalf("expected 2 locals recorded")
	}
}

func TestU32OpStringMatchesMnemonicFragment(t *testing.T) {
	if U32OpAdd.String() != "add" {
		t.Fatalf("unexpected U32Op string: %s", U32OpAdd.String())
	}
}
