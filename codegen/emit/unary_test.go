package emit

import (
	"testing"

	"github.com/0xPolygonMiden/compiler-sub002/codegenapi"
	"github.com/0xPolygonMiden/compiler-sub002/hir"
	"github.com/0xPolygonMiden/compiler-sub002/masm"
)

func TestUnaryOpFeltInv(t *testing.T) {
	e, block, _ := newTestEmitter(hir.TypeFelt)
	if err := UnaryOp(e, hir.OpInv, hir.Unchecked, hir.TypeFelt, hir.TypeFelt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ops := block.Ops()
	if len(ops) != 1 || ops[0].Kind() != masm.OpInv {
		t.Fatalf("expected a single Inv op, got %v", ops)
	}
}

func TestUnaryOpIntNegIsZeroMinusX(t *testing.T) {
	e, block, _ := newTestEmitter(hir.TypeU32)
	if err := UnaryOp(e, hir.OpNeg, hir.Wrapping, hir.TypeU32, hir.TypeU32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ops := block.Ops()
	if len(ops) != 3 || ops[0].Kind() != masm.OpPushU32 || ops[1].Kind() != masm.OpSwap || ops[2].Kind() != masm.OpU32 {
		t.Fatalf("expected push(0), swap(1), u32sub, got %v", ops)
	}
	if ops[2].U32Op() != masm.U32OpSub {
		t.Fatalf("expected the final op to be a u32 sub, got %v", ops[2].U32Op())
	}
}

func TestUnaryOpInvIntIsUnimplemented(t *testing.T) {
	e, _, _ := newTestEmitter(hir.TypeU32)
	err := UnaryOp(e, hir.OpInv, hir.Unchecked, hir.TypeU32, hir.TypeU32)
	if !codegenapi.IsUnimplemented(err) {
		t.Fatalf("expected Unimplemented (field inverse has no integer analogue), got %v", err)
	}
}

func TestUnaryOpTruncWithinSingleElementFamilyIsNoOp(t *testing.T) {
	e, block, stack := newTestEmitter(hir.TypeU32)
	if err := UnaryOp(e, hir.OpTrunc, hir.Unchecked, hir.TypeU32, hir.TypeU8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(block.Ops()) != 0 {
		t.Fatalf("expected no emitted ops for an in-family truncation, got %v", block.Ops())
	}
	top, _ := stack.Peek()
	if top.Ty().Kind() != hir.KindU8 {
		t.Fatalf("expected the stack to now carry a U8, got %s", top.Ty())
	}
}

func TestUnaryOpZextSingleElementToU64PadsZeroLimb(t *testing.T) {
	e, block, _ := newTestEmitter(hir.TypeU16)
	if err := UnaryOp(e, hir.OpZext, hir.Unchecked, hir.TypeU16, hir.TypeU64); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ops := block.Ops()
	if len(ops) != 2 || ops[0].Kind() != masm.OpPushU32 || ops[0].Offset() != 0 || ops[1].Kind() != masm.OpSwap || ops[1].N() != 1 {
		t.Fatalf("expected a zero-limb push followed by swap(1), got %v", ops)
	}
}

func TestUnaryOpCastNarrowingDropsToTrunc(t *testing.T) {
	e, block, _ := newTestEmitter(hir.TypeU32)
	if err := UnaryOp(e, hir.OpCast, hir.Unchecked, hir.TypeU32, hir.TypeU8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(block.Ops()) != 0 {
		t.Fatalf("expected the in-family narrowing cast to be a no-op, got %v", block.Ops())
	}
}

func TestSelectSwapsThenCdrops(t *testing.T) {
	e, block, stack := newTestEmitter(hir.TypeFelt, hir.TypeFelt, hir.TypeI1)
	if err := Select(e, hir.TypeFelt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ops := block.Ops()
	if len(ops) != 3 || ops[0].Kind() != masm.OpMovup || ops[1].Kind() != masm.OpSwap || ops[2].Kind() != masm.OpCdrop {
		t.Fatalf("expected movup(2), swap(1), cdrop, got %v", ops)
	}
	if stack.Len() != 1 {
		t.Fatalf("expected exactly one result operand, got %d", stack.Len())
	}
}
