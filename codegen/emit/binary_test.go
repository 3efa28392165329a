package emit

import (
	"testing"

	"github.com/0xPolygonMiden/compiler-sub002/codegen/operand"
	"github.com/0xPolygonMiden/compiler-sub002/codegenapi"
	"github.com/0xPolygonMiden/compiler-sub002/hir"
	"github.com/0xPolygonMiden/compiler-sub002/masm"
)

func newTestEmitter(types ...hir.Type) (*Emitter, *masm.Block, *operand.OperandStack) {
	block := masm.NewBlock(0)
	stack := operand.New()
	for _, ty := range types {
		stack.Push(operand.NewFromType(ty))
	}
	return New(block, stack), block, stack
}

func TestBinaryOpFeltAdd(t *testing.T) {
	e, block, stack := newTestEmitter(hir.TypeFelt, hir.TypeFelt)
	if err := BinaryOp(e, hir.OpAdd, hir.Unchecked, hir.TypeFelt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ops := block.Ops()
	if len(ops) != 1 || ops[0].Kind() != masm.OpAdd {
		t.Fatalf("expected a single Add op, got %v", ops)
	}
	if stack.Len() != 1 {
		t.Fatalf("expected one result operand, got %d", stack.Len())
	}
}

func TestBinaryOpU32Eq(t *testing.T) {
	e, block, _ := newTestEmitter(hir.TypeU32, hir.TypeU32)
	if err := BinaryOp(e, hir.OpEq, hir.Unchecked, hir.TypeU32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ops := block.Ops()
	if len(ops) != 1 || ops[0].Kind() != masm.OpEq {
		t.Fatalf("expected a single Eq op (field equality is width-agnostic), got %v", ops)
	}
}

func TestBinaryOpI32OrderUsesIntrinsic(t *testing.T) {
	e, block, _ := newTestEmitter(hir.TypeI32, hir.TypeI32)
	if err := BinaryOp(e, hir.OpLt, hir.Unchecked, hir.TypeI32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ops := block.Ops()
	if len(ops) != 1 || ops[0].Kind() != masm.OpExec || ops[0].Name() != "intrinsics::i32::is_lt" {
		t.Fatalf("expected an Exec of the i32 signed-lt intrinsic, got %v", ops)
	}
}

func TestBinaryOpI16OrderIsUnimplemented(t *testing.T) {
	// Mirrors the teacher's own comparison match arms, which have no case
	// for I8/I16 and fall to its unimplemented!() catch-all.
	e, _, _ := newTestEmitter(hir.TypeI16, hir.TypeI16)
	err := BinaryOp(e, hir.OpLt, hir.Unchecked, hir.TypeI16)
	if !codegenapi.IsUnimplemented(err) {
		t.Fatalf("expected an UnimplementedError, got %v", err)
	}
}

func TestBinaryOpI128MulIsUnimplemented(t *testing.T) {
	// Mirrors the teacher's literal todo!() for 128-bit multiplication.
	e, _, _ := newTestEmitter(hir.TypeI128, hir.TypeI128)
	err := BinaryOp(e, hir.OpMul, hir.Unchecked, hir.TypeI128)
	if !codegenapi.IsUnimplemented(err) {
		t.Fatalf("expected an UnimplementedError, got %v", err)
	}
}

func TestBinaryOpMinLowersToCompareAndCdrop(t *testing.T) {
	e, block, _ := newTestEmitter(hir.TypeU32, hir.TypeU32)
	if err := BinaryOp(e, hir.OpMin, hir.Unchecked, hir.TypeU32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ops := block.Ops()
	last := ops[len(ops)-1]
	if last.Kind() != masm.OpCdrop {
		t.Fatalf("expected the sequence to end with Cdrop, got %v", ops)
	}
}

func TestBinaryOpImmFeltUsesDedicatedOpcode(t *testing.T) {
	e, block, _ := newTestEmitter(hir.TypeFelt)
	imm := hir.NewFeltImmediate(hir.NewFelt(7))
	if err := BinaryOpImm(e, hir.OpAdd, hir.Unchecked, imm); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ops := block.Ops()
	if len(ops) != 1 || ops[0].Kind() != masm.OpAddImm {
		t.Fatalf("expected a single AddImm op, got %v", ops)
	}
}

func TestBinaryOpImmU64FallsBackToPushThenOp(t *testing.T) {
	e, block, _ := newTestEmitter(hir.TypeU64)
	imm := hir.NewImmediate(hir.TypeU64, 42)
	err := BinaryOpImm(e, hir.OpAnd, hir.Unchecked, imm)
	// U64 bitwise is outside the single-element family, so the fallback
	// (push the immediate, then dispatch the plain op) still reports
	// Unimplemented -- but it must have pushed the immediate's limbs first.
	if !codegenapi.IsUnimplemented(err) {
		t.Fatalf("expected Unimplemented, got %v", err)
	}
	ops := block.Ops()
	if len(ops) == 0 || ops[0].Kind() != masm.OpPushU32 {
		t.Fatalf("expected the immediate's limbs to be pushed first, got %v", ops)
	}
}
