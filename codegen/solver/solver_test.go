package solver

import (
	"testing"

	"github.com/0xPolygonMiden/compiler-sub002/codegen/operand"
	"github.com/0xPolygonMiden/compiler-sub002/hir"
)

func valOperand(id uint32) operand.Operand {
	return operand.NewFromValue(operand.TypedValue{Value: hir.Value(id), Type: hir.TypeU32})
}

func TestSolveAlreadySolvedReturnsNoOps(t *testing.T) {
	s := operand.New()
	s.Push(valOperand(1))
	s.Push(valOperand(2))

	ops, err := Solve([]hir.Value{2, 1}, []operand.Constraint{operand.Move, operand.Move}, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ops != nil {
		t.Fatalf("expected no ops for the already-solved case, got %v", ops)
	}
}

func TestSolveMovesDeepOperandToTop(t *testing.T) {
	s := operand.New()
	s.Push(valOperand(1))
	s.Push(valOperand(2))
	s.Push(valOperand(3))

	ops, err := Solve([]hir.Value{1}, []operand.Constraint{operand.Move}, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 1 || ops[0].Kind != OpMovup || ops[0].N != 2 {
		t.Fatalf("expected a single movup(2), got %v", ops)
	}
	top, _ := s.Peek()
	if v, _ := top.AsValue(); v != 1 {
		t.Fatalf("expected value 1 on top after solving, got %v", v)
	}
}

func TestSolvePrefersSwapForAdjacentPair(t *testing.T) {
	s := operand.New()
	s.Push(valOperand(1))
	s.Push(valOperand(2))

	ops, err := Solve([]hir.Value{1}, []operand.Constraint{operand.Move}, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 1 || ops[0].Kind != OpSwap || ops[0].N != 1 {
		t.Fatalf("expected swap(1), got %v", ops)
	}
}

func TestSolveCopyDuplicatesAndPreservesOriginal(t *testing.T) {
	s := operand.New()
	s.Push(valOperand(1))

	ops, err := Solve([]hir.Value{1}, []operand.Constraint{operand.Copy}, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 1 || ops[0].Kind != OpDup || ops[0].N != 0 {
		t.Fatalf("expected dup(0), got %v", ops)
	}
	if s.Len() != 2 {
		t.Fatalf("expected the original to survive the duplication, got len=%d", s.Len())
	}
}

func TestSolveRepeatedArgumentDupsEachUse(t *testing.T) {
	// Mirrors `add a, a`: both uses of `a` are Copy, so the solver must
	// arrange two independent copies of it on top.
	s := operand.New()
	s.Push(valOperand(1))

	ops, err := Solve([]hir.Value{1, 1}, []operand.Constraint{operand.Copy, operand.Copy}, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("expected two dup ops, got %v", ops)
	}
	if s.Len() != 3 {
		t.Fatalf("expected the original plus two copies to remain, got len=%d", s.Len())
	}
}

func TestSolveUnreachableValueErrors(t *testing.T) {
	s := operand.New()
	s.Push(valOperand(1))

	_, err := Solve([]hir.Value{99}, []operand.Constraint{operand.Move}, s)
	if err == nil {
		t.Fatal("expected an UnreachableError")
	}
	if _, ok := err.(*UnreachableError); !ok {
		t.Fatalf("expected *UnreachableError, got %T", err)
	}
}
