// Package solver plans the minimum sequence of stack-reordering primitives
// that places a set of expected values on top of the operand stack, in the
// order an instruction needs them (spec.md §4.5). The driving loop and its
// per-opcode callers live in codegen/function; this package only decides
// *how* to get there.
package solver

import (
	"fmt"

	"github.com/0xPolygonMiden/compiler-sub002/codegen/operand"
	"github.com/0xPolygonMiden/compiler-sub002/hir"
)

// OpKind identifies one of the operand stack's reordering primitives.
type OpKind uint8

const (
	OpDup OpKind = iota
	OpSwap
	OpMovup
	OpMovdn
	OpDrop
	OpDropn
)

// Op is one primitive emitted by the solver, in the order it must run.
// N is the from-the-top index argument; it is unused for OpDrop.
type Op struct {
	Kind OpKind
	N    int
}

func (op Op) String() string {
	switch op.Kind {
	case OpDup:
		return fmt.Sprintf("dup(%d)", op.N)
	case OpSwap:
		return fmt.Sprintf("swap(%d)", op.N)
	case OpMovup:
		return fmt.Sprintf("movup(%d)", op.N)
	case OpMovdn:
		return fmt.Sprintf("movdn(%d)", op.N)
	case OpDropn:
		return fmt.Sprintf("dropn(%d)", op.N)
	default:
		return "drop"
	}
}

// UnreachableError reports that an expected value was not found on the
// operand stack, or could only be reached past the 16-slot random-access
// window. Either case means the spill pass failed to keep the live
// operand-stack depth within bounds ahead of this instruction; callers
// should treat it as a bug, not a recoverable condition.
type UnreachableError struct {
	Value hir.Value
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("operand movement solver: value %s is unreachable on the operand stack", e.Value)
}

const maxEffectiveIndex = 15

// Solve computes the primitive sequence that arranges expected (top-down,
// expected[0] ends up on top) on top of stack, consuming stack's current
// contents to do so, and reports the already-solved case by returning a nil
// slice and nil error without mutating stack.
//
// Each constraints[i] says whether placing expected[i] may consume its
// source location (Move) or must leave a copy behind for later reuse
// (Copy). Duplicate entries in expected (an instruction using the same
// value more than once) are resolved independently, each against the
// stack state left by the previous placement.
func Solve(expected []hir.Value, constraints []operand.Constraint, stack *operand.OperandStack) ([]Op, error) {
	if alreadySolved(expected, stack) {
		return nil, nil
	}

	var ops []Op
	for i := len(expected) - 1; i >= 0; i-- {
		want := expected[i]
		p, ok := stack.Find(want)
		if !ok {
			return nil, &UnreachableError{Value: want}
		}
		if stack.EffectiveIndexInclusive(p) > maxEffectiveIndex {
			return nil, &UnreachableError{Value: want}
		}

		if constraints[i] == operand.Copy {
			stack.Dup(p)
			ops = append(ops, Op{Kind: OpDup, N: p})
			continue
		}

		switch {
		case p == 0:
			// Already on top; nothing to do.
		case p == 1:
			stack.Swap(1)
			ops = append(ops, Op{Kind: OpSwap, N: 1})
		default:
			stack.Movup(p)
			ops = append(ops, Op{Kind: OpMovup, N: p})
		}
	}
	return ops, nil
}

// alreadySolved reports whether the top len(expected) operands on stack
// already read, top-down, exactly as expected.
func alreadySolved(expected []hir.Value, stack *operand.OperandStack) bool {
	if stack.Len() < len(expected) {
		return false
	}
	for i, v := range expected {
		o := stack.Get(i)
		got, ok := o.AsValue()
		if !ok || got != v {
			return false
		}
	}
	return true
}
