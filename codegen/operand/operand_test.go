package operand

import (
	"testing"

	"github.com/0xPolygonMiden/compiler-sub002/hir"
)

func u32imm(n uint64) Operand {
	return NewFromImmediate(hir.NewImmediate(hir.TypeU32, n))
}

func valOperand(id uint32, ty hir.Type) Operand {
	return NewFromValue(TypedValue{Value: hir.Value(id), Type: ty})
}

// TestOperandStackHomogenousSizes covers a stack built entirely of
// single-element operands, where logical index and raw index coincide.
func TestOperandStackHomogenousSizes(t *testing.T) {
	s := New()
	s.Push(u32imm(1))
	s.Push(u32imm(2))
	s.Push(u32imm(3))
	s.Push(u32imm(4))

	if s.Len() != 4 || s.RawLen() != 4 {
		t.Fatalf("expected 4 operands of raw len 4, got len=%d raw=%d", s.Len(), s.RawLen())
	}

	top, ok := s.Peek()
	if !ok {
		t.Fatal("expected a top operand")
	}
	if imm, ok := top.Value().AsConstant(); !ok {
		t.Fatal("expected top to be a constant")
	} else if got, _ := imm.Immediate(); got.Uint64() != 4 {
		t.Fatalf("expected top == 4, got %d", got.Uint64())
	}

	if idx := s.EffectiveIndex(2); idx != 2 {
		t.Fatalf("expected effective index 2 at logical index 2, got %d", idx)
	}

	word, ok := s.Popw()
	if !ok {
		t.Fatal("expected popw to succeed with 4 raw elements available")
	}
	for i, want := range []uint64{4, 3, 2, 1} {
		imm, _ := word[i].Value().AsConstant()
		got, _ := imm.Immediate()
		if got.Uint64() != want {
			t.Fatalf("word[%d]: want %d, got %d", i, want, got.Uint64())
		}
	}
	if !s.IsEmpty() {
		t.Fatalf("expected stack to be drained, got len=%d", s.Len())
	}
}

// TestOperandStackValues covers renaming and lookup of SSA-tagged operands.
func TestOperandStackValues(t *testing.T) {
	s := New()
	s.Push(valOperand(1, hir.TypeU32))
	s.Push(valOperand(2, hir.TypeFelt))
	s.Push(valOperand(3, hir.TypeI1))

	idx, ok := s.Find(hir.Value(2))
	if !ok || idx != 1 {
		t.Fatalf("expected to find value 2 at index 1, got idx=%d ok=%v", idx, ok)
	}

	s.Rename(1, hir.Value(99))
	idx, ok = s.Find(hir.Value(99))
	if !ok || idx != 1 {
		t.Fatalf("expected renamed value 99 at index 1, got idx=%d ok=%v", idx, ok)
	}
	if _, ok := s.Find(hir.Value(2)); ok {
		t.Fatal("expected value 2 to no longer be findable after rename")
	}

	renamed := s.Get(1)
	if ty := renamed.Ty(); !ty.Equal(hir.TypeFelt) {
		t.Fatalf("rename must preserve type, got %s", ty)
	}
}

// TestOperandStackHeterogenousSizes covers a mix of single-element and
// multi-element operands, exercising peekw/popw tearing and index movement
// across operand boundaries.
func TestOperandStackHeterogenousSizes(t *testing.T) {
	s := New()
	s.Push(u32imm(1))                        // size 1, logical idx 2 from top after pushes below
	s.Push(NewFromImmediate(hir.NewImmediate(hir.TypeU64, 0xAABBCCDD))) // size 2
	s.Push(u32imm(2))                        // size 1, top

	if got := s.RawLen(); got != 4 {
		t.Fatalf("expected raw len 4 (1+2+1), got %d", got)
	}
	if got := s.Len(); got != 3 {
		t.Fatalf("expected 3 logical operands, got %d", got)
	}

	word, ok := s.Peekw()
	if !ok {
		t.Fatal("expected peekw to succeed")
	}
	if s.Len() != 3 {
		t.Fatalf("peekw must not mutate the stack, got len=%d", s.Len())
	}
	imm0, _ := word[0].Value().AsConstant()
	v0, _ := imm0.Immediate()
	if v0.Uint64() != 2 {
		t.Fatalf("word[0] should be the top u32 literal 2, got %d", v0.Uint64())
	}

	// Swap the top (size 1) with the u64 just below it.
	s.Swap(1)
	top := s.Get(0)
	if ty := top.Ty(); !ty.Equal(hir.TypeU64) {
		t.Fatalf("expected u64 on top after swap, got %s", ty)
	}
	if top.Size() != 2 {
		t.Fatalf("expected swapped-in operand to occupy 2 raw slots, got %d", top.Size())
	}

	// Movup the bottom operand (the original first u32) to the top.
	s.Movup(2)
	newTop := s.Get(0)
	if newTop.Size() != 1 {
		t.Fatalf("expected the moved-up operand to be single-element, got size %d", newTop.Size())
	}

	s.Dropw()
	if !s.IsEmpty() {
		t.Fatalf("expected dropw to drain all 4 raw elements, got raw len %d", s.RawLen())
	}
}

func TestOperandPopTearsOneLimbAtATime(t *testing.T) {
	o := NewFromImmediate(hir.NewImmediate(hir.TypeU64, 0x1_0000_0002))
	if o.Size() != 2 {
		t.Fatalf("expected u64 operand to occupy 2 raw slots, got %d", o.Size())
	}
	front := o.Pop()
	if front.Size() != 1 {
		t.Fatalf("expected popped limb to be single-element, got %d", front.Size())
	}
	if o.Size() != 1 {
		t.Fatalf("expected remainder to be single-element, got %d", o.Size())
	}
}
