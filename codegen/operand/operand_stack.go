package operand

import (
	"fmt"

	"github.com/0xPolygonMiden/compiler-sub002/hir"
)

// OperandStack emulates the VM's actual operand stack while the emitter
// walks the SSA representation of a function (spec.md §4.1). Its API
// mirrors the primitive stack-manipulation instructions the emitter can
// produce, one-to-one, so that mutating this structure and emitting the
// corresponding Op happen in lockstep (stack.rs OperandStack).
type OperandStack struct {
	stack []Operand
}

// New returns an empty operand stack.
func New() *OperandStack { return &OperandStack{stack: make([]Operand, 0, 16)} }

// Rename overwrites the SSA identity of the nth operand from the top (0 =
// top), preserving its type.
func (s *OperandStack) Rename(n int, v hir.Value) {
	idx := s.realIndex(n)
	s.stack[idx].Rename(v)
}

// Clone returns an independent copy of the stack, so that branching control
// flow can fork separate futures from a common point (codegen/function's
// treeified CFG traversal, spec.md §4.6).
func (s *OperandStack) Clone() *OperandStack {
	cp := make([]Operand, len(s.stack))
	copy(cp, s.stack)
	return &OperandStack{stack: cp}
}

// Find returns the position (0 = top) of the operand tagged with value v,
// and whether it was found.
func (s *OperandStack) Find(v hir.Value) (int, bool) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if val, ok := s.stack[i].AsValue(); ok && val == v {
			return len(s.stack) - 1 - i, true
		}
	}
	return 0, false
}

// IsEmpty reports whether the stack holds no operands.
func (s *OperandStack) IsEmpty() bool { return len(s.stack) == 0 }

// RawLen returns the number of raw field elements on the stack.
func (s *OperandStack) RawLen() int {
	n := 0
	for _, o := range s.stack {
		n += o.Size()
	}
	return n
}

// Len returns the number of logical operands on the stack.
func (s *OperandStack) Len() int { return len(s.stack) }

// realIndex converts a logical from-the-top index into a slice index,
// applying the same bounds and "effective index ≤ 16" checks as indexing
// the real Miden stack (spec.md §7 "operand-stack overflow").
func (s *OperandStack) realIndex(n int) int {
	ln := len(s.stack)
	if n >= ln {
		panic(fmt.Sprintf("BUG: invalid operand stack index (%d): only %d operands are available", n, ln))
	}
	eff := 0
	for i := 0; i <= n; i++ {
		eff += s.stack[ln-1-i].Size()
	}
	if eff > 16 {
		panic(fmt.Sprintf("BUG: invalid operand stack index (%d): requires access to more than 16 elements, which is not supported in Miden", n))
	}
	return ln - n - 1
}

// Get returns a copy of the nth operand from the top (0 = top).
func (s *OperandStack) Get(n int) Operand { return s.stack[s.realIndex(n)] }

// EffectiveIndex returns the real-stack index of the first raw element of
// the operand at logical position index.
func (s *OperandStack) EffectiveIndex(index int) int {
	if index >= len(s.stack) {
		panic(fmt.Sprintf("BUG: expected %d to be less than %d", index, len(s.stack)))
	}
	sum := 0
	for i := 0; i < index; i++ {
		sum += s.stack[len(s.stack)-1-i].Size()
	}
	return sum
}

// EffectiveIndexInclusive returns the real-stack index of the last raw
// element of the operand at logical position index.
func (s *OperandStack) EffectiveIndexInclusive(index int) int {
	if index >= len(s.stack) {
		panic(fmt.Sprintf("BUG: expected %d to be less than %d", index, len(s.stack)))
	}
	sum := 0
	for i := 0; i <= index; i++ {
		sum += s.stack[len(s.stack)-1-i].Size()
	}
	return sum - 1
}

// Peek returns the top operand without consuming it.
func (s *OperandStack) Peek() (Operand, bool) {
	if len(s.stack) == 0 {
		return Operand{}, false
	}
	return s.stack[len(s.stack)-1], true
}

// Peekw returns the top word (4 raw elements) without consuming it, tearing
// operands as necessary, without mutating the stack.
func (s *OperandStack) Peekw() ([4]Operand, bool) {
	if s.RawLen() < 4 {
		return [4]Operand{}, false
	}
	start := len(s.stack) - 4
	if start < 0 {
		start = 0
	}
	window := append([]Operand(nil), s.stack[start:]...)
	var word [4]Operand
	idx := 0
	for idx < 4 {
		top := window[len(window)-1]
		window = window[:len(window)-1]
		if top.Size() == 1 {
			word[idx] = top
			idx++
		} else {
			word[idx] = top.Pop()
			idx++
			window = append(window, top)
		}
	}
	return word, true
}

// Padw pushes a word of u32 zeroes on top of the stack.
func (s *OperandStack) Padw() {
	zero := NewFromImmediate(hir.NewImmediate(hir.TypeU32, 0))
	s.stack = append(s.stack, zero, zero, zero, zero)
}

// Push pushes o on top of the stack.
func (s *OperandStack) Push(o Operand) { s.stack = append(s.stack, o) }

// Pushw pushes a word of single-element operands on top of the stack.
// Panics if any operand is larger than one field element.
func (s *OperandStack) Pushw(word [4]Operand) {
	for _, o := range word {
		if o.Size() != 1 {
			panic("BUG: a word must be exactly 4 field elements in size")
		}
	}
	for i := 3; i >= 0; i-- {
		s.stack = append(s.stack, word[i])
	}
}

// Pop pops and returns the top operand.
func (s *OperandStack) Pop() (Operand, bool) {
	if len(s.stack) == 0 {
		return Operand{}, false
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return top, true
}

// Popw pops and returns the top word (4 raw elements), tearing operands as
// necessary.
func (s *OperandStack) Popw() ([4]Operand, bool) {
	if s.RawLen() < 4 {
		return [4]Operand{}, false
	}
	var word [4]Operand
	idx := 0
	for idx < 4 {
		top := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		if top.Size() == 1 {
			word[idx] = top
			idx++
		} else {
			word[idx] = top.Pop()
			idx++
			s.stack = append(s.stack, top)
		}
	}
	return word, true
}

// Drop drops the top operand. Panics if the stack is empty.
func (s *OperandStack) Drop() {
	if len(s.stack) == 0 {
		panic("BUG: operand stack is empty")
	}
	s.stack = s.stack[:len(s.stack)-1]
}

// Dropw drops the top word (4 raw elements), tearing the boundary operand
// if it straddles the word boundary.
func (s *OperandStack) Dropw() {
	if s.RawLen() < 4 {
		panic("BUG: expected at least a word on the operand stack")
	}
	dropped := 0
	for len(s.stack) > 0 {
		elem := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		needed := 4 - dropped
		size := elem.Size()
		dropped += size
		switch {
		case needed == size:
			return
		case needed < size:
			for i := 0; i < needed; i++ {
				elem.Pop()
			}
			s.stack = append(s.stack, elem)
			return
		default:
			continue
		}
	}
}

// Dropn drops the top n operands.
func (s *OperandStack) Dropn(n int) {
	ln := len(s.stack)
	if n > ln {
		panic(fmt.Sprintf("BUG: unable to drop %d operands, operand stack only has %d", n, ln))
	}
	s.stack = s.stack[:ln-n]
}

// Dup duplicates the nth operand from the top (0 = top) onto the top.
func (s *OperandStack) Dup(n int) {
	o := s.Get(n)
	s.stack = append(s.stack, o)
}

// Swap exchanges the nth operand from the top with the top operand. Panics
// if n is 0 or out of bounds.
func (s *OperandStack) Swap(n int) {
	if n == 0 {
		panic("BUG: invalid swap, index must be in the range 1..=15")
	}
	ln := len(s.stack)
	if n >= ln {
		panic(fmt.Sprintf("BUG: invalid operand stack index (%d), only %d operands are available", n, ln))
	}
	a, b := ln-1, ln-1-n
	s.stack[a], s.stack[b] = s.stack[b], s.stack[a]
}

// Movup moves the nth operand from the top to the top of the stack. Panics
// if n is 0 or out of bounds.
func (s *OperandStack) Movup(n int) {
	if n == 0 {
		panic("BUG: invalid move, index must be in the range 1..=15")
	}
	ln := len(s.stack)
	if n >= ln {
		panic(fmt.Sprintf("BUG: invalid operand stack index (%d), only %d operands are available", n, ln))
	}
	mid := ln - (n + 1)
	sub := s.stack[mid:]
	first := sub[0]
	copy(sub, sub[1:])
	sub[len(sub)-1] = first
}

// Movdn makes the top operand the nth operand from the top. Panics if n is
// 0 or out of bounds.
func (s *OperandStack) Movdn(n int) {
	if n == 0 {
		panic("BUG: invalid move, index must be in the range 1..=15")
	}
	ln := len(s.stack)
	if n >= ln {
		panic(fmt.Sprintf("BUG: invalid operand stack index (%d), only %d operands are available", n, ln))
	}
	mid := ln - (n + 1)
	sub := s.stack[mid:]
	last := sub[len(sub)-1]
	copy(sub[1:], sub[:len(sub)-1])
	sub[0] = last
}

// Operands returns the stack's operands, top first. Intended for debug
// printing; callers must not rely on the returned slice aliasing internal
// storage.
func (s *OperandStack) Operands() []Operand {
	out := make([]Operand, len(s.stack))
	for i, o := range s.stack {
		out[len(s.stack)-1-i] = o
	}
	return out
}
