package operand

import "github.com/0xPolygonMiden/compiler-sub002/hir"

// Operand is one logical slot of an OperandStack: it may correspond to up to
// a word (4 raw elements) of the real VM operand stack (stack.rs Operand).
// word holds the raw one-element slot types, nearest-stack-top element
// last, so that tearing off the top element is a plain slice-shrink from
// the end.
type Operand struct {
	word []hir.Type
	typ  Type
}

// New constructs an operand from its high-level description, decomposing its
// type into the raw word of one-element slots it occupies.
func New(t Type) Operand {
	parts := t.Ty().ToRawParts()
	if len(parts) == 0 {
		panic("BUG: invalid operand: must be a sized type")
	}
	if len(parts) > 4 {
		panic("BUG: invalid operand: must be smaller than or equal to a word")
	}
	word := append([]hir.Type(nil), parts...)
	if len(word) > 1 {
		for i, j := 0, len(word)-1; i < j; i, j = i+1, j-1 {
			word[i], word[j] = word[j], word[i]
		}
	}
	return Operand{word: word, typ: t}
}

// NewFromImmediate builds a single operand from an immediate literal.
func NewFromImmediate(imm hir.Immediate) Operand { return New(FromImmediate(imm)) }

// NewFromValue builds an operand from an SSA value of known type.
func NewFromValue(v TypedValue) Operand { return New(FromValue(v)) }

// NewFromType builds an operand carrying only type information.
func NewFromType(ty hir.Type) Operand { return New(FromType(ty)) }

// Size returns how many raw elements of the real stack this operand spans.
func (o Operand) Size() int { return len(o.word) }

// Value returns the high-level description of this operand.
func (o Operand) Value() Type { return o.typ }

// Ty returns the HIR type of this operand.
func (o Operand) Ty() hir.Type { return o.typ.Ty() }

// AsValue returns the SSA value this operand is tagged with, if any.
func (o Operand) AsValue() (hir.Value, bool) { return o.typ.AsValue() }

// Rename overwrites this operand's SSA identity, preserving its type.
func (o *Operand) Rename(v hir.Value) { o.typ = o.typ.WithValue(v) }

// Pop tears the nearest-top raw element off o, returning it as its own
// single-element Operand and narrowing o in place. Panics if o is already a
// single element -- callers must check Size() first (stack.rs
// Operand::pop, generalized to tear exactly one raw element per call
// regardless of the underlying OperandType variant).
func (o *Operand) Pop() Operand {
	if len(o.word) == 1 {
		panic("BUG: Pop called on a single-element operand")
	}

	poppedTy := o.word[len(o.word)-1]
	o.word = o.word[:len(o.word)-1]

	switch o.typ.kind {
	case kindConst:
		if imm, ok := o.typ.cst.Immediate(); ok {
			front, rest := imm.PopFrontLimb()
			o.typ = FromImmediate(rest)
			return Operand{word: []hir.Type{poppedTy}, typ: FromImmediate(front)}
		}
		b, _ := o.typ.cst.Bytes()
		if len(b) <= 4 {
			panic("BUG: operand constant bytes too narrow to tear further")
		}
		taken := append([]byte(nil), b[:4]...)
		rest := append([]byte(nil), b[4:]...)
		o.typ = FromConst(NewConstantBytes(rest))
		return Operand{word: []hir.Type{poppedTy}, typ: FromConst(NewConstantBytes(taken))}
	default:
		front, rest := o.typ.Ty().PopFrontElement()
		if rest == nil {
			panic("BUG: unreachable: operand word longer than its type's raw parts")
		}
		o.typ = FromType(*rest)
		return Operand{word: []hir.Type{poppedTy}, typ: FromType(front)}
	}
}
