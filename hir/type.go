// Package hir provides the minimal concrete implementation of the HIR
// external-collaborator interface that codegen/* consumes (spec.md §6).
// HIR construction, parsing, and module loading are out of scope for the
// code generator itself; this package exists only so the generator has a
// real type to program against and so tests can drive it end-to-end.
package hir

import "fmt"

// Kind enumerates the closed scalar/composite type set consumed by the
// generator (spec.md §3).
type Kind uint8

const (
	KindInvalid Kind = iota
	KindI1
	KindI8
	KindU8
	KindI16
	KindU16
	KindI32
	KindU32
	KindI64
	KindU64
	KindI128
	KindU128
	KindFelt
	KindF64
	KindPtr
	KindArray
	KindStruct
	// kindRawWord is a synthetic kind produced when tearing a wide/composite
	// type apart element-by-element; it is never constructed directly by
	// callers. It simply remembers the remaining one-element slots.
	kindRawWord
)

// Type is a value type in the closed HIR type system.
type Type struct {
	kind     Kind
	elem     *Type
	arrayLen int
	fields   []Type
	raw      []Type
}

var (
	TypeI1   = Type{kind: KindI1}
	TypeI8   = Type{kind: KindI8}
	TypeU8   = Type{kind: KindU8}
	TypeI16  = Type{kind: KindI16}
	TypeU16  = Type{kind: KindU16}
	TypeI32  = Type{kind: KindI32}
	TypeU32  = Type{kind: KindU32}
	TypeI64  = Type{kind: KindI64}
	TypeU64  = Type{kind: KindU64}
	TypeI128 = Type{kind: KindI128}
	TypeU128 = Type{kind: KindU128}
	TypeFelt = Type{kind: KindFelt}
	TypeF64  = Type{kind: KindF64}
)

// NewPtr returns a typed pointer to elem.
func NewPtr(elem Type) Type {
	e := elem
	return Type{kind: KindPtr, elem: &e}
}

// NewArray returns an array of n elements of type elem.
func NewArray(elem Type, n int) Type {
	e := elem
	return Type{kind: KindArray, elem: &e, arrayLen: n}
}

// NewStruct returns a struct type with the given fields, in declaration order.
func NewStruct(fields ...Type) Type {
	fs := make([]Type, len(fields))
	copy(fs, fields)
	return Type{kind: KindStruct, fields: fs}
}

func rawWord(parts []Type) Type {
	return Type{kind: kindRawWord, raw: parts}
}

// Kind returns the type's kind.
func (t Type) Kind() Kind { return t.kind }

// Invalid reports whether this is the zero Type.
func (t Type) Invalid() bool { return t.kind == KindInvalid }

// IsInt reports whether t is one of the fixed-width integer types (not Felt).
func (t Type) IsInt() bool {
	switch t.kind {
	case KindI1, KindI8, KindU8, KindI16, KindU16, KindI32, KindU32, KindI64, KindU64, KindI128, KindU128:
		return true
	default:
		return false
	}
}

// IsSigned reports whether t is a signed integer type.
func (t Type) IsSigned() bool {
	switch t.kind {
	case KindI1, KindI8, KindI16, KindI32, KindI64, KindI128:
		return true
	default:
		return false
	}
}

// Bits returns the bit width of a scalar integer type. Panics for non-scalar types.
func (t Type) Bits() uint32 {
	switch t.kind {
	case KindI1:
		return 1
	case KindI8, KindU8:
		return 8
	case KindI16, KindU16:
		return 16
	case KindI32, KindU32:
		return 32
	case KindI64, KindU64:
		return 64
	case KindI128, KindU128:
		return 128
	case KindFelt:
		return 63 // log2(p), p = 2^64-2^32+1
	case KindF64:
		return 64
	default:
		panic(fmt.Sprintf("BUG: Bits() called on non-scalar type %s", t))
	}
}

// Elem returns the pointee/element type of a Ptr or Array type.
func (t Type) Elem() Type {
	if t.elem == nil {
		panic("BUG: Elem() called on a type with no element: " + t.String())
	}
	return *t.elem
}

// ArrayLen returns the number of elements in an Array type.
func (t Type) ArrayLen() int {
	if t.kind != KindArray {
		panic("BUG: ArrayLen() called on non-array type: " + t.String())
	}
	return t.arrayLen
}

// Fields returns the field types of a Struct type, in declaration order.
func (t Type) Fields() []Type {
	if t.kind != KindStruct {
		panic("BUG: Fields() called on non-struct type: " + t.String())
	}
	return t.fields
}

// ElementCount returns the number of field elements this type occupies on
// the operand stack (spec.md §3): 1 for everything <= 32 bits and pointers,
// 2 for 64-bit integers and F64, 4 for 128-bit integers, and the sum of
// parts for composites.
func (t Type) ElementCount() int {
	switch t.kind {
	case KindI1, KindI8, KindU8, KindI16, KindU16, KindI32, KindU32, KindFelt, KindPtr:
		return 1
	case KindI64, KindU64, KindF64:
		return 2
	case KindI128, KindU128:
		return 4
	case KindArray:
		return t.ArrayLen() * t.Elem().ElementCount()
	case KindStruct:
		n := 0
		for _, f := range t.fields {
			n += f.ElementCount()
		}
		return n
	case kindRawWord:
		return len(t.raw)
	default:
		panic(fmt.Sprintf("BUG: ElementCount() called on invalid type %s", t))
	}
}

// Align returns the minimum alignment, in bytes, of this type in linear memory.
func (t Type) Align() uint32 {
	switch t.kind {
	case KindI1, KindI8, KindU8:
		return 1
	case KindI16, KindU16:
		return 2
	case KindI32, KindU32, KindPtr:
		return 4
	case KindI64, KindU64, KindFelt, KindF64:
		return 8
	case KindI128, KindU128:
		return 16
	case KindArray:
		return t.Elem().Align()
	case KindStruct:
		var max uint32 = 1
		for _, f := range t.fields {
			if a := f.Align(); a > max {
				max = a
			}
		}
		return max
	default:
		panic(fmt.Sprintf("BUG: Align() called on invalid type %s", t))
	}
}

// ToRawParts returns the canonical lowering of t to an ordered list of
// one-element slots, with the lowest-addressed slot first (i.e. nearest the
// stack top once pushed) (spec.md §3).
func (t Type) ToRawParts() []Type {
	switch t.kind {
	case KindI1, KindI8, KindU8, KindI16, KindU16, KindI32, KindU32, KindFelt, KindPtr:
		return []Type{t}
	case KindI64, KindU64:
		lo, hi := TypeU32, TypeU32
		return []Type{lo, hi}
	case KindF64:
		return []Type{TypeU32, TypeU32}
	case KindI128, KindU128:
		return []Type{TypeU32, TypeU32, TypeU32, TypeU32}
	case KindArray:
		parts := make([]Type, 0, t.ElementCount())
		elemParts := t.Elem().ToRawParts()
		for i := 0; i < t.ArrayLen(); i++ {
			parts = append(parts, elemParts...)
		}
		return parts
	case KindStruct:
		parts := make([]Type, 0, t.ElementCount())
		for _, f := range t.fields {
			parts = append(parts, f.ToRawParts()...)
		}
		return parts
	case kindRawWord:
		return t.raw
	default:
		panic(fmt.Sprintf("BUG: ToRawParts() called on invalid type %s", t))
	}
}

// PopFrontElement removes the nearest-top one-element slot from t, returning
// that slot's type and the type of whatever elements remain (nil if t was
// already a single element). This grounds codegen/operand's tearing of
// multi-element operands (SPEC_FULL.md §12; original_source stack.rs
// Operand::pop_element).
func (t Type) PopFrontElement() (front Type, rest *Type) {
	parts := t.ToRawParts()
	if len(parts) == 0 {
		panic("BUG: PopFrontElement() called on a zero-sized type: " + t.String())
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	r := rawWord(parts[1:])
	return parts[0], &r
}

// Equal reports structural equality of two types.
func (t Type) Equal(o Type) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case KindPtr:
		return t.Elem().Equal(o.Elem())
	case KindArray:
		return t.arrayLen == o.arrayLen && t.Elem().Equal(o.Elem())
	case KindStruct:
		if len(t.fields) != len(o.fields) {
			return false
		}
		for i := range t.fields {
			if !t.fields[i].Equal(o.fields[i]) {
				return false
			}
		}
		return true
	case kindRawWord:
		if len(t.raw) != len(o.raw) {
			return false
		}
		for i := range t.raw {
			if !t.raw[i].Equal(o.raw[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t.kind {
	case KindInvalid:
		return "invalid"
	case KindI1:
		return "i1"
	case KindI8:
		return "i8"
	case KindU8:
		return "u8"
	case KindI16:
		return "i16"
	case KindU16:
		return "u16"
	case KindI32:
		return "i32"
	case KindU32:
		return "u32"
	case KindI64:
		return "i64"
	case KindU64:
		return "u64"
	case KindI128:
		return "i128"
	case KindU128:
		return "u128"
	case KindFelt:
		return "felt"
	case KindF64:
		return "f64"
	case KindPtr:
		return "ptr<" + t.Elem().String() + ">"
	case KindArray:
		return fmt.Sprintf("[%s; %d]", t.Elem().String(), t.arrayLen)
	case KindStruct:
		return "struct" + fmt.Sprint(t.fields)
	case kindRawWord:
		return fmt.Sprintf("rawword%d", len(t.raw))
	default:
		return fmt.Sprintf("type(%d)", t.kind)
	}
}
