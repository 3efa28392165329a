package operand

import "github.com/0xPolygonMiden/compiler-sub002/hir"

// Constraint tags how an operand is consumed at a use site: Move removes it
// from the stack, Copy preserves it for later use (spec.md §4.5 "per-arg
// Move/Copy constraints").
type Constraint uint8

const (
	Move Constraint = iota
	Copy
)

func (c Constraint) String() string {
	if c == Copy {
		return "copy"
	}
	return "move"
}

// TypedValue pairs an SSA value with its known type.
type TypedValue struct {
	Value hir.Value
	Type  hir.Type
}

// kind discriminates the three ways an operand-stack slot can be described.
type kind uint8

const (
	kindConst kind = iota
	kindValue
	kindType
)

// Type represents what the operand stack knows about one logical slot: a
// literal (Const), an SSA value of known type (Value), or merely a type with
// no value identity (Type) -- the state a multi-element operand decays into
// once one of its parts has been torn off and popped (stack.rs
// OperandType).
type Type struct {
	kind  kind
	cst   ConstantValue
	value TypedValue
	ty    hir.Type
}

// FromConst wraps a literal.
func FromConst(c ConstantValue) Type { return Type{kind: kindConst, cst: c} }

// FromValue wraps an SSA value of known type.
func FromValue(v TypedValue) Type { return Type{kind: kindValue, value: v} }

// FromType wraps a bare type with no associated value.
func FromType(ty hir.Type) Type { return Type{kind: kindType, ty: ty} }

// FromImmediate is a convenience constructor mirroring stack.rs's
// `From<Immediate> for OperandType`.
func FromImmediate(imm hir.Immediate) Type { return FromConst(NewConstantImm(imm)) }

// Ty returns the HIR type this operand currently presents.
func (o Type) Ty() hir.Type {
	switch o.kind {
	case kindConst:
		return o.cst.Type()
	case kindValue:
		return o.value.Type
	default:
		return o.ty
	}
}

// AsValue returns the wrapped SSA value, if this operand still has one.
func (o Type) AsValue() (hir.Value, bool) {
	if o.kind != kindValue {
		return hir.ValueInvalid, false
	}
	return o.value.Value, true
}

// AsConstant returns the wrapped constant, if this operand is a literal.
func (o Type) AsConstant() (ConstantValue, bool) {
	if o.kind != kindConst {
		return ConstantValue{}, false
	}
	return o.cst, true
}

// IsBareType reports whether this operand has decayed to a value-less type.
func (o Type) IsBareType() bool { return o.kind == kindType }

// WithValue returns a copy of o with its SSA identity renamed to v (the
// type is assumed unchanged); mirrors OperandStack::rename's per-slot
// behavior (stack.rs).
func (o Type) WithValue(v hir.Value) Type {
	return Type{kind: kindValue, value: TypedValue{Value: v, Type: o.Ty()}}
}

// Equal reports whether two operand descriptions denote the same logical
// slot: two Value operands are equal iff their SSA identities match
// (stack.rs PartialEq for OperandType compares Value(TypedValue) by value
// identity, ignoring type).
func (o Type) Equal(other Type) bool {
	if o.kind != other.kind {
		return false
	}
	switch o.kind {
	case kindValue:
		return o.value.Value == other.value.Value
	case kindConst:
		return o.cst.Equal(other.cst)
	default:
		return o.ty.Equal(other.ty)
	}
}
