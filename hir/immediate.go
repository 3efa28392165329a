package hir

import (
	"fmt"

	"github.com/holiman/uint256"
)

// FeltModulus is the Miden field's prime, p = 2^64 - 2^32 + 1.
const FeltModulus uint64 = 0xFFFFFFFF00000001

// Felt is a native field element of the target VM.
type Felt uint64

// NewFelt reduces v modulo the field prime.
func NewFelt(v uint64) Felt {
	if v >= FeltModulus {
		return Felt(v % FeltModulus)
	}
	return Felt(v)
}

// Immediate is a literal value of one of the HIR scalar types.
type Immediate struct {
	ty  Type
	bits uint256.Int // low bits.ty.Bits() hold the value, 2's complement for signed
}

// NewImmediate constructs an Immediate of the given type from a raw unsigned
// 64-bit pattern (sign-extension, if any, is the caller's responsibility --
// mirrors how HIR builders already carry typed bit patterns).
func NewImmediate(ty Type, raw uint64) Immediate {
	var b uint256.Int
	b.SetUint64(raw)
	return Immediate{ty: ty, bits: b}
}

// NewImmediate128 constructs a 128-bit Immediate from hi/lo 64-bit halves.
func NewImmediate128(ty Type, hi, lo uint64) Immediate {
	var b uint256.Int
	var hiw, low uint256.Int
	hiw.SetUint64(hi)
	low.SetUint64(lo)
	hiw.Lsh(&hiw, 64)
	b.Or(&hiw, &low)
	return Immediate{ty: ty, bits: b}
}

// NewFeltImmediate constructs a Felt-typed Immediate.
func NewFeltImmediate(f Felt) Immediate {
	return NewImmediate(TypeFelt, uint64(f))
}

// Type returns the type of the immediate.
func (im Immediate) Type() Type { return im.ty }

// Uint64 returns the low 64 bits of the immediate's bit pattern.
func (im Immediate) Uint64() uint64 { return im.bits.Uint64() }

// Limbs32 returns the immediate decomposed into ElementCount() 32-bit limbs,
// ordered nearest-stack-top first (spec.md §4.2 "multi-limb expansions").
func (im Immediate) Limbs32() []uint32 {
	n := im.ty.ElementCount()
	limbs := make([]uint32, n)
	v := im.bits
	mask := uint256.NewInt(0xFFFFFFFF)
	for i := 0; i < n; i++ {
		var lo uint256.Int
		lo.And(&v, mask)
		limbs[i] = uint32(lo.Uint64())
		v.Rsh(&v, 32)
	}
	return limbs
}

// PopFrontLimb tears the nearest-top 32-bit limb off im, returning it as a
// standalone U32 immediate together with the remaining immediate (typed one
// raw slot narrower). Panics if im is already a single element. Grounds
// codegen/operand.Operand.Pop's handling of oversized constant operands
// (original_source stack.rs Operand::pop's per-width Immediate match arms,
// generalized here since Immediate already carries its bits in a single
// wide integer rather than a per-width Rust enum).
func (im Immediate) PopFrontLimb() (front Immediate, rest Immediate) {
	limbs := im.Limbs32()
	if len(limbs) <= 1 {
		panic("BUG: PopFrontLimb called on a single-element immediate: " + im.String())
	}
	_, restTy := im.ty.PopFrontElement()
	front = NewImmediate(TypeU32, uint64(limbs[0]))

	var v uint256.Int
	for i := len(limbs) - 1; i >= 1; i-- {
		v.Lsh(&v, 32)
		var limb uint256.Int
		limb.SetUint64(uint64(limbs[i]))
		v.Or(&v, &limb)
	}
	rest = Immediate{ty: *restTy, bits: v}
	return front, rest
}

// Equal reports whether two immediates have the same type and bit pattern.
func (im Immediate) Equal(o Immediate) bool {
	return im.ty.Equal(o.ty) && im.bits.Eq(&o.bits)
}

// String implements fmt.Stringer.
func (im Immediate) String() string {
	return fmt.Sprintf("%s %s", im.ty, im.bits.Dec())
}
