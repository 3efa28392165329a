package emit

import (
	"github.com/0xPolygonMiden/compiler-sub002/codegenapi"
	"github.com/0xPolygonMiden/compiler-sub002/hir"
	"github.com/0xPolygonMiden/compiler-sub002/masm"
)

// UnaryOp emits a unary opcode against the top operand of ty, popping it and
// pushing a result of dst (dst == ty for everything except Trunc/Zext/
// Sext/Cast/IntToPtr/PtrToInt). Mirrors emit_unary_op's per-type dispatch
// (original_source codegen/emit/unary.rs).
func UnaryOp(e *Emitter, op hir.Opcode, mode hir.OverflowMode, ty, dst hir.Type) error {
	switch op {
	case hir.OpNeg:
		return e.neg(mode, ty)
	case hir.OpInv:
		return e.feltOnly(masm.Inv(), hir.OpInv, ty)
	case hir.OpIncr:
		return e.incr(mode, ty)
	case hir.OpPow2:
		return e.feltOnly(masm.Pow2(), hir.OpPow2, ty)
	case hir.OpIsOdd:
		return e.isOdd(ty)
	case hir.OpNot:
		return e.not(ty)
	case hir.OpClz, hir.OpCtz, hir.OpClo, hir.OpCto, hir.OpPopcnt:
		return e.bitCount(op, ty)
	case hir.OpTrunc:
		return e.trunc(ty, dst)
	case hir.OpZext:
		return e.zext(ty, dst)
	case hir.OpSext:
		return e.sext(ty, dst)
	case hir.OpCast, hir.OpIntToPtr, hir.OpPtrToInt:
		return e.cast(ty, dst)
	default:
		e.pop()
		e.push(dst)
		return codegenapi.Unimplemented(op.String(), ty.String())
	}
}

// feltOnly is the common shape for unary opcodes the teacher only defines
// over Felt (Inv, Pow2: field inverse and field exponentiation have no
// integer analogue).
func (e *Emitter) feltOnly(op masm.Op, opcode hir.Opcode, ty hir.Type) error {
	e.pop()
	defer e.push(hir.TypeFelt)
	if ty.Kind() != hir.KindFelt {
		return codegenapi.Unimplemented(opcode.String(), ty.String())
	}
	e.emit(op)
	return nil
}

// neg covers Neg. Felt negation is native. Integer negation (two's
// complement) is expressed as 0 - x over the u32 matrix for the
// single-element family; wider integers are Unimplemented, matching the
// absence of any wide subtraction path (see addSub).
func (e *Emitter) neg(mode hir.OverflowMode, ty hir.Type) error {
	opcode := hir.OpNeg.String()
	e.pop()
	defer e.resultType(ty, mode)

	switch {
	case ty.Kind() == hir.KindFelt:
		e.emit(masm.Neg())
		return nil
	case isSingleElement(ty):
		// stack: x -> 0 x -> x 0 -> (0 - x)
		e.emit(masm.PushU32(0))
		e.emit(masm.Swap(1))
		e.emit(masm.U32(masm.U32OpSub, mode))
		return nil
	default:
		return codegenapi.Unimplemented(opcode, ty.String())
	}
}

// incr covers Incr (x+1). Felt has a dedicated opcode; the single-element
// integer family reduces to U32Imm(Add, 1).
func (e *Emitter) incr(mode hir.OverflowMode, ty hir.Type) error {
	opcode := hir.OpIncr.String()
	e.pop()
	defer e.resultType(ty, mode)

	switch {
	case ty.Kind() == hir.KindFelt:
		e.emit(masm.Incr())
		return nil
	case isSingleElement(ty):
		e.emit(masm.U32Imm(masm.U32OpAdd, mode, hir.NewImmediate(ty, 1)))
		return nil
	default:
		return codegenapi.Unimplemented(opcode, ty.String())
	}
}

// isOdd covers IsOdd. Felt has a dedicated opcode testing the field
// element's low bit. For the single-element integer family it's derived as
// (x & 1) != 0.
func (e *Emitter) isOdd(ty hir.Type) error {
	opcode := hir.OpIsOdd.String()
	e.pop()
	defer e.push(hir.TypeI1)

	switch {
	case ty.Kind() == hir.KindFelt:
		e.emit(masm.IsOdd())
		return nil
	case isSingleElement(ty):
		e.emit(masm.U32Imm(masm.U32OpAnd, hir.Unchecked, hir.NewImmediate(ty, 1)))
		e.emit(masm.U32Imm(masm.U32OpNeq, hir.Unchecked, hir.NewImmediate(hir.TypeU32, 0)))
		return nil
	default:
		return codegenapi.Unimplemented(opcode, ty.String())
	}
}

// not covers bitwise Not: Felt and I1 share the boolean-complement opcode,
// the rest of the single-element family uses the u32 matrix.
func (e *Emitter) not(ty hir.Type) error {
	opcode := hir.OpNot.String()
	e.pop()
	defer e.push(ty)

	switch {
	case ty.Kind() == hir.KindFelt || ty.Kind() == hir.KindI1:
		e.emit(masm.Not())
		return nil
	case isSingleElement(ty):
		e.emit(masm.U32(masm.U32OpNot, hir.Unchecked))
		return nil
	default:
		return codegenapi.Unimplemented(opcode, ty.String())
	}
}

// bitCount covers Clz/Ctz/Clo/Cto/Popcnt, defined only over the
// single-element integer family (the u32 matrix carries exactly these five
// counting opcodes, and nothing analogous exists for Felt or wide types).
func (e *Emitter) bitCount(op hir.Opcode, ty hir.Type) error {
	opcode := op.String()
	e.pop()
	defer e.push(ty)

	if !isSingleElement(ty) {
		return codegenapi.Unimplemented(opcode, ty.String())
	}
	e.emit(masm.U32(bitCountU32Op(op), hir.Unchecked))
	return nil
}

func bitCountU32Op(op hir.Opcode) masm.U32Op {
	switch op {
	case hir.OpClz:
		return masm.U32OpClz
	case hir.OpCtz:
		return masm.U32OpCtz
	case hir.OpClo:
		return masm.U32OpClo
	default:
		return masm.U32OpCto
	}
}

// trunc narrows an integral value. Within the single-element family (and
// Felt, whose low bits serve the same role) truncation is a bare retag: the
// underlying field element already holds the value, a narrower type is
// just a stricter view of the same bits (original_source unary.rs `trunc`'s
// `n <= 32` arms, all of which fall to the same re-push with no emitted
// op). Anything that crosses a limb boundary (64/128-bit sources) needs to
// drop the high limb(s), which this module cannot do without the raw-stack
// ordering this module has declined to guess at elsewhere; those report
// Unimplemented.
func (e *Emitter) trunc(src, dst hir.Type) error {
	e.pop()
	defer e.push(dst)
	if src.Equal(dst) {
		return nil
	}
	if (src.Kind() == hir.KindFelt || isSingleElement(src)) && isSingleElement(dst) {
		return nil
	}
	return codegenapi.Unimplemented(hir.OpTrunc.String(), src.String()+"->"+dst.String())
}

// zext widens an unsigned integral value. Staying within the single-element
// family (or widening a single-element value up to Felt) is a no-op, since
// the family all transparently share the same field-element representation
// (original_source unary.rs `zext`'s "no-op" arms). Crossing into 64/128-bit
// requires new zero high limbs beneath the value (the low limb stays on
// top, per the stack's nearest-top-first limb ordering), which this module
// implements for the single-element -> 64-bit case; 128-bit destinations
// and Felt sources report Unimplemented (the latter's `zext_felt` requires
// a felt-to-limbs decomposition never shown built from primitives here).
func (e *Emitter) zext(src, dst hir.Type) error {
	e.pop()
	defer e.push(dst)
	if src.Equal(dst) {
		return nil
	}
	if isSingleElement(src) && (dst.Kind() == hir.KindFelt || isSingleElement(dst)) {
		return nil
	}
	if isSingleElement(src) && dst.Kind() == hir.KindU64 {
		e.emit(masm.PushU32(0))
		e.emit(masm.Swap(1))
		return nil
	}
	return codegenapi.Unimplemented(hir.OpZext.String(), src.String()+"->"+dst.String())
}

// sext sign-extends an integral value, propagating the source's sign bit
// into the new high limb(s). This module implements the tractable
// single-element -> I64 case (test the sign bit, push all-ones or
// all-zeros); wider destinations and Felt sources are Unimplemented, same
// rationale as zext.
func (e *Emitter) sext(src, dst hir.Type) error {
	e.pop()
	defer e.push(dst)
	if src.Equal(dst) {
		return nil
	}
	if !isSingleElement(src) || !src.IsSigned() || dst.Kind() != hir.KindI64 {
		return codegenapi.Unimplemented(hir.OpSext.String(), src.String()+"->"+dst.String())
	}
	// Test the sign bit by comparing the raw bit pattern against the type's
	// signed midpoint, then cdrop-select the all-ones limb (0xFFFFFFFF) or
	// zero as the new high limb, and swap it back underneath the original
	// low limb (low limb sits on top, per the stack's nearest-top-first
	// limb ordering).
	half := uint64(1) << (src.Bits() - 1)
	e.emit(masm.Dup(0))
	e.emit(masm.U32Imm(masm.U32OpGte, hir.Unchecked, hir.NewImmediate(src, half)))
	// stack: cond, x
	e.emit(masm.PushU32(0xFFFFFFFF))
	e.emit(masm.PushU32(0))
	// stack: 0, 0xFFFFFFFF, cond, x
	e.emit(masm.Movup(2))
	// stack: cond, 0, 0xFFFFFFFF, x
	e.emit(masm.Cdrop())
	// stack: highLimb, x
	e.emit(masm.Swap(1))
	// stack: x, highLimb
	return nil
}

// cast covers Cast/IntToPtr/PtrToInt. Within the single-element family
// (Ptr included) a cast is a bare retag, matching the original's
// `bitcast`-style no-op for same-width integer-to-integer conversions; any
// cast that narrows, widens, or crosses a limb boundary defers to trunc or
// zext.
func (e *Emitter) cast(src, dst hir.Type) error {
	if src.Kind() == hir.KindPtr || dst.Kind() == hir.KindPtr {
		e.pop()
		e.push(dst)
		return nil
	}
	if src.Bits() > dst.Bits() {
		return e.trunc(src, dst)
	}
	return e.zext(src, dst)
}

// Select implements the ternary selection primop: given (cond, a, b) with
// cond on top, pushes a if cond is true, else b. cdrop's native shape
// selects the element beneath the top when true, so a and b are swapped
// first to put b where cdrop drops it on the true branch, leaving a.
func Select(e *Emitter, ty hir.Type) error {
	// stack (top-down): cond, a, b
	e.pop()
	e.pop()
	e.pop()
	defer e.push(ty)
	e.emit(masm.Movup(2)) // b, cond, a
	e.emit(masm.Swap(1))  // cond, b, a
	e.emit(masm.Cdrop())
	return nil
}
