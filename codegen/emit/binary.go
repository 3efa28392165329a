package emit

import (
	"github.com/0xPolygonMiden/compiler-sub002/codegenapi"
	"github.com/0xPolygonMiden/compiler-sub002/hir"
	"github.com/0xPolygonMiden/compiler-sub002/masm"
)

// BinaryOp emits a binary opcode against the top two operands of ty, and
// pushes a result of the matching type -- mirrors emit_binary_op's per-type
// dispatch (original_source codegen/emit/binary.rs). Both operands are
// assumed already scheduled onto the stack (rhs on top, lhs just below it),
// matching the solver's Move/Copy contract.
func BinaryOp(e *Emitter, op hir.Opcode, mode hir.OverflowMode, ty hir.Type) error {
	switch op {
	case hir.OpEq, hir.OpNeq:
		return e.cmpEq(op, ty)
	case hir.OpGt, hir.OpGte, hir.OpLt, hir.OpLte:
		return e.cmpOrder(op, ty)
	case hir.OpAdd:
		return e.add(mode, ty)
	case hir.OpSub:
		return e.sub(mode, ty)
	case hir.OpMul:
		return e.mul(mode, ty)
	case hir.OpDiv, hir.OpMod, hir.OpDivMod:
		return e.divLike(op, mode, ty)
	case hir.OpMin, hir.OpMax:
		return e.minMax(op, ty)
	case hir.OpAnd, hir.OpOr, hir.OpXor:
		return e.bitwise(op, ty)
	case hir.OpShl, hir.OpShr, hir.OpRotl, hir.OpRotr:
		return e.shiftLike(op, mode, ty)
	default:
		e.pop()
		e.pop()
		e.push(ty)
		return codegenapi.Unimplemented(op.String(), ty.String())
	}
}

// BinaryOpImm is BinaryOp with the rhs folded into an immediate already
// baked into the instruction. Felt and the single-limb integer family have
// dedicated Imm opcodes (cheaper than pushing a constant); everything else
// reduces to pushImmediate+BinaryOp, mirroring the teacher's own
// `push_immediate(imm); add_u64(overflow)` pattern for its wide types.
func BinaryOpImm(e *Emitter, op hir.Opcode, mode hir.OverflowMode, imm hir.Immediate) error {
	ty := imm.Type()
	switch ty.Kind() {
	case hir.KindFelt:
		return e.feltImm(op, imm)
	case hir.KindU8, hir.KindI8, hir.KindU16, hir.KindI16, hir.KindU32, hir.KindI32, hir.KindI1, hir.KindPtr:
		return e.u32FamilyImm(op, mode, imm)
	default:
		e.pushImmediate(imm)
		return BinaryOp(e, op, mode, ty)
	}
}

func isSingleElement(ty hir.Type) bool {
	switch ty.Kind() {
	case hir.KindI1, hir.KindI8, hir.KindU8, hir.KindI16, hir.KindU16, hir.KindI32, hir.KindU32, hir.KindPtr:
		return true
	default:
		return false
	}
}

// cmpEq handles Eq/Neq: every single-field-element type shares one MASM
// opcode since field equality doesn't care about signedness or width
// (original_source binary.rs `eq`'s first match arm covers
// Felt|Ptr|U32|I32|U16|I16|I8|U8|I1 identically). U64/I64/I128/U128 are
// Unimplemented here: the real multi-limb comparison needs the operands'
// raw element interleaving on the actual VM stack, which the retrieved
// source never shows built from primitives, so it isn't guessed at.
func (e *Emitter) cmpEq(op hir.Opcode, ty hir.Type) error {
	opcode := op.String()
	e.pop()
	e.pop()
	defer e.push(hir.TypeI1)

	if ty.Kind() != hir.KindFelt && !isSingleElement(ty) {
		return codegenapi.Unimplemented(opcode, ty.String())
	}
	if op == hir.OpEq {
		e.emit(masm.Eq())
	} else {
		e.emit(masm.Neq())
	}
	return nil
}

// cmpOrder handles Gt/Gte/Lt/Lte. Mirrors the teacher's own support matrix
// exactly: I8/I16 have no arm in the original and fall through to its
// catch-all unimplemented!(), so they report Unimplemented here too rather
// than inventing signed-narrow comparison logic the teacher never shipped.
// U64/I64 and wider are Unimplemented for the same reason as cmpEq: the
// lexicographic hi/lo choreography needs a raw element ordering this
// module never observed built from primitives.
func (e *Emitter) cmpOrder(op hir.Opcode, ty hir.Type) error {
	opcode := op.String()
	e.pop()
	e.pop()
	defer e.push(hir.TypeI1)

	switch ty.Kind() {
	case hir.KindFelt:
		e.emit(feltOrderOp(op))
		return nil
	case hir.KindU32, hir.KindU16, hir.KindU8, hir.KindI1, hir.KindPtr:
		e.emit(masm.U32(u32OrderOp(op), hir.Unchecked))
		return nil
	case hir.KindI32:
		e.emit(masm.Exec(i32Intrinsic(op)))
		return nil
	default:
		return codegenapi.Unimplemented(opcode, ty.String())
	}
}

func feltOrderOp(op hir.Opcode) masm.Op {
	switch op {
	case hir.OpGt:
		return masm.Gt()
	case hir.OpGte:
		return masm.Gte()
	case hir.OpLt:
		return masm.Lt()
	default:
		return masm.Lte()
	}
}

func u32OrderOp(op hir.Opcode) masm.U32Op {
	switch op {
	case hir.OpGt:
		return masm.U32OpGt
	case hir.OpGte:
		return masm.U32OpGte
	case hir.OpLt:
		return masm.U32OpLt
	default:
		return masm.U32OpLte
	}
}

func i32Intrinsic(op hir.Opcode) string {
	switch op {
	case hir.OpGt:
		return "intrinsics::i32::is_gt"
	case hir.OpGte:
		return "intrinsics::i32::is_gte"
	case hir.OpLt:
		return "intrinsics::i32::is_lt"
	default:
		return "intrinsics::i32::is_lte"
	}
}

func (e *Emitter) add(mode hir.OverflowMode, ty hir.Type) error {
	return e.addSub(hir.OpAdd, mode, ty)
}

func (e *Emitter) sub(mode hir.OverflowMode, ty hir.Type) error {
	return e.addSub(hir.OpSub, mode, ty)
}

// addSub covers Add/Sub. Felt arithmetic ignores mode (field ops don't
// overflow); the u32-width family and I32 pass mode straight through to the
// u32 op (the later assembler picks wrapping vs checked mnemonics). U64/I64
// and wider fall to Unimplemented: the original only has an arm for
// Type::U64 here (not I64), and genuine carry-propagating wide addition
// across raw stack elements was never shown built from primitives in the
// retrieved source, so it isn't guessed at here either.
func (e *Emitter) addSub(op hir.Opcode, mode hir.OverflowMode, ty hir.Type) error {
	opcode := op.String()
	e.pop()
	e.pop()
	defer e.resultType(ty, mode)

	switch {
	case ty.Kind() == hir.KindFelt:
		if op == hir.OpAdd {
			e.emit(masm.Add())
		} else {
			e.emit(masm.Sub())
		}
		return nil
	case isSingleElement(ty):
		e.emit(masm.U32(pickU32Op(op), mode))
		return nil
	default:
		return codegenapi.Unimplemented(opcode, ty.String())
	}
}

func pickU32Op(op hir.Opcode) masm.U32Op {
	if op == hir.OpAdd {
		return masm.U32OpAdd
	}
	return masm.U32OpSub
}

// mul covers Mul. Felt uses its native field multiply unconditionally. The
// u32 family and I32 use the u32 matrix. U64 and both 128-bit widths are
// Unimplemented: the original's own mul() leaves Type::I128 | Type::U128 as
// a literal todo!() (only a Karatsuba sketch in a comment) and never
// implements a u64*u64->u64 path either, so this mirrors that gap rather
// than inventing an unverified wide multiply.
func (e *Emitter) mul(mode hir.OverflowMode, ty hir.Type) error {
	opcode := hir.OpMul.String()
	e.pop()
	e.pop()
	defer e.resultType(ty, mode)

	switch {
	case ty.Kind() == hir.KindFelt:
		e.emit(masm.Mul())
		return nil
	case isSingleElement(ty):
		e.emit(masm.U32(masm.U32OpMul, mode))
		return nil
	default:
		return codegenapi.Unimplemented(opcode, ty.String())
	}
}

func (e *Emitter) divLike(op hir.Opcode, mode hir.OverflowMode, ty hir.Type) error {
	opcode := op.String()
	e.pop()
	e.pop()
	defer e.resultType(ty, mode)

	switch {
	case ty.Kind() == hir.KindFelt && op == hir.OpDiv:
		e.emit(masm.Div())
		return nil
	case isSingleElement(ty):
		e.emit(masm.U32(divLikeU32Op(op), mode))
		return nil
	default:
		return codegenapi.Unimplemented(opcode, ty.String())
	}
}

func divLikeU32Op(op hir.Opcode) masm.U32Op {
	switch op {
	case hir.OpDiv:
		return masm.U32OpDiv
	case hir.OpMod:
		return masm.U32OpMod
	default:
		return masm.U32OpDivMod
	}
}

// minMax lowers to the cdrop idiom (builder.rs `cdrop`: pops a boolean,
// drops the top element if true, otherwise drops the one beneath it).
// Stack on entry (top-down): rhs, lhs. Duplicating both and comparing
// lhs > rhs leaves (cond, rhs, lhs): for Max that's already the
// (cond, winner-if-true, winner-if-false) shape cdrop wants, since lhs is
// the winner exactly when the comparison is true; Min just swaps the two
// candidates first so rhs (the winner when lhs > rhs) sits where cdrop
// drops it.
func (e *Emitter) minMax(op hir.Opcode, ty hir.Type) error {
	opcode := op.String()
	e.pop()
	e.pop()
	defer e.push(ty)

	if ty.Kind() != hir.KindFelt && !isSingleElement(ty) {
		return codegenapi.Unimplemented(opcode, ty.String())
	}

	// stack: rhs, lhs
	e.emit(masm.Dup(1))
	e.emit(masm.Dup(1))
	if ty.Kind() == hir.KindFelt {
		e.emit(masm.Gt())
	} else {
		e.emit(masm.U32(masm.U32OpGt, hir.Unchecked))
	}
	// stack: cond, rhs, lhs
	if op == hir.OpMin {
		e.emit(masm.Movup(2)) // lhs, cond, rhs
		e.emit(masm.Swap(1))  // cond, lhs, rhs
	}
	e.emit(masm.Cdrop())
	return nil
}

func (e *Emitter) bitwise(op hir.Opcode, ty hir.Type) error {
	opcode := op.String()
	e.pop()
	e.pop()
	defer e.push(ty)

	switch {
	case ty.Kind() == hir.KindI1:
		e.emit(bitwiseI1Op(op))
		return nil
	case isSingleElement(ty):
		e.emit(masm.U32(bitwiseU32Op(op), hir.Unchecked))
		return nil
	default:
		return codegenapi.Unimplemented(opcode, ty.String())
	}
}

func bitwiseI1Op(op hir.Opcode) masm.Op {
	switch op {
	case hir.OpAnd:
		return masm.And()
	case hir.OpOr:
		return masm.Or()
	default:
		return masm.Xor()
	}
}

func bitwiseU32Op(op hir.Opcode) masm.U32Op {
	switch op {
	case hir.OpAnd:
		return masm.U32OpAnd
	case hir.OpOr:
		return masm.U32OpOr
	default:
		return masm.U32OpXor
	}
}

// shiftLike covers Shl/Shr/Rotl/Rotr, defined only over the u32 family and
// I32 (bit rotation/shift on a field element or a multi-limb integer isn't
// expressible with the single u32 opcode, so those report Unimplemented).
func (e *Emitter) shiftLike(op hir.Opcode, mode hir.OverflowMode, ty hir.Type) error {
	opcode := op.String()
	e.pop()
	e.pop()
	defer e.push(ty)

	if !isSingleElement(ty) || ty.Kind() == hir.KindI1 {
		return codegenapi.Unimplemented(opcode, ty.String())
	}
	e.emit(masm.U32(shiftU32Op(op), mode))
	return nil
}

func shiftU32Op(op hir.Opcode) masm.U32Op {
	switch op {
	case hir.OpShl:
		return masm.U32OpShl
	case hir.OpShr:
		return masm.U32OpShr
	case hir.OpRotl:
		return masm.U32OpRotl
	default:
		return masm.U32OpRotr
	}
}

// feltImm handles Eq/Neq/Gt/Gte/Lt/Lte/Add/Sub/Mul/Div against a Felt
// immediate via the dedicated *Imm MASM opcodes.
func (e *Emitter) feltImm(op hir.Opcode, imm hir.Immediate) error {
	opcode := op.String()
	e.pop()
	resultTy := hir.TypeFelt
	switch op {
	case hir.OpEq, hir.OpNeq, hir.OpGt, hir.OpGte, hir.OpLt, hir.OpLte:
		resultTy = hir.TypeI1
	}
	defer e.push(resultTy)
	f := hir.Felt(imm.Uint64())

	switch op {
	case hir.OpEq:
		e.emit(masm.EqImm(f))
	case hir.OpNeq:
		e.emit(masm.NeqImm(f))
	case hir.OpGt:
		e.emit(masm.GtImm(f))
	case hir.OpGte:
		e.emit(masm.GteImm(f))
	case hir.OpLt:
		e.emit(masm.LtImm(f))
	case hir.OpLte:
		e.emit(masm.LteImm(f))
	case hir.OpAdd:
		e.emit(masm.AddImm(f))
	case hir.OpSub:
		e.emit(masm.SubImm(f))
	case hir.OpMul:
		e.emit(masm.MulImm(f))
	case hir.OpDiv:
		e.emit(masm.DivImm(f))
	default:
		return codegenapi.Unimplemented(opcode, "felt")
	}
	return nil
}

// u32FamilyImm handles the single-element integer family against an
// immediate via the dedicated U32Imm opcode, falling back to
// pushImmediate+BinaryOp for ops the u32 matrix doesn't carry an Imm
// variant for (the order comparisons, which MASM only exposes as the
// non-immediate u32lt/u32gt family plus a swapped operand).
func (e *Emitter) u32FamilyImm(op hir.Opcode, mode hir.OverflowMode, imm hir.Immediate) error {
	switch op {
	case hir.OpAdd:
		e.pop()
		e.emit(masm.U32Imm(masm.U32OpAdd, mode, imm))
		e.resultType(imm.Type(), mode)
		return nil
	case hir.OpSub:
		e.pop()
		e.emit(masm.U32Imm(masm.U32OpSub, mode, imm))
		e.resultType(imm.Type(), mode)
		return nil
	case hir.OpMul:
		e.pop()
		e.emit(masm.U32Imm(masm.U32OpMul, mode, imm))
		e.resultType(imm.Type(), mode)
		return nil
	case hir.OpEq:
		e.pop()
		e.emit(masm.U32Imm(masm.U32OpEq, hir.Unchecked, imm))
		e.push(hir.TypeI1)
		return nil
	case hir.OpNeq:
		e.pop()
		e.emit(masm.U32Imm(masm.U32OpNeq, hir.Unchecked, imm))
		e.push(hir.TypeI1)
		return nil
	case hir.OpAnd, hir.OpOr, hir.OpXor:
		e.pop()
		e.emit(masm.U32Imm(bitwiseU32Op(op), hir.Unchecked, imm))
		e.push(imm.Type())
		return nil
	default:
		e.pushImmediate(imm)
		return BinaryOp(e, op, mode, imm.Type())
	}
}
