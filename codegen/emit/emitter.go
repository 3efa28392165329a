// Package emit is the per-opcode-per-type instruction emitter: the last
// stage of lowering, turning one already-scheduled HIR operation into a
// sequence of masm.Op values plus the corresponding operand-stack effect
// (spec.md §4.2). It knows nothing about scheduling or control flow; it
// only knows how to emit Add for a U32, or Eq for a Felt, etc.
package emit

import (
	"github.com/0xPolygonMiden/compiler-sub002/codegen/operand"
	"github.com/0xPolygonMiden/compiler-sub002/hir"
	"github.com/0xPolygonMiden/compiler-sub002/masm"
)

// Emitter pushes Ops onto a masm.Block while mirroring their effect onto an
// operand.OperandStack, so the two never drift out of sync (stack.rs /
// emitter.rs OpEmitter).
type Emitter struct {
	block *masm.Block
	stack *operand.OperandStack
}

// New returns an Emitter that appends to block and tracks stack.
func New(block *masm.Block, stack *operand.OperandStack) *Emitter {
	return &Emitter{block: block, stack: stack}
}

func (e *Emitter) emit(op masm.Op) { e.block.Push(op) }

func (e *Emitter) emitAll(ops ...masm.Op) {
	for _, op := range ops {
		e.emit(op)
	}
}

// pop pops the top operand, panicking (matching the teacher's `.expect(...)`
// idiom) if the stack is empty; the solver is responsible for ensuring this
// never happens during real emission.
func (e *Emitter) pop() operand.Operand {
	o, ok := e.stack.Pop()
	if !ok {
		panic("BUG: operand stack is empty")
	}
	return o
}

// push records that a value of type ty now occupies the top of the
// (abstract) operand stack, without (yet) an SSA identity; the caller
// renames it to the instruction's result once scheduling assigns one.
func (e *Emitter) push(ty hir.Type) { e.stack.Push(operand.NewFromType(ty)) }

// PushImmediate pushes a bare literal onto e's tracked operand stack,
// exported for callers outside this package (codegen/function's Ret/PrimOp
// handling) that need to materialise a constant outside the Binary/UnaryOpImm
// dispatch.
func PushImmediate(e *Emitter, imm hir.Immediate) { e.pushImmediate(imm) }

// pushImmediate pushes imm's raw 32-bit limbs, nearest-stack-top first, as
// untyped U32 constants, then re-tags the whole group with imm's real type
// -- mirrors the teacher's `push_immediate`, which is used to reduce
// multi-limb Imm variants to their plain-operand counterpart
// (`push_immediate(imm); add_u64(overflow)`).
func (e *Emitter) pushImmediate(imm hir.Immediate) {
	limbs := imm.Limbs32()
	for i := len(limbs) - 1; i >= 0; i-- {
		e.emit(masm.PushU32(limbs[i]))
	}
	e.stack.Push(operand.NewFromImmediate(imm))
}

// resultType pushes ty, and additionally an I1 operand when mode signals
// Overflowing (the extra boolean the VM leaves on the stack to report
// overflow), matching `self.push(ty); if overflow.is_overflowing() {
// self.push(Type::I1) }`.
func (e *Emitter) resultType(ty hir.Type, mode hir.OverflowMode) {
	e.push(ty)
	if mode == hir.Overflowing {
		e.push(hir.TypeI1)
	}
}
