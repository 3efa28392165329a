package function

import (
	"fmt"

	"github.com/0xPolygonMiden/compiler-sub002/codegen/emit"
	"github.com/0xPolygonMiden/compiler-sub002/codegen/operand"
	"github.com/0xPolygonMiden/compiler-sub002/codegen/schedule"
	"github.com/0xPolygonMiden/compiler-sub002/codegenapi"
	"github.com/0xPolygonMiden/compiler-sub002/hir"
	"github.com/0xPolygonMiden/compiler-sub002/masm"
)

func unimplementedErr(opcode, ty string) error { return codegenapi.Unimplemented(opcode, ty) }

// emitInst dispatches one scheduled instruction. Control-flow, pseudo, and
// variable-length-result kinds are handled directly by this package (they
// either move the stack around wholesale or don't fit codegen/emit's
// fixed-arity per-type dispatch); everything else schedules its plain
// arguments onto the stack first and hands off to codegen/emit.
func (be *blockEmitter) emitInst(inst *hir.Instruction, info *schedule.InstInfo, tasks *[]*task) error {
	switch inst.Kind() {
	case hir.KindRet:
		return be.emitRet(info)
	case hir.KindRetImm:
		return be.emitRetImm(inst)
	case hir.KindBr:
		return be.emitBr(inst, info, tasks)
	case hir.KindCondBr:
		return be.emitCondBr(inst, info, tasks)
	case hir.KindSwitch:
		panic("BUG: Switch reached the function emitter; call hir.LowerSwitchToBranches first")
	case hir.KindSpill:
		return be.emitSpill(inst, info)
	case hir.KindReload:
		be.emitReload(inst)
		return nil
	case hir.KindCall:
		return be.emitCall(inst, info)
	case hir.KindInlineAsm:
		return be.emitInlineAsm(inst, info)
	}

	if err := be.scheduleArgs(info.Args); err != nil {
		return err
	}

	dfg := be.e.fn.DFG()
	em := emit.New(be.target, be.stack)
	before := be.stack.Len() - len(info.Args)

	var err error
	switch inst.Kind() {
	case hir.KindGlobalValue:
		be.emitGlobalValue(inst)
	case hir.KindUnaryOpImm:
		emit.PushImmediate(em, inst.Immediate())
		err = emit.UnaryOp(em, inst.Opcode(), inst.OverflowMode(), inst.Immediate().Type(), inst.Type())
	case hir.KindUnaryOp:
		err = emit.UnaryOp(em, inst.Opcode(), inst.OverflowMode(), dfg.ValueType(inst.Args()[0]), inst.Type())
	case hir.KindBinaryOpImm:
		err = emit.BinaryOpImm(em, inst.Opcode(), inst.OverflowMode(), inst.Immediate())
	case hir.KindBinaryOp:
		err = emit.BinaryOp(em, inst.Opcode(), inst.OverflowMode(), inst.Type())
	case hir.KindTest:
		err = emit.UnaryOp(em, inst.Opcode(), hir.Unchecked, dfg.ValueType(inst.Args()[0]), hir.TypeI1)
	case hir.KindLoad:
		err = emit.Load(em, inst.Type())
	case hir.KindStore:
		err = emit.Store(em, dfg.ValueType(inst.Args()[1]))
	case hir.KindPrimOp:
		err = be.emitPrimOp(em, inst)
	case hir.KindPrimOpImm:
		err = be.emitPrimOpImm(em, inst)
	default:
		panic("BUG: unhandled instruction kind in function emitter: " + inst.Kind().String())
	}
	if err != nil {
		return err
	}

	be.renameResults(before, inst.Results())
	return nil
}

// emitGlobalValue pushes the linear-memory address assigned to a global
// variable reference. Layout assignment is owned upstream of codegen, so an
// unresolved reference here means that pass never ran -- a programmer
// error, not a recoverable one.
func (be *blockEmitter) emitGlobalValue(inst *hir.Instruction) {
	addr, ok := be.e.globals.GetComputedAddr(be.e.fn.ID(), inst.Callee())
	if !ok {
		panic(fmt.Sprintf("BUG: no computed address for global %q in function %q", inst.Callee(), be.e.fn.ID()))
	}
	be.target.Push(masm.PushU32(addr))
	be.stack.Push(operand.NewFromType(hir.TypePtr))
}

// emitPrimOp dispatches the miscellaneous operand-based primitive family.
// Select is the only multi-arity member retrieved source shows assembled
// end to end; anything else is Unimplemented.
func (be *blockEmitter) emitPrimOp(em *emit.Emitter, inst *hir.Instruction) error {
	switch inst.Opcode() {
	case hir.OpSelect:
		return emit.Select(em, inst.Type())
	default:
		for range inst.Args() {
			be.stack.Pop()
		}
		be.stack.Push(operand.NewFromType(inst.Type()))
		return unimplementedPrimOp(inst)
	}
}

func (be *blockEmitter) emitPrimOpImm(em *emit.Emitter, inst *hir.Instruction) error {
	emit.PushImmediate(em, inst.Immediate())
	switch inst.Opcode() {
	case hir.OpCast, hir.OpIntToPtr, hir.OpPtrToInt, hir.OpTrunc, hir.OpZext, hir.OpSext:
		return emit.UnaryOp(em, inst.Opcode(), hir.Unchecked, inst.Immediate().Type(), inst.Type())
	default:
		be.stack.Pop()
		be.stack.Push(operand.NewFromType(inst.Type()))
		return unimplementedPrimOp(inst)
	}
}

func unimplementedPrimOp(inst *hir.Instruction) error {
	return unimplementedErr(inst.Opcode().String(), inst.Type().String())
}

// emitCall lowers a call to a named callee to a plain absolute invocation
// (`exec`); the HIR side carries only one callee-name field with no
// exec/call/syscall distinction, so `exec` -- the common "ordinary
// procedure call" form -- is the one concrete choice that fits.
func (be *blockEmitter) emitCall(inst *hir.Instruction, info *schedule.InstInfo) error {
	if err := be.scheduleArgs(info.Args); err != nil {
		return err
	}
	for range inst.Args() {
		be.stack.Drop()
	}
	be.target.Push(masm.Exec(inst.Callee()))
	be.e.out.RegisterInvocation(inst.Callee())

	dfg := be.e.fn.DFG()
	results := inst.Results()
	before := be.stack.Len()
	for i := len(results) - 1; i >= 0; i-- {
		be.stack.Push(operand.NewFromType(dfg.ValueType(results[i])))
	}
	be.renameResults(before, results)
	return nil
}
