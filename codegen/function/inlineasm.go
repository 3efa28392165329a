package function

import (
	"fmt"

	"github.com/0xPolygonMiden/compiler-sub002/codegen/operand"
	"github.com/0xPolygonMiden/compiler-sub002/codegen/schedule"
	"github.com/0xPolygonMiden/compiler-sub002/hir"
	"github.com/0xPolygonMiden/compiler-sub002/masm"
)

// zeroArgInlineOps covers the inline-assembly mnemonics that take no
// operand and carry no nested block, mapped onto masm's zero-arg
// constructors one-to-one.
var zeroArgInlineOps = map[string]func() masm.Op{
	"padw": masm.Padw, "drop": masm.Drop, "dropw": masm.Dropw,
	"cswap": masm.Cswap, "cswapw": masm.Cswapw, "cdrop": masm.Cdrop, "cdropw": masm.Cdropw,
	"add": masm.Add, "sub": masm.Sub, "mul": masm.Mul, "div": masm.Div,
	"neg": masm.Neg, "inv": masm.Inv, "incr": masm.Incr, "pow2": masm.Pow2, "exp": masm.Exp,
	"eq": masm.Eq, "neq": masm.Neq, "gt": masm.Gt, "gte": masm.Gte, "lt": masm.Lt, "lte": masm.Lte,
	"is_odd": masm.IsOdd, "and": masm.And, "or": masm.Or, "xor": masm.Xor, "not": masm.Not,
	"u32assert": masm.U32Assert, "u32assert2": masm.U32Assert2, "u32assertw": masm.U32Assertw,
	"u32test": masm.U32Test, "u32testw": masm.U32Testw, "u32cast": masm.U32Cast, "u32split": masm.U32Split,
	"assert": masm.Assert, "assertz": masm.Assertz, "asserteq": masm.AssertEq, "clk": masm.Clk,
}

// emitInlineAsm clones an embedded MASM fragment directly into the current
// target block (original_source's `mapped_body_block = self.masm_block_id
// (self.block_info.source)`: the fragment's body is never a separate MASM
// block of its own). Arguments are scheduled like any other use; results
// are pushed fresh, in reverse declaration order, matching the original's
// `.rev()` over its result list.
func (be *blockEmitter) emitInlineAsm(inst *hir.Instruction, info *schedule.InstInfo) error {
	if err := be.scheduleArgs(info.Args); err != nil {
		return err
	}
	for range inst.Args() {
		be.stack.Drop()
	}

	be.cloneInlineAsmBlock(be.target, inst.InlineAsm())

	results := inst.Results()
	for i := len(results) - 1; i >= 0; i-- {
		be.stack.Push(operand.NewFromType(be.e.fn.DFG().ValueType(results[i])))
	}
	for i, v := range results {
		be.stack.Rename(i, v)
	}
	return nil
}

// cloneInlineAsmBlock recursively appends blk's ops into target. Absolute
// invocations register themselves with the output function the same way a
// real Call does; while/repeat fragments allocate a fresh masm block for
// their nested body; if cannot be expressed since InlineAsmOp only carries
// one nested Target, not the two an If needs.
func (be *blockEmitter) cloneInlineAsmBlock(target *masm.Block, blk *hir.InlineAsmBlock) {
	for _, op := range blk.Ops {
		switch {
		case op.Callee != "":
			switch op.Name {
			case "exec":
				target.Push(masm.Exec(op.Callee))
			case "call":
				target.Push(masm.Call(op.Callee))
			case "syscall":
				target.Push(masm.Syscall(op.Callee))
			default:
				panic(fmt.Sprintf("BUG: unrecognized inline-asm invocation kind %q", op.Name))
			}
			be.e.out.RegisterInvocation(op.Callee)
		case op.Name == "while":
			body := be.e.out.CreateBlock()
			be.cloneInlineAsmBlock(body, op.Target)
			target.Push(masm.While(body))
		case op.Name == "repeat":
			body := be.e.out.CreateBlock()
			be.cloneInlineAsmBlock(body, op.Target)
			target.Push(masm.Repeat(1, body))
		case op.Name == "if":
			panic("BUG: inline-assembly `if` cannot be cloned: InlineAsmOp only carries a single nested Target, but If needs a then and an else block")
		default:
			ctor, ok := zeroArgInlineOps[op.Name]
			if !ok {
				panic(fmt.Sprintf("BUG: unrecognized inline-assembly mnemonic %q", op.Name))
			}
			target.Push(ctor())
		}
	}
}
