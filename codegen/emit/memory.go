package emit

import (
	"github.com/0xPolygonMiden/compiler-sub002/codegenapi"
	"github.com/0xPolygonMiden/compiler-sub002/hir"
	"github.com/0xPolygonMiden/compiler-sub002/masm"
)

// Load emits a typed memory load from the address on top of the stack,
// popping it and pushing a value of ty (original_source codegen/emit/
// memory.rs `load`). Only single-element and word-sized types have a
// direct MASM opcode; everything else is Unimplemented rather than guessed
// at from primitives never shown assembled in the retrieved source.
func Load(e *Emitter, ty hir.Type) error {
	e.pop()
	defer e.push(ty)
	switch ty.ElementCount() {
	case 1:
		e.emit(masm.MemLoad())
		return nil
	case 4:
		e.emit(masm.MemLoadw())
		return nil
	default:
		return codegenapi.Unimplemented("load", ty.String())
	}
}

// Store emits a typed memory store of the value just below the address on
// the stack (original_source codegen/emit/memory.rs `store`): stack
// (top-down) is value, addr, matching the solver's Move/Copy contract for
// a Store's (ptr, val) argument order.
func Store(e *Emitter, ty hir.Type) error {
	e.pop() // value
	e.pop() // addr
	switch ty.ElementCount() {
	case 1:
		e.emit(masm.MemStore())
		return nil
	case 4:
		e.emit(masm.MemStorew())
		return nil
	default:
		return codegenapi.Unimplemented("store", ty.String())
	}
}
