package masm

import "github.com/0xPolygonMiden/compiler-sub002/hir"

// Function is the code generator's sole output artifact: a qualified name,
// its procedure-local frame layout, and a body that is a tree of Blocks
// (spec.md §6 "MASM interface produced"). There is no persisted state
// beyond this value -- the core is a pure transformation.
type Function struct {
	name        string
	locals      []hir.Type
	body        *Block
	nextBlk     uint32
	blocks      map[BlockID]*Block
	invocations map[string]struct{}
}

// NewFunction creates an empty function with the given qualified name.
func NewFunction(name string) *Function {
	f := &Function{name: name, blocks: make(map[BlockID]*Block)}
	f.body = f.CreateBlock()
	return f
}

// Name returns the function's qualified name.
func (f *Function) Name() string { return f.name }

// Body returns the function's top-level block.
func (f *Function) Body() *Block { return f.body }

// Locals returns the types of the function's procedure-local slots, indexed
// by hir.LocalID.
func (f *Function) Locals() []hir.Type { return f.locals }

// AllocLocal reserves a new procedure-local slot of the given type and
// returns its id. Mirrors hir.DataFlowGraph.AllocLocal's numbering scheme so
// codegen/spill can allocate one local per spilled value on demand.
func (f *Function) AllocLocal(ty hir.Type) hir.LocalID {
	id := hir.LocalID(len(f.locals))
	f.locals = append(f.locals, ty)
	return id
}

// CreateBlock allocates a new, empty, unattached block. The caller is
// responsible for attaching it into the tree via an If/While/Repeat Op or
// via Body().
func (f *Function) CreateBlock() *Block {
	id := BlockID(f.nextBlk)
	f.nextBlk++
	b := NewBlock(id)
	f.blocks[id] = b
	return b
}

// BlockByID looks up a previously created block.
func (f *Function) BlockByID(id BlockID) *Block {
	b, ok := f.blocks[id]
	if !ok {
		panic("BUG: unknown masm block id")
	}
	return b
}

// RegisterInvocation records name as an absolute invocation target reached
// from this function's body (an Exec/Call/Syscall, whether emitted directly
// or cloned out of an inline-assembly fragment), so a later linking stage
// knows to resolve it. Duplicate registrations are harmless.
func (f *Function) RegisterInvocation(name string) {
	if f.invocations == nil {
		f.invocations = make(map[string]struct{})
	}
	f.invocations[name] = struct{}{}
}

// Invocations returns the set of absolute invocation targets registered so
// far, in no particular order.
func (f *Function) Invocations() []string {
	names := make([]string, 0, len(f.invocations))
	for n := range f.invocations {
		names = append(names, n)
	}
	return names
}
