package hir

import "fmt"

// BlockID identifies a basic block within a Function.
type BlockID uint32

// BlockIDInvalid is the sentinel invalid block id.
const BlockIDInvalid BlockID = 0xFFFFFFFF

func (b BlockID) String() string { return fmt.Sprintf("block%d", uint32(b)) }

// Param is one block parameter (spec.md's "block argument" variant of phi).
type Param struct {
	Value Value
	Type  Type
}

// Block is a basic block: an ordered instruction list plus its parameters.
// Grounded on internal/engine/wazevo/ssa.basicBlock's param/predecessor
// bookkeeping, simplified since HIR construction (sealing, unknown-value
// resolution) is out of scope here -- callers build blocks directly.
type Block struct {
	id     BlockID
	params []Param
	insts  []Inst
	preds  []BlockID
}

// ID returns the block's id.
func (b *Block) ID() BlockID { return b.id }

// Params returns the block's parameters, in order.
func (b *Block) Params() []Param { return b.params }

// Insts returns the ids of instructions in this block, in program order.
func (b *Block) Insts() []Inst { return b.insts }

// Preds returns the predecessor block ids.
func (b *Block) Preds() []BlockID { return b.preds }

// Terminator returns the id of the last instruction in the block, or
// InstInvalid if the block is empty.
func (b *Block) Terminator() Inst {
	if len(b.insts) == 0 {
		return InstInvalid
	}
	return b.insts[len(b.insts)-1]
}
