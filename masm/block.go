package masm

// BlockID is a stable handle to a Block within a Function. Because MASM
// control constructs (`If`/`While`/`Repeat`) reference nested blocks by
// identity rather than by position, block identifiers must be allocated
// before the blocks they name are fully populated (spec.md §9 "control
// flow as data") -- the function emitter (codegen/function) pre-allocates
// a BlockID, hands out the *Block to fill in, and only later attaches it
// as an Op's Then/Else/Body.
type BlockID uint32

// Block is an ordered sequence of Ops. Unlike hir.Block, a masm.Block
// carries no parameters or predecessors of its own: MASM control nesting
// is purely lexical, and the stack discipline that would otherwise need
// block parameters is enforced by the operand-stack abstraction
// (codegen/operand) before emission.
type Block struct {
	id  BlockID
	ops []Op
}

// NewBlock allocates an empty block with the given id.
func NewBlock(id BlockID) *Block { return &Block{id: id} }

// ID returns the block's stable handle.
func (b *Block) ID() BlockID { return b.id }

// Ops returns the block's instructions in emission order.
func (b *Block) Ops() []Op { return b.ops }

// Push appends op to the end of the block.
func (b *Block) Push(op Op) { b.ops = append(b.ops, op) }

// Len returns the number of ops currently in the block.
func (b *Block) Len() int { return len(b.ops) }
