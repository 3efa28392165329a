// Package masm is the output IR: a tree of Miden Assembly blocks drawn from
// a closed opcode alphabet (spec.md §6 "MASM interface produced").
package masm

import (
	"fmt"

	"github.com/0xPolygonMiden/compiler-sub002/hir"
)

// OpKind discriminates the shape of an Op, following the same
// flattened-struct idiom as hir.Instruction
// (internal/engine/wazevo/ssa.Instruction): one struct, fields reinterpreted
// per kind, rather than a tagged union.
type OpKind uint16

const (
	OpInvalid OpKind = iota

	// Stack manipulation.
	OpPadw
	OpPush
	OpPushU8
	OpPushU16
	OpPushU32
	OpPushU64
	OpPushw
	OpDrop
	OpDropw
	OpDup
	OpDupw
	OpSwap
	OpSwapw
	OpMovup
	OpMovdn
	OpMovupw
	OpMovdnw
	OpCswap
	OpCswapw
	OpCdrop
	OpCdropw

	// Felt arithmetic.
	OpAdd
	OpAddImm
	OpSub
	OpSubImm
	OpMul
	OpMulImm
	OpDiv
	OpDivImm
	OpNeg
	OpInv
	OpIncr
	OpPow2
	OpExp
	OpExpImm

	// Felt comparison.
	OpEq
	OpEqImm
	OpNeq
	OpNeqImm
	OpGt
	OpGtImm
	OpGte
	OpGteImm
	OpLt
	OpLtImm
	OpLte
	OpLteImm
	OpIsOdd

	// Bitwise on I1.
	OpAnd
	OpOr
	OpXor
	OpNot

	// U32 arithmetic/comparison/bitwise matrix: op×type×mode is captured by
	// one OpKind plus the U32Op and hir.OverflowMode fields, rather than a
	// combinatorial constant per (op, mode) pair -- the matrix in spec.md §6
	// is exactly this cross product, and hir.OverflowMode already names the
	// four modes.
	OpU32
	OpU32Imm
	OpU32Assert
	OpU32Assert2
	OpU32Assertw
	OpU32Test
	OpU32Testw
	OpU32Cast
	OpU32Split

	// Memory.
	OpMemLoad
	OpMemLoadImm
	OpMemLoadOffset
	OpMemLoadOffsetImm
	OpMemLoadw
	OpMemLoadwImm
	OpMemStore
	OpMemStoreImm
	OpMemStoreOffset
	OpMemStoreOffsetImm
	OpMemStorew
	OpMemStorewImm
	OpLocLoad
	OpLocStore
	OpLocAddr
	OpLocLoadw
	OpLocStorew
	OpAdvPush

	// Control.
	OpIf
	OpWhile
	OpRepeat
	OpExec
	OpCall
	OpSyscall
	OpAssert
	OpAssertz
	OpAssertEq
	OpClk
)

// U32Op names the base operation of a u32-matrix Op (OpU32/OpU32Imm); cross
// this with hir.OverflowMode to get the concrete MASM mnemonic, e.g.
// {U32OpAdd, hir.Checked} => "u32checked_add".
type U32Op uint8

const (
	U32OpInvalid U32Op = iota
	U32OpAdd
	U32OpSub
	U32OpMul
	U32OpDiv
	U32OpMod
	U32OpDivMod
	U32OpMadd
	U32OpShl
	U32OpShr
	U32OpRotl
	U32OpRotr
	U32OpClz
	U32OpCtz
	U32OpClo
	U32OpCto
	U32OpPopcnt
	U32OpLt
	U32OpLte
	U32OpGt
	U32OpGte
	U32OpEq
	U32OpNeq
	U32OpMin
	U32OpMax
	U32OpAnd
	U32OpOr
	U32OpXor
	U32OpNot
)

var u32OpNames = map[U32Op]string{
	U32OpAdd: "add", U32OpSub: "sub", U32OpMul: "mul", U32OpDiv: "div", U32OpMod: "mod",
	U32OpDivMod: "divmod", U32OpMadd: "madd", U32OpShl: "shl", U32OpShr: "shr",
	U32OpRotl: "rotl", U32OpRotr: "rotr", U32OpClz: "clz", U32OpCtz: "ctz",
	U32OpClo: "clo", U32OpCto: "cto", U32OpPopcnt: "popcnt", U32OpLt: "lt",
	U32OpLte: "lte", U32OpGt: "gt", U32OpGte: "gte", U32OpEq: "eq", U32OpNeq: "neq",
	U32OpMin: "min", U32OpMax: "max", U32OpAnd: "and", U32OpOr: "or", U32OpXor: "xor",
	U32OpNot: "not",
}

func (u U32Op) String() string {
	if s, ok := u32OpNames[u]; ok {
		return s
	}
	return fmt.Sprintf("u32op(%d)", u)
}

// Op is one instruction in a MASM block.
type Op struct {
	kind OpKind

	n       uint8 // Dup(n)/Swap(n)/Movup(n)/Movdn(n) and word variants
	felt    hir.Felt
	word    [4]uint64
	u32op   U32Op
	mode    hir.OverflowMode
	imm     hir.Immediate
	offset  uint32 // MemLoadOffset/MemStoreOffset, LocAddr/LocLoad/LocStore local index
	name    string // Exec/Call/Syscall fully-qualified target name
	then    *Block // If
	els     *Block
	body    *Block // While/Repeat
	repeatN uint32
}

func (o Op) Kind() OpKind             { return o.kind }
func (o Op) N() uint8                 { return o.n }
func (o Op) Felt() hir.Felt           { return o.felt }
func (o Op) Word() [4]uint64          { return o.word }
func (o Op) U32Op() U32Op             { return o.u32op }
func (o Op) Mode() hir.OverflowMode   { return o.mode }
func (o Op) Immediate() hir.Immediate { return o.imm }
func (o Op) Offset() uint32           { return o.offset }
func (o Op) Name() string             { return o.name }
func (o Op) Then() *Block             { return o.then }
func (o Op) Else() *Block             { return o.els }
func (o Op) Body() *Block             { return o.body }
func (o Op) RepeatCount() uint32      { return o.repeatN }

// --- Stack manipulation constructors ---

func Padw() Op                 { return Op{kind: OpPadw} }
func Push(f hir.Felt) Op       { return Op{kind: OpPush, felt: f} }
func PushU8(v uint8) Op        { return Op{kind: OpPushU8, n: v} }
func PushU16(v uint16) Op      { return Op{kind: OpPushU16, offset: uint32(v)} }
func PushU32(v uint32) Op      { return Op{kind: OpPushU32, offset: v} }
func PushU64(v uint64) Op      { return Op{kind: OpPushU64, word: [4]uint64{v}} }
func Pushw(w [4]uint64) Op     { return Op{kind: OpPushw, word: w} }
func Drop() Op                 { return Op{kind: OpDrop} }
func Dropw() Op                { return Op{kind: OpDropw} }
func Dup(n uint8) Op           { return Op{kind: OpDup, n: n} }
func Dupw(n uint8) Op          { return Op{kind: OpDupw, n: n} }
func Swap(n uint8) Op          { return Op{kind: OpSwap, n: n} }
func Swapw(n uint8) Op         { return Op{kind: OpSwapw, n: n} }
func Movup(n uint8) Op         { return Op{kind: OpMovup, n: n} }
func Movdn(n uint8) Op         { return Op{kind: OpMovdn, n: n} }
func Movupw(n uint8) Op        { return Op{kind: OpMovupw, n: n} }
func Movdnw(n uint8) Op        { return Op{kind: OpMovdnw, n: n} }
func Cswap() Op                { return Op{kind: OpCswap} }
func Cswapw() Op               { return Op{kind: OpCswapw} }
func Cdrop() Op                { return Op{kind: OpCdrop} }
func Cdropw() Op               { return Op{kind: OpCdropw} }

// --- Felt arithmetic / comparison constructors ---

func Add() Op                       { return Op{kind: OpAdd} }
func AddImm(f hir.Felt) Op          { return Op{kind: OpAddImm, felt: f} }
func Sub() Op                       { return Op{kind: OpSub} }
func SubImm(f hir.Felt) Op          { return Op{kind: OpSubImm, felt: f} }
func Mul() Op                       { return Op{kind: OpMul} }
func MulImm(f hir.Felt) Op          { return Op{kind: OpMulImm, felt: f} }
func Div() Op                       { return Op{kind: OpDiv} }
func DivImm(f hir.Felt) Op          { return Op{kind: OpDivImm, felt: f} }
func Neg() Op                       { return Op{kind: OpNeg} }
func Inv() Op                       { return Op{kind: OpInv} }
func Incr() Op                      { return Op{kind: OpIncr} }
func Pow2() Op                      { return Op{kind: OpPow2} }
func Exp() Op                       { return Op{kind: OpExp} }
func ExpImm(f hir.Felt) Op          { return Op{kind: OpExpImm, felt: f} }
func Eq() Op                        { return Op{kind: OpEq} }
func EqImm(f hir.Felt) Op           { return Op{kind: OpEqImm, felt: f} }
func Neq() Op                       { return Op{kind: OpNeq} }
func NeqImm(f hir.Felt) Op          { return Op{kind: OpNeqImm, felt: f} }
func Gt() Op                        { return Op{kind: OpGt} }
func GtImm(f hir.Felt) Op           { return Op{kind: OpGtImm, felt: f} }
func Gte() Op                       { return Op{kind: OpGte} }
func GteImm(f hir.Felt) Op          { return Op{kind: OpGteImm, felt: f} }
func Lt() Op                        { return Op{kind: OpLt} }
func LtImm(f hir.Felt) Op           { return Op{kind: OpLtImm, felt: f} }
func Lte() Op                       { return Op{kind: OpLte} }
func LteImm(f hir.Felt) Op          { return Op{kind: OpLteImm, felt: f} }
func IsOdd() Op                     { return Op{kind: OpIsOdd} }

// --- Bitwise on I1 ---

func And() Op { return Op{kind: OpAnd} }
func Or() Op  { return Op{kind: OpOr} }
func Xor() Op { return Op{kind: OpXor} }
func Not() Op { return Op{kind: OpNot} }

// --- U32 matrix ---

// U32 constructs a u32-typed op, e.g. U32(U32OpAdd, hir.Checked) for
// `u32checked_add`.
func U32(op U32Op, mode hir.OverflowMode) Op { return Op{kind: OpU32, u32op: op, mode: mode} }

// U32Imm is the immediate-operand counterpart of U32.
func U32Imm(op U32Op, mode hir.OverflowMode, imm hir.Immediate) Op {
	return Op{kind: OpU32Imm, u32op: op, mode: mode, imm: imm}
}

func U32Assert() Op  { return Op{kind: OpU32Assert} }
func U32Assert2() Op { return Op{kind: OpU32Assert2} }
func U32Assertw() Op { return Op{kind: OpU32Assertw} }
func U32Test() Op    { return Op{kind: OpU32Test} }
func U32Testw() Op   { return Op{kind: OpU32Testw} }
func U32Cast() Op    { return Op{kind: OpU32Cast} }
func U32Split() Op   { return Op{kind: OpU32Split} }

// --- Memory ---

func MemLoad() Op                     { return Op{kind: OpMemLoad} }
func MemLoadImm(addr uint32) Op       { return Op{kind: OpMemLoadImm, offset: addr} }
func MemLoadOffset(off uint32) Op     { return Op{kind: OpMemLoadOffset, offset: off} }
func MemLoadOffsetImm(addr, off uint32) Op {
	return Op{kind: OpMemLoadOffsetImm, offset: addr, n: uint8(off)}
}
func MemLoadw() Op               { return Op{kind: OpMemLoadw} }
func MemLoadwImm(addr uint32) Op { return Op{kind: OpMemLoadwImm, offset: addr} }
func MemStore() Op                     { return Op{kind: OpMemStore} }
func MemStoreImm(addr uint32) Op       { return Op{kind: OpMemStoreImm, offset: addr} }
func MemStoreOffset(off uint32) Op     { return Op{kind: OpMemStoreOffset, offset: off} }
func MemStoreOffsetImm(addr, off uint32) Op {
	return Op{kind: OpMemStoreOffsetImm, offset: addr, n: uint8(off)}
}
func MemStorew() Op               { return Op{kind: OpMemStorew} }
func MemStorewImm(addr uint32) Op { return Op{kind: OpMemStorewImm, offset: addr} }

func LocLoad(local hir.LocalID) Op  { return Op{kind: OpLocLoad, offset: uint32(local)} }
func LocStore(local hir.LocalID) Op { return Op{kind: OpLocStore, offset: uint32(local)} }
func LocAddr(local hir.LocalID) Op  { return Op{kind: OpLocAddr, offset: uint32(local)} }
func LocLoadw(local hir.LocalID) Op { return Op{kind: OpLocLoadw, offset: uint32(local)} }
func LocStorew(local hir.LocalID) Op { return Op{kind: OpLocStorew, offset: uint32(local)} }
func AdvPush(n uint8) Op            { return Op{kind: OpAdvPush, n: n} }

// --- Control ---

func If(then, els *Block) Op          { return Op{kind: OpIf, then: then, els: els} }
func While(body *Block) Op            { return Op{kind: OpWhile, body: body} }
func Repeat(n uint32, body *Block) Op { return Op{kind: OpRepeat, repeatN: n, body: body} }
func Exec(fqName string) Op           { return Op{kind: OpExec, name: fqName} }
func Call(fqName string) Op           { return Op{kind: OpCall, name: fqName} }
func Syscall(fqName string) Op        { return Op{kind: OpSyscall, name: fqName} }
func Assert() Op                      { return Op{kind: OpAssert} }
func Assertz() Op                     { return Op{kind: OpAssertz} }
func AssertEq() Op                    { return Op{kind: OpAssertEq} }
func Clk() Op                         { return Op{kind: OpClk} }
