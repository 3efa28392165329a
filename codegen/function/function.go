// Package function lowers one HIR function into a masm.Function: it walks
// the function's CFG exactly once per reachable path (tail-duplicating loop
// headers rather than ever re-entering a block from two different contexts),
// materializing MASM's structured `if.true`/`while.true` control constructs
// as it goes and driving codegen/schedule + codegen/solver to place each
// instruction's operands (spec.md §4.6). Grounded on
// original_source/codegen/masm/src/codegen/emitter.rs's treeified traversal.
package function

import (
	"fmt"

	"github.com/0xPolygonMiden/compiler-sub002/codegen/operand"
	"github.com/0xPolygonMiden/compiler-sub002/hir"
	"github.com/0xPolygonMiden/compiler-sub002/hir/analysis"
	"github.com/0xPolygonMiden/compiler-sub002/masm"

	"github.com/0xPolygonMiden/compiler-sub002/codegen/spill"
)

// Compile lowers fn into a masm.Function. fn must be a *hir.ConcreteFunction
// since lowering runs the spill/reload rewrite pass first, which mutates the
// function's data-flow graph in place; ConcreteFunction is the only
// Function implementation this module owns, so this is an honest
// precondition rather than a workaround.
func Compile(fn hir.Function, globals *analysis.GlobalVariableLayout) (*masm.Function, error) {
	cf, ok := fn.(*hir.ConcreteFunction)
	if !ok {
		panic(fmt.Sprintf("BUG: codegen/function.Compile requires a *hir.ConcreteFunction, got %T", fn))
	}

	hir.LowerSwitchToBranches(cf)
	if err := spill.RewriteSpills(cf); err != nil {
		return nil, err
	}

	cfg := analysis.BuildControlFlowGraph(cf)
	dt := analysis.BuildDominatorTree(cfg)
	loops := analysis.BuildLoopAnalysis(cfg, dt)
	liveness := analysis.BuildLivenessAnalysis(cf, cfg)

	out := masm.NewFunction(cf.ID())
	for i := 0; i < cf.DFG().NumLocals(); i++ {
		out.AllocLocal(cf.DFG().LocalType(hir.LocalID(i)))
	}

	e := &Emitter{
		fn:       cf,
		out:      out,
		globals:  globals,
		cfg:      cfg,
		dt:       dt,
		loops:    loops,
		liveness: liveness,
		visited:  make(map[hir.BlockID]bool),
	}

	entry := cf.DFG().EntryBlock()
	initial := operand.New()
	for _, p := range cf.Params() {
		initial.Push(operand.NewFromValue(operand.TypedValue{Value: p, Type: cf.DFG().ValueType(p)}))
	}

	if err := e.run(entry, out.Body(), initial); err != nil {
		return nil, err
	}
	return out, nil
}

// Emitter holds the analyses and masm.Function shared across the whole
// treeified traversal of one HIR function.
type Emitter struct {
	fn       *hir.ConcreteFunction
	out      *masm.Function
	globals  *analysis.GlobalVariableLayout
	cfg      *analysis.ControlFlowGraph
	dt       *analysis.DominatorTree
	loops    *analysis.LoopAnalysis
	liveness *analysis.LivenessAnalysis
	visited  map[hir.BlockID]bool
}

type taskKind uint8

const (
	// taskInline continues emitting the named block's instructions directly
	// into the current target, with no new MASM block boundary.
	taskInline taskKind = iota
	// taskBlock emits the named block into a freshly allocated MASM block
	// (the body of an If/While arm).
	taskBlock
)

// task is one pending unit of the treeified traversal: a HIR block still to
// be emitted, the MASM block it should be emitted into, the operand stack
// state it starts from, and the loop nesting depth in effect at that point.
type task struct {
	kind      taskKind
	block     hir.BlockID
	target    *masm.Block
	loopLevel int
	stack     *operand.OperandStack
}

// run drives the task stack to exhaustion, LIFO, mirroring the teacher's
// SmallVec-backed work list.
func (e *Emitter) run(entry hir.BlockID, target *masm.Block, stack *operand.OperandStack) error {
	tasks := []*task{{kind: taskInline, block: entry, target: target, loopLevel: e.loopLevel(entry), stack: stack}}
	for len(tasks) > 0 {
		top := len(tasks) - 1
		t := tasks[top]
		tasks = tasks[:top]

		wasVisited := e.visited[t.block]
		e.visited[t.block] = true

		be := &blockEmitter{
			e:          e,
			block:      t.block,
			target:     t.target,
			stack:      t.stack,
			loopLevel:  t.loopLevel,
			wasVisited: wasVisited,
		}
		if err := be.emit(&tasks); err != nil {
			return err
		}
	}
	return nil
}

// loopLevel counts how many blocks on b's dominator-tree ancestor chain
// (b itself up to and including the entry block) are loop headers -- a
// numeric stand-in for the teacher's identity-based "controlling loop"
// tracking, sufficient here since the only consumer is sizing the
// boolean-literal continue/break chains a tail-duplicated loop header
// leaves behind (spec.md §4.6).
func (e *Emitter) loopLevel(b hir.BlockID) int {
	level := 0
	cur := b
	for {
		if e.loops.IsLoopHeader(cur) {
			level++
		}
		next := e.dt.IDom(cur)
		if next == cur {
			return level
		}
		cur = next
	}
}
