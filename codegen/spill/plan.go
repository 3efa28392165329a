// Package spill caps a function's concurrent operand-stack depth to the
// solver's sixteen-slot random-access window by retiring excess values to
// procedure-local slots and reconstructing SSA form around the resulting
// Spill/Reload pseudo-instructions (spec.md §4.7). Grounded on
// original_source/hir-transform/src/spill.rs's three-phase shape
// (analysis, materialisation, rewrite), adapted to this module's simpler,
// block-granular liveness rather than the original's full register-pressure
// model.
package spill

import "github.com/0xPolygonMiden/compiler-sub002/hir"

// Budget is the maximum number of concurrently live operand-stack values
// codegen/function's window-addressed solver can place without exceeding
// the raw-index-15 precondition codegen/solver enforces.
const Budget = 16

// PlacementKind discriminates where a spill or reload pseudo-instruction is
// ultimately inserted.
type PlacementKind uint8

const (
	// At places the pseudo-instruction immediately before an existing
	// instruction of an existing block.
	At PlacementKind = iota
	// AtSplit places it on a synthetic block spliced onto one CFG edge, so
	// it runs only when that edge is taken.
	AtSplit
)

// Placement names an insertion point computed by Analyze. Before is only
// meaningful when Kind is At; Split indexes into Plan.Splits when Kind is
// AtSplit.
type Placement struct {
	Kind   PlacementKind
	Block  hir.BlockID
	Before hir.Inst
	Split  int
}

// SplitRecord describes a synthetic block to splice onto one successor edge
// of Pred, so a reload needed along only that edge doesn't force itself
// (or a missing local) onto Pred's other successors.
type SplitRecord struct {
	Pred      hir.BlockID
	SuccIndex int
	Succ      hir.BlockID
	// Block is filled in by Materialize.
	Block hir.BlockID
}

// SpillRecord retires Value from the operand stack at Placement into
// procedure-local slot Local.
type SpillRecord struct {
	Value     hir.Value
	Type      hir.Type
	Placement Placement
	Local     hir.LocalID
	// Materialized is filled in by Materialize.
	Materialized hir.Inst
}

// ReloadRecord revives Value, previously spilled to Local, at Placement.
type ReloadRecord struct {
	Value     hir.Value
	Type      hir.Type
	Placement Placement
	Local     hir.LocalID
	// Materialized and Result are filled in by Materialize.
	Materialized hir.Inst
	Result       hir.Value
}

// Plan is Phase 1's complete output: every split, spill, and reload Phase 2
// must materialize.
type Plan struct {
	Splits  []SplitRecord
	Spills  []SpillRecord
	Reloads []ReloadRecord
}
