package spill

import (
	"github.com/0xPolygonMiden/compiler-sub002/hir"
	"github.com/0xPolygonMiden/compiler-sub002/hir/analysis"
)

// RewriteSpills runs all three phases of the spill/reload transformation
// over fn in place (spec.md §4.7). It is a no-op when no block ever exceeds
// Budget. codegen/function lowers whatever Spill/Reload pseudo-instructions
// survive to plain local.store/local.load pairs; it never sees the
// intermediate, semantically-invalid state between Materialize and
// Reconstruct.
func RewriteSpills(fn *hir.ConcreteFunction) error {
	cfg := analysis.BuildControlFlowGraph(fn)
	liveness := analysis.BuildLivenessAnalysis(fn, cfg)

	plan := Analyze(fn, cfg, liveness)
	if len(plan.Spills) == 0 {
		return nil
	}

	Materialize(fn, plan)

	cfg = analysis.BuildControlFlowGraph(fn)
	dt := analysis.BuildDominatorTree(cfg)
	df := analysis.BuildDominanceFrontier(cfg, dt)
	Reconstruct(fn, cfg, dt, df, plan)

	return nil
}
