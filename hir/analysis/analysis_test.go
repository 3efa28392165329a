package analysis

import (
	"testing"

	"github.com/0xPolygonMiden/compiler-sub002/hir"
)

// buildDiamond constructs:
//
//	   0
//	  / \
//	 1   2
//	  \ /
//	   3
func buildDiamond() hir.Function {
	fn := hir.NewFunction("diamond", hir.Signature{})
	b0 := fn.CreateBlock()
	b1 := fn.CreateBlock()
	b2 := fn.CreateBlock()
	b3 := fn.CreateBlock()
	fn.SetEntryBlock(b0)

	cond := fn.AddBlockParam(b0, hir.TypeI1)
	fn.CondBr(b0, cond, b1, nil, b2, nil)
	fn.Br(b1, b3)
	fn.Br(b2, b3)
	fn.Ret(b3)
	return fn
}

// buildLoop constructs a single natural loop:
//
//	0 -> 1 -> 2 -> 1 (back edge)
//	          |
//	          v
//	          3
func buildLoop() hir.Function {
	fn := hir.NewFunction("loop", hir.Signature{})
	b0 := fn.CreateBlock()
	b1 := fn.CreateBlock()
	b2 := fn.CreateBlock()
	b3 := fn.CreateBlock()
	fn.SetEntryBlock(b0)

	fn.Br(b0, b1)
	cond := fn.AddBlockParam(b1, hir.TypeI1)
	_ = cond
	fn.CondBr(b1, cond, b2, nil, b3, nil)
	fn.Br(b2, b1)
	fn.Ret(b3)
	return fn
}

func TestDominatorTreeDiamond(t *testing.T) {
	fn := buildDiamond()
	cfg := BuildControlFlowGraph(fn)
	dt := BuildDominatorTree(cfg)

	blocks := cfg.ReversePostOrder()
	if len(blocks) != 4 {
		t.Fatalf("expected 4 reachable blocks, got %d", len(blocks))
	}
	b0 := cfg.EntryBlock()
	for _, b := range blocks {
		if b == b0 {
			continue
		}
		if !dt.Dominates(b0, b) {
			t.Fatalf("entry should dominate every block, failed for %s", b)
		}
	}
}

func TestDominanceFrontierDiamond(t *testing.T) {
	fn := buildDiamond()
	cfg := BuildControlFlowGraph(fn)
	dt := BuildDominatorTree(cfg)
	df := BuildDominanceFrontier(cfg, dt)

	blocks := cfg.ReversePostOrder()
	b1, b2 := blocks[1], blocks[2]
	if len(df.Of(b1)) != 1 || len(df.Of(b2)) != 1 {
		t.Fatalf("expected each diamond arm to have exactly one frontier block, got %v / %v", df.Of(b1), df.Of(b2))
	}
}

func TestLoopAnalysisDetectsBackEdge(t *testing.T) {
	fn := buildLoop()
	cfg := BuildControlFlowGraph(fn)
	dt := BuildDominatorTree(cfg)
	la := BuildLoopAnalysis(cfg, dt)

	blocks := cfg.ReversePostOrder()
	header := blocks[1] // b1, per buildLoop's construction order
	if !la.IsLoopHeader(header) {
		t.Fatalf("expected %s to be detected as a loop header", header)
	}
}

func TestLivenessAnalysisDiamond(t *testing.T) {
	fn := hir.NewFunction("liveness", hir.Signature{Params: []hir.Type{hir.TypeU32}})
	b0 := fn.CreateBlock()
	b1 := fn.CreateBlock()
	b2 := fn.CreateBlock()
	b3 := fn.CreateBlock()
	fn.SetEntryBlock(b0)

	p0 := fn.AddBlockParam(b0, hir.TypeU32)
	cond := fn.AddBlockParam(b0, hir.TypeI1)
	fn.CondBr(b0, cond, b1, nil, b2, nil)
	fn.Br(b1, b3, p0)
	fn.Br(b2, b3, p0)
	joinParam := fn.AddBlockParam(b3, hir.TypeU32)
	fn.Ret(b3, joinParam)

	cfg := BuildControlFlowGraph(fn)
	la := BuildLivenessAnalysis(fn, cfg)

	if !la.IsLiveOut(b0, p0) {
		t.Fatalf("p0 should be live-out of the entry block: it crosses both branch edges")
	}
}

func TestGlobalVariableLayoutRoundTrips(t *testing.T) {
	g := NewGlobalVariableLayout()
	if _, ok := g.GetComputedAddr("f", "counter"); ok {
		t.Fatalf("expected no address before Define")
	}
	g.Define("f", "counter", 0x100)
	addr, ok := g.GetComputedAddr("f", "counter")
	if !ok || addr != 0x100 {
		t.Fatalf("expected (0x100, true), got (%#x, %v)", addr, ok)
	}
}
