package depgraph

import (
	"fmt"
	"sort"

	"github.com/0xPolygonMiden/compiler-sub002/hir"
)

type direction uint8

const (
	dirDependent direction = iota
	dirDependency
)

type edge struct {
	node NodeID
	dir  direction
}

// Graph is a directed, acyclic graph of data and control dependencies
// within a single basic block (dependency_graph.rs DependencyGraph).
type Graph struct {
	nodes map[NodeID]struct{}
	edges map[NodeID][]edge
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[NodeID]struct{}), edges: make(map[NodeID][]edge)}
}

// AddNode adds node to the graph if not already present, returning its id.
func (g *Graph) AddNode(n Node) NodeID {
	id := n.ID()
	if _, ok := g.nodes[id]; !ok {
		g.nodes[id] = struct{}{}
		g.edges[id] = nil
	}
	return id
}

// Contains reports whether id is present in the graph.
func (g *Graph) Contains(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// IsReachableFrom reports whether there is a path from a to b.
func (g *Graph) IsReachableFrom(a, b NodeID) bool {
	if !g.Contains(a) || !g.Contains(b) {
		return false
	}
	visited := map[NodeID]struct{}{}
	worklist := []NodeID{a}
	for len(worklist) > 0 {
		n := worklist[0]
		worklist = worklist[1:]
		if _, ok := visited[n]; ok {
			continue
		}
		visited[n] = struct{}{}
		if n == b {
			return true
		}
		worklist = append(worklist, g.SuccessorIDs(n)...)
	}
	return false
}

// AddDependency records that a depends on b: a cannot be scheduled before b.
func (g *Graph) AddDependency(a, b NodeID) {
	if a == b {
		panic("BUG: cannot add a self-referential dependency")
	}
	g.edges[a] = append(g.edges[a], edge{node: b, dir: dirDependent})
	g.edges[b] = append(g.edges[b], edge{node: a, dir: dirDependency})
}

// Edge returns the Dependency describing the edge from `from` to `to`.
// Panics if no such edge exists.
func (g *Graph) Edge(from, to NodeID) Dependency {
	for _, e := range g.edges[from] {
		if e.node == to && e.dir == dirDependent {
			return Dependency{Dependent: from, Dependency: to}
		}
	}
	panic(fmt.Sprintf("BUG: invalid edge: there is no dependency from %s to %s", from, to))
}

// RemoveNode removes node and all edges referencing it.
func (g *Graph) RemoveNode(id NodeID) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)
	es := g.edges[id]
	delete(g.edges, id)
	for _, e := range es {
		g.edges[e.node] = filterEdges(g.edges[e.node], func(o edge) bool { return o.node != id })
	}
}

// RemoveEdge removes the edge between a and b, in both directions.
func (g *Graph) RemoveEdge(a, b NodeID) {
	g.edges[a] = filterEdges(g.edges[a], func(e edge) bool {
		return e.node != b || e.dir == dirDependency
	})
	g.edges[b] = filterEdges(g.edges[b], func(e edge) bool {
		return e.node != a || e.dir == dirDependent
	})
}

func filterEdges(es []edge, keep func(edge) bool) []edge {
	out := es[:0]
	for _, e := range es {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// NumPredecessors returns the number of dependents of node, i.e. nodes that
// depend on it.
func (g *Graph) NumPredecessors(node NodeID) int {
	n := 0
	for _, e := range g.edges[node] {
		if e.dir == dirDependency {
			n++
		}
	}
	return n
}

// NodeIDs returns the graph's node ids in ascending (natural) order.
func (g *Graph) NodeIDs() []NodeID {
	out := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Nodes returns the graph's nodes, expanded, in ascending id order.
func (g *Graph) Nodes() []Node {
	ids := g.NodeIDs()
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = id.Expand()
	}
	return out
}

// Parent returns the sole predecessor of node, if it has exactly one.
func (g *Graph) Parent(node NodeID) (NodeID, bool) {
	preds := g.Predecessors(node)
	if len(preds) == 0 {
		return 0, false
	}
	if len(preds) > 1 {
		panic(fmt.Sprintf("BUG: expected %s to have a single parent, but found multiple", node))
	}
	return preds[0].Dependent, true
}

// UnwrapParent is like Parent, but panics if node has no parent.
func (g *Graph) UnwrapParent(node NodeID) NodeID {
	p, ok := g.Parent(node)
	if !ok {
		panic(fmt.Sprintf("BUG: expected %s to have a parent, but it has none", node))
	}
	return p
}

// Child returns the sole successor of node, if it has exactly one.
func (g *Graph) Child(node NodeID) (NodeID, bool) {
	succs := g.Successors(node)
	if len(succs) == 0 {
		return 0, false
	}
	if len(succs) > 1 {
		panic(fmt.Sprintf("BUG: expected %s to have a single child, but found multiple", node))
	}
	return succs[0].Dependency, true
}

// UnwrapChild is like Child, but panics if node has no child.
func (g *Graph) UnwrapChild(node NodeID) NodeID {
	c, ok := g.Child(node)
	if !ok {
		panic(fmt.Sprintf("BUG: expected %s to have a child, but it has none", node))
	}
	return c
}

// Predecessors returns the dependents of node: nodes which require node.
func (g *Graph) Predecessors(node NodeID) []Dependency {
	var out []Dependency
	for _, e := range g.edges[node] {
		if e.dir == dirDependency {
			out = append(out, Dependency{Dependent: e.node, Dependency: node})
		}
	}
	return out
}

// PredecessorIDs is like Predecessors, but returns bare ids.
func (g *Graph) PredecessorIDs(node NodeID) []NodeID {
	var out []NodeID
	for _, e := range g.edges[node] {
		if e.dir == dirDependency {
			out = append(out, e.node)
		}
	}
	return out
}

// Successors returns the dependencies of node: nodes which node requires.
func (g *Graph) Successors(node NodeID) []Dependency {
	var out []Dependency
	for _, e := range g.edges[node] {
		if e.dir == dirDependent {
			out = append(out, Dependency{Dependent: node, Dependency: e.node})
		}
	}
	return out
}

// SuccessorIDs is like Successors, but returns bare ids.
func (g *Graph) SuccessorIDs(node NodeID) []NodeID {
	var out []NodeID
	for _, e := range g.edges[node] {
		if e.dir == dirDependent {
			out = append(out, e.node)
		}
	}
	return out
}

// Indices assigns an ordinal index to every node for which root is an
// ancestor, including root itself, in the order code generation would
// visit them: the lower the index, the earlier the node is emitted.
type Indices struct {
	sorted map[NodeID]int
}

// Get returns the index assigned to node, if any.
func (idx *Indices) Get(node NodeID) (int, bool) {
	i, ok := idx.sorted[node]
	return i, ok
}

// Indexed computes an Indices for the component of g reachable from root.
// Returns an error if a cycle is detected (it should never be, since a
// Graph built from straight-line code is acyclic by construction).
func (g *Graph) Indexed(root NodeID) (*Indices, error) {
	output := map[NodeID]int{}
	stack := []NodeID{root}
	discovered := map[NodeID]struct{}{}
	finished := map[NodeID]struct{}{}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		if _, seen := discovered[node]; !seen {
			discovered[node] = struct{}{}
			if node.IsInstruction() {
				for _, succ := range g.Successors(node) {
					if !succ.Dependency.IsArgument() {
						continue
					}
					argSrc := g.UnwrapChild(succ.Dependency)
					if _, ok := discovered[argSrc]; !ok {
						stack = append(stack, argSrc)
					} else if _, done := finished[argSrc]; !done {
						return nil, ErrUnexpectedCycle
					}
				}
				for _, succ := range g.Successors(node) {
					if succ.Dependency.IsArgument() {
						continue
					}
					succNode := succ.Dependency
					if !succNode.IsInstruction() {
						if !succNode.IsResult() {
							panic("BUG: expected a result node")
						}
						succNode = g.UnwrapChild(succNode)
					}
					if _, ok := discovered[succNode]; !ok {
						stack = append(stack, succNode)
					} else if _, done := finished[succNode]; !done {
						return nil, ErrUnexpectedCycle
					}
				}
			} else if node.IsResult() {
				instNode := g.UnwrapChild(node)
				if _, ok := discovered[instNode]; !ok {
					stack = append(stack, instNode)
				} else if _, done := finished[instNode]; !done {
					return nil, ErrUnexpectedCycle
				}
			}
		} else {
			stack = stack[:len(stack)-1]
			if _, done := finished[node]; !done {
				finished[node] = struct{}{}
				output[node] = len(output)
			}
		}
	}

	return &Indices{sorted: output}, nil
}

// ErrUnexpectedCycle is returned by Indexed and Toposort when the subgraph reachable
// from root is not actually acyclic.
var ErrUnexpectedCycle = fmt.Errorf("an unexpected cycle was detected when attempting to topologically sort a dependency graph")

// Toposort returns the nodes for which root is an ancestor, in topological
// order (Kahn's algorithm), with root first.
func (g *Graph) Toposort(root NodeID) ([]NodeID, error) {
	work := g.clone()
	output := make([]NodeID, 0, len(work.nodes))

	work.edges[root] = filterEdges(append([]edge(nil), work.edges[root]...), func(e edge) bool {
		return e.dir == dirDependent
	})

	roots := []NodeID{root}
	for len(roots) > 0 {
		nid := roots[0]
		roots = roots[1:]
		output = append(output, nid)
		succs := append([]NodeID(nil), work.SuccessorIDs(nid)...)
		for _, mid := range succs {
			work.RemoveEdge(nid, mid)
			if work.NumPredecessors(mid) == 0 {
				roots = append(roots, mid)
			}
		}
	}

	seen := map[NodeID]struct{}{}
	for _, id := range output {
		seen[id] = struct{}{}
	}
	for n, es := range work.edges {
		if _, ok := seen[n]; ok && len(es) > 0 {
			return nil, ErrUnexpectedCycle
		}
	}
	return output, nil
}

func (g *Graph) clone() *Graph {
	c := New()
	for id := range g.nodes {
		c.nodes[id] = struct{}{}
	}
	for id, es := range g.edges {
		c.edges[id] = append([]edge(nil), es...)
	}
	return c
}

// AddDataDependency records that dependent (an instruction node) uses
// value through argument, adding whatever intermediate Argument/Result/Stack
// nodes are needed to describe where value comes from (dependency_graph.rs
// add_data_dependency).
func (g *Graph) AddDataDependency(dependent NodeID, argument Argument, value hir.Value, block hir.BlockID, dfg *hir.DataFlowGraph) {
	if !dependent.IsInstruction() {
		panic("BUG: AddDataDependency requires an instruction node")
	}
	dependencyID := g.AddNode(Arg(argument))

	data := dfg.ValueDataOf(value)
	if data.IsParam {
		operandID := g.AddNode(Stack(value))
		g.AddDependency(dependencyID, operandID)
	} else {
		depInst := data.Inst
		if dfg.InstByID(depInst).Block() == block {
			pos := instPosition(dfg, block, depInst)
			instNodeID := g.AddNode(InstNode(depInst, pos))
			resultNodeID := g.AddNode(Result(value, uint8(data.Index)))
			g.AddDependency(resultNodeID, instNodeID)
			g.AddDependency(dependencyID, resultNodeID)
		} else {
			operandID := g.AddNode(Stack(value))
			g.AddDependency(dependencyID, operandID)
		}
	}

	g.AddDependency(dependent, dependencyID)
}

func instPosition(dfg *hir.DataFlowGraph, block hir.BlockID, target hir.Inst) uint16 {
	for i, id := range dfg.BlockInsts(block) {
		if id == target {
			return uint16(i)
		}
	}
	panic("BUG: instruction not found in its own block's instruction list")
}
