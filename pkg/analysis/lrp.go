package analysis

import (
	"container/heap"
	"fmt"
	"log"
	"math"
	"sort"

	"rcnet/pkg/netmodel"
	"rcnet/pkg/util"
)

// SolveLRP approximates node voltages with a least-resistance-path spanning
// tree: multi-source Dijkstra from every FIXED node over resistor edges,
// upward current aggregation in tree post-order, then a downward voltage
// pass. It is exact when the resistor graph is itself a tree and trades
// loop-current redistribution for O((N+E) log N) speed otherwise.
//
// All FIXED voltages must be identical; the tree has a single root
// potential. SOURCE currents are amperes, outflow positive. Capacitors and
// OTHER elements are ignored unconditionally.
//
// The first return value holds solved voltages; the second lists the nodes
// with no resistor path to any FIXED node, whose voltage is undefined.
func SolveLRP(net *netmodel.Net, fixedVoltages, sourceCurrents map[string]float64) (map[string]float64, []string, error) {
	if len(fixedVoltages) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one FIXED node is required", ErrInvalidNetwork)
	}

	rootVoltage := math.NaN()
	for _, v := range fixedVoltages {
		if math.IsNaN(rootVoltage) {
			rootVoltage = v
			continue
		}
		if v != rootVoltage {
			return nil, nil, fmt.Errorf("%w: got %g and %g", ErrInconsistentRoots, rootVoltage, v)
		}
	}

	for _, id := range sortedKeys(fixedVoltages) {
		node := net.Node(id)
		if node == nil {
			return nil, nil, fmt.Errorf("%w: FIXED node %s", ErrUnknownNode, id)
		}
		if node.Role != netmodel.RoleFixed {
			return nil, nil, fmt.Errorf("%w: node %s is %s, not FIXED", ErrRoleMismatch, id, node.Role)
		}
	}
	for _, id := range sortedKeys(sourceCurrents) {
		node := net.Node(id)
		if node == nil {
			return nil, nil, fmt.Errorf("%w: SOURCE node %s", ErrUnknownNode, id)
		}
		if node.Role != netmodel.RoleSource {
			return nil, nil, fmt.Errorf("%w: node %s is %s, not SOURCE", ErrRoleMismatch, id, node.Role)
		}
	}

	g := buildResistorGraph(net)

	roots := make([]int, 0, len(fixedVoltages))
	for _, id := range sortedKeys(fixedVoltages) {
		idx, ok := g.index[id]
		if !ok {
			return nil, nil, fmt.Errorf("%w: FIXED node %s has no resistor connection", ErrInvalidNetwork, id)
		}
		roots = append(roots, idx)
	}

	tree := buildLRPTree(g, roots)

	// Seed each SOURCE node's accumulator with its own current, then fold
	// accumulators into parents in post-order so every child is complete
	// before its parent.
	current := make([]float64, len(g.ids))
	for id, amps := range sourceCurrents {
		if idx, ok := g.index[id]; ok {
			current[idx] += amps
		}
	}
	for i := len(tree.order) - 1; i >= 0; i-- {
		idx := tree.order[i]
		if p := tree.parent[idx]; p >= 0 {
			current[p] += current[idx]
		}
	}

	// Downward pass: each child drops by its aggregated current across the
	// parent edge.
	voltages := make(map[string]float64, len(g.ids))
	for _, root := range roots {
		voltages[g.ids[root]] = rootVoltage
	}
	for _, idx := range tree.order {
		p := tree.parent[idx]
		if p < 0 {
			continue
		}
		v := voltages[g.ids[p]] - current[idx]*tree.parentRes[idx]
		voltages[g.ids[idx]] = v
	}

	var undefined []string
	for _, node := range net.Nodes() {
		if _, ok := voltages[node.ID]; !ok {
			undefined = append(undefined, node.ID)
		}
	}

	return voltages, undefined, nil
}

type resistorGraph struct {
	ids   []string // dense index -> node ID, sorted
	index map[string]int
	adj   [][]resistorEdge
}

type resistorEdge struct {
	to int
	r  float64
}

// buildResistorGraph collects the resistor-only multigraph of the net with
// dense integer indices. Non-positive or non-finite resistances are dropped
// with a warning.
func buildResistorGraph(net *netmodel.Net) *resistorGraph {
	type rawEdge struct {
		a, b string
		r    float64
	}
	var edges []rawEdge
	seen := make(map[string]bool)

	for _, elem := range net.Elements() {
		if elem.Kind != netmodel.KindResistor {
			continue
		}
		if !validValue(elem.Value) {
			log.Printf("[WARNING] dropping resistor %s: bad value %s",
				elem.ID, util.FormatValueFactor(elem.Value, "Ohm"))
			continue
		}
		edges = append(edges, rawEdge{a: elem.NodeA, b: elem.NodeB, r: elem.Value})
		seen[elem.NodeA] = true
		seen[elem.NodeB] = true
	}

	g := &resistorGraph{index: make(map[string]int, len(seen))}
	g.ids = make([]string, 0, len(seen))
	for id := range seen {
		g.ids = append(g.ids, id)
	}
	sort.Strings(g.ids)
	for i, id := range g.ids {
		g.index[id] = i
	}

	g.adj = make([][]resistorEdge, len(g.ids))
	for _, e := range edges {
		ia, ib := g.index[e.a], g.index[e.b]
		g.adj[ia] = append(g.adj[ia], resistorEdge{to: ib, r: e.r})
		g.adj[ib] = append(g.adj[ib], resistorEdge{to: ia, r: e.r})
	}
	return g
}

type lrpTree struct {
	parent    []int     // -1 for roots and unreached nodes
	parentRes []float64 // resistance of the parent edge
	order     []int     // reached nodes, parents before children
}

// buildLRPTree runs Dijkstra jointly from all roots at distance zero using
// lazy decrease-key: shorter paths strictly replace a node's parent, stale
// heap entries are discarded on pop. The visit order doubles as a
// parents-first traversal order of the resulting forest.
func buildLRPTree(g *resistorGraph, roots []int) *lrpTree {
	n := len(g.ids)
	tree := &lrpTree{
		parent:    make([]int, n),
		parentRes: make([]float64, n),
	}
	dist := make([]float64, n)
	visited := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		tree.parent[i] = -1
	}

	pq := make(lrpPQ, 0, n)
	heap.Init(&pq)
	for _, root := range roots {
		dist[root] = 0
		heap.Push(&pq, &lrpItem{node: root, dist: 0})
	}

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(*lrpItem)
		u := item.node
		if visited[u] {
			continue
		}
		visited[u] = true
		tree.order = append(tree.order, u)

		for _, e := range g.adj[u] {
			if visited[e.to] {
				continue
			}
			alt := dist[u] + e.r
			if alt >= dist[e.to] {
				continue // first-found shortest path wins on ties
			}
			dist[e.to] = alt
			tree.parent[e.to] = u
			tree.parentRes[e.to] = e.r
			heap.Push(&pq, &lrpItem{node: e.to, dist: alt})
		}
	}

	return tree
}

type lrpItem struct {
	node int
	dist float64
}

type lrpPQ []*lrpItem

func (pq lrpPQ) Len() int            { return len(pq) }
func (pq lrpPQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq lrpPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *lrpPQ) Push(x interface{}) { *pq = append(*pq, x.(*lrpItem)) }
func (pq *lrpPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
