// Package resist computes two-terminal equivalent resistances over the
// resistor-only view of a net, with an optional cached LU factorization for
// batch queries.
package resist

import (
	"log"
	"math"
	"sort"

	"rcnet/pkg/matrix"
	"rcnet/pkg/netmodel"
	"rcnet/pkg/util"
)

// Network is the resistor-only derived structure two-terminal queries run
// against. It is immutable after construction; rebuild it when the
// underlying net changes.
type Network struct {
	ids       []string // dense index -> node ID, sorted
	index     map[string]int
	adj       [][]edge
	resistors []resistor
}

type edge struct {
	to int
	r  float64
}

type resistor struct {
	a, b int
	r    float64
}

// NewNetwork extracts the resistor multigraph from a net. Capacitors and
// OTHER elements are excluded; non-positive or non-finite resistances are
// dropped with a warning. A net with no usable resistor at all is an error.
func NewNetwork(net *netmodel.Net) (*Network, error) {
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
		if !(elem.Value > 0) || math.IsInf(elem.Value, 1) {
			log.Printf("[WARNING] dropping resistor %s (%s-%s): bad value %s",
				elem.ID, elem.NodeA, elem.NodeB, util.FormatValueFactor(elem.Value, "Ohm"))
			continue
		}
		edges = append(edges, rawEdge{a: elem.NodeA, b: elem.NodeB, r: elem.Value})
		seen[elem.NodeA] = true
		seen[elem.NodeB] = true
	}
	if len(edges) == 0 {
		return nil, ErrInvalidNetwork
	}

	nw := &Network{index: make(map[string]int, len(seen))}
	nw.ids = make([]string, 0, len(seen))
	for id := range seen {
		nw.ids = append(nw.ids, id)
	}
	sort.Strings(nw.ids)
	for i, id := range nw.ids {
		nw.index[id] = i
	}

	nw.adj = make([][]edge, len(nw.ids))
	for _, e := range edges {
		ia, ib := nw.index[e.a], nw.index[e.b]
		nw.adj[ia] = append(nw.adj[ia], edge{to: ib, r: e.r})
		nw.adj[ib] = append(nw.adj[ib], edge{to: ia, r: e.r})
		nw.resistors = append(nw.resistors, resistor{a: ia, b: ib, r: e.r})
	}
	return nw, nil
}

// Nodes returns all node IDs in sorted order.
func (nw *Network) Nodes() []string {
	out := make([]string, len(nw.ids))
	copy(out, nw.ids)
	return out
}

func (nw *Network) Has(id string) bool {
	_, ok := nw.index[id]
	return ok
}

func (nw *Network) NumNodes() int { return len(nw.ids) }

func (nw *Network) NumResistors() int { return len(nw.resistors) }

// Connected reports whether every node is reachable from every other via
// resistors (BFS from an arbitrary start).
func (nw *Network) Connected() bool {
	if len(nw.ids) <= 1 {
		return len(nw.ids) == 1
	}

	visited := make([]bool, len(nw.ids))
	queue := []int{0}
	visited[0] = true
	count := 1
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, e := range nw.adj[u] {
			if !visited[e.to] {
				visited[e.to] = true
				count++
				queue = append(queue, e.to)
			}
		}
	}
	return count == len(nw.ids)
}

// referenceNode picks the elimination reference: the preferred ID when it
// exists, otherwise the maximum-degree node (numerically most stable pivot
// choice, smallest ID on ties), otherwise the smallest ID.
func (nw *Network) referenceNode(preferred string) string {
	if _, ok := nw.index[preferred]; ok && preferred != "" {
		return preferred
	}

	best := -1
	bestDegree := -1
	for i := range nw.ids { // ids are sorted, so ties keep the smallest ID
		if len(nw.adj[i]) > bestDegree {
			bestDegree = len(nw.adj[i])
			best = i
		}
	}
	if best >= 0 {
		return nw.ids[best]
	}
	return nw.ids[0]
}

// reducedMatrix stamps the conductance matrix with the reference eliminated.
// Resistors touching the reference still contribute their diagonal term on
// the surviving endpoint. The returned slice maps dense node index to
// reduced row, with matrix.Reference marking the eliminated node.
func (nw *Network) reducedMatrix(refIdx int) (*matrix.CSR, []int) {
	reduced := make([]int, len(nw.ids))
	next := 0
	for i := range nw.ids {
		if i == refIdx {
			reduced[i] = matrix.Reference
			continue
		}
		reduced[i] = next
		next++
	}

	builder := matrix.NewBuilder(next)
	for _, res := range nw.resistors {
		matrix.StampConductance(builder, nil, reduced[res.a], reduced[res.b], 1.0/res.r, 0)
	}
	return builder.ToCSR(), reduced
}

// directResistance returns the parallel combination of the direct edges
// between a and b, or ErrNoPath when none exist.
func (nw *Network) directResistance(ia, ib int) (float64, error) {
	sum := 0.0
	for _, e := range nw.adj[ia] {
		if e.to == ib {
			sum += 1.0 / e.r
		}
	}
	if sum == 0 {
		return 0, ErrNoPath
	}
	return 1.0 / sum, nil
}
