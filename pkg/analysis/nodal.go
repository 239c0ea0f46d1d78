// Package analysis computes node voltages for a single net: an exact
// modified-nodal-analysis solve and a fast least-resistance-path tree
// approximation.
package analysis

import (
	"fmt"
	"log"
	"math"

	"rcnet/pkg/matrix"
	"rcnet/pkg/netmodel"
	"rcnet/pkg/util"
)

// Options configures SolveNodal. The zero value requests a DC direct solve
// with an automatically chosen reference.
type Options struct {
	Reference string        // reference node ID; empty picks the smallest FIXED ID
	Frequency float64       // Hz; 0 means DC and capacitors are open-circuited
	Method    matrix.Method // Direct, ConjugateGradient, or LeastSquares
}

// SolveNodal solves every node voltage of the net by modified nodal
// analysis. FIXED nodes must appear in fixedVoltages and SOURCE nodes in
// sourceCurrents (amperes, current flowing out of the node is positive).
// The returned map covers every node of the net.
func SolveNodal(net *netmodel.Net, fixedVoltages, sourceCurrents map[string]float64, opts Options) (map[string]float64, error) {
	nodes := net.Nodes()
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: net %s has no nodes", ErrInvalidNetwork, net.ID)
	}

	var fixedIDs []string
	for _, node := range nodes {
		switch node.Role {
		case netmodel.RoleFixed:
			if _, ok := fixedVoltages[node.ID]; !ok {
				return nil, fmt.Errorf("%w: no voltage for FIXED node %s", ErrMissingBoundaryValue, node.ID)
			}
			fixedIDs = append(fixedIDs, node.ID)
		case netmodel.RoleSource:
			if _, ok := sourceCurrents[node.ID]; !ok {
				return nil, fmt.Errorf("%w: no current for SOURCE node %s", ErrMissingBoundaryValue, node.ID)
			}
		}
	}
	if len(fixedIDs) == 0 {
		return nil, fmt.Errorf("%w: net %s has no FIXED node to anchor the solve", ErrInvalidNetwork, net.ID)
	}

	// Nodes() is ID-sorted, so the first FIXED node is the lexicographically
	// smallest one.
	reference := opts.Reference
	if reference == "" {
		reference = fixedIDs[0]
	} else if net.Node(reference) == nil {
		return nil, fmt.Errorf("%w: reference node %s", ErrUnknownNode, reference)
	}

	omega := 2 * math.Pi * opts.Frequency

	type stampEdge struct {
		a, b string
		g    float64
	}
	var edges []stampEdge
	for _, elem := range net.Elements() {
		g, ok := elementConductance(elem, omega)
		if !ok {
			continue
		}
		edges = append(edges, stampEdge{a: elem.NodeA, b: elem.NodeB, g: g})
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("%w: net %s has no usable R/C elements", ErrInvalidNetwork, net.ID)
	}

	// Dense 0..n-2 indexing over all nodes except the reference.
	index := make(map[string]int, len(nodes)-1)
	for _, node := range nodes {
		if node.ID == reference {
			continue
		}
		index[node.ID] = len(index)
	}
	n := len(index)

	vRef := fixedVoltages[reference] // 0 when the reference is not FIXED

	if n == 0 {
		return map[string]float64{reference: vRef}, nil
	}

	builder := matrix.NewBuilder(n)
	rhs := make([]float64, n)
	for _, e := range edges {
		ia, ib := reducedIndex(index, reference, e.a), reducedIndex(index, reference, e.b)
		if ia == skipNode || ib == skipNode {
			continue // endpoint outside this net's node set
		}
		matrix.StampConductance(builder, rhs, ia, ib, e.g, vRef)
	}
	if builder.Len() == 0 {
		return nil, fmt.Errorf("%w: every usable element connects only the reference node", ErrInvalidNetwork)
	}

	for _, id := range fixedIDs {
		if idx, ok := index[id]; ok {
			builder.Add(idx, idx, 0) // keep a diagonal slot for the substitution below
		}
	}

	for id, current := range sourceCurrents {
		if idx, ok := index[id]; ok {
			rhs[idx] -= current
		}
	}

	g := builder.ToCSR()

	// Dirichlet substitution for the remaining FIXED nodes: replace each
	// fixed row with V = given. Other rows keep their column entries, which
	// stay consistent because the fixed unknown solves to exactly its given
	// value. Only the row is eliminated, so the matrix loses strict symmetry
	// here and symmetric-only iterative methods cannot assume it.
	for _, id := range fixedIDs {
		idx, ok := index[id]
		if !ok {
			continue
		}
		g.ZeroRow(idx)
		g.SetDiag(idx, 1)
		rhs[idx] = fixedVoltages[id]
	}

	solution, err := matrix.Solve(g, rhs, opts.Method)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolveFailed, err)
	}

	voltages := make(map[string]float64, len(nodes))
	voltages[reference] = vRef
	for id, idx := range index {
		voltages[id] = solution[idx]
	}
	for _, id := range fixedIDs {
		voltages[id] = fixedVoltages[id]
	}
	return voltages, nil
}

const skipNode = -2

// reducedIndex maps a node ID to its reduced matrix index, matrix.Reference
// for the reference node, or skipNode for IDs outside the index.
func reducedIndex(index map[string]int, reference, id string) int {
	if id == reference {
		return matrix.Reference
	}
	if idx, ok := index[id]; ok {
		return idx
	}
	return skipNode
}

// elementConductance returns the stamped conductance of an element, or
// ok=false when the element does not participate: OTHER kinds, capacitors
// at DC, and non-positive or non-finite values (noisy extraction data is
// dropped, not fatal).
func elementConductance(elem *netmodel.Element, omega float64) (float64, bool) {
	switch elem.Kind {
	case netmodel.KindResistor:
		if !validValue(elem.Value) {
			log.Printf("[WARNING] dropping resistor %s: bad value %s",
				elem.ID, util.FormatValueFactor(elem.Value, "Ohm"))
			return 0, false
		}
		return 1.0 / elem.Value, true
	case netmodel.KindCapacitor:
		if omega == 0 {
			return 0, false // DC open circuit
		}
		if !validValue(elem.Value) {
			log.Printf("[WARNING] dropping capacitor %s: bad value %s",
				elem.ID, util.FormatValueFactor(elem.Value, "F"))
			return 0, false
		}
		return omega * elem.Value, true
	default:
		return 0, false
	}
}

func validValue(v float64) bool {
	return v > 0 && !math.IsInf(v, 1) && !math.IsNaN(v)
}
