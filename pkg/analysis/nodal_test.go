package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcnet/pkg/analysis"
	"rcnet/pkg/matrix"
	"rcnet/pkg/netmodel"
)

func newNet(nodes []netmodel.Node, elems []netmodel.Element) *netmodel.Net {
	net := netmodel.NewNet("NET1", "net1")
	for i := range nodes {
		net.AddNode(&nodes[i])
	}
	for i := range elems {
		net.AddElement(&elems[i])
	}
	return net
}

// chainNet is F(10V) -R1(100)- n1 -R2(200)- s(SOURCE).
func chainNet() *netmodel.Net {
	return newNet(
		[]netmodel.Node{
			{ID: "F", Role: netmodel.RoleFixed},
			{ID: "n1", Role: netmodel.RoleFree},
			{ID: "s", Role: netmodel.RoleSource},
		},
		[]netmodel.Element{
			{ID: "R1", NodeA: "F", NodeB: "n1", Kind: netmodel.KindResistor, Value: 100},
			{ID: "R2", NodeA: "n1", NodeB: "s", Kind: netmodel.KindResistor, Value: 200},
		},
	)
}

func TestSolveNodalZeroDrop(t *testing.T) {
	net := newNet(
		[]netmodel.Node{
			{ID: "F", Role: netmodel.RoleFixed},
			{ID: "n1", Role: netmodel.RoleFree},
			{ID: "n2", Role: netmodel.RoleFree},
		},
		[]netmodel.Element{
			{ID: "R1", NodeA: "F", NodeB: "n1", Kind: netmodel.KindResistor, Value: 100},
			{ID: "R2", NodeA: "n1", NodeB: "n2", Kind: netmodel.KindResistor, Value: 250},
		},
	)

	voltages, err := analysis.SolveNodal(net, map[string]float64{"F": 10}, nil, analysis.Options{})
	require.NoError(t, err)

	// no current flows anywhere, so every node sits at the anchor voltage
	for _, id := range []string{"F", "n1", "n2"} {
		assert.InDelta(t, 10, voltages[id], 1e-9, "node %s", id)
	}
}

func TestSolveNodalSeriesChain(t *testing.T) {
	fixed := map[string]float64{"F": 10}
	currents := map[string]float64{"s": 0.01}

	voltages, err := analysis.SolveNodal(chainNet(), fixed, currents, analysis.Options{})
	require.NoError(t, err)

	// V = 10 - I*R along the chain, current flowing out of s
	assert.InDelta(t, 10, voltages["F"], 1e-9)
	assert.InDelta(t, 9, voltages["n1"], 1e-9)
	assert.InDelta(t, 7, voltages["s"], 1e-9)
}

func TestSolveNodalIterativeMethodsMatchDirect(t *testing.T) {
	fixed := map[string]float64{"F": 10}
	currents := map[string]float64{"s": 0.01}

	direct, err := analysis.SolveNodal(chainNet(), fixed, currents, analysis.Options{Method: matrix.Direct})
	require.NoError(t, err)

	for _, method := range []matrix.Method{matrix.ConjugateGradient, matrix.LeastSquares} {
		got, err := analysis.SolveNodal(chainNet(), fixed, currents, analysis.Options{Method: method})
		require.NoError(t, err, method.String())
		for id, want := range direct {
			assert.InDelta(t, want, got[id], 1e-6, "%s node %s", method, id)
		}
	}
}

func TestSolveNodalTwoFixedVoltages(t *testing.T) {
	// F1(10V) -R- n -R- F2(5V): distinct fixed voltages are fine here,
	// unlike the tree solver.
	net := newNet(
		[]netmodel.Node{
			{ID: "F1", Role: netmodel.RoleFixed},
			{ID: "F2", Role: netmodel.RoleFixed},
			{ID: "n", Role: netmodel.RoleFree},
		},
		[]netmodel.Element{
			{ID: "Ra", NodeA: "F1", NodeB: "n", Kind: netmodel.KindResistor, Value: 100},
			{ID: "Rb", NodeA: "n", NodeB: "F2", Kind: netmodel.KindResistor, Value: 100},
		},
	)
	fixed := map[string]float64{"F1": 10, "F2": 5}

	voltages, err := analysis.SolveNodal(net, fixed, nil, analysis.Options{})
	require.NoError(t, err)

	assert.InDelta(t, 10, voltages["F1"], 1e-9)
	assert.InDelta(t, 5, voltages["F2"], 1e-9)
	assert.InDelta(t, 7.5, voltages["n"], 1e-9)
}

func TestSolveNodalExplicitReference(t *testing.T) {
	net := newNet(
		[]netmodel.Node{
			{ID: "F1", Role: netmodel.RoleFixed},
			{ID: "F2", Role: netmodel.RoleFixed},
			{ID: "n", Role: netmodel.RoleFree},
		},
		[]netmodel.Element{
			{ID: "Ra", NodeA: "F1", NodeB: "n", Kind: netmodel.KindResistor, Value: 100},
			{ID: "Rb", NodeA: "n", NodeB: "F2", Kind: netmodel.KindResistor, Value: 100},
		},
	)
	fixed := map[string]float64{"F1": 10, "F2": 5}

	// same answer regardless of which fixed node anchors the reduction
	for _, ref := range []string{"F1", "F2"} {
		voltages, err := analysis.SolveNodal(net, fixed, nil, analysis.Options{Reference: ref})
		require.NoError(t, err)
		assert.InDelta(t, 7.5, voltages["n"], 1e-9, "reference %s", ref)
	}
}

func TestSolveNodalCapacitors(t *testing.T) {
	net := newNet(
		[]netmodel.Node{
			{ID: "F", Role: netmodel.RoleFixed},
			{ID: "n", Role: netmodel.RoleFree},
		},
		[]netmodel.Element{
			{ID: "C1", NodeA: "F", NodeB: "n", Kind: netmodel.KindCapacitor, Value: 1e-6},
		},
	)
	fixed := map[string]float64{"F": 1}

	// DC: the capacitor open-circuits and nothing usable remains
	_, err := analysis.SolveNodal(net, fixed, nil, analysis.Options{})
	assert.ErrorIs(t, err, analysis.ErrInvalidNetwork)

	// above DC it conducts and the unloaded node follows the anchor
	voltages, err := analysis.SolveNodal(net, fixed, nil, analysis.Options{Frequency: 1000})
	require.NoError(t, err)
	assert.InDelta(t, 1, voltages["n"], 1e-9)
}

func TestSolveNodalDropsBadElementValues(t *testing.T) {
	net := newNet(
		[]netmodel.Node{
			{ID: "F", Role: netmodel.RoleFixed},
			{ID: "s", Role: netmodel.RoleSource},
		},
		[]netmodel.Element{
			{ID: "Rgood", NodeA: "F", NodeB: "s", Kind: netmodel.KindResistor, Value: 100},
			{ID: "Rbad", NodeA: "F", NodeB: "s", Kind: netmodel.KindResistor, Value: -5},
			{ID: "X1", NodeA: "F", NodeB: "s", Kind: netmodel.KindOther, Value: 1},
		},
	)

	voltages, err := analysis.SolveNodal(net,
		map[string]float64{"F": 10}, map[string]float64{"s": 0.01}, analysis.Options{})
	require.NoError(t, err)

	// only Rgood carries the current
	assert.InDelta(t, 9, voltages["s"], 1e-9)
}

func TestSolveNodalValidation(t *testing.T) {
	empty := netmodel.NewNet("N", "n")
	_, err := analysis.SolveNodal(empty, nil, nil, analysis.Options{})
	assert.ErrorIs(t, err, analysis.ErrInvalidNetwork)

	noFixed := newNet(
		[]netmodel.Node{{ID: "a", Role: netmodel.RoleFree}},
		[]netmodel.Element{{ID: "R1", NodeA: "a", NodeB: "a", Kind: netmodel.KindResistor, Value: 1}},
	)
	_, err = analysis.SolveNodal(noFixed, nil, nil, analysis.Options{})
	assert.ErrorIs(t, err, analysis.ErrInvalidNetwork)

	missingVoltage := newNet(
		[]netmodel.Node{{ID: "F", Role: netmodel.RoleFixed}},
		nil,
	)
	_, err = analysis.SolveNodal(missingVoltage, nil, nil, analysis.Options{})
	assert.ErrorIs(t, err, analysis.ErrMissingBoundaryValue)

	missingCurrent := newNet(
		[]netmodel.Node{
			{ID: "F", Role: netmodel.RoleFixed},
			{ID: "s", Role: netmodel.RoleSource},
		},
		[]netmodel.Element{{ID: "R1", NodeA: "F", NodeB: "s", Kind: netmodel.KindResistor, Value: 1}},
	)
	_, err = analysis.SolveNodal(missingCurrent, map[string]float64{"F": 1}, nil, analysis.Options{})
	assert.ErrorIs(t, err, analysis.ErrMissingBoundaryValue)

	noElements := newNet(
		[]netmodel.Node{
			{ID: "F", Role: netmodel.RoleFixed},
			{ID: "a", Role: netmodel.RoleFree},
		},
		nil,
	)
	_, err = analysis.SolveNodal(noElements, map[string]float64{"F": 1}, nil, analysis.Options{})
	assert.ErrorIs(t, err, analysis.ErrInvalidNetwork)

	_, err = analysis.SolveNodal(chainNet(),
		map[string]float64{"F": 10}, map[string]float64{"s": 0}, analysis.Options{Reference: "nope"})
	assert.ErrorIs(t, err, analysis.ErrUnknownNode)
}

func TestSolveNodalSingleNodeNet(t *testing.T) {
	net := newNet(
		[]netmodel.Node{{ID: "F", Role: netmodel.RoleFixed}},
		[]netmodel.Element{{ID: "R1", NodeA: "F", NodeB: "F", Kind: netmodel.KindResistor, Value: 1}},
	)

	voltages, err := analysis.SolveNodal(net, map[string]float64{"F": 3}, nil, analysis.Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"F": 3}, voltages)
}
