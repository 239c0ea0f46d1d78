package analysis_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcnet/pkg/analysis"
	"rcnet/pkg/netmodel"
)

func TestSolveLRPChainMatchesExact(t *testing.T) {
	net := chainNet()
	fixed := map[string]float64{"F": 10}
	currents := map[string]float64{"s": 0.01}

	exact, err := analysis.SolveNodal(net, fixed, currents, analysis.Options{})
	require.NoError(t, err)

	voltages, undefined, err := analysis.SolveLRP(net, fixed, currents)
	require.NoError(t, err)
	assert.Empty(t, undefined)

	// a simple chain is its own spanning tree, so the approximation is exact
	for id, want := range exact {
		assert.InDelta(t, want, voltages[id], 1e-9, "node %s", id)
	}
}

func TestSolveLRPZeroDrop(t *testing.T) {
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

	voltages, undefined, err := analysis.SolveLRP(net, map[string]float64{"F": 10}, nil)
	require.NoError(t, err)
	assert.Empty(t, undefined)
	for _, id := range []string{"F", "n1", "n2"} {
		assert.InDelta(t, 10, voltages[id], 1e-12, "node %s", id)
	}
}

func TestSolveLRPLoopDivergesFromExact(t *testing.T) {
	nodes := []netmodel.Node{
		{ID: "F", Role: netmodel.RoleFixed},
		{ID: "a", Role: netmodel.RoleFree},
		{ID: "s", Role: netmodel.RoleSource},
	}
	treeElems := []netmodel.Element{
		{ID: "R1", NodeA: "F", NodeB: "a", Kind: netmodel.KindResistor, Value: 100},
		{ID: "R2", NodeA: "a", NodeB: "s", Kind: netmodel.KindResistor, Value: 100},
	}
	fixed := map[string]float64{"F": 10}
	currents := map[string]float64{"s": 0.01}

	// without a loop both solvers agree exactly
	tree := newNet(nodes, treeElems)
	exact, err := analysis.SolveNodal(tree, fixed, currents, analysis.Options{})
	require.NoError(t, err)
	voltages, _, err := analysis.SolveLRP(tree, fixed, currents)
	require.NoError(t, err)
	assert.InDelta(t, exact["s"], voltages["s"], 1e-9)
	assert.InDelta(t, 8, voltages["s"], 1e-9)

	// a parallel return path redistributes current the tree cannot see
	looped := newNet(nodes, append(treeElems, netmodel.Element{
		ID: "R3", NodeA: "F", NodeB: "s", Kind: netmodel.KindResistor, Value: 1000,
	}))
	exact, err = analysis.SolveNodal(looped, fixed, currents, analysis.Options{})
	require.NoError(t, err)
	voltages, _, err = analysis.SolveLRP(looped, fixed, currents)
	require.NoError(t, err)

	// tree keeps the 200 Ohm path and ignores the 1000 Ohm branch
	assert.InDelta(t, 8, voltages["s"], 1e-9)
	// exact sees 200 || 1000 = 166.67 Ohm
	assert.InDelta(t, 10-0.01*(200.0*1000.0/1200.0), exact["s"], 1e-9)
	assert.Greater(t, math.Abs(exact["s"]-voltages["s"]), 0.1)
}

func TestSolveLRPMultipleRoots(t *testing.T) {
	// two fixed anchors at the same potential, source hanging between them
	net := newNet(
		[]netmodel.Node{
			{ID: "F1", Role: netmodel.RoleFixed},
			{ID: "F2", Role: netmodel.RoleFixed},
			{ID: "s", Role: netmodel.RoleSource},
		},
		[]netmodel.Element{
			{ID: "R1", NodeA: "F1", NodeB: "s", Kind: netmodel.KindResistor, Value: 100},
			{ID: "R2", NodeA: "s", NodeB: "F2", Kind: netmodel.KindResistor, Value: 300},
		},
	)

	voltages, undefined, err := analysis.SolveLRP(net,
		map[string]float64{"F1": 5, "F2": 5}, map[string]float64{"s": 0.01})
	require.NoError(t, err)
	assert.Empty(t, undefined)

	// s attaches to the nearer root F1 through 100 Ohm
	assert.InDelta(t, 5, voltages["F1"], 1e-12)
	assert.InDelta(t, 5, voltages["F2"], 1e-12)
	assert.InDelta(t, 4, voltages["s"], 1e-9)
}

func TestSolveLRPInconsistentRoots(t *testing.T) {
	net := newNet(
		[]netmodel.Node{
			{ID: "F1", Role: netmodel.RoleFixed},
			{ID: "F2", Role: netmodel.RoleFixed},
		},
		[]netmodel.Element{
			{ID: "R1", NodeA: "F1", NodeB: "F2", Kind: netmodel.KindResistor, Value: 100},
		},
	)

	_, _, err := analysis.SolveLRP(net, map[string]float64{"F1": 10, "F2": 5}, nil)
	assert.ErrorIs(t, err, analysis.ErrInconsistentRoots)
}

func TestSolveLRPBoundaryValidation(t *testing.T) {
	net := chainNet()

	_, _, err := analysis.SolveLRP(net, nil, nil)
	assert.ErrorIs(t, err, analysis.ErrInvalidNetwork)

	_, _, err = analysis.SolveLRP(net, map[string]float64{"ghost": 1}, nil)
	assert.ErrorIs(t, err, analysis.ErrUnknownNode)

	// n1 exists but is FREE, not FIXED
	_, _, err = analysis.SolveLRP(net, map[string]float64{"n1": 1}, nil)
	assert.ErrorIs(t, err, analysis.ErrRoleMismatch)

	// F exists but is FIXED, not SOURCE
	_, _, err = analysis.SolveLRP(net, map[string]float64{"F": 1}, map[string]float64{"F": 0.1})
	assert.ErrorIs(t, err, analysis.ErrRoleMismatch)
}

func TestSolveLRPUndefinedNodes(t *testing.T) {
	net := newNet(
		[]netmodel.Node{
			{ID: "F", Role: netmodel.RoleFixed},
			{ID: "a", Role: netmodel.RoleFree},
			{ID: "x", Role: netmodel.RoleFree},
			{ID: "y", Role: netmodel.RoleFree},
			{ID: "z", Role: netmodel.RoleFree}, // touches no resistor at all
		},
		[]netmodel.Element{
			{ID: "R1", NodeA: "F", NodeB: "a", Kind: netmodel.KindResistor, Value: 100},
			{ID: "R2", NodeA: "x", NodeB: "y", Kind: netmodel.KindResistor, Value: 100},
		},
	)

	voltages, undefined, err := analysis.SolveLRP(net, map[string]float64{"F": 10}, nil)
	require.NoError(t, err)

	assert.InDelta(t, 10, voltages["a"], 1e-12)
	assert.ElementsMatch(t, []string{"x", "y", "z"}, undefined)
	assert.NotContains(t, voltages, "x")
}

func TestSolveLRPFixedWithoutResistor(t *testing.T) {
	net := newNet(
		[]netmodel.Node{
			{ID: "F", Role: netmodel.RoleFixed},
			{ID: "a", Role: netmodel.RoleFree},
		},
		[]netmodel.Element{
			{ID: "C1", NodeA: "F", NodeB: "a", Kind: netmodel.KindCapacitor, Value: 1e-9},
		},
	)

	_, _, err := analysis.SolveLRP(net, map[string]float64{"F": 1}, nil)
	assert.ErrorIs(t, err, analysis.ErrInvalidNetwork)
}
