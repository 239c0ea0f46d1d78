package resist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcnet/pkg/matrix"
	"rcnet/pkg/netmodel"
	"rcnet/pkg/resist"
)

func buildNet(elems []netmodel.Element) *netmodel.Net {
	net := netmodel.NewNet("NET1", "net1")
	for i := range elems {
		net.AddNode(&netmodel.Node{ID: elems[i].NodeA})
		net.AddNode(&netmodel.Node{ID: elems[i].NodeB})
		net.AddElement(&elems[i])
	}
	return net
}

// triangleNetwork is the classic three-resistor mesh:
// R(N1,N2)=100, R(N2,N3)=200, R(N1,N3)=50.
func triangleNetwork(t *testing.T) *resist.Network {
	t.Helper()
	nw, err := resist.NewNetwork(buildNet([]netmodel.Element{
		{ID: "R1", NodeA: "N1", NodeB: "N2", Kind: netmodel.KindResistor, Value: 100},
		{ID: "R2", NodeA: "N2", NodeB: "N3", Kind: netmodel.KindResistor, Value: 200},
		{ID: "R3", NodeA: "N1", NodeB: "N3", Kind: netmodel.KindResistor, Value: 50},
	}))
	require.NoError(t, err)
	return nw
}

func TestTriangleEquivalentResistance(t *testing.T) {
	nw := triangleNetwork(t)

	// 50 || (100+200) = 50*300/350
	want := 50.0 * 300.0 / 350.0
	got, err := resist.EquivalentResistance(nw, "N1", "N3", resist.Options{})
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-9)

	// iterative methods land on the same value
	for _, method := range []matrix.Method{matrix.ConjugateGradient, matrix.LeastSquares} {
		got, err := resist.EquivalentResistance(nw, "N1", "N3", resist.Options{Method: method})
		require.NoError(t, err, method.String())
		assert.InDelta(t, want, got, 1e-6, method.String())
	}
}

func TestEquivalentResistanceSymmetry(t *testing.T) {
	nw := triangleNetwork(t)
	nodes := nw.Nodes()

	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			fwd, err := resist.EquivalentResistance(nw, a, b, resist.Options{})
			require.NoError(t, err)
			rev, err := resist.EquivalentResistance(nw, b, a, resist.Options{})
			require.NoError(t, err)
			assert.InDelta(t, fwd, rev, 1e-9, "%s-%s", a, b)
		}
	}
}

func TestEquivalentResistanceSelfIsZero(t *testing.T) {
	nw := triangleNetwork(t)
	for _, id := range nw.Nodes() {
		r, err := resist.EquivalentResistance(nw, id, id, resist.Options{})
		require.NoError(t, err)
		assert.Zero(t, r)
	}
}

func TestCachedSolverMatchesDirect(t *testing.T) {
	nw := triangleNetwork(t)

	solver := resist.NewCachedSolver(nw, "N2")
	defer solver.Close()
	solver.Factorize()

	direct, err := resist.EquivalentResistance(nw, "N1", "N3", resist.Options{Reference: "N2"})
	require.NoError(t, err)

	cached, err := solver.Solve("N1", "N3")
	require.NoError(t, err)
	assert.InDelta(t, direct, cached, 1e-9)

	// repeated query against the same factorization
	again, err := solver.Solve("N1", "N3")
	require.NoError(t, err)
	assert.InDelta(t, cached, again, 1e-12)

	// unfactorized solver degrades to per-query solves with equal results
	plain := resist.NewCachedSolver(nw, "N2")
	defer plain.Close()
	slow, err := plain.Solve("N1", "N3")
	require.NoError(t, err)
	assert.InDelta(t, cached, slow, 1e-9)
}

func TestCachedSolverRejectsReferenceTerminal(t *testing.T) {
	nw := triangleNetwork(t)

	solver := resist.NewCachedSolver(nw, "N2")
	defer solver.Close()
	solver.Factorize()

	_, err := solver.Solve("N2", "N3")
	assert.ErrorIs(t, err, resist.ErrUnknownNode)

	_, err = solver.Solve("N1", "ghost")
	assert.ErrorIs(t, err, resist.ErrUnknownNode)
}

func TestEquivalentResistanceUnknownNode(t *testing.T) {
	nw := triangleNetwork(t)
	_, err := resist.EquivalentResistance(nw, "N1", "ghost", resist.Options{})
	assert.ErrorIs(t, err, resist.ErrUnknownNode)
}

func TestEquivalentResistanceDisconnected(t *testing.T) {
	nw, err := resist.NewNetwork(buildNet([]netmodel.Element{
		{ID: "R1", NodeA: "a", NodeB: "b", Kind: netmodel.KindResistor, Value: 100},
		{ID: "R2", NodeA: "x", NodeB: "y", Kind: netmodel.KindResistor, Value: 100},
	}))
	require.NoError(t, err)
	require.False(t, nw.Connected())

	_, err = resist.EquivalentResistance(nw, "a", "x", resist.Options{})
	assert.ErrorIs(t, err, resist.ErrDisconnected)

	// same-component pairs are rejected too; the query demands a connected network
	_, err = resist.EquivalentResistance(nw, "a", "b", resist.Options{})
	assert.ErrorIs(t, err, resist.ErrDisconnected)
}

func TestTwoNodeNetworkFallsBackToDirectEdge(t *testing.T) {
	single, err := resist.NewNetwork(buildNet([]netmodel.Element{
		{ID: "R1", NodeA: "a", NodeB: "b", Kind: netmodel.KindResistor, Value: 100},
	}))
	require.NoError(t, err)

	r, err := resist.EquivalentResistance(single, "a", "b", resist.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 100, r, 1e-12)

	// parallel edges combine
	parallel, err := resist.NewNetwork(buildNet([]netmodel.Element{
		{ID: "R1", NodeA: "a", NodeB: "b", Kind: netmodel.KindResistor, Value: 100},
		{ID: "R2", NodeA: "a", NodeB: "b", Kind: netmodel.KindResistor, Value: 100},
	}))
	require.NoError(t, err)

	r, err = resist.EquivalentResistance(parallel, "a", "b", resist.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 50, r, 1e-12)
}

func TestParallelResistorsStampTogether(t *testing.T) {
	// a -100- m -100- b twice in parallel: (200 || 200) = 100
	nw, err := resist.NewNetwork(buildNet([]netmodel.Element{
		{ID: "R1", NodeA: "a", NodeB: "m", Kind: netmodel.KindResistor, Value: 100},
		{ID: "R2", NodeA: "m", NodeB: "b", Kind: netmodel.KindResistor, Value: 100},
		{ID: "R3", NodeA: "a", NodeB: "m", Kind: netmodel.KindResistor, Value: 100},
		{ID: "R4", NodeA: "m", NodeB: "b", Kind: netmodel.KindResistor, Value: 100},
	}))
	require.NoError(t, err)

	r, err := resist.EquivalentResistance(nw, "a", "b", resist.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 100, r, 1e-9)
}

func TestNewNetworkValidation(t *testing.T) {
	_, err := resist.NewNetwork(buildNet([]netmodel.Element{
		{ID: "C1", NodeA: "a", NodeB: "b", Kind: netmodel.KindCapacitor, Value: 1e-9},
	}))
	assert.ErrorIs(t, err, resist.ErrInvalidNetwork)

	// bad values are dropped, leaving nothing usable
	_, err = resist.NewNetwork(buildNet([]netmodel.Element{
		{ID: "R1", NodeA: "a", NodeB: "b", Kind: netmodel.KindResistor, Value: -1},
	}))
	assert.ErrorIs(t, err, resist.ErrInvalidNetwork)

	// dropped resistors leave no trace in the node set
	nw, err := resist.NewNetwork(buildNet([]netmodel.Element{
		{ID: "R1", NodeA: "a", NodeB: "b", Kind: netmodel.KindResistor, Value: 100},
		{ID: "R2", NodeA: "a", NodeB: "junk", Kind: netmodel.KindResistor, Value: 0},
	}))
	require.NoError(t, err)
	assert.False(t, nw.Has("junk"))
	assert.Equal(t, 2, nw.NumNodes())
}

func TestAllPairsTriangle(t *testing.T) {
	nw := triangleNetwork(t)

	results := resist.AllPairs(nw, "", 1)
	require.Len(t, results, 3)

	wantPairs := map[resist.Pair]float64{
		{A: "N1", B: "N2"}: 100.0 * 250.0 / 350.0,
		{A: "N1", B: "N3"}: 50.0 * 300.0 / 350.0,
		{A: "N2", B: "N3"}: 200.0 * 150.0 / 350.0,
	}
	for pair, want := range wantPairs {
		got, ok := results[pair]
		require.True(t, ok, "missing pair %v", pair)
		assert.InDelta(t, want, got, 1e-9, "pair %v", pair)
	}
}

func TestAllPairsWorkersMatchSequential(t *testing.T) {
	nw := triangleNetwork(t)

	sequential := resist.AllPairs(nw, "", 1)
	concurrent := resist.AllPairs(nw, "", 2)

	require.Equal(t, len(sequential), len(concurrent))
	for pair, want := range sequential {
		assert.InDelta(t, want, concurrent[pair], 1e-9, "pair %v", pair)
	}
}

func TestAllPairsSkipsFailedPairs(t *testing.T) {
	nw, err := resist.NewNetwork(buildNet([]netmodel.Element{
		{ID: "R1", NodeA: "a", NodeB: "b", Kind: netmodel.KindResistor, Value: 100},
		{ID: "R2", NodeA: "x", NodeB: "y", Kind: netmodel.KindResistor, Value: 100},
	}))
	require.NoError(t, err)

	// every pair fails on the disconnected network, but the batch finishes
	results := resist.AllPairs(nw, "", 1)
	assert.Empty(t, results)
}
