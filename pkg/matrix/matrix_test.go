package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcnet/pkg/matrix"
)

func TestBuilderSumsDuplicates(t *testing.T) {
	b := matrix.NewBuilder(2)
	b.Add(0, 1, -1)
	b.Add(0, 0, 1)
	b.Add(0, 0, 2)
	b.Add(1, 0, -1)
	b.Add(1, 1, 3)

	g := b.ToCSR()

	require.Equal(t, 2, g.N)
	assert.Equal(t, []int{0, 2, 4}, g.RowPtr)
	assert.Equal(t, []int{0, 1, 0, 1}, g.Cols)
	assert.Equal(t, []float64{3, -1, -1, 3}, g.Data)
}

func TestBuilderSortsColumnsWithinRow(t *testing.T) {
	b := matrix.NewBuilder(3)
	// out of order on purpose
	b.Add(0, 2, 5)
	b.Add(0, 0, 1)
	b.Add(0, 1, 2)

	g := b.ToCSR()
	cols, data := g.Row(0)
	assert.Equal(t, []int{0, 1, 2}, cols)
	assert.Equal(t, []float64{1, 2, 5}, data)
}

func TestCSRMulVec(t *testing.T) {
	b := matrix.NewBuilder(2)
	b.Add(0, 0, 2)
	b.Add(0, 1, -1)
	b.Add(1, 0, -1)
	b.Add(1, 1, 2)
	g := b.ToCSR()

	y := make([]float64, 2)
	g.MulVec([]float64{1, 2}, y)
	assert.Equal(t, []float64{0, 3}, y)

	g.MulVecTrans([]float64{1, 2}, y)
	assert.Equal(t, []float64{0, 3}, y) // symmetric matrix
}

func TestCSRZeroRowAndSetDiag(t *testing.T) {
	b := matrix.NewBuilder(2)
	b.Add(0, 0, 2)
	b.Add(0, 1, -1)
	b.Add(1, 1, 2)
	g := b.ToCSR()

	g.ZeroRow(0)
	require.True(t, g.SetDiag(0, 1))

	cols, data := g.Row(0)
	assert.Equal(t, []int{0, 1}, cols)
	assert.Equal(t, []float64{1, 0}, data)

	// row 1 stores no entry at (1, 0), so its pattern cannot take one
	off := matrix.NewBuilder(2)
	off.Add(1, 1, 2)
	sparse := off.ToCSR()
	assert.False(t, sparse.SetDiag(0, 1))
}

func TestStampConductance(t *testing.T) {
	b := matrix.NewBuilder(3)
	rhs := make([]float64, 3)

	matrix.StampConductance(b, rhs, 0, 1, 0.5, 10)
	matrix.StampConductance(b, rhs, 2, matrix.Reference, 0.25, 10)

	g := b.ToCSR()

	cols, data := g.Row(0)
	assert.Equal(t, []int{0, 1}, cols)
	assert.Equal(t, []float64{0.5, -0.5}, data)

	cols, data = g.Row(2)
	assert.Equal(t, []int{2}, cols)
	assert.Equal(t, []float64{0.25}, data)

	// only the reference-adjacent row receives a known-voltage contribution
	assert.Equal(t, []float64{0, 0, 2.5}, rhs)
}

func TestLUSolveReusesFactorization(t *testing.T) {
	b := matrix.NewBuilder(2)
	b.Add(0, 0, 3)
	b.Add(0, 1, -1)
	b.Add(1, 0, -1)
	b.Add(1, 1, 2)
	g := b.ToCSR()

	lu, err := matrix.NewLU(2)
	require.NoError(t, err)
	defer lu.Destroy()

	lu.LoadCSR(g)
	require.NoError(t, err)
	require.NoError(t, lu.Factor())
	require.True(t, lu.Factored())

	x, err := lu.Solve([]float64{5, 0})
	require.NoError(t, err)
	assert.InDelta(t, 2, x[0], 1e-12)
	assert.InDelta(t, 1, x[1], 1e-12)

	// second right-hand side against the same factorization
	x, err = lu.Solve([]float64{0, 5})
	require.NoError(t, err)
	assert.InDelta(t, 1, x[0], 1e-12)
	assert.InDelta(t, 3, x[1], 1e-12)
}

func TestLUSolveRequiresFactor(t *testing.T) {
	lu, err := matrix.NewLU(1)
	require.NoError(t, err)
	defer lu.Destroy()

	lu.Add(0, 0, 1)
	_, err = lu.Solve([]float64{1})
	assert.Error(t, err)
}

func TestSolveMethodsAgree(t *testing.T) {
	// small SPD conductance-like system
	b := matrix.NewBuilder(3)
	b.Add(0, 0, 4)
	b.Add(1, 1, 4)
	b.Add(2, 2, 4)
	b.Add(0, 1, -1)
	b.Add(1, 0, -1)
	b.Add(1, 2, -1)
	b.Add(2, 1, -1)
	g := b.ToCSR()
	rhs := []float64{1, 0, -1}

	direct, err := matrix.Solve(g, rhs, matrix.Direct)
	require.NoError(t, err)

	cg, err := matrix.Solve(g, rhs, matrix.ConjugateGradient)
	require.NoError(t, err)

	lsqr, err := matrix.Solve(g, rhs, matrix.LeastSquares)
	require.NoError(t, err)

	for i := range direct {
		assert.InDelta(t, direct[i], cg[i], 1e-8)
		assert.InDelta(t, direct[i], lsqr[i], 1e-8)
	}
}

func TestSolveSingularMatrixFails(t *testing.T) {
	b := matrix.NewBuilder(2)
	// rank-deficient: both rows identical
	b.Add(0, 0, 1)
	b.Add(0, 1, 1)
	b.Add(1, 0, 1)
	b.Add(1, 1, 1)
	g := b.ToCSR()

	_, err := matrix.Solve(g, []float64{1, 2}, matrix.Direct)
	assert.Error(t, err)
}

func TestMethodString(t *testing.T) {
	assert.Equal(t, "direct", matrix.Direct.String())
	assert.Equal(t, "cg", matrix.ConjugateGradient.String())
	assert.Equal(t, "lsqr", matrix.LeastSquares.String())
}
