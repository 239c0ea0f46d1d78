// Package matrix provides the shared conductance-matrix machinery: COO
// accumulation, CSR assembly with duplicate summation, the two-terminal
// conductance stamp, and direct/iterative linear solvers over the result.
package matrix

import "sort"

// CSR is a compressed sparse row matrix. Rows and columns are 0-based.
type CSR struct {
	N      int
	RowPtr []int
	Cols   []int
	Data   []float64
}

// NNZ returns the number of stored entries.
func (g *CSR) NNZ() int { return len(g.Data) }

// Row returns the column indices and values of row i. The slices alias the
// matrix storage; callers must not append to them.
func (g *CSR) Row(i int) ([]int, []float64) {
	lo, hi := g.RowPtr[i], g.RowPtr[i+1]
	return g.Cols[lo:hi], g.Data[lo:hi]
}

// MulVec computes y = G*x.
func (g *CSR) MulVec(x, y []float64) {
	for i := 0; i < g.N; i++ {
		sum := 0.0
		for k := g.RowPtr[i]; k < g.RowPtr[i+1]; k++ {
			sum += g.Data[k] * x[g.Cols[k]]
		}
		y[i] = sum
	}
}

// MulVecTrans computes y = Gᵀ*x.
func (g *CSR) MulVecTrans(x, y []float64) {
	for i := range y {
		y[i] = 0
	}
	for i := 0; i < g.N; i++ {
		xi := x[i]
		if xi == 0 {
			continue
		}
		for k := g.RowPtr[i]; k < g.RowPtr[i+1]; k++ {
			y[g.Cols[k]] += g.Data[k] * xi
		}
	}
}

// ZeroRow sets every stored entry of row i to zero. The sparsity pattern is
// kept so the diagonal can still be rewritten afterwards.
func (g *CSR) ZeroRow(i int) {
	for k := g.RowPtr[i]; k < g.RowPtr[i+1]; k++ {
		g.Data[k] = 0
	}
}

// SetDiag overwrites the stored diagonal entry of row i. It reports false
// when the pattern holds no entry at (i,i).
func (g *CSR) SetDiag(i int, v float64) bool {
	for k := g.RowPtr[i]; k < g.RowPtr[i+1]; k++ {
		if g.Cols[k] == i {
			g.Data[k] = v
			return true
		}
	}
	return false
}

// Builder accumulates coordinate-format triplets. Repeated (row, col)
// entries sum together during ToCSR, so parallel elements between the same
// node pair need no special handling at stamp time.
type Builder struct {
	n    int
	rows []int
	cols []int
	data []float64
}

func NewBuilder(n int) *Builder {
	return &Builder{n: n}
}

func (b *Builder) Add(i, j int, v float64) {
	b.rows = append(b.rows, i)
	b.cols = append(b.cols, j)
	b.data = append(b.data, v)
}

// Len returns the number of accumulated triplets (before duplicate merging).
func (b *Builder) Len() int { return len(b.data) }

func (b *Builder) Size() int { return b.n }

// ToCSR converts the accumulated triplets to CSR form: bucket by row, sort
// each row by column, and sum duplicate coordinates.
func (b *Builder) ToCSR() *CSR {
	counts := make([]int, b.n+1)
	for _, r := range b.rows {
		counts[r+1]++
	}
	for i := 0; i < b.n; i++ {
		counts[i+1] += counts[i]
	}

	cols := make([]int, len(b.cols))
	data := make([]float64, len(b.data))
	next := make([]int, b.n)
	copy(next, counts[:b.n])
	for k, r := range b.rows {
		p := next[r]
		next[r]++
		cols[p] = b.cols[k]
		data[p] = b.data[k]
	}

	g := &CSR{
		N:      b.n,
		RowPtr: make([]int, b.n+1),
		Cols:   cols[:0],
		Data:   data[:0],
	}

	for i := 0; i < b.n; i++ {
		lo, hi := counts[i], counts[i+1]
		seg := rowSegment{cols: cols[lo:hi], data: data[lo:hi]}
		sort.Sort(seg)

		for k := lo; k < hi; k++ {
			n := len(g.Cols)
			if n > g.RowPtr[i] && g.Cols[n-1] == cols[k] {
				g.Data[n-1] += data[k]
				continue
			}
			g.Cols = append(g.Cols, cols[k])
			g.Data = append(g.Data, data[k])
		}
		g.RowPtr[i+1] = len(g.Cols)
	}

	return g
}

type rowSegment struct {
	cols []int
	data []float64
}

func (s rowSegment) Len() int           { return len(s.cols) }
func (s rowSegment) Less(i, j int) bool { return s.cols[i] < s.cols[j] }
func (s rowSegment) Swap(i, j int) {
	s.cols[i], s.cols[j] = s.cols[j], s.cols[i]
	s.data[i], s.data[j] = s.data[j], s.data[i]
}
