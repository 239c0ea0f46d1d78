package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"
)

// LU wraps a sparse LU factorization of a conductance matrix. The underlying
// library keeps 1-based indexing and a persistent factorization: Factor once,
// then Solve any number of right-hand sides by substitution.
//
// An LU is not safe for concurrent Solve calls; the library reuses an
// internal scratch vector during substitution.
type LU struct {
	size     int
	mat      *sparse.Matrix
	factored bool
}

// NewLU creates an empty size x size sparse matrix.
func NewLU(size int) (*LU, error) {
	config := &sparse.Configuration{
		Real:           true,
		Expandable:     true,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %w", err)
	}

	return &LU{size: size, mat: mat}, nil
}

// Add accumulates value at (i, j), 0-based.
func (l *LU) Add(i, j int, value float64) {
	l.mat.GetElement(int64(i+1), int64(j+1)).Real += value
}

// LoadCSR accumulates every stored entry of g into the matrix.
func (l *LU) LoadCSR(g *CSR) {
	for i := 0; i < g.N; i++ {
		cols, data := g.Row(i)
		for k, j := range cols {
			if data[k] == 0 {
				continue
			}
			l.Add(i, j, data[k])
		}
	}
}

// Factor computes (or recomputes) the LU decomposition.
func (l *LU) Factor() error {
	if err := l.mat.Factor(); err != nil {
		l.factored = false
		return fmt.Errorf("matrix factorization failed: %w", err)
	}
	l.factored = true
	return nil
}

func (l *LU) Factored() bool { return l.factored }

// Solve performs forward/back substitution against the cached factorization.
// rhs is 0-based with length size; the returned solution matches.
func (l *LU) Solve(rhs []float64) ([]float64, error) {
	if !l.factored {
		return nil, fmt.Errorf("matrix is not factored")
	}
	if len(rhs) != l.size {
		return nil, fmt.Errorf("rhs length %d does not match matrix size %d", len(rhs), l.size)
	}

	b := make([]float64, l.size+1) // library vectors are 1-based
	copy(b[1:], rhs)

	x, err := l.mat.Solve(b)
	if err != nil {
		return nil, fmt.Errorf("matrix solve failed: %w", err)
	}

	solution := make([]float64, l.size)
	copy(solution, x[1:l.size+1])
	return solution, nil
}

func (l *LU) Size() int { return l.size }

// Destroy releases the underlying matrix storage.
func (l *LU) Destroy() {
	if l.mat != nil {
		l.mat.Destroy()
		l.mat = nil
		l.factored = false
	}
}
