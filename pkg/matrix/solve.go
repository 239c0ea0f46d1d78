package matrix

import (
	"fmt"

	"rcnet/internal/consts"
)

// Method selects how a reduced conductance system is solved.
type Method int

const (
	Direct            Method = iota // sparse LU factorization
	ConjugateGradient               // iterative, for large systems
	LeastSquares                    // iterative normal-equations fallback
)

func (m Method) String() string {
	switch m {
	case ConjugateGradient:
		return "cg"
	case LeastSquares:
		return "lsqr"
	default:
		return "direct"
	}
}

// Solve dispatches G*x = rhs to the requested method. The iterative methods
// use the fixed absolute tolerance and iteration cap from internal/consts.
func Solve(g *CSR, rhs []float64, method Method) ([]float64, error) {
	switch method {
	case Direct:
		return solveDirect(g, rhs)
	case ConjugateGradient:
		return conjugateGradient(g, rhs, consts.DefaultAbsTol, consts.DefaultMaxIter)
	case LeastSquares:
		return leastSquares(g, rhs, consts.DefaultAbsTol, consts.DefaultMaxIter)
	default:
		return nil, fmt.Errorf("unknown solver method %d", method)
	}
}

func solveDirect(g *CSR, rhs []float64) ([]float64, error) {
	lu, err := NewLU(g.N)
	if err != nil {
		return nil, err
	}
	defer lu.Destroy()

	lu.LoadCSR(g)
	if err := lu.Factor(); err != nil {
		return nil, err
	}
	return lu.Solve(rhs)
}
