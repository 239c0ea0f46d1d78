package matrix

import (
	"fmt"
	"math"
)

// conjugateGradient solves G*x = b by the conjugate gradient method with an
// absolute residual tolerance. Convergence within maxIter is mandatory; a
// partial answer is never returned.
func conjugateGradient(g *CSR, b []float64, tol float64, maxIter int) ([]float64, error) {
	n := g.N
	x := make([]float64, n)
	r := make([]float64, n)
	p := make([]float64, n)
	gp := make([]float64, n)

	copy(r, b) // x0 = 0 so r0 = b
	copy(p, r)
	rsq := dot(r, r)

	if math.Sqrt(rsq) <= tol {
		return x, nil
	}

	for iter := 0; iter < maxIter; iter++ {
		g.MulVec(p, gp)

		pgp := dot(p, gp)
		if pgp == 0 {
			return nil, fmt.Errorf("conjugate gradient breakdown at iteration %d", iter)
		}
		alpha := rsq / pgp

		for i := 0; i < n; i++ {
			x[i] += alpha * p[i]
			r[i] -= alpha * gp[i]
		}

		rsqNew := dot(r, r)
		if math.Sqrt(rsqNew) <= tol {
			return x, nil
		}

		beta := rsqNew / rsq
		for i := 0; i < n; i++ {
			p[i] = r[i] + beta*p[i]
		}
		rsq = rsqNew
	}

	return nil, fmt.Errorf("conjugate gradient did not converge in %d iterations", maxIter)
}

// leastSquares solves min ||G*x - b|| via conjugate gradient on the normal
// equations (CGNR). Usable when row elimination has broken symmetry.
func leastSquares(g *CSR, b []float64, tol float64, maxIter int) ([]float64, error) {
	n := g.N
	x := make([]float64, n)
	r := make([]float64, n) // b - G*x
	s := make([]float64, n) // Gᵀ*r
	p := make([]float64, n)
	gp := make([]float64, n)

	copy(r, b)
	g.MulVecTrans(r, s)
	copy(p, s)
	ssq := dot(s, s)

	if math.Sqrt(dot(r, r)) <= tol {
		return x, nil
	}

	for iter := 0; iter < maxIter; iter++ {
		g.MulVec(p, gp)

		gpsq := dot(gp, gp)
		if gpsq == 0 {
			return nil, fmt.Errorf("least-squares breakdown at iteration %d", iter)
		}
		alpha := ssq / gpsq

		for i := 0; i < n; i++ {
			x[i] += alpha * p[i]
			r[i] -= alpha * gp[i]
		}

		if math.Sqrt(dot(r, r)) <= tol {
			return x, nil
		}

		g.MulVecTrans(r, s)
		ssqNew := dot(s, s)
		beta := ssqNew / ssq
		for i := 0; i < n; i++ {
			p[i] = s[i] + beta*p[i]
		}
		ssq = ssqNew
	}

	return nil, fmt.Errorf("least-squares solver did not converge in %d iterations", maxIter)
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
