package resist

import (
	"fmt"
	"log"
	"math"
	"sync"

	"rcnet/pkg/matrix"
)

// Options configures a one-shot equivalent-resistance query.
type Options struct {
	Reference string        // elimination reference; empty selects automatically
	Method    matrix.Method // Direct, ConjugateGradient, or LeastSquares
}

// EquivalentResistance computes the two-terminal equivalent resistance
// between a and b by injecting a unit test current (+1 A at a, -1 A at b)
// into the reduced conductance system and reading |V[a] - V[b]|.
//
// The network must be fully connected. When a query terminal coincides with
// the reference, a different reference is selected from the remaining
// nodes; a two-node network with no alternative falls back to the direct
// edge resistance.
func EquivalentResistance(nw *Network, a, b string, opts Options) (float64, error) {
	ia, ok := nw.index[a]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownNode, a)
	}
	ib, ok := nw.index[b]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownNode, b)
	}
	if a == b {
		return 0, nil
	}
	if !nw.Connected() {
		return 0, fmt.Errorf("%w: equivalent resistance %s-%s is undefined", ErrDisconnected, a, b)
	}

	ref := nw.referenceNode(opts.Reference)
	if ref == a || ref == b {
		ref = ""
		for _, id := range nw.ids {
			if id != a && id != b {
				ref = id
				break
			}
		}
		if ref == "" {
			// Two-node network: the equivalent is the direct connection.
			return nw.directResistance(ia, ib)
		}
	}
	refIdx := nw.index[ref]

	g, reduced := nw.reducedMatrix(refIdx)
	rhs := make([]float64, g.N)
	rhs[reduced[ia]] = 1.0
	rhs[reduced[ib]] = -1.0

	solution, err := matrix.Solve(g, rhs, opts.Method)
	if err != nil {
		return 0, fmt.Errorf("%w: %s-%s: %v", ErrSolveFailed, a, b, err)
	}
	return math.Abs(solution[reduced[ia]] - solution[reduced[ib]]), nil
}

// CachedSolver binds a network and a fixed reference, holding one LU
// factorization of the reduced conductance matrix for repeated two-terminal
// queries. The factorization is built once by Factorize and reused by every
// Solve; it never observes network changes, so rebuild the solver when the
// net does change.
type CachedSolver struct {
	nw        *Network
	reference string
	reduced   []int
	g         *matrix.CSR
	lu        *matrix.LU
	factored  bool
}

// NewCachedSolver builds the reduced conductance matrix for the given
// reference (or an automatically selected one when empty).
func NewCachedSolver(nw *Network, reference string) *CachedSolver {
	ref := nw.referenceNode(reference)
	g, reduced := nw.reducedMatrix(nw.index[ref])
	return &CachedSolver{
		nw:        nw,
		reference: ref,
		reduced:   reduced,
		g:         g,
	}
}

func (s *CachedSolver) Reference() string { return s.reference }

// Factorize computes the LU decomposition once; repeated calls are no-ops.
// On failure the solver logs a warning and degrades to direct per-query
// solves instead of failing the batch.
func (s *CachedSolver) Factorize() {
	if s.factored {
		return
	}

	lu, err := matrix.NewLU(s.g.N)
	if err == nil {
		lu.LoadCSR(s.g)
		err = lu.Factor()
	}
	if err != nil {
		log.Printf("[WARNING] LU factorization failed: %v; falling back to direct solves", err)
		if lu != nil {
			lu.Destroy()
		}
		return
	}

	s.lu = lu
	s.factored = true
}

// Solve returns the equivalent resistance between a and b, reusing the
// cached factorization when available. Both terminals must belong to the
// reduced network (neither may be the solver's reference).
func (s *CachedSolver) Solve(a, b string) (float64, error) {
	ia, ok := s.nw.index[a]
	if !ok || s.reduced[ia] == matrix.Reference {
		return 0, fmt.Errorf("%w: %s is not in the reduced network (reference %s)", ErrUnknownNode, a, s.reference)
	}
	ib, ok := s.nw.index[b]
	if !ok || s.reduced[ib] == matrix.Reference {
		return 0, fmt.Errorf("%w: %s is not in the reduced network (reference %s)", ErrUnknownNode, b, s.reference)
	}
	if a == b {
		return 0, nil
	}

	rhs := make([]float64, s.g.N)
	rhs[s.reduced[ia]] = 1.0
	rhs[s.reduced[ib]] = -1.0

	var solution []float64
	var err error
	if s.factored {
		solution, err = s.lu.Solve(rhs)
	} else {
		solution, err = matrix.Solve(s.g, rhs, matrix.Direct)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s-%s: %v", ErrSolveFailed, a, b, err)
	}
	return math.Abs(solution[s.reduced[ia]] - solution[s.reduced[ib]]), nil
}

// Close releases the cached factorization.
func (s *CachedSolver) Close() {
	if s.lu != nil {
		s.lu.Destroy()
		s.lu = nil
		s.factored = false
	}
}

// Pair is an unordered node pair, stored with A < B.
type Pair struct {
	A, B string
}

// AllPairs computes the equivalent resistance of every unordered node pair.
// Pairs that fail individually are logged and skipped; they never abort the
// rest of the batch. Pairs touching the shared reference cannot use the
// cached factorization and fall back to one-shot queries with a reselected
// reference.
//
// workers > 1 shards the pairs across that many goroutines. The sparse
// library's substitution step scribbles on per-matrix scratch space, so a
// factorization cannot be borrowed concurrently; each worker owns its own
// CachedSolver instead.
func AllPairs(nw *Network, reference string, workers int) map[Pair]float64 {
	nodes := nw.Nodes()
	var pairs []Pair
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			pairs = append(pairs, Pair{A: a, B: b})
		}
	}

	if workers <= 1 {
		results := make(map[Pair]float64, len(pairs))
		solver := NewCachedSolver(nw, reference)
		defer solver.Close()
		solver.Factorize()
		solvePairs(nw, solver, pairs, results)
		return results
	}

	if workers > len(pairs) {
		workers = len(pairs)
	}
	shards := make([]map[Pair]float64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		shard := pairs[w*len(pairs)/workers : (w+1)*len(pairs)/workers]
		results := make(map[Pair]float64, len(shard))
		shards[w] = results

		wg.Add(1)
		go func() {
			defer wg.Done()
			solver := NewCachedSolver(nw, reference)
			defer solver.Close()
			solver.Factorize()
			solvePairs(nw, solver, shard, results)
		}()
	}
	wg.Wait()

	merged := make(map[Pair]float64, len(pairs))
	for _, shard := range shards {
		for p, r := range shard {
			merged[p] = r
		}
	}
	return merged
}

func solvePairs(nw *Network, solver *CachedSolver, pairs []Pair, results map[Pair]float64) {
	ref := solver.Reference()
	for _, p := range pairs {
		var r float64
		var err error
		if p.A == ref || p.B == ref {
			r, err = EquivalentResistance(nw, p.A, p.B, Options{})
		} else {
			r, err = solver.Solve(p.A, p.B)
		}
		if err != nil {
			log.Printf("[WARNING] skipping pair %s-%s: %v", p.A, p.B, err)
			continue
		}
		results[p] = r
	}
}
