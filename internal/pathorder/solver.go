package pathorder

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultSolverNodes is the HeldKarpSolver limit when MaxNodes is unset.
	DefaultSolverNodes = 16
	// MaxSolverNodes caps HeldKarpSolver.MaxNodes. The DP tables grow as
	// n·2^(n-1).
	MaxSolverNodes = 20
)

var (
	// ErrSolverFailed is wrapped by every SolverError.
	ErrSolverFailed = errors.New("pathorder: tour solver failed")
	// ErrSolverInput is returned for malformed solver input.
	ErrSolverInput = errors.New("pathorder: malformed solver input")
	// ErrInvalidTour is returned when a solver result is not a permutation.
	ErrInvalidTour = errors.New("pathorder: solver returned an invalid tour")
)

// TourSolver finds an optimal cyclic tour over n vertices.
//
// edgeLen holds one non-negative integer length per unordered vertex pair,
// packed row by row as (1,0), (2,0), (2,1), (3,0), (3,1), (3,2), ...
// The returned slice is a permutation of 0..n-1 visiting every vertex once;
// the closing edge back to the first vertex is implied. Implementations
// must be pure and safe for concurrent use.
type TourSolver interface {
	SolveTour(n int, edgeLen []int) ([]int, error)
}

// SolverError reports a failed TourSolver call.
type SolverError struct {
	// N is the number of vertices handed to the solver.
	N     int
	Cause error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("pathorder: tour solver failed on %d vertices: %v", e.N, e.Cause)
}

// Unwrap exposes both ErrSolverFailed and the underlying cause.
func (e *SolverError) Unwrap() []error { return []error{ErrSolverFailed, e.Cause} }

// checkTourInput validates the vertex count against limit and the packed
// edge array against n.
func checkTourInput(n int, edgeLen []int, limit int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d vertices", ErrSolverInput, n)
	}
	if n > limit {
		return fmt.Errorf("%w: %d vertices exceeds limit %d", ErrTooManyHits, n, limit)
	}
	if len(edgeLen) != n*(n-1)/2 {
		return fmt.Errorf("%w: %d edges for %d vertices", ErrSolverInput, len(edgeLen), n)
	}
	for i, e := range edgeLen {
		if e < 0 {
			return fmt.Errorf("%w: negative edge length %d at %d", ErrSolverInput, e, i)
		}
	}
	return nil
}

// HeldKarpSolver is an exact bitmask dynamic-programming TourSolver. Its
// tables grow as n·2^(n-1), so it suits small tracks only.
type HeldKarpSolver struct {
	// MaxNodes bounds the vertex count. Zero means DefaultSolverNodes;
	// values above MaxSolverNodes are clamped.
	MaxNodes int
}

var _ TourSolver = HeldKarpSolver{}

func (s HeldKarpSolver) limit() int {
	switch {
	case s.MaxNodes <= 0:
		return DefaultSolverNodes
	case s.MaxNodes > MaxSolverNodes:
		return MaxSolverNodes
	}
	return s.MaxNodes
}

// SolveTour returns a minimum-length cyclic tour starting at vertex 0.
func (s HeldKarpSolver) SolveTour(n int, edgeLen []int) ([]int, error) {
	if err := checkTourInput(n, edgeLen, s.limit()); err != nil {
		return nil, err
	}
	if n <= 2 {
		return identity(n), nil
	}

	w := func(i, j int) int64 { return int64(edgeLen[edgeIndex(i, j)]) }

	// Vertex 0 is the fixed start. Bit v-1 of a mask marks vertex v visited;
	// cost[mask*m+v-1] is the cheapest walk from 0 through mask ending at v.
	const inf = int64(math.MaxInt64)
	m := n - 1
	full := 1<<m - 1
	cost := make([]int64, (full+1)*m)
	parent := make([]int8, (full+1)*m)
	for i := range cost {
		cost[i] = inf
	}
	for v := 1; v < n; v++ {
		cost[(1<<(v-1))*m+v-1] = w(0, v)
		parent[(1<<(v-1))*m+v-1] = 0
	}

	for mask := 1; mask <= full; mask++ {
		for j := 1; j < n; j++ {
			if mask&(1<<(j-1)) == 0 {
				continue
			}
			cj := cost[mask*m+j-1]
			if cj == inf {
				continue
			}
			for k := 1; k < n; k++ {
				bit := 1 << (k - 1)
				if mask&bit != 0 {
					continue
				}
				next := (mask|bit)*m + k - 1
				if cand := cj + w(j, k); cand < cost[next] {
					cost[next] = cand
					parent[next] = int8(j)
				}
			}
		}
	}

	best, last := inf, -1
	for j := 1; j < n; j++ {
		cj := cost[full*m+j-1]
		if cj == inf {
			continue
		}
		if total := cj + w(j, 0); total < best {
			best, last = total, j
		}
	}
	if last < 0 {
		return nil, fmt.Errorf("%w: no tour found", ErrSolverFailed)
	}

	tour := make([]int, n)
	mask, j := full, last
	for i := n - 1; i >= 1; i-- {
		tour[i] = j
		p := int(parent[mask*m+j-1])
		mask ^= 1 << (j - 1)
		j = p
	}
	tour[0] = 0
	return tour, nil
}
