package pathorder

import (
	"errors"
	"fmt"

	"github.com/rest-for-physics/tracklib/internal/hits"
	"github.com/rest-for-physics/tracklib/internal/monitoring"
)

// DefaultMaxBruteForce is the largest hit count BruteForce accepts when
// Orderer.MaxBruteForce is unset.
const DefaultMaxBruteForce = 9

// ErrTooManyHits is returned when an exact method is asked to order more
// hits than it is configured to handle.
var ErrTooManyHits = errors.New("pathorder: too many hits for exact ordering")

// Tour is an ordering of the hits of one track.
type Tour struct {
	// Order lists hit indices in traversal order.
	Order []int
	// Length is the path length from the float distance matrix, including
	// the closing edge when Cyclic is set.
	Length float64
	Cyclic bool
}

// Orderer computes minimum-length hit orderings. The zero value orders open
// paths exactly with a BranchBoundSolver.
type Orderer struct {
	Method Method
	// Cyclic adds the closing edge from the last hit back to the first.
	Cyclic bool
	// MaxBruteForce bounds BruteForce. Zero means DefaultMaxBruteForce.
	MaxBruteForce int
	// Solver backs the Exact method. Nil means BranchBoundSolver{}.
	Solver TourSolver
}

func (o Orderer) maxBruteForce() int {
	if o.MaxBruteForce <= 0 {
		return DefaultMaxBruteForce
	}
	return o.MaxBruteForce
}

func (o Orderer) solver() TourSolver {
	if o.Solver == nil {
		return BranchBoundSolver{}
	}
	return o.Solver
}

// Order returns the best tour over hs for the configured method.
//
// Fewer than three hits are returned in input order, and the Exact
// method leaves fewer than four hits in input order. A solver failure is
// returned as a *SolverError; callers should keep the input order and flag
// the result as unreliable.
func (o Orderer) Order(hs *hits.HitSet) (Tour, error) {
	dist := DistanceMatrix(hs)
	n := len(dist)
	order := identity(n)

	switch o.Method {
	case BruteForce:
		if n > o.maxBruteForce() {
			return Tour{}, fmt.Errorf("%w: %d hits exceeds brute force limit %d", ErrTooManyHits, n, o.maxBruteForce())
		}
		if n >= 3 {
			order = bruteForce(dist, o.Cyclic)
		}
	case NearestNeighbour:
		if n >= 3 {
			order = nearestNeighbour(dist, o.Cyclic)
		}
	case Exact:
		if n >= 4 {
			var err error
			if order, err = o.solveExact(dist); err != nil {
				monitoring.Opsf("[PathOrderer] %v", err)
				return Tour{}, err
			}
		}
	default:
		return Tour{}, fmt.Errorf("pathorder: unknown method %v", o.Method)
	}

	t := Tour{Order: order, Length: pathLength(dist, order, o.Cyclic), Cyclic: o.Cyclic}
	monitoring.Diagf("[PathOrderer] method=%s hits=%d cyclic=%t length=%.4f", o.Method, n, o.Cyclic, t.Length)
	if monitoring.TraceEnabled() {
		monitoring.Tracef("[PathOrderer] distances=%s", formatMatrix(dist))
		monitoring.Tracef("[PathOrderer] order=%v", t.Order)
	}
	return t, nil
}

// solveExact runs the solver on integer edge lengths. An open path is
// solved as a cyclic tour through an extra vertex at zero distance from
// every hit; cutting the tour at that vertex leaves the shortest open path.
func (o Orderer) solveExact(dist [][]float64) ([]int, error) {
	n := len(dist)
	if o.Cyclic {
		tour, err := o.solver().SolveTour(n, scaledEdges(dist))
		if err != nil {
			return nil, &SolverError{N: n, Cause: err}
		}
		if !isPermutation(tour, n) {
			return nil, &SolverError{N: n, Cause: ErrInvalidTour}
		}
		return tour, nil
	}

	padded := make([][]float64, n+1)
	for i := range padded {
		padded[i] = make([]float64, n+1)
		if i < n {
			copy(padded[i], dist[i])
		}
	}
	tour, err := o.solver().SolveTour(n+1, scaledEdges(padded))
	if err != nil {
		return nil, &SolverError{N: n + 1, Cause: err}
	}
	if !isPermutation(tour, n+1) {
		return nil, &SolverError{N: n + 1, Cause: ErrInvalidTour}
	}
	cut := 0
	for i, v := range tour {
		if v == n {
			cut = i
			break
		}
	}
	order := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		order = append(order, tour[(cut+i)%(n+1)])
	}
	return order, nil
}

func isPermutation(p []int, n int) bool {
	if len(p) != n {
		return false
	}
	seen := make([]bool, n)
	for _, v := range p {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// Apply returns hs reordered by t.
func Apply(hs *hits.HitSet, t Tour) (*hits.HitSet, error) {
	return hs.Permute(t.Order)
}
