package pathorder

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	// DefaultBranchBoundNodes is the BranchBoundSolver limit when MaxNodes
	// is unset.
	DefaultBranchBoundNodes = 64
	// MaxBranchBoundNodes caps BranchBoundSolver.MaxNodes.
	MaxBranchBoundNodes = 128
	// DefaultMaxExpansions bounds the search nodes a BranchBoundSolver
	// visits when MaxExpansions is unset.
	DefaultMaxExpansions = 1 << 20
)

// ErrSearchBudget is returned when branch and bound gives up before proving
// a tour optimal.
var ErrSearchBudget = errors.New("pathorder: branch and bound search budget exhausted")

// BranchBoundSolver is an exact depth-first branch-and-bound TourSolver.
//
// The incumbent is seeded with the best nearest-neighbour tour polished by
// 2-opt. A partial tour from the start vertex to last is pruned when its
// cost plus the cheapest edge out of last, a minimum spanning tree over the
// unvisited vertices and the cheapest edge back to the start cannot beat
// the incumbent.
// Children are tried nearest first. The search starts from the vertex with
// the smallest total edge length, which for an open path is the zero-length
// pivot vertex Orderer adds.
type BranchBoundSolver struct {
	// MaxNodes bounds the vertex count. Zero means DefaultBranchBoundNodes;
	// values above MaxBranchBoundNodes are clamped.
	MaxNodes int
	// MaxExpansions bounds the search. Zero means DefaultMaxExpansions.
	MaxExpansions int
}

var _ TourSolver = BranchBoundSolver{}

func (s BranchBoundSolver) limit() int {
	switch {
	case s.MaxNodes <= 0:
		return DefaultBranchBoundNodes
	case s.MaxNodes > MaxBranchBoundNodes:
		return MaxBranchBoundNodes
	}
	return s.MaxNodes
}

func (s BranchBoundSolver) budget() int {
	if s.MaxExpansions <= 0 {
		return DefaultMaxExpansions
	}
	return s.MaxExpansions
}

// SolveTour returns a minimum-length cyclic tour starting at vertex 0.
func (s BranchBoundSolver) SolveTour(n int, edgeLen []int) ([]int, error) {
	if err := checkTourInput(n, edgeLen, s.limit()); err != nil {
		return nil, err
	}
	if n <= 3 {
		return identity(n), nil
	}

	e := newBBEngine(n, edgeLen, s.budget())
	e.seed()
	e.path[0] = e.start
	e.visited[e.start] = true
	e.dfs(e.start, 1, 0)
	if e.exhausted {
		return nil, fmt.Errorf("%w: %d expansions on %d vertices", ErrSearchBudget, e.expansions, n)
	}
	return rotateTo(e.best, 0), nil
}

// bbEngine holds the per-call search state.
type bbEngine struct {
	n          int
	w          []int64 // dense n×n
	start      int
	neighbours [][]int // per vertex, others by ascending edge length

	budget     int
	expansions int
	exhausted  bool

	bestCost int64
	best     []int
	path     []int
	visited  []bool

	// Prim scratch, indexed by position in members.
	members []int
	key     []int64
	inTree  []bool
}

func newBBEngine(n int, edgeLen []int, budget int) *bbEngine {
	e := &bbEngine{
		n:        n,
		w:        make([]int64, n*n),
		budget:   budget,
		bestCost: math.MaxInt64,
		best:     identity(n),
		path:     make([]int, n),
		visited:  make([]bool, n),
		members:  make([]int, 0, n),
		key:      make([]int64, n),
		inTree:   make([]bool, n),
	}
	for i := 1; i < n; i++ {
		for j := 0; j < i; j++ {
			c := int64(edgeLen[edgeIndex(i, j)])
			e.w[i*n+j] = c
			e.w[j*n+i] = c
		}
	}

	bestSum := int64(-1)
	for i := 0; i < n; i++ {
		var sum int64
		for j := 0; j < n; j++ {
			sum += e.w[i*n+j]
		}
		if bestSum < 0 || sum < bestSum {
			bestSum, e.start = sum, i
		}
	}

	e.neighbours = make([][]int, n)
	for u := 0; u < n; u++ {
		row := make([]int, 0, n-1)
		for v := 0; v < n; v++ {
			if v != u {
				row = append(row, v)
			}
		}
		sort.SliceStable(row, func(a, b int) bool { return e.at(u, row[a]) < e.at(u, row[b]) })
		e.neighbours[u] = row
	}
	return e
}

func (e *bbEngine) at(u, v int) int64 { return e.w[u*e.n+v] }

func (e *bbEngine) cycleCost(t []int) int64 {
	var c int64
	for i := range t {
		c += e.at(t[i], t[(i+1)%len(t)])
	}
	return c
}

// seed sets the incumbent to the best 2-opt polished nearest-neighbour tour.
func (e *bbEngine) seed() {
	tour := make([]int, e.n)
	visited := make([]bool, e.n)
	for s := 0; s < e.n; s++ {
		for i := range visited {
			visited[i] = false
		}
		tour[0], visited[s] = s, true
		for step := 1; step < e.n; step++ {
			for _, v := range e.neighbours[tour[step-1]] {
				if !visited[v] {
					tour[step], visited[v] = v, true
					break
				}
			}
		}
		e.twoOpt(tour)
		if c := e.cycleCost(tour); c < e.bestCost {
			e.bestCost = c
			copy(e.best, tour)
		}
	}
}

// twoOpt reverses segments of the cyclic tour t in place while that
// shortens it.
func (e *bbEngine) twoOpt(t []int) {
	n := len(t)
	for improved := true; improved; {
		improved = false
		for i := 0; i < n-2; i++ {
			for j := i + 2; j < n; j++ {
				if i == 0 && j == n-1 {
					continue
				}
				a, b, c, d := t[i], t[i+1], t[j], t[(j+1)%n]
				if e.at(a, c)+e.at(b, d) < e.at(a, b)+e.at(c, d) {
					for l, r := i+1, j; l < r; l, r = l+1, r-1 {
						t[l], t[r] = t[r], t[l]
					}
					improved = true
				}
			}
		}
	}
}

// lowerBound returns a bound on the cost of finishing the tour from last
// through every unvisited vertex back to the start: the cheapest edge out
// of last, a minimum spanning tree over the unvisited vertices and the
// cheapest edge back to the start. At least one vertex must be unvisited.
func (e *bbEngine) lowerBound(last int) int64 {
	m := e.members[:0]
	entry := int64(math.MaxInt64)
	closing := int64(math.MaxInt64)
	for v := 0; v < e.n; v++ {
		if e.visited[v] {
			continue
		}
		m = append(m, v)
		if c := e.at(last, v); c < entry {
			entry = c
		}
		if c := e.at(v, e.start); c < closing {
			closing = c
		}
	}
	e.members = m

	for i := range m {
		e.key[i] = math.MaxInt64
		e.inTree[i] = false
	}
	e.key[0] = 0
	var tree int64
	for range m {
		u := -1
		for i := range m {
			if !e.inTree[i] && (u < 0 || e.key[i] < e.key[u]) {
				u = i
			}
		}
		e.inTree[u] = true
		tree += e.key[u]
		for i := range m {
			if !e.inTree[i] {
				if c := e.at(m[u], m[i]); c < e.key[i] {
					e.key[i] = c
				}
			}
		}
	}
	return entry + tree + closing
}

func (e *bbEngine) dfs(last, depth int, cost int64) {
	e.expansions++
	if e.expansions > e.budget {
		e.exhausted = true
		return
	}
	if depth == e.n {
		if total := cost + e.at(last, e.start); total < e.bestCost {
			e.bestCost = total
			copy(e.best, e.path)
		}
		return
	}
	if cost+e.lowerBound(last) >= e.bestCost {
		return
	}
	for _, v := range e.neighbours[last] {
		if e.visited[v] {
			continue
		}
		c := cost + e.at(last, v)
		if c >= e.bestCost {
			continue
		}
		e.visited[v] = true
		e.path[depth] = v
		e.dfs(v, depth+1, c)
		e.visited[v] = false
		if e.exhausted {
			return
		}
	}
}

// rotateTo returns the cyclic tour t rotated to begin at vertex v.
func rotateTo(t []int, v int) []int {
	out := make([]int, 0, len(t))
	for i, u := range t {
		if u == v {
			out = append(out, t[i:]...)
			return append(out, t[:i]...)
		}
	}
	return append(out, t...)
}

// NewTourSolver returns the named solver. "" and "branchbound" select
// BranchBoundSolver; "heldkarp" selects HeldKarpSolver. maxNodes zero
// means the solver's default; values above the solver's cap are rejected.
func NewTourSolver(name string, maxNodes int) (TourSolver, error) {
	if maxNodes < 0 {
		return nil, fmt.Errorf("pathorder: negative solver node limit %d", maxNodes)
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default", "branchbound", "branch-and-bound", "bnb":
		if maxNodes > MaxBranchBoundNodes {
			return nil, fmt.Errorf("pathorder: branch and bound node limit %d exceeds %d", maxNodes, MaxBranchBoundNodes)
		}
		return BranchBoundSolver{MaxNodes: maxNodes}, nil
	case "heldkarp", "held-karp", "dp":
		if maxNodes > MaxSolverNodes {
			return nil, fmt.Errorf("pathorder: Held-Karp node limit %d exceeds %d", maxNodes, MaxSolverNodes)
		}
		return HeldKarpSolver{MaxNodes: maxNodes}, nil
	}
	return nil, fmt.Errorf("pathorder: unknown solver %q", name)
}
