package pathorder

import (
	"bytes"
	"errors"
	"math"
	"math/rand"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rest-for-physics/tracklib/internal/hits"
	"github.com/rest-for-physics/tracklib/internal/monitoring"
)

// intCycleCost sums the packed integer edge lengths along a cyclic tour.
func intCycleCost(edges []int, tour []int) int {
	c := 0
	for i := range tour {
		a, b := tour[i], tour[(i+1)%len(tour)]
		if a < b {
			a, b = b, a
		}
		c += edges[edgeIndex(a, b)]
	}
	return c
}

// shuffledLine returns n hits spaced step apart along X in random order.
func shuffledLine(rng *rand.Rand, n int, step float64) *hits.HitSet {
	hs := hits.New()
	for _, i := range rng.Perm(n) {
		hs.Add(hits.NewHit(step*float64(i), 0, 0, 1, hits.XYZ))
	}
	return hs
}

func TestBranchBoundSolver_MatchesHeldKarp(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	for trial := 0; trial < 24; trial++ {
		n := 4 + trial%9
		edges := scaledEdges(DistanceMatrix(randomPoints(rng, n)))

		want, err := HeldKarpSolver{}.SolveTour(n, edges)
		require.NoError(t, err)
		got, err := BranchBoundSolver{}.SolveTour(n, edges)
		require.NoError(t, err)

		require.True(t, isPermutation(got, n), "trial %d", trial)
		assert.Equal(t, 0, got[0], "trial %d", trial)
		assert.Equal(t, intCycleCost(edges, want), intCycleCost(edges, got), "trial %d n=%d", trial, n)
	}
}

func TestOrder_DefaultSolverOrdersLongTracks(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	hs := shuffledLine(rng, 30, 1)

	open, err := Orderer{}.Order(hs)
	require.NoError(t, err)
	assert.InDelta(t, 29.0, open.Length, 1e-9)

	ordered, err := Apply(hs, open)
	require.NoError(t, err)
	xs := make([]float64, 0, ordered.Len())
	for _, h := range ordered.Hits() {
		xs = append(xs, h.Pos.X)
	}
	if xs[0] > xs[len(xs)-1] {
		for l, r := 0, len(xs)-1; l < r; l, r = l+1, r-1 {
			xs[l], xs[r] = xs[r], xs[l]
		}
	}
	want := make([]float64, 30)
	for i := range want {
		want[i] = float64(i)
	}
	if diff := cmp.Diff(want, xs); diff != "" {
		t.Errorf("ordered X positions (-want +got):\n%s", diff)
	}

	closed, err := Orderer{Cyclic: true}.Order(shuffledLine(rng, 8, 1))
	require.NoError(t, err)
	assert.InDelta(t, 14.0, closed.Length, 1e-9)
}

func TestOrder_DefaultSolverOnArc(t *testing.T) {
	const n = 30
	rng := rand.New(rand.NewSource(9))
	hs := hits.New()
	for _, i := range rng.Perm(n) {
		phi := math.Pi * float64(i) / float64(n-1)
		hs.Add(hits.NewHit(10*math.Cos(phi), 10*math.Sin(phi), 0, 1, hits.XYZ))
	}
	chords := float64(n-1) * 2 * 10 * math.Sin(math.Pi/float64(2*(n-1)))

	exact, err := Orderer{}.Order(hs)
	require.NoError(t, err)
	greedy, err := Orderer{Method: NearestNeighbour}.Order(hs)
	require.NoError(t, err)

	// Integer edge lengths lose up to 0.01 per edge.
	slack := float64(n) * 0.01
	assert.LessOrEqual(t, exact.Length, greedy.Length+slack)
	assert.InDelta(t, chords, exact.Length, slack)
}

func TestBranchBoundSolver_SearchBudget(t *testing.T) {
	hs := randomPoints(rand.New(rand.NewSource(13)), 14)
	edges := scaledEdges(DistanceMatrix(hs))

	_, err := BranchBoundSolver{MaxExpansions: 1}.SolveTour(14, edges)
	assert.True(t, errors.Is(err, ErrSearchBudget))

	_, err = Orderer{Cyclic: true, Solver: BranchBoundSolver{MaxExpansions: 1}}.Order(hs)
	assert.True(t, errors.Is(err, ErrSolverFailed))
	assert.True(t, errors.Is(err, ErrSearchBudget))

	tour, err := BranchBoundSolver{}.SolveTour(14, edges)
	require.NoError(t, err)
	assert.True(t, isPermutation(tour, 14))
}

func TestBranchBoundSolver_Input(t *testing.T) {
	hs := randomPoints(rand.New(rand.NewSource(2)), 6)
	_, err := BranchBoundSolver{MaxNodes: 5}.SolveTour(6, scaledEdges(DistanceMatrix(hs)))
	assert.True(t, errors.Is(err, ErrTooManyHits))

	_, err = BranchBoundSolver{}.SolveTour(4, []int{1, 2})
	assert.True(t, errors.Is(err, ErrSolverInput))

	_, err = BranchBoundSolver{MaxNodes: 1000}.SolveTour(MaxBranchBoundNodes+1, nil)
	assert.True(t, errors.Is(err, ErrTooManyHits))

	tour, err := BranchBoundSolver{}.SolveTour(3, []int{5, 1, 7})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, tour)
}

func TestNewTourSolver(t *testing.T) {
	tests := []struct {
		name     string
		maxNodes int
		want     TourSolver
		wantErr  bool
	}{
		{"", 0, BranchBoundSolver{}, false},
		{"branchbound", 40, BranchBoundSolver{MaxNodes: 40}, false},
		{"BnB", MaxBranchBoundNodes, BranchBoundSolver{MaxNodes: MaxBranchBoundNodes}, false},
		{"heldkarp", 12, HeldKarpSolver{MaxNodes: 12}, false},
		{"branchbound", MaxBranchBoundNodes + 1, nil, true},
		{"heldkarp", MaxSolverNodes + 1, nil, true},
		{"branchbound", -1, nil, true},
		{"concorde", 0, nil, true},
	}
	for _, tt := range tests {
		got, err := NewTourSolver(tt.name, tt.maxNodes)
		if tt.wantErr {
			assert.Error(t, err, "%q/%d", tt.name, tt.maxNodes)
			continue
		}
		require.NoError(t, err, "%q/%d", tt.name, tt.maxNodes)
		assert.Equal(t, tt.want, got)
	}
}

func TestOrder_TraceOutput(t *testing.T) {
	defer monitoring.SetLogWriters(monitoring.LogWriters{Ops: os.Stderr})

	var trace bytes.Buffer
	monitoring.SetLogWriters(monitoring.LogWriters{Trace: &trace})
	_, err := Orderer{}.Order(fivePoints())
	require.NoError(t, err)

	out := trace.String()
	assert.True(t, strings.Contains(out, "distances="), out)
	assert.True(t, strings.Contains(out, "order="), out)
	assert.Equal(t, 5, strings.Count(formatMatrix(DistanceMatrix(fivePoints())), "\n"))
}
