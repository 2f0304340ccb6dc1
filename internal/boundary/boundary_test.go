package boundary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rest-for-physics/tracklib/internal/hits"
	"github.com/rest-for-physics/tracklib/internal/track"
)

func line(t hits.HitType, energies ...float64) *hits.HitSet {
	hs := hits.New()
	for i, e := range energies {
		v := float64(i)
		hs.Add(hits.NewHit(v, v, v, e, t))
	}
	return hs
}

// =============================================================================
// Max-energy heuristic
// =============================================================================

func TestFindBoundaries_MostEnergeticAtEnd(t *testing.T) {
	hs := hits.New(
		hits.NewHit(0, 0, 0, 1, hits.XYZ),
		hits.NewHit(1, 0, 0, 1, hits.XYZ),
		hits.NewHit(2, 0, 0, 1, hits.XYZ),
		hits.NewHit(10, 0, 0, 100, hits.XYZ),
	)
	origin, end, err := FindBoundaries(hs)
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 0}, origin)
	assert.Equal(t, r3.Vec{X: 10}, end)
}

func TestFindBoundaries_MostEnergeticAtStart(t *testing.T) {
	origin, end, err := FindBoundaries(line(hits.XYZ, 50, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 2, Y: 2, Z: 2}, origin)
	assert.Equal(t, r3.Vec{}, end)
}

func TestFindBoundaries_TieKeepsFirstHitAsOrigin(t *testing.T) {
	origin, end, err := FindBoundaries(line(hits.XYZ, 1, 5, 1))
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{}, origin)
	assert.Equal(t, r3.Vec{X: 2, Y: 2, Z: 2}, end)

	single := hits.New(hits.NewHit(3, 4, 5, 1, hits.XYZ))
	origin, end, err = FindBoundaries(single)
	require.NoError(t, err)
	assert.Equal(t, origin, end)
}

func TestFindBoundaries_Empty(t *testing.T) {
	_, _, err := FindBoundaries(hits.New())
	assert.True(t, errors.Is(err, ErrEmptyHitSet))
	_, _, err = FindBoundariesHalfIntegral(nil)
	assert.True(t, errors.Is(err, ErrEmptyHitSet))
}

// =============================================================================
// Half-energy-integral heuristic
// =============================================================================

func TestFindBoundariesHalfIntegral(t *testing.T) {
	tests := []struct {
		name       string
		energies   []float64
		wantOrigin float64
	}{
		// Cumulative 1,2,3,13 against half 6.5: anchor is z=2, nearer the end.
		{"heavy tail", []float64{1, 1, 1, 10}, 0},
		// Cumulative 10,11,12,13 against half 6.5: anchor is z=0.
		{"heavy head", []float64{10, 1, 1, 1}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origin, _, err := FindBoundariesHalfIntegral(line(hits.XZ, tt.energies...))
			require.NoError(t, err)
			assert.Equal(t, tt.wantOrigin, origin.X)
			assert.Equal(t, tt.wantOrigin, origin.Z)
		})
	}
}

func TestFindBoundariesHalfIntegral_ZeroEnergy(t *testing.T) {
	_, _, err := FindBoundariesHalfIntegral(line(hits.XZ, 0, 0, 0))
	assert.True(t, errors.Is(err, ErrZeroEnergy))
}

func TestFindBoundariesHalfIntegral_SortsByDepth(t *testing.T) {
	// Path order is reversed relative to depth.
	hs := hits.New(
		hits.NewHit(3, 0, 3, 1, hits.XZ),
		hits.NewHit(2, 0, 2, 1, hits.XZ),
		hits.NewHit(1, 0, 1, 1, hits.XZ),
		hits.NewHit(0, 0, 0, 10, hits.XZ),
	)
	// Depth-sorted cumulative 10,11,12,13: anchor is the last path hit.
	origin, end, err := FindBoundariesHalfIntegral(hs)
	require.NoError(t, err)
	assert.Equal(t, 3.0, origin.Z)
	assert.Equal(t, 0.0, end.Z)
}

// =============================================================================
// Event level
// =============================================================================

func twoProjectionEvent(t *testing.T, xz, yz *hits.HitSet) *track.Event {
	t.Helper()
	ev := track.NewEvent(1)
	require.NoError(t, ev.AddTrack(track.New(1, 0, xz)))
	require.NoError(t, ev.AddTrack(track.New(2, 0, yz)))
	return ev
}

func TestEventBoundaries(t *testing.T) {
	xz := hits.New(
		hits.NewHit(0, 0, 0, 1, hits.XZ),
		hits.NewHit(1, 0, 1, 1, hits.XZ),
		hits.NewHit(2, 0, 2, 5, hits.XZ),
	)
	yz := hits.New(
		hits.NewHit(0, 0, 0, 5, hits.YZ),
		hits.NewHit(0, 2, 1, 1, hits.YZ),
		hits.NewHit(0, 4, 2, 1, hits.YZ),
	)
	origin, end, err := EventBoundaries(twoProjectionEvent(t, xz, yz))
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 0, Y: 4, Z: 1}, origin)
	assert.Equal(t, r3.Vec{X: 2, Y: 0, Z: 1}, end)
}

func TestEventBoundaries_MissingProjection(t *testing.T) {
	ev := track.NewEvent(1)
	require.NoError(t, ev.AddTrack(track.New(1, 0, line(hits.XZ, 1, 1))))

	_, _, err := EventBoundaries(ev)
	assert.True(t, errors.Is(err, ErrMissingProjection))
	_, _, _, err = EventBoundaries3D(ev)
	assert.True(t, errors.Is(err, ErrMissingProjection))
	_, err = RelativeZ(ev)
	assert.True(t, errors.Is(err, ErrMissingProjection))
}

func TestEventBoundaries3D(t *testing.T) {
	ev := twoProjectionEvent(t, line(hits.XZ, 1, 1, 1), line(hits.YZ, 1, 1, 1))
	origin, end, paired, err := EventBoundaries3D(ev)
	require.NoError(t, err)
	require.Equal(t, 3, paired.Len())
	assert.True(t, paired.AreXYZ())
	assert.InDelta(t, 6.0, paired.TotalEnergy(), 1e-12)
	assert.Equal(t, r3.Vec{}, origin)
	assert.Equal(t, r3.Vec{X: 2, Y: 2, Z: 2}, end)
}

func TestEventBoundaries3D_PrefersLongerPairing(t *testing.T) {
	// YZ is stored deepest first, so index pairing collapses the Z extent.
	xz := line(hits.XZ, 1, 1, 1)
	yz := hits.New(
		hits.NewHit(0, 0, 2, 1, hits.YZ),
		hits.NewHit(0, 1, 1, 1, hits.YZ),
		hits.NewHit(0, 2, 0, 1, hits.YZ),
	)
	_, _, paired, err := EventBoundaries3D(twoProjectionEvent(t, xz, yz))
	require.NoError(t, err)
	// Reversed pairing: (0,2,0), (1,1,1), (2,0,2).
	assert.Equal(t, r3.Vec{X: 0, Y: 2, Z: 0}, paired.Position(0))
	assert.Equal(t, r3.Vec{X: 2, Y: 0, Z: 2}, paired.Position(2))
}

func TestRelativeZ(t *testing.T) {
	ev := twoProjectionEvent(t, line(hits.XZ, 1, 1, 1), line(hits.YZ, 1, 1, 1))
	rz, err := RelativeZ(ev)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, rz, 1e-12)

	flat := hits.New(hits.NewHit(0, 0, 0, 1, hits.XZ), hits.NewHit(1, 0, 0, 1, hits.XZ))
	flatY := hits.New(hits.NewHit(0, 0, 0, 1, hits.YZ))
	rz, err = RelativeZ(twoProjectionEvent(t, flat, flatY))
	require.NoError(t, err)
	assert.Equal(t, 0.0, rz)
}
