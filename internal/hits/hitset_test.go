package hits

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const eps = 1e-9

// =============================================================================
// HitType
// =============================================================================

func TestHitType_Composition(t *testing.T) {
	if !XYZ.Has(XZ) || !XYZ.Has(YZ) || !XYZ.Has(XY) {
		t.Error("XYZ should contain every pairwise projection")
	}
	if XZ.Has(Y) {
		t.Error("XZ should not define Y")
	}
	if !XZ.Is2D() || XYZ.Is2D() {
		t.Error("Is2D mismatch")
	}
}

func TestParseHitType(t *testing.T) {
	tests := []struct {
		in      string
		want    HitType
		wantErr bool
	}{
		{"XZ", XZ, false},
		{"yz", YZ, false},
		{" xy ", XY, false},
		{"XYZ", XYZ, false},
		{"", XYZ, false},
		{"ZZ", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseHitType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHitType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHitType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// =============================================================================
// Distances
// =============================================================================

func TestNewHit_MasksUndefinedAxes(t *testing.T) {
	h := NewHit(1, 2, 3, 10, XZ)
	if !math.IsNaN(h.Pos.Y) {
		t.Errorf("expected Y=NaN for XZ hit, got %v", h.Pos.Y)
	}
	if h.Pos.X != 1 || h.Pos.Z != 3 {
		t.Errorf("unexpected position %+v", h.Pos)
	}
}

func TestDistance_UsesCommonAxes(t *testing.T) {
	s := New(
		NewHit(0, 0, 0, 1, XZ),
		NewHit(3, 0, 4, 1, XZ),
		NewHit(3, 100, 4, 1, XYZ),
	)
	assert.InDelta(t, 5.0, s.Distance(0, 1), eps)
	assert.InDelta(t, 25.0, s.Distance2(0, 1), eps)
	// Y is undefined on hit 0, so it does not contribute.
	assert.InDelta(t, 5.0, s.Distance(0, 2), eps)
	assert.InDelta(t, s.Distance(1, 0), s.Distance(0, 1), eps)
	assert.Zero(t, s.Distance(1, 1))
}

func TestTotalDistanceAndMaximum(t *testing.T) {
	s := New(
		NewHit(0, 0, 0, 1, XYZ),
		NewHit(1, 0, 0, 1, XYZ),
		NewHit(1, 1, 0, 1, XYZ),
	)
	assert.InDelta(t, 2.0, s.TotalDistance(), eps)
	assert.InDelta(t, math.Sqrt2, s.MaximumHitDistance(), eps)
	assert.Zero(t, New().TotalDistance())
}

// =============================================================================
// Merge
// =============================================================================

func TestMergeHits_EnergyWeighted(t *testing.T) {
	s := New(
		NewHit(0, 0, 0, 1, XYZ),
		NewHit(10, 0, 0, 3, XYZ),
		NewHit(50, 50, 50, 2, XYZ),
	)
	before := s.TotalEnergy()

	s.MergeHits(0, 1)

	require.Equal(t, 2, s.Len())
	assert.InDelta(t, 7.5, s.Position(0).X, eps)
	assert.InDelta(t, 4.0, s.Energy(0), eps)
	assert.InDelta(t, before, s.TotalEnergy(), eps)
	assert.InDelta(t, 50.0, s.Position(1).X, eps)
}

func TestMergeHits_ZeroEnergyUsesMidpoint(t *testing.T) {
	s := New(NewHit(0, 0, 0, 0, XZ), NewHit(2, 0, 4, 0, XZ))
	s.MergeHits(0, 1)
	require.Equal(t, 1, s.Len())
	assert.InDelta(t, 1.0, s.Position(0).X, eps)
	assert.InDelta(t, 2.0, s.Position(0).Z, eps)
	assert.True(t, math.IsNaN(s.Position(0).Y))
}

func TestMergeHits_MixedProjectionsKeepSharedAxes(t *testing.T) {
	s := New(NewHit(4, 0, 10, 1, XZ), NewHit(0, 6, 20, 1, YZ))
	s.MergeHits(0, 1)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, Z, s.Type(0))
	assert.InDelta(t, 15.0, s.Position(0).Z, eps)
	assert.True(t, math.IsNaN(s.Position(0).X))
	assert.True(t, math.IsNaN(s.Position(0).Y))
	assert.InDelta(t, 2.0, s.Energy(0), eps)
}

func TestMergeHits_SameIndexIsNoop(t *testing.T) {
	s := New(NewHit(0, 0, 0, 1, XYZ))
	s.MergeHits(0, 0)
	assert.Equal(t, 1, s.Len())
}

// =============================================================================
// Aggregates and ordering
// =============================================================================

func TestMeanPosition(t *testing.T) {
	s := New(NewHit(0, 0, 0, 1, XZ), NewHit(4, 0, 8, 3, XZ))
	m := s.MeanPosition()
	assert.InDelta(t, 3.0, m.X, eps)
	assert.InDelta(t, 6.0, m.Z, eps)
	assert.True(t, math.IsNaN(m.Y))

	zero := New(NewHit(0, 0, 0, 0, XYZ), NewHit(2, 2, 2, 0, XYZ))
	assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, zero.MeanPosition())
}

func TestMaxEnergyIndex(t *testing.T) {
	s := New(NewHit(0, 0, 0, 5, XYZ), NewHit(1, 0, 0, 9, XYZ), NewHit(2, 0, 0, 9, XYZ))
	assert.Equal(t, 1, s.MaxEnergyIndex())
	assert.Equal(t, -1, New().MaxEnergyIndex())
}

func TestPermute(t *testing.T) {
	s := New(NewHit(0, 0, 0, 1, XYZ), NewHit(1, 0, 0, 2, XYZ), NewHit(2, 0, 0, 3, XYZ))

	p, err := s.Permute([]int{2, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, p.Energies())
	// Source is untouched.
	assert.Equal(t, []float64{1, 2, 3}, s.Energies())

	_, err = s.Permute([]int{0, 0, 1})
	assert.True(t, errors.Is(err, ErrInvalidPermutation))
	_, err = s.Permute([]int{0, 1})
	assert.True(t, errors.Is(err, ErrInvalidPermutation))
	_, err = s.Permute([]int{0, 1, 3})
	assert.True(t, errors.Is(err, ErrInvalidPermutation))
}

func TestProjection(t *testing.T) {
	xz := New(NewHit(0, 0, 0, 1, XZ), NewHit(1, 0, 1, 1, XZ))
	p, err := xz.Projection()
	require.NoError(t, err)
	assert.Equal(t, XZ, p)
	assert.True(t, xz.AreXZ())
	assert.False(t, xz.AreYZ())

	mixed := New(NewHit(0, 0, 0, 1, XZ), NewHit(0, 1, 1, 1, YZ))
	_, err = mixed.Projection()
	assert.ErrorIs(t, err, ErrMixedProjection)

	_, err = New().Projection()
	assert.ErrorIs(t, err, ErrMixedProjection)
	assert.False(t, New().AreXYZ())
}

func TestCloneIsIndependent(t *testing.T) {
	s := New(NewHit(0, 0, 0, 1, XYZ), NewHit(1, 0, 0, 1, XYZ))
	c := s.Clone()
	c.MergeHits(0, 1)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, c.Len())

	var nilSet *HitSet
	assert.Equal(t, 0, nilSet.Len())
	assert.Equal(t, 0, nilSet.Clone().Len())
}
