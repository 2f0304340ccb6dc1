package hits

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrInvalidPermutation is returned by Permute when the order is not a
	// permutation of the hit indices.
	ErrInvalidPermutation = errors.New("hits: invalid permutation")
	// ErrMixedProjection is returned when a set mixes projection types where
	// a single one is required.
	ErrMixedProjection = errors.New("hits: mixed projection types")
)

// HitSet is an ordered collection of hits.
//
// The zero value is an empty set ready to use. Methods taking an index panic
// on out-of-range indices, like slice access.
type HitSet struct {
	hits []Hit
}

// New returns a HitSet holding copies of the given hits.
func New(hs ...Hit) *HitSet {
	s := &HitSet{hits: make([]Hit, len(hs))}
	copy(s.hits, hs)
	return s
}

// Len returns the number of hits.
func (s *HitSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.hits)
}

// At returns hit i.
func (s *HitSet) At(i int) Hit { return s.hits[i] }

// Add appends a hit.
func (s *HitSet) Add(h Hit) { s.hits = append(s.hits, h) }

// Hits returns a copy of the underlying hits.
func (s *HitSet) Hits() []Hit {
	out := make([]Hit, s.Len())
	if s != nil {
		copy(out, s.hits)
	}
	return out
}

// Clone returns an independent copy.
func (s *HitSet) Clone() *HitSet {
	if s == nil {
		return &HitSet{}
	}
	return New(s.hits...)
}

// Position returns the position of hit i.
func (s *HitSet) Position(i int) r3.Vec { return s.hits[i].Pos }

// Energy returns the energy of hit i.
func (s *HitSet) Energy(i int) float64 { return s.hits[i].Energy }

// Type returns the projection tag of hit i.
func (s *HitSet) Type(i int) HitType { return s.hits[i].Type }

// Distance2 returns the squared distance between hits i and j over the axes
// both define.
func (s *HitSet) Distance2(i, j int) float64 {
	return distance2(s.hits[i], s.hits[j])
}

// Distance returns the distance between hits i and j.
func (s *HitSet) Distance(i, j int) float64 {
	return math.Sqrt(s.Distance2(i, j))
}

// MergeHits replaces hit i with the energy-weighted combination of hits i
// and j and removes hit j. Total energy is unchanged.
//
// The merged hit keeps only the axes both hits measure: merging an XZ hit
// with a YZ hit yields a Z hit with X and Y set to NaN. Hits sharing no
// axis keep the type of hit i.
func (s *HitSet) MergeHits(i, j int) {
	if i == j {
		return
	}
	s.hits[i] = mergeHits(s.hits[i], s.hits[j])
	s.hits = append(s.hits[:j], s.hits[j+1:]...)
}

// TotalEnergy is the sum of hit energies.
func (s *HitSet) TotalEnergy() float64 {
	var e float64
	for i := 0; i < s.Len(); i++ {
		e += s.hits[i].Energy
	}
	return e
}

// TotalDistance is the path length following the current order.
func (s *HitSet) TotalDistance() float64 {
	var d float64
	for i := 1; i < s.Len(); i++ {
		d += s.Distance(i-1, i)
	}
	return d
}

// MaximumHitDistance is the largest pairwise distance in the set.
func (s *HitSet) MaximumHitDistance() float64 {
	var best float64
	for i := 0; i < s.Len(); i++ {
		for j := i + 1; j < s.Len(); j++ {
			if d := s.Distance2(i, j); d > best {
				best = d
			}
		}
	}
	return math.Sqrt(best)
}

// MeanPosition is the energy-weighted centroid. Sets with zero total energy
// fall back to the arithmetic mean. Axes undefined by every hit stay NaN.
func (s *HitSet) MeanPosition() r3.Vec {
	return weightedCentroid(s.hits)
}

// MaxEnergyIndex returns the index of the most energetic hit, the first one
// on ties, or -1 for an empty set.
func (s *HitSet) MaxEnergyIndex() int {
	idx := -1
	maxEn := math.Inf(-1)
	for i := 0; i < s.Len(); i++ {
		if s.hits[i].Energy > maxEn {
			maxEn = s.hits[i].Energy
			idx = i
		}
	}
	return idx
}

// ClusterSize is the squared magnitude of the positional spread of hit i,
// ignoring undefined axes.
func (s *HitSet) ClusterSize(i int) float64 {
	sig := maskUndefined(s.hits[i].Sigma, s.hits[i].Type)
	var size float64
	for _, v := range [3]float64{sig.X, sig.Y, sig.Z} {
		if !math.IsNaN(v) {
			size += v * v
		}
	}
	return size
}

// Permute returns a new set whose hit k is s.At(order[k]).
func (s *HitSet) Permute(order []int) (*HitSet, error) {
	n := s.Len()
	if len(order) != n {
		return nil, fmt.Errorf("%w: got %d indices for %d hits", ErrInvalidPermutation, len(order), n)
	}
	seen := make([]bool, n)
	out := &HitSet{hits: make([]Hit, n)}
	for k, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return nil, fmt.Errorf("%w: index %d at position %d", ErrInvalidPermutation, idx, k)
		}
		seen[idx] = true
		out.hits[k] = s.hits[idx]
	}
	return out, nil
}

// Projection returns the projection type shared by every hit.
func (s *HitSet) Projection() (HitType, error) {
	if s.Len() == 0 {
		return 0, fmt.Errorf("%w: empty set", ErrMixedProjection)
	}
	t := s.hits[0].Type
	for i := 1; i < s.Len(); i++ {
		if s.hits[i].Type != t {
			return 0, fmt.Errorf("%w: %s and %s", ErrMixedProjection, t, s.hits[i].Type)
		}
	}
	return t, nil
}

func (s *HitSet) all(t HitType) bool {
	if s.Len() == 0 {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		if s.hits[i].Type != t {
			return false
		}
	}
	return true
}

// AreXY reports whether every hit is an XY projection.
func (s *HitSet) AreXY() bool { return s.all(XY) }

// AreXZ reports whether every hit is an XZ projection.
func (s *HitSet) AreXZ() bool { return s.all(XZ) }

// AreYZ reports whether every hit is a YZ projection.
func (s *HitSet) AreYZ() bool { return s.all(YZ) }

// AreXYZ reports whether every hit is three dimensional.
func (s *HitSet) AreXYZ() bool { return s.all(XYZ) }

// Coordinates returns the coordinate of every hit along axis.
func (s *HitSet) Coordinates(axis HitType) []float64 {
	out := make([]float64, s.Len())
	for i := range out {
		out[i] = coord(s.hits[i].Pos, axis)
	}
	return out
}

// Energies returns the energy of every hit.
func (s *HitSet) Energies() []float64 {
	out := make([]float64, s.Len())
	for i := range out {
		out[i] = s.hits[i].Energy
	}
	return out
}

func weightedCentroid(hs []Hit) r3.Vec {
	var c r3.Vec
	for _, axis := range [3]HitType{X, Y, Z} {
		var sum, wsum, plain float64
		var n int
		for _, h := range hs {
			if !h.Type.Has(axis) {
				continue
			}
			v := coord(h.Pos, axis)
			sum += h.Energy * v
			wsum += h.Energy
			plain += v
			n++
		}
		switch {
		case n == 0:
			setCoord(&c, axis, math.NaN())
		case wsum > 0:
			setCoord(&c, axis, sum/wsum)
		default:
			setCoord(&c, axis, plain/float64(n))
		}
	}
	return c
}
