// Package boundary infers which extremity of an ordered track is its origin
// and which is its end.
//
// Two heuristics are provided. FindBoundaries anchors on the most energetic
// hit and calls the far extremity the origin. FindBoundariesHalfIntegral
// anchors on the hit at which the depth-ordered energy integral reaches half
// the total. Both expect the hit order to be a path (see package pathorder).
package boundary

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rest-for-physics/tracklib/internal/hits"
	"github.com/rest-for-physics/tracklib/internal/monitoring"
)

var (
	// ErrEmptyHitSet is returned when there are no hits to inspect.
	ErrEmptyHitSet = errors.New("boundary: empty hit set")
	// ErrZeroEnergy is returned when the half-energy integral is undefined.
	ErrZeroEnergy = errors.New("boundary: zero total energy")
	// ErrMissingProjection is returned when an event lacks an XZ or YZ track.
	ErrMissingProjection = errors.New("boundary: event has no XZ or YZ top-level track")
)

// FindBoundaries returns origin and end using the most energetic hit as the
// anchor. The extremity nearer to the anchor is the end. When both
// extremities are equally distant the first hit is the origin.
func FindBoundaries(hs *hits.HitSet) (origin, end r3.Vec, err error) {
	if hs.Len() == 0 {
		return r3.Vec{}, r3.Vec{}, ErrEmptyHitSet
	}
	anchor := hs.MaxEnergyIndex()
	origin, end = extremities(hs, anchor)
	monitoring.Tracef("[BoundaryFinder] max-energy anchor=%d origin=%v end=%v", anchor, origin, end)
	return origin, end, nil
}

// FindBoundariesHalfIntegral returns origin and end using, as the anchor,
// the hit at which the energy integral along depth (Z) comes closest to half
// the total energy. Ties in depth keep the path order.
func FindBoundariesHalfIntegral(hs *hits.HitSet) (origin, end r3.Vec, err error) {
	if hs.Len() == 0 {
		return r3.Vec{}, r3.Vec{}, ErrEmptyHitSet
	}
	total := hs.TotalEnergy()
	if total <= 0 {
		monitoring.Diagf("[BoundaryFinder] half integral undefined: total energy %g", total)
		return r3.Vec{}, r3.Vec{}, ErrZeroEnergy
	}
	anchor := halfIntegralIndex(hs, total)
	origin, end = extremities(hs, anchor)
	monitoring.Tracef("[BoundaryFinder] half-integral anchor=%d origin=%v end=%v", anchor, origin, end)
	return origin, end, nil
}

// halfIntegralIndex returns the path index of the hit whose cumulative
// depth-ordered energy is closest to total/2. The first such hit wins.
func halfIntegralIndex(hs *hits.HitSet, total float64) int {
	idx := make([]int, hs.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return hs.Position(idx[a]).Z < hs.Position(idx[b]).Z
	})

	half := total / 2
	best, bestDiff := idx[0], -1.0
	integ := 0.0
	for _, i := range idx {
		integ += hs.Energy(i)
		diff := integ - half
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best
}

func extremities(hs *hits.HitSet, anchor int) (origin, end r3.Vec) {
	last := hs.Len() - 1
	toFirst := hs.Distance(0, anchor)
	toLast := hs.Distance(last, anchor)
	if toFirst < toLast {
		return hs.Position(last), hs.Position(0)
	}
	return hs.Position(0), hs.Position(last)
}
