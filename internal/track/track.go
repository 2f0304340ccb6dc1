package track

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rest-for-physics/tracklib/internal/hits"
)

// Track is one reconstructed trajectory.
type Track struct {
	id       int
	parentID int
	hits     *hits.HitSet
	energy   float64
	length   float64
}

// New builds a track from a copy of hs and caches its energy and length.
func New(id, parentID int, hs *hits.HitSet) *Track {
	c := hs.Clone()
	return &Track{
		id:       id,
		parentID: parentID,
		hits:     c,
		energy:   c.TotalEnergy(),
		length:   c.TotalDistance(),
	}
}

// ID returns the track ID.
func (t *Track) ID() int { return t.id }

// ParentID returns the parent track ID, 0 for a root track.
func (t *Track) ParentID() int { return t.parentID }

// Hits returns a copy of the track hits.
func (t *Track) Hits() *hits.HitSet { return t.hits.Clone() }

// NumberOfHits returns the hit count.
func (t *Track) NumberOfHits() int { return t.hits.Len() }

// Energy returns the cached total energy.
func (t *Track) Energy() float64 { return t.energy }

// Length returns the cached path length under the stored hit order.
func (t *Track) Length() float64 { return t.length }

// MeanPosition returns the energy-weighted centroid of the hits.
func (t *Track) MeanPosition() r3.Vec { return t.hits.MeanPosition() }

// MaximumDistance returns the largest hit-to-hit distance.
func (t *Track) MaximumDistance() float64 { return t.hits.MaximumHitDistance() }

// IsXY reports whether the track is an XY projection.
func (t *Track) IsXY() bool { return t.hits.AreXY() }

// IsXZ reports whether the track is an XZ projection.
func (t *Track) IsXZ() bool { return t.hits.AreXZ() }

// IsYZ reports whether the track is a YZ projection.
func (t *Track) IsYZ() bool { return t.hits.AreYZ() }

// IsXYZ reports whether the track is three dimensional.
func (t *Track) IsXYZ() bool { return t.hits.AreXYZ() }

func (t *Track) String() string {
	return fmt.Sprintf("Track{id=%d parent=%d hits=%d energy=%.3f length=%.3f}",
		t.id, t.parentID, t.hits.Len(), t.energy, t.length)
}
