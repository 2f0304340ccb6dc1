package boundary

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rest-for-physics/tracklib/internal/hits"
	"github.com/rest-for-physics/tracklib/internal/monitoring"
	"github.com/rest-for-physics/tracklib/internal/track"
)

func maxProjectionTracks(ev *track.Event) (xz, yz *track.Track, err error) {
	xz = ev.MaxEnergyTrack(hits.XZ)
	yz = ev.MaxEnergyTrack(hits.YZ)
	if xz == nil || yz == nil {
		monitoring.Diagf("[BoundaryFinder] event %d: missing XZ or YZ track, skipping", ev.ID)
		return nil, nil, ErrMissingProjection
	}
	return xz, yz, nil
}

// EventBoundaries combines the max-energy boundaries of the dominant XZ and
// YZ top-level tracks. X comes from the XZ track, Y from the YZ track and Z
// is the mean of both.
func EventBoundaries(ev *track.Event) (origin, end r3.Vec, err error) {
	xz, yz, err := maxProjectionTracks(ev)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}
	origX, endX, err := FindBoundaries(xz.Hits())
	if err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}
	origY, endY, err := FindBoundaries(yz.Hits())
	if err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}
	origin = r3.Vec{X: origX.X, Y: origY.Y, Z: (origX.Z + origY.Z) / 2}
	end = r3.Vec{X: endX.X, Y: endY.Y, Z: (endX.Z + endY.Z) / 2}
	return origin, end, nil
}

// EventBoundaries3D pairs the hits of the dominant XZ and YZ tracks index by
// index into XYZ hits. Both relative orientations of the YZ track are tried
// and the one whose extremities lie farther apart is kept. The anchor is the
// first hit at which the running energy exceeds half the total, following
// the pairing order. The paired hits are returned alongside the boundaries.
func EventBoundaries3D(ev *track.Event) (origin, end r3.Vec, paired *hits.HitSet, err error) {
	xz, yz, err := maxProjectionTracks(ev)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, nil, err
	}
	hx, hy := xz.Hits(), yz.Hits()
	n := hx.Len()
	if hy.Len() < n {
		n = hy.Len()
	}
	if n == 0 {
		return r3.Vec{}, r3.Vec{}, nil, ErrEmptyHitSet
	}

	same, reversed := hits.New(), hits.New()
	for i := 0; i < n; i++ {
		same.Add(pairHit(hx, hy, i, i))
		reversed.Add(pairHit(hx, hy, i, n-i-1))
	}
	best := same
	if reversed.Distance(0, n-1) > same.Distance(0, n-1) {
		best = reversed
	}

	total := best.TotalEnergy()
	if total <= 0 {
		return r3.Vec{}, r3.Vec{}, nil, ErrZeroEnergy
	}
	anchor := n - 1
	integ := 0.0
	for i := 0; i < n; i++ {
		integ += best.Energy(i)
		if integ > total/2 {
			anchor = i
			break
		}
	}
	origin, end = extremities(best, anchor)
	monitoring.Diagf("[BoundaryFinder] event %d: 3D anchor=%d origin=%v end=%v", ev.ID, anchor, origin, end)
	return origin, end, best, nil
}

func pairHit(hx, hy *hits.HitSet, i, j int) hits.Hit {
	px, py := hx.Position(i), hy.Position(j)
	ex, ey := hx.Energy(i), hy.Energy(j)
	z := (px.Z + py.Z) / 2
	if ex+ey > 0 {
		z = (ex*px.Z + ey*py.Z) / (ex + ey)
	}
	return hits.NewHit(px.X, py.Y, z, ex+ey, hits.XYZ)
}

// RelativeZ returns the fraction of the Z extent of the dominant XZ and YZ
// tracks, measured from the lowest depth, at which half of their combined
// energy has been deposited. A track with no Z extent yields 0.
func RelativeZ(ev *track.Event) (float64, error) {
	xz, yz, err := maxProjectionTracks(ev)
	if err != nil {
		return 0, err
	}
	type zEnergy struct{ z, e float64 }
	var deposits []zEnergy
	total := 0.0
	for _, tr := range []*track.Track{xz, yz} {
		hs := tr.Hits()
		for i := 0; i < hs.Len(); i++ {
			deposits = append(deposits, zEnergy{hs.Position(i).Z, hs.Energy(i)})
			total += hs.Energy(i)
		}
	}
	if len(deposits) == 0 {
		return 0, ErrEmptyHitSet
	}
	sort.Slice(deposits, func(a, b int) bool {
		if deposits[a].z != deposits[b].z {
			return deposits[a].z < deposits[b].z
		}
		return deposits[a].e < deposits[b].e
	})

	pos := len(deposits) - 1
	integ := 0.0
	for i, d := range deposits {
		integ += d.e
		if integ >= total/2 {
			pos = i
			break
		}
	}
	length := deposits[len(deposits)-1].z - deposits[0].z
	if length == 0 {
		return 0, nil
	}
	return (deposits[pos].z - deposits[0].z) / length, nil
}
