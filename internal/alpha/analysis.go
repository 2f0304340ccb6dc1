package alpha

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rest-for-physics/tracklib/internal/hits"
	"github.com/rest-for-physics/tracklib/internal/monitoring"
	"github.com/rest-for-physics/tracklib/internal/track"
)

// DefaultTrackBalance is the minimum share of its projection's energy the
// dominant track must carry.
const DefaultTrackBalance = 0.65

// Track IDs of the smoothed projections in the analysis output event.
const (
	SmoothedXZTrackID = 1
	SmoothedYZTrackID = 2
)

var (
	// ErrMissingProjection is returned when the event lacks XZ or YZ tracks.
	ErrMissingProjection = errors.New("alpha: event needs both XZ and YZ tracks")
	// ErrUnbalanced is returned when the dominant track is too weak.
	ErrUnbalanced = errors.New("alpha: dominant track below energy balance")
	// ErrNoSmoothedHits is returned when smoothing leaves a projection empty.
	ErrNoSmoothedHits = errors.New("alpha: smoothing left no hits")
)

// Result holds the reconstructed alpha-track observables.
type Result struct {
	Origin r3.Vec
	End    r3.Vec
	Length float64
	// Angle is the polar angle, acos(ΔZ/Length), from end to origin.
	Angle float64
	// Downwards is set when the origin sits at the deepest Z.
	Downwards   bool
	TotalEnergy float64
}

// Observables returns the result as named scalars.
func (r Result) Observables() map[string]float64 {
	down := 0.0
	if r.Downwards {
		down = 1
	}
	return map[string]float64{
		"originX":     r.Origin.X,
		"originY":     r.Origin.Y,
		"originZ":     r.Origin.Z,
		"endX":        r.End.X,
		"endY":        r.End.Y,
		"endZ":        r.End.Z,
		"length":      r.Length,
		"angle":       r.Angle,
		"downwards":   down,
		"totalEnergy": r.TotalEnergy,
	}
}

// dominant returns the most energetic top-level track of projection p and
// the summed energy of all top-level tracks of that projection.
func dominant(ev *track.Event, p hits.HitType) (*track.Track, float64) {
	var best *track.Track
	total := 0.0
	for i, t := range ev.Tracks() {
		if !ev.IsTopLevel(i) || !isProjection(t, p) {
			continue
		}
		total += t.Energy()
		if t.Energy() > 0 && (best == nil || t.Energy() > best.Energy()) {
			best = t
		}
	}
	return best, total
}

func isProjection(t *track.Track, p hits.HitType) bool {
	if p == hits.XZ {
		return t.IsXZ()
	}
	return t.IsYZ()
}

func projectedPoints(t *track.Track, coord hits.HitType) []Point {
	hs := t.Hits()
	out := make([]Point, hs.Len())
	for i := range out {
		h := hs.At(i)
		out[i] = Point{Coord: h.Coord(coord), Depth: h.Pos.Z, Energy: h.Energy}
	}
	return out
}

// Analyze reconstructs the dominant alpha track of ev.
//
// The most energetic top-level XZ and YZ tracks are selected; each must
// carry at least trackBalance of its projection's energy. The direction is
// taken from the depth at which the combined energy integral comes closest
// to half the total: the extremity farther from it is the origin. Both
// projections are smoothed and returned as a new event holding the XZ track
// (ID 1) and the YZ track (ID 2).
func Analyze(ev *track.Event, trackBalance float64) (Result, *track.Event, error) {
	xz, totX := dominant(ev, hits.XZ)
	yz, totY := dominant(ev, hits.YZ)
	if xz == nil || yz == nil {
		return Result{}, nil, ErrMissingProjection
	}
	if xz.Energy() < totX*trackBalance || yz.Energy() < totY*trackBalance {
		return Result{}, nil, fmt.Errorf("%w: XZ %.3g/%.3g YZ %.3g/%.3g", ErrUnbalanced,
			xz.Energy(), totX, yz.Energy(), totY)
	}
	trackEnergy := xz.Energy() + yz.Energy()

	px := projectedPoints(xz, hits.X)
	py := projectedPoints(yz, hits.Y)

	deposits := make([]Point, 0, len(px)+len(py))
	deposits = append(deposits, px...)
	deposits = append(deposits, py...)
	if len(deposits) == 0 {
		return Result{}, nil, ErrNoSmoothedHits
	}
	sort.Slice(deposits, func(i, j int) bool {
		if deposits[i].Depth != deposits[j].Depth {
			return deposits[i].Depth < deposits[j].Depth
		}
		return deposits[i].Energy < deposits[j].Energy
	})

	integ, minDiff, halfZ := 0.0, math.Inf(1), 0.0
	for _, d := range deposits {
		integ += d.Energy
		if diff := math.Abs(integ - trackEnergy/2); diff < minDiff {
			halfZ, minDiff = d.Depth, diff
		}
	}

	front, back := deposits[0].Depth, deposits[len(deposits)-1].Depth
	var res Result
	res.TotalEnergy = trackEnergy
	if math.Abs(halfZ-back) > math.Abs(halfZ-front) {
		res.Origin.Z, res.End.Z, res.Downwards = back, front, true
	} else {
		res.Origin.Z, res.End.Z = front, back
	}

	sx, sy := Smooth(px), Smooth(py)
	if len(sx) == 0 || len(sy) == 0 {
		monitoring.Diagf("[AlphaTrack] event %d: smoothing left XZ=%d YZ=%d points", ev.ID, len(sx), len(sy))
		return Result{}, nil, ErrNoSmoothedHits
	}
	res.Origin.X, res.End.X = orient(sx, res.Origin.Z)
	res.Origin.Y, res.End.Y = orient(sy, res.Origin.Z)

	d := r3.Sub(res.Origin, res.End)
	res.Length = r3.Norm(d)
	if res.Length > 0 {
		res.Angle = math.Acos(d.Z / res.Length)
	}

	out := track.NewEvent(ev.ID)
	if err := out.AddTrack(track.New(SmoothedXZTrackID, 0, smoothedHits(sx, hits.XZ))); err != nil {
		return Result{}, nil, err
	}
	if err := out.AddTrack(track.New(SmoothedYZTrackID, 0, smoothedHits(sy, hits.YZ))); err != nil {
		return Result{}, nil, err
	}

	monitoring.Diagf("[AlphaTrack] event %d: origin=%v end=%v length=%.3f angle=%.3f downwards=%t",
		ev.ID, res.Origin, res.End, res.Length, res.Angle, res.Downwards)
	return res, out, nil
}

// orient returns the transverse coordinate at the origin and end depths:
// the smoothed extremity closer to originZ is the origin.
func orient(s []Point, originZ float64) (origin, end float64) {
	first, last := s[0], s[len(s)-1]
	if math.Abs(first.Depth-originZ) >= math.Abs(last.Depth-originZ) {
		return last.Coord, first.Coord
	}
	return first.Coord, last.Coord
}

func smoothedHits(s []Point, t hits.HitType) *hits.HitSet {
	hs := hits.New()
	for _, p := range s {
		if t == hits.XZ {
			hs.Add(hits.NewHit(p.Coord, 0, p.Depth, p.Energy, t))
		} else {
			hs.Add(hits.NewHit(0, p.Coord, p.Depth, p.Energy, t))
		}
	}
	return hs
}
