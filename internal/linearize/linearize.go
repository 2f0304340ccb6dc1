// Package linearize approximates a 2D track projection by a straight line
// sampled at equidistant nodes, then snaps the nodes onto the real hits.
package linearize

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/rest-for-physics/tracklib/internal/hits"
	"github.com/rest-for-physics/tracklib/internal/monitoring"
)

var (
	// ErrEmptyHitSet is returned for a track without hits.
	ErrEmptyHitSet = errors.New("linearize: empty hit set")
	// ErrUnsupportedProjection is returned for 3D tracks.
	ErrUnsupportedProjection = errors.New("linearize: only XY, XZ and YZ tracks can be linearized")
	// ErrZeroEnergy is returned when no hit carries energy to weight the fit.
	ErrZeroEnergy = errors.New("linearize: zero total energy")
	// ErrInvalidNodes is returned when fewer than two nodes are requested.
	ErrInvalidNodes = errors.New("linearize: at least two nodes are required")
)

// DefaultMaxNodes is the node count used by the linearization process.
const DefaultMaxNodes = 6

// fit is one orientation of the line fit: b = Intercept + Slope·a.
type fit struct {
	Intercept, Slope float64
	ChiSquare        float64
}

// Linearize returns at most maxNodes hits lying along the best straight
// line through hs, each snapped to the energy-weighted centroid of the hits
// nearest to it. Nodes that attract no hit are dropped. The result keeps
// the projection of the first hit and conserves the total energy.
func Linearize(hs *hits.HitSet, maxNodes int) (*hits.HitSet, error) {
	if maxNodes < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidNodes, maxNodes)
	}
	if hs.Len() == 0 {
		return nil, ErrEmptyHitSet
	}

	proj, err := hs.Projection()
	if err != nil {
		monitoring.Opsf("[TrackLinearizer] %v", err)
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedProjection, err)
	}
	var axisA, axisB hits.HitType
	switch proj {
	case hits.XZ:
		axisA, axisB = hits.X, hits.Z
	case hits.YZ:
		axisA, axisB = hits.Y, hits.Z
	case hits.XY:
		axisA, axisB = hits.X, hits.Y
	default:
		monitoring.Opsf("[TrackLinearizer] linearization not implemented for %s tracks", proj)
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProjection, proj)
	}

	a, b := hs.Coordinates(axisA), hs.Coordinates(axisB)
	weights, err := replicationWeights(hs.Energies())
	if err != nil {
		return nil, err
	}

	pairs := bestNodes(a, b, weights, maxNodes)
	first := hs.At(0)
	nodes := hits.New()
	for _, p := range pairs {
		pos := [3]float64{first.Pos.X, first.Pos.Y, first.Pos.Z}
		pos[axisIndex(axisA)] = p[0]
		pos[axisIndex(axisB)] = p[1]
		nodes.Add(hits.NewHit(pos[0], pos[1], pos[2], 0, proj))
	}

	out := hits.KMeans(hs, nodes, 1)
	monitoring.Diagf("[TrackLinearizer] %s track: %d hits to %d nodes", proj, hs.Len(), out.Len())
	return out, nil
}

// replicationWeights returns how many times each hit enters the fit sample:
// ceil(E/step) with step = round(mean energy / 10), never below 1.
func replicationWeights(energies []float64) ([]float64, error) {
	total := floats.Sum(energies)
	if !(total > 0) {
		return nil, ErrZeroEnergy
	}
	step := math.Round(total / float64(len(energies)) / 10)
	if step < 1 {
		step = 1
	}
	w := make([]float64, len(energies))
	for i, e := range energies {
		if e > 0 {
			w[i] = math.Ceil(e / step)
		}
	}
	return w, nil
}

// bestNodes fits the line in both orientations and places n equidistant
// points between the extrema of the winning abscissa. Points are returned
// as (a, b) pairs.
func bestNodes(a, b, w []float64, n int) [][2]float64 {
	fits := [2]*fit{lineFit(a, b, w), lineFit(b, a, w)}
	best := -1
	for i, f := range fits {
		if f == nil {
			continue
		}
		if best < 0 || f.ChiSquare < fits[best].ChiSquare {
			best = i
		}
	}
	monitoring.Tracef("[TrackLinearizer] fits=%v best=%d", fits, best)

	out := make([][2]float64, 0, n)
	if best < 0 {
		// All weighted hits share one point.
		return append(out, [2]float64{stat.Mean(a, w), stat.Mean(b, w)})
	}

	abscissa := a
	if best == 1 {
		abscissa = b
	}
	lo, hi := floats.Min(abscissa), floats.Max(abscissa)
	f := fits[best]
	for i := 0; i < n; i++ {
		u := lo + float64(i)*(hi-lo)/float64(n-1)
		v := f.Intercept + f.Slope*u
		if best == 0 {
			out = append(out, [2]float64{u, v})
		} else {
			out = append(out, [2]float64{v, u})
		}
	}
	return out
}

// lineFit regresses y on x with weights w. It returns nil when the weighted
// abscissa has no spread.
func lineFit(x, y, w []float64) *fit {
	var sx, sw float64
	for i := range x {
		sx += w[i] * x[i]
		sw += w[i]
	}
	mean := sx / sw
	spread := 0.0
	for i := range x {
		spread += w[i] * (x[i] - mean) * (x[i] - mean)
	}
	if !(spread > 0) {
		return nil
	}

	alpha, beta := stat.LinearRegression(x, y, w, false)
	chi2 := 0.0
	for i := range x {
		r := y[i] - alpha - beta*x[i]
		chi2 += w[i] * r * r
	}
	return &fit{Intercept: alpha, Slope: beta, ChiSquare: chi2}
}

func axisIndex(axis hits.HitType) int {
	switch axis {
	case hits.X:
		return 0
	case hits.Y:
		return 1
	}
	return 2
}
