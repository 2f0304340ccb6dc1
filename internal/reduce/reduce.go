// Package reduce shrinks a dense hit cloud into a smaller set of nodes that
// keeps the track shape.
//
// Merge grows a distance threshold geometrically, merging every hit pair
// closer than the threshold until the threshold has passed the minimum
// distance and at most MaxNodes hits remain. Reduce optionally follows each
// merge with a k-means refinement against the original hits.
package reduce

import (
	"errors"
	"fmt"

	"github.com/rest-for-physics/tracklib/internal/hits"
	"github.com/rest-for-physics/tracklib/internal/monitoring"
)

// maxRefineCycles bounds the merge+refine loop in Reduce.
const maxRefineCycles = 64

// ErrInvalidParams is returned by Validate.
var ErrInvalidParams = errors.New("reduce: invalid parameters")

// Params controls the reduction.
type Params struct {
	// StartingDistance is the first merge threshold.
	StartingDistance float64
	// MinimumDistance is the threshold that must be reached before merging
	// may stop.
	MinimumDistance float64
	// DistanceStepFactor multiplies the threshold after each pass.
	DistanceStepFactor float64
	// MaxNodes is the largest node count the merge may leave.
	MaxNodes int
	// MaxIterations bounds each k-means refinement.
	MaxIterations int
	// KMeans enables the refinement step.
	KMeans bool
}

// DefaultParams returns the standard reduction settings.
func DefaultParams() Params {
	return Params{
		StartingDistance:   0.5,
		MinimumDistance:    3,
		DistanceStepFactor: 1.5,
		MaxNodes:           30,
		MaxIterations:      100,
		KMeans:             false,
	}
}

// Validate rejects parameters under which Merge would not terminate.
func (p Params) Validate() error {
	if !(p.StartingDistance > 0) {
		return fmt.Errorf("%w: starting distance must be positive, got %g", ErrInvalidParams, p.StartingDistance)
	}
	if !(p.MinimumDistance >= 0) {
		return fmt.Errorf("%w: minimum distance must be non-negative, got %g", ErrInvalidParams, p.MinimumDistance)
	}
	if !(p.DistanceStepFactor > 1) {
		return fmt.Errorf("%w: distance step factor must exceed 1, got %g", ErrInvalidParams, p.DistanceStepFactor)
	}
	if p.MaxNodes < 1 {
		return fmt.Errorf("%w: max nodes must be at least 1, got %d", ErrInvalidParams, p.MaxNodes)
	}
	if p.KMeans && p.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be at least 1, got %d", ErrInvalidParams, p.MaxIterations)
	}
	return nil
}

// Merge returns a merged copy of hs. Total energy is conserved exactly.
func (p Params) Merge(hs *hits.HitSet) (*hits.HitSet, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := hs.Clone()
	p.merge(out)
	return out, nil
}

func (p Params) merge(hs *hits.HitSet) {
	distance := p.StartingDistance
	for (distance < p.MinimumDistance || hs.Len() > p.MaxNodes) && hs.Len() > 1 {
		limit := distance * distance
		merged := 0
		for changed := true; changed; {
			changed = false
			for i := 0; i < hs.Len(); i++ {
				for j := i + 1; j < hs.Len(); j++ {
					if hs.Distance2(i, j) < limit {
						hs.MergeHits(i, j)
						merged++
						changed = true
					}
				}
			}
		}
		monitoring.Tracef("[HitClusterReducer] threshold=%.3f merged=%d nodes=%d", distance, merged, hs.Len())
		distance *= p.DistanceStepFactor
	}
}

// Reduce merges hs and, when KMeans is set, alternates merge and k-means
// refinement until the node count stops changing. The input is not
// modified.
func (p Params) Reduce(hs *hits.HitSet) (*hits.HitSet, error) {
	nodes, err := p.Merge(hs)
	if err != nil {
		return nil, err
	}
	if !p.KMeans || nodes.Len() == 0 {
		return nodes, nil
	}

	nodes = hits.KMeans(hs, nodes, p.MaxIterations)
	for cycle := 0; ; cycle++ {
		before := nodes.Len()
		p.merge(nodes)
		nodes = hits.KMeans(hs, nodes, p.MaxIterations)
		if nodes.Len() == before {
			break
		}
		if cycle == maxRefineCycles {
			monitoring.Opsf("[HitClusterReducer] refinement did not settle after %d cycles (nodes=%d)", maxRefineCycles, nodes.Len())
			break
		}
	}
	monitoring.Diagf("[HitClusterReducer] %d hits reduced to %d nodes", hs.Len(), nodes.Len())
	return nodes, nil
}
