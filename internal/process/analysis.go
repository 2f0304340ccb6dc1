package process

import (
	"context"
	"errors"
	"fmt"

	"github.com/rest-for-physics/tracklib/internal/alpha"
	"github.com/rest-for-physics/tracklib/internal/monitoring"
	"github.com/rest-for-physics/tracklib/internal/track"
)

// AlphaAnalysisProcess reconstructs the dominant alpha track. Its output
// event holds only the smoothed XZ and YZ tracks. Events without a usable
// track are dropped.
type AlphaAnalysisProcess struct {
	trackBalance float64
}

var _ Process = (*AlphaAnalysisProcess)(nil)

// NewAlphaAnalysisProcess returns the process for the given balance in
// [0, 1].
func NewAlphaAnalysisProcess(trackBalance float64) (*AlphaAnalysisProcess, error) {
	if trackBalance < 0 || trackBalance > 1 {
		return nil, fmt.Errorf("alpha analysis: track balance must be in [0, 1], got %g", trackBalance)
	}
	return &AlphaAnalysisProcess{trackBalance: trackBalance}, nil
}

func (*AlphaAnalysisProcess) Name() string { return "alphaAnalysis" }

func (p *AlphaAnalysisProcess) ProcessEvent(ctx context.Context, ev *track.Event) (*track.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, out, err := alpha.Analyze(ev, p.trackBalance)
	switch {
	case errors.Is(err, alpha.ErrMissingProjection),
		errors.Is(err, alpha.ErrUnbalanced),
		errors.Is(err, alpha.ErrNoSmoothedHits):
		monitoring.Diagf("[AlphaAnalysis] event %d dropped: %v", ev.ID, err)
		return nil, nil
	case err != nil:
		return nil, err
	}
	inherit(out, ev)
	setObservables(out, p.Name(), res.Observables())
	return out, nil
}

// PointLikeAnalysisProcess records how dominant the most energetic track
// is. It does not change the tracks.
type PointLikeAnalysisProcess struct{}

var _ Process = PointLikeAnalysisProcess{}

func (PointLikeAnalysisProcess) Name() string { return "pointLikeAnalysis" }

func (p PointLikeAnalysisProcess) ProcessEvent(ctx context.Context, ev *track.Event) (*track.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := derive(ev)
	setObservables(out, p.Name(), PointLikeObservables(ev))
	return out, nil
}

// PointLikeObservables computes track multiplicity and the energy, length,
// hit-count and cluster-size balances of the most energetic track. Balances
// with a zero denominator are reported as 0.
func PointLikeObservables(ev *track.Event) map[string]float64 {
	var totEnergy, maxEnergy, totLength, maxLength float64
	maxHits := 0
	var dominant *track.Track
	for _, t := range ev.Tracks() {
		if dominant == nil || t.Energy() > maxEnergy {
			dominant, maxEnergy = t, t.Energy()
		}
		totEnergy += t.Energy()
		if t.Length() > maxLength {
			maxLength = t.Length()
		}
		totLength += t.Length()
		if t.NumberOfHits() > maxHits {
			maxHits = t.NumberOfHits()
		}
	}

	var totSize, maxSize float64
	if dominant != nil {
		hs := dominant.Hits()
		for i := 0; i < hs.Len(); i++ {
			s := hs.ClusterSize(i)
			if s > maxSize {
				maxSize = s
			}
			totSize += s
		}
	}

	totalHits := ev.TotalHits()
	return map[string]float64{
		"nTracks":              float64(ev.NumberOfTracks()),
		"nTotalHits":           float64(totalHits),
		"totalEnergy":          totEnergy,
		"clusterEnergyBalance": ratio(maxEnergy, totEnergy),
		"clusterLengthBalance": ratio(maxLength, totLength),
		"hitsBalance":          ratio(float64(maxHits), float64(totalHits)),
		"size":                 totSize,
		"sizeBalance":          ratio(maxSize, totSize),
	}
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
