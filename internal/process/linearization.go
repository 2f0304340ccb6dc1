package process

import (
	"context"
	"fmt"

	"github.com/rest-for-physics/tracklib/internal/linearize"
	"github.com/rest-for-physics/tracklib/internal/monitoring"
	"github.com/rest-for-physics/tracklib/internal/track"
)

// LinearizationProcess replaces each root track by a straight-line node
// track. Tracks that cannot be linearized are skipped.
type LinearizationProcess struct {
	maxNodes int
}

var _ Process = (*LinearizationProcess)(nil)

// NewLinearizationProcess returns the process placing at most maxNodes
// nodes per track.
func NewLinearizationProcess(maxNodes int) (*LinearizationProcess, error) {
	if maxNodes < 2 {
		return nil, fmt.Errorf("%w: got %d", linearize.ErrInvalidNodes, maxNodes)
	}
	return &LinearizationProcess{maxNodes: maxNodes}, nil
}

func (*LinearizationProcess) Name() string { return "linearization" }

func (p *LinearizationProcess) ProcessEvent(ctx context.Context, ev *track.Event) (*track.Event, error) {
	out := derive(ev)
	for i, t := range ev.Tracks() {
		if ev.Level(i) > 1 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		nodes, err := linearize.Linearize(t.Hits(), p.maxNodes)
		if err != nil {
			monitoring.Diagf("[Linearization] event %d track %d skipped: %v", ev.ID, t.ID(), err)
			continue
		}
		if nodes.Len() == 0 {
			continue
		}
		if err := out.AddTrack(track.New(out.NextTrackID(), t.ID(), nodes)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
