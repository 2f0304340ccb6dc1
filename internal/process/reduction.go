package process

import (
	"context"
	"fmt"

	"github.com/rest-for-physics/tracklib/internal/monitoring"
	"github.com/rest-for-physics/tracklib/internal/reduce"
	"github.com/rest-for-physics/tracklib/internal/track"
)

// ReductionProcess reduces every top-level track to a smaller node set.
type ReductionProcess struct {
	params reduce.Params
}

var _ Process = (*ReductionProcess)(nil)

// NewReductionProcess validates p and returns the process.
func NewReductionProcess(p reduce.Params) (*ReductionProcess, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &ReductionProcess{params: p}, nil
}

func (*ReductionProcess) Name() string { return "reduction" }

func (p *ReductionProcess) ProcessEvent(ctx context.Context, ev *track.Event) (*track.Event, error) {
	out := derive(ev)
	for i, t := range ev.Tracks() {
		if !ev.IsTopLevel(i) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		nodes, err := p.params.Reduce(t.Hits())
		if err != nil {
			return nil, fmt.Errorf("reduce track %d: %w", t.ID(), err)
		}
		monitoring.Tracef("[Reduction] event %d track %d: %d -> %d hits", ev.ID, t.ID(), t.NumberOfHits(), nodes.Len())
		if err := out.AddTrack(track.New(out.NextTrackID(), t.ID(), nodes)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
