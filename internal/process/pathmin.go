package process

import (
	"context"
	"fmt"

	"github.com/rest-for-physics/tracklib/internal/monitoring"
	"github.com/rest-for-physics/tracklib/internal/pathorder"
	"github.com/rest-for-physics/tracklib/internal/track"
)

// PathMinimizationProcess orders the hits of every top-level track along
// the shortest path.
//
// An ordering failure, such as a solver error or a brute-force request on
// too many hits, keeps the track's input order and clears the event's OK
// flag.
type PathMinimizationProcess struct {
	orderer pathorder.Orderer
}

var _ Process = (*PathMinimizationProcess)(nil)

// NewPathMinimizationProcess returns the process for o.
func NewPathMinimizationProcess(o pathorder.Orderer) (*PathMinimizationProcess, error) {
	switch o.Method {
	case pathorder.Exact, pathorder.BruteForce, pathorder.NearestNeighbour:
	default:
		return nil, fmt.Errorf("path minimization: unknown method %v", o.Method)
	}
	return &PathMinimizationProcess{orderer: o}, nil
}

func (*PathMinimizationProcess) Name() string { return "pathMinimization" }

func (p *PathMinimizationProcess) ProcessEvent(ctx context.Context, ev *track.Event) (*track.Event, error) {
	out := derive(ev)
	for i, t := range ev.Tracks() {
		if !ev.IsTopLevel(i) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hs := t.Hits()
		ordered := hs
		tour, err := p.orderer.Order(hs)
		if err != nil {
			monitoring.Opsf("[PathMinimization] event %d track %d: %v; keeping input order", ev.ID, t.ID(), err)
			out.OK = false
		} else if ordered, err = pathorder.Apply(hs, tour); err != nil {
			return nil, err
		}
		if err := out.AddTrack(track.New(out.NextTrackID(), t.ID(), ordered)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
