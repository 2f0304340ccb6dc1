// Package process wraps the reconstruction algorithms as event processes
// and runs them as a chain over many events.
//
// A process receives a track event and returns a new one; the input is
// never modified. Processes that transform tracks copy the input tracks and
// append one derived child per processed track, so the output hierarchy
// grows by one level. Analysis processes attach named observables, prefixed
// with the process name, to the returned event. A process returns a nil
// event to drop the event from the rest of the chain.
package process

import (
	"context"

	"github.com/rest-for-physics/tracklib/internal/track"
)

// Process is one stage of the event chain.
type Process interface {
	// Name identifies the process and prefixes its observables.
	Name() string
	// ProcessEvent returns the processed event, or nil to drop it.
	ProcessEvent(ctx context.Context, ev *track.Event) (*track.Event, error)
}

// derive returns a copy of ev sharing its tracks and carrying its validity
// flag and observables.
func derive(ev *track.Event) *track.Event {
	out := ev.CopyTracks()
	inherit(out, ev)
	return out
}

// inherit copies the validity flag and observables of src onto dst.
func inherit(dst, src *track.Event) {
	dst.OK = src.OK
	for k, v := range src.Observables {
		dst.SetObservable(k, v)
	}
}

func setObservables(ev *track.Event, name string, obs map[string]float64) {
	for k, v := range obs {
		ev.SetObservable(name+"."+k, v)
	}
}
