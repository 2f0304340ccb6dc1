package process

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/rest-for-physics/tracklib/internal/monitoring"
	"github.com/rest-for-physics/tracklib/internal/track"
)

// Chain runs processes in order over one event at a time.
type Chain struct {
	processes []Process

	processed atomic.Int64
	dropped   atomic.Int64
	invalid   atomic.Int64
}

// Stats counts chain outcomes since the chain was built.
type Stats struct {
	Processed int64
	// Dropped counts events a process returned as nil.
	Dropped int64
	// Invalid counts surviving events whose OK flag was cleared.
	Invalid int64
}

// NewChain returns a chain of ps.
func NewChain(ps ...Process) *Chain {
	return &Chain{processes: append([]Process(nil), ps...)}
}

// Names lists the process names in order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.processes))
	for i, p := range c.processes {
		names[i] = p.Name()
	}
	return names
}

// Stats returns a snapshot of the outcome counters.
func (c *Chain) Stats() Stats {
	return Stats{
		Processed: c.processed.Load(),
		Dropped:   c.dropped.Load(),
		Invalid:   c.invalid.Load(),
	}
}

// Run passes ev through every process. It returns nil, without error, when
// a process drops the event.
func (c *Chain) Run(ctx context.Context, ev *track.Event) (*track.Event, error) {
	c.processed.Add(1)
	cur := ev
	for _, p := range c.processes {
		next, err := p.ProcessEvent(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("event %d: %s: %w", ev.ID, p.Name(), err)
		}
		if next == nil {
			c.dropped.Add(1)
			monitoring.Diagf("[Chain] event %d dropped by %s", ev.ID, p.Name())
			return nil, nil
		}
		cur = next
	}
	if !cur.OK {
		c.invalid.Add(1)
	}
	return cur, nil
}

// RunEvents runs the chain over independent events with at most workers
// goroutines. Results are in input order; a dropped event leaves a nil
// entry. The first error cancels the remaining work and is returned.
func RunEvents(ctx context.Context, c *Chain, events []*track.Event, workers int) ([]*track.Event, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]*track.Event, len(events))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, ev := range events {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := c.Run(gctx, ev)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	st := c.Stats()
	monitoring.Opsf("[Chain] %d events through %v: dropped=%d invalid=%d",
		len(events), c.Names(), st.Dropped, st.Invalid)
	return out, nil
}
