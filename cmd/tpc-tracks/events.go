package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/rest-for-physics/tracklib/internal/fsutil"
	"github.com/rest-for-physics/tracklib/internal/hits"
	"github.com/rest-for-physics/tracklib/internal/track"
)

type hitRecord struct {
	X    float64      `json:"x"`
	Y    float64      `json:"y"`
	Z    float64      `json:"z"`
	E    float64      `json:"e"`
	Type hits.HitType `json:"type"`
}

type trackRecord struct {
	ID     int         `json:"id"`
	Parent int         `json:"parent"`
	Hits   []hitRecord `json:"hits"`
}

type eventRecord struct {
	ID     int           `json:"id"`
	Tracks []trackRecord `json:"tracks"`
}

// loadEvents reads a JSON array of events from path.
func loadEvents(fsys fsutil.FileSystem, path string) ([]*track.Event, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	var records []eventRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse events JSON: %w", err)
	}

	events := make([]*track.Event, 0, len(records))
	for _, r := range records {
		tracks := make([]*track.Track, 0, len(r.Tracks))
		for _, tr := range r.Tracks {
			hs := hits.New()
			for _, h := range tr.Hits {
				if h.Type == 0 {
					return nil, fmt.Errorf("event %d track %d: hit without type", r.ID, tr.ID)
				}
				hs.Add(hits.NewHit(h.X, h.Y, h.Z, h.E, h.Type))
			}
			tracks = append(tracks, track.New(tr.ID, tr.Parent, hs))
		}
		ev, err := track.NewEventFromTracks(r.ID, tracks)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", r.ID, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

type resultRecord struct {
	Run         string             `json:"run"`
	Event       int                `json:"event"`
	Dropped     bool               `json:"dropped"`
	OK          bool               `json:"ok"`
	Tracks      int                `json:"tracks"`
	Observables map[string]float64 `json:"observables,omitempty"`
}

// writeResults prints one JSON line per input event. Non-finite observables
// are left out since JSON cannot carry them.
func writeResults(w io.Writer, runID string, in, out []*track.Event) error {
	enc := json.NewEncoder(w)
	for i, src := range in {
		rec := resultRecord{Run: runID, Event: src.ID, Dropped: out[i] == nil}
		if ev := out[i]; ev != nil {
			rec.OK = ev.OK
			rec.Tracks = ev.NumberOfTracks()
			rec.Observables = make(map[string]float64, len(ev.Observables))
			for _, k := range ev.ObservableNames() {
				if v := ev.Observables[k]; !math.IsNaN(v) && !math.IsInf(v, 0) {
					rec.Observables[k] = v
				}
			}
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}
