package track

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rest-for-physics/tracklib/internal/hits"
)

var (
	// ErrDuplicateTrackID is returned when a track ID is already in use.
	ErrDuplicateTrackID = errors.New("track: duplicate track ID")
	// ErrUnknownParent is returned when a parent ID names no track.
	ErrUnknownParent = errors.New("track: unknown parent track")
	// ErrParentCycle is returned when a parent chain does not reach a root.
	ErrParentCycle = errors.New("track: parent chain does not terminate")
	// ErrInvalidTrackID is returned for non-positive track IDs.
	ErrInvalidTrackID = errors.New("track: track IDs must be positive")
)

// Event is the ordered collection of tracks for one trigger.
//
// OK is cleared when a process hits a recoverable failure (for example the
// exact path solver rejecting a track); consumers must check it before
// trusting derived orderings. Observables carries the named scalar outputs
// of analysis processes.
type Event struct {
	ID          int
	OK          bool
	Observables map[string]float64

	tracks []*Track
	byID   map[int]int
	levels int
}

// NewEvent returns an empty, valid event.
func NewEvent(id int) *Event {
	return &Event{
		ID:          id,
		OK:          true,
		Observables: make(map[string]float64),
		byID:        make(map[int]int),
	}
}

// NewEventFromTracks builds an event from tracks given in any order. It
// rejects duplicate IDs, unknown parents and parent cycles.
func NewEventFromTracks(id int, tracks []*Track) (*Event, error) {
	ev := NewEvent(id)
	for _, t := range tracks {
		if t.ID() <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidTrackID, t.ID())
		}
		if _, dup := ev.byID[t.ID()]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateTrackID, t.ID())
		}
		ev.byID[t.ID()] = len(ev.tracks)
		ev.tracks = append(ev.tracks, t)
	}
	for _, t := range ev.tracks {
		if t.ParentID() != 0 {
			if _, ok := ev.byID[t.ParentID()]; !ok {
				return nil, fmt.Errorf("%w: track %d names parent %d", ErrUnknownParent, t.ID(), t.ParentID())
			}
		}
	}
	for i := range ev.tracks {
		if _, err := ev.level(i); err != nil {
			return nil, err
		}
	}
	ev.setLevels()
	return ev, nil
}

// AddTrack appends t. The parent must already be part of the event, which
// keeps every parent chain acyclic.
func (e *Event) AddTrack(t *Track) error {
	if t.ID() <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTrackID, t.ID())
	}
	if _, dup := e.byID[t.ID()]; dup {
		return fmt.Errorf("%w: %d", ErrDuplicateTrackID, t.ID())
	}
	if t.ParentID() != 0 {
		if _, ok := e.byID[t.ParentID()]; !ok {
			return fmt.Errorf("%w: track %d names parent %d", ErrUnknownParent, t.ID(), t.ParentID())
		}
	}
	e.byID[t.ID()] = len(e.tracks)
	e.tracks = append(e.tracks, t)
	e.setLevels()
	return nil
}

// CopyTracks returns a new valid event with the same ID and tracks. Tracks
// are immutable so they are shared, not cloned.
func (e *Event) CopyTracks() *Event {
	out := NewEvent(e.ID)
	out.tracks = append(out.tracks, e.tracks...)
	for id, idx := range e.byID {
		out.byID[id] = idx
	}
	out.levels = e.levels
	return out
}

// NextTrackID returns an ID not used by any track in the event.
func (e *Event) NextTrackID() int {
	next := len(e.tracks) + 1
	for id := range e.byID {
		if id >= next {
			next = id + 1
		}
	}
	return next
}

// NumberOfTracks returns the number of tracks in the event.
func (e *Event) NumberOfTracks() int { return len(e.tracks) }

// Track returns track i in insertion order.
func (e *Event) Track(i int) *Track { return e.tracks[i] }

// Tracks returns the tracks in insertion order.
func (e *Event) Tracks() []*Track {
	out := make([]*Track, len(e.tracks))
	copy(out, e.tracks)
	return out
}

// TrackByID returns the track with the given ID or nil.
func (e *Event) TrackByID(id int) *Track {
	if idx, ok := e.byID[id]; ok {
		return e.tracks[idx]
	}
	return nil
}

// level walks the parent chain of track i. Root tracks are level 1.
func (e *Event) level(i int) (int, error) {
	lvl := 1
	parent := e.tracks[i].ParentID()
	for parent > 0 {
		lvl++
		if lvl > len(e.tracks)+1 {
			return 0, fmt.Errorf("%w: track %d", ErrParentCycle, e.tracks[i].ID())
		}
		idx, ok := e.byID[parent]
		if !ok {
			return 0, fmt.Errorf("%w: %d", ErrUnknownParent, parent)
		}
		parent = e.tracks[idx].ParentID()
	}
	return lvl, nil
}

// Level returns the hierarchy depth of track i (1 for a root).
func (e *Event) Level(i int) int {
	lvl, err := e.level(i)
	if err != nil {
		return 0
	}
	return lvl
}

func (e *Event) setLevels() {
	maxLevel := 0
	for i := range e.tracks {
		if lvl := e.Level(i); lvl > maxLevel {
			maxLevel = lvl
		}
	}
	e.levels = maxLevel
}

// Levels returns the maximum hierarchy depth in the event.
func (e *Event) Levels() int { return e.levels }

// IsTopLevel reports whether track i sits at the deepest level.
func (e *Event) IsTopLevel(i int) bool {
	return e.levels > 0 && e.Level(i) == e.levels
}

// TopLevelTracks returns the tracks at the deepest level.
func (e *Event) TopLevelTracks() []*Track {
	var out []*Track
	for i, t := range e.tracks {
		if e.IsTopLevel(i) {
			out = append(out, t)
		}
	}
	return out
}

// OriginTrack returns the root ancestor of track i.
func (e *Event) OriginTrack(i int) *Track {
	t := e.tracks[i]
	for steps := 0; t.ParentID() != 0 && steps <= len(e.tracks); steps++ {
		p := e.TrackByID(t.ParentID())
		if p == nil {
			break
		}
		t = p
	}
	return t
}

// matches reports whether t belongs to the projection selector p. A zero
// selector matches every track; XZ and YZ selectors also accept 3D tracks
// when loose is set.
func matches(t *Track, p hits.HitType, loose bool) bool {
	switch p {
	case 0:
		return true
	case hits.XZ:
		return t.IsXZ() || (loose && t.IsXYZ())
	case hits.YZ:
		return t.IsYZ() || (loose && t.IsXYZ())
	case hits.XY:
		return t.IsXY()
	}
	return t.IsXYZ()
}

// NumberOfTracksIn counts top-level tracks of the given projection.
func (e *Event) NumberOfTracksIn(p hits.HitType) int {
	n := 0
	for i, t := range e.tracks {
		if e.IsTopLevel(i) && matches(t, p, false) {
			n++
		}
	}
	return n
}

// MaxEnergyTrack returns the most energetic top-level track of projection p,
// or nil if there is none.
func (e *Event) MaxEnergyTrack(p hits.HitType) *Track {
	var best *Track
	maxEnergy := 0.0
	for i, t := range e.tracks {
		if !e.IsTopLevel(i) || !matches(t, p, false) {
			continue
		}
		if t.Energy() > maxEnergy {
			maxEnergy = t.Energy()
			best = t
		}
	}
	return best
}

// SecondMaxEnergyTrack returns the most energetic top-level track of
// projection p other than MaxEnergyTrack(p).
func (e *Event) SecondMaxEnergyTrack(p hits.HitType) *Track {
	first := e.MaxEnergyTrack(p)
	if first == nil {
		return nil
	}
	var best *Track
	maxEnergy := 0.0
	for i, t := range e.tracks {
		if !e.IsTopLevel(i) || t.ID() == first.ID() || !matches(t, p, true) {
			continue
		}
		if t.Energy() > maxEnergy {
			maxEnergy = t.Energy()
			best = t
		}
	}
	return best
}

// Energy sums the energy of top-level tracks of projection p.
func (e *Event) Energy(p hits.HitType) float64 {
	var en float64
	for i, t := range e.tracks {
		if e.IsTopLevel(i) && matches(t, p, true) {
			en += t.Energy()
		}
	}
	return en
}

// TotalHits counts hits over every track.
func (e *Event) TotalHits() int {
	n := 0
	for _, t := range e.tracks {
		n += t.NumberOfHits()
	}
	return n
}

// IsXYZ reports whether every track is three dimensional.
func (e *Event) IsXYZ() bool {
	for _, t := range e.tracks {
		if !t.IsXYZ() {
			return false
		}
	}
	return true
}

// SetObservable records a named analysis output.
func (e *Event) SetObservable(name string, v float64) {
	if e.Observables == nil {
		e.Observables = make(map[string]float64)
	}
	e.Observables[name] = v
}

// ObservableNames returns the recorded observable names, sorted.
func (e *Event) ObservableNames() []string {
	names := make([]string, 0, len(e.Observables))
	for k := range e.Observables {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
