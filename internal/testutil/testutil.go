// Package testutil provides shared fixtures for tests of the track
// processing packages.
package testutil

import (
	"testing"

	"github.com/rest-for-physics/tracklib/internal/hits"
	"github.com/rest-for-physics/tracklib/internal/track"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// Line returns n hits of projection p spaced by step along the diagonal of
// the axes p defines, each with the given energy.
func Line(p hits.HitType, n int, step, energy float64) *hits.HitSet {
	hs := hits.New()
	for i := 0; i < n; i++ {
		v := step * float64(i)
		hs.Add(hits.NewHit(v, v, v, energy, p))
	}
	return hs
}

// Shuffled returns hs permuted by a fixed interleaving: even indices first,
// then odd indices in reverse.
func Shuffled(hs *hits.HitSet) *hits.HitSet {
	n := hs.Len()
	order := make([]int, 0, n)
	for i := 0; i < n; i += 2 {
		order = append(order, i)
	}
	for i := n - 1 - n%2; i >= 1; i -= 2 {
		order = append(order, i)
	}
	out, err := hs.Permute(order)
	if err != nil {
		panic(err)
	}
	return out
}

// ProjectedEvent returns an event with one root XZ track (ID 1) and one
// root YZ track (ID 2), each made of n shuffled hits with unit spacing.
func ProjectedEvent(t *testing.T, id, n int) *track.Event {
	t.Helper()
	ev := track.NewEvent(id)
	AssertNoError(t, ev.AddTrack(track.New(1, 0, Shuffled(Line(hits.XZ, n, 1, 10)))))
	AssertNoError(t, ev.AddTrack(track.New(2, 0, Shuffled(Line(hits.YZ, n, 1, 10)))))
	return ev
}
