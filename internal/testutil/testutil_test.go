package testutil

import (
	"errors"
	"testing"

	"github.com/rest-for-physics/tracklib/internal/hits"
)

// TestAssertNoError_NilErr tests the nil error path.
func TestAssertNoError_NilErr(t *testing.T) {
	fakeT := &testing.T{}
	AssertNoError(fakeT, nil)
	if fakeT.Failed() {
		t.Error("expected no failure for nil error")
	}
}

// TestAssertError_WithErr tests the non-nil error path.
func TestAssertError_WithErr(t *testing.T) {
	fakeT := &testing.T{}
	AssertError(fakeT, errors.New("something wrong"))
	if fakeT.Failed() {
		t.Error("expected no failure for non-nil error")
	}
}

func TestLine(t *testing.T) {
	hs := Line(hits.XZ, 4, 2, 5)
	if hs.Len() != 4 {
		t.Fatalf("expected 4 hits, got %d", hs.Len())
	}
	if !hs.AreXZ() {
		t.Error("expected XZ hits")
	}
	if hs.TotalEnergy() != 20 {
		t.Errorf("expected total energy 20, got %f", hs.TotalEnergy())
	}
	if got := hs.Position(3).Z; got != 6 {
		t.Errorf("expected last Z 6, got %f", got)
	}
}

func TestShuffled_IsPermutation(t *testing.T) {
	for n := 0; n < 7; n++ {
		hs := Line(hits.XYZ, n, 1, 1)
		sh := Shuffled(hs)
		if sh.Len() != n {
			t.Fatalf("n=%d: expected %d hits, got %d", n, n, sh.Len())
		}
		seen := map[float64]bool{}
		for i := 0; i < n; i++ {
			seen[sh.Position(i).X] = true
		}
		if len(seen) != n {
			t.Errorf("n=%d: shuffle lost hits", n)
		}
	}
}

func TestProjectedEvent(t *testing.T) {
	ev := ProjectedEvent(t, 9, 5)
	if ev.NumberOfTracks() != 2 || ev.ID != 9 {
		t.Fatalf("unexpected event %d with %d tracks", ev.ID, ev.NumberOfTracks())
	}
	if !ev.TrackByID(1).IsXZ() || !ev.TrackByID(2).IsYZ() {
		t.Error("expected XZ track 1 and YZ track 2")
	}
}
