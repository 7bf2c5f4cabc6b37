package flock

import (
	"sort"
	"testing"

	"github.com/hanno-h/flockpred/internal/torus"
)

func TestClusterSizes(t *testing.T) {
	w := torus.World{W: 1000}
	pos := []torus.Vec2{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 100, Y: 100}}
	vel := []torus.Vec2{{}, {}, {}}
	alive := []bool{true, true, true}

	tr := NewTracker(len(pos))
	tr.Cluster(pos, vel, alive, 5, w)

	if len(tr.Descriptors()) != 2 {
		t.Fatalf("expected 2 flocks, got %d", len(tr.Descriptors()))
	}
	sizes := []int{}
	for _, d := range tr.Descriptors() {
		sizes = append(sizes, d.Size)
	}
	sort.Ints(sizes)
	if sizes[0] != 1 || sizes[1] != 2 {
		t.Fatalf("expected sizes {1,2}, got %v", sizes)
	}
}

func TestClusterMembersShareFlock(t *testing.T) {
	w := torus.World{W: 1000}
	pos := []torus.Vec2{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 100, Y: 100}}
	vel := []torus.Vec2{{}, {}, {}}
	alive := []bool{true, true, true}

	tr := NewTracker(len(pos))
	tr.Cluster(pos, vel, alive, 5, w)

	if tr.FlockOf(0) != tr.FlockOf(1) {
		t.Fatal("agents 0 and 1 should share a flock")
	}
	if tr.FlockOf(2) == tr.FlockOf(0) {
		t.Fatal("agent 2 should be in a different flock")
	}
}

func TestTrackAdvancesOrigin(t *testing.T) {
	w := torus.World{W: 1000}
	pos := []torus.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}}
	vel := []torus.Vec2{{X: 10, Y: 0}, {X: 10, Y: 0}}
	alive := []bool{true, true}

	tr := NewTracker(len(pos))
	tr.Cluster(pos, vel, alive, 5, w)
	before := tr.Descriptors()[0].Origin
	tr.Track(1, w)
	after := tr.Descriptors()[0].Origin
	if after.X == before.X {
		t.Fatal("expected origin to advance with nonzero mean velocity")
	}
}
