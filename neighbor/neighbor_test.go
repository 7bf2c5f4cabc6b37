package neighbor

import (
	"math"
	"testing"

	"github.com/hanno-h/flockpred/internal/torus"
)

func TestViewSortedAndExcludesDeadAndSelf(t *testing.T) {
	w := torus.World{W: 1000}
	pos := []torus.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 0}, {X: 2, Y: 0}}
	alive := []bool{true, true, false, true}
	m := NewMatrix(len(pos), len(pos))
	m.Fill(0, pos[0], torus.Vec2{X: 1, Y: 0}, pos, alive, true, w)

	view := m.View(0)
	// agent 2 is dead and excluded; agent 0 is self and excluded.
	if len(view) != 2 {
		t.Fatalf("expected 2 alive neighbors, got %d", len(view))
	}
	if view[0].Idx != 3 || view[1].Idx != 1 {
		t.Fatalf("expected ascending order [3,1], got [%d,%d]", view[0].Idx, view[1].Idx)
	}
	for i := 1; i < len(view); i++ {
		if view[i].Dist2 < view[i-1].Dist2 {
			t.Fatal("view is not sorted ascending by squared distance")
		}
	}
}

func TestAliveCountExcludesDead(t *testing.T) {
	w := torus.World{W: 1000}
	pos := []torus.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	alive := []bool{true, false, true}
	m := NewMatrix(1, len(pos))
	m.Fill(0, pos[0], torus.Vec2{X: 1, Y: 0}, pos, alive, false, w)
	if m.AliveCount(0) != 2 {
		t.Fatalf("expected alive count 2, got %d", m.AliveCount(0))
	}
	if math.IsInf(m.rows[0][0].Dist2, 1) {
		t.Fatal("dead (+Inf) entry should sort after the alive entries, not first")
	}
}
