package observer

import (
	"testing"

	"github.com/hanno-h/flockpred/agents"
	"github.com/hanno-h/flockpred/flight"
	"github.com/hanno-h/flockpred/flock"
	"github.com/hanno-h/flockpred/internal/torus"
	"github.com/hanno-h/flockpred/sim"
)

func preyAt(pos torus.Vec2) *agents.Prey {
	return &agents.Prey{Body: flight.Body{Pos: pos}, Alive: true}
}

// centrality is the mean toroidal offset magnitude from a prey to the
// other alive members of its flock; zero for a singleton flock.
func TestCentralityOfSingletonFlockIsZero(t *testing.T) {
	w := torus.World{W: 1000}
	k := &sim.Kernel{World: w, Prey: []*agents.Prey{preyAt(torus.Vec2{X: 500, Y: 500})}}

	tr := flock.NewTracker(1)
	tr.Cluster([]torus.Vec2{{X: 500, Y: 500}}, []torus.Vec2{{}}, []bool{true}, 5, w)
	descs := tr.Descriptors()

	got := centrality(k, descs, 0, tr.FlockOf(0))
	if got != 0 {
		t.Fatalf("singleton flock centrality = %v, want 0", got)
	}
}

func TestCentralityOfPairEqualsOffsetToOtherMember(t *testing.T) {
	w := torus.World{W: 1000}
	k := &sim.Kernel{World: w, Prey: []*agents.Prey{
		preyAt(torus.Vec2{X: 500, Y: 500}),
		preyAt(torus.Vec2{X: 506, Y: 500}),
	}}

	pos := []torus.Vec2{{X: 500, Y: 500}, {X: 506, Y: 500}}
	tr := flock.NewTracker(2)
	tr.Cluster(pos, []torus.Vec2{{}, {}}, []bool{true, true}, 10, w)
	descs := tr.Descriptors()

	got := centrality(k, descs, 0, tr.FlockOf(0))
	if got != 6 {
		t.Fatalf("centrality = %v, want 6 (the full offset to the only other member)", got)
	}
}

func TestCentralityOutOfRangeFlockIDReturnsZero(t *testing.T) {
	w := torus.World{W: 1000}
	k := &sim.Kernel{World: w, Prey: []*agents.Prey{preyAt(torus.Vec2{X: 0, Y: 0})}}
	if got := centrality(k, nil, 0, flock.NoFlock); got != 0 {
		t.Fatalf("centrality with NoFlock id = %v, want 0", got)
	}
}

// inConflictDirAlign reports 1 exactly when the turn-away-from-predator
// and turn-towards-flock directions disagree in sign.
func TestInConflictDirAlignAgreeingTurnsReportZero(t *testing.T) {
	predDir := torus.Vec2{X: 1, Y: 0}
	preyDir := torus.Vec2{X: 0, Y: 1}   // predator->prey: +90 deg (left)
	flockVel := torus.Vec2{X: -1, Y: 0} // prey->flockVel: +90 deg (left), same sign
	if got := inConflictDirAlign(predDir, preyDir, flockVel); got != 0 {
		t.Fatalf("inConflictDirAlign = %v, want 0 for agreeing turns", got)
	}
}

func TestInConflictDirAlignOpposingTurnsReportOne(t *testing.T) {
	predDir := torus.Vec2{X: 1, Y: 0}
	preyDir := torus.Vec2{X: 0, Y: 1}  // predator->prey: +90 deg (left)
	flockVel := torus.Vec2{X: 1, Y: 0} // prey->flockVel: -90 deg (right), opposite sign
	if got := inConflictDirAlign(predDir, preyDir, flockVel); got != 1 {
		t.Fatalf("inConflictDirAlign = %v, want 1 for opposing turns", got)
	}
}
