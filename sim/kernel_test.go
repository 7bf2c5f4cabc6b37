package sim

import (
	"math"
	"testing"

	"github.com/hanno-h/flockpred/actions"
	"github.com/hanno-h/flockpred/agents"
	"github.com/hanno-h/flockpred/flight"
	"github.com/hanno-h/flockpred/internal/torus"
	"github.com/hanno-h/flockpred/states"
)

func newPrey(pos, dir torus.Vec2, speed float64, st states.State) *agents.Prey {
	return &agents.Prey{
		Body: flight.Body{
			Pos: pos, Dir: dir, Speed: speed,
			Aero: flight.AeroInfo{BodyMass: 1, MinSpeed: 0, MaxSpeed: 1000},
		},
		Alive: true,
		Pkg:   &states.Package{States: []states.State{st}},
	}
}

func newPredator(pos, dir torus.Vec2, speed float64, st states.State) *agents.Predator {
	return &agents.Predator{
		Body: flight.Body{
			Pos: pos, Dir: dir, Speed: speed,
			Aero: flight.AeroInfo{BodyMass: 1, MinSpeed: 0, MaxSpeed: 1000},
		},
		Alive:            true,
		TargetIndividual: -1,
		TargetFlock:      -1,
		Pkg:              &states.Package{States: []states.State{st}},
	}
}

// Scenario 1 (spec §8): a single prey in a one-state package running
// only wiggle(w=0), no predator, moves by exactly speed*dt*ticks along
// its initial direction over 100 ticks, with speed unchanged.
func TestSingleStateWiggleZeroMovesInStraightLine(t *testing.T) {
	dt := 0.1
	speed := 10.0
	st := &states.Transient{
		ActionList: []actions.Action{&actions.Wiggle{W: 0}},
		AeroState:  flight.StateAero{CruiseSpeed: speed, W: 0},
	}
	prey := newPrey(torus.Vec2{X: 500, Y: 500}, torus.Vec2{X: 1, Y: 0}, speed, st)

	k := New(Config{
		World: torus.World{W: 1000}, Dt: dt,
		FlockInterval: 1000000, NumWorkers: 1, Seed: 1,
	}, []*agents.Prey{prey}, nil)

	const ticks = 100
	for i := 0; i < ticks; i++ {
		k.Update(nil)
	}

	wantX := 500 + speed*dt*ticks
	got := prey.Body.Pos
	if math.Abs(got.X-wantX) > 1e-6 || math.Abs(got.Y-500) > 1e-6 {
		t.Fatalf("position = %v, want (%v, 500)", got, wantX)
	}
	if math.Abs(prey.Body.Speed-speed) > 1e-9 {
		t.Fatalf("speed changed: got %v, want %v", prey.Body.Speed, speed)
	}
}

// Scenario 3 (spec §8): a prey fleeing via t_turn_pred(turn=180,
// time=2s) with one predator exactly behind reverses heading within 2
// degrees after 2 simulated seconds.
func TestTTurnPredReversesHeadingWithinTwoDegrees(t *testing.T) {
	dt := 0.1
	speed := 10.0
	turnAction := actions.NewTTurnPred(180, 2)
	st := &states.Persistent{
		ActionList: []actions.Action{turnAction},
		Duration:   1 << 30, // outlives the test; exit behavior is not under test
		AeroState:  flight.StateAero{CruiseSpeed: speed, W: 0},
	}
	initialDir := torus.Vec2{X: 1, Y: 0}
	prey := newPrey(torus.Vec2{X: 500, Y: 500}, initialDir, speed, st)
	predator := newPredator(torus.Vec2{X: 495, Y: 500}, torus.Vec2{X: -1, Y: 0}, speed,
		&states.Transient{ActionList: nil})

	k := New(Config{
		World: torus.World{W: 1000}, Dt: dt,
		FlockInterval: 1000000, NumWorkers: 1, Seed: 1,
	}, []*agents.Prey{prey}, []*agents.Predator{predator})

	const ticks = 20 // 2s / 0.1s
	for i := 0; i < ticks; i++ {
		k.Update(nil)
	}

	angle := math.Abs(torus.RadBetween(prey.Body.Dir, initialDir)) * 180 / math.Pi
	wantDeg := 180.0
	if math.Abs(angle-wantDeg) > 2 {
		t.Fatalf("heading change = %v deg, want within 2 deg of 180", angle)
	}
}

// Scenario 6 (spec §8): restoring a snapshot taken at tick T and
// advancing from it reproduces the same trajectory as the original run.
// Uses a deterministic (RNG-free) action chain because GetSnapshots/
// SetSnapshots round-trip only physical agent state, not worker RNG
// stream position, so a randomized action would diverge for reasons
// unrelated to the round trip itself.
func TestSnapshotRoundTripIsDeterministic(t *testing.T) {
	build := func() *Kernel {
		dt := 0.1
		st := &states.Transient{ActionList: []actions.Action{&actions.Wiggle{W: 0}}}
		prey := newPrey(torus.Vec2{X: 500, Y: 500}, torus.Vec2{X: 1, Y: 0}, 10, st)
		return New(Config{
			World: torus.World{W: 1000}, Dt: dt,
			FlockInterval: 1000000, NumWorkers: 1, Seed: 42,
		}, []*agents.Prey{prey}, nil)
	}

	k := build()
	for i := 0; i < 5; i++ {
		k.Update(nil)
	}
	snap := k.GetSnapshots()

	var afterFirst []torus.Vec2
	for i := 0; i < 5; i++ {
		k.Update(nil)
		afterFirst = append(afterFirst, k.Prey[0].Body.Pos)
	}

	if err := k.SetSnapshots(snap); err != nil {
		t.Fatalf("SetSnapshots: %v", err)
	}
	var afterRestore []torus.Vec2
	for i := 0; i < 5; i++ {
		k.Update(nil)
		afterRestore = append(afterRestore, k.Prey[0].Body.Pos)
	}

	for i := range afterFirst {
		if afterFirst[i] != afterRestore[i] {
			t.Fatalf("tick %d diverged after snapshot restore: %v vs %v", i, afterFirst[i], afterRestore[i])
		}
	}
}

// Idempotence (spec §8): Terminate called twice has the same effect as
// once.
func TestTerminateIsIdempotent(t *testing.T) {
	k := New(Config{World: torus.World{W: 1000}, Dt: 0.1, FlockInterval: 1, NumWorkers: 1, Seed: 1}, nil, nil)
	k.Terminate()
	k.Terminate()
	if !k.Terminated() {
		t.Fatal("expected kernel to be terminated")
	}
}

// Invariant (spec §8): a dead prey carries the dead sentinel and is
// excluded from every neighbor view, even of an alive agent that could
// otherwise see it.
func TestDeadPreyExcludedFromNeighborViews(t *testing.T) {
	dt := 0.1
	st := &states.Transient{ActionList: []actions.Action{&actions.Wiggle{W: 0}}}
	alive := newPrey(torus.Vec2{X: 500, Y: 500}, torus.Vec2{X: 1, Y: 0}, 10, st)
	dead := newPrey(torus.Vec2{X: 501, Y: 500}, torus.Vec2{X: 1, Y: 0}, 10, st)
	dead.Alive = false
	dead.NextUpdate = agents.DeadSentinel

	k := New(Config{World: torus.World{W: 1000}, Dt: dt, FlockInterval: 1000000, NumWorkers: 1, Seed: 1},
		[]*agents.Prey{alive, dead}, nil)
	k.Update(nil)

	views := k.PreyNeighbors(0)
	for _, v := range views {
		if v.Idx == 1 {
			t.Fatalf("dead prey at index 1 appeared in alive prey's neighbor view")
		}
	}
}

// Round-trip law (spec §8): set_snapshots(get_snapshots()) is the
// identity on observable state.
func TestSnapshotGetThenSetIsIdentity(t *testing.T) {
	dt := 0.1
	st := &states.Transient{ActionList: []actions.Action{&actions.Wiggle{W: 1}}}
	prey := newPrey(torus.Vec2{X: 123, Y: 456}, torus.Vec2{X: 0, Y: 1}, 7, st)
	predator := newPredator(torus.Vec2{X: 321, Y: 654}, torus.Vec2{X: 1, Y: 0}, 5, st)

	k := New(Config{World: torus.World{W: 1000}, Dt: dt, FlockInterval: 1000000, NumWorkers: 1, Seed: 1},
		[]*agents.Prey{prey}, []*agents.Predator{predator})
	k.Update(nil)

	before := k.GetSnapshots()
	if err := k.SetSnapshots(before); err != nil {
		t.Fatalf("SetSnapshots: %v", err)
	}
	after := k.GetSnapshots()

	if before.Prey[0] != after.Prey[0] {
		t.Fatalf("prey snapshot changed after identity round trip: %+v vs %+v", before.Prey[0], after.Prey[0])
	}
	if before.Pred[0] != after.Pred[0] {
		t.Fatalf("predator snapshot changed after identity round trip: %+v vs %+v", before.Pred[0], after.Pred[0])
	}
}

// SetSnapshots must reject a snapshot whose per-species counts don't
// match the kernel's populations (spec §7 "Invalid snapshot").
func TestSetSnapshotsRejectsMismatchedSize(t *testing.T) {
	dt := 0.1
	st := &states.Transient{ActionList: []actions.Action{&actions.Wiggle{W: 0}}}
	prey := newPrey(torus.Vec2{X: 0, Y: 0}, torus.Vec2{X: 1, Y: 0}, 1, st)
	k := New(Config{World: torus.World{W: 1000}, Dt: dt, FlockInterval: 1000000, NumWorkers: 1, Seed: 1},
		[]*agents.Prey{prey}, nil)

	err := k.SetSnapshots(Snapshot{Prey: []agents.PreyRow{{}, {}}})
	if err == nil {
		t.Fatal("expected an error for a snapshot with the wrong prey count")
	}
}

// Invariants (spec §8): position stays on the torus, direction stays
// unit length, and speed stays within the configured envelope, across
// many ticks of a nontrivial (randomized) action chain.
func TestInvariantsHoldAcrossTicks(t *testing.T) {
	dt := 0.05
	st := &states.Transient{
		ActionList: []actions.Action{&actions.Wiggle{W: 3}},
		AeroState:  flight.StateAero{CruiseSpeed: 10, W: 0.5},
	}
	prey := newPrey(torus.Vec2{X: 999, Y: 1}, torus.Vec2{X: 1, Y: 0}, 10, st)
	prey.Body.Aero.MinSpeed = 2
	prey.Body.Aero.MaxSpeed = 20

	k := New(Config{World: torus.World{W: 1000}, Dt: dt, FlockInterval: 5, FlockThresh: 15, NumWorkers: 1, Seed: 7},
		[]*agents.Prey{prey}, nil)

	for i := 0; i < 500; i++ {
		k.Update(nil)

		p := prey.Body.Pos
		if p.X < 0 || p.X >= 1000 || p.Y < 0 || p.Y >= 1000 {
			t.Fatalf("tick %d: position left the torus: %v", i, p)
		}
		dirLen := math.Hypot(prey.Body.Dir.X, prey.Body.Dir.Y)
		if math.Abs(dirLen-1) > 1e-5 {
			t.Fatalf("tick %d: direction not unit length: %v (len %v)", i, prey.Body.Dir, dirLen)
		}
		if prey.Body.Speed < 2-1e-9 || prey.Body.Speed > 20+1e-9 {
			t.Fatalf("tick %d: speed out of envelope: %v", i, prey.Body.Speed)
		}
	}
}
