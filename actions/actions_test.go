package actions

import (
	"math"
	"testing"

	"github.com/hanno-h/flockpred/internal/rng"
	"github.com/hanno-h/flockpred/internal/torus"
	"github.com/hanno-h/flockpred/neighbor"
)

func TestWiggleZeroWeightProducesZeroSteering(t *testing.T) {
	c := &Ctx{
		World:   torus.World{W: 1000},
		RNG:     rng.New(1),
		SelfDir: torus.Vec2{X: 1, Y: 0},
	}
	w := &Wiggle{W: 0}
	w.Apply(c)
	if c.Steering.Length2() != 0 {
		t.Fatalf("expected zero steering with w=0, got %v", c.Steering)
	}
}

func TestAvoidNPositionStearsAway(t *testing.T) {
	world := torus.World{W: 1000}
	selfPos := torus.Vec2{X: 500, Y: 500}
	neighborPos := torus.Vec2{X: 505, Y: 500}

	c := &Ctx{
		World:   world,
		SelfPos: selfPos,
		SelfDir: torus.Vec2{X: 1, Y: 0},
		PreyPos: []torus.Vec2{selfPos, neighborPos},
		PreyView: []neighbor.Record{
			{Idx: 1, Dist2: world.Distance2(selfPos, neighborPos)},
		},
	}
	a := NewAvoidNPosition(5, 360, 10, 10, 1)
	a.Apply(c)
	if c.Steering.X >= 0 {
		t.Fatalf("expected steering with negative X (away from neighbor at +x), got %v", c.Steering)
	}
	if math.Abs(c.Steering.Y) > 1e-9 {
		t.Fatalf("expected steering purely along x, got %v", c.Steering)
	}
}

func TestAlignNIgnoresOutOfRangeNeighbor(t *testing.T) {
	world := torus.World{W: 1000}
	c := &Ctx{
		World:   world,
		SelfPos: torus.Vec2{X: 0, Y: 0},
		SelfDir: torus.Vec2{X: 1, Y: 0},
		PreyPos: []torus.Vec2{{}, {X: 100, Y: 0}},
		PreyDir: []torus.Vec2{{}, {X: 0, Y: 1}},
		PreyView: []neighbor.Record{
			{Idx: 1, Dist2: world.Distance2(torus.Vec2{}, torus.Vec2{X: 100, Y: 0})},
		},
	}
	a := NewAlignN(5, 360, 10, 1) // maxdist smaller than neighbor distance
	a.Apply(c)
	if c.Steering.Length2() != 0 {
		t.Fatalf("expected zero steering for out-of-range neighbor, got %v", c.Steering)
	}
}

func TestAvoidPPositionRequiresProximity(t *testing.T) {
	world := torus.World{W: 1000}
	c := &Ctx{
		World:                world,
		SelfPos:              torus.Vec2{X: 0, Y: 0},
		SelfDir:              torus.Vec2{X: 1, Y: 0},
		PredPos:              []torus.Vec2{{X: 500, Y: 500}},
		PredDir:              []torus.Vec2{{X: 1, Y: 0}},
		PredTargetIndividual: []int{-1},
		PredView: []neighbor.Record{
			{Idx: 0, Dist2: world.Distance2(torus.Vec2{}, torus.Vec2{X: 500, Y: 500})},
		},
	}
	a := NewAvoidPPosition(10, 1) // minsep far smaller than the predator's distance
	a.Apply(c)
	if c.Steering.Length2() != 0 {
		t.Fatalf("expected no steering with the only predator beyond minsep, got %v", c.Steering)
	}
}
