package flight

import (
	"math"
	"testing"

	"github.com/hanno-h/flockpred/internal/torus"
)

func TestIntegrateNoSteeringHoldsCruiseSpeed(t *testing.T) {
	w := torus.World{W: 1000}
	b := &Body{
		Pos:   torus.Vec2{X: 500, Y: 500},
		Dir:   torus.Vec2{X: 1, Y: 0},
		Speed: 10,
		Aero:  AeroInfo{BodyMass: 1, MinSpeed: 0, MaxSpeed: 100},
		State: StateAero{CruiseSpeed: 10, W: 0},
	}
	for i := 0; i < 100; i++ {
		Integrate(b, torus.Vec2{}, 0.1, w)
	}
	if math.Abs(b.Pos.X-(500+10*10)) > 1e-6 {
		t.Fatalf("expected pos.X advanced by speed*time, got %v", b.Pos.X)
	}
	if math.Abs(b.Speed-10) > 1e-9 {
		t.Fatalf("speed should be unchanged with zero restoring weight, got %v", b.Speed)
	}
}

func TestIntegrateClampsSpeed(t *testing.T) {
	w := torus.World{W: 1000}
	b := &Body{
		Pos:   torus.Vec2{X: 0, Y: 0},
		Dir:   torus.Vec2{X: 1, Y: 0},
		Speed: 5,
		Aero:  AeroInfo{BodyMass: 1, MinSpeed: 1, MaxSpeed: 6},
		State: StateAero{CruiseSpeed: 50, W: 10},
	}
	for i := 0; i < 50; i++ {
		Integrate(b, torus.Vec2{}, 0.1, w)
	}
	if b.Speed > 6+1e-9 {
		t.Fatalf("speed %v exceeds max 6", b.Speed)
	}
}

func TestIntegrateWrapsPosition(t *testing.T) {
	w := torus.World{W: 100}
	b := &Body{
		Pos:   torus.Vec2{X: 99, Y: 50},
		Dir:   torus.Vec2{X: 1, Y: 0},
		Speed: 10,
		Aero:  AeroInfo{BodyMass: 1, MinSpeed: 0, MaxSpeed: 100},
		State: StateAero{CruiseSpeed: 10, W: 0},
	}
	Integrate(b, torus.Vec2{}, 0.5, w)
	if b.Pos.X < 0 || b.Pos.X >= 100 {
		t.Fatalf("pos.X = %v not wrapped into [0,100)", b.Pos.X)
	}
}

func TestCruiseSpeedFormula(t *testing.T) {
	cs := CruiseSpeed(0.3, 0.05)
	if cs <= 0 || math.IsNaN(cs) {
		t.Fatalf("unexpected cruise speed %v", cs)
	}
}
