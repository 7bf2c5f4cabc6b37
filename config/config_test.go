package config

import (
	"testing"

	"github.com/hanno-h/flockpred/internal/rng"
	"github.com/hanno-h/flockpred/internal/torus"
)

func TestLoadDefaultsOnly(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if c.Simulation.Dt <= 0 {
		t.Fatalf("expected nonzero default dt, got %v", c.Simulation.Dt)
	}
	if c.Prey.N == 0 {
		t.Fatalf("expected nonzero default prey population")
	}
	if len(c.Predator.States) != 4 {
		t.Fatalf("expected 4 default predator states, got %d", len(c.Predator.States))
	}
}

func TestValidateRejectsMissingStates(t *testing.T) {
	c := &Config{Simulation: Simulation{Dt: 0.1}}
	if err := c.validate(); err == nil {
		t.Fatal("expected an error for a species with zero states")
	}
}

func TestValidateRejectsBadTransitionShape(t *testing.T) {
	c := &Config{
		Simulation: Simulation{Dt: 0.1},
		Prey:       Species{States: []StateEntry{{Name: "a"}}},
		Predator: Species{
			States:      []StateEntry{{Name: "a"}, {Name: "b"}},
			Transitions: &TransitionDef{Edges: []float64{0}, Matrices: [][][]float64{{{1, 0, 0}, {0, 1, 0}}}},
		},
	}
	if err := c.validate(); err == nil {
		t.Fatal("expected an error for a transition matrix sized for the wrong state count")
	}
}

func TestBuildActionUnknownNameErrors(t *testing.T) {
	if _, err := buildAction("not_a_real_action", nil); err == nil {
		t.Fatal("expected an error for an unrecognized action name")
	}
}

func TestBuildActionZeroTurnTimeErrors(t *testing.T) {
	if _, err := buildAction("t_turn_pred", map[string]interface{}{"turn": 30.0, "time": 0.0}); err == nil {
		t.Fatal("expected an error for a zero-valued turn duration")
	}
}

func TestRandomGeneratorPlacesWithinWorld(t *testing.T) {
	gen := &randomGen{alive: true}
	w := torus.World{W: 1000}
	src := rng.New(1)
	for i := 0; i < 20; i++ {
		s, err := gen.Next(i, src, w, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Pos.X < 0 || s.Pos.X >= w.W || s.Pos.Y < 0 || s.Pos.Y >= w.W {
			t.Fatalf("sample %d out of world bounds: %v", i, s.Pos)
		}
		if !s.Alive {
			t.Fatalf("sample %d expected alive", i)
		}
	}
}

func TestRandomDeadGeneratorStartsDead(t *testing.T) {
	gen := &randomGen{alive: false}
	w := torus.World{W: 1000}
	src := rng.New(2)
	s, err := gen.Next(0, src, w, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Alive {
		t.Fatal("random_dead generator should start agents dead")
	}
}

func TestFlockGeneratorIgnoresPos0ClustersNearOrigin(t *testing.T) {
	gen := &flockGen{dir0: torus.Vec2{X: 1, Y: 0}, radius: 10, headingSd: 0}
	w := torus.World{W: 1000}
	src := rng.New(3)
	s, err := gen.Next(0, src, w, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Pos.X > 10 || s.Pos.Y > 10 {
		t.Fatalf("flock generator should cluster near the origin within radius, got %v", s.Pos)
	}
}

func TestNewGeneratorUnknownTypeErrors(t *testing.T) {
	if _, err := NewGenerator(InitCondit{Type: "bogus"}); err == nil {
		t.Fatal("expected an error for an unrecognized init_condit type")
	}
}
