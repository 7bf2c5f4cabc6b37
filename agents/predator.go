package agents

import (
	"github.com/hanno-h/flockpred/actions"
	"github.com/hanno-h/flockpred/flight"
	"github.com/hanno-h/flockpred/states"
)

// Predator is one predator agent, with a state package and transition
// matrix built from config. The default config gives it four states:
// wiggle (wiggle only), select_shadow (select_flock, shadowing), chase
// (lock_on_closest_prey only) and retreat (set_retreat); it has no
// avoid_closest_prey/hold_current or chase_closest_prey state by default.
// Grounded on original_source/agents/predator.hpp.
type Predator struct {
	Body flight.Body
	Pkg  *states.Package

	Alive      bool
	NextUpdate int
	LastUpdate int

	TargetIndividual int // -1 when none
	TargetFlock      int // population index of a representative prey, -1 when none

	// Scratch persists entry-action values across ticks of the same
	// state activation, mirroring Prey.Scratch.
	Scratch map[actions.Action]any
}

// PredatorColorChannel mirrors PreyColorChannel for the predator
// species.
type PredatorColorChannel int

const (
	PredatorColorIndex PredatorColorChannel = iota
	PredatorColorSpeedRatio
	PredatorColorState
	PredatorColorAlive
)

func (p *Predator) ColorMap(ch PredatorColorChannel, index, popSize int) float64 {
	switch ch {
	case PredatorColorIndex:
		if popSize <= 1 {
			return -1
		}
		return 2*float64(index)/float64(popSize-1) - 1
	case PredatorColorSpeedRatio:
		if p.Body.Aero.MaxSpeed <= 0 {
			return -1
		}
		return 2*(p.Body.Speed/p.Body.Aero.MaxSpeed) - 1
	case PredatorColorState:
		if p.Pkg == nil || len(p.Pkg.States) <= 1 {
			return -1
		}
		return 2*float64(p.Pkg.CurrentIdx)/float64(len(p.Pkg.States)-1) - 1
	case PredatorColorAlive:
		if p.Alive {
			return 1
		}
		return -1
	default:
		return 0
	}
}
