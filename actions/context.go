// Package actions implements the steering-behavior library: individual
// actions constructed once from configuration that, each tick, read
// neighbor and flock state through a Ctx and accumulate a steering force.
package actions

import (
	"github.com/hanno-h/flockpred/flock"
	"github.com/hanno-h/flockpred/internal/rng"
	"github.com/hanno-h/flockpred/internal/torus"
	"github.com/hanno-h/flockpred/neighbor"
)

// Ctx is the per-agent, per-tick view an action operates through. The
// simulation kernel fills one Ctx per agent before running its state
// machine's action chain; actions never hold a reference to the kernel
// itself (spec §9: "there is no ownership cycle").
type Ctx struct {
	Dt    float64
	World torus.World
	RNG   *rng.Source
	Tick  int

	SelfIdx   int
	SelfPos   torus.Vec2
	SelfDir   torus.Vec2
	SelfSpeed float64
	SelfMass  float64

	Steering torus.Vec2

	PreyView []neighbor.Record
	PredView []neighbor.Record

	PreyPos   []torus.Vec2
	PreyDir   []torus.Vec2
	PreySpd   []float64
	PreyAlive []bool

	// CruiseSpeedOverride, when non-nil, lets a hunting action request
	// an immediate change to the agent's state cruise-speed target
	// (e.g. matching a scaled prey speed) for the flight integrator's
	// next restoring-force computation.
	CruiseSpeedOverride *float64

	PredPos              []torus.Vec2
	PredDir              []torus.Vec2
	PredSpd              []float64
	PredAlive            []bool
	PredTargetIndividual []int

	PreyFlocks *flock.Tracker

	// Prey-only diagnostics, nil for predators.
	AlignAngle *float64
	CohereAngle *float64
	SepAngle    *float64
	AmTarget    *bool

	// Predator-only mutable targeting state, nil for prey.
	TargetIndividual *int
	TargetFlock      *int

	// Teleport outputs: when non-nil, an action may overwrite them
	// directly (set/set_from_flock/set_retreat/hold/hold_current).
	NewPos   *torus.Vec2
	NewDir   *torus.Vec2
	NewSpeed *float64

	// EntryScratch carries values computed in OnEntry that Apply needs
	// on every subsequent tick of the same state activation (e.g. the
	// turn radius and direction for t_turn/t_turn_pred/zig_zag). Each action
	// owns and type-asserts its own slot by pointer identity, so no two
	// actions collide.
	EntryScratch map[Action]any
}

// Scratch fetches this action's per-activation entry scratch value.
func Scratch[T any](c *Ctx, a Action) (T, bool) {
	v, ok := c.EntryScratch[a]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// SetScratch stores this action's per-activation entry scratch value.
func SetScratch[T any](c *Ctx, a Action, v T) {
	if c.EntryScratch == nil {
		c.EntryScratch = make(map[Action]any)
	}
	c.EntryScratch[a] = v
}

// Action is the hot-path steering behavior contract: apply the action's
// contribution to c.Steering (and any diagnostic/targeting fields) for
// the current tick. Action instances are constructed once from config
// and stored in plain slices; no string dispatch happens here.
type Action interface {
	Apply(c *Ctx)
}

// EntryAction is implemented by actions that need to run setup logic
// when their owning state is entered (teleports, turn-radius capture,
// flock selection).
type EntryAction interface {
	OnEntry(c *Ctx)
}

// ExitChecker is implemented by actions that can shorten their state's
// nominal exit tick (e.g. a randomized turn duration).
type ExitChecker interface {
	// CheckStateExit may lower *exitTick but must never raise it.
	CheckStateExit(c *Ctx, exitTick *int)
}
