package states

import (
	"github.com/hanno-h/flockpred/actions"
	"github.com/hanno-h/flockpred/flight"
	"github.com/hanno-h/flockpred/internal/rng"
)

// Package is one agent's state package: its states in compile-time
// order, the transition sampler used on exit, and the currently active
// index. Each agent owns its own Package value (spec §3: "action and
// state objects are constructed once per agent from config").
type Package struct {
	States      []State
	Sampler     *Sampler // nil for a single-state package with no transitions
	CurrentIdx  int
	// OnExit, if set, runs after a state decides to exit but before the
	// next state's Enter — used by predator packages to reset
	// per-activation targeting fields the original clears in
	// on_state_exit.
	OnExit func(c *actions.Ctx)
}

// NewPackage constructs a Package starting at state 0 and calls its
// Enter immediately, matching spec §4.5's "initial state: index 0; its
// enter is called once at initialization."
func NewPackage(states []State, sampler *Sampler, c *actions.Ctx, tick int) *Package {
	p := &Package{States: states, Sampler: sampler}
	p.States[0].Enter(c, tick)
	return p
}

// Current returns the currently active state.
func (p *Package) Current() State { return p.States[p.CurrentIdx] }

// Resume runs the current state's action chain for this tick, applies
// its reaction time and state aero to the caller via the returned
// values, and transitions to the next state if the current one's exit
// condition has been met. pivot is the scalar fed to the transition
// interpolator (spec's "single pivot" case ignores it).
func (p *Package) Resume(c *actions.Ctx, tick int, pivot float64, src *rng.Source) (reactionTimeTicks int, aero flight.StateAero) {
	cur := p.Current()
	switch st := cur.(type) {
	case *Persistent:
		st.Resume(c)
	case *Transient:
		st.Resume(c)
	}
	reactionTimeTicks = cur.ReactionTimeTicks()
	aero = cur.Aero()

	if !cur.ShouldExit(tick) {
		return
	}
	if p.OnExit != nil {
		p.OnExit(c)
	}
	next := p.CurrentIdx
	if p.Sampler != nil && len(p.States) > 1 {
		next = p.Sampler.Sample(p.CurrentIdx, pivot, src)
	}
	p.CurrentIdx = next
	p.States[next].Enter(c, tick)
	return
}
