package states

import (
	"github.com/hanno-h/flockpred/actions"
	"github.com/hanno-h/flockpred/flight"
)

// State is one state in a species' state package. Persistent and
// Transient are the two concrete implementations spec §3/§4.5 name; an
// implementation constructed once per agent from config, never a
// runtime string-keyed lookup on the hot path.
type State interface {
	Actions() []actions.Action
	ReactionTimeTicks() int
	Aero() flight.StateAero
	// Enter runs every action's OnEntry (if implemented) and, for
	// persistent states, establishes the exit tick.
	Enter(c *actions.Ctx, tick int)
	// ShouldExit reports whether the state's resume step should hand
	// off to the transition sampler after running its actions this
	// tick.
	ShouldExit(tick int) bool
}

func runEntry(c *actions.Ctx, acts []actions.Action) {
	for _, a := range acts {
		if e, ok := a.(actions.EntryAction); ok {
			e.OnEntry(c)
		}
	}
}

func runActions(c *actions.Ctx, acts []actions.Action) {
	for _, a := range acts {
		a.Apply(c)
	}
}

// Persistent is a timed state with a transition row used on exit. On
// entry its exit tick is now+Duration, but any action implementing
// ExitChecker may shorten it (e.g. a randomized turn duration).
// Grounded on original_source/states/persistent.hpp.
type Persistent struct {
	ActionList []actions.Action
	Tr         int // reaction-time ticks
	Duration   int // nominal duration ticks
	AeroState  flight.StateAero

	exitTick int
}

func (p *Persistent) Actions() []actions.Action      { return p.ActionList }
func (p *Persistent) ReactionTimeTicks() int          { return p.Tr }
func (p *Persistent) Aero() flight.StateAero          { return p.AeroState }

func (p *Persistent) Enter(c *actions.Ctx, tick int) {
	p.exitTick = tick + p.Duration
	runEntry(c, p.ActionList)
	for _, a := range p.ActionList {
		if ec, ok := a.(actions.ExitChecker); ok {
			ec.CheckStateExit(c, &p.exitTick)
		}
	}
}

func (p *Persistent) ShouldExit(tick int) bool {
	return tick >= p.exitTick
}

// Resume runs every action's Apply for the current tick. Callers invoke
// this through Package.Resume, which also handles the exit/transition
// sequencing; Resume itself has no side effect beyond the action chain.
func (p *Persistent) Resume(c *actions.Ctx) {
	runActions(c, p.ActionList)
}

// Transient is a one-shot state: it runs its action chain and then
// unconditionally exits, every tick it is active. Grounded on
// original_source/states/transient.hpp.
type Transient struct {
	ActionList []actions.Action
	Tr         int
	AeroState  flight.StateAero
}

func (t *Transient) Actions() []actions.Action      { return t.ActionList }
func (t *Transient) ReactionTimeTicks() int          { return t.Tr }
func (t *Transient) Aero() flight.StateAero          { return t.AeroState }

func (t *Transient) Enter(c *actions.Ctx, tick int) {
	runEntry(c, t.ActionList)
}

func (t *Transient) ShouldExit(tick int) bool { return true }

func (t *Transient) Resume(c *actions.Ctx) {
	runActions(c, t.ActionList)
}
