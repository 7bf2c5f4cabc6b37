// Package agents defines the two species' agent structs: physical
// flight state, per-agent state package, snapshot round trip, and the
// color-map projection the (out-of-scope) viewer consumes.
package agents

import (
	"github.com/hanno-h/flockpred/actions"
	"github.com/hanno-h/flockpred/flight"
	"github.com/hanno-h/flockpred/states"
)

// DeadSentinel marks an agent as not scheduled: excluded from every
// neighborhood view and never integrated. Grounded on spec §3's
// "next_update == DEAD_SENTINEL" invariant.
const DeadSentinel = -1

// Prey is one prey agent. Its state package is fixed at compile time to
// a single transient state that re-runs the same action list every
// tick (spec §4.6), so there is no transition matrix to sample.
type Prey struct {
	Body flight.Body
	Pkg  *states.Package

	Alive      bool
	NextUpdate int
	LastUpdate int

	// Diagnostics written by the align/cohere/avoid actions each tick.
	AlignAngle  float64
	CohereAngle float64
	SepAngle    float64
	AmTarget    bool

	FlockID int // assigned by the flock tracker each clustering pass

	// Scratch persists entry-action values (turn radius/sign, sampled
	// duration, ...) across ticks of the same state activation.
	Scratch map[actions.Action]any
}

// PreyColorChannel selects which scalar the (out-of-scope) viewer
// projects into [-1,1] for a prey agent.
type PreyColorChannel int

const (
	PreyColorIndex PreyColorChannel = iota
	PreyColorSpeedRatio
	PreyColorBank
	PreyColorState
	PreyColorFlock
	PreyColorAmTarget
)

// ColorMap returns the projected [-1,1] scalar for channel ch. index and
// popSize are needed for the index-normalized channel; flockCount, the
// current number of tracked flocks, for the flock-normalized channel.
func (p *Prey) ColorMap(ch PreyColorChannel, index, popSize, flockCount int) float64 {
	switch ch {
	case PreyColorIndex:
		if popSize <= 1 {
			return -1
		}
		return 2*float64(index)/float64(popSize-1) - 1
	case PreyColorSpeedRatio:
		if p.Body.Aero.MaxSpeed <= 0 {
			return -1
		}
		return 2*(p.Body.Speed/p.Body.Aero.MaxSpeed) - 1
	case PreyColorBank:
		return flight.Bank(p.Body, 0) / 1.5708 // informational only; lateral force not tracked post-hoc
	case PreyColorState:
		if p.Pkg == nil || len(p.Pkg.States) <= 1 {
			return -1
		}
		return 2*float64(p.Pkg.CurrentIdx)/float64(len(p.Pkg.States)-1) - 1
	case PreyColorFlock:
		if flockCount <= 0 || p.FlockID < 0 {
			return -1
		}
		return 2*float64(p.FlockID)/float64(flockCount) - 1
	case PreyColorAmTarget:
		if p.AmTarget {
			return 1
		}
		return -1
	default:
		return 0
	}
}
