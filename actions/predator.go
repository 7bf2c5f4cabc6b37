package actions

import (
	"math"

	"github.com/hanno-h/flockpred/internal/torus"
)

// FlockSelection chooses which prey flock select_flock targets.
type FlockSelection int

const (
	SelectNearest FlockSelection = iota
	SelectBiggest
	SelectSmallest
	SelectRandom
)

// ParseFlockSelection maps a config string to a FlockSelection.
func ParseFlockSelection(s string) FlockSelection {
	switch s {
	case "biggest":
		return SelectBiggest
	case "smallest":
		return SelectSmallest
	case "random":
		return SelectRandom
	default:
		return SelectNearest
	}
}

// SelectFlock picks a target prey flock at state entry and records the
// population index of one representative member in TargetFlock (the
// original's target_f). Grounded on predator_actions.hpp's select_flock.
type SelectFlock struct {
	Selection FlockSelection
}

func (a *SelectFlock) OnEntry(c *Ctx) {
	if c.TargetFlock == nil || c.PreyFlocks == nil {
		return
	}
	descs := c.PreyFlocks.Descriptors()
	if len(descs) == 0 {
		*c.TargetFlock = -1
		return
	}
	best := 0
	switch a.Selection {
	case SelectBiggest:
		for i, d := range descs {
			if d.Size > descs[best].Size {
				best = i
			}
		}
	case SelectSmallest:
		for i, d := range descs {
			if d.Size < descs[best].Size {
				best = i
			}
		}
	case SelectRandom:
		best = c.RNG.UniformInt(0, len(descs)-1)
	default: // SelectNearest
		bestDist := math.Inf(1)
		for i, d := range descs {
			d2 := c.World.Distance2(c.SelfPos, d.Origin)
			if d2 < bestDist {
				bestDist = d2
				best = i
			}
		}
	}
	members := c.PreyFlocks.Members(best)
	if len(members) == 0 {
		*c.TargetFlock = -1
		return
	}
	*c.TargetFlock = members[0]
}

// Apply adds no steering; SelectFlock acts only on state entry.
func (a *SelectFlock) Apply(c *Ctx) {}

// Shadowing steers the predator to hold a station at Bearing/Distance
// relative to its target flock's representative member, teleporting
// directly to that station on entry when Placement is set, and matching
// the target's speed scaled by PreySpeedScale. Grounded on
// predator_actions.hpp's shadowing.
type Shadowing struct {
	Bearing        float64 // radians, relative to target's heading
	Distance       float64
	Placement      bool
	W              float64
	PreySpeedScale float64
}

func (a *Shadowing) station(c *Ctx) (torus.Vec2, torus.Vec2, float64, bool) {
	if c.TargetFlock == nil || *c.TargetFlock < 0 || *c.TargetFlock >= len(c.PreyAlive) {
		return torus.Vec2{}, torus.Vec2{}, 0, false
	}
	idx := *c.TargetFlock
	if !c.PreyAlive[idx] {
		return torus.Vec2{}, torus.Vec2{}, 0, false
	}
	targetPos := c.PreyPos[idx]
	targetDir := c.PreyDir[idx]
	offset := targetDir.Rotate(a.Bearing).Scale(a.Distance)
	station := c.World.WrapVec(targetPos.Add(offset))
	return station, targetDir, c.PreySpd[idx], true
}

func (a *Shadowing) OnEntry(c *Ctx) {
	if !a.Placement {
		return
	}
	station, dir, _, ok := a.station(c)
	if !ok {
		return
	}
	if c.NewPos != nil {
		*c.NewPos = station
	}
	if c.NewDir != nil {
		*c.NewDir = dir
	}
}

func (a *Shadowing) Apply(c *Ctx) {
	station, _, speed, ok := a.station(c)
	if !ok {
		return
	}
	steerToward(c, station, a.W)
	requestCruiseSpeed(c, a.PreySpeedScale*speed)
}

// WaypointTolerance holds the outer/inner squared-distance radii and a
// cosine heading-alignment threshold used to decide when a waypoint has
// been reached.
type WaypointTolerance struct {
	Dist2Outer float64
	Dist2Inner float64
	CosAngle   float64
}

// Waypoint steers toward a fixed point. Its CheckStateExit shortens the
// state to end at once when the agent is within the outer radius and
// either within the inner radius or already heading-aligned with the
// point; that check runs only when the state is entered, so reaching the
// point later in the activation does not end the state. Grounded on
// predator_actions.hpp's waypoint.
type Waypoint struct {
	Pos       torus.Vec2
	Tolerance WaypointTolerance
	W         float64
}

func (a *Waypoint) Apply(c *Ctx) {
	steerToward(c, a.Pos, a.W)
}

func (a *Waypoint) CheckStateExit(c *Ctx, exitTick *int) {
	d2 := c.World.Distance2(c.SelfPos, a.Pos)
	if d2 > a.Tolerance.Dist2Outer {
		return
	}
	offset := c.World.Ofs(c.SelfPos, a.Pos)
	aligned := false
	if offset.Length2() > 1e-12 {
		dir := torus.SafeNormalize(offset, c.SelfDir)
		aligned = c.SelfDir.Dot(dir) >= a.Tolerance.CosAngle
	}
	if d2 <= a.Tolerance.Dist2Inner || aligned {
		if c.Tick < *exitTick {
			*exitTick = c.Tick
		}
	}
}

// Set teleports the agent directly to a fixed pose on state entry.
type Set struct {
	Pos   torus.Vec2
	Dir   torus.Vec2
	Speed float64
}

func (a *Set) OnEntry(c *Ctx) {
	if c.NewPos != nil {
		*c.NewPos = a.Pos
	}
	if c.NewDir != nil {
		*c.NewDir = a.Dir
	}
	if c.NewSpeed != nil {
		*c.NewSpeed = a.Speed
	}
}

// Apply adds no steering; Set acts only on state entry.
func (a *Set) Apply(c *Ctx) {}

// SetFromFlock teleports the agent to a bearing/distance station
// relative to its target flock's representative member on state entry,
// with speed set from that member's speed scaled by PreySpeedScale.
type SetFromFlock struct {
	Bearing        float64
	Distance       float64
	PreySpeedScale float64
}

func (a *SetFromFlock) OnEntry(c *Ctx) {
	if c.TargetFlock == nil || *c.TargetFlock < 0 || *c.TargetFlock >= len(c.PreyAlive) || !c.PreyAlive[*c.TargetFlock] {
		return
	}
	idx := *c.TargetFlock
	targetPos := c.PreyPos[idx]
	targetDir := c.PreyDir[idx]
	offset := targetDir.Rotate(a.Bearing).Scale(a.Distance)
	station := c.World.WrapVec(targetPos.Add(offset))
	if c.NewPos != nil {
		*c.NewPos = station
	}
	if c.NewDir != nil {
		*c.NewDir = targetDir
	}
	if c.NewSpeed != nil {
		*c.NewSpeed = a.PreySpeedScale * c.PreySpd[idx]
	}
}

// Apply adds no steering; SetFromFlock acts only on state entry.
func (a *SetFromFlock) Apply(c *Ctx) {}

// SetRetreat moves the agent DistAway behind itself (along its reversed
// heading), turns it around and sets a fixed retreat Speed, run as the transient state
// following a chase. Grounded on SPEC_FULL.md's supplemented predator
// retreat-after-chase feature, drawn from agents/predator.hpp.
type SetRetreat struct {
	DistAway float64
	Speed    float64
}

func (a *SetRetreat) OnEntry(c *Ctx) {
	reversed := c.SelfDir.Rotate(math.Pi)
	if c.NewPos != nil {
		*c.NewPos = c.World.WrapVec(c.SelfPos.Add(reversed.Scale(a.DistAway)))
	}
	if c.NewDir != nil {
		*c.NewDir = reversed
	}
	if c.NewSpeed != nil {
		*c.NewSpeed = a.Speed
	}
}

// Apply adds no steering; SetRetreat acts only on state entry.
func (a *SetRetreat) Apply(c *Ctx) {}

// Hold circles around a fixed point.
type Hold struct {
	Pos torus.Vec2
	W   float64
}

func (a *Hold) Apply(c *Ctx) {
	steerToward(c, a.Pos, a.W)
}

// HoldCurrent circles around the position captured at state entry.
type HoldCurrent struct {
	W float64
}

func (a *HoldCurrent) OnEntry(c *Ctx) {
	SetScratch(c, a, c.SelfPos)
}

func (a *HoldCurrent) Apply(c *Ctx) {
	pos, ok := Scratch[torus.Vec2](c, a)
	if !ok {
		return
	}
	steerToward(c, pos, a.W)
}
