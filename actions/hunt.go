package actions

import "github.com/hanno-h/flockpred/internal/torus"

// ChaseClosestPrey re-targets the nearest alive prey every tick, steers
// toward it, and requests matching the target's speed scaled by
// PreySpeedScale. Grounded on
// original_source/actions/hunt_actions.hpp's chase_closest_prey.
type ChaseClosestPrey struct {
	W              float64
	PreySpeedScale float64
}

func (a *ChaseClosestPrey) Apply(c *Ctx) {
	if len(c.PreyView) == 0 {
		return
	}
	target := c.PreyView[0]
	if c.TargetIndividual != nil {
		*c.TargetIndividual = target.Idx
	}
	steerToward(c, c.PreyPos[target.Idx], a.W)
	requestCruiseSpeed(c, a.PreySpeedScale*c.PreySpd[target.Idx])
}

// LockOnClosestPrey locks onto the nearest alive prey once, at state
// entry, and keeps chasing that same individual (if still alive) for
// the rest of the activation.
type LockOnClosestPrey struct {
	W              float64
	PreySpeedScale float64
}

func (a *LockOnClosestPrey) OnEntry(c *Ctx) {
	if len(c.PreyView) == 0 {
		return
	}
	if c.TargetIndividual != nil {
		*c.TargetIndividual = c.PreyView[0].Idx
	}
}

func (a *LockOnClosestPrey) Apply(c *Ctx) {
	if c.TargetIndividual == nil {
		return
	}
	idx := *c.TargetIndividual
	if idx < 0 || idx >= len(c.PreyAlive) || !c.PreyAlive[idx] {
		return
	}
	steerToward(c, c.PreyPos[idx], a.W)
	requestCruiseSpeed(c, a.PreySpeedScale*c.PreySpd[idx])
}

// AvoidClosestPrey steers away from the nearest alive prey — used by the
// predator's calibration/avoid state.
type AvoidClosestPrey struct {
	W float64
}

func (a *AvoidClosestPrey) Apply(c *Ctx) {
	if len(c.PreyView) == 0 {
		return
	}
	target := c.PreyView[0]
	steerToward(c, c.PreyPos[target.Idx], -a.W)
}

func steerToward(c *Ctx, target torus.Vec2, w float64) {
	offset := c.World.Ofs(c.SelfPos, target)
	dir := torus.SafeNormalize(offset, c.SelfDir)
	c.Steering = c.Steering.Add(dir.Scale(w))
}

func requestCruiseSpeed(c *Ctx, speed float64) {
	if c.CruiseSpeedOverride != nil {
		*c.CruiseSpeedOverride = speed
	}
}
