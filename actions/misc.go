package actions

import "math"

// Wiggle adds a uniform-random lateral jitter in [-W, W]. Grounded on
// original_source/actions/no_interacting_actions.hpp's wiggle.
type Wiggle struct {
	W float64
}

func (a *Wiggle) Apply(c *Ctx) {
	jitter := c.RNG.UniformRange(-a.W, a.W)
	c.Steering = c.Steering.Add(c.SelfDir.Perp().Scale(jitter))
}

// RTurn applies a constant-radius centripetal turn every tick, without
// any predator dependency. Radius carries the turn's sign: positive
// turns left, negative turns right. The W field mirrors the source's
// unused-but-present weight field, kept for config-shape compatibility
// with the original action record even though it plays no role in the
// force calculation.
type RTurn struct {
	Radius float64
	W      float64
}

func (a *RTurn) Apply(c *Ctx) {
	if a.Radius == 0 {
		return
	}
	sign := 1.0
	radius := a.Radius
	if radius < 0 {
		sign = -1
		radius = -radius
	}
	centripetal := c.SelfMass * c.SelfSpeed * c.SelfSpeed / radius
	c.Steering = c.Steering.Add(c.SelfDir.Perp().Scale(sign * centripetal))
}

// TTurn is a fixed-duration, fixed-direction turn: the radius is derived
// once on entry from the agent's speed at the moment of entry and the
// configured Turn (radians)/Time (seconds), then applied every tick for
// the remainder of the activation.
type TTurn struct {
	Turn float64 // radians, signed: positive left, negative right
	Time float64 // seconds
}

func NewTTurn(turnDeg, timeSeconds float64) *TTurn {
	return &TTurn{Turn: turnDeg * math.Pi / 180, Time: timeSeconds}
}

type tTurnScratch struct {
	radius float64
	sign   float64
}

func (a *TTurn) OnEntry(c *Ctx) {
	sign := 1.0
	turn := a.Turn
	if turn < 0 {
		sign = -1
		turn = -turn
	}
	omega := turn / a.Time
	SetScratch(c, a, tTurnScratch{radius: c.SelfSpeed / omega, sign: sign})
}

func (a *TTurn) Apply(c *Ctx) {
	s, ok := Scratch[tTurnScratch](c, a)
	if !ok || s.radius == 0 {
		return
	}
	centripetal := c.SelfMass * c.SelfSpeed * c.SelfSpeed / s.radius
	c.Steering = c.Steering.Add(c.SelfDir.Perp().Scale(s.sign * centripetal))
}
