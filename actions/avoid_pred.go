package actions

import (
	"math"

	"github.com/hanno-h/flockpred/internal/torus"
)

// nearestPredator returns the nearest alive predator's position, heading,
// population index and true, or ok=false if the predator view is empty.
func nearestPredator(c *Ctx) (torus.Vec2, torus.Vec2, int, bool) {
	if len(c.PredView) == 0 {
		return torus.Vec2{}, torus.Vec2{}, -1, false
	}
	n := c.PredView[0]
	return c.PredPos[n.Idx], c.PredDir[n.Idx], n.Idx, true
}

// AvoidPPosition steers away from the nearest alive predator once it is
// closer than MinSep, and flags self as the predator's current target
// when the predator's own TargetIndividual names this agent. Per the
// OPEN QUESTION DECISIONS in SPEC_FULL.md, field-of-view filtering is
// off by default (UseFOV=false), matching the source comment "WITHOUT
// FOV APPLIED - ?". Grounded on
// original_source/actions/avoid_pred_actions.hpp's avoid_p_position.
type AvoidPPosition struct {
	MinSep2 float64
	W       float64
	UseFOV  bool
	CFov    float64
}

func NewAvoidPPosition(minSep, w float64) *AvoidPPosition {
	return &AvoidPPosition{MinSep2: minSep * minSep, W: w}
}

func (a *AvoidPPosition) Apply(c *Ctx) {
	predPos, _, predIdx, ok := nearestPredator(c)
	if !ok {
		return
	}
	offset := c.World.Ofs(c.SelfPos, predPos)
	d2 := offset.Length2()
	if d2 >= a.MinSep2 {
		return
	}
	if a.UseFOV && torus.IsBehind(c.SelfDir, offset, a.CFov) {
		return
	}
	if c.AmTarget != nil && c.PredTargetIndividual[predIdx] == c.SelfIdx {
		*c.AmTarget = true
	}
	away := torus.SafeNormalize(offset, c.SelfDir).Scale(-1)
	c.Steering = c.Steering.Add(away.Scale(a.W))
}

// AvoidPDirection adds a lateral force away from or toward the self's
// heading, signed by the angle between the nearest alive predator's
// heading and self's heading. Grounded on avoid_p_direction.
type AvoidPDirection struct {
	MinSep2 float64
	W       float64
}

func NewAvoidPDirection(minSep, w float64) *AvoidPDirection {
	return &AvoidPDirection{MinSep2: minSep * minSep, W: w}
}

func (a *AvoidPDirection) Apply(c *Ctx) {
	predPos, predDir, _, ok := nearestPredator(c)
	if !ok {
		return
	}
	if c.World.Distance2(c.SelfPos, predPos) >= a.MinSep2 {
		return
	}
	angle := torus.RadBetween(predDir, c.SelfDir)
	signed := math.Copysign(a.W, angle)
	c.Steering = c.Steering.Add(c.SelfDir.Perp().Scale(signed))
}

type turnScratch struct {
	radius float64
	sign   float64
	zero   bool
}

func turnDirectionSign(c *Ctx) float64 {
	predPos, _, _, ok := nearestPredator(c)
	if !ok {
		return 0
	}
	offset := c.World.Ofs(c.SelfPos, predPos)
	if c.SelfDir.PerpDot(offset) >= 0 {
		return -1
	}
	return 1
}

// TTurnPred enters a fixed-radius turn away from the nearest alive
// predator: on entry it computes the angular velocity turn/time and the
// corresponding turn radius from the agent's current speed, then applies
// a centripetal force every tick for the remainder of the state.
// Grounded on avoid_pred_actions.hpp's t_turn_pred.
type TTurnPred struct {
	Turn float64 // radians
	Time float64 // seconds
}

func NewTTurnPred(turnDeg, timeSeconds float64) *TTurnPred {
	return &TTurnPred{Turn: turnDeg * math.Pi / 180, Time: timeSeconds}
}

func (a *TTurnPred) OnEntry(c *Ctx) {
	sign := turnDirectionSign(c)
	if sign == 0 {
		SetScratch(c, a, turnScratch{zero: true})
		return
	}
	omega := a.Turn / a.Time
	radius := c.SelfSpeed / omega
	SetScratch(c, a, turnScratch{radius: radius, sign: sign})
}

func (a *TTurnPred) Apply(c *Ctx) {
	s, ok := Scratch[turnScratch](c, a)
	if !ok || s.zero || s.radius == 0 {
		return
	}
	centripetal := c.SelfMass * c.SelfSpeed * c.SelfSpeed / s.radius
	c.Steering = c.Steering.Add(c.SelfDir.Perp().Scale(s.sign * centripetal))
}

// RandomTTurnPred is TTurnPred with turn and time uniformly resampled on
// every state entry, and a CheckStateExit that shortens the state's
// nominal duration to the sampled time.
type RandomTTurnPred struct {
	TurnMin, TurnMax float64
	TimeMin, TimeMax float64
}

type randomTurnScratch struct {
	turnScratch
	timeTicks int
}

func (a *RandomTTurnPred) OnEntry(c *Ctx) {
	turn := c.RNG.UniformRange(a.TurnMin, a.TurnMax) * math.Pi / 180
	time := c.RNG.UniformRange(a.TimeMin, a.TimeMax)
	sign := turnDirectionSign(c)
	rs := randomTurnScratch{timeTicks: int(math.Round(time / c.Dt))}
	if sign == 0 {
		rs.turnScratch = turnScratch{zero: true}
	} else {
		omega := turn / time
		rs.turnScratch = turnScratch{radius: c.SelfSpeed / omega, sign: sign}
	}
	SetScratch(c, a, rs)
}

func (a *RandomTTurnPred) Apply(c *Ctx) {
	rs, ok := Scratch[randomTurnScratch](c, a)
	if !ok || rs.zero || rs.radius == 0 {
		return
	}
	centripetal := c.SelfMass * c.SelfSpeed * c.SelfSpeed / rs.radius
	c.Steering = c.Steering.Add(c.SelfDir.Perp().Scale(rs.sign * centripetal))
}

func (a *RandomTTurnPred) CheckStateExit(c *Ctx, exitTick *int) {
	rs, ok := Scratch[randomTurnScratch](c, a)
	if !ok {
		return
	}
	candidate := c.Tick + rs.timeTicks
	if candidate < *exitTick {
		*exitTick = candidate
	}
}

// RandomTTurnGammaPred is RandomTTurnPred but draws turn and time from
// gamma distributions parameterized by mean/sd, re-sampling until both
// are nonzero (the source's loop-until-nonzero-product sampling).
type RandomTTurnGammaPred struct {
	TurnMu, TurnSd float64
	TimeMu, TimeSd float64
}

func (a *RandomTTurnGammaPred) OnEntry(c *Ctx) {
	var turn, time float64
	for {
		turn = c.RNG.Gamma(a.TurnMu, a.TurnSd)
		time = c.RNG.Gamma(a.TimeMu, a.TimeSd)
		if turn*time > 0 {
			break
		}
	}
	turnRad := turn * math.Pi / 180
	sign := turnDirectionSign(c)
	rs := randomTurnScratch{timeTicks: int(math.Round(time / c.Dt))}
	if sign == 0 {
		rs.turnScratch = turnScratch{zero: true}
	} else {
		omega := turnRad / time
		rs.turnScratch = turnScratch{radius: c.SelfSpeed / omega, sign: sign}
	}
	SetScratch(c, a, rs)
}

func (a *RandomTTurnGammaPred) Apply(c *Ctx) {
	rs, ok := Scratch[randomTurnScratch](c, a)
	if !ok || rs.zero || rs.radius == 0 {
		return
	}
	centripetal := c.SelfMass * c.SelfSpeed * c.SelfSpeed / rs.radius
	c.Steering = c.Steering.Add(c.SelfDir.Perp().Scale(rs.sign * centripetal))
}

func (a *RandomTTurnGammaPred) CheckStateExit(c *Ctx, exitTick *int) {
	rs, ok := Scratch[randomTurnScratch](c, a)
	if !ok {
		return
	}
	candidate := c.Tick + rs.timeTicks
	if candidate < *exitTick {
		*exitTick = candidate
	}
}

// ZigZag behaves like TTurnPred but flips its turn sign every Time/2
// seconds for the duration of the state. If no predator is present at
// entry, the source emits zero force for the remainder of the
// activation rather than re-evaluating predator presence later — this
// implementation preserves that behavior.
type ZigZag struct {
	Turn float64 // radians
	Time float64 // seconds
}

func NewZigZag(turnDeg, timeSeconds float64) *ZigZag {
	return &ZigZag{Turn: turnDeg * math.Pi / 180, Time: timeSeconds}
}

type zigZagScratch struct {
	radius    float64
	baseSign  float64
	entryTick int
	zero      bool
}

func (a *ZigZag) OnEntry(c *Ctx) {
	sign := turnDirectionSign(c)
	if sign == 0 {
		SetScratch(c, a, zigZagScratch{zero: true, entryTick: c.Tick})
		return
	}
	omega := a.Turn / a.Time
	radius := c.SelfSpeed / omega
	SetScratch(c, a, zigZagScratch{radius: radius, baseSign: sign, entryTick: c.Tick})
}

func (a *ZigZag) Apply(c *Ctx) {
	zs, ok := Scratch[zigZagScratch](c, a)
	if !ok || zs.zero || zs.radius == 0 {
		return
	}
	elapsed := float64(c.Tick-zs.entryTick) * c.Dt
	halfPeriods := int(math.Floor(elapsed / (a.Time / 2)))
	sign := zs.baseSign
	if halfPeriods%2 != 0 {
		sign = -sign
	}
	centripetal := c.SelfMass * c.SelfSpeed * c.SelfSpeed / zs.radius
	c.Steering = c.Steering.Add(c.SelfDir.Perp().Scale(sign * centripetal))
}
