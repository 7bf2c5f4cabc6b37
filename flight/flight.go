// Package flight implements the simplified aerodynamic model: per-agent
// aero parameters, the per-state cruise target, and the midpoint flight
// integrator that turns a steering force into a new position/velocity.
package flight

import (
	"math"

	"github.com/hanno-h/flockpred/internal/rng"
	"github.com/hanno-h/flockpred/internal/torus"
)

// Gravity is the standard gravitational acceleration used by the bank
// angle calculation.
const Gravity = 9.81

// AeroInfo holds the fixed aerodynamic envelope of one agent.
type AeroInfo struct {
	BodyMass      float64
	CruiseSpeed   float64
	CruiseSpeedSd float64
	MinSpeed      float64
	MaxSpeed      float64
	WingArea      float64
}

// CruiseSpeed derives an equilibrium airspeed from body mass and wing
// area using the original's empirical wing-loading formula.
func CruiseSpeed(bodyMass, wingArea float64) float64 {
	wingLoad := bodyMass * Gravity / wingArea
	return 4.8 * math.Pow(wingLoad, 0.28)
}

// AeroConfig is the config-file-shaped description of a species' aero
// envelope, including jitter parameters applied per agent at
// construction.
type AeroConfig struct {
	BodyMass      float64
	BodyMassSd    float64
	CruiseSpeed   float64 // 0 means derive from body mass/wing area
	CruiseSpeedSd float64
	WingArea      float64
	MinSpeed      float64
	MaxSpeed      float64
}

// NewAeroInfo builds one agent's AeroInfo from a species AeroConfig,
// applying uniform jitter to body mass as the original does at agent
// construction time.
func NewAeroInfo(cfg AeroConfig, src *rng.Source) AeroInfo {
	mass := cfg.BodyMass
	if cfg.BodyMassSd > 0 {
		mass += src.UniformRange(-cfg.BodyMassSd, cfg.BodyMassSd)
	}
	cruise := cfg.CruiseSpeed
	if cruise <= 0 {
		cruise = CruiseSpeed(mass, cfg.WingArea)
	}
	return AeroInfo{
		BodyMass:      mass,
		CruiseSpeed:   cruise,
		CruiseSpeedSd: cfg.CruiseSpeedSd,
		MinSpeed:      cfg.MinSpeed,
		MaxSpeed:      cfg.MaxSpeed,
		WingArea:      cfg.WingArea,
	}
}

// StateAero is the per-state cruise target: the speed a persistent or
// transient state restores the agent toward, and the restoring weight.
type StateAero struct {
	CruiseSpeed float64
	W           float64
}

// Body is the mutable flight state a tick's integrate step reads and
// writes. It intentionally mirrors the common agent fields of spec §3.
type Body struct {
	Pos      torus.Vec2
	Dir      torus.Vec2
	Speed    float64
	Accel    torus.Vec2
	AngVel   float64
	Aero     AeroInfo
	State    StateAero

	// Steering is the action chain's accumulated force for the tick
	// about to be integrated. The update phase writes it; the integrate
	// phase reads and consumes it.
	Steering torus.Vec2
}

// Integrate advances Body by one dt using the midpoint method, adding a
// cruise-speed restoring force to the supplied steering accumulator
// before integrating, exactly as spec §4.3 describes.
func Integrate(b *Body, steering torus.Vec2, dt float64, w torus.World) {
	restoring := b.Dir.Scale(b.State.W * (b.State.CruiseSpeed - b.Speed) * b.Aero.BodyMass)
	force := steering.Add(restoring)

	v0 := b.Dir.Scale(b.Speed)
	vHalf := v0.Add(b.Accel.Scale(dt / 2))
	newPos := b.Pos.Add(vHalf.Scale(dt))

	newAccel := force.Scale(1 / b.Aero.BodyMass)
	vFull := vHalf.Add(newAccel.Scale(dt / 2))

	oldDir := b.Dir
	speed := vFull.Length()
	b.AngVel = torus.RadBetween(vFull, oldDir) / dt

	b.Speed = torus.Clamp(speed, b.Aero.MinSpeed, b.Aero.MaxSpeed)
	b.Dir = torus.SafeNormalize(vFull, oldDir)
	b.Accel = newAccel
	b.Pos = w.WrapVec(newPos)
}

// Bank returns the informational bank angle (radians) for the current
// lateral force magnitude, using L = m*g*(speed/cruiseSpeed)^2 as the
// notional lift.
func Bank(b Body, lateralForce float64) float64 {
	if b.State.CruiseSpeed <= 0 {
		return 0
	}
	ratio := b.Speed / b.State.CruiseSpeed
	lift := b.Aero.BodyMass * Gravity * ratio * ratio
	if lift <= 0 {
		return 0
	}
	x := torus.Clamp(lateralForce/lift, -1, 1)
	return math.Asin(x)
}
