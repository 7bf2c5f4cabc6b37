package sim

import (
	"github.com/hanno-h/flockpred/agents"
	"github.com/hanno-h/flockpred/flight"
	"github.com/hanno-h/flockpred/internal/torus"
)

func preyPositions(p []*agents.Prey) []torus.Vec2 {
	out := make([]torus.Vec2, len(p))
	for i, a := range p {
		out[i] = a.Body.Pos
	}
	return out
}

func preyDirections(p []*agents.Prey) []torus.Vec2 {
	out := make([]torus.Vec2, len(p))
	for i, a := range p {
		out[i] = a.Body.Dir
	}
	return out
}

func preySpeeds(p []*agents.Prey) []float64 {
	out := make([]float64, len(p))
	for i, a := range p {
		out[i] = a.Body.Speed
	}
	return out
}

func preyAlive(p []*agents.Prey) []bool {
	out := make([]bool, len(p))
	for i, a := range p {
		out[i] = a.Alive
	}
	return out
}

func predatorPositions(p []*agents.Predator) []torus.Vec2 {
	out := make([]torus.Vec2, len(p))
	for i, a := range p {
		out[i] = a.Body.Pos
	}
	return out
}

func predatorDirections(p []*agents.Predator) []torus.Vec2 {
	out := make([]torus.Vec2, len(p))
	for i, a := range p {
		out[i] = a.Body.Dir
	}
	return out
}

func predatorSpeeds(p []*agents.Predator) []float64 {
	out := make([]float64, len(p))
	for i, a := range p {
		out[i] = a.Body.Speed
	}
	return out
}

func predatorAlive(p []*agents.Predator) []bool {
	out := make([]bool, len(p))
	for i, a := range p {
		out[i] = a.Alive
	}
	return out
}

func predatorTargets(p []*agents.Predator) []int {
	out := make([]int, len(p))
	for i, a := range p {
		out[i] = a.TargetIndividual
	}
	return out
}

// updatePrey resumes every alive prey agent's state machine whose
// reaction time has elapsed, using the tick's shared snapshot slices.
// Grounded on original_source/model/simulation.cpp's update_prey, split
// across k.numWorkers via parallelFor as game/parallel.go does.
func (k *Kernel) updatePrey(tick int, preyPos, predPos, preyDir, predDir []torus.Vec2, preySpd, predSpd []float64, preyAl, predAl []bool, predTgt []int) {
	k.parallelFor(len(k.Prey), func(w, lo, hi int) {
		src := k.workers[w]
		for i := lo; i < hi; i++ {
			p := k.Prey[i]
			if !p.Alive || p.NextUpdate > tick {
				continue
			}
			k.preyPreyNI.Fill(i, preyPos[i], preyDir[i], preyPos, preyAl, true, k.World)
			k.preyPredNI.Fill(i, preyPos[i], preyDir[i], predPos, predAl, false, k.World)

			c := k.preyCtx(i, tick, src, preyPos, predPos, preyDir, predDir, preySpd, predSpd, preyAl, predAl, predTgt)
			reactionTicks, aero := p.Pkg.Resume(c, tick, 0, src)
			p.Scratch = c.EntryScratch

			applyStateAero(&p.Body, aero, p.Body.Aero.CruiseSpeedSd, *c.CruiseSpeedOverride, src)
			p.Body.Steering = c.Steering
			p.NextUpdate = tick + reactionTicks
			p.LastUpdate = tick
		}
	})
}

// updatePredators mirrors updatePrey for the predator species, and also
// applies teleport outputs (Set/SetFromFlock/SetRetreat/Hold/HoldCurrent
// actions write NewPos/NewDir/NewSpeed directly).
func (k *Kernel) updatePredators(tick int, preyPos, predPos, preyDir, predDir []torus.Vec2, preySpd, predSpd []float64, preyAl, predAl []bool, predTgt []int) {
	k.parallelFor(len(k.Pred), func(w, lo, hi int) {
		src := k.workers[w]
		for i := lo; i < hi; i++ {
			p := k.Pred[i]
			if !p.Alive || p.NextUpdate > tick {
				continue
			}
			k.predPreyNI.Fill(i, predPos[i], predDir[i], preyPos, preyAl, false, k.World)
			k.predPredNI.Fill(i, predPos[i], predDir[i], predPos, predAl, true, k.World)

			c := k.predatorCtx(i, tick, src, preyPos, predPos, preyDir, predDir, preySpd, predSpd, preyAl, predAl, predTgt)
			reactionTicks, aero := p.Pkg.Resume(c, tick, 0, src)
			p.Scratch = c.EntryScratch

			applyStateAero(&p.Body, aero, p.Body.Aero.CruiseSpeedSd, *c.CruiseSpeedOverride, src)
			p.Body.Steering = c.Steering
			p.Body.Pos = *c.NewPos
			p.Body.Dir = *c.NewDir
			p.Body.Speed = *c.NewSpeed
			p.NextUpdate = tick + reactionTicks
			p.LastUpdate = tick
		}
	})
}

// integratePrey advances every alive prey agent's flight physics using
// the steering force its update phase accumulated.
func (k *Kernel) integratePrey() {
	k.parallelFor(len(k.Prey), func(w, lo, hi int) {
		for i := lo; i < hi; i++ {
			p := k.Prey[i]
			if !p.Alive {
				continue
			}
			flight.Integrate(&p.Body, p.Body.Steering, k.Dt, k.World)
		}
	})
}

// integratePredators mirrors integratePrey for predators.
func (k *Kernel) integratePredators() {
	k.parallelFor(len(k.Pred), func(w, lo, hi int) {
		for i := lo; i < hi; i++ {
			p := k.Pred[i]
			if !p.Alive {
				continue
			}
			flight.Integrate(&p.Body, p.Body.Steering, k.Dt, k.World)
		}
	})
}

// refreshFlocks either runs a full clustering pass (on schedule) or
// advances each tracked flock's centroid by its last known velocity
// (spec §4.8's cheaper between-passes interpolation).
func (k *Kernel) refreshFlocks() {
	if k.tick >= k.nextFlockTick {
		pos := preyPositions(k.Prey)
		alive := preyAlive(k.Prey)
		vel := make([]torus.Vec2, len(k.Prey))
		for i, a := range k.Prey {
			vel[i] = a.Body.Dir.Scale(a.Body.Speed)
		}
		k.Flock.Cluster(pos, vel, alive, k.FlockThresh, k.World)
		for i, p := range k.Prey {
			p.FlockID = k.Flock.FlockOf(i)
		}
		k.nextFlockTick = k.tick + k.FlockInterval
	} else {
		k.Flock.Track(k.Dt, k.World)
	}
}

// Update runs exactly one tick: refresh neighbor rows and resume the
// state machine for every agent whose reaction time has elapsed
// (update phase), then integrate every alive agent's flight physics
// (integrate phase) across the horizontal barrier parallelFor
// enforces, then advance or recompute the flock tracker, then notify
// the observer chain with Tick outside the kernel mutex. Grounded on
// original_source/model/simulation.cpp's Simulation::update and spec
// §4.9's tick-loop ordering.
func (k *Kernel) Update(chain Observer) {
	k.mu.Lock()

	preyPos := preyPositions(k.Prey)
	preyDir := preyDirections(k.Prey)
	preySpd := preySpeeds(k.Prey)
	preyAl := preyAlive(k.Prey)
	predPos := predatorPositions(k.Pred)
	predDir := predatorDirections(k.Pred)
	predSpd := predatorSpeeds(k.Pred)
	predAl := predatorAlive(k.Pred)
	predTgt := predatorTargets(k.Pred)

	tick := k.tick

	k.updatePrey(tick, preyPos, predPos, preyDir, predDir, preySpd, predSpd, preyAl, predAl, predTgt)
	k.updatePredators(tick, preyPos, predPos, preyDir, predDir, preySpd, predSpd, preyAl, predAl, predTgt)

	k.integratePrey()
	k.integratePredators()

	k.refreshFlocks()

	k.tick++
	k.mu.Unlock()

	NotifyChain(chain, Tick, k)
}

// applyStateAero installs a state's cruise-speed target onto body,
// adding the per-agent cruise-speed-sd jitter the original resamples
// every resume, and honoring a hunting action's CruiseSpeedOverride
// (nonzero) in place of the state's own target.
func applyStateAero(b *flight.Body, aero flight.StateAero, sd float64, override float64, src normalSampler) {
	target := aero.CruiseSpeed
	if override != 0 {
		target = override
	}
	if sd > 0 {
		target += src.Normal(0, sd)
	}
	b.State = flight.StateAero{CruiseSpeed: target, W: aero.W}
}

// normalSampler is satisfied by *rng.Source; kept as a narrow interface
// so applyStateAero doesn't need to import internal/rng just to name
// the concrete type.
type normalSampler interface {
	Normal(mu, sigma float64) float64
}
