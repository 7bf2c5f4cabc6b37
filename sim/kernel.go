// Package sim implements the simulation kernel (C9): species
// populations, per-agent schedules, neighbor matrices, the flock
// tracker, and the tick loop with its update/integrate barrier.
package sim

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/hanno-h/flockpred/actions"
	"github.com/hanno-h/flockpred/agents"
	"github.com/hanno-h/flockpred/flock"
	"github.com/hanno-h/flockpred/internal/rng"
	"github.com/hanno-h/flockpred/internal/torus"
	"github.com/hanno-h/flockpred/neighbor"
)

// Kernel owns both species' populations, their per-tick neighbor
// matrices, the prey flock tracker, and the cross-thread gates described
// in spec §5. Exactly one goroutine (the run driver's worker) calls
// Update; any number of other goroutines may call the VisitAll/Visit/
// SetAlive/Snapshot gates concurrently.
type Kernel struct {
	World torus.World
	Dt    float64

	Prey []*agents.Prey
	Pred []*agents.Predator

	preyPreyNI *neighbor.Matrix
	preyPredNI *neighbor.Matrix
	predPreyNI *neighbor.Matrix
	predPredNI *neighbor.Matrix

	Flock *flock.Tracker

	FlockInterval int // ticks between clustering passes
	FlockThresh   float64
	nextFlockTick int

	tick       int
	terminated atomic.Bool
	mu         sync.Mutex

	workers []*rng.Source
	numWorkers int
}

// Config bundles the construction-time parameters Kernel needs beyond
// the already-built populations, so New stays a plain constructor rather
// than reaching into the config package itself (sim must not import
// config, to keep the dependency graph acyclic: config depends on
// nothing in sim).
type Config struct {
	World         torus.World
	Dt            float64
	FlockInterval int
	FlockThresh   float64
	NumWorkers    int
	Seed          uint64
}

// New constructs a Kernel from already-built agent populations (the
// config/driver layer is responsible for applying per-species config to
// produce these slices) and allocates the neighbor matrices and flock
// tracker. It stages initial next-update ticks across one second to
// avoid a thundering herd (spec §4.9); dead agents get the dead sentinel
// instead. For every alive agent it fills that agent's neighbor rows and
// runs state 0's Enter, then returns.
func New(cfg Config, prey []*agents.Prey, pred []*agents.Predator) *Kernel {
	k := &Kernel{
		World:         cfg.World,
		Dt:            cfg.Dt,
		Prey:          prey,
		Pred:          pred,
		FlockInterval: cfg.FlockInterval,
		FlockThresh:   cfg.FlockThresh,
		numWorkers:    cfg.NumWorkers,
	}
	if k.numWorkers < 1 {
		k.numWorkers = 1
	}
	k.workers = make([]*rng.Source, k.numWorkers)
	for i := range k.workers {
		k.workers[i] = rng.New(cfg.Seed + uint64(i)*0x100000001B3)
	}

	k.preyPreyNI = neighbor.NewMatrix(len(prey), len(prey))
	k.preyPredNI = neighbor.NewMatrix(len(prey), len(pred))
	k.predPreyNI = neighbor.NewMatrix(len(pred), len(prey))
	k.predPredNI = neighbor.NewMatrix(len(pred), len(pred))
	k.Flock = flock.NewTracker(len(prey))
	k.nextFlockTick = k.FlockInterval

	staggerSeconds := 1.0
	staggerTicks := int(staggerSeconds / cfg.Dt)
	if staggerTicks < 1 {
		staggerTicks = 1
	}
	src := k.workers[0]
	preyPos, preyDir, preySpd, preyAl := preyPositions(prey), preyDirections(prey), preySpeeds(prey), preyAlive(prey)
	predPos, predDir, predSpd, predAl := predatorPositions(pred), predatorDirections(pred), predatorSpeeds(pred), predatorAlive(pred)
	predTgt := predatorTargets(pred)
	for i, p := range prey {
		p.NextUpdate = src.UniformInt(0, staggerTicks-1)
		if !p.Alive {
			p.NextUpdate = agents.DeadSentinel
			continue
		}
		if p.Pkg != nil {
			k.preyPreyNI.Fill(i, preyPos[i], preyDir[i], preyPos, preyAl, true, k.World)
			k.preyPredNI.Fill(i, preyPos[i], preyDir[i], predPos, predAl, false, k.World)
			c := k.preyCtx(i, 0, src, preyPos, predPos, preyDir, predDir, preySpd, predSpd, preyAl, predAl, predTgt)
			p.Pkg.States[0].Enter(c, 0)
			p.Scratch = c.EntryScratch
		}
	}
	for i, p := range pred {
		p.NextUpdate = src.UniformInt(0, staggerTicks-1)
		if !p.Alive {
			p.NextUpdate = agents.DeadSentinel
			continue
		}
		if p.Pkg != nil {
			k.predPreyNI.Fill(i, predPos[i], predDir[i], preyPos, preyAl, false, k.World)
			k.predPredNI.Fill(i, predPos[i], predDir[i], predPos, predAl, true, k.World)
			c := k.predatorCtx(i, 0, src, preyPos, predPos, preyDir, predDir, preySpd, predSpd, preyAl, predAl, predTgt)
			p.Pkg.States[0].Enter(c, 0)
			p.Scratch = c.EntryScratch
		}
	}
	return k
}

// Tick returns the current tick count.
func (k *Kernel) Tick() int { return k.tick }

// Terminate sets the cooperative shutdown flag. Idempotent: calling it
// twice has the same effect as once (spec §8).
func (k *Kernel) Terminate() { k.terminated.Store(true) }

// Terminated reports whether Terminate has been called.
func (k *Kernel) Terminated() bool { return k.terminated.Load() }

// VisitAllPrey calls fn once per prey agent under the kernel mutex.
func (k *Kernel) VisitAllPrey(fn func(i int, p *agents.Prey)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for i, p := range k.Prey {
		fn(i, p)
	}
}

// VisitAllPredators calls fn once per predator agent under the kernel
// mutex.
func (k *Kernel) VisitAllPredators(fn func(i int, p *agents.Predator)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for i, p := range k.Pred {
		fn(i, p)
	}
}

// VisitPrey calls fn on prey agent i under the kernel mutex.
func (k *Kernel) VisitPrey(i int, fn func(p *agents.Prey)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	fn(k.Prey[i])
}

// VisitPredator calls fn on predator agent i under the kernel mutex.
func (k *Kernel) VisitPredator(i int, fn func(p *agents.Predator)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	fn(k.Pred[i])
}

// SetPredatorAlive flips predator i's alive flag under the kernel mutex.
// Flipping dead->alive restaggers its next_update over one second to
// avoid a thundering herd, matching spec §5's write gate contract.
func (k *Kernel) SetPredatorAlive(i int, alive bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	p := k.Pred[i]
	wasDead := !p.Alive
	p.Alive = alive
	if alive && wasDead {
		staggerTicks := int(1.0 / k.Dt)
		if staggerTicks < 1 {
			staggerTicks = 1
		}
		p.NextUpdate = k.tick + k.workers[0].UniformInt(0, staggerTicks-1)
	}
	if !alive {
		p.NextUpdate = agents.DeadSentinel
	}
}

// Snapshot is the per-species minimal persisted state, keyed to C9's
// get_snapshots/set_snapshots gate.
type Snapshot struct {
	Prey []agents.PreyRow
	Pred []agents.PredatorRow
}

// GetSnapshots copies out the current {p,d,s,a[,alive]} state of every
// agent under the kernel mutex. It always reflects a consistent
// end-of-tick state, never mid-integration, because it shares the same
// mutex the tick loop holds across both the update and integrate phases.
func (k *Kernel) GetSnapshots() Snapshot {
	k.mu.Lock()
	defer k.mu.Unlock()
	s := Snapshot{
		Prey: make([]agents.PreyRow, len(k.Prey)),
		Pred: make([]agents.PredatorRow, len(k.Pred)),
	}
	for i, p := range k.Prey {
		s.Prey[i] = p.ToRow(i)
	}
	for i, p := range k.Pred {
		s.Pred[i] = p.ToRow(i)
	}
	return s
}

// SetSnapshots installs a previously captured Snapshot, rejecting it if
// the per-species sizes don't match the kernel's populations (spec §7
// "Invalid snapshot").
func (k *Kernel) SetSnapshots(s Snapshot) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(s.Prey) != len(k.Prey) {
		return fmt.Errorf("snapshot prey count %d does not match population %d", len(s.Prey), len(k.Prey))
	}
	if len(s.Pred) != len(k.Pred) {
		return fmt.Errorf("snapshot predator count %d does not match population %d", len(s.Pred), len(k.Pred))
	}
	for i, row := range s.Prey {
		k.Prey[i].FromRow(row)
	}
	for i, row := range s.Pred {
		k.Pred[i].FromRow(row)
	}
	return nil
}

// PreyNeighbors returns a copy of prey i's sorted, alive-only same-species
// neighbor view, for observers that run after Update has released the
// mutex (spec §5's cross-thread gate contract).
func (k *Kernel) PreyNeighbors(i int) []neighbor.Record {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]neighbor.Record(nil), k.preyPreyNI.View(i)...)
}

// NearestPredatorForPrey returns the index and toroidal distance of the
// nearest alive predator as seen by prey i, or ok=false when no predator
// is alive.
func (k *Kernel) NearestPredatorForPrey(i int) (idx int, dist float64, ok bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v := k.preyPredNI.View(i)
	if len(v) == 0 {
		return 0, 0, false
	}
	return v[0].Idx, math.Sqrt(v[0].Dist2), true
}

// FlockDescriptors returns a copy of the current flock descriptor list.
func (k *Kernel) FlockDescriptors() []flock.Descriptor {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]flock.Descriptor(nil), k.Flock.Descriptors()...)
}

// predatorCtx builds a fresh Ctx for predator i from already-computed
// per-tick snapshot slices, rather than recomputing them per agent.
func (k *Kernel) predatorCtx(i, tick int, src *rng.Source, preyPos, predPos, preyDir, predDir []torus.Vec2, preySpd, predSpd []float64, preyAl, predAl []bool, predTgt []int) *actions.Ctx {
	p := k.Pred[i]
	override := new(float64)
	newPos, newDir, newSpeed := p.Body.Pos, p.Body.Dir, p.Body.Speed
	return &actions.Ctx{
		World: k.World, Dt: k.Dt, RNG: src, Tick: tick, SelfIdx: i,
		SelfPos: p.Body.Pos, SelfDir: p.Body.Dir, SelfSpeed: p.Body.Speed,
		SelfMass: p.Body.Aero.BodyMass,

		PredView:             k.predPredNI.View(i),
		PredPos:              predPos,
		PredDir:              predDir,
		PredSpd:              predSpd,
		PredAlive:            predAl,
		PredTargetIndividual: predTgt,

		PreyView:  k.predPreyNI.View(i),
		PreyPos:   preyPos,
		PreyDir:   preyDir,
		PreySpd:   preySpd,
		PreyAlive: preyAl,

		PreyFlocks: k.Flock,

		TargetIndividual:    &p.TargetIndividual,
		TargetFlock:         &p.TargetFlock,
		CruiseSpeedOverride: override,

		NewPos:   &newPos,
		NewDir:   &newDir,
		NewSpeed: &newSpeed,

		EntryScratch: p.Scratch,
	}
}

// preyCtx builds a fresh Ctx for prey i from already-computed per-tick
// snapshot slices.
func (k *Kernel) preyCtx(i, tick int, src *rng.Source, preyPos, predPos, preyDir, predDir []torus.Vec2, preySpd, predSpd []float64, preyAl, predAl []bool, predTgt []int) *actions.Ctx {
	p := k.Prey[i]
	override := new(float64)
	return &actions.Ctx{
		World: k.World, Dt: k.Dt, RNG: src, Tick: tick, SelfIdx: i,
		SelfPos: p.Body.Pos, SelfDir: p.Body.Dir, SelfSpeed: p.Body.Speed,
		SelfMass: p.Body.Aero.BodyMass,

		PreyView:  k.preyPreyNI.View(i),
		PreyPos:   preyPos,
		PreyDir:   preyDir,
		PreySpd:   preySpd,
		PreyAlive: preyAl,

		PredView:             k.preyPredNI.View(i),
		PredPos:              predPos,
		PredDir:              predDir,
		PredSpd:              predSpd,
		PredAlive:            predAl,
		PredTargetIndividual: predTgt,

		AlignAngle:  &p.AlignAngle,
		CohereAngle: &p.CohereAngle,
		SepAngle:    &p.SepAngle,
		AmTarget:    &p.AmTarget,

		CruiseSpeedOverride: override,

		EntryScratch: p.Scratch,
	}
}
