package config

import (
	"fmt"
	"io"
	"math"

	"github.com/hanno-h/flockpred/actions"
	"github.com/hanno-h/flockpred/agents"
	"github.com/hanno-h/flockpred/flight"
	"github.com/hanno-h/flockpred/flock"
	"github.com/hanno-h/flockpred/internal/rng"
	"github.com/hanno-h/flockpred/internal/torus"
	"github.com/hanno-h/flockpred/sim"
	"github.com/hanno-h/flockpred/states"
)

// buildAction is the one-time, string-keyed dispatch point spec §9
// requires to stay off the hot path: it runs once per state at startup
// and turns one config action entry into a concrete actions.Action.
// Grounded on the full actions/*.go inventory read against
// original_source/actions/*.hpp.
func buildAction(name string, p map[string]interface{}) (actions.Action, error) {
	switch name {
	case "align_n":
		return actions.NewAlignN(pi(p, "topo", 0), pf(p, "fov", 360), pf(p, "maxdist", 0), pf(p, "w", 0)), nil
	case "cohere_turn_n_all":
		return actions.NewCohereTurnNAll(pi(p, "topo", 0), pf(p, "fov", 360), pf(p, "maxdist", 0), pf(p, "w", 0)), nil
	case "cohere_accel_n_front":
		return actions.NewCohereAccelNFront(
			pi(p, "topo", 0), pf(p, "fov", 360), pf(p, "ffov", 360), pf(p, "maxdist", 0),
			pf(p, "min_accel_dist", 0), pf(p, "max_accel_dist", 0), pf(p, "w", 0), pf(p, "decel_w", 0),
		), nil
	case "avoid_n_position":
		return actions.NewAvoidNPosition(pi(p, "topo", 0), pf(p, "fov", 360), pf(p, "maxdist", 0), pf(p, "minsep", 0), pf(p, "w", 0)), nil
	case "avoid_p_position":
		return &actions.AvoidPPosition{
			MinSep2: pf(p, "minsep", 0) * pf(p, "minsep", 0),
			W:       pf(p, "w", 0),
			UseFOV:  pb(p, "use_fov", false),
			CFov:    torus.CosFromDegrees(pf(p, "fov", 360)),
		}, nil
	case "avoid_p_direction":
		return actions.NewAvoidPDirection(pf(p, "minsep", 0), pf(p, "w", 0)), nil
	case "t_turn_pred":
		if pf(p, "time", 0) <= 0 {
			return nil, fmt.Errorf("t_turn_pred requires a nonzero time")
		}
		return actions.NewTTurnPred(pf(p, "turn", 0), pf(p, "time", 0)), nil
	case "random_t_turn_pred":
		if pf(p, "time_max", 0) <= 0 {
			return nil, fmt.Errorf("random_t_turn_pred requires a nonzero time_max")
		}
		return &actions.RandomTTurnPred{
			TurnMin: pf(p, "turn_min", 0), TurnMax: pf(p, "turn_max", 0),
			TimeMin: pf(p, "time_min", 0), TimeMax: pf(p, "time_max", 0),
		}, nil
	case "random_t_turn_gamma_pred":
		if pf(p, "time_mu", 0) <= 0 {
			return nil, fmt.Errorf("random_t_turn_gamma_pred requires a nonzero time_mu")
		}
		return &actions.RandomTTurnGammaPred{
			TurnMu: pf(p, "turn_mu", 0), TurnSd: pf(p, "turn_sd", 0),
			TimeMu: pf(p, "time_mu", 0), TimeSd: pf(p, "time_sd", 0),
		}, nil
	case "zig_zag":
		if pf(p, "time", 0) <= 0 {
			return nil, fmt.Errorf("zig_zag requires a nonzero time")
		}
		return actions.NewZigZag(pf(p, "turn", 0), pf(p, "time", 0)), nil
	case "wiggle":
		return &actions.Wiggle{W: pf(p, "w", 0)}, nil
	case "r_turn":
		return &actions.RTurn{Radius: pf(p, "radius", 0), W: pf(p, "w", 0)}, nil
	case "t_turn":
		if pf(p, "time", 0) <= 0 {
			return nil, fmt.Errorf("t_turn requires a nonzero time")
		}
		return actions.NewTTurn(pf(p, "turn", 0), pf(p, "time", 0)), nil
	case "chase_closest_prey":
		return &actions.ChaseClosestPrey{W: pf(p, "w", 0), PreySpeedScale: pf(p, "prey_speed_scale", 1)}, nil
	case "lock_on_closest_prey":
		return &actions.LockOnClosestPrey{W: pf(p, "w", 0), PreySpeedScale: pf(p, "prey_speed_scale", 1)}, nil
	case "avoid_closest_prey":
		return &actions.AvoidClosestPrey{W: pf(p, "w", 0)}, nil
	case "select_flock":
		return &actions.SelectFlock{Selection: actions.ParseFlockSelection(ps(p, "selection", "nearest"))}, nil
	case "shadowing":
		return &actions.Shadowing{
			Bearing:        pf(p, "bearing", 0) * math.Pi / 180,
			Distance:       pf(p, "distance", 0),
			Placement:      pb(p, "placement", false),
			W:              pf(p, "w", 0),
			PreySpeedScale: pf(p, "prey_speed_scale", 1),
		}, nil
	case "waypoint":
		tol := pmap(p, "tolerance")
		distOuter := pf(tol, "dist_outer", 0)
		distInner := pf(tol, "dist_inner", 0)
		return &actions.Waypoint{
			Pos: pvec(p, "pos"),
			Tolerance: actions.WaypointTolerance{
				Dist2Outer: distOuter * distOuter,
				Dist2Inner: distInner * distInner,
				CosAngle:   torus.CosFromDegrees(2 * pf(tol, "deg_angle", 0)),
			},
			W: pf(p, "w", 0),
		}, nil
	case "set":
		return &actions.Set{Pos: pvec(p, "pos"), Dir: pvec(p, "dir"), Speed: pf(p, "speed", 0)}, nil
	case "set_from_flock":
		return &actions.SetFromFlock{
			Bearing:        pf(p, "bearing", 0) * math.Pi / 180,
			Distance:       pf(p, "distance", 0),
			PreySpeedScale: pf(p, "prey_speed_scale", 1),
		}, nil
	case "set_retreat":
		if pf(p, "dist_away", 0) == 0 {
			return nil, fmt.Errorf("set_retreat requires a nonzero dist_away")
		}
		return &actions.SetRetreat{DistAway: pf(p, "dist_away", 0), Speed: pf(p, "speed", 0)}, nil
	case "hold":
		return &actions.Hold{Pos: pvec(p, "pos"), W: pf(p, "w", 0)}, nil
	case "hold_current":
		return &actions.HoldCurrent{W: pf(p, "w", 0)}, nil
	default:
		return nil, fmt.Errorf("unknown action %q", name)
	}
}

// buildActionLists constructs one shared, stateless []actions.Action per
// state, built once and reused by every agent's per-state wrapper: the
// actions themselves hold no per-agent mutable data (spec §9's entry
// scratch lives in the per-tick Ctx, keyed by action pointer identity),
// only the Persistent/Transient wrapper around them needs a fresh
// instance per agent to carry its own exit tick.
func buildActionLists(entries []StateEntry) ([][]actions.Action, error) {
	out := make([][]actions.Action, len(entries))
	for i, se := range entries {
		acts := make([]actions.Action, len(se.Actions))
		for j, ae := range se.Actions {
			a, err := buildAction(ae.Name, ae.Params)
			if err != nil {
				return nil, fmt.Errorf("state %q action %d: %w", se.Name, j, err)
			}
			acts[j] = a
		}
		out[i] = acts
	}
	return out, nil
}

func buildTransitions(sp Species) (*states.Transitions, error) {
	if sp.Transitions == nil {
		if len(sp.States) > 1 {
			return nil, fmt.Errorf("%d states declared but no transitions block", len(sp.States))
		}
		return nil, nil
	}
	return states.NewTransitions(sp.Transitions.Edges, sp.Transitions.Matrices), nil
}

func ticksOf(seconds, dt float64) int {
	return int(math.Round(seconds / dt))
}

// newAgentStates builds one agent's own State wrappers (each owning its
// own exitTick) around the species' shared action lists.
func newAgentStates(sharedActions [][]actions.Action, entries []StateEntry, dt float64) []states.State {
	out := make([]states.State, len(entries))
	for i, se := range entries {
		aero := flight.StateAero{CruiseSpeed: se.AeroState.CruiseSpeed, W: se.AeroState.W}
		trTicks := ticksOf(se.Tr, dt)
		if se.Duration > 0 {
			out[i] = &states.Persistent{ActionList: sharedActions[i], Tr: trTicks, Duration: ticksOf(se.Duration, dt), AeroState: aero}
		} else {
			out[i] = &states.Transient{ActionList: sharedActions[i], Tr: trTicks, AeroState: aero}
		}
	}
	return out
}

// aeroConfigOf converts a config.Aero block into flight.AeroConfig.
func aeroConfigOf(a Aero) flight.AeroConfig {
	return flight.AeroConfig{
		BodyMass: a.BodyMass, BodyMassSd: a.BodyMassSd,
		CruiseSpeed: a.CruiseSpeed, CruiseSpeedSd: a.CruiseSpeedSd,
		WingArea: a.WingArea, MinSpeed: a.MinSpeed, MaxSpeed: a.MaxSpeed,
	}
}

// BuildPreyPopulation constructs sp.N prey agents from config: their
// aero envelope (with per-agent jitter), initial physical state (via
// the configured init_condit generator), and fresh per-agent state
// package built from shared, once-constructed action lists.
func BuildPreyPopulation(sp Species, w torus.World, dt float64, src *rng.Source) ([]*agents.Prey, error) {
	sharedActions, err := buildActionLists(sp.States)
	if err != nil {
		return nil, fmt.Errorf("prey: %w", err)
	}
	trans, err := buildTransitions(sp)
	if err != nil {
		return nil, fmt.Errorf("prey: %w", err)
	}
	gen, err := NewGenerator(sp.InitCondit)
	if err != nil {
		return nil, fmt.Errorf("prey: %w", err)
	}
	if c, ok := gen.(io.Closer); ok {
		defer c.Close()
	}
	aeroCfg := aeroConfigOf(sp.Aero)
	out := make([]*agents.Prey, sp.N)
	for i := 0; i < sp.N; i++ {
		aero := flight.NewAeroInfo(aeroCfg, src)
		sample, err := gen.Next(i, src, w, aero.CruiseSpeed)
		if err != nil {
			return nil, fmt.Errorf("prey %d: %w", i, err)
		}
		p := &agents.Prey{
			Body:    flight.Body{Pos: w.WrapVec(sample.Pos), Dir: sample.Dir, Speed: sample.Speed, Aero: aero},
			Alive:   sample.Alive,
			FlockID: flock.NoFlock,
		}
		var sampler *states.Sampler
		if trans != nil {
			sampler = states.NewSampler(trans)
		}
		p.Pkg = &states.Package{States: newAgentStates(sharedActions, sp.States, dt), Sampler: sampler}
		out[i] = p
	}
	return out, nil
}

// BuildPredatorPopulation is BuildPreyPopulation's predator counterpart.
// The predator package additionally resets TargetIndividual/TargetFlock
// to "none" on every state exit (OnExit), matching on_state_exit in
// agents/predator.hpp.
func BuildPredatorPopulation(sp Species, w torus.World, dt float64, src *rng.Source) ([]*agents.Predator, error) {
	sharedActions, err := buildActionLists(sp.States)
	if err != nil {
		return nil, fmt.Errorf("predator: %w", err)
	}
	trans, err := buildTransitions(sp)
	if err != nil {
		return nil, fmt.Errorf("predator: %w", err)
	}
	gen, err := NewGenerator(sp.InitCondit)
	if err != nil {
		return nil, fmt.Errorf("predator: %w", err)
	}
	if c, ok := gen.(io.Closer); ok {
		defer c.Close()
	}
	aeroCfg := aeroConfigOf(sp.Aero)
	out := make([]*agents.Predator, sp.N)
	for i := 0; i < sp.N; i++ {
		aero := flight.NewAeroInfo(aeroCfg, src)
		sample, err := gen.Next(i, src, w, aero.CruiseSpeed)
		if err != nil {
			return nil, fmt.Errorf("predator %d: %w", i, err)
		}
		pr := &agents.Predator{
			Body:             flight.Body{Pos: w.WrapVec(sample.Pos), Dir: sample.Dir, Speed: sample.Speed, Aero: aero},
			Alive:            sample.Alive,
			TargetIndividual: -1,
			TargetFlock:      -1,
		}
		var sampler *states.Sampler
		if trans != nil {
			sampler = states.NewSampler(trans)
		}
		pr.Pkg = &states.Package{
			States:  newAgentStates(sharedActions, sp.States, dt),
			Sampler: sampler,
			OnExit: func(c *actions.Ctx) {
				if c.TargetIndividual != nil {
					*c.TargetIndividual = -1
				}
				if c.TargetFlock != nil {
					*c.TargetFlock = -1
				}
			},
		}
		out[i] = pr
	}
	return out, nil
}

// BuildKernel loads both species' populations from cfg and constructs
// the simulation kernel.
func BuildKernel(cfg *Config) (*sim.Kernel, error) {
	w := torus.World{W: cfg.Simulation.WH}
	dt := cfg.Simulation.Dt
	src := rng.New(cfg.Simulation.Seed)

	prey, err := BuildPreyPopulation(cfg.Prey, w, dt, src)
	if err != nil {
		return nil, err
	}
	pred, err := BuildPredatorPopulation(cfg.Predator, w, dt, src)
	if err != nil {
		return nil, err
	}

	numWorkers := cfg.Simulation.NumThreads
	if numWorkers < 1 {
		numWorkers = 1
	}
	k := sim.New(sim.Config{
		World:         w,
		Dt:            dt,
		FlockInterval: ticksOf(cfg.Simulation.FlockDetection.Interval, dt),
		FlockThresh:   cfg.Simulation.FlockDetection.Threshold,
		NumWorkers:    numWorkers,
		Seed:          cfg.Simulation.Seed ^ 0xA5A5A5A5,
	}, prey, pred)
	return k, nil
}
