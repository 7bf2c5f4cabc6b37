package config

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/hanno-h/flockpred/internal/rng"
	"github.com/hanno-h/flockpred/internal/torus"
)

// Sample is one agent's generated initial physical state.
type Sample struct {
	Pos   torus.Vec2
	Dir   torus.Vec2
	Speed float64
	Alive bool
}

// Generator produces one Sample per call to Next, in population order.
// Grounded on original_source/model/init_cond.hpp's five generator
// classes (SPEC_FULL.md "SUPPLEMENTED FEATURES" §1).
type Generator interface {
	Next(i int, src *rng.Source, w torus.World, cruiseSpeed float64) (Sample, error)
}

// NewGenerator builds the Generator named by ic.Type.
func NewGenerator(ic InitCondit) (Generator, error) {
	switch ic.Type {
	case "", "none", "defined":
		return &definedGen{
			pos0:      pvec(ic.Params, "pos0"),
			dir0:      normalizedOrUnitX(pvec(ic.Params, "dir0")),
			radius:    pf(ic.Params, "radius", 0),
			headingSd: pf(ic.Params, "heading_sd", 0),
		}, nil
	case "random":
		return &randomGen{alive: true}, nil
	case "random_dead":
		return &randomGen{alive: false}, nil
	case "flock":
		return &flockGen{
			dir0:      normalizedOrUnitX(pvec(ic.Params, "dir0")),
			radius:    pf(ic.Params, "radius", 0),
			headingSd: pf(ic.Params, "heading_sd", 0),
		}, nil
	case "csv":
		return newCSVGen(ps(ic.Params, "path", ""))
	default:
		return nil, fmt.Errorf("config: unknown init_condit type %q", ic.Type)
	}
}

func normalizedOrUnitX(v torus.Vec2) torus.Vec2 {
	if v.Length2() < 1e-12 {
		return torus.Vec2{X: 1, Y: 0}
	}
	return torus.SafeNormalize(v, torus.Vec2{X: 1, Y: 0})
}

// definedGen places agents in a jittered box around pos0, heading
// deviated from dir0 by a normal-distributed angle, at a fixed speed.
// Grounded on init_cond.hpp's defined_cond.
type definedGen struct {
	pos0      torus.Vec2
	dir0      torus.Vec2
	radius    float64
	headingSd float64
}

func (g *definedGen) Next(i int, src *rng.Source, w torus.World, cruiseSpeed float64) (Sample, error) {
	jitter := torus.Vec2{X: src.UniformRange(-g.radius, g.radius), Y: src.UniformRange(-g.radius, g.radius)}
	pos := w.WrapVec(g.pos0.Add(jitter))
	angle := src.Normal(0, g.headingSd)
	dir := g.dir0.Rotate(angle)
	return Sample{Pos: pos, Dir: dir, Speed: cruiseSpeed, Alive: true}, nil
}

// randomGen places agents uniformly over the whole torus with a
// uniformly random heading. Grounded on init_cond.hpp's random_cond;
// random_dead shares this generator with alive=false (init_cond.hpp's
// random_cond_dead).
type randomGen struct {
	alive bool
}

func (g *randomGen) Next(i int, src *rng.Source, w torus.World, cruiseSpeed float64) (Sample, error) {
	pos := torus.Vec2{X: src.UniformRange(0, w.W), Y: src.UniformRange(0, w.W)}
	angle := src.UniformRange(0, 2*math.Pi)
	dir := torus.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
	return Sample{Pos: pos, Dir: dir, Speed: cruiseSpeed, Alive: g.alive}, nil
}

// flockGen places agents in a box of side radius anchored at the world
// origin (no pos0 offset is applied), clustering them near (0,0) rather
// than around a configured center. This literal quirk of init_cond.hpp's
// flock_cond is preserved rather than "fixed": per SPEC_FULL.md, the
// flock initial condition is meant to seed a tight single flock, and the
// original always does so at the origin regardless of pos0.
type flockGen struct {
	dir0      torus.Vec2
	radius    float64
	headingSd float64
}

func (g *flockGen) Next(i int, src *rng.Source, w torus.World, cruiseSpeed float64) (Sample, error) {
	pos := torus.Vec2{X: g.radius * src.Float64(), Y: g.radius * src.Float64()}
	angle := src.Normal(0, g.headingSd)
	dir := g.dir0.Rotate(angle)
	return Sample{Pos: pos, Dir: dir, Speed: cruiseSpeed, Alive: true}, nil
}

// csvGen reads one row per Next call from an already-open file whose
// header line has been consumed, matching init_cond.hpp's csv_cond.
// Row layout: id,posx,posy,dirx,diry,speed,accelx,accely[,alive],
// matching agents.PreyRow/PredatorRow.
type csvGen struct {
	f        *os.File
	r        *csv.Reader
	hasAlive bool
}

func newCSVGen(path string) (*csvGen, error) {
	if path == "" {
		return nil, fmt.Errorf("config: init_condit type csv requires a path")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: opening init_condit csv %q: %w", path, err)
	}
	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("config: reading header of %q: %w", path, err)
	}
	hasAlive := false
	for _, h := range header {
		if h == "alive" {
			hasAlive = true
		}
	}
	return &csvGen{f: f, r: r, hasAlive: hasAlive}, nil
}

func (g *csvGen) Next(i int, src *rng.Source, w torus.World, cruiseSpeed float64) (Sample, error) {
	rec, err := g.r.Read()
	if err != nil {
		return Sample{}, fmt.Errorf("config: reading init_condit csv row %d: %w", i, err)
	}
	if len(rec) < 6 {
		return Sample{}, fmt.Errorf("config: init_condit csv row %d has %d columns, want at least 6", i, len(rec))
	}
	parse := func(s string) float64 {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	s := Sample{
		Pos:   torus.Vec2{X: parse(rec[1]), Y: parse(rec[2])},
		Dir:   torus.Vec2{X: parse(rec[3]), Y: parse(rec[4])},
		Speed: parse(rec[5]),
		Alive: true,
	}
	if g.hasAlive && len(rec) >= 9 {
		s.Alive = rec[8] == "true" || rec[8] == "1"
	}
	return s, nil
}

// Close closes the underlying file. Only csvGen holds one and implements
// io.Closer; build.go closes a generator only when it is an io.Closer.
func (g *csvGen) Close() error { return g.f.Close() }
