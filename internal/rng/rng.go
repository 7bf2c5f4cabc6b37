// Package rng provides per-goroutine random number contexts and the
// distributions the action and state-transition code draws from. Every
// tick-loop worker owns its own Source, so no mutable RNG state is ever
// shared between goroutines.
package rng

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source is a per-worker random number context. It is not safe for
// concurrent use by more than one goroutine; the simulation kernel hands
// out one Source per parallel worker (see sim.Kernel's workers).
type Source struct {
	r *rand.Rand
}

// New creates a Source seeded deterministically from seed, so that a run
// started with the same seed and worker count reproduces identical
// trajectories (spec §8 "Snapshot round-trip ... deterministic under
// fixed seeding").
func New(seed uint64) *Source {
	return &Source{r: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

// Float64 returns a uniform value in [0,1).
func (s *Source) Float64() float64 { return s.r.Float64() }

// UniformRange returns a uniform value in [a,b).
func (s *Source) UniformRange(a, b float64) float64 {
	if a >= b {
		return a
	}
	return distuv.Uniform{Min: a, Max: b, Src: s.r}.Rand()
}

// UniformInt returns a uniform integer in [a,b].
func (s *Source) UniformInt(a, b int) int {
	if a >= b {
		return a
	}
	return a + s.r.IntN(b-a+1)
}

// Normal draws from N(mu, sigma).
func (s *Source) Normal(mu, sigma float64) float64 {
	if sigma <= 0 {
		return mu
	}
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: s.r}.Rand()
}

// Gamma draws from a gamma distribution parameterized by mean and
// standard deviation, matching the source's alpha=(mu/sigma)^2,
// beta=sigma^2/mu moment-matching convention. beta here is gonum's rate
// parameter, the reciprocal of the source's scale parameter.
func (s *Source) Gamma(mu, sigma float64) float64 {
	if mu <= 0 || sigma <= 0 {
		return mu
	}
	alpha := (mu / sigma) * (mu / sigma)
	scale := (sigma * sigma) / mu
	g := distuv.Gamma{Alpha: alpha, Beta: 1 / scale, Src: s.r}
	return g.Rand()
}

// Discrete is a mutable discrete distribution over a weight row. It can
// be re-parameterized in place (Mutate) without allocation, and falls
// back to a uniform distribution over the row whenever every weight is
// zero, matching the original's mutable_discrete_distribution contract:
// a degenerate transition row never panics, it samples uniformly.
type Discrete struct {
	weights []float64
	total   float64
}

// NewDiscrete builds a Discrete from an initial weight row.
func NewDiscrete(weights []float64) *Discrete {
	d := &Discrete{weights: make([]float64, len(weights))}
	d.Mutate(weights)
	return d
}

// Mutate re-parameterizes d in place from a new weight row, which must
// be the same length as the original.
func (d *Discrete) Mutate(weights []float64) {
	copy(d.weights, weights)
	total := 0.0
	for _, w := range d.weights {
		total += w
	}
	d.total = total
}

// Sample draws an index in [0, len(weights)) proportional to the current
// weight row, or uniformly if the row totals to zero.
func (d *Discrete) Sample(s *Source) int {
	n := len(d.weights)
	if n == 0 {
		return 0
	}
	if d.total <= 0 {
		return s.UniformInt(0, n-1)
	}
	x := s.Float64() * d.total
	acc := 0.0
	for i, w := range d.weights {
		acc += w
		if x < acc {
			return i
		}
	}
	return n - 1
}
