// Package states implements the per-species state machine: persistent
// (timed) and transient (one-shot) states composed of action tuples, and
// the piecewise-linear transition matrix that chooses the next state on
// exit.
package states

import (
	"sort"

	"github.com/hanno-h/flockpred/internal/rng"
)

// Transitions is a piecewise-linear interpolator over one scalar pivot
// parameter x: it holds one transition matrix per edge and linearly
// interpolates row weights between the two bracketing edges. With a
// single edge (the common "single pivot" case named in spec §3), it
// always returns that one constant matrix regardless of x. Grounded on
// original_source/model/transitions.hpp's piecewise_linear_interpolator.
type Transitions struct {
	Edges    []float64
	Matrices [][][]float64 // Matrices[edge][fromState][toState]
	nStates  int
}

// NewTransitions returns the interpolator over edges and matrices as
// given; it checks neither matrix shape nor edge order (config's
// validation checks the matrix shape).
func NewTransitions(edges []float64, matrices [][][]float64) *Transitions {
	n := 0
	if len(matrices) > 0 {
		n = len(matrices[0])
	}
	return &Transitions{Edges: edges, Matrices: matrices, nStates: n}
}

// RowAt returns the interpolated weight row leaving fromState at pivot x.
func (t *Transitions) RowAt(fromState int, x float64) []float64 {
	if len(t.Edges) == 0 {
		return make([]float64, t.nStates)
	}
	if len(t.Edges) == 1 || x <= t.Edges[0] {
		return t.Matrices[0][fromState]
	}
	last := len(t.Edges) - 1
	if x >= t.Edges[last] {
		return t.Matrices[last][fromState]
	}
	// binary search for the bracketing edge pair
	k := sort.Search(len(t.Edges), func(i int) bool { return t.Edges[i] >= x })
	lo, hi := k-1, k
	span := t.Edges[hi] - t.Edges[lo]
	frac := 0.0
	if span > 0 {
		frac = (x - t.Edges[lo]) / span
	}
	rowLo := t.Matrices[lo][fromState]
	rowHi := t.Matrices[hi][fromState]
	out := make([]float64, len(rowLo))
	for i := range out {
		out[i] = rowLo[i] + (rowHi[i]-rowLo[i])*frac
	}
	return out
}

// Sampler draws the next state index from a per-fromState mutable
// discrete distribution, re-parameterized from Transitions each time a
// state exits. Holding one Discrete per source state avoids reallocating
// on every sample, matching the original's mutable_discrete_distribution
// usage.
type Sampler struct {
	t     *Transitions
	byRow map[int]*rng.Discrete
}

func NewSampler(t *Transitions) *Sampler {
	return &Sampler{t: t, byRow: make(map[int]*rng.Discrete)}
}

// Sample returns the next state index leaving fromState, evaluated at
// pivot x. A transition row of all zeros falls back to uniform sampling
// over every state (spec §4.2/§8).
func (s *Sampler) Sample(fromState int, x float64, src *rng.Source) int {
	row := s.t.RowAt(fromState, x)
	d, ok := s.byRow[fromState]
	if !ok {
		d = rng.NewDiscrete(row)
		s.byRow[fromState] = d
	} else {
		d.Mutate(row)
	}
	return d.Sample(src)
}
