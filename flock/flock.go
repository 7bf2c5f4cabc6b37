// Package flock clusters prey into flocks by connected components on a
// distance threshold, computes each flock's oriented bounding box and
// aggregate motion, and interpolates the centroid between recomputation
// passes so observers see smooth motion every tick.
package flock

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/hanno-h/flockpred/internal/torus"
)

// NoFlock is the sentinel flock id assigned to an agent that belongs to
// no cluster in the current pass.
const NoFlock = -1

// Descriptor is one flock's aggregate state: member count, mean velocity,
// the oriented bounding box placed in world coordinates, and its box
// extents. Origin is the world-space (torus-wrapped) translation of the
// box.
type Descriptor struct {
	Size     int
	MeanVel  torus.Vec2
	Origin   torus.Vec2
	Axis0    torus.Vec2 // unit vector, box's first principal axis
	Axis1    torus.Vec2
	ExtentX  float64
	ExtentY  float64
	members  []int
}

// Members returns the population indices belonging to this flock.
func (d Descriptor) Members() []int { return d.members }

// Tracker owns the current clustering of one species and advances
// centroids between recomputation passes.
type Tracker struct {
	descriptors []Descriptor
	flockOf     []int
}

// NewTracker creates an empty tracker sized for a population of n.
func NewTracker(n int) *Tracker {
	t := &Tracker{flockOf: make([]int, n)}
	for i := range t.flockOf {
		t.flockOf[i] = NoFlock
	}
	return t
}

// FlockOf returns the flock id of population index i, or NoFlock.
func (t *Tracker) FlockOf(i int) int { return t.flockOf[i] }

// Descriptors returns the current flock list.
func (t *Tracker) Descriptors() []Descriptor { return t.descriptors }

// Members returns the population indices of flock id, or nil if out of
// range.
func (t *Tracker) Members(id int) []int {
	if id < 0 || id >= len(t.descriptors) {
		return nil
	}
	return t.descriptors[id].members
}

// Cluster rebuilds the flock partition from scratch: positions and
// velocities are the current alive-only snapshot (dead agents are
// assigned NoFlock and never considered). Agents closer than threshold
// (in the toroidal metric) are connected by an edge; flocks are the
// connected components of that graph.
func (t *Tracker) Cluster(pos, vel []torus.Vec2, alive []bool, threshold float64, w torus.World) {
	n := len(pos)
	visited := make([]bool, n)
	t.flockOf = make([]int, n)
	for i := range t.flockOf {
		t.flockOf[i] = NoFlock
	}
	t.descriptors = t.descriptors[:0]
	threshold2 := threshold * threshold

	for i := 0; i < n; i++ {
		if !alive[i] || visited[i] {
			continue
		}
		// BFS over the brute-force O(N^2) adjacency scan, as spec
		// §4.8 describes; an r-tree-backed proximity query could
		// replace this without changing cluster semantics.
		queue := []int{i}
		visited[i] = true
		members := []int{i}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for j := 0; j < n; j++ {
				if !alive[j] || visited[j] {
					continue
				}
				if w.Distance2(pos[cur], pos[j]) < threshold2 {
					visited[j] = true
					members = append(members, j)
					queue = append(queue, j)
				}
			}
		}
		d := buildDescriptor(members, pos, vel, w)
		id := len(t.descriptors)
		t.descriptors = append(t.descriptors, d)
		for _, m := range members {
			t.flockOf[m] = id
		}
	}
}

func buildDescriptor(members []int, pos, vel []torus.Vec2, w torus.World) Descriptor {
	anchor := pos[members[0]]
	rel := make([]torus.Vec2, len(members))
	meanVel := torus.Vec2{}
	for k, idx := range members {
		rel[k] = w.Ofs(anchor, pos[idx])
		meanVel = meanVel.Add(vel[idx])
	}
	meanVel = meanVel.Scale(1 / float64(len(members)))

	centroidRel := torus.Vec2{}
	for _, r := range rel {
		centroidRel = centroidRel.Add(r)
	}
	centroidRel = centroidRel.Scale(1 / float64(len(rel)))

	var sxx, sxy, syy float64
	for _, r := range rel {
		dx := r.X - centroidRel.X
		dy := r.Y - centroidRel.Y
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	n := float64(len(rel))
	sxx /= n
	sxy /= n
	syy /= n

	axis0, axis1 := torus.Vec2{X: 1, Y: 0}, torus.Vec2{X: 0, Y: 1}
	if sxx+syy > 1e-12 {
		cov := mat.NewSymDense(2, []float64{sxx, sxy, sxy, syy})
		var eig mat.EigenSym
		if ok := eig.Factorize(cov, true); ok {
			var vecs mat.Dense
			eig.VectorsTo(&vecs)
			axis0 = torus.Vec2{X: vecs.At(0, 1), Y: vecs.At(1, 1)} // largest eigenvalue is last
			axis1 = torus.Vec2{X: vecs.At(0, 0), Y: vecs.At(1, 0)}
		}
	}

	var minE0, maxE0, minE1, maxE1 float64
	minE0, minE1 = math.Inf(1), math.Inf(1)
	maxE0, maxE1 = math.Inf(-1), math.Inf(-1)
	for _, r := range rel {
		p0 := r.Dot(axis0)
		p1 := r.Dot(axis1)
		minE0 = math.Min(minE0, p0)
		maxE0 = math.Max(maxE0, p0)
		minE1 = math.Min(minE1, p1)
		maxE1 = math.Max(maxE1, p1)
	}

	boxCenterRel := axis0.Scale((minE0 + maxE0) / 2).Add(axis1.Scale((minE1 + maxE1) / 2))
	origin := w.WrapVec(anchor.Add(boxCenterRel))

	return Descriptor{
		Size:    len(members),
		MeanVel: meanVel,
		Origin:  origin,
		Axis0:   axis0,
		Axis1:   axis1,
		ExtentX: (maxE0 - minE0) / 2,
		ExtentY: (maxE1 - minE1) / 2,
		members: append([]int(nil), members...),
	}
}

// Track advances every descriptor's centroid by wrap(origin + dt*meanVel)
// between clustering passes, so observers see smooth motion without a
// full recomputation every tick.
func (t *Tracker) Track(dt float64, w torus.World) {
	for i := range t.descriptors {
		d := &t.descriptors[i]
		d.Origin = w.WrapVec(d.Origin.Add(d.MeanVel.Scale(dt)))
	}
}
