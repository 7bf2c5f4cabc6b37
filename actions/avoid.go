package actions

import "github.com/hanno-h/flockpred/internal/torus"

// AvoidNPosition sums the neighbor->self offsets of the first Topo
// in-FOV neighbors closer than MinSep, normalizes, and adds W times the
// result to steering (a separation force). Grounded on
// original_source/actions/avoid_actions.hpp's avoid_n_position.
type AvoidNPosition struct {
	Topo     int
	CFov     float64
	MaxDist2 float64
	MinSep2  float64
	W        float64
}

func NewAvoidNPosition(topo int, fovDeg, maxDist, minSep, w float64) *AvoidNPosition {
	return &AvoidNPosition{
		Topo:     topo,
		CFov:     torus.CosFromDegrees(fovDeg),
		MaxDist2: maxDist * maxDist,
		MinSep2:  minSep * minSep,
		W:        w,
	}
}

func (a *AvoidNPosition) Apply(c *Ctx) {
	sum := torus.Vec2{}
	count := 0
	for _, n := range c.PreyView {
		if count >= a.Topo {
			break
		}
		if n.Dist2 > a.MaxDist2 {
			continue
		}
		offset := c.World.Ofs(c.SelfPos, c.PreyPos[n.Idx])
		if torus.IsBehind(c.SelfDir, offset, a.CFov) {
			continue
		}
		if n.Dist2 >= a.MinSep2 {
			continue
		}
		sum = sum.Sub(offset) // neighbor -> self is the negation of self -> neighbor
		count++
	}
	if count == 0 {
		if c.SepAngle != nil {
			*c.SepAngle = 0
		}
		return
	}
	dir := torus.SafeNormalize(sum, c.SelfDir)
	if c.SepAngle != nil {
		*c.SepAngle = torus.RadBetween(c.SelfDir, dir)
	}
	c.Steering = c.Steering.Add(dir.Scale(a.W))
}
