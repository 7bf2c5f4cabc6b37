package actions

import "github.com/hanno-h/flockpred/internal/torus"

// AlignN sums the first Topo in-FOV neighbor directions within MaxDist,
// normalizes the sum, and adds W times the result to steering. Grounded
// on original_source/actions/align_actions.hpp's align_n.
type AlignN struct {
	Topo    int
	CFov    float64
	MaxDist2 float64
	W       float64
}

// NewAlignN builds an AlignN from configuration-shaped degrees/meters.
func NewAlignN(topo int, fovDeg, maxDist, w float64) *AlignN {
	return &AlignN{Topo: topo, CFov: torus.CosFromDegrees(fovDeg), MaxDist2: maxDist * maxDist, W: w}
}

func (a *AlignN) Apply(c *Ctx) {
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
		sum = sum.Add(c.PreyDir[n.Idx])
		count++
	}
	if count == 0 {
		if c.AlignAngle != nil {
			*c.AlignAngle = 0
		}
		return
	}
	dir := torus.SafeNormalize(sum, c.SelfDir)
	if c.AlignAngle != nil {
		*c.AlignAngle = torus.RadBetween(c.SelfDir, dir)
	}
	c.Steering = c.Steering.Add(dir.Scale(a.W))
}
