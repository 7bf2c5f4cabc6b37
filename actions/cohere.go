package actions

import (
	"math"

	"github.com/hanno-h/flockpred/internal/torus"
)

// CohereTurnNAll sums the toroidal self->neighbor offsets of the first
// Topo in-FOV neighbors within MaxDist, normalizes, and adds W times the
// result to steering. Grounded on
// original_source/actions/cohere_actions.hpp's cohere_turn_n_all.
type CohereTurnNAll struct {
	Topo     int
	CFov     float64
	MaxDist2 float64
	W        float64
}

func NewCohereTurnNAll(topo int, fovDeg, maxDist, w float64) *CohereTurnNAll {
	return &CohereTurnNAll{Topo: topo, CFov: torus.CosFromDegrees(fovDeg), MaxDist2: maxDist * maxDist, W: w}
}

func (a *CohereTurnNAll) Apply(c *Ctx) {
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
		sum = sum.Add(offset)
		count++
	}
	if count == 0 {
		if c.CohereAngle != nil {
			*c.CohereAngle = 0
		}
		return
	}
	dir := torus.SafeNormalize(sum, c.SelfDir)
	if c.CohereAngle != nil {
		*c.CohereAngle = torus.RadBetween(c.SelfDir, dir)
	}
	c.Steering = c.Steering.Add(dir.Scale(a.W))
}

// CohereAccelNFront looks at the first Topo in-FOV neighbors that are not
// at the side (front cone only, using a separate, typically narrower FOV
// FFov), and produces a forward acceleration scaled by the smootherstep
// of their mean distance between MinAccelDist and MaxAccelDist meters; if
// no front neighbor qualifies, it instead applies a flat deceleration.
// Grounded on original_source/actions/cohere_speed_actions.hpp.
type CohereAccelNFront struct {
	Topo          int
	CFov          float64
	CFFov         float64
	MaxDist2      float64
	MinAccelDist  float64
	MaxAccelDist  float64
	W             float64
	DecelW        float64
}

func NewCohereAccelNFront(topo int, fovDeg, ffovDeg, maxDist, minAccelDist, maxAccelDist, w, decelW float64) *CohereAccelNFront {
	return &CohereAccelNFront{
		Topo:         topo,
		CFov:         torus.CosFromDegrees(fovDeg),
		CFFov:        torus.CosFromDegrees(ffovDeg),
		MaxDist2:     maxDist * maxDist,
		MinAccelDist: minAccelDist,
		MaxAccelDist: maxAccelDist,
		W:            w,
		DecelW:       decelW,
	}
}

func (a *CohereAccelNFront) Apply(c *Ctx) {
	sumDist2 := 0.0
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
		if torus.IsAtSide(c.SelfDir, offset, a.CFFov) {
			continue
		}
		sumDist2 += n.Dist2
		count++
	}
	if count == 0 {
		c.Steering = c.Steering.Add(c.SelfDir.Scale(-a.DecelW))
		return
	}
	// Matches the source's literal (if unusual) formula: the mean of the
	// squared distances, square-rooted, then divided again by the
	// realized neighbor count.
	avgDist2 := sumDist2 / float64(count)
	meanDist := math.Sqrt(avgDist2) / float64(count)
	w := torus.Smootherstep(meanDist, a.MinAccelDist, a.MaxAccelDist)
	c.Steering = c.Steering.Add(c.SelfDir.Scale(a.W * w))
}
