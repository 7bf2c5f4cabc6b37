// Package torus implements the scalar and vector geometry of a square
// toroidal world: wraparound position arithmetic, minimum-image offsets,
// and the angle/rotation helpers steering actions build on.
package torus

import "math"

// Vec2 is a plane vector. All agent positions, directions, and forces in
// this module are Vec2.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// PerpDot is the 2-D cross product z-component: positive when o is
// counter-clockwise of v.
func (v Vec2) PerpDot(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

func (v Vec2) Length2() float64 { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Length() float64  { return math.Sqrt(v.Length2()) }

// Perp returns the vector rotated +90 degrees.
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Rotate rotates v by angle radians.
func (v Vec2) Rotate(angle float64) Vec2 {
	s, c := math.Sincos(angle)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// SafeNormalize returns v/|v|, or fallback if v is (near) zero length.
func SafeNormalize(v, fallback Vec2) Vec2 {
	l := v.Length()
	if l < 1e-12 {
		return fallback
	}
	return v.Scale(1 / l)
}

// World carries the torus side length shared by every geometry operation.
type World struct {
	W float64
}

// Wrap folds x into [0, W).
func (w World) Wrap(x float64) float64 {
	r := math.Mod(x, w.W)
	if r < 0 {
		r += w.W
	}
	return r
}

// WrapVec wraps both coordinates of p into [0, W)^2.
func (w World) WrapVec(p Vec2) Vec2 {
	return Vec2{w.Wrap(p.X), w.Wrap(p.Y)}
}

// wrapDelta returns the component of b-a with least absolute value among
// {d, d+W, d-W}.
func wrapDelta(d, side float64) float64 {
	best := d
	if alt := d + side; math.Abs(alt) < math.Abs(best) {
		best = alt
	}
	if alt := d - side; math.Abs(alt) < math.Abs(best) {
		best = alt
	}
	return best
}

// Ofs returns the minimum-image vector from a to b.
func (w World) Ofs(a, b Vec2) Vec2 {
	return Vec2{
		X: wrapDelta(b.X-a.X, w.W),
		Y: wrapDelta(b.Y-a.Y, w.W),
	}
}

// Distance2 returns the squared toroidal distance between a and b.
func (w World) Distance2(a, b Vec2) float64 {
	o := w.Ofs(a, b)
	return o.Length2()
}

// Distance returns the toroidal distance between a and b.
func (w World) Distance(a, b Vec2) float64 {
	return math.Sqrt(w.Distance2(a, b))
}

// RadBetween returns the signed angle in [-pi, pi] to rotate u onto v.
func RadBetween(u, v Vec2) float64 {
	return math.Atan2(u.PerpDot(v), u.Dot(v))
}

// IsBehind reports whether offset (from self to a neighbor) falls behind
// self's heading dir, given the cosine threshold of a forward field of
// view (cfov = cos(fov/2)).
func IsBehind(dir, offset Vec2, cfov float64) bool {
	d2 := offset.Length2()
	if d2 < 1e-12 {
		return false
	}
	return dir.Dot(offset) < math.Sqrt(d2)*cfov
}

// IsAtSide reports whether offset lies to either side of self's heading,
// outside a forward cone whose half-angle cosine is cfov.
func IsAtSide(dir, offset Vec2, cfov float64) bool {
	return IsBehind(dir, offset, cfov)
}

// Lerp linearly interpolates between a and b by t in [0,1].
func Lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Smoothstep is the classic cubic Hermite ease between edge0 and edge1.
func Smoothstep(x, edge0, edge1 float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// Smootherstep is Ken Perlin's quintic ease, used by cohere_accel_n_front.
func Smootherstep(x, edge0, edge1 float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Clamp01((x - edge0) / (edge1 - edge0))
	return t * t * t * (t*(t*6-15) + 10)
}

// Clamp01 clamps x into [0,1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Clamp clamps x into [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// CosFromDegrees converts a full field-of-view angle in degrees to the
// cosine threshold used by the forward-cone tests above.
func CosFromDegrees(fovDeg float64) float64 {
	return math.Cos(0.5 * fovDeg * math.Pi / 180)
}
