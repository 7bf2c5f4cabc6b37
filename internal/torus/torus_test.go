package torus

import (
	"math"
	"testing"
)

func TestWrapRoundTrip(t *testing.T) {
	w := World{W: 1000}
	p := 730.0
	for k := -3; k <= 3; k++ {
		got := w.Wrap(p + float64(k)*1000)
		if math.Abs(got-730.0) > 1e-9 {
			t.Fatalf("wrap(%v) = %v, want 730", p+float64(k)*1000, got)
		}
	}
}

func TestOfsAntisymmetric(t *testing.T) {
	w := World{W: 1000}
	a := Vec2{100, 200}
	b := Vec2{900, 950}
	ofsAB := w.Ofs(a, b)
	ofsBA := w.Ofs(b, a)
	if math.Abs(ofsAB.X+ofsBA.X) > 1e-9 || math.Abs(ofsAB.Y+ofsBA.Y) > 1e-9 {
		t.Fatalf("ofs(a,b)=%v, -ofs(b,a)=%v", ofsAB, Vec2{-ofsBA.X, -ofsBA.Y})
	}
}

func TestOfsWrapsAcrossSeam(t *testing.T) {
	w := World{W: 1000}
	a := Vec2{10, 500}
	b := Vec2{990, 500}
	o := w.Ofs(a, b)
	if math.Abs(o.X-(-20)) > 1e-9 {
		t.Fatalf("expected wraparound offset -20, got %v", o.X)
	}
}

func TestDistance2MatchesOfs(t *testing.T) {
	w := World{W: 500}
	a := Vec2{0, 0}
	b := Vec2{3, 4}
	if got := w.Distance2(a, b); math.Abs(got-25) > 1e-9 {
		t.Fatalf("distance2 = %v, want 25", got)
	}
}

func TestRadBetween(t *testing.T) {
	u := Vec2{1, 0}
	v := Vec2{0, 1}
	got := RadBetween(u, v)
	if math.Abs(got-math.Pi/2) > 1e-9 {
		t.Fatalf("rad_between = %v, want pi/2", got)
	}
}

func TestSafeNormalizeFallback(t *testing.T) {
	fallback := Vec2{1, 0}
	got := SafeNormalize(Vec2{0, 0}, fallback)
	if got != fallback {
		t.Fatalf("expected fallback direction retained, got %v", got)
	}
}

func TestSmootherstepEndpoints(t *testing.T) {
	if Smootherstep(0, 0, 10) != 0 {
		t.Fatal("smootherstep(edge0) should be 0")
	}
	if Smootherstep(10, 0, 10) != 1 {
		t.Fatal("smootherstep(edge1) should be 1")
	}
}
