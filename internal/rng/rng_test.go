package rng

import "testing"

func TestDiscreteUniformFallback(t *testing.T) {
	d := NewDiscrete([]float64{0, 0, 0, 0})
	s := New(42)
	counts := make([]int, 4)
	const trials = 10000
	for i := 0; i < trials; i++ {
		counts[d.Sample(s)]++
	}
	expected := float64(trials) / 4
	for i, c := range counts {
		// 3 sigma bound for a binomial(trials, 1/4)
		sigma := 43.3 // sqrt(trials*0.25*0.75)
		if float64(c) < expected-3*sigma || float64(c) > expected+3*sigma {
			t.Fatalf("bucket %d count %d outside 3-sigma of uniform expectation %v", i, c, expected)
		}
	}
}

func TestDiscreteRespectsWeights(t *testing.T) {
	d := NewDiscrete([]float64{1, 0, 0})
	s := New(7)
	for i := 0; i < 100; i++ {
		if got := d.Sample(s); got != 0 {
			t.Fatalf("expected index 0 always, got %d", got)
		}
	}
}

func TestSourceDeterministic(t *testing.T) {
	a := New(123)
	b := New(123)
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			t.Fatal("same seed should produce same sequence")
		}
	}
}
