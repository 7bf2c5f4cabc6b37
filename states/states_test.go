package states

import (
	"testing"

	"github.com/hanno-h/flockpred/internal/rng"
)

func TestTransitionsSinglePivotIgnoresX(t *testing.T) {
	tr := NewTransitions([]float64{0}, [][][]float64{{{1, 0}, {0, 1}}})
	rowAtZero := tr.RowAt(0, 0)
	rowAtHundred := tr.RowAt(0, 100)
	if rowAtZero[0] != rowAtHundred[0] || rowAtZero[1] != rowAtHundred[1] {
		t.Fatalf("single-pivot matrix should be constant, got %v vs %v", rowAtZero, rowAtHundred)
	}
}

func TestSamplerUniformFallback(t *testing.T) {
	tr := NewTransitions([]float64{0}, [][][]float64{{{0, 0, 0, 0}}})
	s := NewSampler(tr)
	src := rng.New(99)
	counts := make([]int, 4)
	const trials = 10000
	for i := 0; i < trials; i++ {
		counts[s.Sample(0, 0, src)]++
	}
	expected := float64(trials) / 4
	for i, c := range counts {
		sigma := 43.3
		if float64(c) < expected-3*sigma || float64(c) > expected+3*sigma {
			t.Fatalf("bucket %d=%d outside uniform 3-sigma band around %v", i, c, expected)
		}
	}
}

func TestTransientAlwaysExits(t *testing.T) {
	tr := &Transient{}
	if !tr.ShouldExit(0) {
		t.Fatal("transient state must exit every tick")
	}
}

func TestPersistentExitsAtDuration(t *testing.T) {
	p := &Persistent{Duration: 10}
	p.Enter(nil, 5)
	if p.ShouldExit(14) {
		t.Fatal("should not exit before duration elapses")
	}
	if !p.ShouldExit(15) {
		t.Fatal("should exit once tick reaches exitTick")
	}
}
