package observer

import "testing"

func TestSamplerDueFiresAtPeriodBoundary(t *testing.T) {
	s := newSampler(0.2)
	if s.due(0.1) {
		t.Fatal("sampler fired before its period elapsed")
	}
	if !s.due(0.1) {
		t.Fatal("sampler did not fire once its period elapsed")
	}
}

func TestSamplerDueResetsAfterFiring(t *testing.T) {
	s := newSampler(0.1)
	if !s.due(0.1) {
		t.Fatal("sampler should fire on its first period")
	}
	if s.due(0.05) {
		t.Fatal("sampler fired again before a full period re-elapsed")
	}
	if !s.due(0.05) {
		t.Fatal("sampler did not fire on the second period")
	}
}

func TestSamplerZeroPeriodFiresEveryCall(t *testing.T) {
	s := newSampler(0)
	for i := 0; i < 5; i++ {
		if !s.due(0.1) {
			t.Fatalf("call %d: zero-period sampler should fire every call", i)
		}
	}
}
