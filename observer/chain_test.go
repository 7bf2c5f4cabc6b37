package observer

import (
	"testing"

	"github.com/hanno-h/flockpred/sim"
)

func TestBuildChainAppendsDataExpLast(t *testing.T) {
	dir := t.TempDir()
	specs := []Spec{{Type: "TimeSeries", OutputName: "timeseries", SampleFreq: 1}}
	head, closers, err := BuildChain(dir, specs, 4, "test", []byte("{}"))
	if err != nil {
		t.Fatalf("BuildChain: %v", err)
	}
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	var last sim.Observer
	for o := head; o != nil; o = o.Next() {
		last = o
	}
	if _, ok := last.(*DataExp); !ok {
		t.Fatalf("chain's last observer is %T, want *DataExp", last)
	}
}

func TestBuildChainUnknownTypeErrors(t *testing.T) {
	dir := t.TempDir()
	_, _, err := BuildChain(dir, []Spec{{Type: "NotAReal Observer"}}, 0, "test", []byte("{}"))
	if err == nil {
		t.Fatal("expected an error for an unrecognized observer type")
	}
}
