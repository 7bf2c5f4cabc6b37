package agents

import (
	"testing"

	"github.com/hanno-h/flockpred/flight"
	"github.com/hanno-h/flockpred/internal/torus"
)

func TestPreySnapshotRoundTrip(t *testing.T) {
	p := &Prey{Body: flight.Body{
		Pos: torus.Vec2{X: 12.5, Y: 88.25}, Dir: torus.Vec2{X: 0.6, Y: 0.8},
		Speed: 7.5, Accel: torus.Vec2{X: 1, Y: -1},
	}}
	row := p.ToRow(3)
	other := &Prey{}
	other.FromRow(row)
	if other.Body != p.Body {
		t.Fatalf("round trip mismatch: got %+v, want %+v", other.Body, p.Body)
	}
}

func TestPredatorSnapshotRoundTripIncludesAlive(t *testing.T) {
	p := &Predator{Alive: true, Body: flight.Body{
		Pos: torus.Vec2{X: 1, Y: 2}, Dir: torus.Vec2{X: 1, Y: 0}, Speed: 3,
	}}
	row := p.ToRow(0)
	if !row.Alive {
		t.Fatal("expected alive=true in row")
	}
	other := &Predator{Alive: true}
	row.Alive = false
	other.FromRow(row)
	if other.Alive {
		t.Fatal("expected alive flag restored to false")
	}
}
