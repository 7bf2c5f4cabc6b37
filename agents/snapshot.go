package agents

import (
	"github.com/hanno-h/flockpred/internal/torus"
)

// PreyRow is the minimal prey state: {p, d, s, a}. The kernel's
// GetSnapshots/SetSnapshots (C9) exchange it in memory. Its csv tags give
// the same column layout as the SnapShot observer's own row type (C10),
// which the "csv" initial-condition generator reads back by column
// position. Grounded on spec §6's persisted state layout
// and original_source/agents/pigeon.hpp's snapshot()/snapshot(se).
type PreyRow struct {
	ID     int     `csv:"id"`
	PosX   float64 `csv:"posx"`
	PosY   float64 `csv:"posy"`
	DirX   float64 `csv:"dirx"`
	DirY   float64 `csv:"diry"`
	Speed  float64 `csv:"speed"`
	AccelX float64 `csv:"accelx"`
	AccelY float64 `csv:"accely"`
}

// PredatorRow additionally carries Alive, matching the original's custom
// CSV stream read/write for predator snapshots.
type PredatorRow struct {
	ID     int     `csv:"id"`
	PosX   float64 `csv:"posx"`
	PosY   float64 `csv:"posy"`
	DirX   float64 `csv:"dirx"`
	DirY   float64 `csv:"diry"`
	Speed  float64 `csv:"speed"`
	AccelX float64 `csv:"accelx"`
	AccelY float64 `csv:"accely"`
	Alive  bool    `csv:"alive"`
}

// ToRow converts a prey's current physical state into its persisted row.
func (p *Prey) ToRow(id int) PreyRow {
	return PreyRow{
		ID: id, PosX: p.Body.Pos.X, PosY: p.Body.Pos.Y,
		DirX: p.Body.Dir.X, DirY: p.Body.Dir.Y,
		Speed: p.Body.Speed, AccelX: p.Body.Accel.X, AccelY: p.Body.Accel.Y,
	}
}

// FromRow installs a persisted row back into a prey's physical state.
func (p *Prey) FromRow(r PreyRow) {
	p.Body.Pos = torus.Vec2{X: r.PosX, Y: r.PosY}
	p.Body.Dir = torus.Vec2{X: r.DirX, Y: r.DirY}
	p.Body.Speed = r.Speed
	p.Body.Accel = torus.Vec2{X: r.AccelX, Y: r.AccelY}
}

// ToRow converts a predator's current physical state into its persisted
// row, including Alive.
func (p *Predator) ToRow(id int) PredatorRow {
	return PredatorRow{
		ID: id, PosX: p.Body.Pos.X, PosY: p.Body.Pos.Y,
		DirX: p.Body.Dir.X, DirY: p.Body.Dir.Y,
		Speed: p.Body.Speed, AccelX: p.Body.Accel.X, AccelY: p.Body.Accel.Y,
		Alive: p.Alive,
	}
}

// FromRow installs a persisted row back into a predator's physical
// state and alive flag.
func (p *Predator) FromRow(r PredatorRow) {
	p.Body.Pos = torus.Vec2{X: r.PosX, Y: r.PosY}
	p.Body.Dir = torus.Vec2{X: r.DirX, Y: r.DirY}
	p.Body.Speed = r.Speed
	p.Body.Accel = torus.Vec2{X: r.AccelX, Y: r.AccelY}
	p.Alive = r.Alive
}
