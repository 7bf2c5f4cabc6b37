// Package viewer is the optional, out-of-core-scope visualization
// collaborator: a raylib window that draws agent positions/headings
// once per tick and paces playback to wall-clock time, as one more
// observer in the chain. Grounded on original_source/pigeon_model.cpp's
// AppWin/viewer thread role, using pthm-soup's raylib/raygui idiom
// (main.go's InitWindow/BeginDrawing/EndDrawing render loop).
package viewer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/hanno-h/flockpred/agents"
	"github.com/hanno-h/flockpred/sim"
)

// Viewer draws the simulation each Tick and reports ShouldClose once the
// window is asked to close, so the run driver can end its loop.
type Viewer struct {
	sim.BaseObserver

	worldSize float64
	speedup   float64
	scale     float32
	elapsed   float32
}

// New opens a window sized to fit worldSize world units and starts a
// 60fps raylib loop. speedup scales the wall-clock pacing: 1 plays back
// in real time, 2 plays twice as fast, and so on.
func New(worldSize, speedup float64) (*Viewer, error) {
	if speedup <= 0 {
		speedup = 1
	}
	const windowSize = int32(900)
	rl.InitWindow(windowSize, windowSize, "flockpred")
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("viewer: raylib window failed to open")
	}
	rl.SetTargetFPS(60)
	return &Viewer{
		worldSize: worldSize,
		speedup:   speedup,
		scale:     float32(windowSize) / float32(worldSize),
	}, nil
}

// ShouldClose reports whether the window's close button/Esc was pressed.
func (v *Viewer) ShouldClose() bool { return rl.WindowShouldClose() }

// Close tears down the raylib window.
func (v *Viewer) Close() error {
	rl.CloseWindow()
	return nil
}

// Notify draws the current tick's state and paces wall-clock playback;
// it forwards every message to the next observer in the chain so the
// viewer can sit in front of the analysis observers without altering
// their behavior.
func (v *Viewer) Notify(msg sim.Message, k *sim.Kernel) {
	if msg == sim.Tick {
		v.paceAndDraw(k)
	}
	if n := v.Next(); n != nil {
		n.Notify(msg, k)
	}
}

func (v *Viewer) NotifyOnce(k *sim.Kernel) {
	if n := v.Next(); n != nil {
		n.NotifyOnce(k)
	}
}

func (v *Viewer) paceAndDraw(k *sim.Kernel) {
	v.elapsed += float32(k.Dt)
	if v.elapsed < rl.GetFrameTime()*float32(v.speedup) {
		return
	}
	v.elapsed = 0

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	k.VisitAllPrey(func(i int, p *agents.Prey) {
		if !p.Alive {
			return
		}
		v.drawAgent(p.Body.Pos.X, p.Body.Pos.Y, p.Body.Dir.X, p.Body.Dir.Y, rl.SkyBlue)
	})
	k.VisitAllPredators(func(i int, p *agents.Predator) {
		if !p.Alive {
			return
		}
		v.drawAgent(p.Body.Pos.X, p.Body.Pos.Y, p.Body.Dir.X, p.Body.Dir.Y, rl.Red)
	})

	gui.Label(rl.Rectangle{X: 8, Y: 8, Width: 260, Height: 20},
		fmt.Sprintf("tick %d  prey %d  pred %d", k.Tick(), countAlivePrey(k), countAlivePredators(k)))

	rl.EndDrawing()
}

func (v *Viewer) drawAgent(x, y, dx, dy float64, color rl.Color) {
	px, py := float32(x)*v.scale, float32(y)*v.scale
	tip := rl.Vector2{X: px + float32(dx)*6, Y: py + float32(dy)*6}
	left := rl.Vector2{X: px - float32(dy)*4, Y: py + float32(dx)*4}
	right := rl.Vector2{X: px + float32(dy)*4, Y: py - float32(dx)*4}
	rl.DrawTriangle(tip, right, left, color)
}

func countAlivePrey(k *sim.Kernel) int {
	n := 0
	k.VisitAllPrey(func(i int, p *agents.Prey) {
		if p.Alive {
			n++
		}
	})
	return n
}

func countAlivePredators(k *sim.Kernel) int {
	n := 0
	k.VisitAllPredators(func(i int, p *agents.Predator) {
		if p.Alive {
			n++
		}
	})
	return n
}
