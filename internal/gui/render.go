package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/ballpit/internal/export"
	"github.com/san-kum/ballpit/internal/world"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	ColBg     = rl.NewColor(250, 250, 250, 255)
	ColFrame  = rl.NewColor(60, 60, 60, 255)
	ColSelect = rl.NewColor(255, 80, 80, 255)
	ColText   = rl.NewColor(40, 40, 40, 255)
	ColDim    = rl.NewColor(150, 150, 150, 255)
)

func BodyColor(i int) rl.Color {
	r, g, b := export.IndexRGB(i)
	return rl.NewColor(r, g, b, 255)
}

// Renderer draws the arena into the current raylib frame. Origin is the
// screen position of the arena's top-left corner and Scale the pixels per
// arena unit.
type Renderer struct {
	Origin rl.Vector2
	Scale  float32
}

func (r *Renderer) screen(p r2.Vec) rl.Vector2 {
	return rl.NewVector2(r.Origin.X+float32(p.X)*r.Scale, r.Origin.Y+float32(p.Y)*r.Scale)
}

// local maps a screen position to arena coordinates.
func (r *Renderer) local(v rl.Vector2) r2.Vec {
	return r2.Vec{
		X: float64((v.X - r.Origin.X) / r.Scale),
		Y: float64((v.Y - r.Origin.Y) / r.Scale),
	}
}

func (r *Renderer) Clear() {
	rl.ClearBackground(ColBg)
}

func (r *Renderer) Draw(w *world.World, p world.Pointer) {
	frame := rl.NewRectangle(r.Origin.X, r.Origin.Y, float32(w.Width)*r.Scale, float32(w.Height)*r.Scale)
	rl.DrawRectangleLinesEx(frame, 2, ColFrame)

	radius := float32(w.Radius) * r.Scale
	for i, b := range w.Bodies {
		rl.DrawCircleV(r.screen(b.Pos), radius, BodyColor(i))
	}

	if i, ok := p.Captured(); ok && i < len(w.Bodies) {
		c := r.screen(w.Bodies[i].Pos)
		rl.DrawCircleLines(int32(c.X), int32(c.Y), radius+2, ColSelect)
		rl.DrawLineEx(c, r.screen(p.Pos), 2, ColSelect)
	}
}
