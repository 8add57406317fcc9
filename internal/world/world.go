package world

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultWidth           = 250.0
	DefaultHeight          = 250.0
	DefaultRadius          = 8.0
	DefaultBodies          = 8
	DefaultGravity         = 0.1
	DefaultDamping         = 0.99
	DefaultRepulsionForce  = -2.0
	DefaultPullCoefficient = 0.02
	DefaultEpsilon         = 0.1
)

// Params holds the arena bounds and the simulation constants.
type Params struct {
	Width, Height   float64
	Radius          float64
	Gravity         float64
	Damping         float64
	RepulsionRadius float64
	RepulsionForce  float64
	PullCoefficient float64
	Epsilon         float64
}

func DefaultParams() Params {
	return Params{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		Radius:          DefaultRadius,
		Gravity:         DefaultGravity,
		Damping:         DefaultDamping,
		RepulsionRadius: 2 * DefaultRadius,
		RepulsionForce:  DefaultRepulsionForce,
		PullCoefficient: DefaultPullCoefficient,
		Epsilon:         DefaultEpsilon,
	}
}

type Body struct {
	Pos r2.Vec
	Vel r2.Vec
}

// World is the arena and its bodies. The order of Bodies is the identity
// of each body: pairs are visited by ascending index and colors are keyed
// by index.
type World struct {
	Params
	Bodies []Body
}

// New places n resting bodies uniformly at random in the arena. The same
// seed always yields the same layout.
func New(p Params, n int, seed int64) *World {
	rng := rand.New(rand.NewSource(seed))
	w := &World{Params: p, Bodies: make([]Body, n)}
	for i := range w.Bodies {
		w.Bodies[i].Pos = r2.Vec{
			X: rng.Float64() * p.Width,
			Y: rng.Float64() * p.Height,
		}
	}
	return w
}

// FromBodies builds a world around an explicit body layout.
func FromBodies(p Params, bodies ...Body) *World {
	w := &World{Params: p, Bodies: make([]Body, len(bodies))}
	copy(w.Bodies, bodies)
	return w
}

func (w *World) Len() int { return len(w.Bodies) }

func (w *World) Clone() *World {
	c := &World{Params: w.Params, Bodies: make([]Body, len(w.Bodies))}
	copy(c.Bodies, w.Bodies)
	return c
}

// Contains reports whether p lies strictly within Radius of body i.
func (w *World) Contains(i int, p r2.Vec) bool {
	if i < 0 || i >= len(w.Bodies) {
		return false
	}
	return r2.Norm(r2.Sub(p, w.Bodies[i].Pos)) < w.Radius
}

// InBounds reports whether body i sits inside [Radius, dim-Radius] on both axes.
func (w *World) InBounds(i int) bool {
	b := w.Bodies[i].Pos
	return b.X >= w.Radius && b.X <= w.Width-w.Radius &&
		b.Y >= w.Radius && b.Y <= w.Height-w.Radius
}

// Pointer is the pointer device as seen from inside the arena. The zero
// value is a released pointer at the origin holding nothing.
type Pointer struct {
	Pos     r2.Vec
	Pressed bool

	// held is the captured body index plus one, so zero means none.
	held int
}

// Captured returns the index of the captured body, if any.
func (p Pointer) Captured() (int, bool) {
	return p.held - 1, p.held > 0
}

// Holds reports whether the pointer has captured body i.
func (p Pointer) Holds(i int) bool {
	return p.held > 0 && p.held-1 == i
}

// Capture makes body i the captured body.
func (p *Pointer) Capture(i int) { p.held = i + 1 }

// Drop forgets the captured body.
func (p *Pointer) Drop() { p.held = 0 }
