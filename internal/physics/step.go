package physics

import (
	"math"

	"github.com/san-kum/ballpit/internal/world"
	"gonum.org/v1/gonum/spatial/r2"
)

// Step advances every body of w by one tick. The body captured by p, if
// any, is pulled toward the pointer first.
//
// Each body is fully updated (pull, gravity, damping, integration, walls)
// before it is repelled from the bodies after it, so body j meets body i
// with its position from the previous tick.
func Step(w *world.World, p world.Pointer) {
	for i := range w.Bodies {
		b := &w.Bodies[i]

		if p.Holds(i) {
			b.Vel = r2.Add(b.Vel, Pull(b.Pos, p.Pos, w.PullCoefficient))
		}

		b.Vel.Y += w.Gravity
		b.Vel = r2.Scale(w.Damping, b.Vel)
		b.Pos = r2.Add(b.Pos, b.Vel)

		b.Pos.X, b.Vel.X = bounce(b.Pos.X, b.Vel.X, w.Radius, w.Width-w.Radius)
		b.Pos.Y, b.Vel.Y = bounce(b.Pos.Y, b.Vel.Y, w.Radius, w.Height-w.Radius)

		for j := i + 1; j < len(w.Bodies); j++ {
			Repel(w, i, j)
		}
	}
}

// Pull returns the velocity change that drags a body at pos toward target.
func Pull(pos, target r2.Vec, k float64) r2.Vec {
	return r2.Scale(k, r2.Sub(target, pos))
}

// Repel pushes bodies i and j apart when their centers are closer than
// the repulsion radius. It returns the impulse added to body i; body j
// receives its exact negation.
func Repel(w *world.World, i, j int) (r2.Vec, bool) {
	a, b := &w.Bodies[i], &w.Bodies[j]

	delta := r2.Sub(b.Pos, a.Pos)
	d := r2.Norm(delta)
	if d >= w.RepulsionRadius {
		return r2.Vec{}, false
	}
	d = math.Max(d, w.Epsilon)

	unit := r2.Vec{X: delta.X / d, Y: delta.Y / d}
	f := r2.Scale(w.RepulsionForce, unit)
	a.Vel = r2.Add(a.Vel, f)
	b.Vel = r2.Sub(b.Vel, f)
	return f, true
}

// bounce clamps x into [lo, hi] and turns v away from the wall it hit.
func bounce(x, v, lo, hi float64) (float64, float64) {
	switch {
	case x > hi:
		return hi, -math.Abs(v)
	case x < lo:
		return lo, math.Abs(v)
	}
	return x, v
}
