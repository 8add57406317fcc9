package analysis

import (
	"math"

	"github.com/san-kum/ballpit/internal/physics"
	"github.com/san-kum/ballpit/internal/world"
	"gonum.org/v1/gonum/spatial/r2"
)

// LyapunovExponent estimates the largest Lyapunov exponent of the arena, in
// units of 1/tick, by nudging body 0 along x and following the separation
// of the two copies. The separation is renormalized to d0 after every tick.
// A positive value means nearby layouts diverge.
func LyapunovExponent(w *world.World, ticks int, d0 float64) float64 {
	if w.Len() == 0 || ticks <= 0 || d0 <= 0 {
		return 0
	}

	a := w.Clone()
	b := w.Clone()
	b.Bodies[0].Pos.X += d0

	var none world.Pointer
	sumLog := 0.0
	count := 0

	for t := 0; t < ticks; t++ {
		physics.Step(a, none)
		physics.Step(b, none)

		sep := separation(a, b)
		if sep == 0 {
			// The copies merged, usually both pinned into the same corner.
			b.Bodies[0].Pos.X = a.Bodies[0].Pos.X + d0
			continue
		}
		sumLog += math.Log(sep / d0)
		count++

		scale := d0 / sep
		for i := range b.Bodies {
			b.Bodies[i].Pos = r2.Add(a.Bodies[i].Pos, r2.Scale(scale, r2.Sub(b.Bodies[i].Pos, a.Bodies[i].Pos)))
			b.Bodies[i].Vel = r2.Add(a.Bodies[i].Vel, r2.Scale(scale, r2.Sub(b.Bodies[i].Vel, a.Bodies[i].Vel)))
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / float64(count)
}

// separation is the Euclidean distance between two worlds' full states.
func separation(a, b *world.World) float64 {
	sum := 0.0
	for i := range a.Bodies {
		sum += r2.Norm2(r2.Sub(b.Bodies[i].Pos, a.Bodies[i].Pos))
		sum += r2.Norm2(r2.Sub(b.Bodies[i].Vel, a.Bodies[i].Vel))
	}
	return math.Sqrt(sum)
}
