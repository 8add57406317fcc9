package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/ballpit/internal/world"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestLyapunovRestingBody(t *testing.T) {
	p := world.DefaultParams()
	p.Gravity = 0
	w := world.FromBodies(p, world.Body{Pos: r2.Vec{X: 100, Y: 100}})

	if lambda := LyapunovExponent(w, 200, 1e-6); math.Abs(lambda) > 1e-6 {
		t.Errorf("a resting body should not diverge, got %g", lambda)
	}
	if w.Bodies[0].Pos.X != 100 {
		t.Error("input world was stepped")
	}
}

func TestLyapunovDegenerate(t *testing.T) {
	w := world.New(world.DefaultParams(), 0, 1)
	if LyapunovExponent(w, 100, 1e-6) != 0 {
		t.Error("empty arena should report 0")
	}
	if LyapunovExponent(world.New(world.DefaultParams(), 3, 1), 0, 1e-6) != 0 {
		t.Error("zero ticks should report 0")
	}
}

func TestDominantPeriod(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		period float64
	}{
		{"power of two", 256, 32},
		{"arbitrary length", 200, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]float64, tt.n)
			for i := range data {
				data[i] = 5 + math.Sin(2*math.Pi*float64(i)/tt.period)
			}
			if got := DominantPeriod(data); math.Abs(got-tt.period) > 1e-9 {
				t.Errorf("DominantPeriod() = %f, want %f", got, tt.period)
			}
		})
	}
}

func TestDominantPeriodFlat(t *testing.T) {
	if got := DominantPeriod([]float64{3, 3, 3, 3}); got != 0 {
		t.Errorf("flat series has period %f", got)
	}
	if PowerSpectrum([]float64{1}) != nil {
		t.Error("expected no spectrum for a single sample")
	}
}
