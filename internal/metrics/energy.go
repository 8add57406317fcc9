package metrics

import (
	"math"

	"github.com/san-kum/ballpit/internal/world"
	"gonum.org/v1/gonum/spatial/r2"
)

// Kinetic is the total kinetic energy of w with unit masses.
func Kinetic(w *world.World) float64 {
	e := 0.0
	for _, b := range w.Bodies {
		e += 0.5 * r2.Norm2(b.Vel)
	}
	return e
}

// KineticEnergy is the mean total kinetic energy over the observed ticks.
type KineticEnergy struct {
	name string
	last float64
	mean
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(w *world.World) {
	k.last = Kinetic(w)
	k.add(k.last)
}

func (k *KineticEnergy) Value() float64 { return k.value() }

// Last is the energy seen at the most recent tick.
func (k *KineticEnergy) Last() float64 { return k.last }

func (k *KineticEnergy) Reset() {
	k.last = 0
	k.reset()
}

// MaxSpeed is the highest body speed seen so far.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(w *world.World) {
	for _, b := range w.Bodies {
		m.max = math.Max(m.max, r2.Norm(b.Vel))
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }
