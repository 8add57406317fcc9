// Package metrics observes a world once per tick and summarizes it.
package metrics

import "github.com/san-kum/ballpit/internal/world"

// Metric accumulates a scalar over the ticks it observes.
type Metric interface {
	Name() string
	Observe(w *world.World)
	Value() float64
	Reset()
}

// Standard returns a fresh set of the built-in metrics.
func Standard() []Metric {
	return []Metric{
		NewKineticEnergy(),
		NewMaxSpeed(),
		NewContacts(),
		NewWallContacts(),
	}
}

// mean is the running average shared by the per-tick metrics.
type mean struct {
	sum     float64
	samples int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.samples++
}

func (m *mean) value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *mean) reset() {
	m.sum = 0
	m.samples = 0
}
