package sim

import (
	"errors"

	"github.com/san-kum/ballpit/internal/world"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	ErrInvalidTicks = errors.New("sim: ticks must be positive")
	ErrInvalidDrag  = errors.New("sim: invalid drag")
	ErrDragOverlap  = errors.New("sim: drags overlap")
)

// Observer sees every tick after the step.
type Observer interface {
	OnStep(tick int, w *world.World, p world.Pointer)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(tick int, w *world.World, p world.Pointer)

func (f ObserverFunc) OnStep(tick int, w *world.World, p world.Pointer) { f(tick, w, p) }

// Drag scripts the pointer: it presses on Body at tick Start, eases toward
// Target for Ticks ticks and then releases.
type Drag struct {
	Body   int
	Start  int
	Ticks  int
	Target r2.Vec

	// Frequency and DampingRatio shape the spring the pointer rides on.
	// Zero values pick a critically damped spring at 6 rad/s.
	Frequency    float64
	DampingRatio float64
}

// Config drives one run. Drags play in order and must not overlap.
type Config struct {
	Ticks int
	FPS   int
	Drags []Drag
}

type Result struct {
	Seed    int64
	Ticks   int
	Energy  []float64
	Metrics map[string]float64
	Final   *world.World

	// HeldTicks counts the ticks stepped with a captured body.
	HeldTicks int
}
