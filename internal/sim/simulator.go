package sim

import (
	"context"
	"fmt"

	"github.com/charmbracelet/harmonica"
	"github.com/san-kum/ballpit/internal/interaction"
	"github.com/san-kum/ballpit/internal/metrics"
	"github.com/san-kum/ballpit/internal/physics"
	"github.com/san-kum/ballpit/internal/world"
	"gonum.org/v1/gonum/spatial/r2"
)

const defaultFPS = 60

// Simulator steps a copy of a world without a display.
type Simulator struct {
	world     *world.World
	metrics   []metrics.Metric
	observers []Observer
}

func New(w *world.World) *Simulator {
	return &Simulator{
		world:     w,
		metrics:   make([]metrics.Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }

// Run steps cfg.Ticks ticks. The world given to New is left untouched; the
// stepped copy is returned in Result.Final. On cancellation the partial
// result is returned with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	w := s.world.Clone()
	ctrl := interaction.New(w)

	fps := cfg.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	scripts := make([]*dragScript, len(cfg.Drags))
	for i, d := range cfg.Drags {
		scripts[i] = newDragScript(d, fps)
	}

	result := &Result{
		Energy:  make([]float64, 0, cfg.Ticks),
		Metrics: make(map[string]float64),
		Final:   w,
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for tick := 0; tick < cfg.Ticks; tick++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		for _, script := range scripts {
			script.apply(tick, w, ctrl)
		}

		p := ctrl.Pointer()
		physics.Step(w, p)
		if _, ok := p.Captured(); ok {
			result.HeldTicks++
		}

		result.Energy = append(result.Energy, metrics.Kinetic(w))
		for _, m := range s.metrics {
			m.Observe(w)
		}
		for _, obs := range s.observers {
			obs.OnStep(tick, w, p)
		}
		result.Ticks++
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) collect(r *Result) {
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidTicks, cfg.Ticks)
	}
	end := -1
	for i, d := range cfg.Drags {
		if d.Body < 0 || d.Body >= s.world.Len() {
			return fmt.Errorf("%w %d: body %d out of range [0, %d)", ErrInvalidDrag, i, d.Body, s.world.Len())
		}
		if d.Start < 0 || d.Ticks <= 0 {
			return fmt.Errorf("%w %d: start %d, ticks %d", ErrInvalidDrag, i, d.Start, d.Ticks)
		}
		// The release happens on tick Start+Ticks, so the next press must
		// come strictly later.
		if d.Start <= end {
			return fmt.Errorf("%w: drag %d starts at %d, previous releases at %d", ErrDragOverlap, i, d.Start, end)
		}
		end = d.Start + d.Ticks
	}
	return nil
}

// dragScript feeds a Drag through the interaction controller, so a scripted
// press goes through the same first-match capture as a real one.
type dragScript struct {
	drag   Drag
	spring harmonica.Spring
	pos    r2.Vec
	vel    r2.Vec
}

func newDragScript(d Drag, fps int) *dragScript {
	freq, ratio := d.Frequency, d.DampingRatio
	if freq == 0 {
		freq = 6
	}
	if ratio == 0 {
		ratio = 1
	}
	return &dragScript{
		drag:   d,
		spring: harmonica.NewSpring(harmonica.FPS(fps), freq, ratio),
	}
}

func (d *dragScript) apply(tick int, w *world.World, ctrl *interaction.Controller) {
	end := d.drag.Start + d.drag.Ticks
	switch {
	case tick == d.drag.Start:
		d.pos = w.Bodies[d.drag.Body].Pos
		d.vel = r2.Vec{}
		ctrl.Move(d.pos)
		ctrl.Press(d.pos)
	case tick > d.drag.Start && tick < end:
		d.pos.X, d.vel.X = d.spring.Update(d.pos.X, d.vel.X, d.drag.Target.X)
		d.pos.Y, d.vel.Y = d.spring.Update(d.pos.Y, d.vel.Y, d.drag.Target.Y)
		ctrl.Move(d.pos)
	case tick == end:
		ctrl.Release()
	}
}
