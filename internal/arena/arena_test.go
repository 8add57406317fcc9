package arena

import (
	"context"
	"testing"

	"github.com/san-kum/ballpit/internal/logging"
	"github.com/san-kum/ballpit/internal/world"
	"gonum.org/v1/gonum/spatial/r2"
)

type recorder struct {
	calls []string
	last  world.Pointer
}

func (r *recorder) Clear() { r.calls = append(r.calls, "clear") }
func (r *recorder) Draw(w *world.World, p world.Pointer) {
	r.calls = append(r.calls, "draw")
	r.last = p
}

type counter struct{ n int }

func (c *counter) Observe(*world.World) { c.n++ }

func newSession(r Renderer) *Session {
	w := world.FromBodies(world.DefaultParams(),
		world.Body{Pos: r2.Vec{X: 100, Y: 100}},
		world.Body{Pos: r2.Vec{X: 200, Y: 50}},
	)
	return New(context.Background(), w, r, logging.Discard())
}

func TestSessionTickOrder(t *testing.T) {
	r := &recorder{}
	s := newSession(r)
	obs := &counter{}
	s.AddObserver(obs)

	if !s.Enter() {
		t.Fatal("enter should request the first tick")
	}
	before := s.World.Bodies[0].Pos
	if !s.Tick() {
		t.Fatal("a running session should re-arm")
	}

	if len(r.calls) != 2 || r.calls[0] != "clear" || r.calls[1] != "draw" {
		t.Errorf("expected clear then draw, got %v", r.calls)
	}
	if s.World.Bodies[0].Pos == before {
		t.Error("tick did not step the world")
	}
	if obs.n != 1 {
		t.Errorf("observer saw %d steps, want 1", obs.n)
	}
}

func TestSessionLeaveStopsAndReleases(t *testing.T) {
	r := &recorder{}
	s := newSession(r)

	s.Enter()
	s.Press(r2.Vec{X: 101, Y: 99})
	if _, ok := s.Pointer().Captured(); !ok {
		t.Fatal("press on a body should capture it")
	}

	s.Leave()
	if _, ok := s.Pointer().Captured(); ok {
		t.Error("leave should drop the capture")
	}
	if s.Running() {
		t.Error("leave should stop the animation")
	}

	// The tick already requested still runs once, then does not re-arm.
	if s.Tick() {
		t.Error("stopped session re-armed")
	}
	if s.Ticks() != 1 {
		t.Errorf("ticks = %d, want 1", s.Ticks())
	}
}

func TestSessionDragDrawsPointer(t *testing.T) {
	r := &recorder{}
	s := newSession(r)

	s.Enter()
	s.Press(r2.Vec{X: 200, Y: 50})
	s.Move(r2.Vec{X: 220, Y: 60})
	s.Tick()

	if i, ok := r.last.Captured(); !ok || i != 1 {
		t.Errorf("renderer saw capture %d %v, want body 1", i, ok)
	}
	if r.last.Pos != (r2.Vec{X: 220, Y: 60}) {
		t.Errorf("renderer saw pointer at %v", r.last.Pos)
	}

	s.Release()
	if r.last.Pressed {
		// last is from the previous draw; the next one must be released.
		s.Tick()
		if r.last.Pressed {
			t.Error("pointer still pressed after release")
		}
	}
}

func TestSessionEnterTwice(t *testing.T) {
	s := newSession(&recorder{})
	if !s.Enter() {
		t.Fatal("first enter should request a tick")
	}
	if s.Enter() {
		t.Error("second enter should not request another tick")
	}
}

func TestSessionReset(t *testing.T) {
	s := newSession(&recorder{})
	s.Press(r2.Vec{X: 100, Y: 100})

	fresh := world.New(world.DefaultParams(), 5, 3)
	s.Reset(fresh)

	if s.World != fresh {
		t.Error("reset did not install the new world")
	}
	if _, ok := s.Pointer().Captured(); ok {
		t.Error("reset should drop the capture")
	}
}
