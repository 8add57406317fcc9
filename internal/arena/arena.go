// Package arena wires the world, the interaction controller, the frame
// scheduler and a renderer into one interactive session.
//
// Hosts (the terminal UI, the raylib window) translate their input into
// Enter, Leave, Move, Press and Release calls in arena-local coordinates,
// and deliver a tick whenever the session asks for one.
package arena

import (
	"context"

	"github.com/san-kum/ballpit/internal/interaction"
	"github.com/san-kum/ballpit/internal/logging"
	"github.com/san-kum/ballpit/internal/physics"
	"github.com/san-kum/ballpit/internal/scheduler"
	"github.com/san-kum/ballpit/internal/world"
	"gonum.org/v1/gonum/spatial/r2"
)

// Renderer draws a world. It is owned by the host.
type Renderer interface {
	Clear()
	Draw(w *world.World, p world.Pointer)
}

// Observer sees the world after every step.
type Observer interface {
	Observe(w *world.World)
}

type Session struct {
	World *world.World

	ctrl     *interaction.Controller
	sched    *scheduler.Scheduler
	renderer Renderer
	observer []Observer
	log      *logging.Logger
	ctx      context.Context
}

func New(ctx context.Context, w *world.World, r Renderer, log *logging.Logger) *Session {
	s := &Session{
		World:    w,
		ctrl:     interaction.New(w),
		renderer: r,
		log:      log,
		ctx:      ctx,
	}
	s.sched = scheduler.New(s.frame)
	s.ctrl.OnCapture = func(i int) {
		s.log.Debug(s.ctx, "body captured", "body", i)
	}
	s.ctrl.OnRelease = func(i int) {
		s.log.Debug(s.ctx, "body released", "body", i)
	}
	return s
}

func (s *Session) AddObserver(o Observer) { s.observer = append(s.observer, o) }

// frame is one tick: clear, step, draw.
func (s *Session) frame() {
	s.renderer.Clear()
	physics.Step(s.World, s.ctrl.Pointer())
	for _, o := range s.observer {
		o.Observe(s.World)
	}
	s.renderer.Draw(s.World, s.ctrl.Pointer())
}

// Enter starts the animation. It returns true when the host must request
// the first tick.
func (s *Session) Enter() bool {
	if s.sched.Running() {
		return false
	}
	s.log.Debug(s.ctx, "pointer entered, animation running")
	return s.sched.Start()
}

// Leave drops any capture and stops the animation after the pending tick.
func (s *Session) Leave() {
	s.ctrl.Leave()
	if s.sched.Running() {
		s.log.Debug(s.ctx, "pointer left, animation stopping", "ticks", s.sched.Ticks())
	}
	s.sched.Stop()
}

// Stop halts the animation after the pending tick and keeps the pointer.
func (s *Session) Stop() { s.sched.Stop() }

func (s *Session) Move(pos r2.Vec)  { s.ctrl.Move(pos) }
func (s *Session) Press(pos r2.Vec) { s.ctrl.Press(pos) }
func (s *Session) Release()         { s.ctrl.Release() }

// Tick runs a frame and returns true when the host must request another.
func (s *Session) Tick() bool { return s.sched.Tick() }

// Draw renders the current world without stepping it.
func (s *Session) Draw() {
	s.renderer.Clear()
	s.renderer.Draw(s.World, s.ctrl.Pointer())
}

// Reset swaps in a new world, keeping the run state.
func (s *Session) Reset(w *world.World) {
	s.World = w
	s.ctrl.Reset(w)
	s.log.Info(s.ctx, "world reset", "bodies", w.Len())
}

func (s *Session) Pointer() world.Pointer { return s.ctrl.Pointer() }
func (s *Session) Running() bool          { return s.sched.Running() }
func (s *Session) Pending() bool          { return s.sched.Pending() }
func (s *Session) Ticks() uint64          { return s.sched.Ticks() }
