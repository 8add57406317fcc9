package scheduler

import (
	"context"
	"time"
)

// Scheduler paces a frame callback once per display refresh while it is
// running. It never requests frames itself: Start and Tick report when the
// host must request the next one, and the scheduler remembers that a
// request is pending so at most one tick is ever in flight.
//
// Stop is advisory. A tick that is already pending still runs once; it just
// does not re-arm.
type Scheduler struct {
	frame   func()
	running bool
	pending bool
	ticks   uint64
}

func New(frame func()) *Scheduler {
	return &Scheduler{frame: frame}
}

// Start moves the scheduler to running. It returns true when the host must
// request the first tick now.
func (s *Scheduler) Start() bool {
	if s.running {
		return false
	}
	s.running = true
	if s.pending {
		// The in-flight tick will see the flag and re-arm.
		return false
	}
	s.pending = true
	return true
}

func (s *Scheduler) Stop() { s.running = false }

// Tick consumes the pending request, runs one frame and returns true when
// the host must request another tick.
func (s *Scheduler) Tick() bool {
	s.pending = false
	s.ticks++
	s.frame()
	if !s.running {
		return false
	}
	s.pending = true
	return true
}

func (s *Scheduler) Running() bool { return s.running }
func (s *Scheduler) Pending() bool { return s.pending }
func (s *Scheduler) Ticks() uint64 { return s.ticks }

// Loop hosts the scheduler on a ticker, standing in for a display refresh.
// It starts the scheduler, delivers one tick per interval while a request
// is pending and returns when the scheduler stops re-arming or ctx ends.
func Loop(ctx context.Context, s *Scheduler, interval time.Duration) error {
	s.Start()

	t := time.NewTicker(interval)
	defer t.Stop()

	for s.Pending() {
		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		case <-t.C:
			s.Tick()
		}
	}
	return nil
}
