package interaction

import (
	"github.com/san-kum/ballpit/internal/world"
	"gonum.org/v1/gonum/spatial/r2"
)

// Controller turns pointer events into pointer state. All coordinates are
// arena-local; hosts subtract the arena offset before calling in.
type Controller struct {
	world   *world.World
	pointer world.Pointer

	// OnCapture and OnRelease, when set, observe capture transitions.
	OnCapture func(i int)
	OnRelease func(i int)
}

func New(w *world.World) *Controller {
	return &Controller{world: w}
}

// Pointer returns a snapshot of the pointer for the next step.
func (c *Controller) Pointer() world.Pointer { return c.pointer }

func (c *Controller) Captured() (int, bool) { return c.pointer.Captured() }

// Reset points the controller at a new world and forgets any capture.
func (c *Controller) Reset(w *world.World) {
	c.release()
	c.world = w
}

func (c *Controller) Move(pos r2.Vec) {
	c.pointer.Pos = pos
}

// Press captures the first body, in sequence order, whose center lies
// within one radius of pos. Overlapping candidates are not compared: the
// earliest wins.
func (c *Controller) Press(pos r2.Vec) {
	c.pointer.Pressed = true
	c.pointer.Pos = pos

	if _, ok := c.pointer.Captured(); ok {
		return
	}
	for i := range c.world.Bodies {
		if c.world.Contains(i, pos) {
			c.pointer.Capture(i)
			if c.OnCapture != nil {
				c.OnCapture(i)
			}
			return
		}
	}
}

func (c *Controller) Release() { c.release() }

// Leave is the pointer exiting the arena; it drops the capture like a release.
func (c *Controller) Leave() { c.release() }

func (c *Controller) release() {
	c.pointer.Pressed = false
	i, ok := c.pointer.Captured()
	c.pointer.Drop()
	if ok && c.OnRelease != nil {
		c.OnRelease(i)
	}
}
