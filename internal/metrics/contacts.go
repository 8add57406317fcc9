package metrics

import (
	"github.com/san-kum/ballpit/internal/world"
	"gonum.org/v1/gonum/spatial/r2"
)

// Overlaps counts the pairs of bodies closer than the repulsion radius.
func Overlaps(w *world.World) int {
	n := 0
	for i := range w.Bodies {
		for j := i + 1; j < len(w.Bodies); j++ {
			if r2.Norm(r2.Sub(w.Bodies[j].Pos, w.Bodies[i].Pos)) < w.RepulsionRadius {
				n++
			}
		}
	}
	return n
}

// Resting counts the bodies touching at least one wall.
func Resting(w *world.World) int {
	n := 0
	for _, b := range w.Bodies {
		if b.Pos.X <= w.Radius || b.Pos.X >= w.Width-w.Radius ||
			b.Pos.Y <= w.Radius || b.Pos.Y >= w.Height-w.Radius {
			n++
		}
	}
	return n
}

// Contacts is the mean number of overlapping pairs per tick.
type Contacts struct {
	name string
	mean
}

func NewContacts() *Contacts {
	return &Contacts{name: "contacts"}
}

func (c *Contacts) Name() string           { return c.name }
func (c *Contacts) Observe(w *world.World) { c.add(float64(Overlaps(w))) }
func (c *Contacts) Value() float64         { return c.value() }
func (c *Contacts) Reset()                 { c.reset() }

// WallContacts is the mean number of bodies on a wall per tick.
type WallContacts struct {
	name string
	mean
}

func NewWallContacts() *WallContacts {
	return &WallContacts{name: "wall_contacts"}
}

func (c *WallContacts) Name() string           { return c.name }
func (c *WallContacts) Observe(w *world.World) { c.add(float64(Resting(w))) }
func (c *WallContacts) Value() float64         { return c.value() }
func (c *WallContacts) Reset()                 { c.reset() }
