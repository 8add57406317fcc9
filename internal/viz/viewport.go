package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Viewport maps arena coordinates onto braille dots and terminal cells back
// onto the arena. Dots are treated as square, so the arena keeps its aspect
// ratio and is scaled to fit within Cols x Rows cells.
type Viewport struct {
	// Left and Top are the terminal cell of the canvas origin.
	Left, Top int

	cols, rows    int
	width, height float64
	scale         float64
}

func NewViewport(cols, rows int, width, height float64) Viewport {
	scale := math.Min(float64(cols*2)/width, float64(rows*4)/height)
	return Viewport{
		cols:   int(math.Ceil(width*scale/2 - 1e-9)),
		rows:   int(math.Ceil(height*scale/4 - 1e-9)),
		width:  width,
		height: height,
		scale:  scale,
	}
}

// Cols and Rows are the cells the arena actually covers.
func (v Viewport) Cols() int { return v.cols }
func (v Viewport) Rows() int { return v.rows }

// Dot returns the sub-pixel holding arena point p.
func (v Viewport) Dot(p r2.Vec) (int, int) {
	return int(math.Floor(p.X * v.scale)), int(math.Floor(p.Y * v.scale))
}

// Dots converts an arena length to a whole number of dots.
func (v Viewport) Dots(length float64) int {
	return int(math.Round(length * v.scale))
}

// ToArena maps the terminal cell (col, row) to the arena point at the
// cell's center. It reports false for cells outside the arena.
func (v Viewport) ToArena(col, row int) (r2.Vec, bool) {
	c, r := col-v.Left, row-v.Top
	if c < 0 || r < 0 || c >= v.cols || r >= v.rows {
		return r2.Vec{}, false
	}
	p := r2.Vec{
		X: (float64(c*2) + 1) / v.scale,
		Y: (float64(r*4) + 2) / v.scale,
	}
	if p.X > v.width || p.Y > v.height {
		return r2.Vec{}, false
	}
	return p, true
}
