package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/ballpit/internal/world"
)

// lineInk marks dots of the drag line; body i is inked i+1.
const lineInk = -1

// Renderer draws a world onto a braille canvas. It satisfies
// arena.Renderer; Render turns the canvas into styled text.
type Renderer struct {
	canvas *Canvas
	view   Viewport
	held   int
}

func NewRenderer(v Viewport) *Renderer {
	return &Renderer{canvas: NewCanvas(v.Cols(), v.Rows()), view: v}
}

func (r *Renderer) Canvas() *Canvas { return r.canvas }

func (r *Renderer) Clear() {
	r.canvas.Clear()
	r.held = 0
}

// Draw fills each body's disc in index order, so later bodies paint over
// earlier ones, then the line from the captured body to the pointer.
func (r *Renderer) Draw(w *world.World, p world.Pointer) {
	radius := r.view.Dots(w.Radius)
	for i, b := range w.Bodies {
		x, y := r.view.Dot(b.Pos)
		r.canvas.FillCircle(x, y, radius, i+1)
	}

	if i, ok := p.Captured(); ok && i < len(w.Bodies) {
		r.held = i + 1
		x0, y0 := r.view.Dot(w.Bodies[i].Pos)
		x1, y1 := r.view.Dot(p.Pos)
		r.canvas.DrawLine(x0, y0, x1, y1, lineInk)
	}
}

// Render styles every cell by its ink using th.
func (r *Renderer) Render(th Theme) string {
	styles := make(map[int]lipgloss.Style)
	style := func(ink int) lipgloss.Style {
		if s, ok := styles[ink]; ok {
			return s
		}
		var s lipgloss.Style
		switch {
		case ink == lineInk || ink == r.held:
			s = lipgloss.NewStyle().Foreground(th.Accent).Bold(true)
		default:
			s = lipgloss.NewStyle().Foreground(th.BodyColor(ink - 1))
		}
		styles[ink] = s
		return s
	}

	var b strings.Builder
	for row := range r.canvas.Grid {
		cells, inks := r.canvas.Grid[row], r.canvas.Ink[row]
		start := 0
		for col := 1; col <= len(cells); col++ {
			if col < len(cells) && inks[col] == inks[start] {
				continue
			}
			run := string(cells[start:col])
			if inks[start] == 0 {
				b.WriteString(run)
			} else {
				b.WriteString(style(inks[start]).Render(run))
			}
			start = col
		}
		if row < len(r.canvas.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
