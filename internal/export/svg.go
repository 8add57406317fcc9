package export

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/ballpit/internal/world"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	background = "#fafafa"
	frame      = "#c8c8c8"
	selection  = "#e6294b"
)

// IndexRGB is the color of body i: a dark ramp that lightens with index
// and wraps past 255.
func IndexRGB(i int) (r, g, b uint8) {
	return uint8(i * 5), uint8(i * 10), uint8(i * 15)
}

// IndexHex is IndexRGB as a #rrggbb string.
func IndexHex(i int) string {
	r, g, b := IndexRGB(i)
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex()
}

func header(sb *strings.Builder, w *world.World, scale float64) {
	width, height := w.Width*scale, w.Height*scale
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s" stroke="%s"/>
`, width, height, width, height, background, frame))
}

// WorldSVG draws the arena as it stands: one disc per body and, when the
// pointer holds a body, a ring around it and a line to the pointer.
func WorldSVG(w *world.World, p world.Pointer, scale float64) string {
	if w == nil || scale <= 0 {
		return ""
	}

	var sb strings.Builder
	header(&sb, w, scale)

	r := w.Radius * scale
	for i, b := range w.Bodies {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, b.Pos.X*scale, b.Pos.Y*scale, r, IndexHex(i)))
	}

	if i, ok := p.Captured(); ok && i < w.Len() {
		c := r2.Scale(scale, w.Bodies[i].Pos)
		q := r2.Scale(scale, p.Pos)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="2"/>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>
`, c.X, c.Y, r+2, selection, c.X, c.Y, q.X, q.Y, selection))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectorySVG draws one polyline per body path over the arena, in arena
// coordinates, with the final world's discs on top.
func TrajectorySVG(w *world.World, paths [][]r2.Vec, scale float64) string {
	if w == nil || scale <= 0 {
		return ""
	}

	var sb strings.Builder
	header(&sb, w, scale)

	for i, path := range paths {
		if len(path) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-opacity="0.5" stroke-width="1.5" d="M`, IndexHex(i)))
		for j, p := range path {
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.X*scale, p.Y*scale))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.X*scale, p.Y*scale))
			}
		}
		sb.WriteString("\"/>\n")
	}

	r := w.Radius * scale
	for i, b := range w.Bodies {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, b.Pos.X*scale, b.Pos.Y*scale, r, IndexHex(i)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// Recorder collects body positions every Every ticks. It satisfies
// sim.Observer.
type Recorder struct {
	Every int
	Paths [][]r2.Vec
}

func (r *Recorder) OnStep(tick int, w *world.World, _ world.Pointer) {
	if r.Every > 1 && tick%r.Every != 0 {
		return
	}
	if len(r.Paths) < w.Len() {
		r.Paths = append(r.Paths, make([][]r2.Vec, w.Len()-len(r.Paths))...)
	}
	for i, b := range w.Bodies {
		r.Paths[i] = append(r.Paths[i], b.Pos)
	}
}
