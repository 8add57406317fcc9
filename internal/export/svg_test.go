package export

import (
	"strings"
	"testing"

	"github.com/san-kum/ballpit/internal/world"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestIndexHex(t *testing.T) {
	tests := []struct {
		i    int
		want string
	}{
		{0, "#000000"},
		{1, "#050a0f"},
		{10, "#326496"},
		{20, "#64c82c"},
	}

	for _, tt := range tests {
		if got := IndexHex(tt.i); got != tt.want {
			t.Errorf("IndexHex(%d) = %s, want %s", tt.i, got, tt.want)
		}
	}
}

func TestWorldSVG(t *testing.T) {
	w := world.FromBodies(world.DefaultParams(),
		world.Body{Pos: r2.Vec{X: 50, Y: 60}},
		world.Body{Pos: r2.Vec{X: 100, Y: 120}},
	)

	svg := WorldSVG(w, world.Pointer{}, 2)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("malformed document:\n%s", svg)
	}
	if !strings.Contains(svg, `width="500" height="500"`) {
		t.Error("arena not scaled")
	}
	if !strings.Contains(svg, `<circle cx="200.0" cy="240.0" r="16.0" fill="#050a0f"/>`) {
		t.Errorf("body 1 missing:\n%s", svg)
	}
	if strings.Contains(svg, "<line") {
		t.Error("no body is held but a drag line was drawn")
	}

	p := world.Pointer{Pos: r2.Vec{X: 10, Y: 10}, Pressed: true}
	p.Capture(0)
	held := WorldSVG(w, p, 1)
	if !strings.Contains(held, `<line x1="50.0" y1="60.0" x2="10.0" y2="10.0"`) {
		t.Errorf("drag line missing:\n%s", held)
	}

	if WorldSVG(nil, world.Pointer{}, 1) != "" || WorldSVG(w, world.Pointer{}, 0) != "" {
		t.Error("expected empty output for invalid input")
	}
}

func TestRecorderAndTrajectory(t *testing.T) {
	w := world.FromBodies(world.DefaultParams(),
		world.Body{Pos: r2.Vec{X: 10, Y: 10}},
		world.Body{Pos: r2.Vec{X: 20, Y: 20}},
	)

	rec := &Recorder{Every: 2}
	for tick := 0; tick < 5; tick++ {
		w.Bodies[0].Pos.X += 1
		rec.OnStep(tick, w, world.Pointer{})
	}

	if len(rec.Paths) != 2 || len(rec.Paths[0]) != 3 {
		t.Fatalf("expected 2 paths of 3 points, got %v", rec.Paths)
	}
	if rec.Paths[0][2].X != 15 {
		t.Errorf("last sample at x=%f, want 15", rec.Paths[0][2].X)
	}

	svg := TrajectorySVG(w, rec.Paths, 1)
	if strings.Count(svg, "<path") != 2 {
		t.Errorf("expected 2 paths:\n%s", svg)
	}
	if !strings.Contains(svg, `d="M11.0,10.0 L13.0,10.0 L15.0,10.0"`) {
		t.Errorf("path 0 malformed:\n%s", svg)
	}
}
