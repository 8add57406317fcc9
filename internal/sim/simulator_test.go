package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/ballpit/internal/metrics"
	"github.com/san-kum/ballpit/internal/world"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestSimulatorRun(t *testing.T) {
	w := world.New(world.DefaultParams(), 8, 1)
	start := w.Clone()

	s := New(w)
	s.AddMetric(metrics.NewKineticEnergy())
	s.AddMetric(metrics.NewMaxSpeed())

	result, err := s.Run(context.Background(), Config{Ticks: 100})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Ticks != 100 {
		t.Errorf("expected 100 ticks, got %d", result.Ticks)
	}
	if len(result.Energy) != 100 {
		t.Errorf("expected 100 energy samples, got %d", len(result.Energy))
	}
	if _, ok := result.Metrics["kinetic_energy"]; !ok {
		t.Error("missing kinetic_energy metric")
	}
	if result.Metrics["max_speed"] <= 0 {
		t.Error("bodies under gravity should move")
	}
	for i := range w.Bodies {
		if w.Bodies[i] != start.Bodies[i] {
			t.Fatalf("input world was stepped: body %d", i)
		}
		if !result.Final.InBounds(i) {
			t.Errorf("body %d left the arena: %v", i, result.Final.Bodies[i].Pos)
		}
	}
}

func TestSimulatorDeterministic(t *testing.T) {
	run := func() *Result {
		r, err := New(world.New(world.DefaultParams(), 12, 42)).Run(context.Background(), Config{Ticks: 300})
		if err != nil {
			t.Fatal(err)
		}
		return r
	}

	a, b := run(), run()
	for i := range a.Energy {
		if a.Energy[i] != b.Energy[i] {
			t.Fatalf("tick %d: energy %v != %v", i, a.Energy[i], b.Energy[i])
		}
	}
}

func TestSimulatorValidation(t *testing.T) {
	w := world.New(world.DefaultParams(), 3, 1)

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero ticks", Config{}, ErrInvalidTicks},
		{"drag body out of range", Config{Ticks: 10, Drags: []Drag{{Body: 3, Ticks: 5}}}, ErrInvalidDrag},
		{"drag negative start", Config{Ticks: 10, Drags: []Drag{{Start: -1, Ticks: 5}}}, ErrInvalidDrag},
		{"drag zero ticks", Config{Ticks: 10, Drags: []Drag{{}}}, ErrInvalidDrag},
		{"drags overlap", Config{Ticks: 10, Drags: []Drag{{Ticks: 5}, {Start: 5, Ticks: 2}}}, ErrDragOverlap},
		{"drags out of order", Config{Ticks: 10, Drags: []Drag{{Start: 6, Ticks: 2}, {Start: 0, Ticks: 2}}}, ErrDragOverlap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(w).Run(context.Background(), tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSimulatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(world.New(world.DefaultParams(), 4, 1)).Run(ctx, Config{Ticks: 1000})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.Ticks != 0 {
		t.Errorf("expected an empty partial result, got %+v", result)
	}
}

func TestSimulatorDrag(t *testing.T) {
	w := world.FromBodies(world.DefaultParams(), world.Body{Pos: r2.Vec{X: 50, Y: 200}})
	target := r2.Vec{X: 200, Y: 50}

	pointers := make([]world.Pointer, 0, 200)
	s := New(w)
	s.AddObserver(ObserverFunc(func(tick int, _ *world.World, p world.Pointer) {
		if tick != len(pointers) {
			t.Fatalf("observer saw tick %d out of order", tick)
		}
		pointers = append(pointers, p)
	}))

	result, err := s.Run(context.Background(), Config{
		Ticks: 200,
		Drags: []Drag{{Body: 0, Start: 0, Ticks: 120, Target: target}},
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.HeldTicks != 120 {
		t.Errorf("expected 120 held ticks, got %d", result.HeldTicks)
	}
	if i, ok := pointers[0].Captured(); !ok || i != 0 {
		t.Errorf("press did not capture body 0: %d %v", i, ok)
	}
	if d := r2.Norm(r2.Sub(pointers[119].Pos, target)); d > 1 {
		t.Errorf("pointer ended %f away from target", d)
	}
	if pointers[120].Pressed {
		t.Error("pointer still pressed after the drag")
	}

	free, _ := New(w).Run(context.Background(), Config{Ticks: 200})
	if free.HeldTicks != 0 {
		t.Errorf("undragged run held for %d ticks", free.HeldTicks)
	}
	if free.Final.Bodies[0].Pos == result.Final.Bodies[0].Pos {
		t.Error("drag had no effect on the body")
	}
}

func TestEnsemble(t *testing.T) {
	p := world.DefaultParams()
	newWorld := func(seed int64) *world.World { return world.New(p, 6, seed) }

	e := NewEnsemble(newWorld, 5, 10)
	e.Workers = 2
	e.NewMetrics = metrics.Standard

	results, err := e.Run(context.Background(), Config{Ticks: 50})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}

	for i, r := range results {
		if r.Seed != int64(10+i) {
			t.Errorf("result %d has seed %d", i, r.Seed)
		}

		solo, _ := New(newWorld(r.Seed)).Run(context.Background(), Config{Ticks: 50})
		if solo.Energy[49] != r.Energy[49] {
			t.Errorf("seed %d: parallel run diverged from a solo run", r.Seed)
		}
		if len(r.Metrics) != 4 {
			t.Errorf("seed %d: expected 4 metrics, got %d", r.Seed, len(r.Metrics))
		}
	}
}

func TestEnsembleError(t *testing.T) {
	e := NewEnsemble(func(seed int64) *world.World {
		return world.New(world.DefaultParams(), 2, seed)
	}, 3, 0)

	if _, err := e.Run(context.Background(), Config{}); !errors.Is(err, ErrInvalidTicks) {
		t.Errorf("expected ErrInvalidTicks, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	spreads := Summarize([]*Result{
		{Metrics: map[string]float64{"b": 1, "a": 5}},
		{Metrics: map[string]float64{"b": 3}},
	})

	if len(spreads) != 2 || spreads[0].Name != "a" || spreads[1].Name != "b" {
		t.Fatalf("unexpected spreads %+v", spreads)
	}
	if spreads[0].Mean != 5 || spreads[0].Std != 0 {
		t.Errorf("single sample: %+v", spreads[0])
	}
	if spreads[1].Mean != 2 || math.Abs(spreads[1].Std-math.Sqrt2) > 1e-12 {
		t.Errorf("expected mean 2 std sqrt2, got %+v", spreads[1])
	}
}

func TestSimulatorDragSequence(t *testing.T) {
	w := world.FromBodies(world.DefaultParams(),
		world.Body{Pos: r2.Vec{X: 50, Y: 200}},
		world.Body{Pos: r2.Vec{X: 200, Y: 200}},
	)

	var held []int
	s := New(w)
	s.AddObserver(ObserverFunc(func(tick int, _ *world.World, p world.Pointer) {
		i, ok := p.Captured()
		if !ok {
			i = -1
		}
		held = append(held, i)
	}))

	result, err := s.Run(context.Background(), Config{
		Ticks: 40,
		Drags: []Drag{
			{Body: 0, Start: 0, Ticks: 10, Target: r2.Vec{X: 60, Y: 150}},
			{Body: 1, Start: 20, Ticks: 10, Target: r2.Vec{X: 190, Y: 150}},
		},
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.HeldTicks != 20 {
		t.Errorf("expected 20 held ticks, got %d", result.HeldTicks)
	}
	for tick, want := range map[int]int{0: 0, 9: 0, 10: -1, 19: -1, 20: 1, 29: 1, 30: -1} {
		if held[tick] != want {
			t.Errorf("tick %d: held %d, want %d", tick, held[tick], want)
		}
	}
}
