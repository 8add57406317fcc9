package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/metrics"
	"github.com/san-kum/ballpit/internal/sim"
)

var (
	ErrUnknownKnob   = errors.New("optim: unknown parameter")
	ErrUnknownMetric = errors.New("optim: unknown metric")
	ErrEmptyRange    = errors.New("optim: empty range")
)

// Knobs maps a sweepable parameter name to its setter.
var Knobs = map[string]func(*config.Config, float64){
	"gravity":          func(c *config.Config, v float64) { c.Physics.Gravity = v },
	"damping":          func(c *config.Config, v float64) { c.Physics.Damping = v },
	"repulsion_force":  func(c *config.Config, v float64) { c.Physics.RepulsionForce = v },
	"repulsion_radius": func(c *config.Config, v float64) { c.Physics.RepulsionRadius = v },
	"pull_coefficient": func(c *config.Config, v float64) { c.Physics.PullCoefficient = v },
	"radius":           func(c *config.Config, v float64) { c.Bodies.Radius = v },
	"bodies":           func(c *config.Config, v float64) { c.Bodies.Count = int(v) },
}

// KnobNames returns the sweepable parameters, sorted.
func KnobNames() []string {
	names := make([]string, 0, len(Knobs))
	for n := range Knobs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Point is one evaluated combination.
type Point struct {
	Params map[string]float64
	Value  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	// Maximize picks the largest metric value instead of the smallest.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, p := range params {
		if _, ok := Knobs[p]; !ok {
			return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownKnob, p, strings.Join(KnobNames(), ", "))
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("%w for %s", ErrEmptyRange, p)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search runs every combination over base and scores it by metricName,
// one of the standard metrics. All points are returned in grid order.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	run sim.Config,
	metricName string,
) (*Point, []Point, error) {
	if !isStandard(metricName) {
		return nil, nil, fmt.Errorf("%w %q", ErrUnknownMetric, metricName)
	}

	var points []Point
	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, run, metricName, &points)
	if err != nil {
		return nil, points, err
	}

	var best *Point
	for i := range points {
		p := &points[i]
		if best == nil || g.better(p.Value, best.Value) {
			best = p
		}
	}
	return best, points, nil
}

func (g *GridSearch) better(a, b float64) bool {
	if math.IsNaN(b) {
		return !math.IsNaN(a)
	}
	if g.Maximize {
		return a > b
	}
	return a < b
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	run sim.Config,
	metricName string,
	points *[]Point,
) error {
	if depth == len(g.paramNames) {
		cfg := *base
		for k, v := range current {
			Knobs[k](&cfg, v)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%s: %w", describe(current), err)
		}

		s := sim.New(cfg.NewWorld())
		for _, m := range metrics.Standard() {
			s.AddMetric(m)
		}
		result, err := s.Run(ctx, run)
		if err != nil {
			return fmt.Errorf("%s: %w", describe(current), err)
		}

		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		*points = append(*points, Point{Params: params, Value: result.Metrics[metricName]})
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, run, metricName, points); err != nil {
			return err
		}
	}
	return nil
}

func isStandard(name string) bool {
	for _, m := range metrics.Standard() {
		if m.Name() == name {
			return true
		}
	}
	return false
}

func describe(params map[string]float64) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.FormatFloat(params[k], 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

// ParseRange parses "a,b,c" as a list or "lo:hi:step" as an inclusive
// range.
func ParseRange(s string) ([]float64, error) {
	if lo, rest, ok := strings.Cut(s, ":"); ok {
		hi, stepStr, ok := strings.Cut(rest, ":")
		if !ok {
			return nil, fmt.Errorf("invalid range %q: want lo:hi:step", s)
		}
		vals, err := parseFloats(lo, hi, stepStr)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", s, err)
		}
		from, to, step := vals[0], vals[1], vals[2]
		if step <= 0 || to < from {
			return nil, fmt.Errorf("%w: %q", ErrEmptyRange, s)
		}
		n := int(math.Floor((to-from)/step+1e-9)) + 1
		out := make([]float64, n)
		for i := range out {
			out[i] = from + float64(i)*step
		}
		return out, nil
	}

	out, err := parseFloats(strings.Split(s, ",")...)
	if err != nil {
		return nil, fmt.Errorf("invalid list %q: %w", s, err)
	}
	return out, nil
}

func parseFloats(parts ...string) ([]float64, error) {
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
