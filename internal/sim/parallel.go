package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/ballpit/internal/metrics"
	"github.com/san-kum/ballpit/internal/world"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Ensemble runs the same configuration over consecutive seeds, one
// independent world per goroutine.
type Ensemble struct {
	newWorld  func(seed int64) *world.World
	numRuns   int
	seedStart int64

	// NewMetrics builds the metrics for each run. Metrics are stateful, so
	// every run needs its own set.
	NewMetrics func() []metrics.Metric
	// Workers bounds the runs in flight. Zero means unbounded.
	Workers int
}

func NewEnsemble(newWorld func(seed int64) *world.World, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{newWorld: newWorld, numRuns: numRuns, seedStart: seedStart}
}

// Run returns one result per seed, in seed order. The first failing run
// cancels the others.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.Workers > 0 {
		g.SetLimit(e.Workers)
	}

	for i := 0; i < e.numRuns; i++ {
		i := i
		seed := e.seedStart + int64(i)
		g.Go(func() error {
			s := New(e.newWorld(seed))
			if e.NewMetrics != nil {
				for _, m := range e.NewMetrics() {
					s.AddMetric(m)
				}
			}

			r, err := s.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			r.Seed = seed
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Spread is the mean and standard deviation of a metric across runs.
type Spread struct {
	Name string
	Mean float64
	Std  float64
}

// Summarize aggregates every metric present in results, sorted by name.
func Summarize(results []*Result) []Spread {
	values := make(map[string][]float64)
	for _, r := range results {
		for name, v := range r.Metrics {
			values[name] = append(values[name], v)
		}
	}

	out := make([]Spread, 0, len(values))
	for name, xs := range values {
		s := Spread{Name: name}
		if len(xs) > 1 {
			s.Mean, s.Std = stat.MeanStdDev(xs, nil)
		} else {
			s.Mean = xs[0]
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
