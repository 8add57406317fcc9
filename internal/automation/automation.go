package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/logging"
	"github.com/san-kum/ballpit/internal/metrics"
	"github.com/san-kum/ballpit/internal/sim"
	"github.com/san-kum/ballpit/internal/world"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario defines a scripted sequence of headless runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run, optionally repeated over consecutive seeds.
// Zero values keep the preset's settings.
type ScenarioStep struct {
	Name    string     `yaml:"name"`
	Preset  string     `yaml:"preset"`
	Seed    int64      `yaml:"seed"`
	Seeds   int        `yaml:"seeds"`
	Bodies  int        `yaml:"bodies"`
	Gravity *float64   `yaml:"gravity"`
	Ticks   int        `yaml:"ticks"`
	Drags   []DragStep `yaml:"drags"`
}

// DragStep grabs Body at tick At, pulls it toward To for For ticks and
// lets go.
type DragStep struct {
	Body int        `yaml:"body"`
	At   int        `yaml:"at"`
	For  int        `yaml:"for"`
	To   [2]float64 `yaml:"to"`
}

// StepResult holds the runs of one step, in seed order.
type StepResult struct {
	Name    string
	Results []*sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, logging.WrapError(err, "parse scenario %s", path)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyScenario, path)
	}

	return &scenario, nil
}

// Config resolves the step's arena configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, fmt.Errorf("%w: %s", config.ErrUnknownPreset, s.Preset)
		}
	}
	cfg.Seed = s.Seed
	if s.Bodies > 0 {
		cfg.Bodies.Count = s.Bodies
	}
	if s.Gravity != nil {
		cfg.Physics.Gravity = *s.Gravity
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SimConfig converts the step's script into a simulator configuration.
func (s ScenarioStep) SimConfig(fps int) sim.Config {
	cfg := sim.Config{Ticks: s.Ticks, FPS: fps}
	for _, d := range s.Drags {
		cfg.Drags = append(cfg.Drags, sim.Drag{
			Body:   d.Body,
			Start:  d.At,
			Ticks:  d.For,
			Target: r2.Vec{X: d.To[0], Y: d.To[1]},
		})
	}
	return cfg
}

// RunScenario executes all steps in a scenario
func RunScenario(ctx context.Context, scenario *Scenario, log *logging.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		log.Info(ctx, "running scenario step", "scenario", scenario.Name, "step", name, "index", i+1, "of", len(scenario.Steps))

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}

		runs := max(step.Seeds, 1)
		e := sim.NewEnsemble(func(seed int64) *world.World {
			c := *cfg
			c.Seed = seed
			return c.NewWorld()
		}, runs, cfg.Seed)
		e.NewMetrics = metrics.Standard

		out, err := e.Run(ctx, step.SimConfig(cfg.FPS))
		if err != nil {
			return results, fmt.Errorf("%s run: %w", name, err)
		}

		results = append(results, StepResult{Name: name, Results: out})
	}

	return results, nil
}
