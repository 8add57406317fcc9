package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/ballpit/internal/world"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS   = 60
	DefaultTheme = "cyberpunk"
)

var (
	ErrInvalidArena   = errors.New("config: invalid arena")
	ErrInvalidBodies  = errors.New("config: invalid bodies")
	ErrInvalidPhysics = errors.New("config: invalid physics")
	ErrUnknownPreset  = errors.New("config: unknown preset")
)

type Config struct {
	Arena   ArenaConfig   `yaml:"arena"`
	Bodies  BodiesConfig  `yaml:"bodies"`
	Physics PhysicsConfig `yaml:"physics"`
	Seed    int64         `yaml:"seed"`
	FPS     int           `yaml:"fps"`
	Theme   string        `yaml:"theme"`
	Sound   bool          `yaml:"sound"`
}

type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type BodiesConfig struct {
	Count  int     `yaml:"count"`
	Radius float64 `yaml:"radius"`
}

type PhysicsConfig struct {
	Gravity         float64 `yaml:"gravity"`
	Damping         float64 `yaml:"damping"`
	RepulsionForce  float64 `yaml:"repulsion_force"`
	RepulsionRadius float64 `yaml:"repulsion_radius,omitempty"`
	PullCoefficient float64 `yaml:"pull_coefficient"`
	Epsilon         float64 `yaml:"epsilon"`
}

func DefaultConfig() *Config {
	return &Config{
		Arena: ArenaConfig{
			Width:  world.DefaultWidth,
			Height: world.DefaultHeight,
		},
		Bodies: BodiesConfig{
			Count:  world.DefaultBodies,
			Radius: world.DefaultRadius,
		},
		Physics: PhysicsConfig{
			Gravity:         world.DefaultGravity,
			Damping:         world.DefaultDamping,
			RepulsionForce:  world.DefaultRepulsionForce,
			PullCoefficient: world.DefaultPullCoefficient,
			Epsilon:         world.DefaultEpsilon,
		},
		FPS:   DefaultFPS,
		Theme: DefaultTheme,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over base, so keys missing from the file keep
// base's values. base is modified and returned.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the engine cannot keep in bounds.
func (c *Config) Validate() error {
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return fmt.Errorf("%w: size %gx%g must be positive", ErrInvalidArena, c.Arena.Width, c.Arena.Height)
	}
	if c.Bodies.Count < 0 {
		return fmt.Errorf("%w: count %d is negative", ErrInvalidBodies, c.Bodies.Count)
	}
	if c.Bodies.Radius <= 0 {
		return fmt.Errorf("%w: radius %g must be positive", ErrInvalidBodies, c.Bodies.Radius)
	}
	if 2*c.Bodies.Radius > c.Arena.Width || 2*c.Bodies.Radius > c.Arena.Height {
		return fmt.Errorf("%w: radius %g does not fit a %gx%g arena", ErrInvalidArena, c.Bodies.Radius, c.Arena.Width, c.Arena.Height)
	}
	if c.Physics.Damping <= 0 || c.Physics.Damping > 1 {
		return fmt.Errorf("%w: damping %g must be in (0, 1]", ErrInvalidPhysics, c.Physics.Damping)
	}
	if c.Physics.Epsilon <= 0 {
		return fmt.Errorf("%w: epsilon %g must be positive", ErrInvalidPhysics, c.Physics.Epsilon)
	}
	if c.Physics.RepulsionRadius < 0 {
		return fmt.Errorf("%w: repulsion radius %g is negative", ErrInvalidPhysics, c.Physics.RepulsionRadius)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps %d must be positive", ErrInvalidPhysics, c.FPS)
	}
	return nil
}

// Params converts the configuration into engine parameters. A zero
// repulsion radius means twice the body radius.
func (c *Config) Params() world.Params {
	rr := c.Physics.RepulsionRadius
	if rr == 0 {
		rr = 2 * c.Bodies.Radius
	}
	return world.Params{
		Width:           c.Arena.Width,
		Height:          c.Arena.Height,
		Radius:          c.Bodies.Radius,
		Gravity:         c.Physics.Gravity,
		Damping:         c.Physics.Damping,
		RepulsionRadius: rr,
		RepulsionForce:  c.Physics.RepulsionForce,
		PullCoefficient: c.Physics.PullCoefficient,
		Epsilon:         c.Physics.Epsilon,
	}
}

// NewWorld seeds a fresh world from the configuration.
func (c *Config) NewWorld() *world.World {
	return world.New(c.Params(), c.Bodies.Count, c.Seed)
}
