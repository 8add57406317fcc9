package config

import "sort"

// Presets are named variations of the default arena.
var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"zero-g": with(func(c *Config) {
		c.Physics.Gravity = 0
		c.Physics.Damping = 0.995
	}),
	"molasses": with(func(c *Config) {
		c.Physics.Damping = 0.9
		c.Physics.PullCoefficient = 0.05
	}),
	"crowded": with(func(c *Config) {
		c.Bodies.Count = 40
		c.Bodies.Radius = 6
	}),
	"trampoline": with(func(c *Config) {
		c.Physics.Gravity = 0.3
		c.Physics.Damping = 1
		c.Physics.RepulsionForce = -3
	}),
	"wide": with(func(c *Config) {
		c.Arena.Width = 500
		c.Arena.Height = 200
		c.Bodies.Count = 16
	}),
}

func with(mod func(*Config)) *Config {
	c := DefaultConfig()
	mod(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
