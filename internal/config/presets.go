package config

import (
	"math"
	"sort"
)

func preset(name string, edit func(c *Config)) *Config {
	c := DefaultConfig()
	c.Name = name
	edit(c)
	return c
}

var Presets = map[string]*Config{
	"quarter-turn": preset("quarter-turn", func(c *Config) {}),
	"about-face": preset("about-face", func(c *Config) {
		c.AlignMode = "none"
		c.Target = TargetConfig{Forward: Vec{0, 0, 1}}
		c.Duration = 30
	}),
	"pitch-up": preset("pitch-up", func(c *Config) {
		c.Target = TargetConfig{Forward: Vec{0, 1, -1}, Up: Vec{0, 1, 1}}
	}),
	"level": preset("level", func(c *Config) {
		c.AlignMode = "natural"
		c.AutoLevel = true
		c.Gravity.Natural = Vec{0, -9.81, 0}
		c.Body.Forward = Vec{0.3, 0.4, -1}
		c.Body.Up = Vec{0.2, 1, 0.4}
		c.Target = TargetConfig{}
	}),
	"spacecraft": preset("spacecraft", func(c *Config) {
		c.AlignMode = "artificial"
		c.Gravity.Artificial = Vec{0, 0, 9.81}
		c.Target.Forward = Vec{0, -1, 0}
		c.Gyros = []MountConfig{
			{Forward: Vec{0, 0, -1}, Up: Vec{0, 1, 0}},
			{Forward: Vec{1, 0, 0}, Up: Vec{0, 0, 1}},
			{Forward: Vec{0, -1, 0}, Up: Vec{-1, 0, 0}},
		}
	}),
	"gentle": preset("gentle", func(c *Config) {
		c.Pitch = GainsConfig{Kp: 2, Kd: 0.2}
		c.Yaw = GainsConfig{Kp: 2, Kd: 0.2}
		c.Body.MaxRate = math.Pi
	}),
	"coast-only": preset("coast-only", func(c *Config) {
		c.Pitch.Disabled = true
		c.Yaw.Disabled = true
		c.SlowdownAngle = math.Pi
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
