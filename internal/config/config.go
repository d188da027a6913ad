package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/golang/geo/r3"
	"github.com/san-kum/navcom/internal/integrators"
	"github.com/san-kum/navcom/internal/nav"
	"gopkg.in/yaml.v3"
)

const (
	DefaultUpdatesPerSecond = 10.0
	DefaultSubsteps         = 10
	DefaultSlowdownAngle    = math.Pi / 36
	DefaultDuration         = 20.0
	DefaultKp               = 10.0
	DefaultKi               = 0.0
	DefaultKd               = 10.0
	DefaultResponseTime     = 0.25
	DefaultMaxRate          = 1.0
	DefaultMass             = 10000.0
	DefaultMaxThrust        = 1000.0
	DefaultSettleThreshold  = 0.01
)

var ErrInvalidConfig = errors.New("config: invalid config")

// Vec is a 3-vector written as a YAML flow sequence: [x, y, z].
type Vec [3]float64

func (v Vec) Vector() r3.Vector { return r3.Vector{X: v[0], Y: v[1], Z: v[2]} }

// orientable reports whether forward and up span a frame. Parallel or zero
// axes leave the right axis undefined.
func orientable(forward, up Vec) bool {
	return forward.Vector().Cross(up.Vector()).Norm() > 1e-9*forward.Vector().Norm()*up.Vector().Norm()
}

type Config struct {
	Name             string  `yaml:"name,omitempty"`
	Integrator       string  `yaml:"integrator"`
	UpdatesPerSecond float64 `yaml:"updates_per_second"`
	Substeps         int     `yaml:"substeps"`
	Duration         float64 `yaml:"duration"`
	SlowdownAngle    float64 `yaml:"slowdown_angle"`
	SettleThreshold  float64 `yaml:"settle_threshold"`

	Status    string `yaml:"status"`
	AlignMode string `yaml:"align_mode"`
	AutoLevel bool   `yaml:"auto_level"`

	Pitch GainsConfig `yaml:"pitch"`
	Yaw   GainsConfig `yaml:"yaw"`

	Body      BodyConfig       `yaml:"body"`
	Gravity   GravityConfig    `yaml:"gravity"`
	Target    TargetConfig     `yaml:"target"`
	Gyros     []MountConfig    `yaml:"gyros"`
	Thrusters []ThrusterConfig `yaml:"thrusters"`
}

// GainsConfig holds the PID gains of one axis. A disabled axis gets no
// controller and only coasts inside the slowdown band.
type GainsConfig struct {
	Kp       float64 `yaml:"kp"`
	Ki       float64 `yaml:"ki"`
	Kd       float64 `yaml:"kd"`
	Disabled bool    `yaml:"disabled,omitempty"`
}

type BodyConfig struct {
	Forward      Vec     `yaml:"forward,flow"`
	Up           Vec     `yaml:"up,flow"`
	ResponseTime float64 `yaml:"response_time"`
	MaxRate      float64 `yaml:"max_rate"`
	Mass         float64 `yaml:"mass"`
}

type GravityConfig struct {
	Natural    Vec `yaml:"natural,flow"`
	Artificial Vec `yaml:"artificial,flow"`
}

type TargetConfig struct {
	Forward Vec `yaml:"forward,flow"`
	Up      Vec `yaml:"up,flow"`
}

// MountConfig orients a block relative to the ship.
type MountConfig struct {
	Forward Vec `yaml:"forward,flow"`
	Up      Vec `yaml:"up,flow"`
}

type ThrusterConfig struct {
	Forward   Vec     `yaml:"forward,flow"`
	Up        Vec     `yaml:"up,flow"`
	MaxThrust float64 `yaml:"max_thrust"`
}

func defaultGains() GainsConfig {
	return GainsConfig{Kp: DefaultKp, Ki: DefaultKi, Kd: DefaultKd}
}

// CardinalThrusters returns one thruster per body direction.
func CardinalThrusters(maxThrust float64) []ThrusterConfig {
	return []ThrusterConfig{
		{Forward: Vec{0, 0, -1}, Up: Vec{0, 1, 0}, MaxThrust: maxThrust},
		{Forward: Vec{0, 0, 1}, Up: Vec{0, 1, 0}, MaxThrust: maxThrust},
		{Forward: Vec{-1, 0, 0}, Up: Vec{0, 1, 0}, MaxThrust: maxThrust},
		{Forward: Vec{1, 0, 0}, Up: Vec{0, 1, 0}, MaxThrust: maxThrust},
		{Forward: Vec{0, 1, 0}, Up: Vec{0, 0, 1}, MaxThrust: maxThrust},
		{Forward: Vec{0, -1, 0}, Up: Vec{0, 0, 1}, MaxThrust: maxThrust},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Name:             "default",
		Integrator:       "rk4",
		UpdatesPerSecond: DefaultUpdatesPerSecond,
		Substeps:         DefaultSubsteps,
		Duration:         DefaultDuration,
		SlowdownAngle:    DefaultSlowdownAngle,
		SettleThreshold:  DefaultSettleThreshold,
		Status:           "on",
		AlignMode:        "target",
		Pitch:            defaultGains(),
		Yaw:              defaultGains(),
		Body: BodyConfig{
			Forward:      Vec{0, 0, -1},
			Up:           Vec{0, 1, 0},
			ResponseTime: DefaultResponseTime,
			MaxRate:      DefaultMaxRate,
			Mass:         DefaultMass,
		},
		Target: TargetConfig{
			Forward: Vec{1, 0, 0},
			Up:      Vec{0, 1, 0},
		},
		Gyros:     []MountConfig{{Forward: Vec{0, 0, -1}, Up: Vec{0, 1, 0}}},
		Thrusters: CardinalThrusters(DefaultMaxThrust),
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Gyros = nil
	cfg.Thrusters = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Gyros == nil {
		cfg.Gyros = DefaultConfig().Gyros
	}
	if cfg.Thrusters == nil {
		cfg.Thrusters = DefaultConfig().Thrusters
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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

// Validate checks the values the core refuses at construction, plus the
// simulation settings.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	positive := func(x float64) bool { return x > 0 && !math.IsInf(x, 0) }

	switch {
	case !positive(c.UpdatesPerSecond):
		return invalid("updates_per_second must be positive, got %v", c.UpdatesPerSecond)
	case c.Substeps <= 0:
		return invalid("substeps must be positive, got %d", c.Substeps)
	case !positive(c.Duration):
		return invalid("duration must be positive, got %v", c.Duration)
	case c.SlowdownAngle < 0 || math.IsNaN(c.SlowdownAngle):
		return invalid("slowdown_angle must not be negative, got %v", c.SlowdownAngle)
	case !positive(c.Body.ResponseTime):
		return invalid("body.response_time must be positive, got %v", c.Body.ResponseTime)
	case !positive(c.Body.MaxRate):
		return invalid("body.max_rate must be positive, got %v", c.Body.MaxRate)
	case !positive(c.Body.Mass):
		return invalid("body.mass must be positive, got %v", c.Body.Mass)
	case !orientable(c.Body.Forward, c.Body.Up):
		return invalid("body.forward %v and body.up %v must be non-zero and not parallel", c.Body.Forward, c.Body.Up)
	}

	if _, err := nav.ParseAlignMode(c.AlignMode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := nav.ParseStatus(c.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := integrators.Get(c.Integrator); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	for i, g := range c.Gyros {
		if !orientable(g.Forward, g.Up) {
			return invalid("gyros[%d] forward %v and up %v must be non-zero and not parallel", i, g.Forward, g.Up)
		}
	}
	for i, t := range c.Thrusters {
		if !orientable(t.Forward, t.Up) {
			return invalid("thrusters[%d] forward %v and up %v must be non-zero and not parallel", i, t.Forward, t.Up)
		}
		if t.MaxThrust < 0 {
			return invalid("thrusters[%d].max_thrust must not be negative", i)
		}
	}
	return nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Gyros = append([]MountConfig(nil), c.Gyros...)
	cp.Thrusters = append([]ThrusterConfig(nil), c.Thrusters...)
	return &cp
}
