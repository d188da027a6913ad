package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/rs/zerolog"
	"github.com/san-kum/navcom/internal/nav"
)

// TickHook runs before the computer on every tick.
type TickHook func(tick int, t float64)

// Simulator closes the loop between a nav.Computer and a simulated ship:
// once per tick the computer runs, the actuator outputs are sampled, and the
// plant is integrated over the tick in fixed substeps.
type Simulator struct {
	ship       *Ship
	computer   *nav.Computer
	integrator Integrator
	metrics    []Metric
	observers  []Observer
	hooks      []TickHook
	logger     zerolog.Logger
}

func New(ship *Ship, computer *nav.Computer, integrator Integrator, logger zerolog.Logger) *Simulator {
	return &Simulator{
		ship:       ship,
		computer:   computer,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		logger:     logger,
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) AddTickHook(h TickHook) { s.hooks = append(s.hooks, h) }

func (s *Simulator) Ship() *Ship             { return s.ship }
func (s *Simulator) Computer() *nav.Computer { return s.computer }

// Run simulates cfg.Duration seconds. A cancelled context stops the run at
// the next tick and returns the partial result with the context error.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	ticks := int(math.Round(cfg.Duration * cfg.UpdatesPerSecond))

	result := &Result{
		Times:    make([]float64, 0, ticks+1),
		States:   make([]State, 0, ticks+1),
		Controls: make([]Control, 0, ticks),
		Errors:   make([]r3.Vector, 0, ticks),
		Rates:    make([]r3.Vector, 0, ticks),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := s.ship.State()
	t := 0.0
	result.Times = append(result.Times, t)
	result.States = append(result.States, x.Clone())

	s.logger.Debug().
		Int("ticks", ticks).
		Int("substeps", cfg.Substeps).
		Float64("ups", cfg.UpdatesPerSecond).
		Msg("simulation started")

	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		sample, next := s.Step(i, t, cfg)
		t = next
		x = s.ship.State()
		result.Controls = append(result.Controls, sample.Control)
		result.Errors = append(result.Errors, sample.Error)
		result.Rates = append(result.Rates, sample.Nav.RotationSpeedPYR)
		result.Ticks++

		if cfg.ValidateState && !x.IsValid() {
			err := SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			s.logger.Error().Err(err).Msg("simulation diverged")
			result.Stopped = err
			break
		}

		result.Times = append(result.Times, t)
		result.States = append(result.States, x.Clone())
	}

	s.collect(result)
	s.logger.Debug().Int("ticks", result.Ticks).Float64("t", t).Msg("simulation finished")
	return result, nil
}

// Step runs tick number tick starting at time t: hooks, the computer, the
// metrics and observers, then cfg.Substeps integration steps of the ship. It
// returns the sample taken at the start of the tick and the time at its end.
// cfg must already be valid.
func (s *Simulator) Step(tick int, t float64, cfg Config) (Sample, float64) {
	for _, h := range s.hooks {
		h(tick, t)
	}
	s.computer.Tick()

	x := s.ship.State()
	sample := Sample{
		Time:    t,
		State:   x,
		Control: s.ship.Control(),
		Nav:     s.computer.Snapshot(),
		Error:   nav.RotationError(s.computer.ForwardVector(), s.computer.UpVector(), s.ship.Frame().Orientation),
	}
	for _, m := range s.metrics {
		m.Observe(sample)
	}
	for _, o := range s.observers {
		o.OnSample(sample)
	}

	plant := s.ship.Plant()
	dt := cfg.Dt()
	for k := 0; k < cfg.Substeps; k++ {
		x = s.integrator.Step(plant, x, sample.Control, t, dt)
		if n, ok := plant.(Normalizer); ok {
			n.Normalize(x)
		}
		t += dt
	}
	s.ship.SetState(x)
	return sample, t
}

// Validate reports whether cfg can drive Run or Step.
func Validate(cfg Config) error { return validateConfig(cfg) }

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.UpdatesPerSecond <= 0 || math.IsNaN(cfg.UpdatesPerSecond) {
		return fmt.Errorf("%w: updates per second must be positive, got %v", ErrInvalidConfig, cfg.UpdatesPerSecond)
	}
	if cfg.Substeps <= 0 {
		return fmt.Errorf("%w: substeps must be positive, got %d", ErrInvalidConfig, cfg.Substeps)
	}
	if cfg.Duration <= 0 || math.IsNaN(cfg.Duration) {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidConfig, cfg.Duration)
	}
	return nil
}
