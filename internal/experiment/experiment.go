package experiment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/navcom/internal/config"
	"github.com/san-kum/navcom/internal/control"
	"github.com/san-kum/navcom/internal/geom"
	"github.com/san-kum/navcom/internal/integrators"
	"github.com/san-kum/navcom/internal/metrics"
	"github.com/san-kum/navcom/internal/nav"
	"github.com/san-kum/navcom/internal/physics"
	"github.com/san-kum/navcom/internal/sim"
)

// Experiment is a fully wired closed-loop run built from a config.
type Experiment struct {
	cfg       *config.Config
	plant     *physics.Attitude
	ship      *sim.Ship
	computer  *nav.Computer
	simulator *sim.Simulator
	dropped   int
}

// New validates cfg and assembles the ship, its actuators, the nav computer
// and the simulator.
func New(cfg *config.Config, logger zerolog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	plant := physics.NewAttitude()
	plant.ResponseTime = cfg.Body.ResponseTime
	plant.MaxRate = cfg.Body.MaxRate
	plant.Mass = cfg.Body.Mass

	orient := geom.FromForwardUp(cfg.Body.Forward.Vector(), cfg.Body.Up.Vector())
	ship, err := sim.NewShip(plant, plant.InitialState(orient))
	if err != nil {
		return nil, err
	}
	ship.Natural = cfg.Gravity.Natural.Vector()
	ship.Artificial = cfg.Gravity.Artificial.Vector()

	period := 1 / cfg.UpdatesPerSecond
	pitch, err := newController(cfg.Pitch, period)
	if err != nil {
		return nil, fmt.Errorf("pitch controller: %w", err)
	}
	yaw, err := newController(cfg.Yaw, period)
	if err != nil {
		return nil, fmt.Errorf("yaw controller: %w", err)
	}

	mode, _ := nav.ParseAlignMode(cfg.AlignMode)
	status, _ := nav.ParseStatus(cfg.Status)

	computer, err := nav.New(nav.Options{
		Body:             ship,
		Pitch:            pitch,
		Yaw:              yaw,
		UpdatesPerSecond: cfg.UpdatesPerSecond,
		SlowdownAngle:    cfg.SlowdownAngle,
		AutoLevel:        cfg.AutoLevel,
		AlignMode:        mode,
	})
	if err != nil {
		return nil, err
	}

	for _, g := range cfg.Gyros {
		mount := geom.FromForwardUp(g.Forward.Vector(), g.Up.Vector())
		computer.AddGyro(ship.AddGyroscope(mount))
	}

	e := &Experiment{cfg: cfg, plant: plant, ship: ship, computer: computer}
	for i, t := range cfg.Thrusters {
		mount := geom.FromForwardUp(t.Forward.Vector(), t.Up.Vector())
		if dir, ok := computer.AddThruster(ship.AddThruster(mount, t.MaxThrust)); ok {
			logger.Debug().Int("thruster", i).Stringer("direction", dir).Msg("thruster classified")
		} else {
			e.dropped++
			logger.Warn().Int("thruster", i).Msg("thruster matches no direction, dropped")
		}
	}

	computer.SetForwardVector(cfg.Target.Forward.Vector())
	computer.SetUpVector(cfg.Target.Up.Vector())
	computer.SetStatus(status)

	integ, err := integrators.Get(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	e.simulator = sim.New(ship, computer, integ, logger)
	for _, m := range metrics.Default(cfg.SettleThreshold) {
		e.simulator.AddMetric(m)
	}
	return e, nil
}

func newController(g config.GainsConfig, period float64) (control.Controller, error) {
	if g.Disabled {
		return nil, nil
	}
	return control.NewPID(g.Kp, g.Ki, g.Kd, period)
}

func (e *Experiment) Config() *config.Config    { return e.cfg }
func (e *Experiment) Ship() *sim.Ship           { return e.ship }
func (e *Experiment) Plant() *physics.Attitude  { return e.plant }
func (e *Experiment) Computer() *nav.Computer   { return e.computer }
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

// Dropped returns how many configured thrusters matched no direction.
func (e *Experiment) Dropped() int { return e.dropped }

// SimConfig returns the simulator settings derived from the config.
func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		UpdatesPerSecond: e.cfg.UpdatesPerSecond,
		Substeps:         e.cfg.Substeps,
		Duration:         e.cfg.Duration,
		ValidateState:    true,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.SimConfig())
}

// EnableThrustTest fires each thrust bucket in turn for hold ticks, starting
// with the first simulated tick.
func (e *Experiment) EnableThrustTest(hold int) *nav.ThrustSequencer {
	seq := nav.NewThrustSequencer(e.computer.Thrusters(), hold)
	e.simulator.AddTickHook(func(int, float64) {
		seq.Tick()
	})
	return seq
}

// RunAll runs every config concurrently. Results keep the order of cfgs.
func RunAll(ctx context.Context, cfgs []*config.Config, logger zerolog.Logger) ([]*sim.Result, error) {
	results := make([]*sim.Result, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)

	for i, cfg := range cfgs {
		g.Go(func() error {
			exp, err := New(cfg, logger.With().Str("run", cfg.Name).Logger())
			if err != nil {
				return fmt.Errorf("%s: %w", cfg.Name, err)
			}
			res, err := exp.Run(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", cfg.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
