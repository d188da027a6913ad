package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/rs/zerolog"
	"github.com/san-kum/navcom/internal/geom"
	"github.com/san-kum/navcom/internal/nav"
)

// yawPlant turns about world up only. State: yaw angle, yaw rate.
type yawPlant struct{}

func (p *yawPlant) StateDim() int   { return 2 }
func (p *yawPlant) ControlDim() int { return 6 }

func (p *yawPlant) Derive(x State, u Control, t float64) State {
	return State{x[1], (u[1] - x[1]) / 0.1}
}

func (p *yawPlant) Orientation(x State) geom.Matrix {
	return geom.AxisAngle(r3.Vector{Y: 1}, x[0])
}

func (p *yawPlant) AngularVelocity(x State) r3.Vector {
	return r3.Vector{Y: x[1]}
}

type testIntegrator struct{}

func (t *testIntegrator) Step(sys System, x State, u Control, time float64, dt float64) State {
	dx := sys.Derive(x, u, time)
	return x.Add(dx.Scale(dt))
}

type fixedGain float64

func (g fixedGain) Control(err float64) float64 { return float64(g) * err }

func newTestSimulator(t *testing.T) (*Simulator, *Ship) {
	t.Helper()
	ship, err := NewShip(&yawPlant{}, State{0, 0})
	if err != nil {
		t.Fatal(err)
	}
	computer, err := nav.New(nav.Options{
		Body:             ship,
		Pitch:            fixedGain(1),
		Yaw:              fixedGain(1),
		UpdatesPerSecond: 10,
		SlowdownAngle:    0.05,
		AlignMode:        nav.AlignTarget,
	})
	if err != nil {
		t.Fatal(err)
	}
	computer.AddGyro(ship.AddGyroscope(geom.Identity()))
	computer.SetForwardVector(r3.Vector{X: 1})
	computer.SetUpVector(r3.Vector{Y: 1})
	computer.SetStatus(nav.On)

	return New(ship, computer, &testIntegrator{}, zerolog.Nop()), ship
}

func TestSimulatorRun(t *testing.T) {
	s, ship := newTestSimulator(t)

	result, err := s.Run(context.Background(), Config{UpdatesPerSecond: 10, Substeps: 10, Duration: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 101 || len(result.Times) != 101 {
		t.Errorf("expected 101 states and times, got %d/%d", len(result.States), len(result.Times))
	}
	if result.Ticks != 100 || len(result.Controls) != 100 {
		t.Errorf("expected 100 ticks, got %d/%d", result.Ticks, len(result.Controls))
	}

	// turning right is a negative right-handed yaw
	if yaw := ship.State()[0]; math.Abs(yaw+math.Pi/2) > 1e-3 {
		t.Errorf("final yaw = %v, want %v", yaw, -math.Pi/2)
	}
	if final := result.Errors[len(result.Errors)-1].Norm(); final > 1e-3 {
		t.Errorf("final error = %v", final)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s, _ := newTestSimulator(t)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero rate", Config{UpdatesPerSecond: 0, Substeps: 1, Duration: 1}},
		{"zero substeps", Config{UpdatesPerSecond: 10, Substeps: 0, Duration: 1}},
		{"zero duration", Config{UpdatesPerSecond: 10, Substeps: 1, Duration: 0}},
		{"negative duration", Config{UpdatesPerSecond: 10, Substeps: 1, Duration: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), tt.cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(s Sample) {
	t.count++
	t.sum += s.AttitudeError()
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetricsAndObservers(t *testing.T) {
	s, _ := newTestSimulator(t)

	metric := &testMetric{}
	s.AddMetric(metric)

	var order []string
	s.AddTickHook(func(tick int, _ float64) { order = append(order, "hook") })
	s.AddObserver(ObserverFunc(func(Sample) { order = append(order, "observer") }))

	result, err := s.Run(context.Background(), Config{UpdatesPerSecond: 10, Substeps: 2, Duration: 1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	if len(order) != 20 || order[0] != "hook" || order[1] != "observer" {
		t.Errorf("unexpected call order: %v", order)
	}
}

func TestSimulatorStopsOnInvalidState(t *testing.T) {
	s, ship := newTestSimulator(t)
	ship.SetState(State{math.NaN(), 0})

	result, err := s.Run(context.Background(), Config{UpdatesPerSecond: 10, Substeps: 1, Duration: 1, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !errors.Is(result.Stopped, ErrInvalidState) {
		t.Errorf("expected run to stop on invalid state, got %v", result.Stopped)
	}
	if result.Ticks != 1 {
		t.Errorf("expected 1 tick, got %d", result.Ticks)
	}
}

func TestSimulatorCancelled(t *testing.T) {
	s, _ := newTestSimulator(t)
	ctx, cancel := context.WithCancel(context.Background())

	s.AddTickHook(func(tick int, _ float64) {
		if tick == 4 {
			cancel()
		}
	})

	result, err := s.Run(ctx, Config{UpdatesPerSecond: 10, Substeps: 1, Duration: 10})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Ticks != 5 {
		t.Errorf("expected 5 ticks before cancellation, got %d", result.Ticks)
	}
}

func TestSimulatorStep(t *testing.T) {
	s, ship := newTestSimulator(t)
	cfg := Config{UpdatesPerSecond: 10, Substeps: 4, Duration: 1}
	if err := Validate(cfg); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	var hookTicks []int
	s.AddTickHook(func(tick int, _ float64) { hookTicks = append(hookTicks, tick) })

	sample, end := s.Step(7, 2.0, cfg)
	if sample.Time != 2.0 {
		t.Errorf("sample time = %v, want 2", sample.Time)
	}
	if math.Abs(end-2.1) > 1e-12 {
		t.Errorf("end time = %v, want 2.1", end)
	}
	if len(hookTicks) != 1 || hookTicks[0] != 7 {
		t.Errorf("hook ticks = %v, want [7]", hookTicks)
	}
	if sample.State[0] != 0 {
		t.Errorf("sample holds the state after the tick: %v", sample.State)
	}
	if ship.State()[1] == 0 {
		t.Error("ship did not start turning")
	}
}

func TestSimulatorMeasuresErrorWhileOff(t *testing.T) {
	s, ship := newTestSimulator(t)
	s.Computer().SetStatus(nav.Off)

	metric := &testMetric{}
	s.AddMetric(metric)

	result, err := s.Run(context.Background(), Config{UpdatesPerSecond: 10, Substeps: 2, Duration: 1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if yaw := ship.State()[0]; yaw != 0 {
		t.Errorf("ship turned while off: yaw = %v", yaw)
	}
	if got := result.Metrics["test"]; math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("mean error = %v, want %v", got, math.Pi/2)
	}
	if final := result.Errors[len(result.Errors)-1].Norm(); math.Abs(final-math.Pi/2) > 1e-9 {
		t.Errorf("final recorded error = %v, want %v", final, math.Pi/2)
	}
}
