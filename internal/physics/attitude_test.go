package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/san-kum/navcom/internal/geom"
	"github.com/san-kum/navcom/internal/integrators"
	"github.com/san-kum/navcom/internal/sim"
)

func matNear(a, b geom.Matrix, tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(a[i][j]-b[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

func run(a *Attitude, x sim.State, u sim.Control, seconds, dt float64) sim.State {
	integ := integrators.NewRK4()
	steps := int(math.Round(seconds / dt))
	for i := 0; i < steps; i++ {
		x = integ.Step(a, x, u, float64(i)*dt, dt)
		a.Normalize(x)
	}
	return x
}

func TestOrientationRoundTrip(t *testing.T) {
	a := NewAttitude()
	orients := []geom.Matrix{
		geom.Identity(),
		geom.AxisAngle(r3.Vector{Y: 1}, math.Pi/2),
		geom.AxisAngle(r3.Vector{X: 1}, math.Pi),
		geom.AxisAngle(r3.Vector{Y: 1}, math.Pi),
		geom.AxisAngle(r3.Vector{Z: 1}, math.Pi),
		geom.AxisAngle(r3.Vector{X: 1, Y: -2, Z: 0.5}, 2.9),
	}

	for i, m := range orients {
		got := a.Orientation(a.InitialState(m))
		if !matNear(got, m, 1e-12) {
			t.Errorf("case %d: got %v, want %v", i, got, m)
		}
	}
}

func TestConstantRateRotates(t *testing.T) {
	a := NewAttitude()
	x := a.InitialState(geom.Identity())
	x[WY] = 0.5

	x = run(a, x, sim.Control{0, 0.5, 0, 0, 0, 0}, 2, 0.01)

	want := geom.AxisAngle(r3.Vector{Y: 1}, 1.0)
	if got := a.Orientation(x); !matNear(got, want, 1e-8) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRateResponse(t *testing.T) {
	a := NewAttitude()
	a.ResponseTime = 0.5
	x := a.InitialState(geom.Identity())

	x = run(a, x, sim.Control{0.2, 0, 0, 0, 0, 0}, 0.5, 0.001)

	want := 0.2 * (1 - math.Exp(-1))
	if got := a.AngularVelocity(x).X; math.Abs(got-want) > 1e-6 {
		t.Errorf("rate after one time constant = %v, want %v", got, want)
	}
}

func TestMaxRate(t *testing.T) {
	a := NewAttitude()
	a.MaxRate = 0.3
	x := a.InitialState(geom.Identity())

	x = run(a, x, sim.Control{0, -10, 0, 0, 0, 0}, 5, 0.01)

	if got := a.AngularVelocity(x).Y; math.Abs(got+0.3) > 1e-6 {
		t.Errorf("rate = %v, want -0.3", got)
	}
}

func TestThrustAccelerates(t *testing.T) {
	a := NewAttitude()
	x := a.InitialState(geom.Identity())

	x = run(a, x, sim.Control{0, 0, 0, 0, 0, -1000}, 1, 0.01)

	if got := a.Velocity(x); math.Abs(got.Z+0.1) > 1e-9 || got.X != 0 || got.Y != 0 {
		t.Errorf("velocity = %v, want (0,0,-0.1)", got)
	}
}

func TestNormalize(t *testing.T) {
	a := NewAttitude()
	x := a.InitialState(geom.Identity())
	x[QW] = 2
	a.Normalize(x)
	if x[QW] != 1 {
		t.Errorf("QW = %v, want 1", x[QW])
	}

	x[QW] = 0
	a.Normalize(x)
	if x[QW] != 1 {
		t.Errorf("zero quaternion should reset to identity, got %v", x[:4])
	}
}

func TestSetParam(t *testing.T) {
	a := NewAttitude()
	if err := a.SetParam("max_rate", 2); err != nil || a.MaxRate != 2 {
		t.Errorf("max_rate not set: %v", err)
	}
	if err := a.SetParam("max_rate", -1); !errors.Is(err, ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if err := a.SetParam("spin", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
	if got := a.GetParams()["max_rate"]; got != 2 {
		t.Errorf("GetParams max_rate = %v", got)
	}
}
