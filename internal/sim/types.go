package sim

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/san-kum/navcom/internal/geom"
	"github.com/san-kum/navcom/internal/nav"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(o State) State {
	r := make(State, len(s))
	for i := range s {
		r[i] = s[i] + o[i]
	}
	return r
}

func (s State) Sub(o State) State {
	r := make(State, len(s))
	for i := range s {
		r[i] = s[i] - o[i]
	}
	return r
}

func (s State) Scale(k float64) State {
	r := make(State, len(s))
	for i := range s {
		r[i] = s[i] * k
	}
	return r
}

type Control []float64

// System is an ODE of the form dX/dt = f(X, u, t).
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Plant is a System whose state carries a rigid-body attitude. Its control
// vector is the body angular-rate command followed by the world force.
type Plant interface {
	System
	Orientation(x State) geom.Matrix
	AngularVelocity(x State) r3.Vector
}

// Normalizer is implemented by systems whose state must be projected back
// onto a constraint surface after each step.
type Normalizer interface {
	Normalize(x State)
}

type Integrator interface {
	Step(sys System, x State, u Control, t, dt float64) State
}

// Sample is what metrics and observers receive after every controller tick.
type Sample struct {
	Time    float64
	State   State
	Control Control
	Nav     nav.Snapshot
	// Error is the pitch/yaw/roll error of the ship's actual orientation
	// against the computer's target. Unlike Nav.RotationPYR it is measured
	// even while the computer is off.
	Error r3.Vector
}

// AttitudeError is the magnitude of the rotation error, in radians.
func (s Sample) AttitudeError() float64 {
	return s.Error.Norm()
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(s Sample)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Sample)

func (f ObserverFunc) OnSample(s Sample) { f(s) }

type Config struct {
	// UpdatesPerSecond is the controller tick rate.
	UpdatesPerSecond float64
	// Substeps is the number of integration steps per tick.
	Substeps int
	Duration float64
	// ValidateState stops the run on NaN or Inf.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		UpdatesPerSecond: 10,
		Substeps:         10,
		Duration:         20,
		ValidateState:    true,
	}
}

// Dt returns the integration step.
func (c Config) Dt() float64 {
	return 1 / (c.UpdatesPerSecond * float64(c.Substeps))
}

type Result struct {
	Times    []float64
	States   []State
	Controls []Control
	Errors   []r3.Vector
	Rates    []r3.Vector
	Metrics  map[string]float64
	Ticks    int
	Stopped  error
}
