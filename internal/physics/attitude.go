package physics

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/san-kum/navcom/internal/geom"
	"github.com/san-kum/navcom/internal/sim"
	"gonum.org/v1/gonum/num/quat"
)

// State layout of the Attitude model.
const (
	QW = iota
	QX
	QY
	QZ
	WX
	WY
	WZ
	VX
	VY
	VZ
	attitudeDim
)

// Attitude is a rigid body whose gyroscopes chase a commanded body rate
// with a first-order lag, and whose thrusters accelerate it linearly.
//
// State: unit quaternion (body to world), body angular velocity (rad/s,
// right-handed), world velocity (m/s). Control: commanded body rate (3),
// world force in newtons (3).
type Attitude struct {
	// ResponseTime is the time constant of the rate response, in seconds.
	ResponseTime float64
	// MaxRate limits each commanded rate component, in rad/s.
	MaxRate float64
	Mass    float64
}

func NewAttitude() *Attitude {
	return &Attitude{
		ResponseTime: 0.25,
		MaxRate:      1.0,
		Mass:         10000,
	}
}

func (a *Attitude) StateDim() int   { return attitudeDim }
func (a *Attitude) ControlDim() int { return 6 }

func (a *Attitude) Derive(x sim.State, u sim.Control, _ float64) sim.State {
	dx := make(sim.State, attitudeDim)
	if len(x) < attitudeDim {
		return dx
	}

	q := quatOf(x)
	w := quat.Number{Imag: x[WX], Jmag: x[WY], Kmag: x[WZ]}
	dq := quat.Scale(0.5, quat.Mul(q, w))
	dx[QW], dx[QX], dx[QY], dx[QZ] = dq.Real, dq.Imag, dq.Jmag, dq.Kmag

	var cmd, force [3]float64
	if len(u) >= 3 {
		for i := 0; i < 3; i++ {
			cmd[i] = geom.Clamp(u[i], -a.MaxRate, a.MaxRate)
		}
	}
	if len(u) >= 6 {
		copy(force[:], u[3:6])
	}

	tau := math.Max(a.ResponseTime, 1e-6)
	for i := 0; i < 3; i++ {
		dx[WX+i] = (cmd[i] - x[WX+i]) / tau
	}

	if a.Mass > 0 {
		for i := 0; i < 3; i++ {
			dx[VX+i] = force[i] / a.Mass
		}
	}
	return dx
}

// Normalize rescales the quaternion part of x to unit length in place.
func (a *Attitude) Normalize(x sim.State) {
	q := quatOf(x)
	n := quat.Abs(q)
	if n == 0 {
		x[QW], x[QX], x[QY], x[QZ] = 1, 0, 0, 0
		return
	}
	x[QW], x[QX], x[QY], x[QZ] = q.Real/n, q.Imag/n, q.Jmag/n, q.Kmag/n
}

// Orientation returns the body orientation encoded in x.
func (a *Attitude) Orientation(x sim.State) geom.Matrix {
	q := quatOf(x)
	if n := quat.Abs(q); n > 0 {
		q = quat.Scale(1/n, q)
	} else {
		return geom.Identity()
	}
	return geom.FromRows(
		rotate(q, r3.Vector{X: 1}),
		rotate(q, r3.Vector{Y: 1}),
		rotate(q, r3.Vector{Z: 1}),
	)
}

func (a *Attitude) AngularVelocity(x sim.State) r3.Vector {
	return r3.Vector{X: x[WX], Y: x[WY], Z: x[WZ]}
}

func (a *Attitude) Velocity(x sim.State) r3.Vector {
	return r3.Vector{X: x[VX], Y: x[VY], Z: x[VZ]}
}

// InitialState returns a state at rest with the given orientation.
func (a *Attitude) InitialState(orient geom.Matrix) sim.State {
	x := make(sim.State, attitudeDim)
	q := FromMatrix(orient)
	x[QW], x[QX], x[QY], x[QZ] = q.Real, q.Imag, q.Jmag, q.Kmag
	return x
}

func (a *Attitude) GetParams() map[string]float64 {
	return map[string]float64{
		"response_time": a.ResponseTime,
		"max_rate":      a.MaxRate,
		"mass":          a.Mass,
	}
}

func (a *Attitude) SetParam(name string, value float64) error {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s=%v", ErrParameterBounds, name, value)
	}
	switch name {
	case "response_time":
		a.ResponseTime = value
	case "max_rate":
		a.MaxRate = value
	case "mass":
		a.Mass = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return nil
}

func quatOf(x sim.State) quat.Number {
	return quat.Number{Real: x[QW], Imag: x[QX], Jmag: x[QY], Kmag: x[QZ]}
}

func rotate(q quat.Number, v r3.Vector) r3.Vector {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// FromMatrix converts an orientation to a unit quaternion.
func FromMatrix(m geom.Matrix) quat.Number {
	// rows are images of the basis vectors, so the rotation matrix is mᵀ
	r := m.Transpose()
	tr := r.Trace()

	var q quat.Number
	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		q = quat.Number{
			Real: 0.25 * s,
			Imag: (r[2][1] - r[1][2]) / s,
			Jmag: (r[0][2] - r[2][0]) / s,
			Kmag: (r[1][0] - r[0][1]) / s,
		}
	case r[0][0] > r[1][1] && r[0][0] > r[2][2]:
		s := math.Sqrt(1+r[0][0]-r[1][1]-r[2][2]) * 2
		q = quat.Number{
			Real: (r[2][1] - r[1][2]) / s,
			Imag: 0.25 * s,
			Jmag: (r[0][1] + r[1][0]) / s,
			Kmag: (r[0][2] + r[2][0]) / s,
		}
	case r[1][1] > r[2][2]:
		s := math.Sqrt(1+r[1][1]-r[0][0]-r[2][2]) * 2
		q = quat.Number{
			Real: (r[0][2] - r[2][0]) / s,
			Imag: (r[0][1] + r[1][0]) / s,
			Jmag: 0.25 * s,
			Kmag: (r[1][2] + r[2][1]) / s,
		}
	default:
		s := math.Sqrt(1+r[2][2]-r[0][0]-r[1][1]) * 2
		q = quat.Number{
			Real: (r[1][0] - r[0][1]) / s,
			Imag: (r[0][2] + r[2][0]) / s,
			Jmag: (r[1][2] + r[2][1]) / s,
			Kmag: 0.25 * s,
		}
	}
	return quat.Scale(1/quat.Abs(q), q)
}
