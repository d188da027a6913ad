package sim

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/san-kum/navcom/internal/geom"
)

// Ship is a simulated vessel: a plant state, the gravity acting on it and
// the actuators mounted on it. It serves as the reference body of a
// nav.Computer.
type Ship struct {
	plant Plant
	state State

	Natural    r3.Vector
	Artificial r3.Vector

	gyros     []*Gyroscope
	thrusters []*Thruster
}

// NewShip returns a ship starting in state x0.
func NewShip(plant Plant, x0 State) (*Ship, error) {
	if len(x0) != plant.StateDim() {
		return nil, fmt.Errorf("%w: state has %d values, plant wants %d", ErrDimension, len(x0), plant.StateDim())
	}
	if plant.ControlDim() != 6 {
		return nil, fmt.Errorf("%w: plant control has %d values, want 6", ErrDimension, plant.ControlDim())
	}
	return &Ship{plant: plant, state: x0.Clone()}, nil
}

func (s *Ship) Plant() Plant { return s.plant }

func (s *Ship) State() State { return s.state.Clone() }

func (s *Ship) SetState(x State) { s.state = x.Clone() }

func (s *Ship) Frame() geom.Frame {
	return geom.Frame{Orientation: s.plant.Orientation(s.state)}
}

func (s *Ship) NaturalGravity() r3.Vector    { return s.Natural }
func (s *Ship) ArtificialGravity() r3.Vector { return s.Artificial }
func (s *Ship) TotalGravity() r3.Vector      { return s.Natural.Add(s.Artificial) }

// AngularVelocity returns the body angular velocity, right-handed.
func (s *Ship) AngularVelocity() r3.Vector { return s.plant.AngularVelocity(s.state) }

// Control collects the actuator outputs into a plant control vector: the
// mean body rate requested by the overriding gyroscopes, then the summed
// world-space thrust.
func (s *Ship) Control() Control {
	orient := s.plant.Orientation(s.state)

	var rate r3.Vector
	n := 0
	for _, g := range s.gyros {
		if g.closed || !g.override {
			continue
		}
		// a positive command turns clockwise about the gyro axis
		world := geom.Rotate(g.cmd.Mul(-1), g.mount.Mul(orient))
		rate = rate.Add(geom.RotateInverse(world, orient))
		n++
	}
	if n > 0 {
		rate = rate.Mul(1 / float64(n))
	}

	var force r3.Vector
	for _, t := range s.thrusters {
		if t.closed || t.out == 0 {
			continue
		}
		force = force.Add(t.mount.Mul(orient).Forward().Mul(t.out))
	}

	return Control{rate.X, rate.Y, rate.Z, force.X, force.Y, force.Z}
}
