package sim

import (
	"github.com/golang/geo/r3"
	"github.com/san-kum/navcom/internal/geom"
)

// Gyroscope is a simulated gyro block. Its mount is the orientation of the
// block relative to the ship.
type Gyroscope struct {
	ship     *Ship
	mount    geom.Matrix
	cmd      r3.Vector
	override bool
	closed   bool
}

// AddGyroscope mounts a gyroscope on the ship.
func (s *Ship) AddGyroscope(mount geom.Matrix) *Gyroscope {
	g := &Gyroscope{ship: s, mount: mount}
	s.gyros = append(s.gyros, g)
	return g
}

func (g *Gyroscope) Frame() geom.Frame {
	return geom.Frame{Orientation: g.mount.Mul(g.ship.Frame().Orientation)}
}

func (g *Gyroscope) Override(pyr r3.Vector) {
	if g.closed {
		return
	}
	g.cmd = pyr
	g.override = true
}

func (g *Gyroscope) Release() {
	g.cmd = r3.Vector{}
	g.override = false
}

func (g *Gyroscope) Closed() bool { return g.closed }

// Close detaches the gyroscope from the ship, as if it had been destroyed.
func (g *Gyroscope) Close() {
	g.Release()
	g.closed = true
}

func (g *Gyroscope) Command() r3.Vector { return g.cmd }
func (g *Gyroscope) Overridden() bool   { return g.override }

// Thruster is a simulated thruster block pushing the ship along the
// block's forward axis.
type Thruster struct {
	ship   *Ship
	mount  geom.Matrix
	max    float64
	out    float64
	closed bool
}

// AddThruster mounts a thruster with the given full-power output in newtons.
func (s *Ship) AddThruster(mount geom.Matrix, maxThrust float64) *Thruster {
	t := &Thruster{ship: s, mount: mount, max: maxThrust}
	s.thrusters = append(s.thrusters, t)
	return t
}

func (t *Thruster) Frame() geom.Frame {
	return geom.Frame{Orientation: t.mount.Mul(t.ship.Frame().Orientation)}
}

func (t *Thruster) MaxThrust() float64 { return t.max }

// SetThrustOverride sets the output, limited to [0, MaxThrust].
func (t *Thruster) SetThrustOverride(newtons float64) {
	if t.closed {
		return
	}
	t.out = geom.Clamp(newtons, 0, t.max)
}

func (t *Thruster) Closed() bool { return t.closed }

func (t *Thruster) Close() {
	t.out = 0
	t.closed = true
}

func (t *Thruster) Output() float64 { return t.out }
