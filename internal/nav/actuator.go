package nav

import (
	"github.com/golang/geo/r3"
	"github.com/san-kum/navcom/internal/geom"
)

// Gyro is a torque actuator that accepts angular-rate commands about its own
// local pitch, yaw and roll axes.
type Gyro interface {
	// Frame returns the current world pose of the actuator.
	Frame() geom.Frame
	// Override writes a (pitch, yaw, roll) command and takes exclusive control.
	Override(pyr r3.Vector)
	// Release clears the command and gives control back.
	Release()
	// Closed reports whether the actuator has been detached or destroyed.
	Closed() bool
}

// GyroBank is the registry of gyroscopes driven by one computer. Entries are
// appended in registration order; duplicates are allowed.
type GyroBank struct {
	gyros []Gyro
}

// Add registers a gyroscope. Nil handles are ignored.
func (b *GyroBank) Add(g Gyro) {
	if g == nil {
		return
	}
	b.gyros = append(b.gyros, g)
}

// AddAll registers every non-nil gyroscope in gs.
func (b *GyroBank) AddAll(gs ...Gyro) {
	for _, g := range gs {
		b.Add(g)
	}
}

// Len returns the number of registered gyroscopes.
func (b *GyroBank) Len() int { return len(b.gyros) }

// Prune drops closed gyroscopes and returns how many were removed.
func (b *GyroBank) Prune() int {
	live := b.gyros[:0]
	for _, g := range b.gyros {
		if !g.Closed() {
			live = append(live, g)
		}
	}
	removed := len(b.gyros) - len(live)
	for i := len(live); i < len(b.gyros); i++ {
		b.gyros[i] = nil
	}
	b.gyros = live
	return removed
}

// Apply distributes a body-frame rate command to every live gyroscope.
//
// When engaged is false every gyroscope is released and no rate math is done.
// Otherwise the command is rotated into world space through body and then
// into each gyroscope's own frame, so actuators mounted at any orientation
// receive a correctly re-expressed command.
func (b *GyroBank) Apply(rate r3.Vector, body geom.Matrix, engaged bool) {
	b.Prune()

	if !engaged {
		for _, g := range b.gyros {
			g.Release()
		}
		return
	}

	world := geom.Rotate(rate, body)
	for _, g := range b.gyros {
		g.Override(geom.RotateInverse(world, g.Frame().Orientation))
	}
}
