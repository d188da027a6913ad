package nav

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/san-kum/navcom/internal/geom"
)

// Thruster is a linear actuator pushing along its local forward axis.
type Thruster interface {
	Frame() geom.Frame
	// MaxThrust is the full-power output in newtons.
	MaxThrust() float64
	// SetThrustOverride sets the output in newtons. Zero releases the override.
	SetThrustOverride(newtons float64)
	Closed() bool
}

// ThrustDirection names one of the six cardinal directions of the body.
type ThrustDirection int

const (
	Forward ThrustDirection = iota
	Backward
	Left
	Right
	Up
	Down
)

// NumDirections is the number of thrust buckets.
const NumDirections = 6

// Two unit axes closer than this (1 - dot) are the same direction.
const axisMatchTolerance = 1e-6

var directionNames = [NumDirections]string{"forward", "backward", "left", "right", "up", "down"}

func (d ThrustDirection) String() string {
	if d >= 0 && int(d) < NumDirections {
		return directionNames[d]
	}
	return fmt.Sprintf("ThrustDirection(%d)", int(d))
}

// ParseThrustDirection maps a case-insensitive name to a direction.
func ParseThrustDirection(s string) (ThrustDirection, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == name {
			return ThrustDirection(i), nil
		}
	}
	return Forward, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Axis returns the world direction of d for the reference orientation.
func (d ThrustDirection) Axis(ref geom.Matrix) r3.Vector {
	switch d {
	case Forward:
		return ref.Forward()
	case Backward:
		return ref.Backward()
	case Left:
		return ref.Left()
	case Right:
		return ref.Right()
	case Up:
		return ref.Up()
	case Down:
		return ref.Down()
	}
	return geom.Zero
}

// ThrustGroups holds the thrusters of a body bucketed by direction.
type ThrustGroups struct {
	buckets [NumDirections][]Thruster
}

// Classify returns the bucket whose cardinal axis of ref matches the
// thruster's forward axis.
func Classify(t Thruster, ref geom.Matrix) (ThrustDirection, bool) {
	axis := geom.SafeNormalize(t.Frame().Orientation.Forward())
	for d := Forward; d <= Down; d++ {
		if axis.Dot(d.Axis(ref)) > 1-axisMatchTolerance {
			return d, true
		}
	}
	return Forward, false
}

// Add classifies t against ref once and stores it. Thrusters that match no
// cardinal direction are dropped and reported with ok=false.
func (g *ThrustGroups) Add(t Thruster, ref geom.Matrix) (dir ThrustDirection, ok bool) {
	if t == nil {
		return Forward, false
	}
	dir, ok = Classify(t, ref)
	if !ok {
		return dir, false
	}
	g.buckets[dir] = append(g.buckets[dir], t)
	return dir, true
}

// Bucket returns the thrusters registered for d.
func (g *ThrustGroups) Bucket(d ThrustDirection) []Thruster {
	if d < 0 || int(d) >= NumDirections {
		return nil
	}
	return g.buckets[d]
}

// Len returns the total number of registered thrusters.
func (g *ThrustGroups) Len() int {
	n := 0
	for _, b := range g.buckets {
		n += len(b)
	}
	return n
}

// TestThrust drives every thruster in the d bucket at percent of its maximum
// output. percent is clamped to [0, 100]. Closed thrusters are skipped.
func (g *ThrustGroups) TestThrust(d ThrustDirection, percent float64) {
	power := geom.Clamp(percent, 0, 100) / 100
	for _, t := range g.Bucket(d) {
		if t.Closed() {
			continue
		}
		t.SetThrustOverride(power * t.MaxThrust())
	}
}

// ThrustSequencer fires each bucket in turn at full power for a fixed number
// of ticks, cutting a bucket on the tick the next one starts.
type ThrustSequencer struct {
	groups *ThrustGroups
	hold   int
	tick   int
	state  int
}

// DefaultThrustHold is the number of ticks each direction is held.
const DefaultThrustHold = 13

// NewThrustSequencer returns a sequencer over groups. A non-positive hold
// uses DefaultThrustHold.
func NewThrustSequencer(groups *ThrustGroups, hold int) *ThrustSequencer {
	if hold <= 0 {
		hold = DefaultThrustHold
	}
	return &ThrustSequencer{groups: groups, hold: hold}
}

// Done reports whether all six directions have been exercised and cut.
func (s *ThrustSequencer) Done() bool {
	return s.state >= NumDirections
}

// Tick advances the sequence by one tick and returns the direction being
// driven. Once the last bucket has been cut it reports done and does nothing.
func (s *ThrustSequencer) Tick() (ThrustDirection, bool) {
	if s.Done() {
		return Down, true
	}

	if s.tick > 0 && s.tick%s.hold == 0 {
		s.groups.TestThrust(ThrustDirection(s.state), 0)
		s.state++
		if s.Done() {
			return Down, true
		}
	}

	dir := ThrustDirection(s.state)
	s.groups.TestThrust(dir, 100)
	s.tick++
	return dir, false
}
