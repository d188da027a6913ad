package nav

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/san-kum/navcom/internal/control"
	"github.com/san-kum/navcom/internal/geom"
)

// GravitySource samples the gravity acting on the body, in world space.
type GravitySource interface {
	NaturalGravity() r3.Vector
	ArtificialGravity() r3.Vector
	TotalGravity() r3.Vector
}

// Body is the reference the computer steers: its pose defines the forward
// axis and the frame rate commands are expressed in.
type Body interface {
	Frame() geom.Frame
	GravitySource
}

// Options configures a Computer.
type Options struct {
	// Body is the reference block. Required.
	Body Body
	// Pitch and Yaw drive their axes outside the slowdown band. A nil
	// controller leaves that axis without active correction.
	Pitch control.Controller
	Yaw   control.Controller
	// UpdatesPerSecond is the tick rate of the external scheduler.
	UpdatesPerSecond float64
	// SlowdownAngle is the per-axis error, in radians, below which the
	// command switches to the coast term.
	SlowdownAngle float64
	// AutoLevel derives the forward vector from the up-vector every tick,
	// except in AlignTarget mode.
	AutoLevel bool
	// AlignMode is the initial alignment mode.
	AlignMode AlignMode
	Observers []Observer
}

// Computer owns the target vectors, the actuator registries and the control
// loop state of one body.
type Computer struct {
	body      Body
	pitch     control.Controller
	yaw       control.Controller
	ups       float64
	slowdown  float64
	autoLevel bool
	observers []Observer

	gyros  GyroBank
	thrust ThrustGroups

	mode   AlignMode
	status Status
	ticks  uint64

	forward  r3.Vector
	up       r3.Vector
	rotation r3.Vector
	rate     r3.Vector
}

// New validates opts and returns a Computer in the Off state.
func New(opts Options) (*Computer, error) {
	if opts.Body == nil {
		return nil, ErrNoBody
	}
	if opts.UpdatesPerSecond <= 0 || math.IsNaN(opts.UpdatesPerSecond) || math.IsInf(opts.UpdatesPerSecond, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRate, opts.UpdatesPerSecond)
	}
	if opts.SlowdownAngle < 0 || math.IsNaN(opts.SlowdownAngle) || math.IsInf(opts.SlowdownAngle, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSlowdown, opts.SlowdownAngle)
	}

	return &Computer{
		body:      opts.Body,
		pitch:     opts.Pitch,
		yaw:       opts.Yaw,
		ups:       opts.UpdatesPerSecond,
		slowdown:  opts.SlowdownAngle,
		autoLevel: opts.AutoLevel,
		mode:      opts.AlignMode,
		observers: append([]Observer(nil), opts.Observers...),
	}, nil
}

// AddGyro registers a gyroscope.
func (c *Computer) AddGyro(g Gyro) { c.gyros.Add(g) }

// AddGyros registers several gyroscopes.
func (c *Computer) AddGyros(gs ...Gyro) { c.gyros.AddAll(gs...) }

// Gyros returns the number of registered gyroscopes.
func (c *Computer) Gyros() int { return c.gyros.Len() }

// AddThruster classifies t against the current body orientation and stores
// it in its direction bucket. Unclassifiable thrusters are dropped.
func (c *Computer) AddThruster(t Thruster) (ThrustDirection, bool) {
	return c.thrust.Add(t, c.body.Frame().Orientation)
}

// Thrusters returns the thrust buckets.
func (c *Computer) Thrusters() *ThrustGroups { return &c.thrust }

// TestThrust drives one thrust bucket at percent of maximum output.
func (c *Computer) TestThrust(d ThrustDirection, percent float64) {
	c.thrust.TestThrust(d, percent)
}

// AddObserver registers a diagnostic sink.
func (c *Computer) AddObserver(o Observer) {
	if o != nil {
		c.observers = append(c.observers, o)
	}
}

// SetStatus switches the computer on or off. Switching off releases every
// gyroscope before returning; it is safe to call repeatedly.
func (c *Computer) SetStatus(s Status) {
	if s == Off {
		c.gyros.Apply(geom.Zero, c.body.Frame().Orientation, false)
	}
	c.status = s
}

func (c *Computer) Status() Status { return c.status }

func (c *Computer) SetAlignMode(m AlignMode) { c.mode = m }
func (c *Computer) AlignMode() AlignMode     { return c.mode }

func (c *Computer) SetAutoLevel(on bool) { c.autoLevel = on }
func (c *Computer) AutoLevel() bool      { return c.autoLevel }

// SetForwardVector sets the world-space direction the body should face.
func (c *Computer) SetForwardVector(v r3.Vector) { c.forward = v }

// SetUpVector sets the world-space up reference used in AlignTarget mode.
// Other modes overwrite it on the next Update.
func (c *Computer) SetUpVector(v r3.Vector) { c.up = v }

func (c *Computer) ForwardVector() r3.Vector    { return c.forward }
func (c *Computer) UpVector() r3.Vector         { return c.up }
func (c *Computer) RotationPYR() r3.Vector      { return c.rotation }
func (c *Computer) RotationSpeedPYR() r3.Vector { return c.rate }

// Update refreshes the up-vector from the alignment mode. Gravity points
// down, so the sampled vector is negated.
func (c *Computer) Update() {
	switch c.mode {
	case AlignNatural:
		c.up = c.body.NaturalGravity().Mul(-1)
	case AlignArtificial:
		c.up = c.body.ArtificialGravity().Mul(-1)
	case AlignTotal:
		c.up = c.body.TotalGravity().Mul(-1)
	case AlignTarget:
		// keep the caller's vector
	default:
		c.up = geom.Zero
	}
}

// AlignToHorizon points the forward vector along body-left × up, which keeps
// the current heading while levelling pitch against the up-vector. It
// reports false, leaving forward untouched, when there is no up-vector.
func (c *Computer) AlignToHorizon() bool {
	if geom.IsZero(c.up) {
		return false
	}
	left := c.body.Frame().Orientation.Left()
	c.SetForwardVector(left.Cross(c.up))
	return true
}

// Control runs one pass of the orientation pipeline. It does nothing while
// the computer is off.
func (c *Computer) Control() {
	if c.status == Off {
		return
	}
	body := c.body.Frame().Orientation
	c.rotation = RotationError(c.forward, c.up, body)
	c.rate = ShapeRate(c.rotation, c.pitch, c.yaw, c.ups, c.slowdown)
	c.gyros.Apply(c.rate, body, c.status == On)
}

// Tick runs one scheduled control tick and notifies observers. It returns
// false without doing anything while the computer is off.
func (c *Computer) Tick() bool {
	if c.status == Off {
		return false
	}

	c.Update()
	if c.autoLevel && c.mode != AlignTarget {
		c.AlignToHorizon()
	}
	c.Control()
	c.ticks++

	snap := c.Snapshot()
	for _, o := range c.observers {
		o.OnTick(snap)
	}
	return true
}

// Snapshot captures the current diagnostic state.
func (c *Computer) Snapshot() Snapshot {
	return Snapshot{
		Tick:             c.ticks,
		Status:           c.status,
		Mode:             c.mode,
		Forward:          c.forward,
		Up:               c.up,
		RotationPYR:      c.rotation,
		RotationSpeedPYR: c.rate,
	}
}

// ReadData renders the diagnostic text block.
func (c *Computer) ReadData() string {
	return c.Snapshot().String()
}
