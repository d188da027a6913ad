package viz

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/san-kum/navcom/internal/geom"
)

// Camera orbits the world origin and projects world vectors onto a canvas.
// World up (+Y) stays vertical on screen.
type Camera struct {
	Yaw, Pitch float64
	Distance   float64
}

func NewCamera() *Camera {
	return &Camera{Yaw: -math.Pi / 6, Pitch: math.Pi / 8, Distance: 4}
}

func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch = geom.Clamp(c.Pitch+dPitch, -math.Pi/2+0.05, math.Pi/2-0.05)
}

// view returns p in camera space: X right, Y up, Z towards the viewer.
func (c *Camera) view(p r3.Vector) r3.Vector {
	p = geom.RotateVector(p, r3.Vector{Y: 1}, -c.Yaw)
	return geom.RotateVector(p, r3.Vector{X: 1}, c.Pitch)
}

// Project maps a world point to canvas dots. ok is false when the point is
// behind the camera.
func (c *Camera) Project(p r3.Vector, w, h int) (x, y int, ok bool) {
	v := c.view(p)
	depth := c.Distance - v.Z
	if depth <= 0.1 {
		return 0, 0, false
	}
	scale := c.Distance / depth * float64(min(w, h)) / 3
	return w/2 + int(v.X*scale), h/2 - int(v.Y*scale), true
}

// DrawVector draws a segment from the origin to v.
func (c *Camera) DrawVector(cv *Canvas, v r3.Vector, dash int) {
	w, h := cv.Pixels()
	x0, y0, ok0 := c.Project(geom.Zero, w, h)
	x1, y1, ok1 := c.Project(v, w, h)
	if ok0 && ok1 {
		cv.Line(x0, y0, x1, y1, dash)
	}
}

// DrawAttitude draws the body axes of orient (forward long, up and right
// short) and, when target is non-zero, the target forward vector dashed.
func (c *Camera) DrawAttitude(cv *Canvas, orient geom.Matrix, target r3.Vector) {
	c.DrawVector(cv, orient.Forward(), 0)
	c.DrawVector(cv, orient.Up().Mul(0.5), 0)
	c.DrawVector(cv, orient.Right().Mul(0.3), 0)
	if t := geom.SafeNormalize(target); !geom.IsZero(t) {
		c.DrawVector(cv, t, 2)
	}
}
