package nav

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/san-kum/navcom/internal/geom"
)

// Below this length a cross product or extracted axis counts as zero.
const degenerateEpsilon = 1e-12

// RotationError returns the (pitch, yaw, roll) rotation vector, in the local
// axes of body, whose direction is the rotation axis and whose magnitude is
// the angle in radians between the body's forward axis and forward.
//
// forward and up are world-space directions. A zero forward means there is
// no target and yields the zero vector. A zero up, or an up parallel to
// forward, drops the bank constraint and solves pitch/yaw only.
func RotationError(forward, up r3.Vector, body geom.Matrix) r3.Vector {
	target := geom.SafeNormalize(forward)
	if geom.IsZero(target) {
		return geom.Zero
	}
	f := geom.RotateInverse(target, body)

	var left r3.Vector
	if !geom.IsZero(up) {
		left = geom.RotateInverse(up, body).Cross(f)
	}

	var axis r3.Vector
	var angle float64

	if geom.IsZero(up) || left.Norm() < degenerateEpsilon {
		axis = r3.Vector{X: -f.Y, Y: f.X}
		angle = math.Acos(geom.Clamp(-f.Z, -1, 1))
	} else {
		left = geom.SafeNormalize(left)
		u := f.Cross(left)
		m := geom.FromRows(left.Mul(-1), u, f.Mul(-1))

		axis = r3.Vector{
			X: m[2][1] - m[1][2],
			Y: m[0][2] - m[2][0],
			Z: m[1][0] - m[0][1],
		}
		angle = math.Acos(geom.Clamp((m.Trace()-1)*0.5, -1, 1))
	}

	if axis.Norm() < degenerateEpsilon {
		// 0 or 180 degrees: the axis is undefined, report it as a pure yaw.
		if f.Z < 0 {
			angle = 0
		} else {
			angle = math.Pi
		}
		return r3.Vector{Y: angle}
	}

	return geom.SafeNormalize(axis).Mul(angle)
}
