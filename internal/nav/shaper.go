package nav

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/san-kum/navcom/internal/control"
)

// ShapeRate converts a rotation error into a commanded angular rate.
//
// Pitch and yaw take the output of their controller (zero when nil). When the
// raw error on one of those axes is smaller than slowdownAngle, the command is
// replaced by updatesPerSecond*0.5*error so the body coasts onto the target
// instead of overshooting. Controllers are still fed on every call.
//
// Roll is passed through unshaped.
func ShapeRate(rot r3.Vector, pitch, yaw control.Controller, updatesPerSecond, slowdownAngle float64) r3.Vector {
	var rate r3.Vector

	if pitch != nil {
		rate.X = pitch.Control(rot.X)
	}
	if yaw != nil {
		rate.Y = yaw.Control(rot.Y)
	}
	rate.Z = rot.Z

	coast := updatesPerSecond * 0.5
	if math.Abs(rot.X) < slowdownAngle {
		rate.X = coast * rot.X
	}
	if math.Abs(rot.Y) < slowdownAngle {
		rate.Y = coast * rot.Y
	}

	return rate
}
