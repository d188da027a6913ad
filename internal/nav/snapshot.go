package nav

import (
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/san-kum/navcom/internal/geom"
)

// Precision is the number of decimals kept in a diagnostic snapshot.
const Precision = 6

// Snapshot is the diagnostic state captured at the end of a tick.
type Snapshot struct {
	Tick             uint64
	Status           Status
	Mode             AlignMode
	Forward          r3.Vector
	Up               r3.Vector
	RotationPYR      r3.Vector
	RotationSpeedPYR r3.Vector
}

// Observer receives a snapshot after every executed tick.
type Observer interface {
	OnTick(s Snapshot)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) OnTick(s Snapshot) { f(s) }

// String renders the three diagnostic vectors rounded to Precision decimals.
func (s Snapshot) String() string {
	var sb strings.Builder
	sb.WriteString("Forward Vector: ")
	sb.WriteString(FormatVector(s.Forward))
	sb.WriteString("\nRotation PYR: ")
	sb.WriteString(FormatVector(s.RotationPYR))
	sb.WriteString("\nRotation Speed PYR: ")
	sb.WriteString(FormatVector(s.RotationSpeedPYR))
	sb.WriteByte('\n')
	return sb.String()
}

// FormatVector prints v as "X:x Y:y Z:z" rounded to Precision decimals.
func FormatVector(v r3.Vector) string {
	r := geom.Round(v, Precision)
	return "X:" + formatFloat(r.X) + " Y:" + formatFloat(r.Y) + " Z:" + formatFloat(r.Z)
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
