package nav

import (
	"fmt"
	"strings"
)

// AlignMode selects where the up-reference comes from.
type AlignMode int

const (
	// AlignNone clears the up-vector; no bank constraint is applied.
	AlignNone AlignMode = iota
	// AlignNatural levels against planetary gravity.
	AlignNatural
	// AlignArtificial levels against artificial gravity.
	AlignArtificial
	// AlignTotal levels against the combined gravity vector.
	AlignTotal
	// AlignTarget keeps whatever forward/up the caller set last.
	AlignTarget
)

var alignModeNames = map[AlignMode]string{
	AlignNone:       "none",
	AlignNatural:    "natural",
	AlignArtificial: "artificial",
	AlignTotal:      "total",
	AlignTarget:     "target",
}

func (m AlignMode) String() string {
	if name, ok := alignModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("AlignMode(%d)", int(m))
}

// ParseAlignMode maps a case-insensitive name to an AlignMode. "off" is
// accepted as an alias for none.
func ParseAlignMode(s string) (AlignMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "off" {
		return AlignNone, nil
	}
	for mode, n := range alignModeNames {
		if n == name {
			return mode, nil
		}
	}
	return AlignNone, fmt.Errorf("%w: %q", ErrUnknownAlignMode, s)
}

// AlignModes lists every mode in priority order.
func AlignModes() []AlignMode {
	return []AlignMode{AlignNone, AlignNatural, AlignArtificial, AlignTotal, AlignTarget}
}

// Status is the engage state of the computer.
type Status int

const (
	Off Status = iota
	On
)

func (s Status) String() string {
	if s == On {
		return "on"
	}
	return "off"
}

// ParseStatus maps "on"/"off" (any case) to a Status.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on":
		return On, nil
	case "off":
		return Off, nil
	}
	return Off, fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}
