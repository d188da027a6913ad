package command

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/navcom/internal/nav"
)

// Target is the part of the nav computer the command set drives.
type Target interface {
	SetStatus(nav.Status)
	SetAlignMode(nav.AlignMode)
	SetAutoLevel(bool)
	TestThrust(nav.ThrustDirection, float64)
}

// ErrBadArgument indicates an argument that does not parse.
var ErrBadArgument = errors.New("command: bad argument")

// RegisterNav installs the nav command set on d:
//
//	nav on|off
//	align natural|artificial|total|target|off
//	level on|off
//	thrust <direction> <percent>
func RegisterNav(d *Dispatcher, t Target, opts ...Option) {
	with := func(n int) []Option { return append([]Option{MinArgs(n)}, opts...) }

	d.Register("nav", func(e Event) (any, error) {
		s, err := nav.ParseStatus(e.Args[0])
		if err != nil {
			return nil, err
		}
		t.SetStatus(s)
		return s, nil
	}, with(1)...)

	d.Register("align", func(e Event) (any, error) {
		m, err := nav.ParseAlignMode(e.Args[0])
		if err != nil {
			return nil, err
		}
		t.SetAlignMode(m)
		return m, nil
	}, with(1)...)

	d.Register("level", func(e Event) (any, error) {
		on, err := parseSwitch(e.Args[0])
		if err != nil {
			return nil, err
		}
		t.SetAutoLevel(on)
		return on, nil
	}, with(1)...)

	d.Register("thrust", func(e Event) (any, error) {
		dir, err := nav.ParseThrustDirection(e.Args[0])
		if err != nil {
			return nil, err
		}
		pct, err := strconv.ParseFloat(strings.TrimSuffix(e.Args[1], "%"), 64)
		if err != nil || math.IsNaN(pct) || math.IsInf(pct, 0) {
			return nil, fmt.Errorf("%w: percent %q", ErrBadArgument, e.Args[1])
		}
		t.TestThrust(dir, pct)
		return dir, nil
	}, with(2)...)
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("%w: want on or off, got %q", ErrBadArgument, s)
}
