package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/navcom/internal/nav"
)

type fakeTarget struct {
	status    nav.Status
	mode      nav.AlignMode
	level     bool
	thrustDir nav.ThrustDirection
	thrustPct float64
	thrusts   int
}

func (f *fakeTarget) SetStatus(s nav.Status)       { f.status = s }
func (f *fakeTarget) SetAlignMode(m nav.AlignMode) { f.mode = m }
func (f *fakeTarget) SetAutoLevel(on bool)         { f.level = on }
func (f *fakeTarget) TestThrust(d nav.ThrustDirection, pct float64) {
	f.thrustDir, f.thrustPct = d, pct
	f.thrusts++
}

func newNavDispatcher() (*Dispatcher, *fakeTarget) {
	d := New(nil)
	target := &fakeTarget{}
	RegisterNav(d, target)
	return d, target
}

func TestNavCommands(t *testing.T) {
	d, target := newNavDispatcher()

	_, err := d.Exec("NAV On")
	require.NoError(t, err)
	assert.Equal(t, nav.On, target.status)

	_, err = d.Exec("nav off")
	require.NoError(t, err)
	assert.Equal(t, nav.Off, target.status)

	tests := []struct {
		line string
		want nav.AlignMode
	}{
		{"align natural", nav.AlignNatural},
		{"align ARTIFICIAL", nav.AlignArtificial},
		{"align total", nav.AlignTotal},
		{"align target", nav.AlignTarget},
		{"align off", nav.AlignNone},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := d.Exec(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, target.mode)
		})
	}
}

func TestLevelCommand(t *testing.T) {
	d, target := newNavDispatcher()

	_, err := d.Exec("level on")
	require.NoError(t, err)
	assert.True(t, target.level)

	_, err = d.Exec("level Off")
	require.NoError(t, err)
	assert.False(t, target.level)

	_, err = d.Exec("level maybe")
	assert.ErrorIs(t, err, ErrBadArgument)
}

func TestThrustCommand(t *testing.T) {
	d, target := newNavDispatcher()

	result, err := d.Exec("thrust Up 50%")
	require.NoError(t, err)
	assert.Equal(t, nav.Up, result)
	assert.Equal(t, nav.Up, target.thrustDir)
	assert.Equal(t, 50.0, target.thrustPct)

	_, err = d.Exec("thrust sideways 10")
	assert.ErrorIs(t, err, nav.ErrUnknownDirection)

	_, err = d.Exec("thrust up lots")
	assert.ErrorIs(t, err, ErrBadArgument)

	_, err = d.Exec("thrust up NaN")
	assert.ErrorIs(t, err, ErrBadArgument)
	assert.Equal(t, 1, target.thrusts)
}

func TestNavCommandErrors(t *testing.T) {
	d, target := newNavDispatcher()

	_, err := d.Exec("nav")
	assert.ErrorIs(t, err, ErrMissingArgs)

	_, err = d.Exec("thrust up")
	assert.ErrorIs(t, err, ErrMissingArgs)

	_, err = d.Exec("nav sideways")
	assert.ErrorIs(t, err, nav.ErrUnknownStatus)

	_, err = d.Exec("align upside")
	assert.ErrorIs(t, err, nav.ErrUnknownAlignMode)
	assert.Equal(t, nav.AlignNone, target.mode)
}
