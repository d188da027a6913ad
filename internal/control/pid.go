package control

import (
	"fmt"
	"math"
)

// Controller turns an error signal into a control output.
type Controller interface {
	Control(err float64) float64
}

// PID is a classic three-term controller integrated over a fixed period.
// It keeps no output limits and no anti-windup; callers shape the output.
type PID struct {
	Kp float64
	Ki float64
	Kd float64

	period   float64
	integral float64
	prevErr  float64
}

// NewPID returns a PID controller that is called once every period seconds.
func NewPID(kp, ki, kd, period float64) (*PID, error) {
	if period <= 0 || math.IsNaN(period) || math.IsInf(period, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidPeriod, period)
	}
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		period: period,
	}, nil
}

// Control feeds one error sample and returns the controller output.
func (p *PID) Control(err float64) float64 {
	p.integral += err * p.period
	derivative := (err - p.prevErr) / p.period
	p.prevErr = err

	return p.Kp*err + p.Ki*p.integral + p.Kd*derivative
}

// Period returns the fixed tick period in seconds.
func (p *PID) Period() float64 {
	return p.period
}

// Integral returns the accumulated error integral.
func (p *PID) Integral() float64 {
	return p.integral
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp": p.Kp,
		"Ki": p.Ki,
		"Kd": p.Kd,
	}
}

// SetParam adjusts a PID gain
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return nil
}
