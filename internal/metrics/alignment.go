package metrics

import (
	"math"

	"github.com/san-kum/navcom/internal/sim"
)

// AlignmentError tracks the attitude error magnitude over a run.
type AlignmentError struct {
	name    string
	reduce  func(a *AlignmentError) float64
	last    float64
	sum     float64
	max     float64
	samples int
}

// NewFinalError reports the error at the last tick.
func NewFinalError() *AlignmentError {
	return &AlignmentError{name: "final_error", reduce: func(a *AlignmentError) float64 { return a.last }}
}

// NewMeanError reports the mean error over all ticks.
func NewMeanError() *AlignmentError {
	return &AlignmentError{name: "mean_error", reduce: func(a *AlignmentError) float64 {
		if a.samples == 0 {
			return 0
		}
		return a.sum / float64(a.samples)
	}}
}

// NewMaxError reports the largest error seen.
func NewMaxError() *AlignmentError {
	return &AlignmentError{name: "max_error", reduce: func(a *AlignmentError) float64 { return a.max }}
}

func (a *AlignmentError) Name() string { return a.name }

func (a *AlignmentError) Observe(s sim.Sample) {
	e := s.AttitudeError()
	a.last = e
	a.sum += e
	a.max = math.Max(a.max, e)
	a.samples++
}

func (a *AlignmentError) Value() float64 { return a.reduce(a) }

func (a *AlignmentError) Reset() {
	a.last, a.sum, a.max = 0, 0, 0
	a.samples = 0
}

// SettlingTime is the time after which the error stays within threshold
// radians for the rest of the run. It is -1 when the run never settles.
type SettlingTime struct {
	threshold float64
	since     float64
	settled   bool
}

func NewSettlingTime(threshold float64) *SettlingTime {
	return &SettlingTime{threshold: threshold}
}

func (s *SettlingTime) Name() string { return "settling_time" }

func (s *SettlingTime) Observe(sample sim.Sample) {
	if sample.AttitudeError() > s.threshold {
		s.settled = false
		return
	}
	if !s.settled {
		s.settled = true
		s.since = sample.Time
	}
}

func (s *SettlingTime) Value() float64 {
	if !s.settled {
		return -1
	}
	return s.since
}

func (s *SettlingTime) Reset() {
	s.since = 0
	s.settled = false
}

// Default returns the metric set recorded for every run.
func Default(threshold float64) []sim.Metric {
	return []sim.Metric{
		NewFinalError(),
		NewMeanError(),
		NewMaxError(),
		NewSettlingTime(threshold),
		NewStability(threshold),
		NewControlEffort(),
	}
}
