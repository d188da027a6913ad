package control

import "errors"

var (
	// ErrInvalidPeriod indicates a zero, negative or non-finite tick period.
	ErrInvalidPeriod = errors.New("control: tick period must be positive and finite")

	// ErrUnknownParam indicates SetParam was called with an unsupported name.
	ErrUnknownParam = errors.New("control: unknown parameter")
)
