package nav

import "errors"

// Construction and parsing errors. The control tick itself never fails.
var (
	// ErrNoBody indicates a Computer was built without a reference body.
	ErrNoBody = errors.New("nav: reference body is required")

	// ErrInvalidRate indicates a zero, negative or non-finite update rate.
	ErrInvalidRate = errors.New("nav: updates per second must be positive")

	// ErrInvalidSlowdown indicates a negative or non-finite slowdown angle.
	ErrInvalidSlowdown = errors.New("nav: slowdown angle must be non-negative")

	// ErrUnknownAlignMode indicates an unrecognized alignment mode name.
	ErrUnknownAlignMode = errors.New("nav: unknown alignment mode")

	// ErrUnknownStatus indicates an unrecognized status name.
	ErrUnknownStatus = errors.New("nav: unknown status")

	// ErrUnknownDirection indicates an unrecognized thrust direction name.
	ErrUnknownDirection = errors.New("nav: unknown thrust direction")
)
