package physics

import "errors"

var (
	ErrParameterBounds = errors.New("physics: parameter out of valid bounds")
	ErrUnknownParam    = errors.New("physics: unknown parameter")
)
