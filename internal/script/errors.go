package script

import "errors"

var (
	// ErrNoFunction is returned when a script does not define a function
	// the host needs to call.
	ErrNoFunction = errors.New("script function not defined")

	// ErrNilContext is returned when binding a nil rendering context or
	// measurement surface.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrResourceLimit is returned when a script exceeds its CPU or memory
	// budget.
	ErrResourceLimit = errors.New("script resource limit exceeded")
)
