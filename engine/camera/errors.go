package camera

import "errors"

var (
	// ErrNonFinite is returned when a pose command carries NaN or infinite components.
	ErrNonFinite = errors.New("non-finite camera vector")
	// ErrNoFocus is returned by operations that need a valid focus object.
	ErrNoFocus = errors.New("no valid focus")
)
