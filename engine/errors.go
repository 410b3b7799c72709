package engine

import "errors"

var (
	// ErrInvalidConfig is returned when portfolio parameters violate a
	// construction invariant (allocations, horizon, signs).
	ErrInvalidConfig = errors.New("invalid portfolio configuration")

	// ErrUnknownParameter is returned when a bulk override names a field
	// outside the configuration schema.
	ErrUnknownParameter = errors.New("unknown configuration parameter")

	// ErrMissingPrerequisite is returned when a computation needs an
	// input that cannot be defaulted (e.g. no market data store at all).
	ErrMissingPrerequisite = errors.New("missing prerequisite")
)
