package sim

import "errors"

var (
	// ErrInvalidConfig is returned for configuration problems detected
	// before any worker is launched.
	ErrInvalidConfig = errors.New("sim: invalid configuration")

	// ErrWorkerFailed is returned when any worker aborts. The run produces
	// no statistics in that case.
	ErrWorkerFailed = errors.New("sim: worker failed")
)
