package timeline

import "errors"

var (
	// ErrEmptyCatalog is returned when no usable source clips remain
	ErrEmptyCatalog = errors.New("catalog contains no source clips")

	// ErrInvalidSource is returned when a source clip has a non-positive
	// duration, a missing capture timestamp, or a duplicate path
	ErrInvalidSource = errors.New("invalid source clip")

	// ErrOutOfRange is returned by Locate for instants outside [0, T)
	ErrOutOfRange = errors.New("virtual time out of range")

	// ErrInsufficientDuration is returned when the requested output cannot
	// be carved out of the available footage
	ErrInsufficientDuration = errors.New("insufficient footage for requested output")

	// ErrDegenerateInterval is returned for an interval shorter than the
	// sample duration, which a correct partition never produces
	ErrDegenerateInterval = errors.New("interval shorter than sample duration")

	// ErrNoFeasibleSample is returned when no clip intersecting an interval
	// can host a full sample window
	ErrNoFeasibleSample = errors.New("no feasible sample window in interval")
)
