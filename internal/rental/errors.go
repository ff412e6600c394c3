package rental

import "errors"

var (
	// ErrIncompleteSelection a start or end date (or hourly clock time) is not selected yet
	ErrIncompleteSelection = errors.New("rental: incomplete selection")

	// ErrInvertedRange the end of the interval is not strictly after its start
	ErrInvertedRange = errors.New("rental: end must be after start")

	// ErrInvalidClockTime an hourly clock time is not on the half-hour grid
	ErrInvalidClockTime = errors.New("rental: clock time must be on the half-hour grid")

	// ErrUnknownMode rental mode is neither hourly nor daily
	ErrUnknownMode = errors.New("rental: unknown rental mode")
)
