package availability

import "errors"

var (
	// ErrInvalidStart requested start time is not a valid HH:MM value
	ErrInvalidStart = errors.New("availability: invalid start time")

	// ErrInvalidDuration service duration must be positive
	ErrInvalidDuration = errors.New("availability: invalid duration")

	// ErrOutsideWorkingHours requested start is not a slot of any working interval of that day
	ErrOutsideWorkingHours = errors.New("availability: outside working hours")

	// ErrInPast slot starts before the current minute
	ErrInPast = errors.New("availability: slot is in the past")

	// ErrLeadTime slot violates the minimum booking lead time
	ErrLeadTime = errors.New("availability: minimum booking lead time not met")

	// ErrBlocked slot overlaps a block
	ErrBlocked = errors.New("availability: slot overlaps a block")

	// ErrOccupied slot overlaps an existing non-cancelled reservation
	ErrOccupied = errors.New("availability: slot overlaps an existing reservation")
)
