package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrTimeConflict = errors.New("booking time conflicts with an existing booking")

	ErrInvalidTimeRange = errors.New("start time must be before end time")
)
