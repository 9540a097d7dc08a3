package schedule

import "errors"

var (
	// ErrOccupantNotFound is returned when an occupant ID does not exist.
	ErrOccupantNotFound = errors.New("occupant not found")

	// ErrInvalidEntry is returned when a schedule entry fails validation.
	ErrInvalidEntry = errors.New("invalid schedule entry")

	// ErrOverlap is returned when a new entry overlaps an existing entry
	// for the same occupant and day.
	ErrOverlap = errors.New("schedule entry overlaps an existing entry")
)
