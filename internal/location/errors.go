package location

import "errors"

var (
	// ErrLocationNotFound is returned when a location ID does not exist.
	ErrLocationNotFound = errors.New("location not found")

	// ErrInvalidName is returned when a location name is empty or too long.
	ErrInvalidName = errors.New("invalid location name")

	// ErrInvalidLocation is returned when a location fails validation.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidConnection is returned when a connection fails validation.
	ErrInvalidConnection = errors.New("invalid connection")
)
