package rollcall

import "errors"

var (
	// ErrInvalidInput is returned for empty or malformed requests.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRollCallNotFound is returned when a roll call ID does not exist.
	ErrRollCallNotFound = errors.New("roll call not found")

	// ErrNoCellsFound is returned when valid locations expand to no leaf cells.
	ErrNoCellsFound = errors.New("no cells found for the selected locations")

	// ErrStopNotFound is returned when a stop ID is not part of a roll call.
	ErrStopNotFound = errors.New("route stop not found")
)
