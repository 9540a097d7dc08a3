package schedule

import "context"

// Reader is the schedule read contract used by occupancy resolution.
type Reader interface {
	// EntriesAtTime returns every entry active at slot. A non-empty
	// locationID restricts the result to that location.
	EntriesAtTime(ctx context.Context, slot Slot, locationID string) ([]Entry, error)
	EntriesByOccupant(ctx context.Context, occupantID string) ([]Entry, error)
	OccupantsByHomeLocation(ctx context.Context, locationID string) ([]Occupant, error)
	ListOccupants(ctx context.Context) ([]Occupant, error)
}

// Repository adds the validating write path.
type Repository interface {
	Reader
	CreateOccupant(ctx context.Context, o *Occupant) error
	CreateEntry(ctx context.Context, e *Entry) error
}
