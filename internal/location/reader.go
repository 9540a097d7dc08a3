package location

import "context"

// Reader is the read contract the routing, occupancy, roll-call and status
// components depend on. Implementations must be safe for concurrent use.
type Reader interface {
	// GetLocation returns ErrLocationNotFound when id does not exist.
	GetLocation(ctx context.Context, id string) (*Location, error)
	GetChildren(ctx context.Context, id string) ([]Location, error)

	// GetDescendants returns every location below id (excluding id) in
	// breadth-first order, filtered to types when any are given.
	GetDescendants(ctx context.Context, id string, types ...Type) ([]Location, error)

	ListLocations(ctx context.Context) ([]Location, error)
	ConnectionsFrom(ctx context.Context, id string) ([]Connection, error)
	ListConnections(ctx context.Context) ([]Connection, error)
}

// Repository adds the write path used by seeding and the API.
type Repository interface {
	Reader
	CreateLocation(ctx context.Context, l *Location) error
	CreateConnection(ctx context.Context, c *Connection) error
}

// LoadIndex reads the whole hierarchy once and indexes it.
func LoadIndex(ctx context.Context, r Reader) (*Index, error) {
	locs, err := r.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	return NewIndex(locs), nil
}
