package location

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nerrad567/rollcall-core/internal/infrastructure/database"
)

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed location repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const locationColumns = `id, name, type, parent_id, capacity, floor, building`

const connectionColumns = `from_id, to_id, distance_meters, travel_time_seconds,
	connection_type, is_bidirectional, requires_escort`

// CreateLocation inserts a new location into the database.
func (r *SQLiteRepository) CreateLocation(ctx context.Context, l *Location) error {
	if err := ValidateLocation(l); err != nil {
		return err
	}
	if p := l.Parent(); p != "" {
		if _, err := r.GetLocation(ctx, p); err != nil {
			return fmt.Errorf("parent %s: %w", p, err)
		}
	}

	const query = `INSERT INTO locations (` + locationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.Name, string(l.Type), nullStr(l.ParentID), l.Capacity, l.Floor, l.Building)
	if err != nil {
		return fmt.Errorf("inserting location %s: %w", l.ID, err)
	}
	return nil
}

// CreateConnection inserts a new walking edge.
func (r *SQLiteRepository) CreateConnection(ctx context.Context, c *Connection) error {
	if err := ValidateConnection(c); err != nil {
		return err
	}
	for _, id := range []string{c.FromID, c.ToID} {
		if _, err := r.GetLocation(ctx, id); err != nil {
			return fmt.Errorf("connection endpoint %s: %w", id, err)
		}
	}

	const query = `INSERT INTO connections (` + connectionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.FromID, c.ToID, c.DistanceMeters, c.TravelTimeSeconds,
		c.ConnectionType, boolToInt(c.IsBidirectional), boolToInt(c.RequiresEscort))
	if err != nil {
		return fmt.Errorf("inserting connection %s->%s: %w", c.FromID, c.ToID, err)
	}
	return nil
}

// GetLocation returns a single location by ID.
func (r *SQLiteRepository) GetLocation(ctx context.Context, id string) (*Location, error) {
	const query = `SELECT ` + locationColumns + ` FROM locations WHERE id = ?`
	l, err := scanLocation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, database.Unavailable("getting location "+id, err)
	}
	return l, nil
}

// GetChildren returns the direct children of id ordered by name.
func (r *SQLiteRepository) GetChildren(ctx context.Context, id string) ([]Location, error) {
	const query = `SELECT ` + locationColumns + ` FROM locations
		WHERE parent_id = ? ORDER BY name, id`
	return r.queryLocations(ctx, query, id)
}

// GetDescendants loads the forest once and walks it breadth-first.
func (r *SQLiteRepository) GetDescendants(ctx context.Context, id string, types ...Type) ([]Location, error) {
	idx, err := LoadIndex(ctx, r)
	if err != nil {
		return nil, err
	}
	return idx.Descendants(id, types...), nil
}

// ListLocations returns every location ordered by name.
func (r *SQLiteRepository) ListLocations(ctx context.Context) ([]Location, error) {
	const query = `SELECT ` + locationColumns + ` FROM locations ORDER BY name, id`
	return r.queryLocations(ctx, query)
}

// ConnectionsFrom returns stored edges leaving id.
func (r *SQLiteRepository) ConnectionsFrom(ctx context.Context, id string) ([]Connection, error) {
	const query = `SELECT ` + connectionColumns + ` FROM connections
		WHERE from_id = ? ORDER BY to_id`
	return r.queryConnections(ctx, query, id)
}

// ListConnections returns every stored edge.
func (r *SQLiteRepository) ListConnections(ctx context.Context) ([]Connection, error) {
	const query = `SELECT ` + connectionColumns + ` FROM connections ORDER BY from_id, to_id`
	return r.queryConnections(ctx, query)
}

func (r *SQLiteRepository) queryLocations(ctx context.Context, query string, args ...any) ([]Location, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.Unavailable("querying locations", err)
	}
	defer rows.Close()

	var locs []Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, database.Unavailable("scanning location row", err)
		}
		locs = append(locs, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Unavailable("iterating location rows", err)
	}
	return locs, nil
}

func (r *SQLiteRepository) queryConnections(ctx context.Context, query string, args ...any) ([]Connection, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.Unavailable("querying connections", err)
	}
	defer rows.Close()

	var conns []Connection
	for rows.Next() {
		var c Connection
		var bidirectional, escort int
		if err := rows.Scan(&c.FromID, &c.ToID, &c.DistanceMeters, &c.TravelTimeSeconds,
			&c.ConnectionType, &bidirectional, &escort); err != nil {
			return nil, database.Unavailable("scanning connection row", err)
		}
		c.IsBidirectional = bidirectional != 0
		c.RequiresEscort = escort != 0
		conns = append(conns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Unavailable("iterating connection rows", err)
	}
	return conns, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (*Location, error) {
	var l Location
	var typ string
	var parentID sql.NullString

	if err := row.Scan(&l.ID, &l.Name, &typ, &parentID, &l.Capacity, &l.Floor, &l.Building); err != nil {
		return nil, err
	}
	l.Type = Type(typ)
	if parentID.Valid {
		l.ParentID = &parentID.String
	}
	return &l, nil
}

// nullStr converts a *string to a sql.NullString for nullable columns.
func nullStr(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
