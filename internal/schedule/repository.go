package schedule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/nerrad567/rollcall-core/internal/infrastructure/database"
)

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed schedule repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const entryColumns = `id, occupant_id, location_id, day_of_week, start_time, end_time,
	activity_type, is_recurring, effective_date, source`

// EntriesAtTime returns entries active at slot. The date filter for one-off
// entries runs in SQL only when slot.Date is set.
func (r *SQLiteRepository) EntriesAtTime(ctx context.Context, slot Slot, locationID string) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM schedule_entries
		WHERE day_of_week = ? AND start_time <= ? AND ? < end_time`
	args := []any{slot.DayOfWeek, slot.Clock, slot.Clock}

	if slot.Date != "" {
		query += ` AND (is_recurring = 1 OR effective_date IS NULL OR effective_date = '' OR effective_date = ?)`
		args = append(args, slot.Date)
	}
	if locationID != "" {
		query += ` AND location_id = ?`
		args = append(args, locationID)
	}
	query += ` ORDER BY start_time, id`

	return r.queryEntries(ctx, query, args...)
}

// EntriesByOccupant returns all entries for one occupant, in day/time order.
func (r *SQLiteRepository) EntriesByOccupant(ctx context.Context, occupantID string) ([]Entry, error) {
	const query = `SELECT ` + entryColumns + ` FROM schedule_entries
		WHERE occupant_id = ? ORDER BY day_of_week, start_time, id`
	return r.queryEntries(ctx, query, occupantID)
}

// OccupantsByHomeLocation returns occupants housed at locationID.
func (r *SQLiteRepository) OccupantsByHomeLocation(ctx context.Context, locationID string) ([]Occupant, error) {
	const query = `SELECT id, home_location_id FROM occupants
		WHERE home_location_id = ? ORDER BY id`
	return r.queryOccupants(ctx, query, locationID)
}

// ListOccupants returns every occupant.
func (r *SQLiteRepository) ListOccupants(ctx context.Context) ([]Occupant, error) {
	const query = `SELECT id, home_location_id FROM occupants ORDER BY id`
	return r.queryOccupants(ctx, query)
}

// CreateOccupant inserts a new occupant.
func (r *SQLiteRepository) CreateOccupant(ctx context.Context, o *Occupant) error {
	if o.ID == "" {
		return fmt.Errorf("%w: occupant id is required", ErrInvalidEntry)
	}

	var home sql.NullString
	if h := o.Home(); h != "" {
		home = sql.NullString{String: h, Valid: true}
	}
	const query = `INSERT INTO occupants (id, home_location_id) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, query, o.ID, home); err != nil {
		return fmt.Errorf("inserting occupant %s: %w", o.ID, err)
	}
	return nil
}

// CreateEntry validates e, rejects overlaps with the occupant's existing
// entries, and inserts it. The overlap check and insert share a transaction.
func (r *SQLiteRepository) CreateEntry(ctx context.Context, e *Entry) error {
	if err := ValidateEntry(e); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return database.Unavailable("starting transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM occupants WHERE id = ?`, e.OccupantID,
	).Scan(&exists); err != nil {
		return database.Unavailable("checking occupant", err)
	}
	if exists == 0 {
		return fmt.Errorf("occupant %s: %w", e.OccupantID, ErrOccupantNotFound)
	}

	rows, err := tx.QueryContext(ctx, `SELECT `+entryColumns+` FROM schedule_entries
		WHERE occupant_id = ? AND day_of_week = ?`, e.OccupantID, e.DayOfWeek)
	if err != nil {
		return database.Unavailable("querying existing entries", err)
	}
	existing, err := collectEntries(rows)
	if err != nil {
		return err
	}
	if err := CheckOverlap(e, existing); err != nil {
		return err
	}

	if e.ID == "" {
		e.ID = "sch-" + uuid.NewString()[:8]
	}
	if e.Source == "" {
		e.Source = SourceManual
	}

	var effective sql.NullString
	if e.EffectiveDate != nil && *e.EffectiveDate != "" {
		effective = sql.NullString{String: *e.EffectiveDate, Valid: true}
	}
	const insert = `INSERT INTO schedule_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insert,
		e.ID, e.OccupantID, e.LocationID, e.DayOfWeek, e.StartTime, e.EndTime,
		e.ActivityType, boolToInt(e.IsRecurring), effective, e.Source,
	); err != nil {
		return fmt.Errorf("inserting schedule entry %s: %w", e.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return database.Unavailable("committing schedule entry", err)
	}
	return nil
}

func (r *SQLiteRepository) queryEntries(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.Unavailable("querying schedule entries", err)
	}
	return collectEntries(rows)
}

// collectEntries drains and closes rows.
func collectEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var recurring int
		var effective sql.NullString
		if err := rows.Scan(&e.ID, &e.OccupantID, &e.LocationID, &e.DayOfWeek,
			&e.StartTime, &e.EndTime, &e.ActivityType, &recurring, &effective, &e.Source); err != nil {
			return nil, database.Unavailable("scanning schedule entry", err)
		}
		e.IsRecurring = recurring != 0
		if effective.Valid {
			e.EffectiveDate = &effective.String
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Unavailable("iterating schedule entries", err)
	}
	return entries, nil
}

func (r *SQLiteRepository) queryOccupants(ctx context.Context, query string, args ...any) ([]Occupant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.Unavailable("querying occupants", err)
	}
	defer rows.Close()

	var out []Occupant
	for rows.Next() {
		var o Occupant
		var home sql.NullString
		if err := rows.Scan(&o.ID, &home); err != nil {
			return nil, database.Unavailable("scanning occupant", err)
		}
		if home.Valid {
			o.HomeLocationID = &home.String
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Unavailable("iterating occupants", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
