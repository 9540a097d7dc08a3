package rollcall

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/rollcall-core/internal/infrastructure/database"
)

// timeLayout is used for every stored timestamp. The fixed-width fraction
// keeps lexicographic order equal to time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed roll call repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreateRollCall inserts the roll call and all of its stops in one
// transaction.
func (r *SQLiteRepository) CreateRollCall(ctx context.Context, rc *RollCall) error {
	if err := ValidateRollCall(rc); err != nil {
		return err
	}
	if rc.ID == "" {
		return fmt.Errorf("%w: roll call id is required", ErrInvalidInput)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return database.Unavailable("starting transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO roll_calls (id, name, scheduled_at, status) VALUES (?, ?, ?, ?)`,
		rc.ID, rc.Name, rc.ScheduledAt.UTC().Format(timeLayout), string(rc.Status),
	); err != nil {
		return fmt.Errorf("inserting roll call %s: %w", rc.ID, err)
	}

	const insertStop = `INSERT INTO route_stops
		(id, roll_call_id, location_id, stop_order, expected_occupants, status, skip_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, s := range rc.Stops {
		expected, err := json.Marshal(nonNil(s.ExpectedOccupants))
		if err != nil {
			return fmt.Errorf("encoding expected occupants for stop %s: %w", s.ID, err)
		}
		if _, err := tx.ExecContext(ctx, insertStop,
			s.ID, rc.ID, s.LocationID, s.Order, string(expected), string(s.Status), nullStr(s.SkipReason),
		); err != nil {
			return fmt.Errorf("inserting stop %s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return database.Unavailable("committing roll call", err)
	}
	return nil
}

// GetRollCall returns a roll call with its stops in route order.
func (r *SQLiteRepository) GetRollCall(ctx context.Context, id string) (*RollCall, error) {
	var rc RollCall
	var scheduledAt, status string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, scheduled_at, status FROM roll_calls WHERE id = ?`, id,
	).Scan(&rc.ID, &rc.Name, &scheduledAt, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRollCallNotFound
		}
		return nil, database.Unavailable("getting roll call "+id, err)
	}
	rc.ScheduledAt = parseTime(scheduledAt)
	rc.Status = Status(status)

	rc.Stops, err = r.loadStops(ctx, id)
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

// ListRollCalls returns every roll call, most recently scheduled first.
func (r *SQLiteRepository) ListRollCalls(ctx context.Context) ([]RollCall, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, scheduled_at, status FROM roll_calls ORDER BY scheduled_at DESC, id`)
	if err != nil {
		return nil, database.Unavailable("querying roll calls", err)
	}

	var out []RollCall
	for rows.Next() {
		var rc RollCall
		var scheduledAt, status string
		if err := rows.Scan(&rc.ID, &rc.Name, &scheduledAt, &status); err != nil {
			rows.Close()
			return nil, database.Unavailable("scanning roll call", err)
		}
		rc.ScheduledAt = parseTime(scheduledAt)
		rc.Status = Status(status)
		out = append(out, rc)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, database.Unavailable("iterating roll calls", err)
	}
	// Release the connection before loading stops; the pool holds one.
	rows.Close()

	for i := range out {
		if out[i].Stops, err = r.loadStops(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLiteRepository) loadStops(ctx context.Context, rollCallID string) ([]RouteStop, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, location_id, stop_order, expected_occupants, status, skip_reason
		FROM route_stops WHERE roll_call_id = ? ORDER BY stop_order`, rollCallID)
	if err != nil {
		return nil, database.Unavailable("querying stops", err)
	}
	defer rows.Close()

	stops := []RouteStop{}
	for rows.Next() {
		var s RouteStop
		var expected, status string
		var skip sql.NullString
		if err := rows.Scan(&s.ID, &s.LocationID, &s.Order, &expected, &status, &skip); err != nil {
			return nil, database.Unavailable("scanning stop", err)
		}
		if err := json.Unmarshal([]byte(expected), &s.ExpectedOccupants); err != nil {
			return nil, fmt.Errorf("decoding expected occupants for stop %s: %w", s.ID, err)
		}
		s.Status = StopStatus(status)
		if skip.Valid {
			s.SkipReason = &skip.String
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Unavailable("iterating stops", err)
	}
	return stops, nil
}

// RecordVerification inserts an outcome for an existing roll call.
func (r *SQLiteRepository) RecordVerification(ctx context.Context, v *Verification) error {
	if err := ValidateVerification(v); err != nil {
		return err
	}

	var exists int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM roll_calls WHERE id = ?`, v.RollCallID,
	).Scan(&exists); err != nil {
		return database.Unavailable("checking roll call", err)
	}
	if exists == 0 {
		return ErrRollCallNotFound
	}

	if _, err := r.db.ExecContext(ctx, `INSERT INTO verifications
		(id, roll_call_id, occupant_id, location_id, status, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, v.RollCallID, v.OccupantID, v.LocationID, string(v.Status), v.Timestamp.UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("inserting verification %s: %w", v.ID, err)
	}
	return nil
}

// VerificationsByRollCall returns outcomes oldest first.
func (r *SQLiteRepository) VerificationsByRollCall(ctx context.Context, rollCallID string) ([]Verification, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, roll_call_id, occupant_id, location_id, status, timestamp
		FROM verifications WHERE roll_call_id = ? ORDER BY timestamp, id`, rollCallID)
	if err != nil {
		return nil, database.Unavailable("querying verifications", err)
	}
	defer rows.Close()

	var out []Verification
	for rows.Next() {
		var v Verification
		var status, ts string
		if err := rows.Scan(&v.ID, &v.RollCallID, &v.OccupantID, &v.LocationID, &status, &ts); err != nil {
			return nil, database.Unavailable("scanning verification", err)
		}
		v.Status = VerificationStatus(status)
		v.Timestamp = parseTime(ts)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Unavailable("iterating verifications", err)
	}
	return out, nil
}

// UpdateStopStatus changes the status of one stop.
func (r *SQLiteRepository) UpdateStopStatus(ctx context.Context, rollCallID, stopID string, status StopStatus, skipReason *string) error {
	if !ValidStopStatus(status) {
		return fmt.Errorf("%w: unknown stop status %q", ErrInvalidInput, status)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE route_stops SET status = ?, skip_reason = ? WHERE roll_call_id = ? AND id = ?`,
		string(status), nullStr(skipReason), rollCallID, stopID)
	if err != nil {
		return database.Unavailable("updating stop "+stopID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return database.Unavailable("checking rows affected", err)
	}
	if n == 0 {
		if _, err := r.GetRollCall(ctx, rollCallID); err != nil {
			return err
		}
		return ErrStopNotFound
	}
	return nil
}

// parseTime parses a stored timestamp, returning zero time on failure.
func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullStr converts a *string to a sql.NullString for nullable columns.
func nullStr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
