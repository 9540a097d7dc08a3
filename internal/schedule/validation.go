package schedule

import (
	"fmt"
	"time"
)

const maxActivityLength = 50

// ValidateEntry checks a single entry in isolation.
func ValidateEntry(e *Entry) error {
	if e.OccupantID == "" {
		return fmt.Errorf("%w: occupant_id is required", ErrInvalidEntry)
	}
	if e.LocationID == "" {
		return fmt.Errorf("%w: location_id is required", ErrInvalidEntry)
	}
	if e.DayOfWeek < 0 || e.DayOfWeek > 6 {
		return fmt.Errorf("%w: day_of_week must be 0-6 (Monday = 0)", ErrInvalidEntry)
	}
	if err := validateClock("start_time", e.StartTime); err != nil {
		return err
	}
	if err := validateClock("end_time", e.EndTime); err != nil {
		return err
	}
	if e.StartTime >= e.EndTime {
		return fmt.Errorf("%w: start_time %s must be before end_time %s", ErrInvalidEntry, e.StartTime, e.EndTime)
	}
	if len(e.ActivityType) > maxActivityLength {
		return fmt.Errorf("%w: activity_type exceeds %d characters", ErrInvalidEntry, maxActivityLength)
	}
	if e.EffectiveDate != nil && *e.EffectiveDate != "" {
		if _, err := time.Parse(dateLayout, *e.EffectiveDate); err != nil {
			return fmt.Errorf("%w: effective_date must be YYYY-MM-DD", ErrInvalidEntry)
		}
	}
	return nil
}

// validateClock requires a zero-padded 24h "HH:MM" so lexicographic
// comparison matches clock order.
func validateClock(field, v string) error {
	if len(v) != len(clockLayout) {
		return fmt.Errorf("%w: %s must be HH:MM", ErrInvalidEntry, field)
	}
	if _, err := time.Parse(clockLayout, v); err != nil {
		return fmt.Errorf("%w: %s must be HH:MM", ErrInvalidEntry, field)
	}
	return nil
}

// CheckOverlap returns ErrOverlap when candidate shares any part of its
// window with an existing entry for the same occupant and day that can be
// active on the same date.
func CheckOverlap(candidate *Entry, existing []Entry) error {
	for i := range existing {
		other := &existing[i]
		if other.ID == candidate.ID && candidate.ID != "" {
			continue
		}
		if other.OccupantID != candidate.OccupantID || other.DayOfWeek != candidate.DayOfWeek {
			continue
		}
		if !datesCanCoincide(candidate, other) {
			continue
		}
		if candidate.StartTime < other.EndTime && other.StartTime < candidate.EndTime {
			return fmt.Errorf("%w: %s %s-%s conflicts with %s %s-%s",
				ErrOverlap, candidate.OccupantID, candidate.StartTime, candidate.EndTime,
				other.ID, other.StartTime, other.EndTime)
		}
	}
	return nil
}

// datesCanCoincide is false only for two one-off entries pinned to
// different dates.
func datesCanCoincide(a, b *Entry) bool {
	da, db := pinnedDate(a), pinnedDate(b)
	return da == "" || db == "" || da == db
}

func pinnedDate(e *Entry) string {
	if e.IsRecurring || e.EffectiveDate == nil {
		return ""
	}
	return *e.EffectiveDate
}
