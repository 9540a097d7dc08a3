package rollcall

import (
	"fmt"
	"strings"
)

const maxNameLength = 100

// ValidateRollCall checks a roll call before it is stored.
func ValidateRollCall(rc *RollCall) error {
	name := strings.TrimSpace(rc.Name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidInput, maxNameLength)
	}
	if rc.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduled_at is required", ErrInvalidInput)
	}
	for i, s := range rc.Stops {
		if s.Order != i {
			return fmt.Errorf("%w: stop %d has order %d", ErrInvalidInput, i, s.Order)
		}
		if s.LocationID == "" {
			return fmt.Errorf("%w: stop %d has no location", ErrInvalidInput, i)
		}
		if !ValidStopStatus(s.Status) {
			return fmt.Errorf("%w: stop %d has unknown status %q", ErrInvalidInput, i, s.Status)
		}
	}
	return nil
}

// ValidateVerification checks a verification outcome before it is stored.
func ValidateVerification(v *Verification) error {
	if v.RollCallID == "" || v.OccupantID == "" || v.LocationID == "" {
		return fmt.Errorf("%w: roll_call_id, occupant_id and location_id are required", ErrInvalidInput)
	}
	if !ValidVerificationStatus(v.Status) {
		return fmt.Errorf("%w: unknown verification status %q", ErrInvalidInput, v.Status)
	}
	if v.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp is required", ErrInvalidInput)
	}
	return nil
}
