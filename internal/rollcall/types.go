package rollcall

import "time"

// Status is the lifecycle state of a roll call.
type Status string

// Roll call states.
const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// StopStatus is the progress of a single route stop.
type StopStatus string

// Route stop states.
const (
	StopPending   StopStatus = "pending"
	StopCurrent   StopStatus = "current"
	StopCompleted StopStatus = "completed"
	StopSkipped   StopStatus = "skipped"
)

// ValidStopStatus reports whether s is a known stop state.
func ValidStopStatus(s StopStatus) bool {
	switch s {
	case StopPending, StopCurrent, StopCompleted, StopSkipped:
		return true
	}
	return false
}

// VerificationStatus is the outcome of checking one occupant.
type VerificationStatus string

// Verification outcomes.
const (
	VerificationVerified      VerificationStatus = "verified"
	VerificationNotFound      VerificationStatus = "not_found"
	VerificationWrongLocation VerificationStatus = "wrong_location"
	VerificationManual        VerificationStatus = "manual"
	VerificationPending       VerificationStatus = "pending"
)

// ValidVerificationStatus reports whether s is a known outcome.
func ValidVerificationStatus(s VerificationStatus) bool {
	switch s {
	case VerificationVerified, VerificationNotFound, VerificationWrongLocation,
		VerificationManual, VerificationPending:
		return true
	}
	return false
}

// IsFailure reports whether the outcome means the occupant was not where
// expected.
func (s VerificationStatus) IsFailure() bool {
	return s == VerificationNotFound || s == VerificationWrongLocation
}

// IsSuccess reports whether the outcome confirms the occupant.
func (s VerificationStatus) IsSuccess() bool {
	return s == VerificationVerified || s == VerificationManual
}

// RollCall is a planned headcount with its ordered route.
type RollCall struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	ScheduledAt time.Time   `json:"scheduled_at"`
	Status      Status      `json:"status"`
	Stops       []RouteStop `json:"stops"`
}

// RouteStop is one visit on a roll call route. Order matches the stop's
// position in RollCall.Stops and runs 0..n-1.
type RouteStop struct {
	ID                string     `json:"id"`
	LocationID        string     `json:"location_id"`
	Order             int        `json:"order"`
	ExpectedOccupants []string   `json:"expected_occupants"`
	Status            StopStatus `json:"status"`
	SkipReason        *string    `json:"skip_reason,omitempty"`
}

// Verification is one recorded outcome for an occupant at a stop.
type Verification struct {
	ID         string             `json:"id"`
	RollCallID string             `json:"roll_call_id"`
	OccupantID string             `json:"occupant_id"`
	LocationID string             `json:"location_id"`
	Status     VerificationStatus `json:"status"`
	Timestamp  time.Time          `json:"timestamp"`
}

// StopAt returns the stop for locationID, or nil.
func (rc *RollCall) StopAt(locationID string) *RouteStop {
	for i := range rc.Stops {
		if rc.Stops[i].LocationID == locationID {
			return &rc.Stops[i]
		}
	}
	return nil
}
