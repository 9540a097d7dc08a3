package rollcall

import "context"

// Reader is the read contract the status aggregator depends on.
type Reader interface {
	// GetRollCall returns ErrRollCallNotFound when id does not exist.
	GetRollCall(ctx context.Context, id string) (*RollCall, error)
	VerificationsByRollCall(ctx context.Context, rollCallID string) ([]Verification, error)
}

// Repository adds the persistence operations used by the Planner.
type Repository interface {
	Reader
	CreateRollCall(ctx context.Context, rc *RollCall) error
	ListRollCalls(ctx context.Context) ([]RollCall, error)
	RecordVerification(ctx context.Context, v *Verification) error
	UpdateStopStatus(ctx context.Context, rollCallID, stopID string, status StopStatus, skipReason *string) error
}
