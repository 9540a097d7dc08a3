package rollcall

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Notifier is told when a roll call's outcomes change.
type Notifier interface {
	RollCallUpdated(ctx context.Context, rollCallID string)
}

// Notifiers fans an update out to each notifier in order.
type Notifiers []Notifier

// RollCallUpdated implements Notifier.
func (ns Notifiers) RollCallUpdated(ctx context.Context, rollCallID string) {
	for _, n := range ns {
		n.RollCallUpdated(ctx, rollCallID)
	}
}

// PlanRequest asks the Planner to generate and persist a roll call.
type PlanRequest struct {
	Name         string    `json:"name"`
	LocationIDs  []string  `json:"location_ids"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	IncludeEmpty bool      `json:"include_empty"`
}

// Planner persists generated routes and records their outcomes.
type Planner struct {
	generator *Generator
	repo      Repository
	notifier  Notifier
	logger    Logger
	now       func() time.Time
}

// NewPlanner creates a Planner.
func NewPlanner(generator *Generator, repo Repository) *Planner {
	return &Planner{
		generator: generator,
		repo:      repo,
		logger:    noopLogger{},
		now:       time.Now,
	}
}

// SetLogger sets the logger for the planner.
func (p *Planner) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	p.logger = logger
}

// SetNotifier registers n to hear about new verifications. nil disables it.
func (p *Planner) SetNotifier(n Notifier) {
	p.notifier = n
}

// CreateRollCall generates a route, resolves the expected occupants of each
// stop, and stores the result with every stop pending.
func (p *Planner) CreateRollCall(ctx context.Context, req PlanRequest) (*RollCall, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	}
	if req.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("%w: scheduled_at is required", ErrInvalidInput)
	}

	gen, err := p.generator.GenerateRollCall(ctx, Request{
		LocationIDs:  req.LocationIDs,
		ScheduledAt:  req.ScheduledAt,
		IncludeEmpty: req.IncludeEmpty,
	})
	if err != nil {
		return nil, err
	}

	rc := &RollCall{
		ID:          "rc-" + uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		ScheduledAt: req.ScheduledAt,
		Status:      StatusScheduled,
		Stops:       make([]RouteStop, 0, len(gen.Stops)),
	}
	for i, s := range gen.Stops {
		expected, err := p.generator.ExpectedOccupants(ctx, s.LocationID, req.ScheduledAt)
		if err != nil {
			return nil, fmt.Errorf("resolving occupants of %s: %w", s.LocationID, err)
		}
		ids := make([]string, 0, len(expected))
		for _, eo := range expected {
			ids = append(ids, eo.OccupantID)
		}
		rc.Stops = append(rc.Stops, RouteStop{
			ID:                "stop-" + uuid.NewString()[:8],
			LocationID:        s.LocationID,
			Order:             i,
			ExpectedOccupants: ids,
			Status:            StopPending,
		})
	}

	if err := p.repo.CreateRollCall(ctx, rc); err != nil {
		return nil, fmt.Errorf("storing roll call: %w", err)
	}

	p.logger.Info("roll call created",
		"roll_call_id", rc.ID,
		"stops", len(rc.Stops),
		"scheduled_at", rc.ScheduledAt.Format(time.RFC3339),
	)
	return rc, nil
}

// RecordVerification stores an externally produced outcome. The location
// must be a stop on the roll call. A zero timestamp means now.
func (p *Planner) RecordVerification(ctx context.Context, v Verification) (*Verification, error) {
	if v.Timestamp.IsZero() {
		v.Timestamp = p.now()
	}
	if err := ValidateVerification(&v); err != nil {
		return nil, err
	}

	rc, err := p.repo.GetRollCall(ctx, v.RollCallID)
	if err != nil {
		return nil, err
	}
	if rc.StopAt(v.LocationID) == nil {
		return nil, fmt.Errorf("%w: location %s is not on roll call %s", ErrInvalidInput, v.LocationID, v.RollCallID)
	}

	if v.ID == "" {
		v.ID = "ver-" + uuid.NewString()[:8]
	}
	if err := p.repo.RecordVerification(ctx, &v); err != nil {
		return nil, fmt.Errorf("storing verification: %w", err)
	}

	p.logger.Debug("verification recorded",
		"roll_call_id", v.RollCallID,
		"occupant_id", v.OccupantID,
		"location_id", v.LocationID,
		"status", string(v.Status),
	)
	if p.notifier != nil {
		p.notifier.RollCallUpdated(ctx, v.RollCallID)
	}
	return &v, nil
}

// UpdateStopStatus moves a stop through pending, current, completed or
// skipped. A skip reason is only kept for skipped stops.
func (p *Planner) UpdateStopStatus(ctx context.Context, rollCallID, stopID string, status StopStatus, skipReason string) error {
	var reason *string
	if status == StopSkipped && skipReason != "" {
		reason = &skipReason
	}
	if err := p.repo.UpdateStopStatus(ctx, rollCallID, stopID, status, reason); err != nil {
		return err
	}
	if p.notifier != nil {
		p.notifier.RollCallUpdated(ctx, rollCallID)
	}
	return nil
}

// GetRollCall returns a stored roll call.
func (p *Planner) GetRollCall(ctx context.Context, id string) (*RollCall, error) {
	return p.repo.GetRollCall(ctx, id)
}

// ListRollCalls returns every stored roll call.
func (p *Planner) ListRollCalls(ctx context.Context) ([]RollCall, error) {
	return p.repo.ListRollCalls(ctx)
}

// Verifications returns the outcomes recorded for a roll call.
func (p *Planner) Verifications(ctx context.Context, rollCallID string) ([]Verification, error) {
	if _, err := p.repo.GetRollCall(ctx, rollCallID); err != nil {
		return nil, err
	}
	return p.repo.VerificationsByRollCall(ctx, rollCallID)
}
