package rollcall

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Repository used for fixtures.
type MemoryStore struct {
	mu            sync.RWMutex
	rollCalls     map[string]RollCall
	verifications map[string][]Verification
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rollCalls:     make(map[string]RollCall),
		verifications: make(map[string][]Verification),
	}
}

// GetRollCall returns a deep copy of the stored roll call.
func (m *MemoryStore) GetRollCall(_ context.Context, id string) (*RollCall, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rc, ok := m.rollCalls[id]
	if !ok {
		return nil, ErrRollCallNotFound
	}
	out := cloneRollCall(rc)
	return &out, nil
}

// VerificationsByRollCall returns outcomes in the order they were recorded.
func (m *MemoryStore) VerificationsByRollCall(_ context.Context, rollCallID string) ([]Verification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Verification(nil), m.verifications[rollCallID]...), nil
}

// CreateRollCall stores rc. The ID must be set and unused.
func (m *MemoryStore) CreateRollCall(_ context.Context, rc *RollCall) error {
	if err := ValidateRollCall(rc); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if rc.ID == "" {
		return fmt.Errorf("%w: roll call id is required", ErrInvalidInput)
	}
	if _, exists := m.rollCalls[rc.ID]; exists {
		return fmt.Errorf("%w: roll call %s already exists", ErrInvalidInput, rc.ID)
	}
	m.rollCalls[rc.ID] = cloneRollCall(*rc)
	return nil
}

// ListRollCalls returns every roll call, most recently scheduled first.
func (m *MemoryStore) ListRollCalls(_ context.Context) ([]RollCall, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]RollCall, 0, len(m.rollCalls))
	for _, rc := range m.rollCalls {
		out = append(out, cloneRollCall(rc))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.After(out[j].ScheduledAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// RecordVerification appends an outcome to an existing roll call.
func (m *MemoryStore) RecordVerification(_ context.Context, v *Verification) error {
	if err := ValidateVerification(v); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rollCalls[v.RollCallID]; !ok {
		return ErrRollCallNotFound
	}
	m.verifications[v.RollCallID] = append(m.verifications[v.RollCallID], *v)
	return nil
}

// UpdateStopStatus changes the status of one stop.
func (m *MemoryStore) UpdateStopStatus(_ context.Context, rollCallID, stopID string, status StopStatus, skipReason *string) error {
	if !ValidStopStatus(status) {
		return fmt.Errorf("%w: unknown stop status %q", ErrInvalidInput, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rc, ok := m.rollCalls[rollCallID]
	if !ok {
		return ErrRollCallNotFound
	}
	for i := range rc.Stops {
		if rc.Stops[i].ID == stopID {
			rc.Stops[i].Status = status
			rc.Stops[i].SkipReason = skipReason
			return nil
		}
	}
	return ErrStopNotFound
}

func cloneRollCall(rc RollCall) RollCall {
	stops := make([]RouteStop, len(rc.Stops))
	for i, s := range rc.Stops {
		s.ExpectedOccupants = append(make([]string, 0, len(s.ExpectedOccupants)), s.ExpectedOccupants...)
		stops[i] = s
	}
	rc.Stops = stops
	return rc
}
