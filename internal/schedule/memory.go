package schedule

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Repository used for fixtures.
type MemoryStore struct {
	mu        sync.RWMutex
	occupants []Occupant
	entries   []Entry
}

// NewMemoryStore creates a MemoryStore seeded without validation.
func NewMemoryStore(occupants []Occupant, entries []Entry) *MemoryStore {
	return &MemoryStore{
		occupants: append([]Occupant(nil), occupants...),
		entries:   append([]Entry(nil), entries...),
	}
}

// EntriesAtTime returns entries active at slot, optionally for one location.
func (m *MemoryStore) EntriesAtTime(_ context.Context, slot Slot, locationID string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Entry
	for i := range m.entries {
		e := &m.entries[i]
		if locationID != "" && e.LocationID != locationID {
			continue
		}
		if e.ActiveAt(slot) {
			out = append(out, *e)
		}
	}
	return out, nil
}

// EntriesByOccupant returns all entries for one occupant.
func (m *MemoryStore) EntriesByOccupant(_ context.Context, occupantID string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Entry
	for _, e := range m.entries {
		if e.OccupantID == occupantID {
			out = append(out, e)
		}
	}
	return out, nil
}

// OccupantsByHomeLocation returns occupants whose home is locationID.
func (m *MemoryStore) OccupantsByHomeLocation(_ context.Context, locationID string) ([]Occupant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Occupant
	for _, o := range m.occupants {
		if o.Home() == locationID {
			out = append(out, o)
		}
	}
	return out, nil
}

// ListOccupants returns every occupant.
func (m *MemoryStore) ListOccupants(_ context.Context) ([]Occupant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Occupant(nil), m.occupants...), nil
}

// CreateOccupant stores a new occupant.
func (m *MemoryStore) CreateOccupant(_ context.Context, o *Occupant) error {
	if o.ID == "" {
		return fmt.Errorf("%w: occupant id is required", ErrInvalidEntry)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.occupants {
		if existing.ID == o.ID {
			return fmt.Errorf("%w: occupant %s already exists", ErrInvalidEntry, o.ID)
		}
	}
	m.occupants = append(m.occupants, *o)
	return nil
}

// CreateEntry validates and stores an entry, assigning an ID if empty.
func (m *MemoryStore) CreateEntry(_ context.Context, e *Entry) error {
	if err := ValidateEntry(e); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	known := false
	for _, o := range m.occupants {
		if o.ID == e.OccupantID {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("occupant %s: %w", e.OccupantID, ErrOccupantNotFound)
	}
	if err := CheckOverlap(e, m.entries); err != nil {
		return err
	}

	if e.ID == "" {
		e.ID = "sch-" + uuid.NewString()[:8]
	}
	if e.Source == "" {
		e.Source = SourceManual
	}
	m.entries = append(m.entries, *e)
	return nil
}
