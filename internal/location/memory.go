package location

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Repository used for fixtures and small sites.
type MemoryStore struct {
	mu          sync.RWMutex
	locations   []Location
	positions   map[string]int
	connections []Connection
}

// NewMemoryStore creates a MemoryStore seeded with locs and conns.
// Invalid entries are not rejected; seeding is trusted.
func NewMemoryStore(locs []Location, conns []Connection) *MemoryStore {
	m := &MemoryStore{positions: make(map[string]int)}
	for _, l := range locs {
		m.put(l)
	}
	m.connections = append(m.connections, conns...)
	return m
}

func (m *MemoryStore) put(l Location) {
	if i, ok := m.positions[l.ID]; ok {
		m.locations[i] = l
		return
	}
	m.positions[l.ID] = len(m.locations)
	m.locations = append(m.locations, l)
}

func (m *MemoryStore) index() *Index {
	return NewIndex(m.locations)
}

// GetLocation returns a single location by ID.
func (m *MemoryStore) GetLocation(_ context.Context, id string) (*Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.positions[id]
	if !ok {
		return nil, ErrLocationNotFound
	}
	l := m.locations[i]
	return &l, nil
}

// GetChildren returns the direct children of id.
func (m *MemoryStore) GetChildren(_ context.Context, id string) ([]Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index().Children(id), nil
}

// GetDescendants returns all locations below id, breadth-first.
func (m *MemoryStore) GetDescendants(_ context.Context, id string, types ...Type) ([]Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index().Descendants(id, types...), nil
}

// ListLocations returns a copy of all locations in insertion order.
func (m *MemoryStore) ListLocations(_ context.Context) ([]Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Location(nil), m.locations...), nil
}

// ConnectionsFrom returns the stored edges leaving id.
func (m *MemoryStore) ConnectionsFrom(_ context.Context, id string) ([]Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Connection
	for _, c := range m.connections {
		if c.FromID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

// ListConnections returns a copy of all stored edges.
func (m *MemoryStore) ListConnections(_ context.Context) ([]Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Connection(nil), m.connections...), nil
}

// CreateLocation validates and stores a new location.
func (m *MemoryStore) CreateLocation(_ context.Context, l *Location) error {
	if err := ValidateLocation(l); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.positions[l.ID]; exists {
		return fmt.Errorf("%w: location %s already exists", ErrInvalidLocation, l.ID)
	}
	if p := l.Parent(); p != "" {
		if _, ok := m.positions[p]; !ok {
			return fmt.Errorf("parent %s: %w", p, ErrLocationNotFound)
		}
	}
	m.put(*l)
	return nil
}

// CreateConnection validates and stores a new edge. Both ends must exist.
func (m *MemoryStore) CreateConnection(_ context.Context, c *Connection) error {
	if err := ValidateConnection(c); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range []string{c.FromID, c.ToID} {
		if _, ok := m.positions[id]; !ok {
			return fmt.Errorf("connection endpoint %s: %w", id, ErrLocationNotFound)
		}
	}
	m.connections = append(m.connections, *c)
	return nil
}
