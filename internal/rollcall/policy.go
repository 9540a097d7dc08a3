package rollcall

import (
	"github.com/nerrad567/rollcall-core/internal/infrastructure/config"
	"github.com/nerrad567/rollcall-core/internal/location"
)

// Policy holds the planning assumptions that vary between facilities.
type Policy struct {
	// VerificationSecondsPerOccupant is added to the walking time for each
	// expected occupant when estimating a route's duration.
	VerificationSecondsPerOccupant int

	// LeafTypes are the location types a route visits.
	LeafTypes []location.Type
}

// NewPolicy builds a Policy from the rollcall config section.
func NewPolicy(cfg config.RollCallConfig) Policy {
	leaf := make([]location.Type, 0, len(cfg.LeafTypes))
	for _, t := range cfg.LeafTypes {
		leaf = append(leaf, location.Type(t))
	}
	return Policy{
		VerificationSecondsPerOccupant: cfg.VerificationSecondsPerOccupant,
		LeafTypes:                      leaf,
	}
}

// DefaultPolicy returns the built-in planning assumptions.
func DefaultPolicy() Policy {
	return NewPolicy(config.Default().RollCall)
}

// IsLeaf reports whether t is a leaf type under this policy.
func (p Policy) IsLeaf(t location.Type) bool {
	for _, lt := range p.LeafTypes {
		if lt == t {
			return true
		}
	}
	return false
}
