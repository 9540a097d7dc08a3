package occupancy

import (
	"github.com/nerrad567/rollcall-core/internal/infrastructure/config"
	"github.com/nerrad567/rollcall-core/internal/schedule"
)

// PriorityPolicy scores how urgently an occupant should be checked, based
// on how soon their next appointment starts.
type PriorityPolicy struct {
	Base          int
	Max           int
	Bands         []config.PriorityBand
	ActivityBonus map[string]int
}

// NewPriorityPolicy builds a policy from the rollcall.priority config section.
func NewPriorityPolicy(cfg config.PriorityConfig) PriorityPolicy {
	return PriorityPolicy{
		Base:          cfg.Base,
		Max:           cfg.Max,
		Bands:         cfg.Bands,
		ActivityBonus: cfg.ActivityBonus,
	}
}

// DefaultPriorityPolicy returns the built-in scoring bands.
func DefaultPriorityPolicy() PriorityPolicy {
	return NewPriorityPolicy(config.Default().RollCall.Priority)
}

// Score returns the priority for an occupant whose next appointment is
// next (nil when there is none) at slot.
func (p PriorityPolicy) Score(next *schedule.Entry, slot schedule.Slot) int {
	score := p.Base
	if next != nil {
		if mins, ok := next.MinutesUntilStart(slot); ok {
			for _, b := range p.Bands {
				if mins < b.WithinMinutes {
					score += b.Bonus
					break
				}
			}
		}
		score += p.ActivityBonus[next.ActivityType]
	}
	if score > p.Max {
		score = p.Max
	}
	return score
}
