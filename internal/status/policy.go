package status

import (
	"time"

	"github.com/nerrad567/rollcall-core/internal/infrastructure/config"
)

// Policy holds the display assumptions for estimated arrivals.
type Policy struct {
	// PerStop spaces estimated arrivals: stop n is due at scheduled_at + n*PerStop.
	PerStop time.Duration

	// AmberWindow is the +/- window around an arrival in which a stop is due.
	AmberWindow time.Duration
}

// NewPolicy builds a Policy from the rollcall config section.
func NewPolicy(cfg config.RollCallConfig) Policy {
	return Policy{
		PerStop:     time.Duration(cfg.MinutesPerStop) * time.Minute,
		AmberWindow: time.Duration(cfg.AmberWindowMinutes) * time.Minute,
	}
}

// DefaultPolicy returns the built-in display assumptions.
func DefaultPolicy() Policy {
	return NewPolicy(config.Default().RollCall)
}

// Arrival estimates when the stop at order is reached.
func (p Policy) Arrival(scheduledAt time.Time, order int) time.Time {
	return scheduledAt.Add(time.Duration(order) * p.PerStop)
}

// Due reports whether at falls within the amber window around arrival.
func (p Policy) Due(arrival, at time.Time) bool {
	d := at.Sub(arrival)
	if d < 0 {
		d = -d
	}
	return d <= p.AmberWindow
}
