package occupancy

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nerrad567/rollcall-core/internal/location"
	"github.com/nerrad567/rollcall-core/internal/schedule"
)

// unknownActivity is reported when no entry covers the query time.
const unknownActivity = "unknown"

// ExpectedOccupant is an occupant expected under a location, with fields
// derived from their schedule for the day.
type ExpectedOccupant struct {
	OccupantID      string          `json:"occupant_id"`
	HomeLocationID  string          `json:"home_location_id"`
	CurrentActivity string          `json:"current_activity"`
	NextAppointment *schedule.Entry `json:"next_appointment,omitempty"`
	PriorityScore   int             `json:"priority_score"`
}

// Resolver combines the hierarchy with the schedule.
type Resolver struct {
	locations location.Reader
	schedule  schedule.Reader
	policy    PriorityPolicy
	zone      *time.Location
}

// NewResolver creates a Resolver that reads schedule times as UTC.
func NewResolver(locations location.Reader, sched schedule.Reader, policy PriorityPolicy) *Resolver {
	return &Resolver{locations: locations, schedule: sched, policy: policy, zone: time.UTC}
}

// SetTimezone sets the facility zone that schedule times are written in.
// A query instant is converted to it before matching entries, so the
// caller's UTC offset does not change the result.
func (r *Resolver) SetTimezone(loc *time.Location) {
	if loc != nil {
		r.zone = loc
	}
}

// slotAt is the schedule slot for at in the facility zone.
func (r *Resolver) slotAt(at time.Time) schedule.Slot {
	return schedule.SlotAt(at.In(r.zone))
}

// IsAtHome reports whether the occupant is expected at homeID at slot:
// true when no entry is active for them, or every active entry is at homeID.
func (r *Resolver) IsAtHome(ctx context.Context, occupantID, homeID string, slot schedule.Slot) (bool, error) {
	active, err := r.schedule.EntriesAtTime(ctx, slot, "")
	if err != nil {
		return false, fmt.Errorf("loading active entries: %w", err)
	}
	return atHome(activeByOccupant(active)[occupantID], homeID), nil
}

// atHome is the shared rule for IsAtHome and the batch path.
func atHome(active []schedule.Entry, homeID string) bool {
	for _, e := range active {
		if e.LocationID != homeID {
			return false
		}
	}
	return true
}

func activeByOccupant(entries []schedule.Entry) map[string][]schedule.Entry {
	out := make(map[string][]schedule.Entry)
	for _, e := range entries {
		out[e.OccupantID] = append(out[e.OccupantID], e)
	}
	return out
}

// ExpectedOccupants lists occupants housed anywhere under locationID who are
// expected there at the given time, highest priority first.
func (r *Resolver) ExpectedOccupants(ctx context.Context, locationID string, at time.Time) ([]ExpectedOccupant, error) {
	idx, err := location.LoadIndex(ctx, r.locations)
	if err != nil {
		return nil, fmt.Errorf("loading hierarchy: %w", err)
	}
	subtree := idx.SubtreeIDs(locationID)
	if subtree == nil {
		return nil, fmt.Errorf("location %s: %w", locationID, location.ErrLocationNotFound)
	}

	slot := r.slotAt(at)
	active, err := r.schedule.EntriesAtTime(ctx, slot, "")
	if err != nil {
		return nil, fmt.Errorf("loading active entries: %w", err)
	}
	byOccupant := activeByOccupant(active)

	out := []ExpectedOccupant{}
	for _, id := range subtree {
		occupants, err := r.schedule.OccupantsByHomeLocation(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("loading occupants of %s: %w", id, err)
		}
		for _, o := range occupants {
			current := byOccupant[o.ID]
			if !atHome(current, locationID) {
				continue
			}

			eo := ExpectedOccupant{
				OccupantID:      o.ID,
				HomeLocationID:  o.Home(),
				CurrentActivity: unknownActivity,
			}
			if len(current) > 0 && current[0].ActivityType != "" {
				eo.CurrentActivity = current[0].ActivityType
			}

			eo.NextAppointment, err = r.nextAppointment(ctx, o.ID, slot)
			if err != nil {
				return nil, err
			}
			eo.PriorityScore = r.policy.Score(eo.NextAppointment, slot)
			out = append(out, eo)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PriorityScore > out[j].PriorityScore
	})
	return out, nil
}

// nextAppointment returns the earliest entry starting later today. Rows
// whose location is the occupant's own id are ignored.
func (r *Resolver) nextAppointment(ctx context.Context, occupantID string, slot schedule.Slot) (*schedule.Entry, error) {
	entries, err := r.schedule.EntriesByOccupant(ctx, occupantID)
	if err != nil {
		return nil, fmt.Errorf("loading schedule of %s: %w", occupantID, err)
	}

	var next *schedule.Entry
	for i := range entries {
		e := &entries[i]
		if e.LocationID == occupantID || !e.LaterToday(slot) {
			continue
		}
		if next == nil || e.StartTime < next.StartTime {
			next = e
		}
	}
	return next, nil
}

// BatchExpectedCounts returns the expected head count for each location.
// It reads the hierarchy, the occupant list and the active entries once,
// and agrees with len(ExpectedOccupants) for every location.
func (r *Resolver) BatchExpectedCounts(ctx context.Context, locationIDs []string, at time.Time) (map[string]int, error) {
	counts := make(map[string]int, len(locationIDs))
	if len(locationIDs) == 0 {
		return counts, nil
	}

	idx, err := location.LoadIndex(ctx, r.locations)
	if err != nil {
		return nil, fmt.Errorf("loading hierarchy: %w", err)
	}

	occupants, err := r.schedule.ListOccupants(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading occupants: %w", err)
	}
	housed := make(map[string][]string)
	for _, o := range occupants {
		if h := o.Home(); h != "" {
			housed[h] = append(housed[h], o.ID)
		}
	}

	active, err := r.schedule.EntriesAtTime(ctx, r.slotAt(at), "")
	if err != nil {
		return nil, fmt.Errorf("loading active entries: %w", err)
	}
	// away maps an occupant to the set of locations they are scheduled at.
	away := make(map[string]map[string]bool)
	for _, e := range active {
		if away[e.OccupantID] == nil {
			away[e.OccupantID] = make(map[string]bool)
		}
		away[e.OccupantID][e.LocationID] = true
	}

	for _, locID := range locationIDs {
		if _, done := counts[locID]; done {
			continue
		}
		subtree := idx.SubtreeIDs(locID)
		if subtree == nil {
			return nil, fmt.Errorf("location %s: %w", locID, location.ErrLocationNotFound)
		}
		n := 0
		for _, id := range subtree {
			for _, occ := range housed[id] {
				scheduled := away[occ]
				if len(scheduled) == 0 || (len(scheduled) == 1 && scheduled[locID]) {
					n++
				}
			}
		}
		counts[locID] = n
	}
	return counts, nil
}
