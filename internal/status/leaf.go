package status

import (
	"sort"
	"time"

	"github.com/nerrad567/rollcall-core/internal/rollcall"
)

// LeafState is the evaluated status of one location across the supplied
// roll calls. Locations on no route have no LeafState.
type LeafState struct {
	LocationID string
	Status     Status
	Arrival    time.Time
	Due        bool
	Verified   int
	Failed     int

	// Latest holds the most recent outcome per occupant at this location.
	Latest map[string]rollcall.Verification
}

// evaluateStop computes the status of one stop of one roll call.
func evaluateStop(p Policy, rc *rollcall.RollCall, stop rollcall.RouteStop, outcomes []rollcall.Verification, at time.Time) LeafState {
	st := LeafState{
		LocationID: stop.LocationID,
		Arrival:    p.Arrival(rc.ScheduledAt, stop.Order),
		Latest:     make(map[string]rollcall.Verification),
	}
	st.Due = p.Due(st.Arrival, at)

	for _, v := range outcomes {
		switch {
		case v.Status.IsFailure():
			st.Failed++
		case v.Status.IsSuccess():
			st.Verified++
		}
		if prev, ok := st.Latest[v.OccupantID]; !ok || !v.Timestamp.Before(prev.Timestamp) {
			st.Latest[v.OccupantID] = v
		}
	}

	switch {
	case st.Failed > 0:
		st.Status = Red
	case len(outcomes) > 0 && !st.Arrival.After(at):
		st.Status = Green
	default:
		st.Status = Amber
	}
	return st
}

// merge folds another roll call's view of the same location into st.
func (st *LeafState) merge(other LeafState) {
	st.Status = Aggregate([]Status{st.Status, other.Status})
	st.Due = st.Due || other.Due
	if other.Arrival.Before(st.Arrival) {
		st.Arrival = other.Arrival
	}
	st.Verified += other.Verified
	st.Failed += other.Failed
	for id, v := range other.Latest {
		if prev, ok := st.Latest[id]; !ok || !v.Timestamp.Before(prev.Timestamp) {
			st.Latest[id] = v
		}
	}
}

// EvaluateLeaves computes the status of every stop location of the given
// roll calls. A location on several routes combines its per-route statuses
// with Aggregate.
func EvaluateLeaves(p Policy, rollCalls []*rollcall.RollCall, outcomes map[string][]rollcall.Verification, at time.Time) map[string]*LeafState {
	out := make(map[string]*LeafState)
	for _, rc := range rollCalls {
		byLocation := make(map[string][]rollcall.Verification)
		for _, v := range outcomes[rc.ID] {
			byLocation[v.LocationID] = append(byLocation[v.LocationID], v)
		}

		for _, stop := range rc.Stops {
			st := evaluateStop(p, rc, stop, byLocation[stop.LocationID], at)
			if existing, ok := out[stop.LocationID]; ok {
				existing.merge(st)
				continue
			}
			out[stop.LocationID] = &st
		}
	}
	return out
}

// latestSorted returns the latest outcomes ordered by occupant id.
func (st *LeafState) latestSorted() []rollcall.Verification {
	out := make([]rollcall.Verification, 0, len(st.Latest))
	for _, v := range st.Latest {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccupantID < out[j].OccupantID })
	return out
}
