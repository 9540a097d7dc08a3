package occupancy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/rollcall-core/internal/location"
	"github.com/nerrad567/rollcall-core/internal/schedule"
)

func strPtr(s string) *string { return &s }

// monday0900 is Monday 2 March 2026, 09:00 UTC.
var monday0900 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func fixtureLocations() *location.MemoryStore {
	return location.NewMemoryStore([]location.Location{
		{ID: "prison", Name: "HMP North", Type: location.TypePrison, Capacity: 1},
		{ID: "wing-a", Name: "Wing A", Type: location.TypeWing, ParentID: strPtr("prison"), Capacity: 1},
		{ID: "landing-1", Name: "Landing 1", Type: location.TypeLanding, ParentID: strPtr("wing-a"), Capacity: 1},
		{ID: "cell-1", Name: "Cell 1", Type: location.TypeCell, ParentID: strPtr("landing-1"), Capacity: 2},
		{ID: "cell-2", Name: "Cell 2", Type: location.TypeCell, ParentID: strPtr("landing-1"), Capacity: 1},
		{ID: "cell-3", Name: "Cell 3", Type: location.TypeCell, ParentID: strPtr("landing-1"), Capacity: 1},
		{ID: "gym", Name: "Gym", Type: location.TypeGym, ParentID: strPtr("prison"), Capacity: 20},
		{ID: "hcc", Name: "Healthcare", Type: location.TypeHealthcare, ParentID: strPtr("prison"), Capacity: 10},
	}, nil)
}

// fixtureSchedule houses two occupants in cell-1 and one each in cell-2
// and cell-3. At 09:00 on Monday o2 is at the gym and o4 is in cell-3
// for a lock-in.
func fixtureSchedule() *schedule.MemoryStore {
	return schedule.NewMemoryStore([]schedule.Occupant{
		{ID: "o1", HomeLocationID: strPtr("cell-1")},
		{ID: "o2", HomeLocationID: strPtr("cell-1")},
		{ID: "o3", HomeLocationID: strPtr("cell-2")},
		{ID: "o4", HomeLocationID: strPtr("cell-3")},
		{ID: "o5"},
	}, []schedule.Entry{
		{ID: "e1", OccupantID: "o2", LocationID: "gym", DayOfWeek: 0, StartTime: "08:30", EndTime: "09:30", ActivityType: "gym", IsRecurring: true},
		{ID: "e2", OccupantID: "o3", LocationID: "hcc", DayOfWeek: 0, StartTime: "09:10", EndTime: "09:40", ActivityType: "healthcare", IsRecurring: true},
		{ID: "e3", OccupantID: "o1", LocationID: "gym", DayOfWeek: 0, StartTime: "11:00", EndTime: "12:00", ActivityType: "gym", IsRecurring: true},
		{ID: "e4", OccupantID: "o4", LocationID: "cell-3", DayOfWeek: 0, StartTime: "08:00", EndTime: "10:00", ActivityType: "lock_in", IsRecurring: true},
		{ID: "e5", OccupantID: "o1", LocationID: "o1", DayOfWeek: 0, StartTime: "09:05", EndTime: "09:06", ActivityType: "bogus", IsRecurring: true},
	})
}

func newTestResolver() *Resolver {
	return NewResolver(fixtureLocations(), fixtureSchedule(), DefaultPriorityPolicy())
}

func TestIsAtHome(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()
	slot := schedule.SlotAt(monday0900)

	tests := []struct {
		name     string
		occupant string
		home     string
		want     bool
	}{
		{"no entries defaults to home", "o1", "cell-1", true},
		{"never scheduled occupant", "o5", "cell-9", true},
		{"active entry elsewhere", "o2", "cell-1", false},
		{"active entry at home", "o4", "cell-3", true},
		{"active entry at home but asked about parent", "o4", "landing-1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.IsAtHome(ctx, tt.occupant, tt.home, slot)
			if err != nil {
				t.Fatalf("IsAtHome() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsAtHome(%s, %s) = %v, want %v", tt.occupant, tt.home, got, tt.want)
			}
		})
	}
}

func occupantIDs(list []ExpectedOccupant) []string {
	out := make([]string, 0, len(list))
	for _, eo := range list {
		out = append(out, eo.OccupantID)
	}
	return out
}

func TestExpectedOccupants(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()

	t.Run("away occupant is not counted at home", func(t *testing.T) {
		got, err := r.ExpectedOccupants(ctx, "cell-1", monday0900)
		if err != nil {
			t.Fatalf("ExpectedOccupants() error = %v", err)
		}
		if ids := occupantIDs(got); len(ids) != 1 || ids[0] != "o1" {
			t.Fatalf("ExpectedOccupants(cell-1) = %v, want [o1]", ids)
		}
		o1 := got[0]
		if o1.CurrentActivity != "unknown" {
			t.Errorf("CurrentActivity = %q, want unknown", o1.CurrentActivity)
		}
		if o1.NextAppointment == nil || o1.NextAppointment.ID != "e3" {
			t.Errorf("NextAppointment = %+v, want e3 (self-referencing e5 skipped)", o1.NextAppointment)
		}
		// Gym at 11:00 is 120 minutes away: no band applies.
		if o1.PriorityScore != 50 {
			t.Errorf("PriorityScore = %d, want 50", o1.PriorityScore)
		}
	})

	t.Run("subtree sorted by priority", func(t *testing.T) {
		got, err := r.ExpectedOccupants(ctx, "landing-1", monday0900)
		if err != nil {
			t.Fatalf("ExpectedOccupants() error = %v", err)
		}
		// o3 has healthcare in 10 minutes (50+50+10 capped at 100).
		// o4's lock-in is at cell-3, not landing-1, so o4 is away here.
		ids := occupantIDs(got)
		if len(ids) != 2 || ids[0] != "o3" || ids[1] != "o1" {
			t.Fatalf("ExpectedOccupants(landing-1) = %v, want [o3 o1]", ids)
		}
		if got[0].PriorityScore != 100 {
			t.Errorf("o3 PriorityScore = %d, want 100", got[0].PriorityScore)
		}
	})

	t.Run("current activity from entry at the queried location", func(t *testing.T) {
		got, err := r.ExpectedOccupants(ctx, "cell-3", monday0900)
		if err != nil {
			t.Fatalf("ExpectedOccupants() error = %v", err)
		}
		if len(got) != 1 || got[0].CurrentActivity != "lock_in" {
			t.Errorf("ExpectedOccupants(cell-3) = %+v", got)
		}
	})

	t.Run("location without occupants", func(t *testing.T) {
		got, err := r.ExpectedOccupants(ctx, "gym", monday0900)
		if err != nil {
			t.Fatalf("ExpectedOccupants() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("ExpectedOccupants(gym) = %v, want none", occupantIDs(got))
		}
	})

	t.Run("unknown location", func(t *testing.T) {
		_, err := r.ExpectedOccupants(ctx, "ghost", monday0900)
		if !errors.Is(err, location.ErrLocationNotFound) {
			t.Errorf("error = %v, want ErrLocationNotFound", err)
		}
	})
}

func TestBatchExpectedCounts_MatchesIndividual(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()
	locs := []string{"prison", "wing-a", "landing-1", "cell-1", "cell-2", "cell-3", "gym", "hcc"}

	times := []time.Time{
		monday0900,
		monday0900.Add(-2 * time.Hour),
		monday0900.Add(25 * time.Minute),
		monday0900.Add(2*time.Hour + 30*time.Minute),
		monday0900.AddDate(0, 0, 1),
	}

	for _, at := range times {
		t.Run(at.Format(time.RFC3339), func(t *testing.T) {
			batch, err := r.BatchExpectedCounts(ctx, locs, at)
			if err != nil {
				t.Fatalf("BatchExpectedCounts() error = %v", err)
			}
			for _, loc := range locs {
				single, err := r.BatchExpectedCounts(ctx, []string{loc}, at)
				if err != nil {
					t.Fatalf("BatchExpectedCounts([%s]) error = %v", loc, err)
				}
				list, err := r.ExpectedOccupants(ctx, loc, at)
				if err != nil {
					t.Fatalf("ExpectedOccupants(%s) error = %v", loc, err)
				}
				if len(list) != single[loc] || single[loc] != batch[loc] {
					t.Errorf("%s: individual %d, single batch %d, batch %d", loc, len(list), single[loc], batch[loc])
				}
			}
		})
	}
}

func TestBatchExpectedCounts_Values(t *testing.T) {
	r := newTestResolver()

	got, err := r.BatchExpectedCounts(context.Background(), []string{"cell-1", "cell-2", "cell-3", "landing-1"}, monday0900)
	if err != nil {
		t.Fatalf("BatchExpectedCounts() error = %v", err)
	}
	want := map[string]int{"cell-1": 1, "cell-2": 1, "cell-3": 1, "landing-1": 2}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("count[%s] = %d, want %d", k, got[k], v)
		}
	}

	empty, err := r.BatchExpectedCounts(context.Background(), nil, monday0900)
	if err != nil || len(empty) != 0 {
		t.Errorf("BatchExpectedCounts(nil) = %v, %v", empty, err)
	}

	if _, err := r.BatchExpectedCounts(context.Background(), []string{"ghost"}, monday0900); !errors.Is(err, location.ErrLocationNotFound) {
		t.Errorf("BatchExpectedCounts(ghost) error = %v, want ErrLocationNotFound", err)
	}
}

// flakySchedule fails every read.
type flakySchedule struct{ schedule.Reader }

var errScheduleDown = errors.New("schedule store down")

func (flakySchedule) EntriesAtTime(context.Context, schedule.Slot, string) ([]schedule.Entry, error) {
	return nil, errScheduleDown
}

func (flakySchedule) ListOccupants(context.Context) ([]schedule.Occupant, error) {
	return nil, errScheduleDown
}

func TestResolver_PropagatesUpstreamErrors(t *testing.T) {
	r := NewResolver(fixtureLocations(), flakySchedule{}, DefaultPriorityPolicy())
	ctx := context.Background()

	if _, err := r.IsAtHome(ctx, "o1", "cell-1", schedule.SlotAt(monday0900)); !errors.Is(err, errScheduleDown) {
		t.Errorf("IsAtHome() error = %v", err)
	}
	if _, err := r.ExpectedOccupants(ctx, "cell-1", monday0900); !errors.Is(err, errScheduleDown) {
		t.Errorf("ExpectedOccupants() error = %v", err)
	}
	if _, err := r.BatchExpectedCounts(ctx, []string{"cell-1"}, monday0900); !errors.Is(err, errScheduleDown) {
		t.Errorf("BatchExpectedCounts() error = %v", err)
	}
}

func TestResolver_FacilityTimezone(t *testing.T) {
	// Tuesday 2 June 2026, 13:30 UTC is 14:30 at a UTC+1 facility, inside
	// o1's 14:00-15:00 gym session.
	instant := time.Date(2026, 6, 2, 13, 30, 0, 0, time.UTC)
	facility := time.FixedZone("UTC+1", 60*60)

	sched := schedule.NewMemoryStore([]schedule.Occupant{
		{ID: "o1", HomeLocationID: strPtr("cell-1")},
	}, []schedule.Entry{
		{ID: "e1", OccupantID: "o1", LocationID: "gym", DayOfWeek: 1, StartTime: "14:00", EndTime: "15:00", ActivityType: "gym", IsRecurring: true},
	})
	r := NewResolver(fixtureLocations(), sched, DefaultPriorityPolicy())
	r.SetTimezone(facility)
	ctx := context.Background()

	offsets := map[string]time.Time{
		"utc":      instant,
		"facility": instant.In(facility),
		"utc-5":    instant.In(time.FixedZone("UTC-5", -5*60*60)),
	}
	for name, at := range offsets {
		t.Run(name, func(t *testing.T) {
			counts, err := r.BatchExpectedCounts(ctx, []string{"cell-1", "landing-1"}, at)
			if err != nil {
				t.Fatalf("BatchExpectedCounts() error = %v", err)
			}
			if counts["cell-1"] != 0 || counts["landing-1"] != 0 {
				t.Errorf("counts = %v, want o1 away at the gym", counts)
			}

			got, err := r.ExpectedOccupants(ctx, "cell-1", at)
			if err != nil {
				t.Fatalf("ExpectedOccupants() error = %v", err)
			}
			if len(got) != 0 {
				t.Errorf("ExpectedOccupants(cell-1) = %+v, want none", got)
			}
		})
	}

	utc := NewResolver(fixtureLocations(), sched, DefaultPriorityPolicy())
	counts, err := utc.BatchExpectedCounts(ctx, []string{"cell-1"}, instant.In(facility))
	if err != nil {
		t.Fatalf("BatchExpectedCounts() error = %v", err)
	}
	if counts["cell-1"] != 1 {
		t.Errorf("UTC facility count = %d, want 1 before the 14:00 session", counts["cell-1"])
	}
}
