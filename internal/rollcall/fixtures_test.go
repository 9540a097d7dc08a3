package rollcall

import (
	"time"

	"github.com/nerrad567/rollcall-core/internal/location"
	"github.com/nerrad567/rollcall-core/internal/occupancy"
	"github.com/nerrad567/rollcall-core/internal/routing"
	"github.com/nerrad567/rollcall-core/internal/schedule"
)

func strPtr(s string) *string { return &s }

// tuesday1400 is Tuesday 3 March 2026, 14:00 UTC.
var tuesday1400 = time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC)

// testLocations is one prison with Wing A (two landings, four cells),
// Wing B (one empty landing) and a gym.
func testLocations() *location.MemoryStore {
	return location.NewMemoryStore([]location.Location{
		{ID: "prison", Name: "HMP North", Type: location.TypePrison, Capacity: 1},
		{ID: "wing-a", Name: "Wing A", Type: location.TypeWing, ParentID: strPtr("prison"), Capacity: 1, Building: "A"},
		{ID: "a1", Name: "A1", Type: location.TypeLanding, ParentID: strPtr("wing-a"), Capacity: 1, Building: "A", Floor: 1},
		{ID: "a2", Name: "A2", Type: location.TypeLanding, ParentID: strPtr("wing-a"), Capacity: 1, Building: "A", Floor: 2},
		{ID: "a1-01", Name: "A1-01", Type: location.TypeCell, ParentID: strPtr("a1"), Capacity: 1, Building: "A", Floor: 1},
		{ID: "a1-02", Name: "A1-02", Type: location.TypeCell, ParentID: strPtr("a1"), Capacity: 1, Building: "A", Floor: 1},
		{ID: "a2-01", Name: "A2-01", Type: location.TypeCell, ParentID: strPtr("a2"), Capacity: 1, Building: "A", Floor: 2},
		{ID: "a2-02", Name: "A2-02", Type: location.TypeCell, ParentID: strPtr("a2"), Capacity: 1, Building: "A", Floor: 2},
		{ID: "wing-b", Name: "Wing B", Type: location.TypeWing, ParentID: strPtr("prison"), Capacity: 1, Building: "B"},
		{ID: "b1", Name: "B1", Type: location.TypeLanding, ParentID: strPtr("wing-b"), Capacity: 1, Building: "B", Floor: 1},
		{ID: "gym", Name: "Gym", Type: location.TypeGym, ParentID: strPtr("prison"), Capacity: 30, Building: "G"},
	}, []location.Connection{
		{FromID: "a1-01", ToID: "a1-02", DistanceMeters: 4, TravelTimeSeconds: 5, ConnectionType: "corridor", IsBidirectional: true},
		{FromID: "a1-02", ToID: "a2-01", DistanceMeters: 15, TravelTimeSeconds: 40, ConnectionType: "stairwell", IsBidirectional: true},
		{FromID: "a2-01", ToID: "a2-02", DistanceMeters: 4, TravelTimeSeconds: 5, ConnectionType: "corridor", IsBidirectional: true},
	})
}

// testSchedule houses one occupant in each of a1-01, a1-02, a2-01 and two
// in a2-02. At 14:00 on Tuesday p3 is at the gym.
func testSchedule() *schedule.MemoryStore {
	return schedule.NewMemoryStore([]schedule.Occupant{
		{ID: "p1", HomeLocationID: strPtr("a1-01")},
		{ID: "p2", HomeLocationID: strPtr("a1-02")},
		{ID: "p3", HomeLocationID: strPtr("a2-01")},
		{ID: "p4", HomeLocationID: strPtr("a2-02")},
		{ID: "p5", HomeLocationID: strPtr("a2-02")},
	}, []schedule.Entry{
		{ID: "e1", OccupantID: "p3", LocationID: "gym", DayOfWeek: 1, StartTime: "13:30", EndTime: "15:00", ActivityType: "gym", IsRecurring: true},
		{ID: "e2", OccupantID: "p5", LocationID: "gym", DayOfWeek: 1, StartTime: "14:10", EndTime: "15:00", ActivityType: "healthcare", IsRecurring: true},
	})
}

func newTestGenerator() *Generator {
	locs := testLocations()
	resolver := occupancy.NewResolver(locs, testSchedule(), occupancy.DefaultPriorityPolicy())
	return NewGenerator(locs, resolver, routing.NewRouter(locs), DefaultPolicy())
}
