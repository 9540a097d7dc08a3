package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/rollcall-core/internal/location"
	"github.com/nerrad567/rollcall-core/internal/rollcall"
	"github.com/nerrad567/rollcall-core/internal/schedule"
)

func strPtr(s string) *string { return &s }

// scenarioLocations is Prison > Wing A > Landing 1 > {c1, c2} plus an
// unvisited Wing B with one occupied cell and one empty cell.
func scenarioLocations() *location.MemoryStore {
	return location.NewMemoryStore([]location.Location{
		{ID: "prison", Name: "HMP North", Type: location.TypePrison, Capacity: 1},
		{ID: "wing-a", Name: "Wing A", Type: location.TypeWing, ParentID: strPtr("prison"), Capacity: 1},
		{ID: "l1", Name: "Landing 1", Type: location.TypeLanding, ParentID: strPtr("wing-a"), Capacity: 1},
		{ID: "c1", Name: "Cell 1", Type: location.TypeCell, ParentID: strPtr("l1"), Capacity: 1},
		{ID: "c2", Name: "Cell 2", Type: location.TypeCell, ParentID: strPtr("l1"), Capacity: 1},
		{ID: "wing-b", Name: "Wing B", Type: location.TypeWing, ParentID: strPtr("prison"), Capacity: 1},
		{ID: "b1", Name: "B1", Type: location.TypeLanding, ParentID: strPtr("wing-b"), Capacity: 1},
		{ID: "b1-01", Name: "B1-01", Type: location.TypeCell, ParentID: strPtr("b1"), Capacity: 1},
		{ID: "b1-02", Name: "B1-02", Type: location.TypeCell, ParentID: strPtr("b1"), Capacity: 1},
	}, nil)
}

func scenarioSchedule() *schedule.MemoryStore {
	return schedule.NewMemoryStore([]schedule.Occupant{
		{ID: "o1", HomeLocationID: strPtr("c1")},
		{ID: "o2", HomeLocationID: strPtr("c2")},
		{ID: "o3", HomeLocationID: strPtr("b1-01")},
	}, nil)
}

// scenario stores the c1, c2 route at start with o1 verified in c1.
func scenario(t *testing.T) (*Aggregator, *rollcall.MemoryStore) {
	t.Helper()
	ctx := context.Background()

	store := rollcall.NewMemoryStore()
	rc := twoStopRollCall("rc-1")
	if err := store.CreateRollCall(ctx, rc); err != nil {
		t.Fatalf("CreateRollCall() error = %v", err)
	}
	v := outcome("rc-1", "o1", "c1", rollcall.VerificationVerified, start.Add(time.Minute))
	if err := store.RecordVerification(ctx, &v); err != nil {
		t.Fatalf("RecordVerification() error = %v", err)
	}
	return NewAggregator(scenarioLocations(), scenarioSchedule(), store, DefaultPolicy()), store
}

// flatten indexes a tree by node id.
func flatten(n *Node) map[string]*Node {
	out := map[string]*Node{}
	var walk func(*Node)
	walk = func(n *Node) {
		out[n.ID] = n
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

func TestBuildTreemap_EndToEnd(t *testing.T) {
	agg, _ := scenario(t)

	root, err := agg.BuildTreemap(context.Background(), Query{
		RollCallIDs: []string{"rc-1"},
		At:          start.Add(6 * time.Minute),
	})
	if err != nil {
		t.Fatalf("BuildTreemap() error = %v", err)
	}
	if root.ID != RootID || root.Name != "All Prisons" || root.Type != RootType {
		t.Errorf("root = %s/%s/%s", root.ID, root.Name, root.Type)
	}

	nodes := flatten(root)
	wantStatus := map[string]Status{
		"c1":     Green,
		"c2":     Amber,
		"l1":     Amber,
		"wing-a": Amber,
		"prison": Amber,
		"b1-01":  Grey,
		"wing-b": Grey,
		RootID:   Amber,
	}
	for id, want := range wantStatus {
		n, ok := nodes[id]
		if !ok {
			t.Errorf("node %s missing", id)
			continue
		}
		if n.Status != want {
			t.Errorf("%s status = %s, want %s", id, n.Status, want)
		}
	}

	wantValue := map[string]int{"c1": 1, "c2": 1, "l1": 2, "wing-a": 2, "wing-b": 1, "prison": 3, RootID: 3}
	for id, want := range wantValue {
		if got := nodes[id].Value; got != want {
			t.Errorf("%s value = %d, want %d", id, got, want)
		}
		if got := nodes[id].Metadata.OccupantCount; got != want {
			t.Errorf("%s occupant_count = %d, want %d", id, got, want)
		}
	}
	if nodes["l1"].Metadata.VerifiedCount != 1 || nodes["prison"].Metadata.VerifiedCount != 1 {
		t.Errorf("verified counts did not roll up: l1=%d prison=%d",
			nodes["l1"].Metadata.VerifiedCount, nodes["prison"].Metadata.VerifiedCount)
	}
	if _, ok := nodes["b1-02"]; ok {
		t.Error("empty unvisited cell should be omitted")
	}
	if nodes["c1"].Metadata.OccupantDetails != nil {
		t.Error("details should be omitted unless requested")
	}
}

func TestBuildTreemap_RedPropagatesToRoot(t *testing.T) {
	agg, store := scenario(t)
	ctx := context.Background()

	v := outcome("rc-1", "o2", "c2", rollcall.VerificationNotFound, start.Add(5*time.Minute))
	if err := store.RecordVerification(ctx, &v); err != nil {
		t.Fatalf("RecordVerification() error = %v", err)
	}

	root, err := agg.BuildTreemap(ctx, Query{RollCallIDs: []string{"rc-1"}, At: start.Add(6 * time.Minute)})
	if err != nil {
		t.Fatalf("BuildTreemap() error = %v", err)
	}

	nodes := flatten(root)
	for _, id := range []string{"c2", "l1", "wing-a", "prison", RootID} {
		if nodes[id].Status != Red {
			t.Errorf("%s status = %s, want red", id, nodes[id].Status)
		}
	}
	if nodes["c1"].Status != Green {
		t.Errorf("c1 status = %s, want green", nodes["c1"].Status)
	}
	if nodes["prison"].Metadata.FailedCount != 1 {
		t.Errorf("prison failed_count = %d, want 1", nodes["prison"].Metadata.FailedCount)
	}
}

func TestBuildTreemap_UnknownRollCallsAreGrey(t *testing.T) {
	agg, _ := scenario(t)

	root, err := agg.BuildTreemap(context.Background(), Query{
		RollCallIDs: []string{"rc-ghost", ""},
		At:          start,
	})
	if err != nil {
		t.Fatalf("BuildTreemap() error = %v", err)
	}
	for id, n := range flatten(root) {
		if n.Status != Grey {
			t.Errorf("%s status = %s, want grey", id, n.Status)
		}
	}
	if root.Value != 3 {
		t.Errorf("root value = %d, want 3", root.Value)
	}
}

func TestBuildTreemap_IncludeEmpty(t *testing.T) {
	agg, _ := scenario(t)

	root, err := agg.BuildTreemap(context.Background(), Query{At: start, IncludeEmpty: true})
	if err != nil {
		t.Fatalf("BuildTreemap() error = %v", err)
	}
	n, ok := flatten(root)["b1-02"]
	if !ok {
		t.Fatal("empty cell missing with IncludeEmpty")
	}
	if n.Value != 0 || n.Status != Grey {
		t.Errorf("b1-02 = %+v", n)
	}
}

func TestBuildTreemap_Details(t *testing.T) {
	agg, _ := scenario(t)

	root, err := agg.BuildTreemap(context.Background(), Query{
		RollCallIDs: []string{"rc-1"},
		At:          start.Add(6 * time.Minute),
		Details:     true,
	})
	if err != nil {
		t.Fatalf("BuildTreemap() error = %v", err)
	}
	nodes := flatten(root)

	c1 := nodes["c1"].Metadata.OccupantDetails
	if len(c1) != 1 || c1[0].OccupantID != "o1" || c1[0].Status != "verified" || !c1[0].Resident || c1[0].Timestamp == nil {
		t.Errorf("c1 details = %+v", c1)
	}
	c2 := nodes["c2"].Metadata.OccupantDetails
	if len(c2) != 1 || c2[0].Status != "pending" || c2[0].Timestamp != nil {
		t.Errorf("c2 details = %+v", c2)
	}
}

func TestBuildTreemap_FallbackRoot(t *testing.T) {
	locs := location.NewMemoryStore([]location.Location{
		{ID: "hb1", Name: "Houseblock 1", Type: location.TypeHouseblock, Capacity: 1},
		{ID: "hb1-01", Name: "1-01", Type: location.TypeCell, ParentID: strPtr("hb1"), Capacity: 1},
		{ID: "yard", Name: "Yard", Type: location.TypeYard, Capacity: 50},
	}, nil)
	sched := schedule.NewMemoryStore([]schedule.Occupant{{ID: "o1", HomeLocationID: strPtr("hb1-01")}}, nil)

	agg := NewAggregator(locs, sched, rollcall.NewMemoryStore(), DefaultPolicy())
	root, err := agg.BuildTreemap(context.Background(), Query{At: start, IncludeEmpty: true})
	if err != nil {
		t.Fatalf("BuildTreemap() error = %v", err)
	}

	if root.Name != "All Locations" {
		t.Errorf("root name = %q, want All Locations", root.Name)
	}
	if len(root.Children) != 1 || root.Children[0].ID != "hb1" {
		t.Errorf("root children = %+v, want only the houseblock", root.Children)
	}
}

type failingRollCalls struct{ err error }

func (f failingRollCalls) GetRollCall(context.Context, string) (*rollcall.RollCall, error) {
	return nil, f.err
}

func (f failingRollCalls) VerificationsByRollCall(context.Context, string) ([]rollcall.Verification, error) {
	return nil, f.err
}

func TestBuildTreemap_PropagatesUpstreamErrors(t *testing.T) {
	errUpstream := errors.New("store offline")
	agg := NewAggregator(scenarioLocations(), scenarioSchedule(), failingRollCalls{err: errUpstream}, DefaultPolicy())

	_, err := agg.BuildTreemap(context.Background(), Query{RollCallIDs: []string{"rc-1"}, At: start})
	if !errors.Is(err, errUpstream) {
		t.Errorf("BuildTreemap() error = %v, want wrapped upstream error", err)
	}
}

func TestBuildTreemap_OmittedChildKeepsParentGrey(t *testing.T) {
	ctx := context.Background()
	locs := location.NewMemoryStore([]location.Location{
		{ID: "prison", Name: "HMP North", Type: location.TypePrison, Capacity: 1},
		{ID: "l1", Name: "Landing 1", Type: location.TypeLanding, ParentID: strPtr("prison"), Capacity: 1},
		{ID: "c1", Name: "Cell 1", Type: location.TypeCell, ParentID: strPtr("l1"), Capacity: 1},
		{ID: "c2", Name: "Cell 2", Type: location.TypeCell, ParentID: strPtr("l1"), Capacity: 1},
	}, nil)
	sched := schedule.NewMemoryStore([]schedule.Occupant{{ID: "o1", HomeLocationID: strPtr("c1")}}, nil)

	store := rollcall.NewMemoryStore()
	rc := &rollcall.RollCall{
		ID:          "rc-1",
		Name:        "Evening",
		ScheduledAt: start,
		Status:      rollcall.StatusInProgress,
		Stops: []rollcall.RouteStop{
			{ID: "rc-1-0", LocationID: "c1", Order: 0, ExpectedOccupants: []string{"o1"}, Status: rollcall.StopPending},
		},
	}
	if err := store.CreateRollCall(ctx, rc); err != nil {
		t.Fatalf("CreateRollCall() error = %v", err)
	}
	v := outcome("rc-1", "o1", "c1", rollcall.VerificationVerified, start.Add(time.Minute))
	if err := store.RecordVerification(ctx, &v); err != nil {
		t.Fatalf("RecordVerification() error = %v", err)
	}

	agg := NewAggregator(locs, sched, store, DefaultPolicy())
	root, err := agg.BuildTreemap(ctx, Query{RollCallIDs: []string{"rc-1"}, At: start.Add(6 * time.Minute)})
	if err != nil {
		t.Fatalf("BuildTreemap() error = %v", err)
	}
	nodes := flatten(root)

	if _, ok := nodes["c2"]; ok {
		t.Error("empty unvisited c2 should be omitted")
	}
	if nodes["c1"].Status != Green {
		t.Errorf("c1 = %s, want green", nodes["c1"].Status)
	}
	if nodes["l1"].Status != Grey {
		t.Errorf("l1 = %s, want grey while c2 is unchecked", nodes["l1"].Status)
	}
	if len(nodes["l1"].Children) != 1 {
		t.Errorf("l1 children = %d, want 1", len(nodes["l1"].Children))
	}
}
