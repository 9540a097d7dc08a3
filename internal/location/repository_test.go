package location

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nerrad567/rollcall-core/internal/infrastructure/database"
	_ "github.com/nerrad567/rollcall-core/migrations"
)

// setupTestRepo opens a migrated SQLite database seeded with testHierarchy.
func setupTestRepo(t *testing.T) (*SQLiteRepository, *database.DB) {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Config{
		Path:        filepath.Join(t.TempDir(), "locations.db"),
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close() //nolint:errcheck // Test cleanup
	})
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	repo := NewSQLiteRepository(db.DB)
	for _, l := range testHierarchy() {
		if err := repo.CreateLocation(ctx, &l); err != nil {
			t.Fatalf("seeding %s: %v", l.ID, err)
		}
	}
	return repo, db
}

func TestSQLiteRepository_GetLocation(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	l, err := repo.GetLocation(ctx, "cell-201")
	if err != nil {
		t.Fatalf("GetLocation() error = %v", err)
	}
	want := Location{ID: "cell-201", Name: "Cell 201", Type: TypeCell, ParentID: strPtr("landing-2"), Capacity: 1, Building: "A", Floor: 2}
	if !reflect.DeepEqual(*l, want) {
		t.Errorf("GetLocation() = %+v, want %+v", *l, want)
	}

	root, err := repo.GetLocation(ctx, "prison")
	if err != nil {
		t.Fatalf("GetLocation(prison) error = %v", err)
	}
	if !root.IsRoot() {
		t.Error("prison should be a root")
	}

	if _, err := repo.GetLocation(ctx, "nope"); !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("GetLocation(nope) error = %v, want ErrLocationNotFound", err)
	}
}

func TestSQLiteRepository_Hierarchy(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	children, err := repo.GetChildren(ctx, "prison")
	if err != nil {
		t.Fatalf("GetChildren() error = %v", err)
	}
	if got := ids(children); !reflect.DeepEqual(got, []string{"hcc", "wing-a"}) {
		t.Errorf("GetChildren(prison) = %v, want [hcc wing-a] (name order)", got)
	}

	cells, err := repo.GetDescendants(ctx, "wing-a", TypeCell)
	if err != nil {
		t.Fatalf("GetDescendants() error = %v", err)
	}
	if len(cells) != 4 {
		t.Errorf("GetDescendants(wing-a, cell) = %v, want 4 cells", ids(cells))
	}

	all, err := repo.ListLocations(ctx)
	if err != nil {
		t.Fatalf("ListLocations() error = %v", err)
	}
	if len(all) != len(testHierarchy()) {
		t.Errorf("ListLocations() = %d, want %d", len(all), len(testHierarchy()))
	}
}

func TestSQLiteRepository_Connections(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	conns := []Connection{
		{FromID: "cell-101", ToID: "cell-102", DistanceMeters: 4.5, TravelTimeSeconds: 5, ConnectionType: "corridor", IsBidirectional: true},
		{FromID: "cell-102", ToID: "cell-201", DistanceMeters: 12, TravelTimeSeconds: 30, ConnectionType: "stairwell", RequiresEscort: true},
	}
	for i := range conns {
		if err := repo.CreateConnection(ctx, &conns[i]); err != nil {
			t.Fatalf("CreateConnection() error = %v", err)
		}
	}

	got, err := repo.ListConnections(ctx)
	if err != nil {
		t.Fatalf("ListConnections() error = %v", err)
	}
	if !reflect.DeepEqual(got, conns) {
		t.Errorf("ListConnections() = %+v, want %+v", got, conns)
	}

	from, err := repo.ConnectionsFrom(ctx, "cell-102")
	if err != nil {
		t.Fatalf("ConnectionsFrom() error = %v", err)
	}
	if len(from) != 1 || !from[0].RequiresEscort {
		t.Errorf("ConnectionsFrom(cell-102) = %+v", from)
	}

	if err := repo.CreateConnection(ctx, &Connection{FromID: "cell-101", ToID: "ghost"}); !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("CreateConnection(ghost) error = %v, want ErrLocationNotFound", err)
	}
}

func TestSQLiteRepository_CreateLocationValidation(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	err := repo.CreateLocation(ctx, &Location{ID: "x", Name: "", Type: TypeCell, Capacity: 1})
	if !errors.Is(err, ErrInvalidName) {
		t.Errorf("error = %v, want ErrInvalidName", err)
	}

	err = repo.CreateLocation(ctx, &Location{ID: "x", Name: "X", Type: TypeCell, ParentID: strPtr("ghost"), Capacity: 1})
	if !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("error = %v, want ErrLocationNotFound", err)
	}
}

func TestSQLiteRepository_Unavailable(t *testing.T) {
	repo, db := setupTestRepo(t)
	db.Close() //nolint:errcheck // closing early to force failures

	_, err := repo.ListLocations(context.Background())
	if !errors.Is(err, database.ErrUnavailable) {
		t.Errorf("ListLocations() on closed db = %v, want ErrUnavailable", err)
	}
	_, err = repo.GetLocation(context.Background(), "prison")
	if !errors.Is(err, database.ErrUnavailable) {
		t.Errorf("GetLocation() on closed db = %v, want ErrUnavailable", err)
	}
}
