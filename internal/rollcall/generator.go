package rollcall

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/rollcall-core/internal/location"
	"github.com/nerrad567/rollcall-core/internal/occupancy"
	"github.com/nerrad567/rollcall-core/internal/routing"
)

// Logger defines the logging interface used by the Generator and Planner.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// OccupancyResolver is the subset of occupancy.Resolver the generator uses.
type OccupancyResolver interface {
	ExpectedOccupants(ctx context.Context, locationID string, at time.Time) ([]occupancy.ExpectedOccupant, error)
	BatchExpectedCounts(ctx context.Context, locationIDs []string, at time.Time) (map[string]int, error)
}

// RouteCalculator is the subset of routing.Router the generator uses.
type RouteCalculator interface {
	CalculateRoute(ctx context.Context, ids []string) (*routing.OptimizedRoute, error)
}

// Request selects the locations to cover. LocationIDs may mix hierarchy levels.
type Request struct {
	LocationIDs  []string  `json:"location_ids"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	IncludeEmpty bool      `json:"include_empty"`
}

// GeneratedStop is one planned cell visit.
type GeneratedStop struct {
	LocationID            string                     `json:"location_id"`
	Name                  string                     `json:"name"`
	Type                  location.Type              `json:"type"`
	Building              string                     `json:"building"`
	Floor                 int                        `json:"floor"`
	Order                 int                        `json:"order"`
	Occupied              bool                       `json:"occupied"`
	ExpectedCount         int                        `json:"expected_count"`
	WalkingDistanceMeters float64                    `json:"walking_distance_meters"`
	WalkingTimeSeconds    int                        `json:"walking_time_seconds"`
	Walking               *routing.WalkingDirections `json:"walking_from_previous,omitempty"`
}

// Summary rolls up a generated route.
type Summary struct {
	TotalLocations           int     `json:"total_locations"`
	OccupiedLocations        int     `json:"occupied_locations"`
	EmptyLocations           int     `json:"empty_locations"`
	TotalOccupantsExpected   int     `json:"total_occupants_expected"`
	WalkingDistanceMeters    float64 `json:"walking_distance_meters"`
	WalkingTimeSeconds       int     `json:"walking_time_seconds"`
	EstimatedDurationSeconds int     `json:"estimated_duration_seconds"`
}

// GeneratedRollCall is a route ready to be reviewed or persisted.
type GeneratedRollCall struct {
	ScheduledAt time.Time         `json:"scheduled_at"`
	Stops       []GeneratedStop   `json:"stops"`
	Summary     Summary           `json:"summary"`
	Warnings    []routing.Warning `json:"warnings,omitempty"`
}

// CellIDs returns the stop location IDs in route order.
func (g *GeneratedRollCall) CellIDs() []string {
	ids := make([]string, 0, len(g.Stops))
	for _, s := range g.Stops {
		ids = append(ids, s.LocationID)
	}
	return ids
}

// Generator builds roll call routes.
type Generator struct {
	locations location.Reader
	occupancy OccupancyResolver
	router    RouteCalculator
	policy    Policy
	logger    Logger
}

// NewGenerator creates a Generator.
func NewGenerator(locations location.Reader, occ OccupancyResolver, router RouteCalculator, policy Policy) *Generator {
	return &Generator{
		locations: locations,
		occupancy: occ,
		router:    router,
		policy:    policy,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for the generator.
func (g *Generator) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	g.logger = logger
}

// GenerateRollCall expands the selection into cells, counts who should be
// in each at ScheduledAt, and orders the visit.
func (g *Generator) GenerateRollCall(ctx context.Context, req Request) (*GeneratedRollCall, error) {
	if len(req.LocationIDs) == 0 {
		return nil, fmt.Errorf("%w: location_ids cannot be empty", ErrInvalidInput)
	}

	cells, err := g.ExpandCells(ctx, req.LocationIDs)
	if err != nil {
		return nil, err
	}

	counts, err := g.occupancy.BatchExpectedCounts(ctx, cells, req.ScheduledAt)
	if err != nil {
		return nil, fmt.Errorf("counting expected occupants: %w", err)
	}

	routed := cells
	if !req.IncludeEmpty {
		routed = make([]string, 0, len(cells))
		for _, id := range cells {
			if counts[id] > 0 {
				routed = append(routed, id)
			}
		}
	}

	route, err := g.router.CalculateRoute(ctx, routed)
	if err != nil {
		return nil, fmt.Errorf("calculating route: %w", err)
	}

	out := &GeneratedRollCall{
		ScheduledAt: req.ScheduledAt,
		Stops:       make([]GeneratedStop, 0, len(route.Stops)),
		Warnings:    route.Warnings,
	}
	for _, sp := range route.Stops {
		n := counts[sp.LocationID]
		stop := GeneratedStop{
			LocationID:    sp.LocationID,
			Name:          sp.Location.Name,
			Type:          sp.Location.Type,
			Building:      sp.Location.Building,
			Floor:         sp.Location.Floor,
			Order:         sp.Order,
			Occupied:      n > 0,
			ExpectedCount: n,
			Walking:       sp.Walking,
		}
		if sp.Walking != nil {
			stop.WalkingDistanceMeters = sp.Walking.DistanceMeters
			stop.WalkingTimeSeconds = sp.Walking.TimeSeconds
		}
		out.Stops = append(out.Stops, stop)

		out.Summary.TotalLocations++
		if n > 0 {
			out.Summary.OccupiedLocations++
		} else {
			out.Summary.EmptyLocations++
		}
		out.Summary.TotalOccupantsExpected += n
	}
	out.Summary.WalkingDistanceMeters = route.TotalDistanceMeters
	out.Summary.WalkingTimeSeconds = route.TotalTimeSeconds
	out.Summary.EstimatedDurationSeconds = route.TotalTimeSeconds +
		g.policy.VerificationSecondsPerOccupant*out.Summary.TotalOccupantsExpected

	g.logger.Debug("roll call generated",
		"requested", len(req.LocationIDs),
		"cells", len(cells),
		"stops", len(out.Stops),
		"occupants", out.Summary.TotalOccupantsExpected,
	)
	return out, nil
}

// ExpandCells resolves a mixed selection to leaf cells, deduplicated and in
// first-seen order. A wing and one of its own landings yield the wing's cells
// once.
func (g *Generator) ExpandCells(ctx context.Context, ids []string) ([]string, error) {
	seenInput := make(map[string]bool, len(ids))
	seenCell := make(map[string]bool)
	var cells []string

	add := func(id string) {
		if !seenCell[id] {
			seenCell[id] = true
			cells = append(cells, id)
		}
	}

	for _, id := range ids {
		if seenInput[id] {
			continue
		}
		seenInput[id] = true

		loc, err := g.locations.GetLocation(ctx, id)
		if err != nil {
			if errors.Is(err, location.ErrLocationNotFound) {
				return nil, fmt.Errorf("location %s: %w", id, location.ErrLocationNotFound)
			}
			return nil, err
		}

		if g.policy.IsLeaf(loc.Type) {
			add(loc.ID)
			continue
		}

		leaves, err := g.locations.GetDescendants(ctx, id, g.policy.LeafTypes...)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", id, err)
		}
		for _, l := range leaves {
			add(l.ID)
		}
	}

	if len(cells) == 0 {
		return nil, ErrNoCellsFound
	}
	return cells, nil
}

// ExpectedOccupants passes through to the occupancy resolver.
func (g *Generator) ExpectedOccupants(ctx context.Context, locationID string, at time.Time) ([]occupancy.ExpectedOccupant, error) {
	return g.occupancy.ExpectedOccupants(ctx, locationID, at)
}

// BatchExpectedCounts passes through to the occupancy resolver.
func (g *Generator) BatchExpectedCounts(ctx context.Context, locationIDs []string, at time.Time) (map[string]int, error) {
	return g.occupancy.BatchExpectedCounts(ctx, locationIDs, at)
}
