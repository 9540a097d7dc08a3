package routing

import (
	"context"
	"errors"
	"sort"

	"github.com/nerrad567/rollcall-core/internal/location"
)

// Logger defines the logging interface used by the Router.
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

// Router answers path and route queries against a location Reader.
// Each call reads a fresh snapshot; no state is shared between calls.
type Router struct {
	locations location.Reader
	logger    Logger
}

// NewRouter creates a Router over r.
func NewRouter(r location.Reader) *Router {
	return &Router{locations: r, logger: noopLogger{}}
}

// SetLogger sets the logger for the router.
func (r *Router) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.logger = logger
}

// StopPlan is one stop of an optimized route. Walking is nil for the first
// stop and for legs with no path.
type StopPlan struct {
	LocationID string             `json:"location_id"`
	Order      int                `json:"order"`
	Location   location.Location  `json:"location"`
	Walking    *WalkingDirections `json:"walking_from_previous,omitempty"`
}

// Warning flags a leg that could not be walked.
type Warning struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
	Reason string `json:"reason"`
}

// OptimizedRoute is the ordered result of CalculateRoute.
type OptimizedRoute struct {
	Stops               []StopPlan `json:"stops"`
	TotalDistanceMeters float64    `json:"total_distance_meters"`
	TotalTimeSeconds    int        `json:"total_time_seconds"`
	Warnings            []Warning  `json:"warnings,omitempty"`
}

// ShortestPath loads the graph and runs Dijkstra. A nil path means end is
// unreachable from start.
func (r *Router) ShortestPath(ctx context.Context, start, end string) ([]string, error) {
	g, err := BuildGraph(ctx, r.locations)
	if err != nil {
		return nil, err
	}
	return g.ShortestPath(start, end), nil
}

// WalkingDirections loads the graph and describes the walk from -> to.
func (r *Router) WalkingDirections(ctx context.Context, from, to string) (*WalkingDirections, error) {
	g, err := BuildGraph(ctx, r.locations)
	if err != nil {
		return nil, err
	}
	return g.WalkingDirections(from, to), nil
}

// CalculateRoute orders the given locations by (building, floor, name) and
// costs each consecutive leg. Duplicate and unknown ids are dropped. Input
// order never affects the result.
func (r *Router) CalculateRoute(ctx context.Context, ids []string) (*OptimizedRoute, error) {
	route := &OptimizedRoute{Stops: []StopPlan{}}
	if len(ids) == 0 {
		return route, nil
	}

	seen := make(map[string]bool, len(ids))
	locs := make([]location.Location, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		l, err := r.locations.GetLocation(ctx, id)
		if errors.Is(err, location.ErrLocationNotFound) {
			r.logger.Debug("route stop skipped", "location_id", id, "reason", "not found")
			continue
		}
		if err != nil {
			return nil, err
		}
		locs = append(locs, *l)
	}
	if len(locs) == 0 {
		return route, nil
	}

	SortStops(locs)

	g, err := BuildGraph(ctx, r.locations)
	if err != nil {
		return nil, err
	}

	for i, l := range locs {
		stop := StopPlan{LocationID: l.ID, Order: i, Location: l}
		if i > 0 {
			prev := locs[i-1].ID
			wd := g.WalkingDirections(prev, l.ID)
			if wd == nil {
				route.Warnings = append(route.Warnings, Warning{
					FromID: prev, ToID: l.ID, Reason: ErrUnreachable.Error(),
				})
				r.logger.Warn("route leg unreachable, counted as zero cost",
					"from_id", prev, "to_id", l.ID)
			} else {
				stop.Walking = wd
				route.TotalDistanceMeters += wd.DistanceMeters
				route.TotalTimeSeconds += wd.TimeSeconds
			}
		}
		route.Stops = append(route.Stops, stop)
	}
	return route, nil
}

// SortStops orders locations by building, floor, name, then id so equal
// keys still sort deterministically.
func SortStops(locs []location.Location) {
	sort.Slice(locs, func(i, j int) bool {
		a, b := locs[i], locs[j]
		if a.Building != b.Building {
			return a.Building < b.Building
		}
		if a.Floor != b.Floor {
			return a.Floor < b.Floor
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}
