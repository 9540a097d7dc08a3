package routing

import (
	"fmt"
	"sort"
	"strings"
)

// Hop is one traversed connection.
type Hop struct {
	FromID         string  `json:"from_id"`
	ToID           string  `json:"to_id"`
	DistanceMeters float64 `json:"distance_meters"`
	TimeSeconds    int     `json:"time_seconds"`
	ConnectionType string  `json:"connection_type"`
	RequiresEscort bool    `json:"requires_escort"`
}

// WalkingDirections describes how to walk between two locations.
// ConnectionType is a single tag for a direct edge, or the sorted union of
// tags joined by ", " for a multi-hop path.
type WalkingDirections struct {
	DistanceMeters float64 `json:"distance_meters"`
	TimeSeconds    int     `json:"time_seconds"`
	ConnectionType string  `json:"connection_type"`
	Description    string  `json:"description"`
	Hops           []Hop   `json:"hops"`
	RequiresEscort bool    `json:"requires_escort"`
}

// WalkingDirections prefers a stored edge from -> to, then a bidirectional
// edge stored as to -> from, and finally the shortest path. It returns nil
// when no path exists. Walking to the same location returns a zero result.
func (g *Graph) WalkingDirections(from, to string) *WalkingDirections {
	if from == to {
		return &WalkingDirections{Description: "Same location", Hops: []Hop{}}
	}
	if e, ok := g.edge(from, to, false); ok {
		return direct(from, e)
	}
	if e, ok := g.edge(from, to, true); ok {
		return direct(from, e)
	}

	path, edges := g.shortestPath(from, to)
	if path == nil {
		return nil
	}

	wd := &WalkingDirections{Hops: make([]Hop, 0, len(edges))}
	types := make(map[string]bool)
	for i, e := range edges {
		h := hopFor(path[i], e)
		wd.Hops = append(wd.Hops, h)
		wd.DistanceMeters += h.DistanceMeters
		wd.TimeSeconds += h.TimeSeconds
		wd.RequiresEscort = wd.RequiresEscort || h.RequiresEscort
		if h.ConnectionType != "" {
			types[h.ConnectionType] = true
		}
	}

	names := make([]string, 0, len(types))
	for t := range types {
		names = append(names, t)
	}
	sort.Strings(names)
	wd.ConnectionType = strings.Join(names, ", ")
	wd.Description = fmt.Sprintf("%d hops via %s", len(edges), wd.ConnectionType)
	return wd
}

func direct(from string, e Edge) *WalkingDirections {
	h := hopFor(from, e)
	return &WalkingDirections{
		DistanceMeters: h.DistanceMeters,
		TimeSeconds:    h.TimeSeconds,
		ConnectionType: h.ConnectionType,
		Description:    "Direct " + h.ConnectionType,
		Hops:           []Hop{h},
		RequiresEscort: h.RequiresEscort,
	}
}

func hopFor(from string, e Edge) Hop {
	return Hop{
		FromID:         from,
		ToID:           e.To,
		DistanceMeters: e.Conn.DistanceMeters,
		TimeSeconds:    e.Conn.TravelTimeSeconds,
		ConnectionType: e.Conn.ConnectionType,
		RequiresEscort: e.Conn.RequiresEscort,
	}
}
