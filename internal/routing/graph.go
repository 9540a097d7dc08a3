package routing

import (
	"context"
	"fmt"

	"github.com/nerrad567/rollcall-core/internal/location"
)

// Edge is one adjacency entry. Reversed is true for the synthesised
// return direction of a bidirectional connection.
type Edge struct {
	To       string
	Weight   int
	Conn     location.Connection
	Reversed bool
}

// Graph is an adjacency view over a connection snapshot. It is immutable
// once built and safe for concurrent reads.
type Graph struct {
	adj map[string][]Edge
}

// NewGraph builds the adjacency map. Every connection yields a forward
// entry; bidirectional ones also yield the reverse at the same weight.
func NewGraph(conns []location.Connection) *Graph {
	g := &Graph{adj: make(map[string][]Edge)}
	for _, c := range conns {
		g.adj[c.FromID] = append(g.adj[c.FromID], Edge{
			To: c.ToID, Weight: c.TravelTimeSeconds, Conn: c,
		})
		if c.IsBidirectional {
			g.adj[c.ToID] = append(g.adj[c.ToID], Edge{
				To: c.FromID, Weight: c.TravelTimeSeconds, Conn: c, Reversed: true,
			})
		}
	}
	return g
}

// BuildGraph reads every connection once and builds a Graph.
func BuildGraph(ctx context.Context, r location.Reader) (*Graph, error) {
	conns, err := r.ListConnections(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading connections: %w", err)
	}
	return NewGraph(conns), nil
}

// edge returns the first adjacency entry from -> to matching reversed.
func (g *Graph) edge(from, to string, reversed bool) (Edge, bool) {
	for _, e := range g.adj[from] {
		if e.To == to && e.Reversed == reversed {
			return e, true
		}
	}
	return Edge{}, false
}
