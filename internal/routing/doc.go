// Package routing computes walking paths and multi-stop routes over the
// location connection graph.
//
// The graph is directed and weighted by travel time in seconds. A stored
// connection flagged bidirectional is expanded into two adjacency entries
// when the graph is built; Dijkstra never special-cases direction.
//
// CalculateRoute orders stops by (building, floor, name) rather than solving
// a travelling-salesperson problem. Only ShortestPath and WalkingDirections
// are distance-optimal. Unreachable legs contribute zero cost and are
// reported in OptimizedRoute.Warnings.
package routing
