package routing

import "errors"

// ErrUnreachable marks a route leg with no connecting path. CalculateRoute
// reports it as a warning; ShortestPath and WalkingDirections return nil.
var ErrUnreachable = errors.New("no walking path between locations")
