package api

import (
	"encoding/json"
	"net/http"
)

// pathEndpoints reads and checks ?from= and ?to=.
func pathEndpoints(w http.ResponseWriter, r *http.Request) (from, to string, ok bool) {
	from, to = r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeBadRequest(w, "from and to are required")
		return "", "", false
	}
	return from, to, true
}

// handleShortestPath returns the cheapest walk between two locations.
// An unreachable destination yields 200 with reachable=false.
func (s *Server) handleShortestPath(w http.ResponseWriter, r *http.Request) {
	from, to, ok := pathEndpoints(w, r)
	if !ok {
		return
	}

	path, err := s.router.ShortestPath(r.Context(), from, to)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"from":      from,
		"to":        to,
		"reachable": path != nil,
		"path":      path,
	})
}

// handleWalkingDirections describes the walk between two locations.
func (s *Server) handleWalkingDirections(w http.ResponseWriter, r *http.Request) {
	from, to, ok := pathEndpoints(w, r)
	if !ok {
		return
	}

	wd, err := s.router.WalkingDirections(r.Context(), from, to)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"from":       from,
		"to":         to,
		"reachable":  wd != nil,
		"directions": wd,
	})
}

type routeRequest struct {
	LocationIDs []string `json:"location_ids"`
}

// handleCalculateRoute orders and costs a set of stops.
func (s *Server) handleCalculateRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	route, err := s.router.CalculateRoute(r.Context(), req.LocationIDs)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}
