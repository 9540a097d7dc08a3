package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/rollcall-core/internal/location"
)

// handleListLocations returns the whole hierarchy, optionally filtered by type.
func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := s.locations.ListLocations(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if t := r.URL.Query().Get("type"); t != "" {
		filtered := make([]location.Location, 0, len(locs))
		for _, l := range locs {
			if string(l.Type) == t {
				filtered = append(filtered, l)
			}
		}
		locs = filtered
	}
	writeJSON(w, http.StatusOK, map[string]any{"locations": locs, "count": len(locs)})
}

// handleGetLocation returns one location with its direct children.
func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	loc, err := s.locations.GetLocation(ctx, id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	children, err := s.locations.GetChildren(ctx, id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	idx, err := location.LoadIndex(ctx, s.locations)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"location":   loc,
		"children":   children,
		"breadcrumb": breadcrumb(idx.Ancestors(id)),
	})
}

// breadcrumb orders a nearest-first ancestor chain from the root down.
func breadcrumb(ancestors []location.Location) []location.Location {
	out := make([]location.Location, len(ancestors))
	for i, a := range ancestors {
		out[len(ancestors)-1-i] = a
	}
	return out
}

// handleExpectedOccupants lists who should be under a location at ?at=.
func (s *Server) handleExpectedOccupants(w http.ResponseWriter, r *http.Request) {
	at, err := s.queryTime(r, "at")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	occupants, err := s.generator.ExpectedOccupants(r.Context(), id, at)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"location_id": id,
		"at":          at,
		"occupants":   occupants,
		"count":       len(occupants),
	})
}

type countsRequest struct {
	LocationIDs []string   `json:"location_ids"`
	At          *time.Time `json:"at"`
}

// handleOccupancyCounts returns expected counts for many locations at once.
func (s *Server) handleOccupancyCounts(w http.ResponseWriter, r *http.Request) {
	var req countsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if len(req.LocationIDs) == 0 {
		writeBadRequest(w, "location_ids is required")
		return
	}

	at := s.orNow(req.At)
	counts, err := s.generator.BatchExpectedCounts(r.Context(), req.LocationIDs, at)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"at": at, "counts": counts})
}
