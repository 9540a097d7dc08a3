package api

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", s.handleListLocations)
			r.Get("/{id}", s.handleGetLocation)
			r.Get("/{id}/expected-occupants", s.handleExpectedOccupants)
		})

		r.Post("/occupancy/counts", s.handleOccupancyCounts)

		r.Route("/routing", func(r chi.Router) {
			r.Get("/path", s.handleShortestPath)
			r.Get("/directions", s.handleWalkingDirections)
			r.Post("/route", s.handleCalculateRoute)
		})

		r.Route("/rollcalls", func(r chi.Router) {
			r.Post("/generate", s.handleGenerateRollCall)
			r.Get("/", s.handleListRollCalls)
			r.Post("/", s.handleCreateRollCall)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetRollCall)
				r.Get("/verifications", s.handleListVerifications)
				r.Post("/verifications", s.handleRecordVerification)
				r.Patch("/stops/{stop_id}", s.handleUpdateStop)
			})
		})

		r.Get("/treemap", s.handleTreemap)
	})

	return r
}

// handleHealth reports the server version and each registered component.
// Any failing component turns the response into a 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.health))
	for name := range s.health {
		names = append(names, name)
	}
	sort.Strings(names)

	code := http.StatusOK
	overall := "ok"
	components := make(map[string]string, len(names))
	for _, name := range names {
		if err := s.health[name].HealthCheck(r.Context()); err != nil {
			components[name] = err.Error()
			code = http.StatusServiceUnavailable
			overall = "degraded"
			continue
		}
		components[name] = "ok"
	}

	writeJSON(w, code, map[string]any{
		"status":     overall,
		"version":    s.version,
		"components": components,
	})
}
