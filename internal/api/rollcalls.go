package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/rollcall-core/internal/rollcall"
)

type generateRequest struct {
	Name         string     `json:"name"`
	LocationIDs  []string   `json:"location_ids"`
	ScheduledAt  *time.Time `json:"scheduled_at"`
	IncludeEmpty bool       `json:"include_empty"`
}

// handleGenerateRollCall previews a route without storing it.
func (s *Server) handleGenerateRollCall(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	gen, err := s.generator.GenerateRollCall(r.Context(), rollcall.Request{
		LocationIDs:  req.LocationIDs,
		ScheduledAt:  s.orNow(req.ScheduledAt),
		IncludeEmpty: req.IncludeEmpty,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gen)
}

// handleCreateRollCall generates and stores a roll call.
func (s *Server) handleCreateRollCall(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.ScheduledAt == nil {
		writeBadRequest(w, "scheduled_at is required")
		return
	}

	rc, err := s.planner.CreateRollCall(r.Context(), rollcall.PlanRequest{
		Name:         req.Name,
		LocationIDs:  req.LocationIDs,
		ScheduledAt:  *req.ScheduledAt,
		IncludeEmpty: req.IncludeEmpty,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rc)
}

func (s *Server) handleListRollCalls(w http.ResponseWriter, r *http.Request) {
	list, err := s.planner.ListRollCalls(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"roll_calls": list, "count": len(list)})
}

func (s *Server) handleGetRollCall(w http.ResponseWriter, r *http.Request) {
	rc, err := s.planner.GetRollCall(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rc)
}

func (s *Server) handleListVerifications(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	list, err := s.planner.Verifications(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"roll_call_id": id, "verifications": list, "count": len(list)})
}

type verificationRequest struct {
	OccupantID string     `json:"occupant_id"`
	LocationID string     `json:"location_id"`
	Status     string     `json:"status"`
	Timestamp  *time.Time `json:"timestamp"`
}

// handleRecordVerification stores one externally produced outcome.
func (s *Server) handleRecordVerification(w http.ResponseWriter, r *http.Request) {
	var req verificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	v := rollcall.Verification{
		RollCallID: chi.URLParam(r, "id"),
		OccupantID: req.OccupantID,
		LocationID: req.LocationID,
		Status:     rollcall.VerificationStatus(req.Status),
		Timestamp:  s.orNow(req.Timestamp),
	}

	stored, err := s.planner.RecordVerification(r.Context(), v)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

type stopUpdateRequest struct {
	Status     string `json:"status"`
	SkipReason string `json:"skip_reason"`
}

// handleUpdateStop moves a route stop to a new status.
func (s *Server) handleUpdateStop(w http.ResponseWriter, r *http.Request) {
	var req stopUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	id := chi.URLParam(r, "id")
	err := s.planner.UpdateStopStatus(r.Context(), id, chi.URLParam(r, "stop_id"),
		rollcall.StopStatus(req.Status), req.SkipReason)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	rc, err := s.planner.GetRollCall(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rc)
}
