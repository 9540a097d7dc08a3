package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/rollcall-core/internal/infrastructure/database"
	"github.com/nerrad567/rollcall-core/internal/location"
	"github.com/nerrad567/rollcall-core/internal/rollcall"
	"github.com/nerrad567/rollcall-core/internal/schedule"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeNoCellsFound = "no_cells_found"
	ErrCodeUnavailable  = "unavailable"
	ErrCodeInternal     = "internal_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeDomainError maps domain errors onto HTTP responses. Unexpected
// errors are logged and hidden behind a generic 500.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, rollcall.ErrInvalidInput),
		errors.Is(err, location.ErrInvalidLocation),
		errors.Is(err, location.ErrInvalidName),
		errors.Is(err, location.ErrInvalidConnection),
		errors.Is(err, schedule.ErrInvalidEntry):
		writeBadRequest(w, err.Error())
	case errors.Is(err, location.ErrLocationNotFound),
		errors.Is(err, rollcall.ErrRollCallNotFound),
		errors.Is(err, rollcall.ErrStopNotFound),
		errors.Is(err, schedule.ErrOccupantNotFound):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, rollcall.ErrNoCellsFound):
		writeError(w, http.StatusUnprocessableEntity, ErrCodeNoCellsFound, err.Error())
	case errors.Is(err, database.ErrUnavailable):
		s.logger.Warn("storage unavailable",
			"path", r.URL.Path,
			"error", err,
			"request_id", requestIDFrom(r.Context()),
		)
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "storage unavailable")
	default:
		s.logger.Error("request failed",
			"path", r.URL.Path,
			"error", err,
			"request_id", requestIDFrom(r.Context()),
		)
		writeInternalError(w, "internal server error")
	}
}
