package api

import (
	"net/http"

	"github.com/nerrad567/rollcall-core/internal/status"
)

// handleTreemap folds roll-call status over the hierarchy. roll_call_id may
// repeat; unknown ids are ignored.
func (s *Server) handleTreemap(w http.ResponseWriter, r *http.Request) {
	at, err := s.queryTime(r, "at")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	includeEmpty, err := queryBool(r, "include_empty")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	details, err := queryBool(r, "details")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	tree, err := s.aggregator.BuildTreemap(r.Context(), status.Query{
		RollCallIDs:  r.URL.Query()["roll_call_id"],
		At:           at,
		IncludeEmpty: includeEmpty,
		Details:      details,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}
