package server

import (
	"net/http"
	"time"

	"github.com/alfredjeanlab/tempo/internal/streak"
)

// handleGetStreak handles GET /v1/users/{id}/streak.
func (s *TempoServer) handleGetStreak(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	entries, err := s.store.GetStreakSource(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load streak source")
		return
	}

	writeJSON(w, http.StatusOK, streak.Calculate(entries, userID, time.Now().UTC()))
}
