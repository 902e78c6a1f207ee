package server

import (
	"encoding/json"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *TempoServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/entries", s.handleCreateEntry)
	mux.HandleFunc("GET /v1/entries", s.handleListEntries)
	mux.HandleFunc("GET /v1/entries/{id}", s.handleGetEntry)
	mux.HandleFunc("DELETE /v1/entries/{id}", s.handleDeleteEntry)
	mux.HandleFunc("POST /v1/pomodoro/runs", s.handleCreateRun)
	mux.HandleFunc("GET /v1/pomodoro/runs/{id}", s.handleGetRun)
	mux.HandleFunc("POST /v1/pomodoro/runs/{id}/phases", s.handleCompletePhase)
	mux.HandleFunc("POST /v1/pomodoro/runs/{id}/cancel", s.handleCancelRun)
	mux.HandleFunc("GET /v1/users/{id}/preferences", s.handleGetPreferences)
	mux.HandleFunc("PUT /v1/users/{id}/preferences", s.handleUpdatePreferences)
	mux.HandleFunc("GET /v1/users/{id}/streak", s.handleGetStreak)
	mux.HandleFunc("POST /v1/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /v1/tasks", s.handleListTasks)
	mux.HandleFunc("GET /v1/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PATCH /v1/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("POST /v1/events", s.handleCreateEvent)
	mux.HandleFunc("GET /v1/events", s.handleListEvents)
	mux.HandleFunc("GET /v1/events/{id}", s.handleGetEvent)
	mux.HandleFunc("POST /v1/boards", s.handleCreateBoard)
	mux.HandleFunc("GET /v1/boards", s.handleListBoards)
	mux.HandleFunc("GET /v1/boards/{id}", s.handleGetBoard)
	mux.HandleFunc("DELETE /v1/boards/{id}", s.handleDeleteBoard)
	mux.HandleFunc("POST /v1/boards/{id}/nodes", s.handleAddNode)
	mux.HandleFunc("DELETE /v1/boards/{id}/nodes/{node_id}", s.handleRemoveNode)
	mux.HandleFunc("POST /v1/boards/{id}/edges", s.handleAddEdge)
	mux.HandleFunc("DELETE /v1/boards/{id}/edges/{edge_id}", s.handleRemoveEdge)
	mux.HandleFunc("GET /v1/boards/{id}/validate", s.handleValidateBoard)
	mux.HandleFunc("GET /v1/boards/{id}/order", s.handleBoardOrder)
	mux.HandleFunc("GET /v1/boards/{id}/statuses", s.handleBoardStatuses)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return AuthMiddleware(authToken, RecoveryMiddleware(mux))
}

// handleHealth handles GET /v1/health.
func (s *TempoServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
