package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alfredjeanlab/tempo/internal/idgen"
	"github.com/alfredjeanlab/tempo/internal/model"
)

type createTaskInput struct {
	UserID   string     `json:"user_id"`
	Title    string     `json:"title"`
	Priority int        `json:"priority"`
	DueAt    *time.Time `json:"due_at"`
}

// handleCreateTask handles POST /v1/tasks.
func (s *TempoServer) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in createTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	id, err := idgen.GenerateWithPrefix("task-")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	task := &model.Task{
		ID:       id,
		UserID:   in.UserID,
		Title:    in.Title,
		Status:   model.TaskOpen,
		Priority: in.Priority,
		DueAt:    in.DueAt,
	}
	if err := s.store.CreateTask(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// handleListTasks handles GET /v1/tasks.
func (s *TempoServer) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []*model.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

// handleGetTask handles GET /v1/tasks/{id}.
func (s *TempoServer) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.GetTask(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type updateTaskInput struct {
	Title    *string    `json:"title"`
	Status   *string    `json:"status"`
	Priority *int       `json:"priority"`
	DueAt    *time.Time `json:"due_at"`
}

// handleUpdateTask handles PATCH /v1/tasks/{id}.
func (s *TempoServer) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in updateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	task, err := s.store.GetTask(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Status != nil {
		status := model.TaskStatus(*in.Status)
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		task.Status = status
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.DueAt != nil {
		task.DueAt = in.DueAt
	}

	if err := s.store.UpdateTask(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

type createEventInput struct {
	UserID   string    `json:"user_id"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	AllDay   bool      `json:"all_day"`
}

// handleCreateEvent handles POST /v1/events.
func (s *TempoServer) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var in createEventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if in.StartsAt.IsZero() || in.EndsAt.IsZero() || in.EndsAt.Before(in.StartsAt) {
		writeError(w, http.StatusBadRequest, "invalid event window")
		return
	}

	id, err := idgen.GenerateWithPrefix("ev-")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	event := &model.Event{
		ID:       id,
		UserID:   in.UserID,
		Title:    in.Title,
		StartsAt: in.StartsAt,
		EndsAt:   in.EndsAt,
		AllDay:   in.AllDay,
	}
	if err := s.store.CreateEvent(r.Context(), event); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// handleListEvents handles GET /v1/events.
func (s *TempoServer) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.ListEvents(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []*model.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// handleGetEvent handles GET /v1/events/{id}.
func (s *TempoServer) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.store.GetEvent(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	writeJSON(w, http.StatusOK, event)
}
