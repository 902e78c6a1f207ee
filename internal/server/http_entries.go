package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alfredjeanlab/tempo/internal/events"
	"github.com/alfredjeanlab/tempo/internal/idgen"
	"github.com/alfredjeanlab/tempo/internal/model"
)

type createEntryInput struct {
	UserID          string    `json:"user_id"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Label           string    `json:"label"`
	TaskID          string    `json:"task_id"`
	EventID         string    `json:"event_id"`
	DistractionFree bool      `json:"distraction_free"`
	Source          string    `json:"source"`
	PomodoroRunID   string    `json:"pomodoro_run_id"`
	PomodoroCycle   int       `json:"pomodoro_cycle"`
}

// handleCreateEntry handles POST /v1/entries.
func (s *TempoServer) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var in createEntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := idgen.GenerateWithPrefix("te-")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	entry := &model.TimeEntry{
		ID:              id,
		UserID:          in.UserID,
		Start:           in.Start,
		End:             in.End,
		Duration:        int64(in.End.Sub(in.Start) / time.Second),
		Label:           in.Label,
		TaskID:          in.TaskID,
		EventID:         in.EventID,
		DistractionFree: in.DistractionFree,
		Source:          model.EntrySource(in.Source),
		PomodoroRunID:   in.PomodoroRunID,
		PomodoroCycle:   in.PomodoroCycle,
	}
	if err := model.ValidateTimeEntry(entry); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateTimeEntry(r.Context(), entry); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create time entry")
		return
	}

	s.publish(r.Context(), events.TopicEntryCreated, events.EntryCreated{Entry: entry})

	writeJSON(w, http.StatusCreated, entry)
}

// handleListEntries handles GET /v1/entries.
func (s *TempoServer) handleListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.EntryFilter{
		UserID:  q.Get("user_id"),
		TaskID:  q.Get("task_id"),
		EventID: q.Get("event_id"),
	}

	if v := q.Get("source"); v != "" {
		for _, src := range strings.Split(v, ",") {
			filter.Source = append(filter.Source, model.EntrySource(src))
		}
	}
	if v := q.Get("distraction_free"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.DistractionFree = &b
		}
	}
	if v := q.Get("since"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.Since = &t
		}
	}
	if v := q.Get("until"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.Until = &t
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	entries, total, err := s.store.ListTimeEntries(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list time entries")
		return
	}

	// Ensure entries is never null in JSON output.
	if entries == nil {
		entries = []*model.TimeEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   total,
	})
}

// handleGetEntry handles GET /v1/entries/{id}.
func (s *TempoServer) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	entry, err := s.store.GetTimeEntry(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "time entry not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get time entry")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// handleDeleteEntry handles DELETE /v1/entries/{id}.
func (s *TempoServer) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteTimeEntry(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "time entry not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete time entry")
		return
	}

	s.publish(r.Context(), events.TopicEntryDeleted, events.EntryDeleted{EntryID: id})

	w.WriteHeader(http.StatusNoContent)
}
