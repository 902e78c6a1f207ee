package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alfredjeanlab/tempo/internal/events"
	"github.com/alfredjeanlab/tempo/internal/idgen"
	"github.com/alfredjeanlab/tempo/internal/model"
	"github.com/alfredjeanlab/tempo/internal/store"
)

type createRunInput struct {
	UserID      string                     `json:"user_id"`
	Preferences *model.PomodoroPreferences `json:"preferences"`
}

// handleCreateRun handles POST /v1/pomodoro/runs. When the body carries no
// preferences, the user's stored preferences (or the defaults) apply.
func (s *TempoServer) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var in createRunInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var prefs model.PomodoroPreferences
	if in.Preferences != nil {
		prefs = *in.Preferences
	} else {
		var err error
		prefs, err = s.store.GetPomodoroPreferences(r.Context(), in.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load preferences")
			return
		}
	}
	if err := model.ValidatePomodoroPreferences(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := idgen.GenerateWithPrefix("tp-")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	run := &model.PomodoroRun{
		ID:          id,
		UserID:      in.UserID,
		Preferences: prefs,
		StartedAt:   time.Now().UTC(),
	}
	if err := s.store.CreatePomodoroRun(r.Context(), run); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create pomodoro run")
		return
	}

	s.publish(r.Context(), events.TopicPomodoroStarted, events.PomodoroStarted{Run: run})

	writeJSON(w, http.StatusCreated, run)
}

// handleGetRun handles GET /v1/pomodoro/runs/{id}. The response carries the
// run and its completed phase records.
func (s *TempoServer) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	run, err := s.store.GetPomodoroRun(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "pomodoro run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get pomodoro run")
		return
	}

	records, err := s.store.GetPhaseRecords(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get phase records")
		return
	}
	if records == nil {
		records = []*model.PhaseRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run":    run,
		"phases": records,
	})
}

type completePhaseInput struct {
	Phase string    `json:"phase"`
	Cycle int       `json:"cycle"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// handleCompletePhase handles POST /v1/pomodoro/runs/{id}/phases. Work
// phases also produce a time entry in the same transaction, so a crash
// between the two writes cannot leave a completed phase untracked.
func (s *TempoServer) handleCompletePhase(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")

	var in completePhaseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	phase := model.Phase(in.Phase)
	if !phase.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid phase")
		return
	}
	if in.Start.IsZero() || in.End.IsZero() || in.End.Before(in.Start) {
		writeError(w, http.StatusBadRequest, "invalid phase window")
		return
	}

	run, err := s.store.GetPomodoroRun(r.Context(), runID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "pomodoro run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get pomodoro run")
		return
	}

	rec := &model.PhaseRecord{
		RunID: runID,
		Phase: phase,
		Cycle: in.Cycle,
		Start: in.Start,
		End:   in.End,
	}

	// Completed work phases produce a time entry alongside the phase
	// record; committing both in one transaction keeps them consistent.
	var entry *model.TimeEntry
	err = s.store.RunInTransaction(r.Context(), func(tx store.Store) error {
		if err := tx.CompletePomodoroPhase(r.Context(), rec); err != nil {
			return err
		}
		if phase != model.PhaseWork {
			return nil
		}
		id, err := idgen.GenerateWithPrefix("te-")
		if err != nil {
			return err
		}
		entry = &model.TimeEntry{
			ID:              id,
			UserID:          run.UserID,
			Start:           rec.Start,
			End:             rec.End,
			Duration:        int64(rec.End.Sub(rec.Start) / time.Second),
			DistractionFree: true,
			Source:          model.SourcePomodoro,
			PomodoroRunID:   runID,
			PomodoroCycle:   rec.Cycle,
		}
		return tx.CreateTimeEntry(r.Context(), entry)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record phase completion")
		return
	}

	s.publish(r.Context(), events.TopicPomodoroPhaseCompleted, events.PomodoroPhaseCompleted{Record: rec})
	if entry != nil {
		s.publish(r.Context(), events.TopicEntryCreated, events.EntryCreated{Entry: entry})
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"record": rec,
		"entry":  entry,
	})
}

type cancelRunInput struct {
	PartialWork *model.PartialWork `json:"partial_work"`
}

// handleCancelRun handles POST /v1/pomodoro/runs/{id}/cancel. A partial
// work fragment, when present, is logged as a pomodoro time entry.
func (s *TempoServer) handleCancelRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")

	var in cancelRunInput
	// An empty body means no partial work.
	_ = json.NewDecoder(r.Body).Decode(&in)

	run, err := s.store.GetPomodoroRun(r.Context(), runID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "pomodoro run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get pomodoro run")
		return
	}

	var entry *model.TimeEntry
	err = s.store.RunInTransaction(r.Context(), func(tx store.Store) error {
		if err := tx.CancelPomodoroRun(r.Context(), runID, in.PartialWork); err != nil {
			return err
		}
		if in.PartialWork == nil {
			return nil
		}
		id, err := idgen.GenerateWithPrefix("te-")
		if err != nil {
			return err
		}
		entry = &model.TimeEntry{
			ID:              id,
			UserID:          run.UserID,
			Start:           in.PartialWork.Start,
			End:             in.PartialWork.End,
			Duration:        int64(in.PartialWork.End.Sub(in.PartialWork.Start) / time.Second),
			DistractionFree: true,
			Source:          model.SourcePomodoro,
			PomodoroRunID:   runID,
		}
		return tx.CreateTimeEntry(r.Context(), entry)
	})
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusConflict, "pomodoro run already ended")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to cancel pomodoro run")
		return
	}

	s.publish(r.Context(), events.TopicPomodoroCancelled, events.PomodoroCancelled{
		RunID:       runID,
		PartialWork: in.PartialWork,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id": runID,
		"entry":  entry,
	})
}

// handleGetPreferences handles GET /v1/users/{id}/preferences.
func (s *TempoServer) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	prefs, err := s.store.GetPomodoroPreferences(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get preferences")
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

// handleUpdatePreferences handles PUT /v1/users/{id}/preferences.
func (s *TempoServer) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	var prefs model.PomodoroPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := model.ValidatePomodoroPreferences(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdatePomodoroPreferences(r.Context(), userID, prefs); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update preferences")
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}
