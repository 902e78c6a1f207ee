package timer

import (
	"time"

	"github.com/alfredjeanlab/tempo/internal/idgen"
	"github.com/alfredjeanlab/tempo/internal/model"
)

// CreateTimer appends a new idle countdown instance and makes it the
// displayed one. It refuses, with no state change and no error, once
// MaxCountdownTimers instances exist; callers check the count before
// offering the action.
func (s *Store) CreateTimer(name string, durationSeconds int64, a model.Assignment) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.state.Timers) >= MaxCountdownTimers || durationSeconds <= 0 {
		return "", false
	}
	id, err := idgen.GenerateWithPrefix("tmr-")
	if err != nil {
		return "", false
	}
	s.state.Timers = append(s.state.Timers, &CountdownTimer{
		ID:         id,
		Name:       name,
		Duration:   durationSeconds,
		Status:     StateIdle,
		Assignment: a,
	})
	s.state.ActiveTimerID = id
	s.persistLocked()
	return id, true
}

// StartTimer starts (or restarts) the instance counting down its full
// duration and surfaces it as the displayed timer.
func (s *Store) StartTimer(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findTimerLocked(id)
	if t == nil {
		return false
	}
	now := s.clock.Now()
	t.Status = StateRunning
	t.StartedAt = timePtr(now)
	t.PausedAt = nil
	t.PausedElapsed = 0
	t.EndsAt = timePtr(now.Add(time.Duration(t.Duration) * time.Second))
	s.state.ActiveTimerID = id
	s.persistLocked()
	return true
}

// PauseTimer freezes the countdown. No-op unless the instance is running.
func (s *Store) PauseTimer(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findTimerLocked(id)
	if t == nil || t.Status != StateRunning || t.StartedAt == nil {
		return false
	}
	now := s.clock.Now()
	t.PausedElapsed = flooredSeconds(now.Sub(*t.StartedAt))
	t.PausedAt = timePtr(now)
	t.Status = StatePaused
	s.persistLocked()
	return true
}

// ResumeTimer continues the countdown against the remaining duration,
// using the stopwatch's virtual-start bookkeeping. No-op unless paused.
func (s *Store) ResumeTimer(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findTimerLocked(id)
	if t == nil || t.Status != StatePaused {
		return false
	}
	now := s.clock.Now()
	t.StartedAt = timePtr(now.Add(-time.Duration(t.PausedElapsed) * time.Second))
	t.EndsAt = timePtr(now.Add(time.Duration(t.Duration-t.PausedElapsed) * time.Second))
	t.PausedAt = nil
	t.Status = StateRunning
	s.persistLocked()
	return true
}

// StopTimer returns the finalized instance snapshot and resets it to idle.
// The instance is kept, ready to run again; DeleteTimer removes it.
func (s *Store) StopTimer(id string) (CountdownSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findTimerLocked(id)
	if t == nil {
		return CountdownSnapshot{}, false
	}
	now := s.clock.Now()

	snap := CountdownSnapshot{
		ID:         t.ID,
		Name:       t.Name,
		Duration:   t.Duration,
		StoppedAt:  now,
		Elapsed:    t.Elapsed(now),
		Assignment: t.Assignment,
	}
	if t.StartedAt != nil {
		snap.StartedAt = *t.StartedAt
	}
	if t.Status == StatePaused && t.PausedAt != nil {
		snap.StoppedAt = *t.PausedAt
	}
	if snap.Elapsed > t.Duration {
		snap.Elapsed = t.Duration
	}

	t.Status = StateIdle
	t.StartedAt = nil
	t.PausedAt = nil
	t.EndsAt = nil
	t.PausedElapsed = 0
	s.persistLocked()
	return snap, true
}

// DeleteTimer removes the instance from the collection, clearing the
// displayed-timer pointer when it referenced the deleted instance.
func (s *Store) DeleteTimer(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.state.Timers {
		if t.ID == id {
			s.state.Timers = append(s.state.Timers[:i], s.state.Timers[i+1:]...)
			if s.state.ActiveTimerID == id {
				s.state.ActiveTimerID = ""
			}
			s.persistLocked()
			return true
		}
	}
	return false
}

// SetActiveTimer changes which instance the display surfaces. It has no
// bearing on whether any instance is running.
func (s *Store) SetActiveTimer(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findTimerLocked(id) == nil {
		return false
	}
	s.state.ActiveTimerID = id
	s.persistLocked()
	return true
}

func (s *Store) findTimerLocked(id string) *CountdownTimer {
	for _, t := range s.state.Timers {
		if t.ID == id {
			return t
		}
	}
	return nil
}
