package timer

import (
	"time"

	"github.com/alfredjeanlab/tempo/internal/model"
)

// StartStopwatch begins counting up from zero with the given assignment.
// Calling it while the stopwatch is already running restarts it: elapsed
// drops back to zero with no guard. That matches the long-standing
// behavior callers rely on; treat a double start as an explicit restart.
func (s *Store) StartStopwatch(a model.Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	s.state.Stopwatch = StopwatchState{
		Status:     StateRunning,
		StartedAt:  timePtr(now),
		Elapsed:    0,
		Assignment: a,
	}
	s.persistLocked()
}

// PauseStopwatch freezes the elapsed count. No-op unless running.
func (s *Store) PauseStopwatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	sw := &s.state.Stopwatch
	if sw.Status != StateRunning || sw.StartedAt == nil {
		return
	}
	now := s.clock.Now()
	sw.Elapsed = flooredSeconds(now.Sub(*sw.StartedAt))
	sw.Status = StatePaused
	sw.PausedAt = timePtr(now)
	s.persistLocked()
}

// ResumeStopwatch continues counting from the frozen elapsed value by
// recomputing a virtual start so wall-clock deltas keep accumulating.
// No-op unless paused.
func (s *Store) ResumeStopwatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	sw := &s.state.Stopwatch
	if sw.Status != StatePaused {
		return
	}
	now := s.clock.Now()
	virtualStart := now.Add(-time.Duration(sw.Elapsed) * time.Second)
	sw.StartedAt = timePtr(virtualStart)
	sw.PausedAt = nil
	sw.Status = StateRunning
	s.persistLocked()
}

// StopStopwatch returns the finalized session and resets the stopwatch to
// idle. The caller turns the snapshot into a time entry when Elapsed > 0.
func (s *Store) StopStopwatch() StopwatchSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	sw := s.state.Stopwatch
	now := s.clock.Now()

	snap := StopwatchSnapshot{
		StoppedAt:  now,
		Elapsed:    sw.Elapsed,
		Assignment: sw.Assignment,
	}
	if sw.StartedAt != nil {
		snap.StartedAt = *sw.StartedAt
	}
	if sw.Status == StateRunning && sw.StartedAt != nil {
		snap.Elapsed = flooredSeconds(now.Sub(*sw.StartedAt))
	}
	if sw.Status == StatePaused && sw.PausedAt != nil {
		snap.StoppedAt = *sw.PausedAt
	}

	s.state.Stopwatch = StopwatchState{Status: StateIdle}
	s.persistLocked()
	return snap
}

// StopwatchElapsed returns the live elapsed seconds at the given instant.
func (s *Store) StopwatchElapsed(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stopwatchElapsed(&s.state.Stopwatch, now)
}

func stopwatchElapsed(sw *StopwatchState, now time.Time) int64 {
	if sw.Status == StateRunning && sw.StartedAt != nil {
		return flooredSeconds(now.Sub(*sw.StartedAt))
	}
	return sw.Elapsed
}
