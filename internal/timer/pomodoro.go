package timer

import (
	"time"

	"github.com/alfredjeanlab/tempo/internal/model"
)

// minPartialWork is the least time into a work phase a cancel must happen
// before the fragment is worth logging.
const minPartialWork = 60 * time.Second

// StartPomodoro begins a new run at work phase, cycle 1. The runID
// correlates to the run record created by the persistence collaborator.
func (s *Store) StartPomodoro(runID string, prefs model.PomodoroPreferences, a model.Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	ends := now.Add(phaseDuration(prefs, model.PhaseWork))
	s.state.Pomodoro = PomodoroState{
		Status:         StateRunning,
		RunID:          runID,
		Phase:          model.PhaseWork,
		Cycle:          1,
		PhaseStartedAt: timePtr(now),
		PhaseEndsAt:    timePtr(ends),
		Assignment:     a,
		Preferences:    prefs,
	}
	s.persistLocked()
}

// PausePomodoro freezes the countdown at the pause instant. No-op unless
// running.
func (s *Store) PausePomodoro() {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &s.state.Pomodoro
	if p.Status != StateRunning {
		return
	}
	p.PausedAt = timePtr(s.clock.Now())
	p.Status = StatePaused
	s.persistLocked()
}

// ResumePomodoro shifts the phase deadline forward by the paused duration,
// so the remaining time is exactly what it was at the pause instant.
// No-op unless paused.
func (s *Store) ResumePomodoro() {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &s.state.Pomodoro
	if p.Status != StatePaused || p.PausedAt == nil {
		return
	}
	now := s.clock.Now()
	pausedFor := now.Sub(*p.PausedAt)
	if p.PhaseEndsAt != nil {
		shifted := p.PhaseEndsAt.Add(pausedFor)
		p.PhaseEndsAt = timePtr(shifted)
	}
	p.PausedElapsed += flooredSeconds(pausedFor)
	p.PausedAt = nil
	p.Status = StateRunning
	s.persistLocked()
}

// SkipPomodoroPhase moves straight to the next phase without producing a
// phase record. The skipped phase leaves no time-entry side effect.
func (s *Store) SkipPomodoroPhase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &s.state.Pomodoro
	if p.RunID == "" {
		return
	}
	phase, cycle := nextPhase(p.Phase, p.Cycle, p.Preferences)
	s.beginPhaseLocked(phase, cycle)
	s.persistLocked()
}

// CompletePomodoroPhase finalizes the current phase once its countdown has
// reached zero. It returns the completed phase's record for the caller to
// persist (only work phases become time entries), then either auto-starts
// the next phase or parks the run idle awaiting a manual start. The
// auto-start preference is chosen by the type of the phase that just
// completed: finishing work consults AutoStartNextPhase, finishing a break
// consults AutoStartNextWork.
//
// Calling this with no run in flight is a programmer error and returns
// ErrNoActivePhase.
func (s *Store) CompletePomodoroPhase() (model.PhaseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &s.state.Pomodoro
	if p.RunID == "" || p.PhaseStartedAt == nil {
		return model.PhaseRecord{}, ErrNoActivePhase
	}
	now := s.clock.Now()

	rec := model.PhaseRecord{
		RunID: p.RunID,
		Phase: p.Phase,
		Cycle: p.Cycle,
		Start: *p.PhaseStartedAt,
		End:   now,
	}

	autoStart := p.Preferences.AutoStartNextWork
	if p.Phase == model.PhaseWork {
		autoStart = p.Preferences.AutoStartNextPhase
	}

	phase, cycle := nextPhase(p.Phase, p.Cycle, p.Preferences)
	if autoStart {
		s.beginPhaseLocked(phase, cycle)
	} else {
		p.Phase = phase
		p.Cycle = cycle
		p.Status = StateIdle
		p.PhaseStartedAt = nil
		p.PhaseEndsAt = nil
		p.PausedAt = nil
		p.PausedElapsed = 0
	}
	s.persistLocked()
	return rec, nil
}

// StartPendingPhase starts the parked next phase of a run that completed a
// phase without auto-start. No-op unless a run is idle with a pending
// phase.
func (s *Store) StartPendingPhase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &s.state.Pomodoro
	if p.RunID == "" || p.Status != StateIdle {
		return
	}
	s.beginPhaseLocked(p.Phase, p.Cycle)
	s.persistLocked()
}

// CancelPomodoro abandons the run and resets the sub-machine to idle. When
// the cancel lands at least a minute into a work phase, the result carries
// the partial fragment (ending at the pause instant if paused) so the
// caller can log it.
func (s *Store) CancelPomodoro() CancelResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.state.Pomodoro
	res := CancelResult{RunID: p.RunID}

	if p.Phase == model.PhaseWork && p.PhaseStartedAt != nil {
		end := s.clock.Now()
		if p.Status == StatePaused && p.PausedAt != nil {
			end = *p.PausedAt
		}
		if end.Sub(*p.PhaseStartedAt) >= minPartialWork {
			res.PartialWork = &model.PartialWork{Start: *p.PhaseStartedAt, End: end}
		}
	}

	s.state.Pomodoro = PomodoroState{
		Status:      StateIdle,
		Preferences: p.Preferences,
	}
	s.persistLocked()
	return res
}

// beginPhaseLocked starts the given phase running from the current
// instant and clears pause bookkeeping.
func (s *Store) beginPhaseLocked(phase model.Phase, cycle int) {
	p := &s.state.Pomodoro
	now := s.clock.Now()
	ends := now.Add(phaseDuration(p.Preferences, phase))
	p.Phase = phase
	p.Cycle = cycle
	p.Status = StateRunning
	p.PhaseStartedAt = timePtr(now)
	p.PhaseEndsAt = timePtr(ends)
	p.PausedAt = nil
	p.PausedElapsed = 0
}

// nextPhase applies the deterministic phase transition rule shared by skip
// and complete: work alternates with a break (long every LongBreakEvery-th
// cycle), and the cycle counter increments only on break-to-work
// transitions.
func nextPhase(current model.Phase, cycle int, prefs model.PomodoroPreferences) (model.Phase, int) {
	if current == model.PhaseWork {
		every := prefs.LongBreakEvery
		if every > 0 && cycle%every == 0 {
			return model.PhaseLongBreak, cycle
		}
		return model.PhaseShortBreak, cycle
	}
	return model.PhaseWork, cycle + 1
}

func phaseDuration(prefs model.PomodoroPreferences, phase model.Phase) time.Duration {
	minutes := prefs.WorkMinutes
	switch phase {
	case model.PhaseShortBreak:
		minutes = prefs.ShortBreakMinutes
	case model.PhaseLongBreak:
		minutes = prefs.LongBreakMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// PomodoroRemaining returns the seconds left in the current phase at the
// given instant, frozen at the pause instant while paused and floored at
// zero.
func (s *Store) PomodoroRemaining(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pomodoroRemaining(&s.state.Pomodoro, now)
}

func pomodoroRemaining(p *PomodoroState, now time.Time) int64 {
	if p.PhaseEndsAt == nil {
		return 0
	}
	ref := now
	if p.Status == StatePaused && p.PausedAt != nil {
		ref = *p.PausedAt
	}
	remaining := int64(p.PhaseEndsAt.Sub(ref) / time.Second)
	if remaining < 0 {
		return 0
	}
	return remaining
}
