package timer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alfredjeanlab/tempo/internal/model"
)

// The persisted form encodes every timestamp as epoch milliseconds (0 =
// unset) so Date-valued fields survive the round trip losslessly at
// millisecond precision, independent of any storage backend.

type persistedStopwatch struct {
	Status     RunState         `json:"status"`
	StartedAt  int64            `json:"started_at,omitempty"`
	PausedAt   int64            `json:"paused_at,omitempty"`
	Elapsed    int64            `json:"elapsed"`
	Assignment model.Assignment `json:"assignment"`
}

type persistedPomodoro struct {
	Status         RunState                  `json:"status"`
	RunID          string                    `json:"run_id,omitempty"`
	Phase          model.Phase               `json:"phase,omitempty"`
	Cycle          int                       `json:"cycle,omitempty"`
	PhaseStartedAt int64                     `json:"phase_started_at,omitempty"`
	PhaseEndsAt    int64                     `json:"phase_ends_at,omitempty"`
	PausedAt       int64                     `json:"paused_at,omitempty"`
	PausedElapsed  int64                     `json:"paused_elapsed,omitempty"`
	Assignment     model.Assignment          `json:"assignment"`
	Preferences    model.PomodoroPreferences `json:"preferences"`
}

type persistedCountdown struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Duration      int64            `json:"duration"`
	Status        RunState         `json:"status"`
	StartedAt     int64            `json:"started_at,omitempty"`
	PausedAt      int64            `json:"paused_at,omitempty"`
	EndsAt        int64            `json:"ends_at,omitempty"`
	PausedElapsed int64            `json:"paused_elapsed,omitempty"`
	Assignment    model.Assignment `json:"assignment"`
}

type persistedState struct {
	Version       int                  `json:"version"`
	Mode          Mode                 `json:"mode"`
	Stopwatch     persistedStopwatch   `json:"stopwatch"`
	Pomodoro      persistedPomodoro    `json:"pomodoro"`
	Timers        []persistedCountdown `json:"timers,omitempty"`
	ActiveTimerID string               `json:"active_timer_id,omitempty"`
}

const stateVersion = 1

func encodeState(s *State) ([]byte, error) {
	p := persistedState{
		Version: stateVersion,
		Mode:    s.Mode,
		Stopwatch: persistedStopwatch{
			Status:     s.Stopwatch.Status,
			StartedAt:  toMillis(s.Stopwatch.StartedAt),
			PausedAt:   toMillis(s.Stopwatch.PausedAt),
			Elapsed:    s.Stopwatch.Elapsed,
			Assignment: s.Stopwatch.Assignment,
		},
		Pomodoro: persistedPomodoro{
			Status:         s.Pomodoro.Status,
			RunID:          s.Pomodoro.RunID,
			Phase:          s.Pomodoro.Phase,
			Cycle:          s.Pomodoro.Cycle,
			PhaseStartedAt: toMillis(s.Pomodoro.PhaseStartedAt),
			PhaseEndsAt:    toMillis(s.Pomodoro.PhaseEndsAt),
			PausedAt:       toMillis(s.Pomodoro.PausedAt),
			PausedElapsed:  s.Pomodoro.PausedElapsed,
			Assignment:     s.Pomodoro.Assignment,
			Preferences:    s.Pomodoro.Preferences,
		},
		ActiveTimerID: s.ActiveTimerID,
	}
	for _, t := range s.Timers {
		p.Timers = append(p.Timers, persistedCountdown{
			ID:            t.ID,
			Name:          t.Name,
			Duration:      t.Duration,
			Status:        t.Status,
			StartedAt:     toMillis(t.StartedAt),
			PausedAt:      toMillis(t.PausedAt),
			EndsAt:        toMillis(t.EndsAt),
			PausedElapsed: t.PausedElapsed,
			Assignment:    t.Assignment,
		})
	}
	return json.Marshal(p)
}

func decodeState(data []byte) (*State, error) {
	var p persistedState
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode timer state: %w", err)
	}
	if p.Version != stateVersion {
		return nil, fmt.Errorf("unsupported timer state version %d", p.Version)
	}

	s := defaultState()
	if p.Mode.IsValid() {
		s.Mode = p.Mode
	}
	s.Stopwatch = StopwatchState{
		Status:     p.Stopwatch.Status,
		StartedAt:  fromMillis(p.Stopwatch.StartedAt),
		PausedAt:   fromMillis(p.Stopwatch.PausedAt),
		Elapsed:    p.Stopwatch.Elapsed,
		Assignment: p.Stopwatch.Assignment,
	}
	s.Pomodoro = PomodoroState{
		Status:         p.Pomodoro.Status,
		RunID:          p.Pomodoro.RunID,
		Phase:          p.Pomodoro.Phase,
		Cycle:          p.Pomodoro.Cycle,
		PhaseStartedAt: fromMillis(p.Pomodoro.PhaseStartedAt),
		PhaseEndsAt:    fromMillis(p.Pomodoro.PhaseEndsAt),
		PausedAt:       fromMillis(p.Pomodoro.PausedAt),
		PausedElapsed:  p.Pomodoro.PausedElapsed,
		Assignment:     p.Pomodoro.Assignment,
		Preferences:    p.Pomodoro.Preferences,
	}
	for _, t := range p.Timers {
		s.Timers = append(s.Timers, &CountdownTimer{
			ID:            t.ID,
			Name:          t.Name,
			Duration:      t.Duration,
			Status:        t.Status,
			StartedAt:     fromMillis(t.StartedAt),
			PausedAt:      fromMillis(t.PausedAt),
			EndsAt:        fromMillis(t.EndsAt),
			PausedElapsed: t.PausedElapsed,
			Assignment:    t.Assignment,
		})
	}
	s.ActiveTimerID = p.ActiveTimerID
	return &s, nil
}

func toMillis(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) *time.Time {
	if ms == 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}
