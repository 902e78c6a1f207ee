package timer

import (
	"fmt"
	"time"
)

// Display renders the surfaced sub-machine's time at the given instant:
// elapsed for the stopwatch, remaining for pomodoro and countdown timers.
// It is a pure projection over a snapshot; it never mutates store state
// and never shows negative time.
func Display(s State, now time.Time) string {
	switch s.Mode {
	case ModePomodoro:
		return FormatClock(pomodoroRemaining(&s.Pomodoro, now))
	case ModeTimer:
		t := activeTimer(s)
		if t == nil {
			return FormatClock(0)
		}
		return FormatClock(t.Remaining(now))
	default:
		return FormatClock(stopwatchElapsed(&s.Stopwatch, now))
	}
}

// Display renders the store's surfaced time at the current clock instant.
func (s *Store) Display() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Display(s.snapshotLocked(), s.clock.Now())
}

// FormatClock renders seconds as HH:MM:SS when an hour or more, otherwise
// MM:SS, with zero-padded fields. Negative input is clamped to zero.
func FormatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	sec := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}

func activeTimer(s State) *CountdownTimer {
	for _, t := range s.Timers {
		if t.ID == s.ActiveTimerID {
			return t
		}
	}
	return nil
}
