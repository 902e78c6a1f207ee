package timer

import (
	"time"

	"github.com/alfredjeanlab/tempo/internal/model"
)

// Mode selects which sub-machine's time the display surfaces. All three
// sub-machines keep independent state regardless of the active mode.
type Mode string

const (
	ModeStopwatch Mode = "stopwatch"
	ModePomodoro  Mode = "pomodoro"
	ModeTimer     Mode = "timer"
)

// IsValid checks whether the mode is a known value.
func (m Mode) IsValid() bool {
	switch m {
	case ModeStopwatch, ModePomodoro, ModeTimer:
		return true
	}
	return false
}

// RunState is the lifecycle state shared by all sub-machines.
type RunState string

const (
	StateIdle    RunState = "idle"
	StateRunning RunState = "running"
	StatePaused  RunState = "paused"
)

// MaxCountdownTimers caps how many named countdown timers may coexist.
const MaxCountdownTimers = 5

// StopwatchState is the count-up sub-machine. While running, StartedAt is
// a virtual start: resume shifts it forward so elapsed time keeps
// accumulating from wall-clock deltas. Elapsed is authoritative only while
// paused or idle.
type StopwatchState struct {
	Status     RunState
	StartedAt  *time.Time
	PausedAt   *time.Time
	Elapsed    int64 // seconds, frozen at pause
	Assignment model.Assignment
}

// PomodoroState is the phased countdown sub-machine. PhaseEndsAt moves
// forward on resume so the remaining time survives pauses intact.
type PomodoroState struct {
	Status         RunState
	RunID          string
	Phase          model.Phase
	Cycle          int
	PhaseStartedAt *time.Time
	PhaseEndsAt    *time.Time
	PausedAt       *time.Time
	PausedElapsed  int64 // accumulated paused wall-clock seconds
	Assignment     model.Assignment
	Preferences    model.PomodoroPreferences
}

// CountdownTimer is one named fixed-duration countdown instance.
type CountdownTimer struct {
	ID            string
	Name          string
	Duration      int64 // fixed total, seconds
	Status        RunState
	StartedAt     *time.Time
	PausedAt      *time.Time
	EndsAt        *time.Time
	PausedElapsed int64 // seconds consumed before the last pause
	Assignment    model.Assignment
}

// Elapsed returns how many seconds of the countdown have been consumed at
// the given instant.
func (c *CountdownTimer) Elapsed(now time.Time) int64 {
	switch c.Status {
	case StateRunning:
		if c.StartedAt == nil {
			return 0
		}
		return flooredSeconds(now.Sub(*c.StartedAt))
	case StatePaused:
		return c.PausedElapsed
	default:
		return 0
	}
}

// Remaining returns the seconds left on the countdown, floored at zero.
func (c *CountdownTimer) Remaining(now time.Time) int64 {
	remaining := c.Duration - c.Elapsed(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// State is a full snapshot of the timer store: the surfaced mode plus all
// three sub-machines. ActiveTimerID is display convenience only; it never
// decides whether an instance is running.
type State struct {
	Mode          Mode
	Stopwatch     StopwatchState
	Pomodoro      PomodoroState
	Timers        []*CountdownTimer
	ActiveTimerID string
}

func defaultState() State {
	return State{
		Mode:      ModeStopwatch,
		Stopwatch: StopwatchState{Status: StateIdle},
		Pomodoro:  PomodoroState{Status: StateIdle, Preferences: model.DefaultPomodoroPreferences()},
	}
}

// StopwatchSnapshot is the finalized stopwatch handed back by Stop. The
// caller turns it into a time entry when Elapsed > 0.
type StopwatchSnapshot struct {
	StartedAt  time.Time
	StoppedAt  time.Time
	Elapsed    int64
	Assignment model.Assignment
}

// CountdownSnapshot is the finalized countdown instance handed back by
// StopTimer.
type CountdownSnapshot struct {
	ID         string
	Name       string
	Duration   int64
	StartedAt  time.Time
	StoppedAt  time.Time
	Elapsed    int64
	Assignment model.Assignment
}

// CancelResult reports a canceled pomodoro run. PartialWork is set only
// when the run was canceled at least a minute into a work phase.
type CancelResult struct {
	RunID       string
	PartialWork *model.PartialWork
}

func flooredSeconds(d time.Duration) int64 {
	s := int64(d / time.Second)
	if s < 0 {
		return 0
	}
	return s
}

func timePtr(t time.Time) *time.Time { return &t }
