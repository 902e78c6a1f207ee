package model

import "time"

// Phase is one segment of a pomodoro run.
type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// IsValid checks whether the phase is a known value.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseWork, PhaseShortBreak, PhaseLongBreak:
		return true
	}
	return false
}

// IsBreak reports whether the phase is a short or long break.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// PomodoroPreferences controls phase lengths and auto-start behavior for a
// pomodoro run.
type PomodoroPreferences struct {
	WorkMinutes        int  `json:"work_minutes"`
	ShortBreakMinutes  int  `json:"short_break_minutes"`
	LongBreakMinutes   int  `json:"long_break_minutes"`
	LongBreakEvery     int  `json:"long_break_every"`
	AutoStartNextPhase bool `json:"auto_start_next_phase"`
	AutoStartNextWork  bool `json:"auto_start_next_work"`
}

// DefaultPomodoroPreferences returns the classic 25/5/15 configuration with
// a long break every fourth work phase.
func DefaultPomodoroPreferences() PomodoroPreferences {
	return PomodoroPreferences{
		WorkMinutes:       25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		LongBreakEvery:    4,
	}
}

// PomodoroRun is the persisted record correlating the phases of one
// pomodoro session.
type PomodoroRun struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id,omitempty"`
	Preferences PomodoroPreferences `json:"preferences"`
	StartedAt   time.Time           `json:"started_at"`
	EndedAt     *time.Time          `json:"ended_at,omitempty"`
	Canceled    bool                `json:"canceled,omitempty"`
}

// PhaseRecord is one completed phase of a run, handed to the persistence
// collaborator. Only work phases produce time entries; breaks are recorded
// on the run for statistics but never tracked as time.
type PhaseRecord struct {
	RunID   string    `json:"run_id"`
	Phase   Phase     `json:"phase"`
	Cycle   int       `json:"cycle"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// PartialWork marks an interrupted work phase worth logging: a run canceled
// at least a minute into a work phase.
type PartialWork struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
