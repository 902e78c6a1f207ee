package model

import "time"

// EntrySource identifies which timer sub-machine produced a time entry.
type EntrySource string

const (
	SourceStopwatch EntrySource = "stopwatch"
	SourcePomodoro  EntrySource = "pomodoro"
	SourceTimer     EntrySource = "timer"
)

// String returns the string representation of the source.
func (s EntrySource) String() string {
	return string(s)
}

// IsValid checks whether the source is a known value.
func (s EntrySource) IsValid() bool {
	switch s {
	case SourceStopwatch, SourcePomodoro, SourceTimer:
		return true
	}
	return false
}

// Assignment classifies a running session: an optional free-form label, an
// optional task or event link, and the distraction-free flag that feeds the
// focus streak.
type Assignment struct {
	Label           string `json:"label,omitempty"`
	TaskID          string `json:"task_id,omitempty"`
	EventID         string `json:"event_id,omitempty"`
	DistractionFree bool   `json:"distraction_free"`
}

// TimeEntry is a finished tracked session. The timer core produces entries;
// the persistence collaborator stores them.
type TimeEntry struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id,omitempty"`
	Start           time.Time   `json:"start"`
	End             time.Time   `json:"end"`
	Duration        int64       `json:"duration"` // seconds
	Label           string      `json:"label,omitempty"`
	TaskID          string      `json:"task_id,omitempty"`
	EventID         string      `json:"event_id,omitempty"`
	DistractionFree bool        `json:"distraction_free"`
	Source          EntrySource `json:"source"`
	PomodoroRunID   string      `json:"pomodoro_run_id,omitempty"`
	PomodoroCycle   int         `json:"pomodoro_cycle,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// EntryFilter narrows ListTimeEntries results.
type EntryFilter struct {
	UserID          string
	Source          []EntrySource
	TaskID          string
	EventID         string
	DistractionFree *bool
	Since           *time.Time
	Until           *time.Time
	Limit           int
	Offset          int
}
