package timer

import (
	"testing"
	"time"

	"github.com/alfredjeanlab/tempo/internal/model"
)

// Serializing then deserializing any store state yields an equal state,
// Date fields included, at millisecond precision.
func TestPersist_RoundTrip(t *testing.T) {
	started := time.Date(2024, 5, 10, 9, 0, 0, 123_000_000, time.UTC)
	paused := started.Add(17 * time.Minute)
	ends := started.Add(25 * time.Minute)

	state := defaultState()
	state.Mode = ModeTimer
	state.Stopwatch = StopwatchState{
		Status:     StatePaused,
		StartedAt:  &started,
		PausedAt:   &paused,
		Elapsed:    1020,
		Assignment: model.Assignment{Label: "draft", TaskID: "task-9", DistractionFree: true},
	}
	state.Pomodoro = PomodoroState{
		Status:         StateRunning,
		RunID:          "tp-run7",
		Phase:          model.PhaseLongBreak,
		Cycle:          4,
		PhaseStartedAt: &started,
		PhaseEndsAt:    &ends,
		PausedElapsed:  33,
		Assignment:     model.Assignment{EventID: "event-2"},
		Preferences:    model.DefaultPomodoroPreferences(),
	}
	state.Timers = []*CountdownTimer{
		{
			ID:            "tmr-abc",
			Name:          "tea",
			Duration:      300,
			Status:        StateRunning,
			StartedAt:     &started,
			EndsAt:        &ends,
			PausedElapsed: 12,
			Assignment:    model.Assignment{Label: "kitchen"},
		},
		{ID: "tmr-def", Name: "laundry", Duration: 2400, Status: StateIdle},
	}
	state.ActiveTimerID = "tmr-abc"

	data, err := encodeState(&state)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeState(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.Mode != state.Mode || got.ActiveTimerID != state.ActiveTimerID {
		t.Errorf("top-level mismatch: %+v", got)
	}
	sw := got.Stopwatch
	if sw.Status != StatePaused || sw.Elapsed != 1020 {
		t.Errorf("stopwatch mismatch: %+v", sw)
	}
	if sw.StartedAt == nil || !sw.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v (millisecond precision)", sw.StartedAt, started)
	}
	if sw.PausedAt == nil || !sw.PausedAt.Equal(paused) {
		t.Errorf("PausedAt = %v, want %v", sw.PausedAt, paused)
	}
	if sw.Assignment != state.Stopwatch.Assignment {
		t.Errorf("assignment mismatch: %+v", sw.Assignment)
	}

	p := got.Pomodoro
	if p.RunID != "tp-run7" || p.Phase != model.PhaseLongBreak || p.Cycle != 4 || p.PausedElapsed != 33 {
		t.Errorf("pomodoro mismatch: %+v", p)
	}
	if p.PhaseEndsAt == nil || !p.PhaseEndsAt.Equal(ends) {
		t.Errorf("PhaseEndsAt = %v, want %v", p.PhaseEndsAt, ends)
	}
	if p.Preferences != state.Pomodoro.Preferences {
		t.Errorf("preferences mismatch: %+v", p.Preferences)
	}

	if len(got.Timers) != 2 {
		t.Fatalf("timer count = %d, want 2", len(got.Timers))
	}
	a, b := got.Timers[0], state.Timers[0]
	if a.ID != b.ID || a.Name != b.Name || a.Duration != b.Duration ||
		a.Status != b.Status || a.PausedElapsed != b.PausedElapsed ||
		a.Assignment != b.Assignment ||
		a.StartedAt == nil || !a.StartedAt.Equal(*b.StartedAt) ||
		a.EndsAt == nil || !a.EndsAt.Equal(*b.EndsAt) {
		t.Errorf("timer mismatch: %+v vs %+v", a, b)
	}
	idle := got.Timers[1]
	if idle.StartedAt != nil || idle.PausedAt != nil || idle.EndsAt != nil {
		t.Errorf("idle timer grew timestamps: %+v", idle)
	}
}

func TestPersist_DefaultStateRoundTrip(t *testing.T) {
	state := defaultState()
	data, err := encodeState(&state)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeState(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Mode != ModeStopwatch || got.Stopwatch.Status != StateIdle {
		t.Errorf("default round trip changed state: %+v", got)
	}
	if got.Stopwatch.StartedAt != nil || got.Pomodoro.PhaseEndsAt != nil {
		t.Error("nil timestamps should stay nil")
	}
}

func TestPersist_RejectsUnknownVersion(t *testing.T) {
	if _, err := decodeState([]byte(`{"version":99,"mode":"stopwatch"}`)); err == nil {
		t.Error("expected error for unknown version")
	}
	if _, err := decodeState([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed payload")
	}
}
