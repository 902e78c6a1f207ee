package timer

import (
	"testing"
	"time"

	"github.com/alfredjeanlab/tempo/internal/model"
)

func TestFormatClock(t *testing.T) {
	for _, tc := range []struct {
		seconds int64
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{65, "01:05"},
		{599, "09:59"},
		{3599, "59:59"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{36_125, "10:02:05"},
		{-5, "00:00"}, // clock skew clamps to zero
	} {
		if got := FormatClock(tc.seconds); got != tc.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestDisplay_Stopwatch(t *testing.T) {
	s, clock := newTestStore()
	if got := s.Display(); got != "00:00" {
		t.Errorf("idle display = %q, want 00:00", got)
	}
	s.StartStopwatch(model.Assignment{})
	clock.Advance(75 * time.Second)
	if got := s.Display(); got != "01:15" {
		t.Errorf("display = %q, want 01:15", got)
	}
	clock.Advance(2 * time.Hour)
	if got := s.Display(); got != "02:01:15" {
		t.Errorf("display = %q, want 02:01:15", got)
	}
}

func TestDisplay_PomodoroFrozenWhilePaused(t *testing.T) {
	s, clock := newTestStore()
	s.SetMode(ModePomodoro)
	s.StartPomodoro("tp-run1", testPrefs(), model.Assignment{})
	clock.Advance(5 * time.Minute)
	s.PausePomodoro()
	clock.Advance(time.Hour)
	if got := s.Display(); got != "20:00" {
		t.Errorf("paused display = %q, want frozen 20:00", got)
	}
}

// Display never goes negative, even with a deadline in the past.
func TestDisplay_PomodoroOverrun(t *testing.T) {
	s, clock := newTestStore()
	s.SetMode(ModePomodoro)
	s.StartPomodoro("tp-run1", testPrefs(), model.Assignment{})
	clock.Advance(26 * time.Minute)
	if got := s.Display(); got != "00:00" {
		t.Errorf("overrun display = %q, want 00:00", got)
	}
}

func TestDisplay_Timer(t *testing.T) {
	s, clock := newTestStore()
	s.SetMode(ModeTimer)
	if got := s.Display(); got != "00:00" {
		t.Errorf("no-timer display = %q, want 00:00", got)
	}
	id, _ := s.CreateTimer("tea", 300, model.Assignment{})
	s.StartTimer(id)
	clock.Advance(40 * time.Second)
	if got := s.Display(); got != "04:20" {
		t.Errorf("display = %q, want 04:20", got)
	}
}

// Display is a pure projection: rendering must not mutate the store.
func TestDisplay_DoesNotMutate(t *testing.T) {
	s, clock := newTestStore()
	s.StartStopwatch(model.Assignment{})
	clock.Advance(10 * time.Second)
	before := s.Snapshot()
	for i := 0; i < 3; i++ {
		_ = s.Display()
	}
	after := s.Snapshot()
	if before.Stopwatch.Elapsed != after.Stopwatch.Elapsed ||
		!before.Stopwatch.StartedAt.Equal(*after.Stopwatch.StartedAt) {
		t.Errorf("display mutated state: %+v vs %+v", before.Stopwatch, after.Stopwatch)
	}
}
