package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/alfredjeanlab/tempo/internal/kv"
	"github.com/alfredjeanlab/tempo/internal/model"
)

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore() (*Store, *fakeClock) {
	clock := newFakeClock()
	return New(clock, kv.NewMemKV()), clock
}

func TestSetMode(t *testing.T) {
	s, _ := newTestStore()
	if s.Mode() != ModeStopwatch {
		t.Errorf("initial mode = %s, want stopwatch", s.Mode())
	}
	s.SetMode(ModePomodoro)
	if s.Mode() != ModePomodoro {
		t.Errorf("mode = %s, want pomodoro", s.Mode())
	}
	s.SetMode(Mode("bogus"))
	if s.Mode() != ModePomodoro {
		t.Error("invalid mode should be ignored")
	}
}

// Switching modes must not disturb any sub-machine.
func TestSetMode_DoesNotTouchRunningState(t *testing.T) {
	s, clock := newTestStore()
	s.StartStopwatch(model.Assignment{})
	clock.Advance(10 * time.Second)
	s.SetMode(ModeTimer)
	s.SetMode(ModeStopwatch)
	if got := s.StopwatchElapsed(clock.Now()); got != 10 {
		t.Errorf("elapsed = %d after mode flips, want 10", got)
	}
}

func TestReset(t *testing.T) {
	s, clock := newTestStore()
	s.StartStopwatch(model.Assignment{Label: "deep work"})
	s.StartPomodoro("tp-run1", model.DefaultPomodoroPreferences(), model.Assignment{})
	s.CreateTimer("tea", 180, model.Assignment{})
	s.SetMode(ModeTimer)
	clock.Advance(time.Minute)

	s.Reset()
	snap := s.Snapshot()
	if snap.Mode != ModeStopwatch {
		t.Errorf("mode = %s, want stopwatch", snap.Mode)
	}
	if snap.Stopwatch.Status != StateIdle || snap.Pomodoro.Status != StateIdle {
		t.Errorf("sub-machines not idle after reset: %+v", snap)
	}
	if len(snap.Timers) != 0 || snap.ActiveTimerID != "" {
		t.Errorf("timers survived reset: %+v", snap.Timers)
	}
}

// Rehydration from the same backend must reconstruct mid-flight state and
// recompute elapsed from timestamps, not stale cached numbers.
func TestRehydration_RunningStopwatch(t *testing.T) {
	clock := newFakeClock()
	backend := kv.NewMemKV()

	s := New(clock, backend)
	s.StartStopwatch(model.Assignment{Label: "writing", DistractionFree: true})
	clock.Advance(30 * time.Second)

	// Simulate process restart: new store, same backend and clock.
	s2 := New(clock, backend)
	if got := s2.StopwatchElapsed(clock.Now()); got != 30 {
		t.Errorf("rehydrated elapsed = %d, want 30", got)
	}
	clock.Advance(15 * time.Second)
	if got := s2.StopwatchElapsed(clock.Now()); got != 45 {
		t.Errorf("elapsed after more time = %d, want 45", got)
	}
	snap := s2.Snapshot()
	if snap.Stopwatch.Assignment.Label != "writing" || !snap.Stopwatch.Assignment.DistractionFree {
		t.Errorf("assignment lost in round trip: %+v", snap.Stopwatch.Assignment)
	}
}
