package timer

import (
	"errors"
	"testing"
	"time"

	"github.com/alfredjeanlab/tempo/internal/model"
)

func testPrefs() model.PomodoroPreferences {
	return model.PomodoroPreferences{
		WorkMinutes:       25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		LongBreakEvery:    4,
	}
}

func TestPomodoro_Start(t *testing.T) {
	s, clock := newTestStore()
	s.StartPomodoro("tp-run1", testPrefs(), model.Assignment{DistractionFree: true})

	snap := s.Snapshot().Pomodoro
	if snap.Status != StateRunning || snap.Phase != model.PhaseWork || snap.Cycle != 1 {
		t.Fatalf("unexpected start state: %+v", snap)
	}
	wantEnds := clock.Now().Add(25 * time.Minute)
	if snap.PhaseEndsAt == nil || !snap.PhaseEndsAt.Equal(wantEnds) {
		t.Errorf("PhaseEndsAt = %v, want %v", snap.PhaseEndsAt, wantEnds)
	}
	if got := s.PomodoroRemaining(clock.Now()); got != 25*60 {
		t.Errorf("remaining = %d, want %d", got, 25*60)
	}
}

// Pause freezes the displayed remaining time; resume shifts the deadline
// forward by exactly the paused duration.
func TestPomodoro_PauseResumePreservesRemaining(t *testing.T) {
	s, clock := newTestStore()
	s.StartPomodoro("tp-run1", testPrefs(), model.Assignment{})

	clock.Advance(10 * time.Minute)
	s.PausePomodoro()
	if got := s.PomodoroRemaining(clock.Now()); got != 15*60 {
		t.Errorf("remaining at pause = %d, want %d", got, 15*60)
	}

	// Displayed remaining is frozen at the pause instant, not decaying.
	clock.Advance(30 * time.Minute)
	if got := s.PomodoroRemaining(clock.Now()); got != 15*60 {
		t.Errorf("remaining while paused = %d, want %d", got, 15*60)
	}

	s.ResumePomodoro()
	if got := s.PomodoroRemaining(clock.Now()); got != 15*60 {
		t.Errorf("remaining after resume = %d, want %d", got, 15*60)
	}
	snap := s.Snapshot().Pomodoro
	if snap.PausedElapsed != 30*60 {
		t.Errorf("PausedElapsed = %d, want %d", snap.PausedElapsed, 30*60)
	}
	clock.Advance(15 * time.Minute)
	if got := s.PomodoroRemaining(clock.Now()); got != 0 {
		t.Errorf("remaining at shifted deadline = %d, want 0", got)
	}
}

// With longBreakEvery=4: cycles 1-3 earn short breaks,
// cycle 4 a long break, and the counter increments only leaving a break.
func TestPomodoro_CycleRule(t *testing.T) {
	prefs := testPrefs()
	phase, cycle := model.PhaseWork, 1

	for want := 1; want <= 3; want++ {
		if cycle != want {
			t.Fatalf("cycle = %d, want %d", cycle, want)
		}
		phase, cycle = nextPhase(phase, cycle, prefs)
		if phase != model.PhaseShortBreak {
			t.Fatalf("after work cycle %d: phase = %s, want short_break", want, phase)
		}
		if cycle != want {
			t.Fatalf("cycle changed on work->break: %d", cycle)
		}
		phase, cycle = nextPhase(phase, cycle, prefs)
		if phase != model.PhaseWork || cycle != want+1 {
			t.Fatalf("after break: phase=%s cycle=%d, want work %d", phase, cycle, want+1)
		}
	}

	// Cycle 4 work earns the long break.
	phase, cycle = nextPhase(phase, cycle, prefs)
	if phase != model.PhaseLongBreak || cycle != 4 {
		t.Fatalf("after cycle 4 work: phase=%s cycle=%d, want long_break 4", phase, cycle)
	}
	phase, cycle = nextPhase(phase, cycle, prefs)
	if phase != model.PhaseWork || cycle != 5 {
		t.Fatalf("after long break: phase=%s cycle=%d, want work 5", phase, cycle)
	}
}

func TestPomodoro_CompletePhase(t *testing.T) {
	s, clock := newTestStore()
	prefs := testPrefs()
	prefs.AutoStartNextPhase = true
	start := clock.Now()
	s.StartPomodoro("tp-run1", prefs, model.Assignment{})

	clock.Advance(25 * time.Minute)
	rec, err := s.CompletePomodoroPhase()
	if err != nil {
		t.Fatalf("CompletePomodoroPhase: %v", err)
	}
	if rec.RunID != "tp-run1" || rec.Phase != model.PhaseWork || rec.Cycle != 1 {
		t.Errorf("record = %+v", rec)
	}
	if !rec.Start.Equal(start) || !rec.End.Equal(clock.Now()) {
		t.Errorf("record window = %v..%v, want %v..%v", rec.Start, rec.End, start, clock.Now())
	}

	// Completed work + AutoStartNextPhase: break starts immediately.
	snap := s.Snapshot().Pomodoro
	if snap.Status != StateRunning || snap.Phase != model.PhaseShortBreak {
		t.Errorf("after auto-start: %+v", snap)
	}
	if got := s.PomodoroRemaining(clock.Now()); got != 5*60 {
		t.Errorf("break remaining = %d, want %d", got, 5*60)
	}
}

// The auto-start preference is chosen by the phase that just completed:
// a completed break consults AutoStartNextWork.
func TestPomodoro_AutoStartSelection(t *testing.T) {
	s, clock := newTestStore()
	prefs := testPrefs()
	prefs.AutoStartNextPhase = true  // work -> break: auto
	prefs.AutoStartNextWork = false  // break -> work: manual
	s.StartPomodoro("tp-run1", prefs, model.Assignment{})

	clock.Advance(25 * time.Minute)
	if _, err := s.CompletePomodoroPhase(); err != nil {
		t.Fatal(err)
	}
	clock.Advance(5 * time.Minute)
	rec, err := s.CompletePomodoroPhase()
	if err != nil {
		t.Fatal(err)
	}
	if rec.Phase != model.PhaseShortBreak {
		t.Errorf("completed phase = %s, want short_break", rec.Phase)
	}

	snap := s.Snapshot().Pomodoro
	if snap.Status != StateIdle {
		t.Fatalf("after break with manual work start: status = %s, want idle", snap.Status)
	}
	if snap.Phase != model.PhaseWork || snap.Cycle != 2 {
		t.Errorf("pending phase = %s cycle %d, want work 2", snap.Phase, snap.Cycle)
	}
	if snap.PhaseStartedAt != nil || snap.PhaseEndsAt != nil {
		t.Error("phase timestamps should be cleared while parked")
	}

	s.StartPendingPhase()
	snap = s.Snapshot().Pomodoro
	if snap.Status != StateRunning || snap.Phase != model.PhaseWork || snap.Cycle != 2 {
		t.Errorf("after manual start: %+v", snap)
	}
}

func TestPomodoro_CompleteWithoutRunFails(t *testing.T) {
	s, _ := newTestStore()
	if _, err := s.CompletePomodoroPhase(); !errors.Is(err, ErrNoActivePhase) {
		t.Errorf("err = %v, want ErrNoActivePhase", err)
	}
}

func TestPomodoro_SkipPhase(t *testing.T) {
	s, clock := newTestStore()
	s.StartPomodoro("tp-run1", testPrefs(), model.Assignment{})
	clock.Advance(3 * time.Minute)
	s.PausePomodoro()
	s.SkipPomodoroPhase()

	snap := s.Snapshot().Pomodoro
	if snap.Phase != model.PhaseShortBreak || snap.Status != StateRunning {
		t.Errorf("after skip: %+v", snap)
	}
	if snap.PausedElapsed != 0 {
		t.Errorf("PausedElapsed = %d after skip, want 0", snap.PausedElapsed)
	}
	if snap.Cycle != 1 {
		t.Errorf("cycle = %d after work skip, want 1", snap.Cycle)
	}
}

func TestPomodoro_CancelLogsPartialWork(t *testing.T) {
	s, clock := newTestStore()
	start := clock.Now()
	s.StartPomodoro("tp-run1", testPrefs(), model.Assignment{})
	clock.Advance(5 * time.Minute)

	res := s.CancelPomodoro()
	if res.RunID != "tp-run1" {
		t.Errorf("RunID = %s", res.RunID)
	}
	if res.PartialWork == nil {
		t.Fatal("expected partial work after 5 minutes")
	}
	if !res.PartialWork.Start.Equal(start) || !res.PartialWork.End.Equal(clock.Now()) {
		t.Errorf("partial window = %+v", res.PartialWork)
	}
	if s.Snapshot().Pomodoro.Status != StateIdle {
		t.Error("pomodoro not reset after cancel")
	}
}

func TestPomodoro_CancelUnderMinuteHasNoPartial(t *testing.T) {
	s, clock := newTestStore()
	s.StartPomodoro("tp-run1", testPrefs(), model.Assignment{})
	clock.Advance(59 * time.Second)
	if res := s.CancelPomodoro(); res.PartialWork != nil {
		t.Errorf("partial work for 59s fragment: %+v", res.PartialWork)
	}
}

// A paused cancel ends the partial fragment at the pause instant.
func TestPomodoro_CancelWhilePaused(t *testing.T) {
	s, clock := newTestStore()
	s.StartPomodoro("tp-run1", testPrefs(), model.Assignment{})
	clock.Advance(4 * time.Minute)
	s.PausePomodoro()
	pausedAt := clock.Now()
	clock.Advance(time.Hour)

	res := s.CancelPomodoro()
	if res.PartialWork == nil {
		t.Fatal("expected partial work")
	}
	if !res.PartialWork.End.Equal(pausedAt) {
		t.Errorf("partial end = %v, want pause instant %v", res.PartialWork.End, pausedAt)
	}
}

func TestPomodoro_CancelDuringBreakHasNoPartial(t *testing.T) {
	s, clock := newTestStore()
	prefs := testPrefs()
	prefs.AutoStartNextPhase = true
	s.StartPomodoro("tp-run1", prefs, model.Assignment{})
	clock.Advance(25 * time.Minute)
	if _, err := s.CompletePomodoroPhase(); err != nil {
		t.Fatal(err)
	}
	clock.Advance(2 * time.Minute)
	if res := s.CancelPomodoro(); res.PartialWork != nil {
		t.Errorf("break cancel produced partial work: %+v", res.PartialWork)
	}
}
