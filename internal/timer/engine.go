package timer

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/tempo/internal/model"
)

// Hooks are the engine's observer callbacks. All are optional.
type Hooks struct {
	// OnTick receives the freshly rendered display string once per tick.
	OnTick func(display string)
	// OnPhaseComplete receives each pomodoro phase record as its
	// countdown reaches zero. Persisting it is the receiver's job;
	// failures there never roll the store back.
	OnPhaseComplete func(rec model.PhaseRecord)
	// OnTimerDone fires once when a countdown instance reaches zero. The
	// instance keeps running state until stopped explicitly.
	OnTimerDone func(id string)
}

// Engine drives the 1-second re-render tick and pomodoro phase
// auto-completion. Every tick reads current store state rather than
// trusting anything captured at schedule time, so pause/resume moving a
// deadline mid-flight is handled naturally.
type Engine struct {
	store    *Store
	interval time.Duration
	hooks    Hooks

	mu         sync.Mutex
	running    bool
	stopCh     chan struct{}
	firedPhase map[string]bool // runID:phaseEndsAt -> completion already fired
	firedTimer map[string]bool // timerID:endsAt -> done already fired
}

// NewEngine creates an engine over the store. Interval defaults to one
// second when non-positive.
func NewEngine(store *Store, interval time.Duration, hooks Hooks) *Engine {
	if interval <= 0 {
		interval = time.Second
	}
	return &Engine{
		store:      store,
		interval:   interval,
		hooks:      hooks,
		firedPhase: make(map[string]bool),
		firedTimer: make(map[string]bool),
	}
}

// Start launches the ticking loop. Starting a running engine is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stopCh = make(chan struct{})
	stopCh := e.stopCh
	e.mu.Unlock()

	go e.run(stopCh)
}

// Stop terminates the ticking loop.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	close(e.stopCh)
	e.running = false
}

func (e *Engine) run(stopCh chan struct{}) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Tick performs one engine step against current store state. It is
// exported so tests (and callers with their own schedulers) can drive it
// directly with a fake clock.
func (e *Engine) Tick() {
	now := e.store.Clock().Now()
	snap := e.store.Snapshot()

	e.completeDuePhase(&snap, now)
	e.notifyDueTimers(&snap, now)

	if e.hooks.OnTick != nil {
		// Re-render from post-completion state.
		e.hooks.OnTick(Display(e.store.Snapshot(), now))
	}
}

// completeDuePhase fires phase completion when a running pomodoro phase
// has counted down to zero. The runID:deadline dedup key guarantees a
// single completion even when a scheduled timeout and a late tick observe
// remaining <= 0 simultaneously.
func (e *Engine) completeDuePhase(snap *State, now time.Time) {
	p := snap.Pomodoro
	if p.Status != StateRunning || p.RunID == "" || p.PhaseEndsAt == nil {
		return
	}
	if pomodoroRemaining(&p, now) > 0 {
		return
	}
	key := fmt.Sprintf("%s:%d", p.RunID, p.PhaseEndsAt.UnixMilli())

	e.mu.Lock()
	if e.firedPhase[key] {
		e.mu.Unlock()
		return
	}
	e.firedPhase[key] = true
	e.mu.Unlock()

	rec, err := e.store.CompletePomodoroPhase()
	if err != nil {
		// Raced with a concurrent cancel; nothing to report.
		slog.Warn("phase completion raced with state change", "error", err)
		return
	}
	if e.hooks.OnPhaseComplete != nil {
		e.hooks.OnPhaseComplete(rec)
	}
}

func (e *Engine) notifyDueTimers(snap *State, now time.Time) {
	for _, t := range snap.Timers {
		if t.Status != StateRunning || t.EndsAt == nil || t.Remaining(now) > 0 {
			continue
		}
		key := fmt.Sprintf("%s:%d", t.ID, t.EndsAt.UnixMilli())
		e.mu.Lock()
		fired := e.firedTimer[key]
		if !fired {
			e.firedTimer[key] = true
		}
		e.mu.Unlock()
		if !fired && e.hooks.OnTimerDone != nil {
			e.hooks.OnTimerDone(t.ID)
		}
	}
}
