// Package timer implements the unified timer state machine: one stopwatch,
// one pomodoro run, and up to five named countdown timers, owned by a
// single Store that survives process restarts through a key-value
// persistence boundary.
package timer

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/tempo/internal/kv"
)

// StateKey is the key under which the store persists itself.
const StateKey = "timer-state"

// ErrNoActivePhase is returned by CompletePomodoroPhase when no run is in
// flight. This signals a programmer error, not a user-recoverable state.
var ErrNoActivePhase = errors.New("timer: no active pomodoro phase")

// Store owns all timer state. It is an explicit context object constructed
// at application start and passed where timer operations are needed; there
// is no package-level singleton. All mutations are synchronous
// snapshot-replace operations under one mutex.
type Store struct {
	mu    sync.Mutex
	clock Clock
	kv    kv.KV
	state State
}

// New builds a Store with the given clock and persistence backend. A nil
// backend yields an ephemeral store. Previously persisted state, including
// mid-flight running timers, is rehydrated; elapsed time is always
// recomputed from stored timestamps against the current clock.
func New(clock Clock, backend kv.KV) *Store {
	if clock == nil {
		clock = SystemClock()
	}
	s := &Store{
		clock: clock,
		kv:    backend,
		state: defaultState(),
	}
	if backend != nil {
		if err := s.load(); err != nil && !errors.Is(err, kv.ErrNotFound) {
			slog.Warn("failed to rehydrate timer state, starting fresh", "error", err)
		}
	}
	return s
}

// Snapshot returns a deep copy of the current state for read-only
// projection.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	out := s.state
	out.Stopwatch.StartedAt = copyTime(s.state.Stopwatch.StartedAt)
	out.Stopwatch.PausedAt = copyTime(s.state.Stopwatch.PausedAt)
	out.Pomodoro.PhaseStartedAt = copyTime(s.state.Pomodoro.PhaseStartedAt)
	out.Pomodoro.PhaseEndsAt = copyTime(s.state.Pomodoro.PhaseEndsAt)
	out.Pomodoro.PausedAt = copyTime(s.state.Pomodoro.PausedAt)
	out.Timers = make([]*CountdownTimer, len(s.state.Timers))
	for i, t := range s.state.Timers {
		c := *t
		c.StartedAt = copyTime(t.StartedAt)
		c.PausedAt = copyTime(t.PausedAt)
		c.EndsAt = copyTime(t.EndsAt)
		out.Timers[i] = &c
	}
	return out
}

// Clock returns the store's wall-clock source.
func (s *Store) Clock() Clock { return s.clock }

// Mode returns the currently surfaced mode.
func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Mode
}

// SetMode switches which sub-machine the display surfaces. It never
// touches the running state of any sub-machine.
func (s *Store) SetMode(m Mode) {
	if !m.IsValid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Mode = m
	s.persistLocked()
}

// Reset restores the whole store, all three sub-machines and the mode, to
// initial defaults.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = defaultState()
	s.persistLocked()
}

// persistLocked writes the current state through the KV boundary.
// Persistence is best-effort: the in-memory state is the source of truth
// and a storage failure never rolls back an applied transition.
func (s *Store) persistLocked() {
	if s.kv == nil {
		return
	}
	data, err := encodeState(&s.state)
	if err != nil {
		slog.Warn("failed to encode timer state", "error", err)
		return
	}
	if err := s.kv.Set(StateKey, data); err != nil {
		slog.Warn("failed to persist timer state", "error", err)
	}
}

func (s *Store) load() error {
	data, err := s.kv.Get(StateKey)
	if err != nil {
		return err
	}
	state, err := decodeState(data)
	if err != nil {
		return err
	}
	s.state = *state
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
