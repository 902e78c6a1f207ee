package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alfredjeanlab/tempo/internal/client"
	"github.com/alfredjeanlab/tempo/internal/kv"
	"github.com/alfredjeanlab/tempo/internal/model"
	"github.com/alfredjeanlab/tempo/internal/timer"
)

// timerStateDir returns the directory holding local timer state.
func timerStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "tempo", "timers"), nil
}

// openTimerStore opens the persistent local timer store. Timer state lives
// on this machine; only finished entries go to the server.
func openTimerStore() (*timer.Store, error) {
	dir, err := timerStateDir()
	if err != nil {
		return nil, err
	}
	backend, err := kv.NewFileKV(dir)
	if err != nil {
		return nil, fmt.Errorf("open timer state: %w", err)
	}
	return timer.New(timer.SystemClock(), backend), nil
}

// assignment flags shared by the timer commands.
var (
	flagLabel string
	flagTask  string
	flagEvent string
	flagFocus bool
)

func currentAssignment() model.Assignment {
	return model.Assignment{
		Label:           flagLabel,
		TaskID:          flagTask,
		EventID:         flagEvent,
		DistractionFree: flagFocus,
	}
}

// postEntry sends a finished local session to the server as a time entry.
func postEntry(c client.TempoClient, start, end time.Time, a model.Assignment, source string) (*model.TimeEntry, error) {
	return c.CreateEntry(context.Background(), &client.CreateEntryRequest{
		UserID:          userID,
		Start:           start.UTC(),
		End:             end.UTC(),
		Label:           a.Label,
		TaskID:          a.TaskID,
		EventID:         a.EventID,
		DistractionFree: a.DistractionFree,
		Source:          source,
	})
}

// postPhase records a completed pomodoro phase on the server.
func postPhase(c client.TempoClient, rec model.PhaseRecord) {
	_, err := c.CompletePhase(context.Background(), rec.RunID, &client.CompletePhaseRequest{
		Phase: rec.Phase.String(),
		Cycle: rec.Cycle,
		Start: rec.Start.UTC(),
		End:   rec.End.UTC(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record %s phase: %v\n", rec.Phase, err)
	}
}

// syncDuePhases completes any pomodoro phase that expired while no process
// was watching, pushing the records to the server.
func syncDuePhases(store *timer.Store, c client.TempoClient) {
	eng := timer.NewEngine(store, 0, timer.Hooks{
		OnPhaseComplete: func(rec model.PhaseRecord) { postPhase(c, rec) },
	})
	eng.Tick()
}

// runFollow renders the live display once per second until interrupted.
// Due pomodoro phases complete (and post to the server) as they expire.
func runFollow(store *timer.Store, c client.TempoClient) {
	eng := timer.NewEngine(store, time.Second, timer.Hooks{
		OnTick: func(display string) {
			fmt.Printf("\r\x1b[K%s", display)
		},
		OnPhaseComplete: func(rec model.PhaseRecord) { postPhase(c, rec) },
		OnTimerDone: func(id string) {
			fmt.Printf("\r\x1b[Ktimer %s done\a\n", id)
		},
	})
	eng.Start()
	defer eng.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	fmt.Println()
}
