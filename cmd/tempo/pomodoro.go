package main

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/tempo/internal/client"
	"github.com/alfredjeanlab/tempo/internal/model"
	"github.com/alfredjeanlab/tempo/internal/timer"
	"github.com/alfredjeanlab/tempo/internal/ui"
	"github.com/spf13/cobra"
)

var pomodoroFollow bool

var pomodoroCmd = &cobra.Command{
	Use:     "pomodoro",
	Short:   "Phased focus sessions with automatic breaks",
	GroupID: "timers",
}

var pomodoroStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a pomodoro run with your stored preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		if store.Snapshot().Pomodoro.Status != timer.StateIdle {
			return fmt.Errorf("a pomodoro run is already in progress; cancel it first")
		}

		run, err := tempoClient.CreateRun(context.Background(), &client.CreateRunRequest{UserID: userID})
		if err != nil {
			return fmt.Errorf("starting run: %w", err)
		}

		store.SetMode(timer.ModePomodoro)
		store.StartPomodoro(run.ID, run.Preferences, currentAssignment())
		fmt.Printf("%s %s\n", ui.RenderWork(store.Display()), ui.RenderMuted(run.ID))
		return nil
	},
}

var pomodoroPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the current phase",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		store.PausePomodoro()
		fmt.Println(ui.RenderPaused(store.Display()))
		return nil
	},
}

var pomodoroResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused phase",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		store.ResumePomodoro()
		fmt.Println(ui.RenderWork(store.Display()))
		return nil
	},
}

var pomodoroSkipCmd = &cobra.Command{
	Use:   "skip",
	Short: "Skip ahead to the next phase",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		store.SkipPomodoroPhase()
		printPomodoroStatus(store)
		return nil
	},
}

var pomodoroNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Begin the pending phase when auto-start is off",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		syncDuePhases(store, tempoClient)
		store.StartPendingPhase()
		printPomodoroStatus(store)
		return nil
	},
}

var pomodoroStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current phase and remaining time",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		store.SetMode(timer.ModePomodoro)
		// Phases that expired since the last invocation complete now.
		syncDuePhases(store, tempoClient)
		if pomodoroFollow {
			runFollow(store, tempoClient)
			return nil
		}
		printPomodoroStatus(store)
		return nil
	},
}

var pomodoroCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel the run, keeping any work over a minute",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		result := store.CancelPomodoro()
		if result.RunID == "" {
			fmt.Println("no pomodoro run in progress")
			return nil
		}

		resp, err := tempoClient.CancelRun(context.Background(), result.RunID, result.PartialWork)
		if err != nil {
			return fmt.Errorf("cancelling run: %w", err)
		}
		if resp.Entry != nil {
			fmt.Printf("cancelled %s, logged %s of partial work\n",
				result.RunID, timer.FormatClock(resp.Entry.Duration))
			return nil
		}
		fmt.Printf("cancelled %s\n", result.RunID)
		return nil
	},
}

func printPomodoroStatus(store *timer.Store) {
	snap := store.Snapshot()
	p := snap.Pomodoro
	if p.Status == timer.StateIdle {
		if p.RunID != "" {
			fmt.Printf("run %s: %s phase pending\n", p.RunID, p.Phase)
			return
		}
		fmt.Println("no pomodoro run in progress")
		return
	}

	display := timer.Display(snap, store.Clock().Now())
	label := fmt.Sprintf("%s (cycle %d)", p.Phase, p.Cycle)
	switch {
	case p.Status == timer.StatePaused:
		fmt.Printf("%s  %s\n", ui.RenderPaused(display), ui.RenderMuted(label+", paused"))
	case p.Phase == model.PhaseWork:
		fmt.Printf("%s  %s\n", ui.RenderWork(display), ui.RenderMuted(label))
	default:
		fmt.Printf("%s  %s\n", ui.RenderBreak(display), ui.RenderMuted(label))
	}
}

func init() {
	pomodoroStartCmd.Flags().StringVar(&flagLabel, "label", "", "free-form session label")
	pomodoroStartCmd.Flags().StringVar(&flagTask, "task", "", "task id to attribute the session to")
	pomodoroStartCmd.Flags().StringVar(&flagEvent, "event", "", "event id to attribute the session to")
	pomodoroStatusCmd.Flags().BoolVar(&pomodoroFollow, "follow", false, "render a live display until interrupted")

	pomodoroCmd.AddCommand(pomodoroStartCmd)
	pomodoroCmd.AddCommand(pomodoroPauseCmd)
	pomodoroCmd.AddCommand(pomodoroResumeCmd)
	pomodoroCmd.AddCommand(pomodoroSkipCmd)
	pomodoroCmd.AddCommand(pomodoroNextCmd)
	pomodoroCmd.AddCommand(pomodoroStatusCmd)
	pomodoroCmd.AddCommand(pomodoroCancelCmd)
}
