package main

import (
	"fmt"

	"github.com/alfredjeanlab/tempo/internal/timer"
	"github.com/alfredjeanlab/tempo/internal/ui"
	"github.com/spf13/cobra"
)

var stopwatchFollow bool

var stopwatchCmd = &cobra.Command{
	Use:     "stopwatch",
	Short:   "Count-up timer for open-ended sessions",
	GroupID: "timers",
}

var stopwatchStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start (or restart) the stopwatch",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		store.SetMode(timer.ModeStopwatch)
		store.StartStopwatch(currentAssignment())
		fmt.Println(ui.RenderAccent(store.Display()))
		return nil
	},
}

var stopwatchPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the stopwatch",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		store.PauseStopwatch()
		fmt.Println(ui.RenderPaused(store.Display()))
		return nil
	},
}

var stopwatchResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused stopwatch",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		store.ResumeStopwatch()
		fmt.Println(ui.RenderAccent(store.Display()))
		return nil
	},
}

var stopwatchStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the stopwatch and log the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		snap := store.StopStopwatch()
		if snap.Elapsed == 0 {
			fmt.Println("nothing to log")
			return nil
		}

		entry, err := postEntry(tempoClient, snap.StartedAt, snap.StoppedAt, snap.Assignment, "stopwatch")
		if err != nil {
			return fmt.Errorf("logging entry: %w", err)
		}
		if jsonOutput {
			printJSON(entry)
			return nil
		}
		fmt.Printf("logged %s as %s\n", timer.FormatClock(entry.Duration), entry.ID)
		return nil
	},
}

var stopwatchStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current stopwatch reading",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		store.SetMode(timer.ModeStopwatch)
		if stopwatchFollow {
			runFollow(store, tempoClient)
			return nil
		}
		fmt.Println(store.Display())
		return nil
	},
}

func init() {
	stopwatchStartCmd.Flags().StringVar(&flagLabel, "label", "", "free-form session label")
	stopwatchStartCmd.Flags().StringVar(&flagTask, "task", "", "task id to attribute the session to")
	stopwatchStartCmd.Flags().StringVar(&flagEvent, "event", "", "event id to attribute the session to")
	stopwatchStartCmd.Flags().BoolVar(&flagFocus, "focus", false, "mark the session distraction-free")
	stopwatchStatusCmd.Flags().BoolVar(&stopwatchFollow, "follow", false, "render a live display until interrupted")

	stopwatchCmd.AddCommand(stopwatchStartCmd)
	stopwatchCmd.AddCommand(stopwatchPauseCmd)
	stopwatchCmd.AddCommand(stopwatchResumeCmd)
	stopwatchCmd.AddCommand(stopwatchStopCmd)
	stopwatchCmd.AddCommand(stopwatchStatusCmd)
}
