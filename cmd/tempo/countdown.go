package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alfredjeanlab/tempo/internal/timer"
	"github.com/alfredjeanlab/tempo/internal/ui"
	"github.com/spf13/cobra"
)

var countdownCmd = &cobra.Command{
	Use:     "timer",
	Short:   "Named fixed-duration countdown timers",
	GroupID: "timers",
}

var countdownAddCmd = &cobra.Command{
	Use:   "add <name> <duration>",
	Short: "Create a countdown timer (e.g. \"tea 3m\")",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := time.ParseDuration(args[1])
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", args[1], err)
		}
		if d <= 0 {
			return fmt.Errorf("duration must be positive")
		}

		store, err := openTimerStore()
		if err != nil {
			return err
		}
		id, ok := store.CreateTimer(args[0], int64(d/time.Second), currentAssignment())
		if !ok {
			return fmt.Errorf("timer limit reached (%d); delete one first", timer.MaxCountdownTimers)
		}
		fmt.Printf("created %s (%s)\n", id, timer.FormatClock(int64(d/time.Second)))
		return nil
	},
}

var countdownStartCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Start a countdown timer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		store.SetMode(timer.ModeTimer)
		if !store.StartTimer(args[0]) {
			return fmt.Errorf("no such timer: %s", args[0])
		}
		store.SetActiveTimer(args[0])
		fmt.Println(ui.RenderAccent(store.Display()))
		return nil
	},
}

var countdownPauseCmd = &cobra.Command{
	Use:   "pause <id>",
	Short: "Pause a running countdown timer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		if !store.PauseTimer(args[0]) {
			return fmt.Errorf("no such timer: %s", args[0])
		}
		fmt.Println(ui.RenderPaused(store.Display()))
		return nil
	},
}

var countdownResumeCmd = &cobra.Command{
	Use:   "resume <id>",
	Short: "Resume a paused countdown timer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		if !store.ResumeTimer(args[0]) {
			return fmt.Errorf("no such timer: %s", args[0])
		}
		fmt.Println(ui.RenderAccent(store.Display()))
		return nil
	},
}

var countdownStopCmd = &cobra.Command{
	Use:   "stop <id>",
	Short: "Stop a countdown timer and log the elapsed time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		snap, ok := store.StopTimer(args[0])
		if !ok {
			return fmt.Errorf("no such timer: %s", args[0])
		}
		if snap.Elapsed == 0 {
			fmt.Println("nothing to log")
			return nil
		}

		entry, err := postEntry(tempoClient, snap.StartedAt, snap.StoppedAt, snap.Assignment, "timer")
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

var countdownDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a countdown timer without logging",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		if !store.DeleteTimer(args[0]) {
			return fmt.Errorf("no such timer: %s", args[0])
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

var countdownListCmd = &cobra.Command{
	Use:   "list",
	Short: "List countdown timers",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTimerStore()
		if err != nil {
			return err
		}
		snap := store.Snapshot()
		now := store.Clock().Now()

		if jsonOutput {
			printJSON(snap.Timers)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tREMAINING\tDURATION")
		for _, t := range snap.Timers {
			marker := ""
			if t.ID == snap.ActiveTimerID {
				marker = " *"
			}
			fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\t%s\n",
				t.ID, marker, t.Name, t.Status,
				timer.FormatClock(t.Remaining(now)),
				timer.FormatClock(t.Duration),
			)
		}
		w.Flush()
		fmt.Printf("\n%d of %d timers\n", len(snap.Timers), timer.MaxCountdownTimers)
		return nil
	},
}

func init() {
	countdownAddCmd.Flags().StringVar(&flagLabel, "label", "", "free-form session label")
	countdownAddCmd.Flags().StringVar(&flagTask, "task", "", "task id to attribute the session to")
	countdownAddCmd.Flags().StringVar(&flagEvent, "event", "", "event id to attribute the session to")
	countdownAddCmd.Flags().BoolVar(&flagFocus, "focus", false, "mark the session distraction-free")

	countdownCmd.AddCommand(countdownAddCmd)
	countdownCmd.AddCommand(countdownStartCmd)
	countdownCmd.AddCommand(countdownPauseCmd)
	countdownCmd.AddCommand(countdownResumeCmd)
	countdownCmd.AddCommand(countdownStopCmd)
	countdownCmd.AddCommand(countdownDeleteCmd)
	countdownCmd.AddCommand(countdownListCmd)
}
