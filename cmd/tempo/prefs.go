package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	prefsWork       int
	prefsShortBreak int
	prefsLongBreak  int
	prefsLongEvery  int
	prefsAutoPhase  bool
	prefsAutoWork   bool
)

var prefsCmd = &cobra.Command{
	Use:     "prefs",
	Short:   "View and change pomodoro preferences",
	GroupID: "tracking",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := tempoClient.GetPreferences(context.Background(), userID)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(prefs)
			return nil
		}
		fmt.Printf("work:          %d min\n", prefs.WorkMinutes)
		fmt.Printf("short break:   %d min\n", prefs.ShortBreakMinutes)
		fmt.Printf("long break:    %d min\n", prefs.LongBreakMinutes)
		fmt.Printf("long every:    %d cycles\n", prefs.LongBreakEvery)
		fmt.Printf("auto phase:    %t\n", prefs.AutoStartNextPhase)
		fmt.Printf("auto work:     %t\n", prefs.AutoStartNextWork)
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change preferences; unset flags keep their stored value",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		prefs, err := tempoClient.GetPreferences(ctx, userID)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("work") {
			prefs.WorkMinutes = prefsWork
		}
		if cmd.Flags().Changed("short-break") {
			prefs.ShortBreakMinutes = prefsShortBreak
		}
		if cmd.Flags().Changed("long-break") {
			prefs.LongBreakMinutes = prefsLongBreak
		}
		if cmd.Flags().Changed("long-every") {
			prefs.LongBreakEvery = prefsLongEvery
		}
		if cmd.Flags().Changed("auto-phase") {
			prefs.AutoStartNextPhase = prefsAutoPhase
		}
		if cmd.Flags().Changed("auto-work") {
			prefs.AutoStartNextWork = prefsAutoWork
		}

		if err := tempoClient.UpdatePreferences(ctx, userID, prefs); err != nil {
			return err
		}
		fmt.Println("preferences updated")
		return nil
	},
}

func init() {
	prefsSetCmd.Flags().IntVar(&prefsWork, "work", 25, "work phase length in minutes")
	prefsSetCmd.Flags().IntVar(&prefsShortBreak, "short-break", 5, "short break length in minutes")
	prefsSetCmd.Flags().IntVar(&prefsLongBreak, "long-break", 15, "long break length in minutes")
	prefsSetCmd.Flags().IntVar(&prefsLongEvery, "long-every", 4, "work phases per long break")
	prefsSetCmd.Flags().BoolVar(&prefsAutoPhase, "auto-phase", false, "auto-start breaks after work")
	prefsSetCmd.Flags().BoolVar(&prefsAutoWork, "auto-work", false, "auto-start work after breaks")

	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsSetCmd)
}
