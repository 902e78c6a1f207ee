package main

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/tempo/internal/ui"
	"github.com/spf13/cobra"
)

var streakCmd = &cobra.Command{
	Use:     "streak",
	Short:   "Show your distraction-free focus streak",
	GroupID: "tracking",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := tempoClient.GetStreak(context.Background(), userID)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(s)
			return nil
		}
		fmt.Printf("current: %s\n", ui.RenderAccent(fmt.Sprintf("%d days", s.Current)))
		fmt.Printf("best:    %s\n", ui.RenderMuted(fmt.Sprintf("%d days", s.Best)))
		return nil
	},
}
