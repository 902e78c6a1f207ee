package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alfredjeanlab/tempo/internal/client"
	"github.com/spf13/cobra"
)

var (
	entriesSource string
	entriesFocus  bool
	entriesSince  string
	entriesUntil  string
	entriesLimit  int
	entriesOffset int

	logStart string
	logEnd   string
	logLabel string
	logTask  string
	logEvent string
	logFocus bool
)

var entriesCmd = &cobra.Command{
	Use:     "entries",
	Short:   "Browse and manage logged time entries",
	GroupID: "tracking",
}

var entriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List time entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.ListEntriesRequest{
			UserID: userID,
			Limit:  entriesLimit,
			Offset: entriesOffset,
		}
		if entriesSource != "" {
			req.Source = []string{entriesSource}
		}
		if cmd.Flags().Changed("focus") {
			req.DistractionFree = &entriesFocus
		}
		if entriesSince != "" {
			t, err := time.Parse(time.RFC3339, entriesSince)
			if err != nil {
				return fmt.Errorf("invalid --since: %w", err)
			}
			req.Since = &t
		}
		if entriesUntil != "" {
			t, err := time.Parse(time.RFC3339, entriesUntil)
			if err != nil {
				return fmt.Errorf("invalid --until: %w", err)
			}
			req.Until = &t
		}

		resp, err := tempoClient.ListEntries(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(resp)
			return nil
		}
		printEntryListTable(resp.Entries, resp.Total)
		return nil
	},
}

var entriesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one time entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := tempoClient.GetEntry(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(entry)
			return nil
		}
		printEntryTable(entry)
		return nil
	},
}

var entriesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a time entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tempoClient.DeleteEntry(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

var entriesLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a finished session by hand",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := time.Parse(time.RFC3339, logStart)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		end, err := time.Parse(time.RFC3339, logEnd)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}

		entry, err := tempoClient.CreateEntry(context.Background(), &client.CreateEntryRequest{
			UserID:          userID,
			Start:           start,
			End:             end,
			Label:           logLabel,
			TaskID:          logTask,
			EventID:         logEvent,
			DistractionFree: logFocus,
			Source:          "stopwatch",
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(entry)
			return nil
		}
		printEntryTable(entry)
		return nil
	},
}

func init() {
	entriesListCmd.Flags().StringVar(&entriesSource, "source", "", "filter by source (stopwatch, pomodoro, timer)")
	entriesListCmd.Flags().BoolVar(&entriesFocus, "focus", false, "filter by distraction-free flag")
	entriesListCmd.Flags().StringVar(&entriesSince, "since", "", "only entries starting at or after this RFC3339 time")
	entriesListCmd.Flags().StringVar(&entriesUntil, "until", "", "only entries starting before this RFC3339 time")
	entriesListCmd.Flags().IntVar(&entriesLimit, "limit", 50, "maximum entries to return")
	entriesListCmd.Flags().IntVar(&entriesOffset, "offset", 0, "entries to skip")

	entriesLogCmd.Flags().StringVar(&logStart, "start", "", "session start (RFC3339)")
	entriesLogCmd.Flags().StringVar(&logEnd, "end", "", "session end (RFC3339)")
	entriesLogCmd.Flags().StringVar(&logLabel, "label", "", "free-form session label")
	entriesLogCmd.Flags().StringVar(&logTask, "task", "", "task id")
	entriesLogCmd.Flags().StringVar(&logEvent, "event", "", "event id")
	entriesLogCmd.Flags().BoolVar(&logFocus, "focus", false, "mark the session distraction-free")
	_ = entriesLogCmd.MarkFlagRequired("start")
	_ = entriesLogCmd.MarkFlagRequired("end")

	entriesCmd.AddCommand(entriesListCmd)
	entriesCmd.AddCommand(entriesShowCmd)
	entriesCmd.AddCommand(entriesDeleteCmd)
	entriesCmd.AddCommand(entriesLogCmd)
}
