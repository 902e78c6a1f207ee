package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alfredjeanlab/tempo/internal/client"
	"github.com/spf13/cobra"
)

var (
	eventStarts string
	eventEnds   string
	eventAllDay bool
)

var eventCmd = &cobra.Command{
	Use:     "event",
	Short:   "Manage calendar events",
	GroupID: "tracking",
}

var eventCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a calendar event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		starts, err := time.Parse(time.RFC3339, eventStarts)
		if err != nil {
			return fmt.Errorf("invalid --starts: %w", err)
		}
		ends, err := time.Parse(time.RFC3339, eventEnds)
		if err != nil {
			return fmt.Errorf("invalid --ends: %w", err)
		}

		event, err := tempoClient.CreateEvent(context.Background(), &client.CreateEventRequest{
			UserID:   userID,
			Title:    args[0],
			StartsAt: starts,
			EndsAt:   ends,
			AllDay:   eventAllDay,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(event)
			return nil
		}
		fmt.Printf("created %s\n", event.ID)
		return nil
	},
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List calendar events",
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := tempoClient.ListEvents(context.Background(), userID)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(events)
			return nil
		}
		printEventListTable(events)
		return nil
	},
}

var eventShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one calendar event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		event, err := tempoClient.GetEvent(context.Background(), args[0])
		if err != nil {
			return err
		}
		printJSON(event)
		return nil
	},
}

func init() {
	eventCreateCmd.Flags().StringVar(&eventStarts, "starts", "", "event start (RFC3339)")
	eventCreateCmd.Flags().StringVar(&eventEnds, "ends", "", "event end (RFC3339)")
	eventCreateCmd.Flags().BoolVar(&eventAllDay, "all-day", false, "all-day event")
	_ = eventCreateCmd.MarkFlagRequired("starts")
	_ = eventCreateCmd.MarkFlagRequired("ends")

	eventCmd.AddCommand(eventCreateCmd)
	eventCmd.AddCommand(eventListCmd)
	eventCmd.AddCommand(eventShowCmd)
}
