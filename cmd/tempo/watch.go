package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alfredjeanlab/tempo/internal/events"
	"github.com/alfredjeanlab/tempo/internal/ui"
	"github.com/spf13/cobra"
)

var watchNATSURL string

func defaultNATSURL() string {
	if s := os.Getenv("TEMPO_NATS_URL"); s != "" {
		return s
	}
	if u := activeRemoteNATSURL(); u != "" {
		return u
	}
	return "nats://localhost:4222"
}

var watchCmd = &cobra.Command{
	Use:     "watch [topic]",
	Short:   "Stream server events (default topic: tempo.>)",
	GroupID: "system",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := "tempo.>"
		if len(args) == 1 {
			topic = args[0]
		}

		sub, err := events.NewNATSSubscriber(watchNATSURL)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			return fmt.Errorf("subscribing to %s: %w", topic, err)
		}
		defer cancel()

		fmt.Fprintf(os.Stderr, "watching %s (ctrl-c to stop)\n", topic)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		for {
			select {
			case <-sigCh:
				return nil
			case data, ok := <-ch:
				if !ok {
					return nil
				}
				printEvent(data)
			}
		}
	},
}

// printEvent pretty-prints one event payload, falling back to the raw
// bytes when it isn't JSON.
func printEvent(data []byte) {
	var compact map[string]any
	if err := json.Unmarshal(data, &compact); err != nil {
		fmt.Println(string(data))
		return
	}
	line, err := json.Marshal(compact)
	if err != nil {
		fmt.Println(string(data))
		return
	}
	fmt.Println(ui.RenderMuted(string(line)))
}

func init() {
	watchCmd.Flags().StringVar(&watchNATSURL, "nats-url", defaultNATSURL(), "NATS server URL")
}
