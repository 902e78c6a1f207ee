package main

import (
	"os"

	"github.com/alfredjeanlab/tempo/internal/client"
	"github.com/alfredjeanlab/tempo/internal/ui"
	"github.com/spf13/cobra"
)

var (
	serverURL  string
	authToken  string
	userID     string
	jsonOutput bool

	tempoClient client.TempoClient
)

func defaultServerURL() string {
	if s := os.Getenv("TEMPO_HTTP_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if t := os.Getenv("TEMPO_AUTH_TOKEN"); t != "" {
		return t
	}
	return activeRemoteToken()
}

func defaultUser() string {
	if u := os.Getenv("TEMPO_USER"); u != "" {
		return u
	}
	return "default"
}

var rootCmd = &cobra.Command{
	Use:   "tempo <command>",
	Short: "Time tracking, pomodoro, and workflow boards",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		tempoClient = client.NewHTTPClient(serverURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if tempoClient != nil {
			tempoClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(), "tempo server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for the server")
	rootCmd.PersistentFlags().StringVar(&userID, "user", defaultUser(), "user id for created records")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "timers", Title: "Timers:"},
		&cobra.Group{ID: "tracking", Title: "Tracking:"},
		&cobra.Group{ID: "boards", Title: "Boards:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false

	// Timers (local state machine)
	rootCmd.AddCommand(stopwatchCmd)
	rootCmd.AddCommand(pomodoroCmd)
	rootCmd.AddCommand(countdownCmd)

	// Tracking
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(eventCmd)
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(prefsCmd)

	// Boards
	rootCmd.AddCommand(boardCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
