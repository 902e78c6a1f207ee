package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alfredjeanlab/tempo/internal/model"
	"github.com/alfredjeanlab/tempo/internal/timer"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func printEntryTable(e *model.TimeEntry) {
	fmt.Printf("ID:           %s\n", e.ID)
	fmt.Printf("Start:        %s\n", formatTime(e.Start))
	fmt.Printf("End:          %s\n", formatTime(e.End))
	fmt.Printf("Duration:     %s\n", timer.FormatClock(e.Duration))
	fmt.Printf("Source:       %s\n", e.Source)
	if e.Label != "" {
		fmt.Printf("Label:        %s\n", e.Label)
	}
	if e.TaskID != "" {
		fmt.Printf("Task:         %s\n", e.TaskID)
	}
	if e.EventID != "" {
		fmt.Printf("Event:        %s\n", e.EventID)
	}
	fmt.Printf("Focus:        %t\n", e.DistractionFree)
	if e.PomodoroRunID != "" {
		fmt.Printf("Pomodoro:     %s (cycle %d)\n", e.PomodoroRunID, e.PomodoroCycle)
	}
}

func printEntryListTable(entries []*model.TimeEntry, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTART\tDURATION\tSOURCE\tFOCUS\tLABEL")
	for _, e := range entries {
		label := e.Label
		if len(label) > 40 {
			label = label[:37] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
			e.ID,
			formatTime(e.Start),
			timer.FormatClock(e.Duration),
			e.Source,
			e.DistractionFree,
			label,
		)
	}
	w.Flush()
	fmt.Printf("\n%d entries (%d total)\n", len(entries), total)
}

func printTaskListTable(tasks []*model.Task) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
	for _, t := range tasks {
		due := ""
		if t.DueAt != nil {
			due = formatTime(*t.DueAt)
		}
		title := t.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", t.ID, t.Status, t.Priority, due, title)
	}
	w.Flush()
	fmt.Printf("\n%d tasks\n", len(tasks))
}

func printEventListTable(events []*model.Event) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTS\tENDS\tALL-DAY\tTITLE")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
			e.ID, formatTime(e.StartsAt), formatTime(e.EndsAt), e.AllDay, e.Title)
	}
	w.Flush()
	fmt.Printf("\n%d events\n", len(events))
}

func printBoardListTable(boards []*model.Board) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCREATED")
	for _, b := range boards {
		fmt.Fprintf(w, "%s\t%s\t%s\n", b.ID, b.Name, formatTime(b.CreatedAt))
	}
	w.Flush()
	fmt.Printf("\n%d boards\n", len(boards))
}
