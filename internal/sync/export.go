package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/tempo/internal/model"
	"github.com/alfredjeanlab/tempo/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version    string    `json:"version"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	EntryCount int       `json:"entry_count"`
	TaskCount  int       `json:"task_count"`
	EventCount int       `json:"event_count"`
	BoardCount int       `json:"board_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// boardExport carries a board together with its graph snapshot so a backup
// restores dependencies, not just the board row.
type boardExport struct {
	Board *model.Board         `json:"board"`
	Graph *model.WorkflowGraph `json:"graph"`
}

// ExportJSONL writes all time entries, tasks, events, and boards from the
// store as JSONL to w. Records are sorted by ID for stable diffs.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	// Fetch all entries (no filter, no limit).
	entries, _, err := s.ListTimeEntries(ctx, model.EntryFilter{})
	if err != nil {
		return fmt.Errorf("list time entries: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})

	tasks, err := s.ListTasks(ctx, "")
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID < tasks[j].ID
	})

	events, err := s.ListEvents(ctx, "")
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].ID < events[j].ID
	})

	boards, err := s.ListBoards(ctx, "")
	if err != nil {
		return fmt.Errorf("list boards: %w", err)
	}
	sort.Slice(boards, func(i, j int) bool {
		return boards[i].ID < boards[j].ID
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	// Write header.
	if err := enc.Encode(header{
		Version:    "1",
		Type:       "header",
		Timestamp:  time.Now().UTC(),
		EntryCount: len(entries),
		TaskCount:  len(tasks),
		EventCount: len(events),
		BoardCount: len(boards),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, e := range entries {
		if err := enc.Encode(record{Type: "entry", Data: e}); err != nil {
			return fmt.Errorf("encode entry %s: %w", e.ID, err)
		}
	}
	for _, t := range tasks {
		if err := enc.Encode(record{Type: "task", Data: t}); err != nil {
			return fmt.Errorf("encode task %s: %w", t.ID, err)
		}
	}
	for _, e := range events {
		if err := enc.Encode(record{Type: "event", Data: e}); err != nil {
			return fmt.Errorf("encode event %s: %w", e.ID, err)
		}
	}
	for _, b := range boards {
		graph, err := s.GetWorkflowGraph(ctx, b.ID)
		if err != nil {
			return fmt.Errorf("get graph for %s: %w", b.ID, err)
		}
		if err := enc.Encode(record{Type: "board", Data: boardExport{Board: b, Graph: graph}}); err != nil {
			return fmt.Errorf("encode board %s: %w", b.ID, err)
		}
	}

	return nil
}
