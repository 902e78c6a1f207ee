package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/tempo/internal/model"
)

func nonEmptyLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func TestExportJSONL(t *testing.T) {
	ms := newMockStore()
	now := time.Now().UTC()

	ms.entries["te-1"] = &model.TimeEntry{
		ID:              "te-1",
		UserID:          "u1",
		Start:           now.Add(-time.Hour),
		End:             now,
		Duration:        3600,
		DistractionFree: true,
		Source:          model.SourceStopwatch,
	}
	ms.tasks["task-1"] = &model.Task{ID: "task-1", Title: "Write report", Status: model.TaskOpen}
	ms.events["ev-1"] = &model.Event{ID: "ev-1", Title: "Standup", StartsAt: now, EndsAt: now.Add(30 * time.Minute)}
	ms.boards["wb-1"] = &model.Board{ID: "wb-1", Name: "release"}
	ms.nodes["wb-1"] = []*model.WorkflowNode{
		{ID: "wn-1", BoardID: "wb-1", ExternalID: "task-1", ExternalType: model.NodeTask},
	}

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("ExportJSONL() error = %v", err)
	}

	lines := nonEmptyLines(buf.String())
	// 1 header + 1 entry + 1 task + 1 event + 1 board = 5
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %s", len(lines), buf.String())
	}

	var hdr header
	if err := json.Unmarshal([]byte(lines[0]), &hdr); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if hdr.Type != "header" || hdr.Version != "1" {
		t.Errorf("header = %+v", hdr)
	}
	if hdr.EntryCount != 1 || hdr.TaskCount != 1 || hdr.EventCount != 1 || hdr.BoardCount != 1 {
		t.Errorf("header counts = %+v", hdr)
	}

	// Each following line carries a type discriminator.
	types := map[string]int{}
	for _, l := range lines[1:] {
		var rec struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal([]byte(l), &rec); err != nil {
			t.Fatalf("unmarshal record: %v", err)
		}
		types[rec.Type]++
	}
	for _, want := range []string{"entry", "task", "event", "board"} {
		if types[want] != 1 {
			t.Errorf("record type %q count = %d, want 1", want, types[want])
		}
	}
}

func TestExportJSONL_BoardCarriesGraph(t *testing.T) {
	ms := newMockStore()
	ms.boards["wb-1"] = &model.Board{ID: "wb-1", Name: "release"}
	ms.nodes["wb-1"] = []*model.WorkflowNode{
		{ID: "a", BoardID: "wb-1", ExternalID: "task-a", ExternalType: model.NodeTask},
		{ID: "b", BoardID: "wb-1", ExternalID: "task-b", ExternalType: model.NodeTask},
	}
	ms.edges["wb-1"] = []*model.WorkflowEdge{
		{ID: "e1", BoardID: "wb-1", SourceID: "a", TargetID: "b"},
	}

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("ExportJSONL() error = %v", err)
	}

	lines := nonEmptyLines(buf.String())
	var rec struct {
		Type string      `json:"type"`
		Data boardExport `json:"data"`
	}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &rec); err != nil {
		t.Fatalf("unmarshal board record: %v", err)
	}
	if rec.Type != "board" {
		t.Fatalf("type = %q, want board", rec.Type)
	}
	if len(rec.Data.Graph.Nodes) != 2 || len(rec.Data.Graph.Edges) != 1 {
		t.Errorf("graph = %d nodes, %d edges", len(rec.Data.Graph.Nodes), len(rec.Data.Graph.Edges))
	}
}

func TestExportJSONL_Empty(t *testing.T) {
	ms := newMockStore()

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("ExportJSONL() error = %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
}
