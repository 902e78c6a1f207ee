package events

import (
	"context"

	"github.com/alfredjeanlab/tempo/internal/model"
)

// Event topic constants
const (
	TopicEntryCreated = "tempo.entry.created"
	TopicEntryDeleted = "tempo.entry.deleted"

	// Pomodoro lifecycle events
	TopicPomodoroStarted        = "tempo.pomodoro.started"
	TopicPomodoroPhaseCompleted = "tempo.pomodoro.phase_completed"
	TopicPomodoroCancelled      = "tempo.pomodoro.cancelled"

	// Workflow board events
	TopicBoardNodeAdded    = "tempo.board.node_added"
	TopicBoardNodeRemoved  = "tempo.board.node_removed"
	TopicBoardEdgeAdded    = "tempo.board.edge_added"
	TopicBoardEdgeRemoved  = "tempo.board.edge_removed"
	TopicBoardEdgeRejected = "tempo.board.edge_rejected"
)

// Event types

type EntryCreated struct {
	Entry *model.TimeEntry `json:"entry"`
}

type EntryDeleted struct {
	EntryID string `json:"entry_id"`
}

type PomodoroStarted struct {
	Run *model.PomodoroRun `json:"run"`
}

type PomodoroPhaseCompleted struct {
	Record *model.PhaseRecord `json:"record"`
}

type PomodoroCancelled struct {
	RunID       string             `json:"run_id"`
	PartialWork *model.PartialWork `json:"partial_work,omitempty"`
}

type BoardNodeAdded struct {
	Node *model.WorkflowNode `json:"node"`
}

type BoardNodeRemoved struct {
	BoardID string `json:"board_id"`
	NodeID  string `json:"node_id"`
}

type BoardEdgeAdded struct {
	Edge *model.WorkflowEdge `json:"edge"`
}

type BoardEdgeRemoved struct {
	BoardID string `json:"board_id"`
	EdgeID  string `json:"edge_id"`
}

// BoardEdgeRejected is emitted when an edge is refused because it would
// create a cycle, duplicate an existing edge, or form a self-loop.
type BoardEdgeRejected struct {
	BoardID  string `json:"board_id"`
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Reason   string `json:"reason"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
