package model

import "time"

// NodeType identifies the kind of external item a workflow node references.
type NodeType string

const (
	NodeTask  NodeType = "task"
	NodeEvent NodeType = "event"
)

// String returns the string representation of the node type.
func (t NodeType) String() string {
	return string(t)
}

// IsValid checks whether the node type is a known value.
func (t NodeType) IsValid() bool {
	return t == NodeTask || t == NodeEvent
}

// Position is a node's placement on the board canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WorkflowNode places a task or event on a workflow board. The node only
// references the external item; Task/Event are populated by the caller when
// status derivation needs them. Removing a node never deletes the
// underlying item.
type WorkflowNode struct {
	ID           string    `json:"id"`
	BoardID      string    `json:"board_id,omitempty"`
	ExternalID   string    `json:"external_id"`
	ExternalType NodeType  `json:"external_type"`
	Position     Position  `json:"position"`
	Task         *Task     `json:"task,omitempty"`
	Event        *Event    `json:"event,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// WorkflowEdge is a directed dependency between two nodes on the same
// board: the source must come before the target.
type WorkflowEdge struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"board_id,omitempty"`
	SourceID  string    `json:"source_id"`
	TargetID  string    `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkflowGraph is an immutable snapshot of a board's nodes and edges.
// The graph utilities never mutate it; callers replace the snapshot after
// any mutation.
type WorkflowGraph struct {
	Nodes []*WorkflowNode `json:"nodes"`
	Edges []*WorkflowEdge `json:"edges"`
}

// Board is a named workflow graph.
type Board struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
