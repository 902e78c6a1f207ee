// Package client provides a transport-agnostic interface for the tempo
// service and an HTTP/JSON implementation that talks to the tempo REST API.
package client

import (
	"context"
	"time"

	"github.com/alfredjeanlab/tempo/internal/model"
	"github.com/alfredjeanlab/tempo/internal/streak"
	"github.com/alfredjeanlab/tempo/internal/workflow"
)

// TempoClient is the interface that all tempo CLI commands use to communicate
// with the tempo server. It is implemented by HTTPClient (default) and can be
// backed by any transport.
type TempoClient interface {
	// Time entries
	CreateEntry(ctx context.Context, req *CreateEntryRequest) (*model.TimeEntry, error)
	GetEntry(ctx context.Context, id string) (*model.TimeEntry, error)
	ListEntries(ctx context.Context, req *ListEntriesRequest) (*ListEntriesResponse, error)
	DeleteEntry(ctx context.Context, id string) error

	// Pomodoro runs
	CreateRun(ctx context.Context, req *CreateRunRequest) (*model.PomodoroRun, error)
	GetRun(ctx context.Context, id string) (*RunResponse, error)
	CompletePhase(ctx context.Context, runID string, req *CompletePhaseRequest) (*CompletePhaseResponse, error)
	CancelRun(ctx context.Context, runID string, partial *model.PartialWork) (*CancelRunResponse, error)

	// Preferences
	GetPreferences(ctx context.Context, userID string) (model.PomodoroPreferences, error)
	UpdatePreferences(ctx context.Context, userID string, prefs model.PomodoroPreferences) error

	// Streaks
	GetStreak(ctx context.Context, userID string) (streak.Streak, error)

	// Tasks
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, userID string) ([]*model.Task, error)
	UpdateTask(ctx context.Context, id string, req *UpdateTaskRequest) (*model.Task, error)

	// Calendar events
	CreateEvent(ctx context.Context, req *CreateEventRequest) (*model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	ListEvents(ctx context.Context, userID string) ([]*model.Event, error)

	// Workflow boards
	CreateBoard(ctx context.Context, req *CreateBoardRequest) (*model.Board, error)
	GetBoard(ctx context.Context, id string) (*BoardResponse, error)
	ListBoards(ctx context.Context, userID string) ([]*model.Board, error)
	DeleteBoard(ctx context.Context, id string) error
	AddNode(ctx context.Context, boardID string, req *AddNodeRequest) (*model.WorkflowNode, error)
	RemoveNode(ctx context.Context, boardID, nodeID string) error
	AddEdge(ctx context.Context, boardID, sourceID, targetID string) (*model.WorkflowEdge, error)
	RemoveEdge(ctx context.Context, boardID, edgeID string) error
	ValidateBoard(ctx context.Context, boardID string) (*workflow.ValidationResult, error)
	BoardOrder(ctx context.Context, boardID string) (*BoardOrderResponse, error)
	BoardStatuses(ctx context.Context, boardID string) (*BoardStatusesResponse, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateEntryRequest holds parameters for creating a time entry.
type CreateEntryRequest struct {
	UserID          string    `json:"user_id,omitempty"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Label           string    `json:"label,omitempty"`
	TaskID          string    `json:"task_id,omitempty"`
	EventID         string    `json:"event_id,omitempty"`
	DistractionFree bool      `json:"distraction_free"`
	Source          string    `json:"source"`
}

// ListEntriesRequest holds parameters for listing time entries.
type ListEntriesRequest struct {
	UserID          string
	Source          []string
	TaskID          string
	EventID         string
	DistractionFree *bool
	Since           *time.Time
	Until           *time.Time
	Limit           int
	Offset          int
}

// ListEntriesResponse is the response from ListEntries.
type ListEntriesResponse struct {
	Entries []*model.TimeEntry `json:"entries"`
	Total   int                `json:"total"`
}

// CreateRunRequest holds parameters for starting a pomodoro run. Nil
// preferences mean the user's stored preferences apply.
type CreateRunRequest struct {
	UserID      string                     `json:"user_id,omitempty"`
	Preferences *model.PomodoroPreferences `json:"preferences,omitempty"`
}

// RunResponse is the response from GetRun.
type RunResponse struct {
	Run    *model.PomodoroRun   `json:"run"`
	Phases []*model.PhaseRecord `json:"phases"`
}

// CompletePhaseRequest holds parameters for recording a completed phase.
type CompletePhaseRequest struct {
	Phase string    `json:"phase"`
	Cycle int       `json:"cycle"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CompletePhaseResponse is the response from CompletePhase. Entry is nil
// for break phases.
type CompletePhaseResponse struct {
	Record *model.PhaseRecord `json:"record"`
	Entry  *model.TimeEntry   `json:"entry"`
}

// CancelRunResponse is the response from CancelRun. Entry is nil when no
// partial work was logged.
type CancelRunResponse struct {
	RunID string           `json:"run_id"`
	Entry *model.TimeEntry `json:"entry"`
}

// CreateTaskRequest holds parameters for creating a task.
type CreateTaskRequest struct {
	UserID   string     `json:"user_id,omitempty"`
	Title    string     `json:"title"`
	Priority int        `json:"priority,omitempty"`
	DueAt    *time.Time `json:"due_at,omitempty"`
}

// UpdateTaskRequest holds optional parameters for updating a task.
// Nil pointer fields mean "don't change".
type UpdateTaskRequest struct {
	Title    *string    `json:"title,omitempty"`
	Status   *string    `json:"status,omitempty"`
	Priority *int       `json:"priority,omitempty"`
	DueAt    *time.Time `json:"due_at,omitempty"`
}

// CreateEventRequest holds parameters for creating a calendar event.
type CreateEventRequest struct {
	UserID   string    `json:"user_id,omitempty"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	AllDay   bool      `json:"all_day,omitempty"`
}

// CreateBoardRequest holds parameters for creating a workflow board.
type CreateBoardRequest struct {
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name"`
}

// BoardResponse is the response from GetBoard.
type BoardResponse struct {
	Board *model.Board         `json:"board"`
	Graph *model.WorkflowGraph `json:"graph"`
}

// AddNodeRequest holds parameters for placing a task or event on a board.
type AddNodeRequest struct {
	ExternalID   string         `json:"external_id"`
	ExternalType string         `json:"external_type"`
	Position     model.Position `json:"position"`
}

// BoardOrderResponse is the response from BoardOrder. Order is nil when
// the graph is cyclic.
type BoardOrderResponse struct {
	Order  []string `json:"order"`
	Cyclic bool     `json:"cyclic"`
}

// BoardStatusesResponse is the response from BoardStatuses.
type BoardStatusesResponse struct {
	Statuses []workflow.NodeStatus `json:"statuses"`
	Progress int                   `json:"progress"`
}
