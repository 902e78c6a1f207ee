package store

import (
	"context"

	"github.com/alfredjeanlab/tempo/internal/model"
)

// Store defines the persistence interface for tempo.
type Store interface {
	// Time entries
	CreateTimeEntry(ctx context.Context, entry *model.TimeEntry) error
	GetTimeEntry(ctx context.Context, id string) (*model.TimeEntry, error)
	ListTimeEntries(ctx context.Context, filter model.EntryFilter) ([]*model.TimeEntry, int, error) // returns entries, total count, error
	DeleteTimeEntry(ctx context.Context, id string) error

	// Pomodoro runs
	CreatePomodoroRun(ctx context.Context, run *model.PomodoroRun) error
	GetPomodoroRun(ctx context.Context, id string) (*model.PomodoroRun, error)
	CompletePomodoroPhase(ctx context.Context, rec *model.PhaseRecord) error
	GetPhaseRecords(ctx context.Context, runID string) ([]*model.PhaseRecord, error)
	CancelPomodoroRun(ctx context.Context, id string, partial *model.PartialWork) error

	// Preferences
	GetPomodoroPreferences(ctx context.Context, userID string) (model.PomodoroPreferences, error)
	UpdatePomodoroPreferences(ctx context.Context, userID string, prefs model.PomodoroPreferences) error

	// Tasks
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, userID string) ([]*model.Task, error)
	UpdateTask(ctx context.Context, task *model.Task) error

	// Calendar events
	CreateEvent(ctx context.Context, event *model.Event) error
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	ListEvents(ctx context.Context, userID string) ([]*model.Event, error)

	// Workflow boards
	CreateBoard(ctx context.Context, board *model.Board) error
	GetBoard(ctx context.Context, id string) (*model.Board, error)
	ListBoards(ctx context.Context, userID string) ([]*model.Board, error)
	DeleteBoard(ctx context.Context, id string) error
	GetWorkflowGraph(ctx context.Context, boardID string) (*model.WorkflowGraph, error)
	AddWorkflowNode(ctx context.Context, node *model.WorkflowNode) error
	RemoveWorkflowNode(ctx context.Context, boardID, nodeID string) error
	AddWorkflowEdge(ctx context.Context, edge *model.WorkflowEdge) error
	RemoveWorkflowEdge(ctx context.Context, boardID, edgeID string) error

	// Streaks
	GetStreakSource(ctx context.Context, userID string) ([]model.TimeEntry, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
