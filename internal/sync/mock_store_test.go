package sync

import (
	"context"
	"database/sql"

	"github.com/alfredjeanlab/tempo/internal/model"
	"github.com/alfredjeanlab/tempo/internal/store"
)

// mockStore is a minimal in-memory store for sync tests.
type mockStore struct {
	entries map[string]*model.TimeEntry
	runs    map[string]*model.PomodoroRun
	phases  map[string][]*model.PhaseRecord
	prefs   map[string]model.PomodoroPreferences
	tasks   map[string]*model.Task
	events  map[string]*model.Event
	boards  map[string]*model.Board
	nodes   map[string][]*model.WorkflowNode
	edges   map[string][]*model.WorkflowEdge
}

func newMockStore() *mockStore {
	return &mockStore{
		entries: make(map[string]*model.TimeEntry),
		runs:    make(map[string]*model.PomodoroRun),
		phases:  make(map[string][]*model.PhaseRecord),
		prefs:   make(map[string]model.PomodoroPreferences),
		tasks:   make(map[string]*model.Task),
		events:  make(map[string]*model.Event),
		boards:  make(map[string]*model.Board),
		nodes:   make(map[string][]*model.WorkflowNode),
		edges:   make(map[string][]*model.WorkflowEdge),
	}
}

var _ store.Store = (*mockStore)(nil)

func (m *mockStore) CreateTimeEntry(_ context.Context, e *model.TimeEntry) error {
	m.entries[e.ID] = e
	return nil
}

func (m *mockStore) GetTimeEntry(_ context.Context, id string) (*model.TimeEntry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return e, nil
}

func (m *mockStore) ListTimeEntries(_ context.Context, _ model.EntryFilter) ([]*model.TimeEntry, int, error) {
	var out []*model.TimeEntry
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out, len(out), nil
}

func (m *mockStore) DeleteTimeEntry(_ context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

func (m *mockStore) CreatePomodoroRun(_ context.Context, r *model.PomodoroRun) error {
	m.runs[r.ID] = r
	return nil
}

func (m *mockStore) GetPomodoroRun(_ context.Context, id string) (*model.PomodoroRun, error) {
	r, ok := m.runs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r, nil
}

func (m *mockStore) CompletePomodoroPhase(_ context.Context, rec *model.PhaseRecord) error {
	m.phases[rec.RunID] = append(m.phases[rec.RunID], rec)
	return nil
}

func (m *mockStore) GetPhaseRecords(_ context.Context, runID string) ([]*model.PhaseRecord, error) {
	return m.phases[runID], nil
}

func (m *mockStore) CancelPomodoroRun(_ context.Context, id string, _ *model.PartialWork) error {
	if _, ok := m.runs[id]; !ok {
		return sql.ErrNoRows
	}
	return nil
}

func (m *mockStore) GetPomodoroPreferences(_ context.Context, userID string) (model.PomodoroPreferences, error) {
	if p, ok := m.prefs[userID]; ok {
		return p, nil
	}
	return model.DefaultPomodoroPreferences(), nil
}

func (m *mockStore) UpdatePomodoroPreferences(_ context.Context, userID string, p model.PomodoroPreferences) error {
	m.prefs[userID] = p
	return nil
}

func (m *mockStore) CreateTask(_ context.Context, t *model.Task) error {
	m.tasks[t.ID] = t
	return nil
}

func (m *mockStore) GetTask(_ context.Context, id string) (*model.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return t, nil
}

func (m *mockStore) ListTasks(_ context.Context, _ string) ([]*model.Task, error) {
	var out []*model.Task
	for _, t := range m.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockStore) UpdateTask(_ context.Context, t *model.Task) error {
	m.tasks[t.ID] = t
	return nil
}

func (m *mockStore) CreateEvent(_ context.Context, e *model.Event) error {
	m.events[e.ID] = e
	return nil
}

func (m *mockStore) GetEvent(_ context.Context, id string) (*model.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return e, nil
}

func (m *mockStore) ListEvents(_ context.Context, _ string) ([]*model.Event, error) {
	var out []*model.Event
	for _, e := range m.events {
		out = append(out, e)
	}
	return out, nil
}

func (m *mockStore) CreateBoard(_ context.Context, b *model.Board) error {
	m.boards[b.ID] = b
	return nil
}

func (m *mockStore) GetBoard(_ context.Context, id string) (*model.Board, error) {
	b, ok := m.boards[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return b, nil
}

func (m *mockStore) ListBoards(_ context.Context, _ string) ([]*model.Board, error) {
	var out []*model.Board
	for _, b := range m.boards {
		out = append(out, b)
	}
	return out, nil
}

func (m *mockStore) DeleteBoard(_ context.Context, id string) error {
	delete(m.boards, id)
	return nil
}

func (m *mockStore) GetWorkflowGraph(_ context.Context, boardID string) (*model.WorkflowGraph, error) {
	nodes := m.nodes[boardID]
	edges := m.edges[boardID]
	if nodes == nil {
		nodes = []*model.WorkflowNode{}
	}
	if edges == nil {
		edges = []*model.WorkflowEdge{}
	}
	return &model.WorkflowGraph{Nodes: nodes, Edges: edges}, nil
}

func (m *mockStore) AddWorkflowNode(_ context.Context, n *model.WorkflowNode) error {
	m.nodes[n.BoardID] = append(m.nodes[n.BoardID], n)
	return nil
}

func (m *mockStore) RemoveWorkflowNode(_ context.Context, boardID, nodeID string) error {
	return nil
}

func (m *mockStore) AddWorkflowEdge(_ context.Context, e *model.WorkflowEdge) error {
	m.edges[e.BoardID] = append(m.edges[e.BoardID], e)
	return nil
}

func (m *mockStore) RemoveWorkflowEdge(_ context.Context, boardID, edgeID string) error {
	return nil
}

func (m *mockStore) GetStreakSource(_ context.Context, userID string) ([]model.TimeEntry, error) {
	var out []model.TimeEntry
	for _, e := range m.entries {
		if e.UserID == userID && e.DistractionFree {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }
