package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alfredjeanlab/tempo/internal/events"
	"github.com/alfredjeanlab/tempo/internal/model"
	"github.com/alfredjeanlab/tempo/internal/store"
)

type mockStore struct {
	entries map[string]*model.TimeEntry
	runs    map[string]*model.PomodoroRun
	phases  map[string][]*model.PhaseRecord
	prefs   map[string]model.PomodoroPreferences
	tasks   map[string]*model.Task
	events  map[string]*model.Event
	boards  map[string]*model.Board
	nodes   map[string][]*model.WorkflowNode // board id -> nodes
	edges   map[string][]*model.WorkflowEdge // board id -> edges
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
	e.CreatedAt = time.Now().UTC()
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

func (m *mockStore) ListTimeEntries(_ context.Context, filter model.EntryFilter) ([]*model.TimeEntry, int, error) {
	var out []*model.TimeEntry
	for _, e := range m.entries {
		if filter.UserID != "" && e.UserID != filter.UserID {
			continue
		}
		if filter.DistractionFree != nil && e.DistractionFree != *filter.DistractionFree {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

func (m *mockStore) DeleteTimeEntry(_ context.Context, id string) error {
	if _, ok := m.entries[id]; !ok {
		return sql.ErrNoRows
	}
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
	r, ok := m.runs[id]
	if !ok || r.EndedAt != nil {
		return sql.ErrNoRows
	}
	now := time.Now().UTC()
	r.EndedAt = &now
	r.Canceled = true
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
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
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

func (m *mockStore) ListTasks(_ context.Context, userID string) ([]*model.Task, error) {
	var out []*model.Task
	for _, t := range m.tasks {
		if userID == "" || t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateTask(_ context.Context, t *model.Task) error {
	if _, ok := m.tasks[t.ID]; !ok {
		return sql.ErrNoRows
	}
	t.UpdatedAt = time.Now().UTC()
	m.tasks[t.ID] = t
	return nil
}

func (m *mockStore) CreateEvent(_ context.Context, e *model.Event) error {
	e.CreatedAt = time.Now().UTC()
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

func (m *mockStore) ListEvents(_ context.Context, userID string) ([]*model.Event, error) {
	var out []*model.Event
	for _, e := range m.events {
		if userID == "" || e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockStore) CreateBoard(_ context.Context, b *model.Board) error {
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
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

func (m *mockStore) ListBoards(_ context.Context, userID string) ([]*model.Board, error) {
	var out []*model.Board
	for _, b := range m.boards {
		if userID == "" || b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockStore) DeleteBoard(_ context.Context, id string) error {
	if _, ok := m.boards[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.boards, id)
	delete(m.nodes, id)
	delete(m.edges, id)
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
	n.CreatedAt = time.Now().UTC()
	m.nodes[n.BoardID] = append(m.nodes[n.BoardID], n)
	return nil
}

func (m *mockStore) RemoveWorkflowNode(_ context.Context, boardID, nodeID string) error {
	nodes := m.nodes[boardID]
	for i, n := range nodes {
		if n.ID == nodeID {
			m.nodes[boardID] = append(nodes[:i], nodes[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockStore) AddWorkflowEdge(_ context.Context, e *model.WorkflowEdge) error {
	e.CreatedAt = time.Now().UTC()
	m.edges[e.BoardID] = append(m.edges[e.BoardID], e)
	return nil
}

func (m *mockStore) RemoveWorkflowEdge(_ context.Context, boardID, edgeID string) error {
	edges := m.edges[boardID]
	for i, e := range edges {
		if e.ID == edgeID {
			m.edges[boardID] = append(edges[:i], edges[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
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

// newTestServer returns a server over a fresh mock store with auth disabled.
func newTestServer() (*TempoServer, *mockStore) {
	ms := newMockStore()
	return NewTempoServer(ms, &events.NoopPublisher{}), ms
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer()
	rec := doRequest(t, srv.NewHTTPHandler(""), http.MethodGet, "/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv, _ := newTestServer()
	handler := srv.NewHTTPHandler("secret")

	// Health is exempt.
	rec := doRequest(t, handler, http.MethodGet, "/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}

	// Missing token.
	rec = doRequest(t, handler, http.MethodGet, "/v1/entries", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no-token status = %d, want 401", rec.Code)
	}

	// Valid token.
	req := httptest.NewRequest(http.MethodGet, "/v1/entries", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Errorf("valid-token status = %d, want 200", resp.Code)
	}

	// Wrong token.
	req = httptest.NewRequest(http.MethodGet, "/v1/entries", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("wrong-token status = %d, want 401", resp.Code)
	}
}

func TestCreateEntry(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")
	now := time.Now().UTC()

	rec := doRequest(t, handler, http.MethodPost, "/v1/entries", map[string]any{
		"user_id":          "u1",
		"start":            now.Add(-time.Hour),
		"end":              now,
		"label":            "writing",
		"distraction_free": true,
		"source":           "stopwatch",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got model.TimeEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Duration != 3600 {
		t.Errorf("duration = %d, want 3600", got.Duration)
	}
	if _, ok := ms.entries[got.ID]; !ok {
		t.Error("entry not persisted")
	}
}

func TestCreateEntry_Invalid(t *testing.T) {
	srv, _ := newTestServer()
	handler := srv.NewHTTPHandler("")

	// End before start, bogus source.
	now := time.Now().UTC()
	rec := doRequest(t, handler, http.MethodPost, "/v1/entries", map[string]any{
		"start":  now,
		"end":    now.Add(-time.Minute),
		"source": "sundial",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCompletePhase_WorkCreatesEntry(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")
	now := time.Now().UTC()

	ms.runs["tp-run1"] = &model.PomodoroRun{
		ID:          "tp-run1",
		UserID:      "u1",
		Preferences: model.DefaultPomodoroPreferences(),
		StartedAt:   now.Add(-25 * time.Minute),
	}

	rec := doRequest(t, handler, http.MethodPost, "/v1/pomodoro/runs/tp-run1/phases", map[string]any{
		"phase": "work",
		"cycle": 1,
		"start": now.Add(-25 * time.Minute),
		"end":   now,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if len(ms.phases["tp-run1"]) != 1 {
		t.Fatalf("phase records = %d, want 1", len(ms.phases["tp-run1"]))
	}
	if len(ms.entries) != 1 {
		t.Fatalf("entries = %d, want 1 (work phase tracks time)", len(ms.entries))
	}
	for _, e := range ms.entries {
		if e.Source != model.SourcePomodoro || e.PomodoroRunID != "tp-run1" || !e.DistractionFree {
			t.Errorf("entry = %+v", e)
		}
	}
}

func TestCompletePhase_BreakCreatesNoEntry(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")
	now := time.Now().UTC()

	ms.runs["tp-run1"] = &model.PomodoroRun{ID: "tp-run1", StartedAt: now}

	rec := doRequest(t, handler, http.MethodPost, "/v1/pomodoro/runs/tp-run1/phases", map[string]any{
		"phase": "short_break",
		"cycle": 1,
		"start": now.Add(-5 * time.Minute),
		"end":   now,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(ms.entries) != 0 {
		t.Errorf("break phase produced %d entries", len(ms.entries))
	}
}

func TestCancelRun_WithPartialWork(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")
	now := time.Now().UTC()

	ms.runs["tp-run1"] = &model.PomodoroRun{ID: "tp-run1", UserID: "u1", StartedAt: now.Add(-5 * time.Minute)}

	rec := doRequest(t, handler, http.MethodPost, "/v1/pomodoro/runs/tp-run1/cancel", map[string]any{
		"partial_work": map[string]any{
			"start": now.Add(-5 * time.Minute),
			"end":   now,
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !ms.runs["tp-run1"].Canceled {
		t.Error("run not marked canceled")
	}
	if len(ms.entries) != 1 {
		t.Errorf("entries = %d, want 1 partial fragment", len(ms.entries))
	}

	// Cancel is not repeatable.
	rec = doRequest(t, handler, http.MethodPost, "/v1/pomodoro/runs/tp-run1/cancel", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("second cancel status = %d, want 409", rec.Code)
	}
}

func TestPreferences_RoundTrip(t *testing.T) {
	srv, _ := newTestServer()
	handler := srv.NewHTTPHandler("")

	// Defaults before any update.
	rec := doRequest(t, handler, http.MethodGet, "/v1/users/u1/preferences", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var prefs model.PomodoroPreferences
	if err := json.Unmarshal(rec.Body.Bytes(), &prefs); err != nil {
		t.Fatal(err)
	}
	if prefs.WorkMinutes != 25 {
		t.Errorf("default work minutes = %d, want 25", prefs.WorkMinutes)
	}

	rec = doRequest(t, handler, http.MethodPut, "/v1/users/u1/preferences", model.PomodoroPreferences{
		WorkMinutes:       50,
		ShortBreakMinutes: 10,
		LongBreakMinutes:  20,
		LongBreakEvery:    2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, handler, http.MethodGet, "/v1/users/u1/preferences", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &prefs); err != nil {
		t.Fatal(err)
	}
	if prefs.WorkMinutes != 50 {
		t.Errorf("work minutes = %d, want 50", prefs.WorkMinutes)
	}
}

func TestPreferences_RejectsInvalid(t *testing.T) {
	srv, _ := newTestServer()
	handler := srv.NewHTTPHandler("")

	rec := doRequest(t, handler, http.MethodPut, "/v1/users/u1/preferences", model.PomodoroPreferences{
		WorkMinutes: -1,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAddEdge_RejectsCycle(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")

	ms.boards["wb-1"] = &model.Board{ID: "wb-1", Name: "release"}
	ms.nodes["wb-1"] = []*model.WorkflowNode{
		{ID: "a", BoardID: "wb-1", ExternalID: "task-a", ExternalType: model.NodeTask},
		{ID: "b", BoardID: "wb-1", ExternalID: "task-b", ExternalType: model.NodeTask},
	}
	ms.edges["wb-1"] = []*model.WorkflowEdge{
		{ID: "e1", BoardID: "wb-1", SourceID: "a", TargetID: "b"},
	}

	// b -> a would close a cycle.
	rec := doRequest(t, handler, http.MethodPost, "/v1/boards/wb-1/edges", map[string]any{
		"source_id": "b",
		"target_id": "a",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if len(ms.edges["wb-1"]) != 1 {
		t.Errorf("edges = %d, rejection must not mutate the graph", len(ms.edges["wb-1"]))
	}

	// Self-loops and duplicates are refused the same way.
	for _, in := range []map[string]any{
		{"source_id": "a", "target_id": "a"},
		{"source_id": "a", "target_id": "b"},
	} {
		rec = doRequest(t, handler, http.MethodPost, "/v1/boards/wb-1/edges", in)
		if rec.Code != http.StatusConflict {
			t.Errorf("edge %v: status = %d, want 409", in, rec.Code)
		}
	}
}

func TestAddEdge_AcceptsValid(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")

	ms.boards["wb-1"] = &model.Board{ID: "wb-1", Name: "release"}
	ms.nodes["wb-1"] = []*model.WorkflowNode{
		{ID: "a", BoardID: "wb-1", ExternalID: "task-a", ExternalType: model.NodeTask},
		{ID: "b", BoardID: "wb-1", ExternalID: "task-b", ExternalType: model.NodeTask},
	}

	rec := doRequest(t, handler, http.MethodPost, "/v1/boards/wb-1/edges", map[string]any{
		"source_id": "a",
		"target_id": "b",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(ms.edges["wb-1"]) != 1 {
		t.Fatalf("edges = %d, want 1", len(ms.edges["wb-1"]))
	}
}

func TestBoardOrder(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")

	ms.boards["wb-1"] = &model.Board{ID: "wb-1", Name: "release"}
	ms.nodes["wb-1"] = []*model.WorkflowNode{
		{ID: "a", ExternalID: "task-a", ExternalType: model.NodeTask},
		{ID: "b", ExternalID: "task-b", ExternalType: model.NodeTask},
		{ID: "c", ExternalID: "task-c", ExternalType: model.NodeTask},
	}
	ms.edges["wb-1"] = []*model.WorkflowEdge{
		{ID: "e1", SourceID: "a", TargetID: "b"},
		{ID: "e2", SourceID: "b", TargetID: "c"},
	}

	rec := doRequest(t, handler, http.MethodGet, "/v1/boards/wb-1/order", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got struct {
		Order  []string `json:"order"`
		Cyclic bool     `json:"cyclic"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Cyclic {
		t.Fatal("graph reported cyclic")
	}
	want := []string{"a", "b", "c"}
	if len(got.Order) != len(want) {
		t.Fatalf("order = %v, want %v", got.Order, want)
	}
	for i := range want {
		if got.Order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, got.Order[i], want[i])
		}
	}
}

func TestStreak(t *testing.T) {
	srv, ms := newTestServer()
	handler := srv.NewHTTPHandler("")
	today := time.Now().UTC()

	for i := 0; i < 3; i++ {
		start := today.AddDate(0, 0, -i)
		ms.entries[start.Format("2006-01-02")] = &model.TimeEntry{
			ID:              start.Format("2006-01-02"),
			UserID:          "u1",
			Start:           start,
			End:             start.Add(time.Hour),
			DistractionFree: true,
			Source:          model.SourceStopwatch,
		}
	}

	rec := doRequest(t, handler, http.MethodGet, "/v1/users/u1/streak", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got struct {
		Current int `json:"current"`
		Best    int `json:"best"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Current != 3 || got.Best != 3 {
		t.Errorf("streak = %+v, want current=3 best=3", got)
	}
}
