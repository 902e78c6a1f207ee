package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/alfredjeanlab/tempo/internal/model"
	"github.com/alfredjeanlab/tempo/internal/streak"
	"github.com/alfredjeanlab/tempo/internal/workflow"
)

// HTTPClient implements TempoClient using the tempo HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ TempoClient = (*HTTPClient)(nil)

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Time entries ---

func (c *HTTPClient) CreateEntry(ctx context.Context, req *CreateEntryRequest) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	if err := c.doJSON(ctx, http.MethodPost, "/v1/entries", req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *HTTPClient) GetEntry(ctx context.Context, id string) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	if err := c.doJSON(ctx, http.MethodGet, "/v1/entries/"+url.PathEscape(id), nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *HTTPClient) ListEntries(ctx context.Context, req *ListEntriesRequest) (*ListEntriesResponse, error) {
	q := url.Values{}
	if req.UserID != "" {
		q.Set("user_id", req.UserID)
	}
	if len(req.Source) > 0 {
		q.Set("source", strings.Join(req.Source, ","))
	}
	if req.TaskID != "" {
		q.Set("task_id", req.TaskID)
	}
	if req.EventID != "" {
		q.Set("event_id", req.EventID)
	}
	if req.DistractionFree != nil {
		q.Set("distraction_free", fmt.Sprintf("%t", *req.DistractionFree))
	}
	if req.Since != nil {
		q.Set("since", req.Since.Format(timeFormat))
	}
	if req.Until != nil {
		q.Set("until", req.Until.Format(timeFormat))
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", req.Offset))
	}

	path := "/v1/entries"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListEntriesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) DeleteEntry(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/entries/"+url.PathEscape(id), nil, nil)
}

// --- Pomodoro runs ---

func (c *HTTPClient) CreateRun(ctx context.Context, req *CreateRunRequest) (*model.PomodoroRun, error) {
	var run model.PomodoroRun
	if err := c.doJSON(ctx, http.MethodPost, "/v1/pomodoro/runs", req, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (c *HTTPClient) GetRun(ctx context.Context, id string) (*RunResponse, error) {
	var resp RunResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/pomodoro/runs/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) CompletePhase(ctx context.Context, runID string, req *CompletePhaseRequest) (*CompletePhaseResponse, error) {
	var resp CompletePhaseResponse
	path := "/v1/pomodoro/runs/" + url.PathEscape(runID) + "/phases"
	if err := c.doJSON(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) CancelRun(ctx context.Context, runID string, partial *model.PartialWork) (*CancelRunResponse, error) {
	body := map[string]any{}
	if partial != nil {
		body["partial_work"] = partial
	}
	var resp CancelRunResponse
	path := "/v1/pomodoro/runs/" + url.PathEscape(runID) + "/cancel"
	if err := c.doJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Preferences ---

func (c *HTTPClient) GetPreferences(ctx context.Context, userID string) (model.PomodoroPreferences, error) {
	var prefs model.PomodoroPreferences
	path := "/v1/users/" + url.PathEscape(userID) + "/preferences"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &prefs); err != nil {
		return model.PomodoroPreferences{}, err
	}
	return prefs, nil
}

func (c *HTTPClient) UpdatePreferences(ctx context.Context, userID string, prefs model.PomodoroPreferences) error {
	path := "/v1/users/" + url.PathEscape(userID) + "/preferences"
	return c.doJSON(ctx, http.MethodPut, path, prefs, nil)
}

// --- Streaks ---

func (c *HTTPClient) GetStreak(ctx context.Context, userID string) (streak.Streak, error) {
	var s streak.Streak
	path := "/v1/users/" + url.PathEscape(userID) + "/streak"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &s); err != nil {
		return streak.Streak{}, err
	}
	return s, nil
}

// --- Tasks ---

func (c *HTTPClient) CreateTask(ctx context.Context, req *CreateTaskRequest) (*model.Task, error) {
	var task model.Task
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := c.doJSON(ctx, http.MethodGet, "/v1/tasks/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) ListTasks(ctx context.Context, userID string) ([]*model.Task, error) {
	var resp struct {
		Tasks []*model.Task `json:"tasks"`
	}
	path := "/v1/tasks"
	if userID != "" {
		path += "?user_id=" + url.QueryEscape(userID)
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *HTTPClient) UpdateTask(ctx context.Context, id string, req *UpdateTaskRequest) (*model.Task, error) {
	var task model.Task
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/tasks/"+url.PathEscape(id), req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// --- Calendar events ---

func (c *HTTPClient) CreateEvent(ctx context.Context, req *CreateEventRequest) (*model.Event, error) {
	var event model.Event
	if err := c.doJSON(ctx, http.MethodPost, "/v1/events", req, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	if err := c.doJSON(ctx, http.MethodGet, "/v1/events/"+url.PathEscape(id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) ListEvents(ctx context.Context, userID string) ([]*model.Event, error) {
	var resp struct {
		Events []*model.Event `json:"events"`
	}
	path := "/v1/events"
	if userID != "" {
		path += "?user_id=" + url.QueryEscape(userID)
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// --- Workflow boards ---

func (c *HTTPClient) CreateBoard(ctx context.Context, req *CreateBoardRequest) (*model.Board, error) {
	var board model.Board
	if err := c.doJSON(ctx, http.MethodPost, "/v1/boards", req, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (c *HTTPClient) GetBoard(ctx context.Context, id string) (*BoardResponse, error) {
	var resp BoardResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/boards/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListBoards(ctx context.Context, userID string) ([]*model.Board, error) {
	var resp struct {
		Boards []*model.Board `json:"boards"`
	}
	path := "/v1/boards"
	if userID != "" {
		path += "?user_id=" + url.QueryEscape(userID)
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Boards, nil
}

func (c *HTTPClient) DeleteBoard(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/boards/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) AddNode(ctx context.Context, boardID string, req *AddNodeRequest) (*model.WorkflowNode, error) {
	var node model.WorkflowNode
	path := "/v1/boards/" + url.PathEscape(boardID) + "/nodes"
	if err := c.doJSON(ctx, http.MethodPost, path, req, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

func (c *HTTPClient) RemoveNode(ctx context.Context, boardID, nodeID string) error {
	path := "/v1/boards/" + url.PathEscape(boardID) + "/nodes/" + url.PathEscape(nodeID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *HTTPClient) AddEdge(ctx context.Context, boardID, sourceID, targetID string) (*model.WorkflowEdge, error) {
	body := map[string]string{
		"source_id": sourceID,
		"target_id": targetID,
	}
	var edge model.WorkflowEdge
	path := "/v1/boards/" + url.PathEscape(boardID) + "/edges"
	if err := c.doJSON(ctx, http.MethodPost, path, body, &edge); err != nil {
		return nil, err
	}
	return &edge, nil
}

func (c *HTTPClient) RemoveEdge(ctx context.Context, boardID, edgeID string) error {
	path := "/v1/boards/" + url.PathEscape(boardID) + "/edges/" + url.PathEscape(edgeID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *HTTPClient) ValidateBoard(ctx context.Context, boardID string) (*workflow.ValidationResult, error) {
	var result workflow.ValidationResult
	path := "/v1/boards/" + url.PathEscape(boardID) + "/validate"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) BoardOrder(ctx context.Context, boardID string) (*BoardOrderResponse, error) {
	var resp BoardOrderResponse
	path := "/v1/boards/" + url.PathEscape(boardID) + "/order"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) BoardStatuses(ctx context.Context, boardID string) (*BoardStatusesResponse, error) {
	var resp BoardStatusesResponse
	path := "/v1/boards/" + url.PathEscape(boardID) + "/statuses"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

const timeFormat = "2006-01-02T15:04:05Z07:00" // RFC 3339

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
