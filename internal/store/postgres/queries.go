package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/tempo/internal/model"
)

// entryColumns is the column list used for SELECT statements on the
// time_entries table.
const entryColumns = `id, user_id, start_at, end_at, duration, label,
	task_id, event_id, distraction_free, source, pomodoro_run_id,
	pomodoro_cycle, created_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateTimeEntry(ctx context.Context, db executor, e *model.TimeEntry) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO time_entries (
			id, user_id, start_at, end_at, duration, label,
			task_id, event_id, distraction_free, source, pomodoro_run_id,
			pomodoro_cycle
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12
		)
		RETURNING created_at`,
		e.ID,
		e.UserID,
		e.Start,
		e.End,
		e.Duration,
		e.Label,
		nullString(e.TaskID),
		nullString(e.EventID),
		e.DistractionFree,
		string(e.Source),
		nullString(e.PomodoroRunID),
		e.PomodoroCycle,
	).Scan(&e.CreatedAt)
}

func queryGetTimeEntry(ctx context.Context, db executor, id string) (*model.TimeEntry, error) {
	row := db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM time_entries WHERE id = $1`, id)
	return scanTimeEntry(row)
}

func queryListTimeEntries(ctx context.Context, db executor, filter model.EntryFilter) ([]*model.TimeEntry, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.UserID != "" {
		whereClauses = append(whereClauses, "user_id = "+nextArg())
		args = append(args, filter.UserID)
	}

	if len(filter.Source) > 0 {
		placeholders := make([]string, len(filter.Source))
		for i, s := range filter.Source {
			placeholders[i] = nextArg()
			args = append(args, string(s))
		}
		whereClauses = append(whereClauses, "source IN ("+strings.Join(placeholders, ", ")+")")
	}

	if filter.TaskID != "" {
		whereClauses = append(whereClauses, "task_id = "+nextArg())
		args = append(args, filter.TaskID)
	}

	if filter.EventID != "" {
		whereClauses = append(whereClauses, "event_id = "+nextArg())
		args = append(args, filter.EventID)
	}

	if filter.DistractionFree != nil {
		whereClauses = append(whereClauses, "distraction_free = "+nextArg())
		args = append(args, *filter.DistractionFree)
	}

	if filter.Since != nil {
		whereClauses = append(whereClauses, "start_at >= "+nextArg())
		args = append(args, *filter.Since)
	}

	if filter.Until != nil {
		whereClauses = append(whereClauses, "start_at < "+nextArg())
		args = append(args, *filter.Until)
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Single query with COUNT(*) OVER() to get total and rows atomically.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + entryColumns +
		" FROM time_entries" + whereSQL + " ORDER BY start_at DESC"

	if filter.Limit > 0 {
		dataQuery += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		dataQuery += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()

	var entries []*model.TimeEntry
	var total int
	for rows.Next() {
		e, t, err := scanTimeEntryWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan time entries: %w", err)
		}
		total = t
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan time entries: %w", err)
	}

	return entries, total, nil
}

func queryDeleteTimeEntry(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryCreatePomodoroRun(ctx context.Context, db executor, r *model.PomodoroRun) error {
	prefs, err := json.Marshal(r.Preferences)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO pomodoro_runs (id, user_id, preferences, started_at, ended_at, canceled)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID,
		r.UserID,
		prefs,
		r.StartedAt,
		nullTimePtr(r.EndedAt),
		r.Canceled,
	)
	return err
}

func queryGetPomodoroRun(ctx context.Context, db executor, id string) (*model.PomodoroRun, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, user_id, preferences, started_at, ended_at, canceled
		FROM pomodoro_runs WHERE id = $1`, id)
	return scanPomodoroRun(row)
}

func queryCompletePomodoroPhase(ctx context.Context, db executor, rec *model.PhaseRecord) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO phase_records (run_id, phase, cycle, start_at, end_at)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.RunID,
		string(rec.Phase),
		rec.Cycle,
		rec.Start,
		rec.End,
	)
	return err
}

func queryGetPhaseRecords(ctx context.Context, db executor, runID string) ([]*model.PhaseRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT run_id, phase, cycle, start_at, end_at
		FROM phase_records
		WHERE run_id = $1
		ORDER BY start_at ASC`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPhaseRecords(rows)
}

// queryCancelPomodoroRun ends the run and, when the canceled work phase was
// worth logging, records the fragment as a pomodoro time entry in the same
// statement batch. Cancel is idempotent on already-ended runs.
func queryCancelPomodoroRun(ctx context.Context, db executor, id string, partial *model.PartialWork) error {
	res, err := db.ExecContext(ctx, `
		UPDATE pomodoro_runs
		SET canceled = TRUE, ended_at = NOW()
		WHERE id = $1 AND ended_at IS NULL`,
		id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	if partial != nil {
		_, err = db.ExecContext(ctx, `
			INSERT INTO phase_records (run_id, phase, cycle, start_at, end_at)
			SELECT $1, 'work', 0, $2, $3`,
			id, partial.Start, partial.End,
		)
		if err != nil {
			return fmt.Errorf("record partial work: %w", err)
		}
	}
	return nil
}

func queryGetPomodoroPreferences(ctx context.Context, db executor, userID string) (model.PomodoroPreferences, error) {
	var raw []byte
	err := db.QueryRowContext(ctx, `
		SELECT preferences FROM pomodoro_preferences WHERE user_id = $1`, userID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		// No stored preferences means the defaults apply.
		return model.DefaultPomodoroPreferences(), nil
	}
	if err != nil {
		return model.PomodoroPreferences{}, err
	}

	var prefs model.PomodoroPreferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return model.PomodoroPreferences{}, fmt.Errorf("unmarshal preferences: %w", err)
	}
	return prefs, nil
}

func queryUpdatePomodoroPreferences(ctx context.Context, db executor, userID string, prefs model.PomodoroPreferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO pomodoro_preferences (user_id, preferences)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET preferences = $2, updated_at = NOW()`,
		userID, raw,
	)
	return err
}

func queryCreateTask(ctx context.Context, db executor, t *model.Task) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO tasks (id, user_id, title, status, priority, due_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		t.ID,
		t.UserID,
		t.Title,
		string(t.Status),
		t.Priority,
		nullTimePtr(t.DueAt),
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func queryGetTask(ctx context.Context, db executor, id string) (*model.Task, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, user_id, title, status, priority, due_at, created_at, updated_at
		FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

func queryListTasks(ctx context.Context, db executor, userID string) ([]*model.Task, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, title, status, priority, due_at, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func queryUpdateTask(ctx context.Context, db executor, t *model.Task) error {
	return db.QueryRowContext(ctx, `
		UPDATE tasks SET
			title = $2,
			status = $3,
			priority = $4,
			due_at = $5,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		t.ID,
		t.Title,
		string(t.Status),
		t.Priority,
		nullTimePtr(t.DueAt),
	).Scan(&t.UpdatedAt)
}

func queryCreateEvent(ctx context.Context, db executor, e *model.Event) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO events (id, user_id, title, starts_at, ends_at, all_day)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		e.ID,
		e.UserID,
		e.Title,
		e.StartsAt,
		e.EndsAt,
		e.AllDay,
	).Scan(&e.CreatedAt)
}

func queryGetEvent(ctx context.Context, db executor, id string) (*model.Event, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, user_id, title, starts_at, ends_at, all_day, created_at
		FROM events WHERE id = $1`, id)
	return scanEvent(row)
}

func queryListEvents(ctx context.Context, db executor, userID string) ([]*model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, title, starts_at, ends_at, all_day, created_at
		FROM events
		WHERE user_id = $1
		ORDER BY starts_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func queryCreateBoard(ctx context.Context, db executor, b *model.Board) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO boards (id, user_id, name)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		b.ID, b.UserID, b.Name,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
}

func queryGetBoard(ctx context.Context, db executor, id string) (*model.Board, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at, updated_at
		FROM boards WHERE id = $1`, id)
	return scanBoard(row)
}

func queryListBoards(ctx context.Context, db executor, userID string) ([]*model.Board, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, name, created_at, updated_at
		FROM boards
		WHERE user_id = $1
		ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []*model.Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func queryDeleteBoard(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// queryGetWorkflowGraph loads a board's nodes and edges in two queries and
// populates referenced tasks and events in two more (not per-node N+1).
func queryGetWorkflowGraph(ctx context.Context, db executor, boardID string) (*model.WorkflowGraph, error) {
	nodeRows, err := db.QueryContext(ctx, `
		SELECT id, board_id, external_id, external_type, pos_x, pos_y, created_at
		FROM workflow_nodes
		WHERE board_id = $1
		ORDER BY created_at ASC`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("graph: fetch nodes: %w", err)
	}
	defer nodeRows.Close()

	var nodes []*model.WorkflowNode
	taskIDs := make(map[string][]*model.WorkflowNode)
	eventIDs := make(map[string][]*model.WorkflowNode)
	for nodeRows.Next() {
		n, err := scanWorkflowNode(nodeRows)
		if err != nil {
			return nil, fmt.Errorf("graph: scan node: %w", err)
		}
		nodes = append(nodes, n)
		switch n.ExternalType {
		case model.NodeTask:
			taskIDs[n.ExternalID] = append(taskIDs[n.ExternalID], n)
		case model.NodeEvent:
			eventIDs[n.ExternalID] = append(eventIDs[n.ExternalID], n)
		}
	}
	if err := nodeRows.Err(); err != nil {
		return nil, fmt.Errorf("graph: node rows: %w", err)
	}

	if len(taskIDs) > 0 {
		ids := make([]string, 0, len(taskIDs))
		for id := range taskIDs {
			ids = append(ids, id)
		}
		taskRows, err := db.QueryContext(ctx, `
			SELECT id, user_id, title, status, priority, due_at, created_at, updated_at
			FROM tasks WHERE id = ANY($1)`,
			pqStringArray(ids),
		)
		if err != nil {
			return nil, fmt.Errorf("graph: fetch tasks: %w", err)
		}
		defer taskRows.Close()
		tasks, err := scanTasks(taskRows)
		if err != nil {
			return nil, fmt.Errorf("graph: scan tasks: %w", err)
		}
		for _, task := range tasks {
			for _, n := range taskIDs[task.ID] {
				n.Task = task
			}
		}
	}

	if len(eventIDs) > 0 {
		ids := make([]string, 0, len(eventIDs))
		for id := range eventIDs {
			ids = append(ids, id)
		}
		eventRows, err := db.QueryContext(ctx, `
			SELECT id, user_id, title, starts_at, ends_at, all_day, created_at
			FROM events WHERE id = ANY($1)`,
			pqStringArray(ids),
		)
		if err != nil {
			return nil, fmt.Errorf("graph: fetch events: %w", err)
		}
		defer eventRows.Close()
		events, err := scanEvents(eventRows)
		if err != nil {
			return nil, fmt.Errorf("graph: scan events: %w", err)
		}
		for _, event := range events {
			for _, n := range eventIDs[event.ID] {
				n.Event = event
			}
		}
	}

	edgeRows, err := db.QueryContext(ctx, `
		SELECT id, board_id, source_id, target_id, created_at
		FROM workflow_edges
		WHERE board_id = $1
		ORDER BY created_at ASC`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("graph: fetch edges: %w", err)
	}
	defer edgeRows.Close()

	var edges []*model.WorkflowEdge
	for edgeRows.Next() {
		e, err := scanWorkflowEdge(edgeRows)
		if err != nil {
			return nil, fmt.Errorf("graph: scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("graph: edge rows: %w", err)
	}

	if nodes == nil {
		nodes = []*model.WorkflowNode{}
	}
	if edges == nil {
		edges = []*model.WorkflowEdge{}
	}
	return &model.WorkflowGraph{Nodes: nodes, Edges: edges}, nil
}

func queryAddWorkflowNode(ctx context.Context, db executor, n *model.WorkflowNode) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO workflow_nodes (id, board_id, external_id, external_type, pos_x, pos_y)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		n.ID,
		n.BoardID,
		n.ExternalID,
		string(n.ExternalType),
		n.Position.X,
		n.Position.Y,
	).Scan(&n.CreatedAt)
}

func queryRemoveWorkflowNode(ctx context.Context, db executor, boardID, nodeID string) error {
	res, err := db.ExecContext(ctx, `
		DELETE FROM workflow_nodes WHERE board_id = $1 AND id = $2`,
		boardID, nodeID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryAddWorkflowEdge(ctx context.Context, db executor, e *model.WorkflowEdge) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO workflow_edges (id, board_id, source_id, target_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		e.ID,
		e.BoardID,
		e.SourceID,
		e.TargetID,
	).Scan(&e.CreatedAt)
}

func queryRemoveWorkflowEdge(ctx context.Context, db executor, boardID, edgeID string) error {
	res, err := db.ExecContext(ctx, `
		DELETE FROM workflow_edges WHERE board_id = $1 AND id = $2`,
		boardID, edgeID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// queryGetStreakSource fetches the distraction-free entries the streak
// calculator consumes, oldest first.
func queryGetStreakSource(ctx context.Context, db executor, userID string) ([]model.TimeEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM time_entries
		WHERE user_id = $1 AND distraction_free = TRUE
		ORDER BY start_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.TimeEntry
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}
