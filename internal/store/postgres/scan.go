package postgres

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"github.com/alfredjeanlab/tempo/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanTimeEntry scans a single row into a model.TimeEntry.
// The row must contain columns in the order defined by entryColumns.
func scanTimeEntry(row scannable) (*model.TimeEntry, error) {
	var e model.TimeEntry
	var (
		taskID        sql.NullString
		eventID       sql.NullString
		pomodoroRunID sql.NullString
	)

	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Start,
		&e.End,
		&e.Duration,
		&e.Label,
		&taskID,
		&eventID,
		&e.DistractionFree,
		&e.Source,
		&pomodoroRunID,
		&e.PomodoroCycle,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.TaskID = taskID.String
	e.EventID = eventID.String
	e.PomodoroRunID = pomodoroRunID.String
	return &e, nil
}

// scanTimeEntryWithTotal scans a row that has a leading total_count column
// followed by the standard entry columns. Used by queryListTimeEntries with
// COUNT(*) OVER().
func scanTimeEntryWithTotal(row scannable) (*model.TimeEntry, int, error) {
	var total int
	var e model.TimeEntry
	var (
		taskID        sql.NullString
		eventID       sql.NullString
		pomodoroRunID sql.NullString
	)

	err := row.Scan(
		&total,
		&e.ID,
		&e.UserID,
		&e.Start,
		&e.End,
		&e.Duration,
		&e.Label,
		&taskID,
		&eventID,
		&e.DistractionFree,
		&e.Source,
		&pomodoroRunID,
		&e.PomodoroCycle,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, 0, err
	}

	e.TaskID = taskID.String
	e.EventID = eventID.String
	e.PomodoroRunID = pomodoroRunID.String
	return &e, total, nil
}

// scanPomodoroRun scans a single row into a model.PomodoroRun.
func scanPomodoroRun(row scannable) (*model.PomodoroRun, error) {
	var r model.PomodoroRun
	var (
		prefs   []byte
		endedAt sql.NullTime
	)
	err := row.Scan(&r.ID, &r.UserID, &prefs, &r.StartedAt, &endedAt, &r.Canceled)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(prefs, &r.Preferences); err != nil {
		return nil, err
	}
	if endedAt.Valid {
		t := endedAt.Time
		r.EndedAt = &t
	}
	return &r, nil
}

// scanPhaseRecord scans a single row into a model.PhaseRecord.
func scanPhaseRecord(row scannable) (*model.PhaseRecord, error) {
	var rec model.PhaseRecord
	err := row.Scan(&rec.RunID, &rec.Phase, &rec.Cycle, &rec.Start, &rec.End)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// scanPhaseRecords scans multiple rows into a slice of model.PhaseRecord pointers.
func scanPhaseRecords(rows *sql.Rows) ([]*model.PhaseRecord, error) {
	var recs []*model.PhaseRecord
	for rows.Next() {
		rec, err := scanPhaseRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// scanTask scans a single row into a model.Task.
func scanTask(row scannable) (*model.Task, error) {
	var t model.Task
	var dueAt sql.NullTime
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Status,
		&t.Priority,
		&dueAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if dueAt.Valid {
		d := dueAt.Time
		t.DueAt = &d
	}
	return &t, nil
}

// scanTasks scans multiple rows into a slice of model.Task pointers.
func scanTasks(rows *sql.Rows) ([]*model.Task, error) {
	var tasks []*model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// scanEvent scans a single row into a model.Event.
func scanEvent(row scannable) (*model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Title,
		&e.StartsAt,
		&e.EndsAt,
		&e.AllDay,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// scanEvents scans multiple rows into a slice of model.Event pointers.
func scanEvents(rows *sql.Rows) ([]*model.Event, error) {
	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// scanBoard scans a single row into a model.Board.
func scanBoard(row scannable) (*model.Board, error) {
	var b model.Board
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// scanWorkflowNode scans a single row into a model.WorkflowNode.
func scanWorkflowNode(row scannable) (*model.WorkflowNode, error) {
	var n model.WorkflowNode
	err := row.Scan(
		&n.ID,
		&n.BoardID,
		&n.ExternalID,
		&n.ExternalType,
		&n.Position.X,
		&n.Position.Y,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// scanWorkflowEdge scans a single row into a model.WorkflowEdge.
func scanWorkflowEdge(row scannable) (*model.WorkflowEdge, error) {
	var e model.WorkflowEdge
	err := row.Scan(&e.ID, &e.BoardID, &e.SourceID, &e.TargetID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// nullTimePtr converts a *time.Time to a sql.NullTime.
func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// pqStringArray wraps ids for use with ANY($n) placeholders.
func pqStringArray(ids []string) any {
	return pq.Array(ids)
}
