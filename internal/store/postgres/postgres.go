// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/tempo/internal/model"
	"github.com/alfredjeanlab/tempo/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateTimeEntry(ctx context.Context, entry *model.TimeEntry) error {
	return queryCreateTimeEntry(ctx, s.db, entry)
}

func (s *PostgresStore) GetTimeEntry(ctx context.Context, id string) (*model.TimeEntry, error) {
	return queryGetTimeEntry(ctx, s.db, id)
}

func (s *PostgresStore) ListTimeEntries(ctx context.Context, filter model.EntryFilter) ([]*model.TimeEntry, int, error) {
	return queryListTimeEntries(ctx, s.db, filter)
}

func (s *PostgresStore) DeleteTimeEntry(ctx context.Context, id string) error {
	return queryDeleteTimeEntry(ctx, s.db, id)
}

func (s *PostgresStore) CreatePomodoroRun(ctx context.Context, run *model.PomodoroRun) error {
	return queryCreatePomodoroRun(ctx, s.db, run)
}

func (s *PostgresStore) GetPomodoroRun(ctx context.Context, id string) (*model.PomodoroRun, error) {
	return queryGetPomodoroRun(ctx, s.db, id)
}

func (s *PostgresStore) CompletePomodoroPhase(ctx context.Context, rec *model.PhaseRecord) error {
	return queryCompletePomodoroPhase(ctx, s.db, rec)
}

func (s *PostgresStore) GetPhaseRecords(ctx context.Context, runID string) ([]*model.PhaseRecord, error) {
	return queryGetPhaseRecords(ctx, s.db, runID)
}

func (s *PostgresStore) CancelPomodoroRun(ctx context.Context, id string, partial *model.PartialWork) error {
	return queryCancelPomodoroRun(ctx, s.db, id, partial)
}

func (s *PostgresStore) GetPomodoroPreferences(ctx context.Context, userID string) (model.PomodoroPreferences, error) {
	return queryGetPomodoroPreferences(ctx, s.db, userID)
}

func (s *PostgresStore) UpdatePomodoroPreferences(ctx context.Context, userID string, prefs model.PomodoroPreferences) error {
	return queryUpdatePomodoroPreferences(ctx, s.db, userID, prefs)
}

func (s *PostgresStore) CreateTask(ctx context.Context, task *model.Task) error {
	return queryCreateTask(ctx, s.db, task)
}

func (s *PostgresStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return queryGetTask(ctx, s.db, id)
}

func (s *PostgresStore) ListTasks(ctx context.Context, userID string) ([]*model.Task, error) {
	return queryListTasks(ctx, s.db, userID)
}

func (s *PostgresStore) UpdateTask(ctx context.Context, task *model.Task) error {
	return queryUpdateTask(ctx, s.db, task)
}

func (s *PostgresStore) CreateEvent(ctx context.Context, event *model.Event) error {
	return queryCreateEvent(ctx, s.db, event)
}

func (s *PostgresStore) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	return queryGetEvent(ctx, s.db, id)
}

func (s *PostgresStore) ListEvents(ctx context.Context, userID string) ([]*model.Event, error) {
	return queryListEvents(ctx, s.db, userID)
}

func (s *PostgresStore) CreateBoard(ctx context.Context, board *model.Board) error {
	return queryCreateBoard(ctx, s.db, board)
}

func (s *PostgresStore) GetBoard(ctx context.Context, id string) (*model.Board, error) {
	return queryGetBoard(ctx, s.db, id)
}

func (s *PostgresStore) ListBoards(ctx context.Context, userID string) ([]*model.Board, error) {
	return queryListBoards(ctx, s.db, userID)
}

func (s *PostgresStore) DeleteBoard(ctx context.Context, id string) error {
	return queryDeleteBoard(ctx, s.db, id)
}

func (s *PostgresStore) GetWorkflowGraph(ctx context.Context, boardID string) (*model.WorkflowGraph, error) {
	return queryGetWorkflowGraph(ctx, s.db, boardID)
}

func (s *PostgresStore) AddWorkflowNode(ctx context.Context, node *model.WorkflowNode) error {
	return queryAddWorkflowNode(ctx, s.db, node)
}

func (s *PostgresStore) RemoveWorkflowNode(ctx context.Context, boardID, nodeID string) error {
	return queryRemoveWorkflowNode(ctx, s.db, boardID, nodeID)
}

func (s *PostgresStore) AddWorkflowEdge(ctx context.Context, edge *model.WorkflowEdge) error {
	return queryAddWorkflowEdge(ctx, s.db, edge)
}

func (s *PostgresStore) RemoveWorkflowEdge(ctx context.Context, boardID, edgeID string) error {
	return queryRemoveWorkflowEdge(ctx, s.db, boardID, edgeID)
}

func (s *PostgresStore) GetStreakSource(ctx context.Context, userID string) ([]model.TimeEntry, error) {
	return queryGetStreakSource(ctx, s.db, userID)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) CreateTimeEntry(ctx context.Context, entry *model.TimeEntry) error {
	return queryCreateTimeEntry(ctx, s.tx, entry)
}

func (s *txStore) GetTimeEntry(ctx context.Context, id string) (*model.TimeEntry, error) {
	return queryGetTimeEntry(ctx, s.tx, id)
}

func (s *txStore) ListTimeEntries(ctx context.Context, filter model.EntryFilter) ([]*model.TimeEntry, int, error) {
	return queryListTimeEntries(ctx, s.tx, filter)
}

func (s *txStore) DeleteTimeEntry(ctx context.Context, id string) error {
	return queryDeleteTimeEntry(ctx, s.tx, id)
}

func (s *txStore) CreatePomodoroRun(ctx context.Context, run *model.PomodoroRun) error {
	return queryCreatePomodoroRun(ctx, s.tx, run)
}

func (s *txStore) GetPomodoroRun(ctx context.Context, id string) (*model.PomodoroRun, error) {
	return queryGetPomodoroRun(ctx, s.tx, id)
}

func (s *txStore) CompletePomodoroPhase(ctx context.Context, rec *model.PhaseRecord) error {
	return queryCompletePomodoroPhase(ctx, s.tx, rec)
}

func (s *txStore) GetPhaseRecords(ctx context.Context, runID string) ([]*model.PhaseRecord, error) {
	return queryGetPhaseRecords(ctx, s.tx, runID)
}

func (s *txStore) CancelPomodoroRun(ctx context.Context, id string, partial *model.PartialWork) error {
	return queryCancelPomodoroRun(ctx, s.tx, id, partial)
}

func (s *txStore) GetPomodoroPreferences(ctx context.Context, userID string) (model.PomodoroPreferences, error) {
	return queryGetPomodoroPreferences(ctx, s.tx, userID)
}

func (s *txStore) UpdatePomodoroPreferences(ctx context.Context, userID string, prefs model.PomodoroPreferences) error {
	return queryUpdatePomodoroPreferences(ctx, s.tx, userID, prefs)
}

func (s *txStore) CreateTask(ctx context.Context, task *model.Task) error {
	return queryCreateTask(ctx, s.tx, task)
}

func (s *txStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return queryGetTask(ctx, s.tx, id)
}

func (s *txStore) ListTasks(ctx context.Context, userID string) ([]*model.Task, error) {
	return queryListTasks(ctx, s.tx, userID)
}

func (s *txStore) UpdateTask(ctx context.Context, task *model.Task) error {
	return queryUpdateTask(ctx, s.tx, task)
}

func (s *txStore) CreateEvent(ctx context.Context, event *model.Event) error {
	return queryCreateEvent(ctx, s.tx, event)
}

func (s *txStore) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	return queryGetEvent(ctx, s.tx, id)
}

func (s *txStore) ListEvents(ctx context.Context, userID string) ([]*model.Event, error) {
	return queryListEvents(ctx, s.tx, userID)
}

func (s *txStore) CreateBoard(ctx context.Context, board *model.Board) error {
	return queryCreateBoard(ctx, s.tx, board)
}

func (s *txStore) GetBoard(ctx context.Context, id string) (*model.Board, error) {
	return queryGetBoard(ctx, s.tx, id)
}

func (s *txStore) ListBoards(ctx context.Context, userID string) ([]*model.Board, error) {
	return queryListBoards(ctx, s.tx, userID)
}

func (s *txStore) DeleteBoard(ctx context.Context, id string) error {
	return queryDeleteBoard(ctx, s.tx, id)
}

func (s *txStore) GetWorkflowGraph(ctx context.Context, boardID string) (*model.WorkflowGraph, error) {
	return queryGetWorkflowGraph(ctx, s.tx, boardID)
}

func (s *txStore) AddWorkflowNode(ctx context.Context, node *model.WorkflowNode) error {
	return queryAddWorkflowNode(ctx, s.tx, node)
}

func (s *txStore) RemoveWorkflowNode(ctx context.Context, boardID, nodeID string) error {
	return queryRemoveWorkflowNode(ctx, s.tx, boardID, nodeID)
}

func (s *txStore) AddWorkflowEdge(ctx context.Context, edge *model.WorkflowEdge) error {
	return queryAddWorkflowEdge(ctx, s.tx, edge)
}

func (s *txStore) RemoveWorkflowEdge(ctx context.Context, boardID, edgeID string) error {
	return queryRemoveWorkflowEdge(ctx, s.tx, boardID, edgeID)
}

func (s *txStore) GetStreakSource(ctx context.Context, userID string) ([]model.TimeEntry, error) {
	return queryGetStreakSource(ctx, s.tx, userID)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
