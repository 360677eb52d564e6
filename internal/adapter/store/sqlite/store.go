// Package sqlite persists benchmark run history using SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bkyoung/gridbench/internal/usecase/solve"
)

// Store implements the solve.Store interface using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return s, nil
}

func (s *Store) createSchema() error {
	schema := `
	-- Metadata about each benchmark run
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		model TEXT NOT NULL,
		data_dir TEXT,
		corpus_rev TEXT,
		total_cost REAL DEFAULT 0.0
	);

	-- One row per attempt slot outcome
	CREATE TABLE IF NOT EXISTS attempts (
		attempt_id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		task_id TEXT NOT NULL,
		test_index INTEGER NOT NULL,
		slot INTEGER NOT NULL,
		status TEXT NOT NULL CHECK(status IN ('success', 'failed', 'exhausted', 'cancelled')),
		error_kind TEXT,
		prompt_tokens INTEGER DEFAULT 0,
		output_tokens INTEGER DEFAULT 0,
		reasoning_tokens INTEGER DEFAULT 0,
		cost REAL DEFAULT 0.0,
		duration_ms INTEGER DEFAULT 0,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_attempts_run ON attempts(run_id);
	CREATE INDEX IF NOT EXISTS idx_attempts_task ON attempts(task_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateRun inserts a run record.
func (s *Store) CreateRun(ctx context.Context, run solve.StoreRun) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, timestamp, model, data_dir, corpus_rev, total_cost)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Timestamp.Unix(), run.Model, run.DataDir, run.CorpusRev, run.TotalCost)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}
	return nil
}

// SaveAttempt inserts one slot outcome row.
func (s *Store) SaveAttempt(ctx context.Context, attempt solve.StoreAttempt) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attempts (run_id, task_id, test_index, slot, status, error_kind,
			prompt_tokens, output_tokens, reasoning_tokens, cost, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.RunID, attempt.TaskID, attempt.TestIndex, attempt.Slot,
		attempt.Status, attempt.ErrorKind,
		attempt.PromptTokens, attempt.OutputTokens, attempt.ReasoningTokens,
		attempt.Cost, attempt.Duration.Milliseconds(), attempt.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert attempt for %s slot %d: %w", attempt.TaskID, attempt.Slot, err)
	}
	return nil
}

// UpdateRunCost records the final total cost of a run.
func (s *Store) UpdateRunCost(ctx context.Context, runID string, totalCost float64) error {
	result, err := s.db.ExecContext(ctx, `UPDATE runs SET total_cost = ? WHERE run_id = ?`, totalCost, runID)
	if err != nil {
		return fmt.Errorf("update run cost %s: %w", runID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update run cost %s: %w", runID, err)
	}
	if rows == 0 {
		return fmt.Errorf("update run cost: run %s not found", runID)
	}
	return nil
}

// RunSummary is one row of run history.
type RunSummary struct {
	RunID     string
	Timestamp time.Time
	Model     string
	CorpusRev string
	TotalCost float64
	Attempts  int
	Succeeded int
}

// ListRuns returns run history newest first, with per-run attempt
// counts.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.run_id, r.timestamp, r.model, COALESCE(r.corpus_rev, ''), r.total_cost,
			COUNT(a.attempt_id),
			COALESCE(SUM(CASE WHEN a.status = 'success' THEN 1 ELSE 0 END), 0)
		FROM runs r
		LEFT JOIN attempts a ON a.run_id = r.run_id
		GROUP BY r.run_id
		ORDER BY r.timestamp DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var summary RunSummary
		var ts int64
		if err := rows.Scan(&summary.RunID, &ts, &summary.Model, &summary.CorpusRev,
			&summary.TotalCost, &summary.Attempts, &summary.Succeeded); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		summary.Timestamp = time.Unix(ts, 0).UTC()
		out = append(out, summary)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
