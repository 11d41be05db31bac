// Package runstore persists a history of blocking-debugger runs — not the
// intermediate index state the algorithm builds and discards, only the
// request/outcome metadata a caller later wants to audit or re-inspect.
package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"blockdebug/internal/domain"
)

// Status values a Run can hold.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run is one recorded DebugBlock invocation.
type Run struct {
	ID              string
	Status          string
	LtableSource    string
	RtableSource    string
	OutputSize      int
	SelectedColumns []string
	ResultCount     int
	ErrorMessage    string
	CreatedAt       time.Time
	FinishedAt      *time.Time
}

// Pair is one ranked result row persisted for a run.
type Pair struct {
	Rank       int
	Similarity float64
	LeftKey    string
	RightKey   string
}

// Store persists Run/Pair records against a SQLite metastore. Both reads and
// writes go through db, which should be the single-connection write pool
// from db.OpenSQLitePair; Store does not use a separate read pool.
type Store struct {
	db *sql.DB
}

// New wraps an already-migrated *sql.DB.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new run in StatusRunning and returns it.
func (s *Store) Create(ctx context.Context, id, ltableSource, rtableSource string, outputSize int) (*Run, error) {
	run := &Run{
		ID:           id,
		Status:       StatusRunning,
		LtableSource: ltableSource,
		RtableSource: rtableSource,
		OutputSize:   outputSize,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, ltable_source, rtable_source, output_size, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Status, run.LtableSource, run.RtableSource, run.OutputSize, run.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Complete marks a run succeeded, recording the selected feature columns
// and result pairs.
func (s *Store) Complete(ctx context.Context, id string, selectedColumns []string, pairs []Pair) error {
	colsJSON, err := json.Marshal(selectedColumns)
	if err != nil {
		return fmt.Errorf("marshal selected columns: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	finished := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE runs SET status = ?, selected_columns = ?, result_count = ?, finished_at = ? WHERE id = ?`,
		StatusSucceeded, string(colsJSON), len(pairs), finished.Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}

	for _, p := range pairs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_pairs (run_id, rank, similarity, left_key, right_key) VALUES (?, ?, ?, ?, ?)`,
			id, p.Rank, p.Similarity, p.LeftKey, p.RightKey)
		if err != nil {
			return fmt.Errorf("insert run pair: %w", err)
		}
	}

	return tx.Commit()
}

// Fail marks a run failed with the given error message.
func (s *Store) Fail(ctx context.Context, id string, cause error) error {
	finished := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		StatusFailed, cause.Error(), finished.Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("fail run: %w", err)
	}
	return nil
}

// Get loads a single run by ID, or *domain.UnknownKeyError if it doesn't exist.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, ltable_source, rtable_source, output_size, selected_columns,
		        result_count, error_message, created_at, finished_at
		 FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUnknownKey("run %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return run, nil
}

// Pairs returns the persisted ranked pairs for a run, ordered by rank.
func (s *Store) Pairs(ctx context.Context, runID string) ([]Pair, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rank, similarity, left_key, right_key FROM run_pairs WHERE run_id = ? ORDER BY rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("list run pairs: %w", err)
	}
	defer rows.Close()

	var out []Pair
	for rows.Next() {
		var p Pair
		if err := rows.Scan(&p.Rank, &p.Similarity, &p.LeftKey, &p.RightKey); err != nil {
			return nil, fmt.Errorf("scan run pair: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// List returns the most recent runs, newest first, bounded by limit.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, ltable_source, rtable_source, output_size, selected_columns,
		        result_count, error_message, created_at, finished_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(r rowScanner) (*Run, error) {
	var run Run
	var colsJSON string
	var createdAt string
	var finishedAt sql.NullString

	if err := r.Scan(&run.ID, &run.Status, &run.LtableSource, &run.RtableSource, &run.OutputSize,
		&colsJSON, &run.ResultCount, &run.ErrorMessage, &createdAt, &finishedAt); err != nil {
		return nil, err
	}

	if colsJSON != "" {
		if err := json.Unmarshal([]byte(colsJSON), &run.SelectedColumns); err != nil {
			return nil, fmt.Errorf("unmarshal selected columns: %w", err)
		}
	}

	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	run.CreatedAt = created

	if finishedAt.Valid {
		f, err := time.Parse(time.RFC3339, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		run.FinishedAt = &f
	}

	return &run, nil
}
