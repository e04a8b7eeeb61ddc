package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("history: run not found")

const interruptedMessage = "run interrupted before completion"

// Start inserts a running row for a new job.
func (s *Store) Start(ctx context.Context, jobID, flow, input string, outputs []string) (*Record, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, errors.New("history: job id is required")
	}
	encoded, err := encodeOutputs(outputs)
	if err != nil {
		return nil, fmt.Errorf("encode outputs: %w", err)
	}
	started := formatTime(time.Now())

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO runs (
            job_id, flow, input_path, outputs_json, status, exit_code, started_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		jobID,
		flow,
		input,
		encoded,
		StatusRunning,
		0,
		started,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Finish finalizes a running row with the outcome of the pipeline.
func (s *Store) Finish(ctx context.Context, id int64, outcome Outcome) error {
	errMsg := ""
	if outcome.Err != nil {
		errMsg = outcome.Err.Error()
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE runs
            SET status = ?, failed_stage = ?, exit_code = ?, error_message = ?, finished_at = ?
          WHERE id = ?`,
		outcome.Status(),
		nullableString(outcome.FailedStage),
		outcome.ExitCode,
		nullableString(errMsg),
		formatTime(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run %d: %w", id, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

// GetByID fetches a run by its row id.
func (s *Store) GetByID(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %d: %w", id, err)
	}
	return rec, nil
}

// List returns the most recent runs first. A limit <= 0 returns every row.
func (s *Store) List(ctx context.Context, limit int) ([]*Record, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Stats returns a count of runs grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("history stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// ReclaimInterrupted marks rows left running by a process that never finished
// them as failed. Callers must hold the run lock.
func (s *Store) ReclaimInterrupted(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE runs
            SET status = ?, error_message = ?, exit_code = 1, finished_at = ?
          WHERE status = ?`,
		StatusFailed,
		interruptedMessage,
		formatTime(time.Now()),
		StatusRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("reclaim interrupted runs: %w", err)
	}
	return res.RowsAffected()
}

// Prune keeps the newest keep rows and deletes the rest. keep <= 0 is a no-op.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := s.execWithRetry(
		ctx,
		`DELETE FROM runs WHERE id NOT IN (
            SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT ?
        )`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes every recorded run.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return res.RowsAffected()
}
