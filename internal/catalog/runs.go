package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Kind labels which operation produced a run.
type Kind string

const (
	KindScan     Kind = "scan"
	KindDupes    Kind = "dupes"
	KindOrganize Kind = "organize"
)

// Dispositions recorded for duplicate pairs.
const (
	DispositionKept        = "kept"
	DispositionDeleted     = "deleted"
	DispositionQuarantined = "quarantined"
)

// Run summarizes one recorded operation. Bytes carries the kind-specific
// byte counter: total size for scans, reclaimable bytes for duplicate
// sweeps, and bytes relocated for organize passes.
type Run struct {
	ID           int64
	RunID        string
	Kind         Kind
	Root         string
	StartedAt    time.Time
	FinishedAt   time.Time
	FilesScanned int64
	ItemsFound   int64
	Failures     int64
	Bytes        int64
	Detail       string
}

// PairRow is one duplicate pair recorded under a run.
type PairRow struct {
	Original    string
	Duplicate   string
	Hash        string
	SizeBytes   int64
	Disposition string
}

// MoveRow is one relocation recorded under a run.
type MoveRow struct {
	Source      string
	Destination string
	GroupKey    string
	SizeBytes   int64
}

// FailureRow is one per-file failure recorded under a run.
type FailureRow struct {
	Path   string
	Reason string
}

// Totals aggregates counters across every recorded run.
type Totals struct {
	Runs         int64
	FilesScanned int64
	ItemsFound   int64
	Failures     int64
	Bytes        int64
}

const runColumns = "id, run_id, kind, root, started_at, finished_at, files_scanned, items_found, failures, bytes, detail"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run      Run
		kind     string
		started  string
		finished string
		detail   sql.NullString
	)
	if err := row.Scan(
		&run.ID,
		&run.RunID,
		&kind,
		&run.Root,
		&started,
		&finished,
		&run.FilesScanned,
		&run.ItemsFound,
		&run.Failures,
		&run.Bytes,
		&detail,
	); err != nil {
		return nil, err
	}
	run.Kind = Kind(kind)
	run.StartedAt = parseTimestamp(started)
	run.FinishedAt = parseTimestamp(finished)
	run.Detail = detail.String
	return &run, nil
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// ListRuns returns the most recent runs, newest first. A non-positive limit
// defaults to 20.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun fetches one run by its identifier. It returns nil without error
// when no run matches.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID)
	run, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// Pairs returns the duplicate pairs recorded for a run in insertion order.
func (s *Store) Pairs(ctx context.Context, runID string) ([]PairRow, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT original, duplicate, hash, size_bytes, disposition FROM run_pairs WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("list pairs: %w", err)
	}
	defer rows.Close()

	var pairs []PairRow
	for rows.Next() {
		var pair PairRow
		if err := rows.Scan(&pair.Original, &pair.Duplicate, &pair.Hash, &pair.SizeBytes, &pair.Disposition); err != nil {
			return nil, fmt.Errorf("scan pair: %w", err)
		}
		pairs = append(pairs, pair)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pairs: %w", err)
	}
	return pairs, nil
}

// Moves returns the relocations recorded for a run in insertion order.
func (s *Store) Moves(ctx context.Context, runID string) ([]MoveRow, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT source, destination, group_key, size_bytes FROM run_moves WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRow
	for rows.Next() {
		var move MoveRow
		if err := rows.Scan(&move.Source, &move.Destination, &move.GroupKey, &move.SizeBytes); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		moves = append(moves, move)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moves: %w", err)
	}
	return moves, nil
}

// Failures returns the per-file failures recorded for a run in insertion order.
func (s *Store) Failures(ctx context.Context, runID string) ([]FailureRow, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT path, reason FROM run_failures WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("list failures: %w", err)
	}
	defer rows.Close()

	var failures []FailureRow
	for rows.Next() {
		var failure FailureRow
		if err := rows.Scan(&failure.Path, &failure.Reason); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		failures = append(failures, failure)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate failures: %w", err)
	}
	return failures, nil
}

// Totals aggregates counters across all recorded runs.
func (s *Store) Totals(ctx context.Context) (*Totals, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1), COALESCE(SUM(files_scanned), 0), COALESCE(SUM(items_found), 0), COALESCE(SUM(failures), 0), COALESCE(SUM(bytes), 0) FROM runs")
	var totals Totals
	if err := row.Scan(&totals.Runs, &totals.FilesScanned, &totals.ItemsFound, &totals.Failures, &totals.Bytes); err != nil {
		return nil, fmt.Errorf("aggregate runs: %w", err)
	}
	return &totals, nil
}
