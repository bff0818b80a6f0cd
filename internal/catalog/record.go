package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"curator/internal/dedupe"
	"curator/internal/organizer"
	"curator/internal/report"
	"curator/internal/scan"
)

func newRun(kind Kind, root string, elapsed time.Duration) *Run {
	finished := time.Now().UTC()
	return &Run{
		RunID:      uuid.NewString(),
		Kind:       kind,
		Root:       root,
		StartedAt:  finished.Add(-elapsed),
		FinishedAt: finished,
	}
}

func reasonText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func skipFailures(skips []scan.Skip) []FailureRow {
	failures := make([]FailureRow, 0, len(skips))
	for _, skip := range skips {
		failures = append(failures, FailureRow{Path: skip.Path, Reason: reasonText(skip.Reason)})
	}
	return failures
}

// SaveDedupe records a completed duplicate sweep with every confirmed pair.
func (s *Store) SaveDedupe(ctx context.Context, res *dedupe.Result, algorithm dedupe.Algorithm) (*Run, error) {
	if res == nil {
		return nil, errors.New("nil dedupe result")
	}
	run := newRun(KindDupes, res.Root, res.Elapsed)
	run.FilesScanned = int64(res.FilesScanned)
	run.ItemsFound = int64(len(res.Pairs))
	run.Failures = int64(len(res.Skips))
	run.Bytes = res.ReclaimableBytes
	run.Detail = fmt.Sprintf("algorithm=%s hashed=%d deleted=%d quarantined=%d",
		algorithm, res.FilesHashed, res.Deleted, res.Quarantined)

	pairs := make([]PairRow, 0, len(res.Pairs))
	for _, pair := range res.Pairs {
		disposition := DispositionKept
		switch {
		case pair.Deleted:
			disposition = DispositionDeleted
		case pair.QuarantinedTo != "":
			disposition = DispositionQuarantined
		}
		pairs = append(pairs, PairRow{
			Original:    pair.Original,
			Duplicate:   pair.Duplicate,
			Hash:        pair.Hash,
			SizeBytes:   pair.SizeBytes,
			Disposition: disposition,
		})
	}

	if err := s.insertRun(ctx, run, pairs, nil, skipFailures(res.Skips)); err != nil {
		return nil, err
	}
	return run, nil
}

// SaveOrganize records a completed organize pass with its moves and failures.
func (s *Store) SaveOrganize(ctx context.Context, out *organizer.Outcome) (*Run, error) {
	if out == nil {
		return nil, errors.New("nil organize outcome")
	}
	run := newRun(KindOrganize, out.Root, out.Elapsed)
	run.FilesScanned = int64(len(out.Moves) + out.Unchanged + len(out.Failures))
	run.ItemsFound = int64(len(out.Moves))
	run.Failures = int64(len(out.Failures))
	run.Detail = fmt.Sprintf("field=%s unchanged=%d", out.Field, out.Unchanged)

	moves := make([]MoveRow, 0, len(out.Moves))
	for _, move := range out.Moves {
		run.Bytes += move.SizeBytes
		moves = append(moves, MoveRow{
			Source:      move.Source,
			Destination: move.Destination,
			GroupKey:    move.GroupKey,
			SizeBytes:   move.SizeBytes,
		})
	}

	failures := make([]FailureRow, 0, len(out.Failures))
	for _, failure := range out.Failures {
		failures = append(failures, FailureRow{Path: failure.Path, Reason: reasonText(failure.Reason)})
	}

	if err := s.insertRun(ctx, run, nil, moves, failures); err != nil {
		return nil, err
	}
	return run, nil
}

// SaveReport records a completed archive scan.
func (s *Store) SaveReport(ctx context.Context, rep *report.Report) (*Run, error) {
	if rep == nil {
		return nil, errors.New("nil report")
	}
	run := newRun(KindScan, rep.Root, rep.Elapsed)
	run.FilesScanned = int64(rep.FileCount)
	run.ItemsFound = int64(rep.FileCount)
	run.Failures = int64(rep.SkippedFiles)
	run.Bytes = rep.TotalSizeBytes
	run.Detail = fmt.Sprintf("types=%d", len(rep.TypeCounts))

	if err := s.insertRun(ctx, run, nil, nil, nil); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *Store) insertRun(ctx context.Context, run *Run, pairs []PairRow, moves []MoveRow, failures []FailureRow) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin run tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		res, err := tx.ExecContext(ctx,
			`INSERT INTO runs (
                run_id, kind, root, started_at, finished_at,
                files_scanned, items_found, failures, bytes, detail
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID,
			string(run.Kind),
			run.Root,
			run.StartedAt.Format(time.RFC3339Nano),
			run.FinishedAt.Format(time.RFC3339Nano),
			run.FilesScanned,
			run.ItemsFound,
			run.Failures,
			run.Bytes,
			nullableString(run.Detail),
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		run.ID = id

		for _, pair := range pairs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_pairs (run_id, original, duplicate, hash, size_bytes, disposition)
                 VALUES (?, ?, ?, ?, ?, ?)`,
				run.RunID, pair.Original, pair.Duplicate, pair.Hash, pair.SizeBytes, pair.Disposition,
			); err != nil {
				return fmt.Errorf("insert pair: %w", err)
			}
		}
		for _, move := range moves {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_moves (run_id, source, destination, group_key, size_bytes)
                 VALUES (?, ?, ?, ?, ?)`,
				run.RunID, move.Source, move.Destination, move.GroupKey, move.SizeBytes,
			); err != nil {
				return fmt.Errorf("insert move: %w", err)
			}
		}
		for _, failure := range failures {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_failures (run_id, path, reason)
                 VALUES (?, ?, ?)`,
				run.RunID, failure.Path, failure.Reason,
			); err != nil {
				return fmt.Errorf("insert failure: %w", err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit run: %w", err)
		}
		return nil
	})
}
