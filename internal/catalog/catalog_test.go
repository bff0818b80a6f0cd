package catalog_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"curator/internal/catalog"
	"curator/internal/dedupe"
	"curator/internal/organizer"
	"curator/internal/report"
	"curator/internal/scan"
	"curator/internal/testsupport"
)

func openStore(t *testing.T) *catalog.Store {
	t.Helper()
	return testsupport.MustOpenStore(t, testsupport.NewConfig(t))
}

func TestSaveReportRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	rep := &report.Report{
		Root:           "/archive",
		FileCount:      42,
		TotalSizeBytes: 9000,
		TypeCounts:     []report.TypeCount{{MIMEType: "text/plain", Count: 40}},
		SkippedFiles:   2,
		Elapsed:        3 * time.Second,
	}
	run, err := store.SaveReport(ctx, rep)
	if err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}
	if run.ID == 0 {
		t.Fatal("expected run ID to be assigned")
	}
	if run.RunID == "" {
		t.Fatal("expected run identifier to be assigned")
	}

	fetched, err := store.GetRun(ctx, run.RunID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected run to be fetchable")
	}
	if fetched.Kind != catalog.KindScan {
		t.Fatalf("kind = %q, want %q", fetched.Kind, catalog.KindScan)
	}
	if fetched.FilesScanned != 42 || fetched.Failures != 2 || fetched.Bytes != 9000 {
		t.Fatalf("unexpected counters: %+v", fetched)
	}
	if fetched.FinishedAt.Before(fetched.StartedAt) {
		t.Fatalf("finished %v before started %v", fetched.FinishedAt, fetched.StartedAt)
	}
}

func TestSaveDedupeRecordsPairs(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	res := &dedupe.Result{
		Root: "/archive",
		Pairs: []dedupe.Pair{
			{Original: "/archive/a.txt", Duplicate: "/archive/b.txt", Hash: "aa11", SizeBytes: 6},
			{Original: "/archive/a.txt", Duplicate: "/archive/c.txt", Hash: "aa11", SizeBytes: 6, Deleted: true},
			{Original: "/archive/d.bin", Duplicate: "/archive/e.bin", Hash: "bb22", SizeBytes: 128, QuarantinedTo: "/quarantine/e.bin"},
		},
		Skips: []scan.Skip{
			{Path: "/archive/locked.txt", Reason: errors.New("permission denied")},
		},
		FilesScanned:     10,
		FilesHashed:      5,
		Deleted:          1,
		Quarantined:      1,
		ReclaimableBytes: 140,
		Elapsed:          time.Second,
	}
	run, err := store.SaveDedupe(ctx, res, dedupe.AlgorithmSHA256)
	if err != nil {
		t.Fatalf("SaveDedupe failed: %v", err)
	}
	if run.Kind != catalog.KindDupes || run.ItemsFound != 3 || run.Bytes != 140 {
		t.Fatalf("unexpected run summary: %+v", run)
	}

	pairs, err := store.Pairs(ctx, run.RunID)
	if err != nil {
		t.Fatalf("Pairs failed: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}
	wantDispositions := []string{
		catalog.DispositionKept,
		catalog.DispositionDeleted,
		catalog.DispositionQuarantined,
	}
	for i, pair := range pairs {
		if pair.Disposition != wantDispositions[i] {
			t.Fatalf("pair %d disposition = %q, want %q", i, pair.Disposition, wantDispositions[i])
		}
	}
	if pairs[0].Original != "/archive/a.txt" || pairs[0].Duplicate != "/archive/b.txt" || pairs[0].Hash != "aa11" {
		t.Fatalf("unexpected first pair: %+v", pairs[0])
	}

	failures, err := store.Failures(ctx, run.RunID)
	if err != nil {
		t.Fatalf("Failures failed: %v", err)
	}
	if len(failures) != 1 || failures[0].Path != "/archive/locked.txt" {
		t.Fatalf("unexpected failures: %+v", failures)
	}
}

func TestSaveOrganizeRecordsMoves(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	out := &organizer.Outcome{
		Root:  "/archive",
		Field: "mime_type",
		Moves: []organizer.Move{
			{Source: "/archive/a.txt", Destination: "/archive/text-plain/a.txt", GroupKey: "text-plain", SizeBytes: 100},
			{Source: "/archive/b.pdf", Destination: "/archive/application-pdf/b.pdf", GroupKey: "application-pdf", SizeBytes: 250},
		},
		Failures: []organizer.Failure{
			{Path: "/archive/c.txt", Reason: errors.New("device busy")},
		},
		Unchanged: 4,
		Elapsed:   500 * time.Millisecond,
	}
	run, err := store.SaveOrganize(ctx, out)
	if err != nil {
		t.Fatalf("SaveOrganize failed: %v", err)
	}
	if run.Kind != catalog.KindOrganize {
		t.Fatalf("kind = %q, want %q", run.Kind, catalog.KindOrganize)
	}
	if run.ItemsFound != 2 || run.Failures != 1 || run.FilesScanned != 7 {
		t.Fatalf("unexpected counters: %+v", run)
	}
	if run.Bytes != 350 {
		t.Fatalf("bytes = %d, want 350", run.Bytes)
	}

	moves, err := store.Moves(ctx, run.RunID)
	if err != nil {
		t.Fatalf("Moves failed: %v", err)
	}
	if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
	if moves[0].GroupKey != "text-plain" || moves[1].GroupKey != "application-pdf" {
		t.Fatalf("unexpected move order: %+v", moves)
	}

	failures, err := store.Failures(ctx, run.RunID)
	if err != nil {
		t.Fatalf("Failures failed: %v", err)
	}
	if len(failures) != 1 || failures[0].Reason != "device busy" {
		t.Fatalf("unexpected failures: %+v", failures)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		run, err := store.SaveReport(ctx, &report.Report{Root: "/archive", FileCount: i})
		if err != nil {
			t.Fatalf("SaveReport failed: %v", err)
		}
		ids = append(ids, run.RunID)
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != ids[2] || runs[1].RunID != ids[1] {
		t.Fatalf("unexpected order: got %s then %s", runs[0].RunID, runs[1].RunID)
	}

	totals, err := store.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if totals.Runs != 3 {
		t.Fatalf("totals.Runs = %d, want 3", totals.Runs)
	}
}

func TestGetRunMissing(t *testing.T) {
	store := openStore(t)

	run, err := store.GetRun(context.Background(), "no-such-run")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run != nil {
		t.Fatalf("expected nil run, got %+v", run)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	store, err := catalog.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("raw open failed: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("raw close failed: %v", err)
	}

	if _, err := catalog.Open(path); !errors.Is(err, catalog.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestAcquireLockExclusive(t *testing.T) {
	dir := t.TempDir()

	lock, err := catalog.AcquireLock(dir)
	if err != nil {
		t.Fatalf("AcquireLock failed: %v", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			t.Errorf("Release failed: %v", err)
		}
	}()

	if _, err := catalog.AcquireLock(dir); err == nil {
		t.Fatal("expected second AcquireLock to fail while lock is held")
	}
}

func TestAcquireLockReleasable(t *testing.T) {
	dir := t.TempDir()

	lock, err := catalog.AcquireLock(dir)
	if err != nil {
		t.Fatalf("AcquireLock failed: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	again, err := catalog.AcquireLock(dir)
	if err != nil {
		t.Fatalf("AcquireLock after release failed: %v", err)
	}
	if err := again.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
}
