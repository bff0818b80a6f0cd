package testsupport

import (
	"context"
	"testing"
	"time"

	"curator/internal/catalog"
	"curator/internal/config"
	"curator/internal/report"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg.Paths.CatalogPath)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordScan saves a minimal scan run for tests using the provided store.
func RecordScan(t testing.TB, store *catalog.Store, root string, files int, totalBytes int64) *catalog.Run {
	t.Helper()

	rep := &report.Report{
		Root:           root,
		GeneratedAt:    time.Now().UTC(),
		FileCount:      files,
		TotalSizeBytes: totalBytes,
		Elapsed:        time.Second,
	}
	run, err := store.SaveReport(context.Background(), rep)
	if err != nil {
		t.Fatalf("store.SaveReport: %v", err)
	}
	return run
}
