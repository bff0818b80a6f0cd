package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"curator/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryCreatable_Existing(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryCreatable("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for existing dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryCreatable_MissingUnderWritableParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c")
	result := CheckDirectoryCreatable("test", path)
	if !result.Passed {
		t.Fatalf("expected pass for creatable path, got: %s", result.Detail)
	}
}

func TestCheckCatalogFile_MissingButCreatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	result := CheckCatalogFile("test", path)
	if !result.Passed {
		t.Fatalf("expected pass for creatable catalog, got: %s", result.Detail)
	}
}

func TestCheckCatalogFile_RejectsDirectory(t *testing.T) {
	result := CheckCatalogFile("test", t.TempDir())
	if result.Passed {
		t.Fatal("expected failure when catalog path is a directory")
	}
}

func TestCheckDiskSpace_ReportsUsage(t *testing.T) {
	result := CheckDiskSpace("test", t.TempDir())
	if result.Detail == "" {
		t.Fatal("expected detail with usage numbers")
	}
}

func TestRunAllCoversConfiguredPaths(t *testing.T) {
	base := t.TempDir()
	cfg := config.Config{}
	cfg.Paths.ArchiveDir = base
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.QuarantineDir = filepath.Join(base, "quarantine")
	cfg.Paths.CatalogPath = filepath.Join(base, "catalog.db")
	cfg.Catalog.Enabled = true

	results := RunAll(&cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 checks, got %d", len(results))
	}
	if !Healthy(results) {
		for _, result := range results {
			t.Logf("%s: passed=%v detail=%s", result.Name, result.Passed, result.Detail)
		}
		t.Fatal("expected all checks to pass in temp environment")
	}

	if RunAll(nil) != nil {
		t.Fatal("expected nil results for nil config")
	}
}
