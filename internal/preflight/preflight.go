package preflight

import (
	"curator/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Archive root (always checked)
	results = append(results, CheckDirectoryAccess("Archive directory", cfg.Paths.ArchiveDir))

	// Log directory (always checked; commands create it on demand)
	results = append(results, CheckDirectoryCreatable("Log directory", cfg.Paths.LogDir))

	// Quarantine destination (created lazily by dupes --quarantine)
	if cfg.Paths.QuarantineDir != "" {
		results = append(results, CheckDirectoryCreatable("Quarantine directory", cfg.Paths.QuarantineDir))
	}

	// Catalog database
	if cfg.Catalog.Enabled {
		results = append(results, CheckCatalogFile("Catalog database", cfg.Paths.CatalogPath))
	}

	// Free space on the archive volume
	results = append(results, CheckDiskSpace("Disk space", cfg.Paths.ArchiveDir))

	return results
}

// Healthy reports whether every result passed.
func Healthy(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
