package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeDupes()
	c.normalizeOrganize()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ArchiveDir, err = expandPath(c.Paths.ArchiveDir); err != nil {
		return fmt.Errorf("paths.archive_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.QuarantineDir) == "" {
		c.Paths.QuarantineDir = defaultQuarantineDir
	}
	if c.Paths.QuarantineDir, err = expandPath(c.Paths.QuarantineDir); err != nil {
		return fmt.Errorf("paths.quarantine_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		c.Paths.CatalogPath = defaultCatalogPath
	}
	if c.Paths.CatalogPath, err = expandPath(c.Paths.CatalogPath); err != nil {
		return fmt.Errorf("paths.catalog_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() {
	if c.Scan.ReportTopN <= 0 {
		c.Scan.ReportTopN = defaultReportTopN
	}
	if c.Scan.MinSizeBytes < 0 {
		c.Scan.MinSizeBytes = 0
	}
	c.Scan.ExcludeDirs = dedupeLower(c.Scan.ExcludeDirs)
}

func (c *Config) normalizeDupes() {
	c.Dupes.Algorithm = strings.ToLower(strings.TrimSpace(c.Dupes.Algorithm))
	if c.Dupes.Algorithm == "" {
		c.Dupes.Algorithm = defaultHashAlgorithm
	}
	if c.Dupes.ChunkSizeBytes <= 0 {
		c.Dupes.ChunkSizeBytes = defaultChunkSizeBytes
	}
}

func (c *Config) normalizeOrganize() {
	c.Organize.DefaultField = strings.ToLower(strings.TrimSpace(c.Organize.DefaultField))
	if c.Organize.DefaultField == "" {
		c.Organize.DefaultField = defaultOrganizeField
	}
	formats := make([]string, 0, len(c.Organize.AllowedFormats))
	seen := make(map[string]struct{}, len(c.Organize.AllowedFormats))
	for _, format := range c.Organize.AllowedFormats {
		normalized := strings.ToLower(strings.TrimSpace(format))
		normalized = strings.TrimPrefix(normalized, ".")
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		formats = append(formats, normalized)
	}
	c.Organize.AllowedFormats = formats
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func dedupeLower(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.TrimSpace(value)
		if normalized == "" {
			continue
		}
		key := strings.ToLower(normalized)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
