package config

import (
	"errors"
	"fmt"
)

var knownAlgorithms = map[string]struct{}{
	"sha256": {},
	"sha512": {},
}

var knownFields = map[string]struct{}{
	"name":        {},
	"size_bytes":  {},
	"mime_type":   {},
	"extension":   {},
	"created_at":  {},
	"modified_at": {},
	"captured_at": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateDupes(); err != nil {
		return err
	}
	if err := c.validateOrganize(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.ArchiveDir == "" {
		return errors.New("paths.archive_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Catalog.Enabled && c.Paths.CatalogPath == "" {
		return errors.New("paths.catalog_path must be set when catalog.enabled is true")
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.ReportTopN <= 0 {
		return errors.New("scan.report_top_n must be positive")
	}
	return nil
}

func (c *Config) validateDupes() error {
	switch c.Dupes.Algorithm {
	case "md5", "sha1":
		return fmt.Errorf("dupes.algorithm %q is too weak for duplicate confirmation", c.Dupes.Algorithm)
	}
	if _, ok := knownAlgorithms[c.Dupes.Algorithm]; !ok {
		return fmt.Errorf("dupes.algorithm %q is not supported (use sha256 or sha512)", c.Dupes.Algorithm)
	}
	if c.Dupes.ChunkSizeBytes <= 0 {
		return errors.New("dupes.chunk_size_bytes must be positive")
	}
	return nil
}

func (c *Config) validateOrganize() error {
	if _, ok := knownFields[c.Organize.DefaultField]; !ok {
		return fmt.Errorf("organize.default_field %q is not a known metadata field", c.Organize.DefaultField)
	}
	return nil
}
