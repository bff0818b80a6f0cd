package testsupport

import (
	"path/filepath"
	"testing"

	"curator/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ArchiveDir = filepath.Join(base, "archive")
	cfgVal.Paths.QuarantineDir = filepath.Join(base, "quarantine")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.CatalogPath = filepath.Join(base, "catalog.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}

	return builder.cfg
}

// WithAlgorithm overrides the checksum algorithm on the test config.
func WithAlgorithm(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dupes.Algorithm = name
	}
}

// WithOrganizeField overrides the default grouping field on the test config.
func WithOrganizeField(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.DefaultField = name
	}
}

// WithCatalogDisabled turns off run recording for tests that exercise the
// no-catalog path.
func WithCatalogDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Enabled = false
	}
}

// WithAllowedFormats restricts organizing to the given extensions.
func WithAllowedFormats(formats ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.AllowedFormats = formats
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ArchiveDir)
}
