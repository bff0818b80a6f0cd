package config

const (
	defaultArchiveDir       = "~/archive"
	defaultQuarantineDir    = "~/.local/share/curator/quarantine"
	defaultLogDir           = "~/.local/share/curator/logs"
	defaultCatalogPath      = "~/.local/share/curator/catalog.db"
	defaultReportTopN       = 5
	defaultHashAlgorithm    = "sha256"
	defaultChunkSizeBytes   = 32 * 1024
	defaultOrganizeField    = "mime_type"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ArchiveDir:    defaultArchiveDir,
			QuarantineDir: defaultQuarantineDir,
			LogDir:        defaultLogDir,
			CatalogPath:   defaultCatalogPath,
		},
		Scan: Scan{
			ReportTopN: defaultReportTopN,
		},
		Dupes: Dupes{
			Algorithm:      defaultHashAlgorithm,
			ChunkSizeBytes: defaultChunkSizeBytes,
			FastTriage:     true,
		},
		Organize: Organize{
			DefaultField:   defaultOrganizeField,
			ReadImageDates: true,
		},
		Catalog: Catalog{
			Enabled: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
