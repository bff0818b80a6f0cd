package main

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"curator/internal/catalog"
	"curator/internal/config"
	"curator/internal/logging"
)

type commandContext struct {
	configFlag    *string
	noCatalogFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, noCatalogFlag *bool) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		noCatalogFlag: noCatalogFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// runLogger builds the file-backed logger once and prunes expired logs on
// first use.
func (c *commandContext) runLogger(cfg *config.Config) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
		logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
			Dir:     cfg.Paths.LogDir,
			Pattern: "*.log",
			Exclude: []string{filepath.Join(cfg.Paths.LogDir, "curator.log")},
		})
	})
	return c.logger, c.loggerErr
}

// operationContext tags the command context with a fresh correlation ID so
// every log line of one invocation can be grepped together.
func (c *commandContext) operationContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithCorrelationID(ctx, uuid.NewString())
}

func (c *commandContext) catalogEnabled(cfg *config.Config) bool {
	if c.noCatalogFlag != nil && *c.noCatalogFlag {
		return false
	}
	return cfg != nil && cfg.Catalog.Enabled && cfg.Paths.CatalogPath != ""
}

// withCatalog hands fn an open catalog store, holding the single-instance
// lock for the duration. With the catalog disabled fn receives nil and no
// lock is taken.
func (c *commandContext) withCatalog(cfg *config.Config, fn func(*catalog.Store) error) error {
	if !c.catalogEnabled(cfg) {
		return fn(nil)
	}
	lock, err := catalog.AcquireLock(filepath.Dir(cfg.Paths.CatalogPath))
	if err != nil {
		return err
	}
	defer lock.Release()

	store, err := catalog.Open(cfg.Paths.CatalogPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// readCatalog opens the catalog without taking the run lock. Reads are safe
// alongside a writer thanks to WAL mode and the busy-retry policy.
func (c *commandContext) readCatalog(cfg *config.Config) (*catalog.Store, error) {
	if !c.catalogEnabled(cfg) {
		return nil, errors.New("catalog is disabled (enable it in config or drop --no-catalog)")
	}
	return catalog.Open(cfg.Paths.CatalogPath)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
