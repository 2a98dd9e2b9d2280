package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"serieslink/internal/catalog"
	"serieslink/internal/config"
	"serieslink/internal/index"
	"serieslink/internal/logging"
	"serieslink/internal/metric"
	"serieslink/internal/resolver"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
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

// ensureLogger builds the process logger once. Every invocation gets its own
// session id so log file records can be grouped per command run.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, uuid.NewString())
	})
	return c.logger, c.loggerErr
}

// begin returns the config, a context tagged with the command name, and a
// logger carrying that context.
func (c *commandContext) begin(cmd *cobra.Command) (context.Context, *config.Config, *slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	ctx := logging.WithCommand(cmd.Context(), cmd.Name())
	return ctx, cfg, logging.WithContext(ctx, logger), nil
}

// loadEntries reads the configured catalog into index entries.
func loadEntries(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]index.Entry, error) {
	titles, err := catalog.Load(ctx, cfg.Catalog, logger)
	if err != nil {
		return nil, err
	}
	return catalog.Entries(titles), nil
}

func buildIndex(ctx context.Context, cfg *config.Config, kind metric.Kind, entries []index.Entry, logger *slog.Logger) (*index.Index, error) {
	m, err := metric.New(kind)
	if err != nil {
		return nil, err
	}
	opts := []index.Option{
		index.WithWorkers(cfg.Matching.Workers),
		index.WithCache(cfg.Matching.CacheSize),
		index.WithLinearScanMax(cfg.Matching.LinearScanMax),
		index.WithLogger(logger),
	}
	if cfg.Matching.UniquePayloads {
		opts = append(opts, index.WithUniquePayloads())
	}
	idx, err := index.Build(ctx, m, entries, opts...)
	if err != nil {
		return nil, fmt.Errorf("build %s index: %w", kind, err)
	}
	return idx, nil
}

func resolverConfig(cfg *config.Config) resolver.Config {
	rc := resolver.DefaultConfig(cfg.MetricKind())
	if cfg.Matching.AcceptThreshold != nil {
		rc.AcceptThreshold = *cfg.Matching.AcceptThreshold
	}
	rc.MinMargin = cfg.Matching.MinMargin
	if cfg.Matching.TopK > 0 {
		rc.TopK = cfg.Matching.TopK
	}
	return rc
}

// newResolver loads the catalog and builds a resolver for the configured
// metric.
func newResolver(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*resolver.Resolver, error) {
	entries, err := loadEntries(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	idx, err := buildIndex(ctx, cfg, cfg.MetricKind(), entries, logger)
	if err != nil {
		return nil, err
	}
	return resolver.New(idx, resolverConfig(cfg), resolver.WithLogger(logger))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.4g", *score)
}
