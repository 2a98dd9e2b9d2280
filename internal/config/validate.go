package config

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"serieslink/internal/metric"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateBenchmark(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Format {
	case "json", "sqlite":
	default:
		return fmt.Errorf("catalog.format must be json or sqlite, got %q", c.Catalog.Format)
	}
	for field, value := range map[string]string{
		"catalog.table":          c.Catalog.Table,
		"catalog.title_column":   c.Catalog.TitleColumn,
		"catalog.payload_column": c.Catalog.PayloadColumn,
	} {
		if !isIdentifier(value) {
			return fmt.Errorf("%s must be a plain SQL identifier, got %q", field, value)
		}
	}
	return nil
}

func (c *Config) validateMatching() error {
	if _, err := metric.ParseKind(c.Matching.Metric); err != nil {
		return fmt.Errorf("matching.metric: %w", err)
	}
	if t := c.Matching.AcceptThreshold; t != nil && (math.IsNaN(*t) || math.IsInf(*t, 0)) {
		return errors.New("matching.accept_threshold must be finite")
	}
	if c.Matching.MinMargin < 0 {
		return errors.New("matching.min_margin must be >= 0")
	}
	if c.Matching.TopK < 1 {
		return errors.New("matching.top_k must be >= 1")
	}
	if c.Matching.MinMargin > 0 && c.Matching.TopK < 2 {
		return errors.New("matching.min_margin requires matching.top_k >= 2")
	}
	if err := ensureNonNegativeMap(map[string]int{
		"matching.workers":         c.Matching.Workers,
		"matching.cache_size":      c.Matching.CacheSize,
		"matching.linear_scan_max": c.Matching.LinearScanMax,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBenchmark() error {
	if c.Benchmark.TimeBudgetSeconds < 0 || math.IsNaN(c.Benchmark.TimeBudgetSeconds) {
		return errors.New("benchmark.time_budget_seconds must be >= 0")
	}
	if c.Benchmark.TopK < 1 {
		return errors.New("benchmark.top_k must be >= 1")
	}
	if c.Benchmark.RandomQueries < 0 {
		return errors.New("benchmark.random_queries must be >= 0")
	}
	if c.Benchmark.RandomLength < 1 {
		return errors.New("benchmark.random_length must be >= 1")
	}
	for _, name := range c.Benchmark.Metrics {
		if _, err := metric.ParseKind(name); err != nil {
			return fmt.Errorf("benchmark.metrics: %w", err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Logging.Level) {
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// MetricKind returns the configured matching metric.
func (c *Config) MetricKind() metric.Kind {
	kind, err := metric.ParseKind(c.Matching.Metric)
	if err != nil {
		return defaultMetric
	}
	return kind
}

// BenchmarkKinds returns the metrics to benchmark, defaulting to all.
func (c *Config) BenchmarkKinds() []metric.Kind {
	if len(c.Benchmark.Metrics) == 0 {
		return metric.Kinds()
	}
	kinds := make([]metric.Kind, 0, len(c.Benchmark.Metrics))
	for _, name := range c.Benchmark.Metrics {
		if kind, err := metric.ParseKind(name); err == nil {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

func ensureNonNegativeMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if values[key] < 0 {
			return fmt.Errorf("%s must be >= 0", key)
		}
	}
	return nil
}

func isIdentifier(value string) bool {
	if value == "" {
		return false
	}
	for i, r := range value {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
