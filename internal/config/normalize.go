package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	if err := c.normalizeBenchmark(); err != nil {
		return err
	}
	c.normalizeMatching()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	dirs := make([]string, 0, len(c.Paths.SeriesDirs))
	seen := make(map[string]struct{}, len(c.Paths.SeriesDirs))
	for _, dir := range c.Paths.SeriesDirs {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("paths.series_dirs: %w", err)
		}
		if _, ok := seen[expanded]; ok {
			continue
		}
		seen[expanded] = struct{}{}
		dirs = append(dirs, expanded)
	}
	c.Paths.SeriesDirs = dirs
	return nil
}

func (c *Config) normalizeCatalog() error {
	c.Catalog.Path = strings.TrimSpace(c.Catalog.Path)
	if c.Catalog.Path == "" {
		if value, ok := os.LookupEnv(CatalogEnv); ok {
			c.Catalog.Path = strings.TrimSpace(value)
		}
	}
	var err error
	if c.Catalog.Path, err = expandPath(c.Catalog.Path); err != nil {
		return fmt.Errorf("catalog.path: %w", err)
	}
	c.Catalog.Format = strings.ToLower(strings.TrimSpace(c.Catalog.Format))
	if c.Catalog.Format == "" {
		c.Catalog.Format = inferCatalogFormat(c.Catalog.Path)
	}
	c.Catalog.Table = strings.TrimSpace(c.Catalog.Table)
	if c.Catalog.Table == "" {
		c.Catalog.Table = defaultCatalogTable
	}
	c.Catalog.TitleColumn = strings.TrimSpace(c.Catalog.TitleColumn)
	if c.Catalog.TitleColumn == "" {
		c.Catalog.TitleColumn = defaultTitleColumn
	}
	c.Catalog.PayloadColumn = strings.TrimSpace(c.Catalog.PayloadColumn)
	if c.Catalog.PayloadColumn == "" {
		c.Catalog.PayloadColumn = defaultPayloadColumn
	}
	return nil
}

func inferCatalogFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	default:
		return "json"
	}
}

func (c *Config) normalizeMatching() {
	c.Matching.Metric = strings.ToLower(strings.TrimSpace(c.Matching.Metric))
	if c.Matching.Metric == "" {
		c.Matching.Metric = string(defaultMetric)
	}
	if c.Matching.TopK == 0 {
		c.Matching.TopK = defaultTopK
	}
}

func (c *Config) normalizeBenchmark() error {
	var err error
	c.Benchmark.QueriesPath = strings.TrimSpace(c.Benchmark.QueriesPath)
	if c.Benchmark.QueriesPath, err = expandPath(c.Benchmark.QueriesPath); err != nil {
		return fmt.Errorf("benchmark.queries_path: %w", err)
	}
	if c.Benchmark.TopK == 0 {
		c.Benchmark.TopK = defaultTopK
	}
	if c.Benchmark.RandomLength == 0 {
		c.Benchmark.RandomLength = defaultRandomLength
	}
	metrics := make([]string, 0, len(c.Benchmark.Metrics))
	seen := make(map[string]struct{}, len(c.Benchmark.Metrics))
	for _, name := range c.Benchmark.Metrics {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		metrics = append(metrics, normalized)
	}
	c.Benchmark.Metrics = metrics
	return nil
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
}
