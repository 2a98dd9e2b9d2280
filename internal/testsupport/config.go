package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"serieslink/internal/config"
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
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Catalog.Format = "json"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSeriesFolders creates a series directory holding one empty folder per
// name and registers it in paths.series_dirs.
func WithSeriesFolders(names ...string) ConfigOption {
	return func(b *configBuilder) {
		dir := filepath.Join(b.baseDir, "series")
		for _, name := range names {
			if err := os.MkdirAll(filepath.Join(dir, name), 0o755); err != nil {
				b.t.Fatalf("mkdir series folder %s: %v", name, err)
			}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			b.t.Fatalf("mkdir series dir: %v", err)
		}
		b.cfg.Paths.SeriesDirs = append(b.cfg.Paths.SeriesDirs, dir)
	}
}

// WithCatalogJSON writes doc as the JSON catalog and points the config at it.
func WithCatalogJSON(doc string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "catalog.json")
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			b.t.Fatalf("write catalog: %v", err)
		}
		b.cfg.Catalog.Path = path
		b.cfg.Catalog.Format = "json"
	}
}

// WithMetric overrides the matching metric.
func WithMetric(kind string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.Metric = kind
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
