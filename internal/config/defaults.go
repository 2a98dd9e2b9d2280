package config

import "serieslink/internal/metric"

const (
	defaultConfigPath        = "~/.config/serieslink/config.toml"
	defaultDataDir           = "~/.local/share/serieslink"
	defaultLogDir            = "~/.local/share/serieslink/logs"
	defaultCatalogTable      = "title"
	defaultTitleColumn       = "name"
	defaultPayloadColumn     = "series_id"
	defaultMetric            = metric.JaroWinkler
	defaultTopK              = 10
	defaultLinearScanMax     = 64
	defaultCacheSize         = 0
	defaultTimeBudgetSeconds = 30
	defaultRandomQueries     = 10000
	defaultRandomLength      = 40
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"

	// CatalogEnv names the environment fallback for catalog.path.
	CatalogEnv = "SERIESLINK_CATALOG"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Catalog: Catalog{
			Table:         defaultCatalogTable,
			TitleColumn:   defaultTitleColumn,
			PayloadColumn: defaultPayloadColumn,
		},
		Matching: Matching{
			Metric:        string(defaultMetric),
			TopK:          defaultTopK,
			CacheSize:     defaultCacheSize,
			LinearScanMax: defaultLinearScanMax,
		},
		Benchmark: Benchmark{
			TimeBudgetSeconds: defaultTimeBudgetSeconds,
			TopK:              defaultTopK,
			RandomQueries:     defaultRandomQueries,
			RandomLength:      defaultRandomLength,
			Seed:              1,
			Linear:            true,
			SQLite:            true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
