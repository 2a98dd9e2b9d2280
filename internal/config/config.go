package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	SeriesDirs []string `toml:"series_dirs"`
	DataDir    string   `toml:"data_dir"`
	LogDir     string   `toml:"log_dir"`
}

// Catalog locates the reference title catalog.
type Catalog struct {
	Path string `toml:"path"`
	// Format is "json" or "sqlite"; inferred from the file extension when empty.
	Format        string `toml:"format"`
	Table         string `toml:"table"`
	TitleColumn   string `toml:"title_column"`
	PayloadColumn string `toml:"payload_column"`
}

// Matching contains index and acceptance policy settings.
type Matching struct {
	Metric string `toml:"metric"`
	// AcceptThreshold falls back to the metric default when unset.
	AcceptThreshold *float64 `toml:"accept_threshold"`
	MinMargin       float64  `toml:"min_margin"`
	TopK            int      `toml:"top_k"`
	Workers         int      `toml:"workers"`
	CacheSize       int      `toml:"cache_size"`
	LinearScanMax   int      `toml:"linear_scan_max"`
	UniquePayloads  bool     `toml:"unique_payloads"`
}

// Benchmark contains settings for comparing matchers.
type Benchmark struct {
	TimeBudgetSeconds float64  `toml:"time_budget_seconds"`
	TopK              int      `toml:"top_k"`
	QueriesPath       string   `toml:"queries_path"`
	RandomQueries     int      `toml:"random_queries"`
	RandomLength      int      `toml:"random_length"`
	Seed              uint64   `toml:"seed"`
	Metrics           []string `toml:"metrics"`
	SQLite            bool     `toml:"sqlite"`
	Linear            bool     `toml:"linear"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for serieslink.
//
// Configuration sections by subsystem:
//   - Paths: library folders, data and log directories
//   - Catalog: reference titles (JSON or SQLite)
//   - Matching: metric, index tuning and acceptance policy
//   - Benchmark: matcher comparison runs
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Catalog   Catalog   `toml:"catalog"`
	Matching  Matching  `toml:"matching"`
	Benchmark Benchmark `toml:"benchmark"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("serieslink.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LinkStorePath is the SQLite database holding folder links.
func (c *Config) LinkStorePath() string {
	return filepath.Join(c.Paths.DataDir, "links.db")
}

// LinkLockPath guards link runs against each other.
func (c *Config) LinkLockPath() string {
	return filepath.Join(c.Paths.DataDir, "link.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
