package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"serieslink/internal/config"
	"serieslink/internal/index"
	"serieslink/internal/logging"
)

const (
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// Title is one catalog name mapped to the series it identifies.
type Title struct {
	Name     string `json:"name"`
	SeriesID string `json:"series_id"`
}

// Load reads the catalog described by src.
func Load(ctx context.Context, src config.Catalog, logger *slog.Logger) ([]Title, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "catalog")

	path := strings.TrimSpace(src.Path)
	if path == "" {
		return nil, fmt.Errorf("catalog path is not configured (set catalog.path or %s)", config.CatalogEnv)
	}

	var (
		titles []Title
		err    error
	)
	switch src.Format {
	case FormatSQLite:
		titles, err = LoadSQLite(ctx, path, src.Table, src.TitleColumn, src.PayloadColumn)
	case FormatJSON, "":
		titles, err = loadJSONFile(path)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", src.Format)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("catalog loaded",
		logging.String(logging.FieldEventType, "catalog_loaded"),
		logging.String("path", path),
		logging.String("format", src.Format),
		logging.Int("titles", len(titles)))
	return titles, nil
}

func loadJSONFile(path string) ([]Title, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	titles, err := LoadJSON(file)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return titles, nil
}

// Entries converts titles into index entries, preserving catalog order.
func Entries(titles []Title) []index.Entry {
	entries := make([]index.Entry, len(titles))
	for i, t := range titles {
		entries[i] = index.NewEntry(t.Name, t.SeriesID)
	}
	return entries
}
