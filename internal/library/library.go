// Package library lists the series folders on disk that get linked to
// catalog entries.
//
// Each configured series directory holds one folder per series; the files
// inside a folder are its books. Hidden entries are ignored.
package library

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"serieslink/internal/logging"
)

// Book is one file inside a series folder.
type Book struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Series is one folder under a series directory.
type Series struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Books []Book `json:"books,omitempty"`
}

// Scan lists the series folders under dirs, sorted by name then path.
func Scan(dirs []string, logger *slog.Logger) ([]Series, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "library")
	start := time.Now()

	var result []Series
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read series dir %q: %w", dir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() || hidden(entry.Name()) {
				continue
			}
			folder, err := filepath.Abs(filepath.Join(dir, entry.Name()))
			if err != nil {
				return nil, fmt.Errorf("resolve %q: %w", entry.Name(), err)
			}
			books, err := scanBooks(folder)
			if err != nil {
				return nil, err
			}
			result = append(result, Series{Name: entry.Name(), Path: folder, Books: books})
		}
	}

	slices.SortStableFunc(result, func(a, b Series) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})

	logger.Info("series folders scanned",
		logging.String(logging.FieldEventType, "library_scanned"),
		logging.Int("folders", len(result)),
		logging.Int("series_dirs", len(dirs)),
		logging.Duration("elapsed", time.Since(start)))
	return result, nil
}

// scanBooks lists regular files carrying an extension, named by their stem.
func scanBooks(folder string) ([]Book, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read series folder %q: %w", folder, err)
	}
	var books []Book
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || hidden(name) {
			continue
		}
		ext := filepath.Ext(name)
		if ext == "" {
			continue
		}
		books = append(books, Book{
			Name: strings.TrimSuffix(name, ext),
			Path: filepath.Join(folder, name),
		})
	}
	return books, nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
