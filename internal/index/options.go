package index

import (
	"log/slog"
	"runtime"

	"serieslink/internal/matcherr"
)

// DefaultLinearScanMax is the corpus size at or below which queries scan
// every entry.
const DefaultLinearScanMax = 64

type settings struct {
	workers        int
	cacheSize      int
	uniquePayloads bool
	linearScanMax  int
	logger         *slog.Logger
}

// Option customizes Build.
type Option func(*settings)

// WithWorkers bounds the goroutines used to profile entries. Zero uses
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *settings) { s.workers = n }
}

// WithCache enables a query result cache holding up to size results.
func WithCache(size int) Option {
	return func(s *settings) { s.cacheSize = size }
}

// WithUniquePayloads rejects corpora where one payload carries two different
// keys.
func WithUniquePayloads() Option {
	return func(s *settings) { s.uniquePayloads = true }
}

// WithLinearScanMax overrides DefaultLinearScanMax.
func WithLinearScanMax(n int) Option {
	return func(s *settings) { s.linearScanMax = n }
}

// WithLogger attaches a logger for build summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

func newSettings(opts []Option) (settings, error) {
	s := settings{linearScanMax: DefaultLinearScanMax}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.workers < 0 {
		return s, matcherr.Configuration("workers", "must be >= 0, got %d", s.workers)
	}
	if s.workers == 0 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	if s.cacheSize < 0 {
		return s, matcherr.Configuration("cache_size", "must be >= 0, got %d", s.cacheSize)
	}
	if s.linearScanMax < 0 {
		return s, matcherr.Configuration("linear_scan_max", "must be >= 0, got %d", s.linearScanMax)
	}
	return s, nil
}
