package index

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"serieslink/internal/logging"
	"serieslink/internal/matcherr"
	"serieslink/internal/metric"
	"serieslink/internal/textutil"
)

// profileChunk is the number of entries one build goroutine profiles at a
// time.
const profileChunk = 512

// Index is an immutable, query-ready corpus.
type Index struct {
	metric   metric.Metric
	entries  []Entry
	profiles []metric.Profile
	strategy strategy
	cache    *queryCache
}

// Build validates entries, profiles them with m and prepares the search
// strategy. Identical (key, payload) pairs collapse to their first occurrence.
func Build(ctx context.Context, m metric.Metric, entries []Entry, opts ...Option) (*Index, error) {
	if m == nil {
		return nil, matcherr.Configuration("metric", "is required")
	}
	cfg, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	logger := logging.NewComponentLogger(cfg.logger, "index")

	kept, err := dedupe(entries, cfg.uniquePayloads)
	if err != nil {
		return nil, err
	}

	profiles, err := profileAll(ctx, m, kept, cfg.workers)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		metric:   m,
		entries:  kept,
		profiles: profiles,
		strategy: chooseStrategy(m, profiles, cfg.linearScanMax),
	}
	if cfg.cacheSize > 0 {
		idx.cache = newQueryCache(cfg.cacheSize)
	}

	logger.Debug("index built",
		logging.String("metric", string(m.Kind())),
		logging.String("strategy", idx.strategy.name()),
		logging.Int("entries", len(kept)),
		logging.Int("duplicates", len(entries)-len(kept)),
		logging.Int("workers", cfg.workers),
		logging.Int("cache_size", cfg.cacheSize),
	)
	return idx, nil
}

type dedupeKey struct {
	key     textutil.Key
	payload string
}

func dedupe(entries []Entry, uniquePayloads bool) ([]Entry, error) {
	kept := make([]Entry, 0, len(entries))
	seen := make(map[dedupeKey]struct{}, len(entries))
	firstByPayload := make(map[string]int)
	var conflicts []matcherr.Conflict

	for i, e := range entries {
		dk := dedupeKey{key: e.Key, payload: e.Payload}
		if _, dup := seen[dk]; dup {
			continue
		}
		seen[dk] = struct{}{}
		if uniquePayloads {
			if first, ok := firstByPayload[e.Payload]; ok {
				conflicts = append(conflicts, matcherr.Conflict{
					Payload:       e.Payload,
					FirstIndex:    first,
					FirstText:     entries[first].Label(),
					ConflictIndex: i,
					ConflictText:  e.Label(),
				})
				continue
			}
			firstByPayload[e.Payload] = i
		}
		kept = append(kept, e)
	}
	if len(conflicts) > 0 {
		return nil, &matcherr.CorpusIntegrityError{Conflicts: conflicts}
	}
	return kept, nil
}

func profileAll(ctx context.Context, m metric.Metric, entries []Entry, workers int) ([]metric.Profile, error) {
	profiles := make([]metric.Profile, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(entries); start += profileChunk {
		end := min(start+profileChunk, len(entries))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				p, err := m.Profile(entries[i].Key)
				if err != nil {
					return fmt.Errorf("profile entry %d %q: %w", i, entries[i].Label(), err)
				}
				profiles[i] = p
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Query returns up to k entries ranked best first against q.
func (idx *Index) Query(ctx context.Context, q textutil.Key, k int) (RankedResult, error) {
	if k <= 0 {
		return nil, matcherr.Configuration("k", "must be >= 1, got %d", k)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := cacheKey{query: q, k: k}
	if idx.cache != nil {
		if res, ok := idx.cache.get(key); ok {
			return res, nil
		}
	}

	qp, err := idx.metric.Profile(q)
	if err != nil {
		return nil, fmt.Errorf("profile query %q: %w", q, err)
	}
	if len(idx.entries) == 0 {
		return RankedResult{}, nil
	}

	sel := newSelector(idx.metric.Direction(), k)
	if err := idx.strategy.search(ctx, qp, sel); err != nil {
		return nil, err
	}
	res := sel.result(idx.entries)
	if idx.cache != nil {
		idx.cache.put(key, res)
	}
	return res, nil
}

// Len reports the number of distinct entries held.
func (idx *Index) Len() int { return len(idx.entries) }

// Metric returns the metric the index scores with.
func (idx *Index) Metric() metric.Metric { return idx.metric }

// Entries returns a copy of the indexed entries in insertion order.
func (idx *Index) Entries() []Entry {
	out := make([]Entry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Strategy names the search strategy chosen at build.
func (idx *Index) Strategy() string { return idx.strategy.name() }

// LogValue summarizes the index for structured logs.
func (idx *Index) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("metric", string(idx.metric.Kind())),
		slog.String("strategy", idx.strategy.name()),
		slog.Int("entries", len(idx.entries)),
	)
}
