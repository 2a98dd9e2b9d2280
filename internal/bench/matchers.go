package bench

import (
	"context"
	"fmt"
	"slices"

	"serieslink/internal/index"
	"serieslink/internal/metric"
	"serieslink/internal/resolver"
	"serieslink/internal/textutil"
)

// IndexMatcher queries a built index.
type IndexMatcher struct {
	index *index.Index
	k     int
}

// NewIndexMatcher returns up to k candidates per query.
func NewIndexMatcher(idx *index.Index, k int) *IndexMatcher {
	return &IndexMatcher{index: idx, k: k}
}

func (m *IndexMatcher) Name() string {
	return fmt.Sprintf("index/%s", m.index.Metric().Kind())
}

func (m *IndexMatcher) Direction() metric.Direction { return m.index.Metric().Direction() }

func (m *IndexMatcher) Match(ctx context.Context, query string) (index.RankedResult, error) {
	return m.index.Query(ctx, textutil.Normalize(query), m.k)
}

// ResolverMatcher reports the full ranked list behind each decision.
type ResolverMatcher struct {
	resolver *resolver.Resolver
}

func NewResolverMatcher(r *resolver.Resolver) *ResolverMatcher {
	return &ResolverMatcher{resolver: r}
}

func (m *ResolverMatcher) Name() string {
	return fmt.Sprintf("resolver/%s", m.resolver.Metric().Kind())
}

func (m *ResolverMatcher) Direction() metric.Direction { return m.resolver.Metric().Direction() }

func (m *ResolverMatcher) Match(ctx context.Context, query string) (index.RankedResult, error) {
	d, err := m.resolver.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}
	return d.All, nil
}

// LinearMatcher scores every entry against every query and returns the
// complete ranking. It is the reference the pruned index is measured against.
type LinearMatcher struct {
	metric   metric.Metric
	entries  []index.Entry
	profiles []metric.Profile
}

func NewLinearMatcher(m metric.Metric, entries []index.Entry) (*LinearMatcher, error) {
	profiles := make([]metric.Profile, len(entries))
	for i, e := range entries {
		p, err := m.Profile(e.Key)
		if err != nil {
			return nil, fmt.Errorf("profile entry %d %q: %w", i, e.Label(), err)
		}
		profiles[i] = p
	}
	return &LinearMatcher{metric: m, entries: entries, profiles: profiles}, nil
}

func (m *LinearMatcher) Name() string {
	return fmt.Sprintf("linear/%s", m.metric.Kind())
}

func (m *LinearMatcher) Direction() metric.Direction { return m.metric.Direction() }

func (m *LinearMatcher) Match(ctx context.Context, query string) (index.RankedResult, error) {
	q, err := m.metric.Profile(textutil.Normalize(query))
	if err != nil {
		return nil, err
	}
	out := make(index.RankedResult, len(m.entries))
	for i, p := range m.profiles {
		out[i] = index.Candidate{Entry: m.entries[i], Score: m.metric.Score(q, p)}
	}
	direction := m.metric.Direction()
	slices.SortStableFunc(out, func(a, b index.Candidate) int {
		return direction.Cmp(a.Score, b.Score)
	})
	return out, nil
}
