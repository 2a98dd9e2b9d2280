package bench

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serieslink/internal/index"
	"serieslink/internal/logging"
	"serieslink/internal/matcherr"
	"serieslink/internal/metric"
	"serieslink/internal/resolver"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// slowMatcher wraps a matcher and advances a fake clock per query.
type slowMatcher struct {
	Matcher
	clock   *fakeClock
	latency time.Duration
	fail    string
}

func (m *slowMatcher) Match(ctx context.Context, q string) (index.RankedResult, error) {
	m.clock.Advance(m.latency)
	if q == m.fail {
		return nil, errors.New("boom")
	}
	return m.Matcher.Match(ctx, q)
}

var shelf = []index.Entry{
	index.NewEntry("One Piece", "op"),
	index.NewEntry("One Punch Man", "opm"),
	index.NewEntry("Naruto", "naruto"),
	index.NewEntry("Bleach", "bleach"),
	index.NewEntry("Berserk", "berserk"),
	index.NewEntry("Monster", "monster"),
	index.NewEntry("Vinland Saga", "vinland"),
	index.NewEntry("Yotsuba to!", "yotsuba"),
	index.NewEntry("20th Century Boys", "20cb"),
	index.NewEntry("Chainsaw Man", "csm"),
	index.NewEntry("Spy x Family", "spy"),
	index.NewEntry("Dr. Stone", "drstone"),
}

var shelfQueries = []string{"one peice", "naruto", "berserker", "vinland", "spy family", "chainsaw", "monstr", "bleech", "dr stone", "yotsuba"}

func linearMatcher(t *testing.T, kind metric.Kind) *LinearMatcher {
	t.Helper()
	m, err := NewLinearMatcher(metric.MustNew(kind), shelf)
	require.NoError(t, err)
	return m
}

func TestRunCompletes(t *testing.T) {
	clock := newFakeClock()
	m := &slowMatcher{Matcher: linearMatcher(t, metric.Levenshtein), clock: clock, latency: time.Millisecond}

	res, err := Run(context.Background(), m, shelfQueries, Options{Clock: clock, TopK: 3})
	require.NoError(t, err)
	assert.Equal(t, Completed, res.State)
	assert.Equal(t, "linear/levenshtein", res.Name)
	assert.Equal(t, 10*time.Millisecond, res.Elapsed)
	assert.Equal(t, time.Millisecond, res.PerQuery())
	require.Len(t, res.Matches, len(shelfQueries))

	for i, qm := range res.Matches {
		assert.Equal(t, shelfQueries[i], qm.Query)
		assert.Len(t, qm.Candidates, 3)
	}

	best, ok := res.Lookup("one peice")
	require.True(t, ok)
	assert.Equal(t, "op", best[0].Entry.Payload)
	assert.Equal(t, 2.0, best[0].Score)

	_, ok = res.Lookup("missing")
	assert.False(t, ok)
}

func TestRunTimesOutWithPrefix(t *testing.T) {
	clock := newFakeClock()
	latency := 10 * time.Millisecond
	budget := 35 * time.Millisecond
	m := &slowMatcher{Matcher: linearMatcher(t, metric.Jaro), clock: clock, latency: latency}

	res, err := Run(context.Background(), m, shelfQueries, Options{Clock: clock, Budget: budget})
	require.NoError(t, err)
	assert.Equal(t, TimedOut, res.State)
	require.NotEmpty(t, res.Matches)
	require.Less(t, len(res.Matches), len(shelfQueries))
	for i, qm := range res.Matches {
		assert.Equal(t, shelfQueries[i], qm.Query)
	}
	assert.LessOrEqual(t, res.Elapsed, budget+latency)
	assert.Len(t, res.Matches, 4)

	// Partial results are kept as the matcher returned them.
	assert.Len(t, res.Matches[0].Candidates, len(shelf))
}

func TestRunDefaultTopK(t *testing.T) {
	many := make([]index.Entry, 0, 30)
	for i := 0; i < 30; i++ {
		many = append(many, index.NewEntry(strings.Repeat("a", i+1), "p"))
	}
	m, err := NewLinearMatcher(metric.MustNew(metric.Levenshtein), many)
	require.NoError(t, err)

	res, err := Run(context.Background(), m, []string{"aaa"}, Options{})
	require.NoError(t, err)
	require.Len(t, res.Matches[0].Candidates, DefaultTopK)
	assert.Equal(t, "aaa", string(res.Matches[0].Candidates[0].Entry.Key))
}

func TestRunStopsOnMatcherError(t *testing.T) {
	clock := newFakeClock()
	m := &slowMatcher{Matcher: linearMatcher(t, metric.Levenshtein), clock: clock, latency: time.Millisecond, fail: "vinland"}

	res, err := Run(context.Background(), m, shelfQueries, Options{Clock: clock})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vinland")
	assert.Equal(t, Failed, res.State)
	assert.Len(t, res.Matches, 3)
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, linearMatcher(t, metric.Jaro), shelfQueries, Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Failed, res.State)
	assert.Empty(t, res.Matches)
}

func TestRunRejectsBadOptions(t *testing.T) {
	m := linearMatcher(t, metric.Jaro)
	_, err := Run(context.Background(), m, shelfQueries, Options{Budget: -time.Second})
	require.ErrorIs(t, err, matcherr.ErrConfiguration)
	_, err = Run(context.Background(), m, shelfQueries, Options{TopK: -1})
	require.ErrorIs(t, err, matcherr.ErrConfiguration)
	_, err = Run(context.Background(), nil, shelfQueries, Options{})
	require.ErrorIs(t, err, matcherr.ErrConfiguration)
}

func TestRunWritesProgress(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(context.Background(), linearMatcher(t, metric.Jaro), shelfQueries[:2], Options{Progress: &out})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Processing 0 / 2...")
	assert.Contains(t, out.String(), "Processing 1 / 2...")
}

func TestProgressAverageCountsFinishedQueries(t *testing.T) {
	assert.Zero(t, averageMillis(0, 0))
	assert.Zero(t, averageMillis(time.Second, 0))
	assert.InDelta(t, 250.0, averageMillis(time.Second, 4), 1e-9)

	var out bytes.Buffer
	p := newProgressReporter(logging.NewNop(), &out, 5)
	p.report(2, 300*time.Millisecond)
	assert.Contains(t, out.String(), "[0.3s @ 150.0ms] Processing 2 / 5...")
}

func TestMatchersAgree(t *testing.T) {
	ctx := context.Background()
	for _, kind := range []metric.Kind{metric.Levenshtein, metric.JaroWinkler, metric.TrigramCosine} {
		t.Run(string(kind), func(t *testing.T) {
			m := metric.MustNew(kind)
			idx, err := index.Build(ctx, m, shelf, index.WithLinearScanMax(0))
			require.NoError(t, err)
			res, err := resolver.New(idx, resolver.Config{AcceptThreshold: m.Identity(), TopK: 5})
			require.NoError(t, err)
			sqliteMatcher, err := NewSQLiteMatcher(ctx, m, shelf, 5)
			require.NoError(t, err)
			defer sqliteMatcher.Close()

			matchers := []Matcher{
				NewIndexMatcher(idx, 5),
				NewResolverMatcher(res),
				linearMatcher(t, kind),
				sqliteMatcher,
			}
			var results []Result
			for _, matcher := range matchers {
				r, err := Run(ctx, matcher, shelfQueries, Options{TopK: 5})
				require.NoError(t, err, matcher.Name())
				require.Equal(t, Completed, r.State)
				results = append(results, r)
			}
			for _, r := range results[1:] {
				for i := range r.Matches {
					assert.Equal(t, results[0].Matches[i], r.Matches[i], "%s query %q", r.Name, r.Matches[i].Query)
				}
			}
		})
	}
}

func TestSQLiteMatcherIgnoresDuplicates(t *testing.T) {
	ctx := context.Background()
	entries := append([]index.Entry{}, shelf...)
	entries = append(entries, shelf[0], shelf[1])
	m, err := NewSQLiteMatcher(ctx, metric.MustNew(metric.OSA), entries, 0)
	require.NoError(t, err)
	defer m.Close()

	got, err := m.Match(ctx, "naruto")
	require.NoError(t, err)
	assert.Len(t, got, len(shelf))
	assert.Equal(t, "naruto", got[0].Entry.Payload)
	assert.Equal(t, 0.0, got[0].Score)
}

func TestRandomQueries(t *testing.T) {
	a := RandomQueries(rand.New(rand.NewPCG(1, 2)), 50, 40)
	b := RandomQueries(rand.New(rand.NewPCG(1, 2)), 50, 40)
	require.Equal(t, a, b)
	require.Len(t, a, 50)
	for _, q := range a {
		assert.Len(t, q, 40)
		assert.Empty(t, strings.Trim(q, queryAlphabet))
	}
	assert.Nil(t, RandomQueries(rand.New(rand.NewPCG(1, 2)), 0, 40))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "timed_out", TimedOut.String())
	text, err := Completed.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "completed", string(text))
}

func TestStateUnmarshalText(t *testing.T) {
	var s State
	require.NoError(t, s.UnmarshalText([]byte("failed")))
	assert.Equal(t, Failed, s)
	assert.Error(t, s.UnmarshalText([]byte("paused")))
}
