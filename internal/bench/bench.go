// Package bench drives matchers over a fixed query list under a wall-clock
// budget and collects their ranked answers.
package bench

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"serieslink/internal/index"
	"serieslink/internal/logging"
	"serieslink/internal/matcherr"
	"serieslink/internal/metric"
)

// DefaultTopK is the number of candidates kept per query once a run
// completes.
const DefaultTopK = 10

// Matcher answers one query with candidates ranked best first.
type Matcher interface {
	Name() string
	Direction() metric.Direction
	Match(ctx context.Context, query string) (index.RankedResult, error)
}

// Options tunes a run.
type Options struct {
	// Budget bounds the cumulative time spent on queries. Zero disables it.
	Budget time.Duration
	// TopK truncates each stored result on completion. Zero uses DefaultTopK.
	TopK   int
	Clock  Clock
	Logger *slog.Logger
	// Progress receives a carriage-return progress line when set.
	Progress io.Writer
}

// QueryMatches pairs a query with its ranked candidates.
type QueryMatches struct {
	Query      string             `json:"query"`
	Candidates index.RankedResult `json:"candidates"`
}

// Result is the outcome of one run. Matches follow query input order and
// survive a timeout.
type Result struct {
	Name    string         `json:"name"`
	State   State          `json:"state"`
	Elapsed time.Duration  `json:"elapsed"`
	Queries int            `json:"queries"`
	Matches []QueryMatches `json:"matches"`
}

// Lookup returns the candidates stored for the first occurrence of query.
func (r Result) Lookup(query string) (index.RankedResult, bool) {
	for _, m := range r.Matches {
		if m.Query == query {
			return m.Candidates, true
		}
	}
	return nil, false
}

// PerQuery is the mean time spent per processed query.
func (r Result) PerQuery() time.Duration {
	if len(r.Matches) == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(len(r.Matches))
}

func (o Options) normalized() (Options, error) {
	if o.Budget < 0 {
		return o, matcherr.Configuration("time_budget", "must be >= 0, got %s", o.Budget)
	}
	if o.TopK < 0 {
		return o, matcherr.Configuration("top_k", "must be >= 0, got %d", o.TopK)
	}
	if o.TopK == 0 {
		o.TopK = DefaultTopK
	}
	if o.Clock == nil {
		o.Clock = SystemClock
	}
	return o, nil
}

// Run feeds queries to m in order. The budget is checked before each query,
// so a run can overrun it by at most one query.
func Run(ctx context.Context, m Matcher, queries []string, opts Options) (Result, error) {
	if m == nil {
		return Result{}, matcherr.Configuration("matcher", "is required")
	}
	opts, err := opts.normalized()
	if err != nil {
		return Result{}, err
	}
	logger := logging.NewComponentLogger(opts.Logger, "bench").With(logging.String("matcher", m.Name()))

	res := Result{
		Name:    m.Name(),
		State:   Running,
		Queries: len(queries),
		Matches: make([]QueryMatches, 0, len(queries)),
	}
	logger.Info("benchmark started",
		logging.Int("queries", len(queries)),
		logging.Duration("time_budget", opts.Budget),
	)

	progress := newProgressReporter(logger, opts.Progress, len(queries))
	start := opts.Clock.Now()
	for i, q := range queries {
		elapsed := opts.Clock.Now().Sub(start)
		progress.report(i, elapsed)

		if opts.Budget > 0 && elapsed > opts.Budget {
			res.State = TimedOut
			res.Elapsed = elapsed
			progress.clear()
			logging.WarnWithContext(logger, "benchmark timed out", "bench_timeout",
				logging.Int("processed", len(res.Matches)),
				logging.Duration("elapsed", elapsed),
				logging.String(logging.FieldImpact, "remaining queries were skipped"),
				logging.String(logging.FieldErrorHint, "raise benchmark.time_budget_seconds or reduce queries"),
			)
			return res, nil
		}
		if err := ctx.Err(); err != nil {
			return failed(res, opts, start, progress, err)
		}

		candidates, err := m.Match(ctx, q)
		if err != nil {
			return failed(res, opts, start, progress, fmt.Errorf("%s: query %d %q: %w", m.Name(), i, q, err))
		}
		res.Matches = append(res.Matches, QueryMatches{Query: q, Candidates: candidates})
	}

	res.Elapsed = opts.Clock.Now().Sub(start)
	progress.clear()
	direction := m.Direction()
	for i := range res.Matches {
		ranked := slices.Clone(res.Matches[i].Candidates)
		slices.SortStableFunc(ranked, func(a, b index.Candidate) int {
			return direction.Cmp(a.Score, b.Score)
		})
		if len(ranked) > opts.TopK {
			ranked = ranked[:opts.TopK]
		}
		res.Matches[i].Candidates = ranked
	}
	res.State = Completed
	logger.Info("benchmark completed",
		logging.Int("processed", len(res.Matches)),
		logging.Duration("elapsed", res.Elapsed),
		logging.Duration("per_query", res.PerQuery()),
	)
	return res, nil
}

func failed(res Result, opts Options, start time.Time, progress *progressReporter, err error) (Result, error) {
	res.State = Failed
	res.Elapsed = opts.Clock.Now().Sub(start)
	progress.clear()
	return res, err
}
