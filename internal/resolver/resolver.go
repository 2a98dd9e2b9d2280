// Package resolver turns a ranked candidate list into a single accept or
// reject decision.
package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"serieslink/internal/index"
	"serieslink/internal/logging"
	"serieslink/internal/matcherr"
	"serieslink/internal/metric"
	"serieslink/internal/textutil"
)

// Decision reasons.
const (
	ReasonNoCandidates   = "no_candidates"
	ReasonBelowThreshold = "below_threshold"
	ReasonAmbiguous      = "ambiguous"
	ReasonAccepted       = "accepted"
)

const decisionType = "title_match"

// Decision is the outcome of resolving one query.
type Decision struct {
	Query    string             `json:"query"`
	Key      textutil.Key       `json:"key"`
	Accepted bool               `json:"accepted"`
	Best     *index.Candidate   `json:"best,omitempty"`
	All      index.RankedResult `json:"all"`
	Reason   string             `json:"reason"`
}

// Resolver applies an acceptance policy to index queries.
type Resolver struct {
	index  *index.Index
	metric metric.Metric
	cfg    Config
	logger *slog.Logger
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger decisions are written to.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// New validates cfg for the index metric.
func New(idx *index.Index, cfg Config, opts ...Option) (*Resolver, error) {
	if idx == nil {
		return nil, matcherr.Configuration("index", "is required")
	}
	if err := cfg.Validate(idx.Metric()); err != nil {
		return nil, err
	}
	r := &Resolver{index: idx, metric: idx.Metric(), cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.logger = logging.NewComponentLogger(r.logger, "resolver")
	return r, nil
}

// Config returns the active policy.
func (r *Resolver) Config() Config { return r.cfg }

// Metric returns the metric of the underlying index.
func (r *Resolver) Metric() metric.Metric { return r.metric }

// Resolve normalizes raw, queries the index and applies the policy.
func (r *Resolver) Resolve(ctx context.Context, raw string) (Decision, error) {
	key := textutil.Normalize(raw)
	ranked, err := r.index.Query(ctx, key, r.cfg.TopK)
	if err != nil {
		return Decision{}, fmt.Errorf("resolve %q: %w", raw, err)
	}
	var rival *index.Candidate
	if r.cfg.MinMargin > 0 && len(ranked) > 0 {
		if rival, err = r.runnerUp(ctx, key, ranked); err != nil {
			return Decision{}, fmt.Errorf("resolve %q: %w", raw, err)
		}
	}
	d := r.decide(ranked, rival)
	d.Query = raw
	d.Key = key
	r.log(d)
	return d, nil
}

func (r *Resolver) decide(ranked index.RankedResult, rival *index.Candidate) Decision {
	d := Decision{All: ranked}
	best, ok := ranked.Best()
	if !ok {
		d.Reason = ReasonNoCandidates
		return d
	}
	d.Best = &best

	direction := r.metric.Direction()
	if !direction.AtLeast(best.Score, r.cfg.AcceptThreshold) {
		d.Reason = ReasonBelowThreshold
		return d
	}
	if r.cfg.MinMargin > 0 && rival != nil && direction.Gap(best.Score, rival.Score) < r.cfg.MinMargin {
		d.Reason = ReasonAmbiguous
		return d
	}
	d.Accepted = true
	d.Reason = ReasonAccepted
	return d
}

// runnerUp returns the best candidate pointing at a different payload than
// the top one, so alternate titles of the same series never compete. When
// the fetched candidates all share the top payload the query is repeated
// with a doubled k until another payload shows up or the corpus runs out.
// It returns nil when every entry carries the top payload.
func (r *Resolver) runnerUp(ctx context.Context, key textutil.Key, ranked index.RankedResult) (*index.Candidate, error) {
	top := ranked[0].Entry.Payload
	k := r.cfg.TopK
	for {
		for _, c := range ranked[1:] {
			if c.Entry.Payload != top {
				return &c, nil
			}
		}
		if len(ranked) < k || k >= r.index.Len() {
			return nil, nil
		}
		k *= 2
		var err error
		if ranked, err = r.index.Query(ctx, key, k); err != nil {
			return nil, err
		}
	}
}

func (r *Resolver) log(d Decision) {
	result := "rejected"
	if d.Accepted {
		result = "accepted"
	}
	attrs := append(logging.DecisionAttrs(decisionType, result, d.Reason),
		logging.String("query", d.Query),
		logging.String("metric", string(r.metric.Kind())),
		logging.Int("candidates", len(d.All)),
		logging.Float64("threshold", r.cfg.AcceptThreshold),
	)
	if d.Best != nil {
		attrs = append(attrs,
			logging.String("decision_selected", d.Best.Entry.Label()),
			logging.String("payload", d.Best.Entry.Payload),
			logging.Float64("score", d.Best.Score),
		)
	}
	r.logger.Info("title match decision", logging.Args(attrs...)...)
}
