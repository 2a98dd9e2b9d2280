package resolver

import (
	"math"

	"serieslink/internal/matcherr"
	"serieslink/internal/metric"
)

// DefaultTopK is the candidate count requested per query.
const DefaultTopK = 10

// Config is the acceptance policy applied to a ranked result.
type Config struct {
	// AcceptThreshold is the score the best candidate must reach: at least
	// this similarity, or at most this distance.
	AcceptThreshold float64 `toml:"accept_threshold" json:"accept_threshold"`
	// MinMargin is the lead the best candidate needs over the best candidate
	// for a different payload. Zero disables the check.
	MinMargin float64 `toml:"min_margin" json:"min_margin"`
	TopK      int     `toml:"top_k" json:"top_k"`
}

var defaultThresholds = map[metric.Kind]float64{
	metric.Levenshtein:           3,
	metric.DamerauLevenshtein:    3,
	metric.OSA:                   3,
	metric.NormalizedLevenshtein: 0.25,
	metric.Jaro:                  0.85,
	metric.JaroWinkler:           0.9,
	metric.TokenJaccard:          0.5,
	metric.TokenCosine:           0.6,
	metric.TrigramCosine:         0.6,
}

// DefaultConfig returns the policy tuned for kind.
func DefaultConfig(kind metric.Kind) Config {
	threshold, ok := defaultThresholds[kind]
	if !ok {
		threshold = 0.5
	}
	return Config{AcceptThreshold: threshold, TopK: DefaultTopK}
}

// Validate checks cfg against the metric it will be applied to.
func (c Config) Validate(m metric.Metric) error {
	if c.TopK < 1 {
		return matcherr.Configuration("top_k", "must be >= 1, got %d", c.TopK)
	}
	if math.IsNaN(c.MinMargin) || math.IsInf(c.MinMargin, 0) || c.MinMargin < 0 {
		return matcherr.Configuration("min_margin", "must be a finite value >= 0, got %v", c.MinMargin)
	}
	if c.MinMargin > 0 && c.TopK < 2 {
		return matcherr.Configuration("min_margin", "requires top_k >= 2 to compare against a runner-up")
	}
	if math.IsNaN(c.AcceptThreshold) || math.IsInf(c.AcceptThreshold, 0) {
		return matcherr.Configuration("accept_threshold", "must be finite, got %v", c.AcceptThreshold)
	}
	if metric.Bounded(m) && (c.AcceptThreshold < 0 || c.AcceptThreshold > 1) {
		return matcherr.Configuration("accept_threshold", "must be within [0, 1] for %s, got %v", m.Kind(), c.AcceptThreshold)
	}
	if c.AcceptThreshold < 0 {
		return matcherr.Configuration("accept_threshold", "must be >= 0 for %s, got %v", m.Kind(), c.AcceptThreshold)
	}
	return nil
}
