// Package metric defines the closed set of scoring functions used to compare
// normalized keys.
//
// Every metric declares a fixed Direction: distances rank ascending (lower is
// better, 0 for identical keys) and similarities rank descending (higher is
// better, 1 for identical keys). Index and resolver code sorts through
// Direction alone and never inspects the metric kind.
//
// Metrics that can bound their best reachable score from the rune lengths of
// two keys implement LengthBounded; metrics whose score is exactly zero for
// keys sharing no feature implement FeatureBased. The index uses these
// capabilities to prune candidates without losing recall.
package metric

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"serieslink/internal/matcherr"
	"serieslink/internal/textutil"
)

// Kind tags one metric variant.
type Kind string

const (
	Levenshtein           Kind = "levenshtein"
	DamerauLevenshtein    Kind = "damerau-levenshtein"
	OSA                   Kind = "osa"
	NormalizedLevenshtein Kind = "normalized-levenshtein"
	Jaro                  Kind = "jaro"
	JaroWinkler           Kind = "jaro-winkler"
	TokenJaccard          Kind = "token-jaccard"
	TokenCosine           Kind = "token-cosine"
	TrigramCosine         Kind = "trigram-cosine"
)

var kinds = []Kind{
	Levenshtein,
	DamerauLevenshtein,
	OSA,
	NormalizedLevenshtein,
	Jaro,
	JaroWinkler,
	TokenJaccard,
	TokenCosine,
	TrigramCosine,
}

// Kinds returns every metric variant in a stable order.
func Kinds() []Kind {
	return slices.Clone(kinds)
}

// ParseKind resolves a configured metric name.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	if slices.Contains(kinds, k) {
		return k, nil
	}
	return "", matcherr.Configuration("metric", "unknown value %q (expected one of %s)", name, kindList())
}

func kindList() string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// Metric scores pairs of normalized keys.
type Metric interface {
	Kind() Kind
	Direction() Direction
	// Identity is the score of a key compared with itself.
	Identity() float64
	// Worst is the score for keys with nothing in common, or +Inf for
	// unbounded distances.
	Worst() float64
	// Profile validates k and precomputes the features Score needs.
	Profile(k textutil.Key) (Profile, error)
	// Score compares two profiles built by this metric.
	Score(a, b Profile) float64
	// Compare profiles and scores a pair of keys.
	Compare(a, b textutil.Key) (float64, error)
}

// LengthBounded metrics can bound the best score any two keys of the given
// rune lengths may reach.
type LengthBounded interface {
	BestPossible(lenA, lenB int) float64
}

// FeatureBased metrics score exactly Worst() for two profiles whose Features
// are both non-empty and disjoint.
type FeatureBased interface {
	FeatureBased() bool
}

// Profile is a key together with its metric-specific precomputed features.
type Profile struct {
	Key      textutil.Key
	Length   int
	Features []string

	fp *textutil.Fingerprint
}

// New constructs the metric for kind.
func New(kind Kind) (Metric, error) {
	switch kind {
	case Levenshtein, DamerauLevenshtein, OSA, NormalizedLevenshtein:
		return newEditDistance(kind), nil
	case Jaro, JaroWinkler:
		return jaroFamily{winkler: kind == JaroWinkler}, nil
	case TokenJaccard, TokenCosine, TrigramCosine:
		return tokenSet{kind: kind}, nil
	default:
		return nil, matcherr.Configuration("metric", "unknown value %q (expected one of %s)", kind, kindList())
	}
}

// MustNew is New for statically known kinds.
func MustNew(kind Kind) Metric {
	m, err := New(kind)
	if err != nil {
		panic(err)
	}
	return m
}

// Bounded reports whether scores of m are confined to [0, 1].
func Bounded(m Metric) bool {
	return m.Direction() == HigherIsBetter || m.Kind() == NormalizedLevenshtein
}

func checkDomain(kind Kind, k textutil.Key) error {
	if !utf8.ValidString(string(k)) {
		return &matcherr.MetricDomainError{Metric: string(kind), Reason: "key is not valid UTF-8"}
	}
	if strings.IndexByte(string(k), 0) >= 0 {
		return &matcherr.MetricDomainError{Metric: string(kind), Reason: "key contains NUL bytes"}
	}
	return nil
}

func compare(m Metric, a, b textutil.Key) (float64, error) {
	pa, err := m.Profile(a)
	if err != nil {
		return 0, fmt.Errorf("profile %q: %w", a, err)
	}
	pb, err := m.Profile(b)
	if err != nil {
		return 0, fmt.Errorf("profile %q: %w", b, err)
	}
	return m.Score(pa, pb), nil
}
