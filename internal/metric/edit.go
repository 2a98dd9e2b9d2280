package metric

import (
	"math"

	"github.com/hbollon/go-edlib"

	"serieslink/internal/textutil"
)

// editDistance covers the Levenshtein family. Scores are edit counts, or edit
// counts divided by the longer rune length for the normalized variant.
type editDistance struct {
	kind       Kind
	distance   func(a, b string) int
	normalized bool
}

func newEditDistance(kind Kind) editDistance {
	m := editDistance{kind: kind, distance: edlib.LevenshteinDistance}
	switch kind {
	case DamerauLevenshtein:
		m.distance = edlib.DamerauLevenshteinDistance
	case OSA:
		m.distance = edlib.OSADamerauLevenshteinDistance
	case NormalizedLevenshtein:
		m.normalized = true
	}
	return m
}

func (m editDistance) Kind() Kind           { return m.kind }
func (m editDistance) Direction() Direction { return LowerIsBetter }
func (m editDistance) Identity() float64    { return 0 }

func (m editDistance) Worst() float64 {
	if m.normalized {
		return 1
	}
	return math.Inf(1)
}

func (m editDistance) Profile(k textutil.Key) (Profile, error) {
	if err := checkDomain(m.kind, k); err != nil {
		return Profile{}, err
	}
	return Profile{Key: k, Length: k.RuneLen()}, nil
}

func (m editDistance) Score(a, b Profile) float64 {
	if a.Key == b.Key {
		return 0
	}
	var d int
	switch {
	case a.Length == 0:
		d = b.Length
	case b.Length == 0:
		d = a.Length
	default:
		d = m.distance(string(a.Key), string(b.Key))
	}
	if m.normalized {
		return float64(d) / float64(max(a.Length, b.Length))
	}
	return float64(d)
}

func (m editDistance) Compare(a, b textutil.Key) (float64, error) {
	return compare(m, a, b)
}

// BestPossible: every edit changes the length by at most one, so the
// distance is at least the length difference.
func (m editDistance) BestPossible(lenA, lenB int) float64 {
	diff := lenA - lenB
	if diff < 0 {
		diff = -diff
	}
	if !m.normalized {
		return float64(diff)
	}
	longest := max(lenA, lenB)
	if longest == 0 {
		return 0
	}
	return float64(diff) / float64(longest)
}
