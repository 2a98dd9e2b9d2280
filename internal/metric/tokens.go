package metric

import "serieslink/internal/textutil"

// trigramSize matches the gram width of set-based fuzzy matchers.
const trigramSize = 3

// tokenSet covers overlap scores over word tokens or character trigrams.
type tokenSet struct {
	kind Kind
}

func (m tokenSet) Kind() Kind           { return m.kind }
func (m tokenSet) Direction() Direction { return HigherIsBetter }
func (m tokenSet) Identity() float64    { return 1 }
func (m tokenSet) Worst() float64       { return 0 }
func (m tokenSet) FeatureBased() bool   { return true }

func (m tokenSet) Profile(k textutil.Key) (Profile, error) {
	if err := checkDomain(m.kind, k); err != nil {
		return Profile{}, err
	}
	p := Profile{Key: k, Length: k.RuneLen()}
	switch m.kind {
	case TokenJaccard:
		p.Features = textutil.UniqueSorted(textutil.Tokens(k))
	case TokenCosine:
		terms := textutil.Tokens(k)
		p.Features = textutil.UniqueSorted(terms)
		p.fp = textutil.FingerprintOf(terms)
	case TrigramCosine:
		grams := textutil.Grams(k, trigramSize)
		p.Features = textutil.UniqueSorted(grams)
		p.fp = textutil.FingerprintOf(grams)
	}
	return p, nil
}

// Score treats two featureless keys as identical sets.
func (m tokenSet) Score(a, b Profile) float64 {
	if a.Key == b.Key {
		return 1
	}
	if len(a.Features) == 0 || len(b.Features) == 0 {
		if len(a.Features) == len(b.Features) {
			return 1
		}
		return 0
	}
	if m.kind == TokenJaccard {
		return textutil.JaccardSimilarity(a.Features, b.Features)
	}
	return textutil.CosineSimilarity(a.fp, b.fp)
}

func (m tokenSet) Compare(a, b textutil.Key) (float64, error) {
	return compare(m, a, b)
}
