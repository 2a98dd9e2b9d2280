package metric

import (
	"github.com/hbollon/go-edlib"

	"serieslink/internal/textutil"
)

// boundSlack absorbs float32 rounding in the library scores so length bounds
// stay optimistic.
const boundSlack = 1e-6

// winklerMaxBoost is the largest prefix bonus factor: four prefix runes
// scaled by 0.1.
const winklerMaxBoost = 0.4

type jaroFamily struct {
	winkler bool
}

func (m jaroFamily) Kind() Kind {
	if m.winkler {
		return JaroWinkler
	}
	return Jaro
}

func (m jaroFamily) Direction() Direction { return HigherIsBetter }
func (m jaroFamily) Identity() float64    { return 1 }
func (m jaroFamily) Worst() float64       { return 0 }

func (m jaroFamily) Profile(k textutil.Key) (Profile, error) {
	if err := checkDomain(m.Kind(), k); err != nil {
		return Profile{}, err
	}
	return Profile{Key: k, Length: k.RuneLen()}, nil
}

func (m jaroFamily) Score(a, b Profile) float64 {
	if a.Key == b.Key {
		return 1
	}
	if a.Length == 0 || b.Length == 0 {
		return 0
	}
	var sim float32
	if m.winkler {
		sim = edlib.JaroWinklerSimilarity(string(a.Key), string(b.Key))
	} else {
		sim = edlib.JaroSimilarity(string(a.Key), string(b.Key))
	}
	return clamp01(float64(sim))
}

func (m jaroFamily) Compare(a, b textutil.Key) (float64, error) {
	return compare(m, a, b)
}

// BestPossible: at most min(lenA, lenB) characters can match, so
// jaro <= (min/lenA + min/lenB + 1) / 3, and the Winkler prefix bonus grows
// monotonically with jaro.
func (m jaroFamily) BestPossible(lenA, lenB int) float64 {
	if lenA == 0 || lenB == 0 {
		if lenA == lenB {
			return 1
		}
		return 0
	}
	shortest := float64(min(lenA, lenB))
	bound := (shortest/float64(lenA) + shortest/float64(lenB) + 1) / 3
	if m.winkler {
		bound += winklerMaxBoost * (1 - bound)
	}
	return clamp01(bound + boundSlack)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
