package textutil

import "math"

// Fingerprint represents a term-frequency vector for similarity comparison.
type Fingerprint struct {
	tokens map[string]float64
	norm   float64
}

// NewFingerprint creates a fingerprint from the word tokens of k.
// Returns nil if k produces no tokens.
func NewFingerprint(k Key) *Fingerprint {
	return FingerprintOf(Tokens(k))
}

// NewGramFingerprint creates a fingerprint from the padded n-grams of k.
func NewGramFingerprint(k Key, n int) *Fingerprint {
	return FingerprintOf(Grams(k, n))
}

// FingerprintOf counts terms into a fingerprint. Returns nil for no terms.
func FingerprintOf(terms []string) *Fingerprint {
	if len(terms) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(terms))
	for _, term := range terms {
		counts[term]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{
		tokens: counts,
		norm:   math.Sqrt(norm),
	}
}

// TokenCount returns the number of unique terms in the fingerprint.
func (f *Fingerprint) TokenCount() int {
	if f == nil {
		return 0
	}
	return len(f.tokens)
}
