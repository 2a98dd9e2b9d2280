package textutil

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Key is the normalized form of a raw string. It is produced once by
// Normalize and reused across all comparisons.
type Key string

// maxNormalizePasses bounds the fixpoint loop in Normalize. Folding and NFKC
// settle after one or two passes for every input seen in practice.
const maxNormalizePasses = 4

// gramPad marks string boundaries in character n-grams.
const gramPad = '-'

// Normalize canonicalizes raw for comparison. It never fails: empty or
// whitespace-only input yields an empty Key, and invalid UTF-8 sequences are
// replaced with U+FFFD. Normalize(string(Normalize(s))) == Normalize(s).
func Normalize(raw string) Key {
	s := raw
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}
	for range maxNormalizePasses {
		next := normalizeOnce(s)
		if next == s {
			break
		}
		s = next
	}
	return Key(s)
}

func normalizeOnce(s string) string {
	// A Caser keeps state between calls and must not be shared.
	s = cases.Fold().String(norm.NFKC.String(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case unicode.IsControl(r):
			continue
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RuneLen reports the number of code points in k.
func (k Key) RuneLen() int {
	return utf8.RuneCountInString(string(k))
}

// Tokens splits k into word tokens: maximal runs of letters and digits.
// Unlike fingerprint tokenization of free text, short tokens are kept because
// titles lean on particles ("no", "ni", "x").
func Tokens(k Key) []string {
	fields := strings.FieldsFunc(string(k), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Grams returns the character n-grams of k padded with '-' on both sides, the
// way set-based fuzzy matchers do. An empty key yields nil; a key too short
// to fill one gram yields the single padded key.
func Grams(k Key, n int) []string {
	if n <= 0 || k == "" {
		return nil
	}
	runes := make([]rune, 0, len(k)+2)
	runes = append(runes, gramPad)
	runes = append(runes, []rune(string(k))...)
	runes = append(runes, gramPad)
	if len(runes) < n {
		return []string{string(runes)}
	}
	grams := make([]string, 0, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		grams = append(grams, string(runes[i:i+n]))
	}
	return grams
}

// UniqueSorted returns the distinct values of terms in ascending order.
func UniqueSorted(terms []string) []string {
	if len(terms) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}
