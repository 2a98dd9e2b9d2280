package metric

import "math"

// Direction fixes how scores of one metric are ordered.
type Direction int

const (
	// LowerIsBetter orders distances ascending.
	LowerIsBetter Direction = iota + 1
	// HigherIsBetter orders similarities descending.
	HigherIsBetter
)

func (d Direction) String() string {
	switch d {
	case LowerIsBetter:
		return "ascending"
	case HigherIsBetter:
		return "descending"
	default:
		return "unknown"
	}
}

// Better reports whether score a strictly outranks score b.
func (d Direction) Better(a, b float64) bool {
	if d == LowerIsBetter {
		return a < b
	}
	return a > b
}

// AtLeast reports whether a is as good as or better than b.
func (d Direction) AtLeast(a, b float64) bool {
	return !d.Better(b, a)
}

// Gap returns how far a is ahead of b; negative when b is better.
func (d Direction) Gap(a, b float64) float64 {
	if d == LowerIsBetter {
		return b - a
	}
	return a - b
}

// WorstValue returns a sentinel every real score outranks or ties.
func (d Direction) WorstValue() float64 {
	if d == LowerIsBetter {
		return math.Inf(1)
	}
	return math.Inf(-1)
}

// Cmp orders scores best-first for slices.SortStableFunc: negative when a
// outranks b, positive when b outranks a, zero on ties.
func (d Direction) Cmp(a, b float64) int {
	switch {
	case d.Better(a, b):
		return -1
	case d.Better(b, a):
		return 1
	default:
		return 0
	}
}
