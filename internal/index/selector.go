package index

import (
	"container/heap"
	"slices"

	"serieslink/internal/metric"
)

type scored struct {
	id    int
	score float64
}

// selector keeps the k best scores seen so far. The heap root is the worst
// kept candidate so it can be replaced in O(log k).
type selector struct {
	direction metric.Direction
	k         int
	items     []scored
}

func newSelector(direction metric.Direction, k int) *selector {
	return &selector{direction: direction, k: k, items: make([]scored, 0, k)}
}

// ranks reports whether a belongs ahead of b: better score, then lower
// insertion index.
func (s *selector) ranks(a, b scored) bool {
	if s.direction.Better(a.score, b.score) {
		return true
	}
	if s.direction.Better(b.score, a.score) {
		return false
	}
	return a.id < b.id
}

func (s *selector) Len() int           { return len(s.items) }
func (s *selector) Less(i, j int) bool { return s.ranks(s.items[j], s.items[i]) }
func (s *selector) Swap(i, j int)      { s.items[i], s.items[j] = s.items[j], s.items[i] }
func (s *selector) Push(x any)         { s.items = append(s.items, x.(scored)) }

func (s *selector) Pop() any {
	old := s.items
	n := len(old)
	x := old[n-1]
	s.items = old[:n-1]
	return x
}

func (s *selector) offer(id int, score float64) {
	c := scored{id: id, score: score}
	if len(s.items) < s.k {
		heap.Push(s, c)
		return
	}
	if s.ranks(c, s.items[0]) {
		s.items[0] = c
		heap.Fix(s, 0)
	}
}

func (s *selector) full() bool {
	return len(s.items) >= s.k
}

// kth returns the worst kept score; only meaningful when full.
func (s *selector) kth() float64 {
	return s.items[0].score
}

func (s *selector) result(entries []Entry) RankedResult {
	ordered := slices.Clone(s.items)
	slices.SortFunc(ordered, func(a, b scored) int {
		if c := s.direction.Cmp(a.score, b.score); c != 0 {
			return c
		}
		return a.id - b.id
	})
	out := make(RankedResult, len(ordered))
	for i, c := range ordered {
		out[i] = Candidate{Entry: entries[c.id], Score: c.score}
	}
	return out
}
