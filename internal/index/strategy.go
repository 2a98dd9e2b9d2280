package index

import (
	"context"
	"slices"

	"serieslink/internal/metric"
)

const cancelCheckInterval = 1024

type strategy interface {
	name() string
	search(ctx context.Context, q metric.Profile, sel *selector) error
}

func chooseStrategy(m metric.Metric, profiles []metric.Profile, linearScanMax int) strategy {
	if len(profiles) <= linearScanMax {
		return &linearScan{metric: m, profiles: profiles}
	}
	if lb, ok := m.(metric.LengthBounded); ok {
		return newLengthBuckets(m, lb, profiles)
	}
	if fb, ok := m.(metric.FeatureBased); ok && fb.FeatureBased() {
		return newPostings(m, profiles)
	}
	return &linearScan{metric: m, profiles: profiles}
}

type linearScan struct {
	metric   metric.Metric
	profiles []metric.Profile
}

func (s *linearScan) name() string { return "linear" }

func (s *linearScan) search(ctx context.Context, q metric.Profile, sel *selector) error {
	for i, p := range s.profiles {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		sel.offer(i, s.metric.Score(q, p))
	}
	return nil
}

// lengthBuckets groups entries by rune length. A bucket is skipped once its
// best possible score is strictly worse than the current k-th best.
type lengthBuckets struct {
	metric   metric.Metric
	bound    metric.LengthBounded
	profiles []metric.Profile
	lengths  []int
	members  [][]int
}

func newLengthBuckets(m metric.Metric, bound metric.LengthBounded, profiles []metric.Profile) *lengthBuckets {
	byLength := make(map[int][]int)
	for i, p := range profiles {
		byLength[p.Length] = append(byLength[p.Length], i)
	}
	lengths := make([]int, 0, len(byLength))
	for l := range byLength {
		lengths = append(lengths, l)
	}
	slices.Sort(lengths)
	members := make([][]int, len(lengths))
	for i, l := range lengths {
		members[i] = byLength[l]
	}
	return &lengthBuckets{metric: m, bound: bound, profiles: profiles, lengths: lengths, members: members}
}

func (s *lengthBuckets) name() string { return "length-buckets" }

type bucketVisit struct {
	bucket int
	bound  float64
}

func (s *lengthBuckets) search(ctx context.Context, q metric.Profile, sel *selector) error {
	direction := s.metric.Direction()
	visits := make([]bucketVisit, len(s.lengths))
	for i, l := range s.lengths {
		visits[i] = bucketVisit{bucket: i, bound: s.bound.BestPossible(q.Length, l)}
	}
	slices.SortStableFunc(visits, func(a, b bucketVisit) int {
		return direction.Cmp(a.bound, b.bound)
	})

	for _, v := range visits {
		if sel.full() && direction.Better(sel.kth(), v.bound) {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, id := range s.members[v.bucket] {
			sel.offer(id, s.metric.Score(q, s.profiles[id]))
		}
	}
	return nil
}

// postings maps each feature to the ascending ids of entries holding it.
// Entries sharing no feature with the query score Worst and only pad the
// result.
type postings struct {
	metric   metric.Metric
	profiles []metric.Profile
	lists    map[string][]int
	empty    []int
}

func newPostings(m metric.Metric, profiles []metric.Profile) *postings {
	s := &postings{metric: m, profiles: profiles, lists: make(map[string][]int)}
	for i, p := range profiles {
		if len(p.Features) == 0 {
			s.empty = append(s.empty, i)
			continue
		}
		for _, f := range p.Features {
			s.lists[f] = append(s.lists[f], i)
		}
	}
	return s
}

func (s *postings) name() string { return "postings" }

func (s *postings) search(ctx context.Context, q metric.Profile, sel *selector) error {
	seen := make(map[int]struct{})
	score := func(id int) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		sel.offer(id, s.metric.Score(q, s.profiles[id]))
	}

	if len(q.Features) == 0 {
		for _, id := range s.empty {
			score(id)
		}
	} else {
		for _, f := range q.Features {
			if err := ctx.Err(); err != nil {
				return err
			}
			for _, id := range s.lists[f] {
				score(id)
			}
		}
	}

	worst := s.metric.Worst()
	for id := 0; id < len(s.profiles) && !sel.full(); id++ {
		if _, ok := seen[id]; ok {
			continue
		}
		sel.offer(id, worst)
	}
	return nil
}
