package index

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

var titleWords = []string{
	"one", "piece", "punch", "man", "naruto", "bleach", "attack", "on", "titan",
	"kaguya", "sama", "love", "is", "war", "yotsuba", "to", "berserk", "vinland",
	"saga", "monster", "20th", "century", "boys", "chainsaw", "spy", "family",
	"no", "kyojin", "shingeki", "dr", "stone", "jojo", "bizarre", "adventure",
}

// syntheticCorpus builds a reproducible corpus with typos, shared payloads,
// exact duplicates and featureless titles.
func syntheticCorpus(seed uint64, n int) []Entry {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		switch {
		case i%97 == 13:
			entries = append(entries, NewEntry("?!", payloadFor(i)))
			continue
		case i%89 == 7 && i > 0:
			entries = append(entries, entries[i-1])
			continue
		}
		words := make([]string, 1+rng.IntN(4))
		for w := range words {
			words[w] = titleWords[rng.IntN(len(titleWords))]
		}
		title := strings.Join(words, " ")
		if rng.IntN(3) == 0 {
			title = typo(rng, title)
		}
		entries = append(entries, NewEntry(title, payloadFor(i/2)))
	}
	return entries
}

func typo(rng *rand.Rand, s string) string {
	r := []rune(s)
	if len(r) < 2 {
		return s
	}
	i := rng.IntN(len(r) - 1)
	switch rng.IntN(3) {
	case 0:
		r[i], r[i+1] = r[i+1], r[i]
	case 1:
		r = append(r[:i], r[i+1:]...)
	default:
		r[i] = rune('a' + rng.IntN(26))
	}
	return string(r)
}

func payloadFor(i int) string {
	return "series-" + strconv.Itoa(i)
}
