package bench

import "math/rand/v2"

// queryAlphabet weights spaces so random queries split into words.
const queryAlphabet = "abcdefghijklmnopqrstuvwxyz    "

// RandomQueries builds n synthetic queries of length runes each.
func RandomQueries(rng *rand.Rand, n, length int) []string {
	if n <= 0 || length <= 0 {
		return nil
	}
	out := make([]string, n)
	buf := make([]byte, length)
	for i := range out {
		for j := range buf {
			buf[j] = queryAlphabet[rng.IntN(len(queryAlphabet))]
		}
		out[i] = string(buf)
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
