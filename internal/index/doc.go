// Package index answers top-K nearest-neighbour queries over a fixed corpus of
// normalized titles.
//
// Build profiles every entry once and picks a search strategy from the
// metric's capabilities: rune-length buckets visited best bound first for
// length-bounded metrics, inverted feature postings for feature-based metrics,
// and a plain scan for small corpora. Every strategy feeds the same bounded
// selector, so results are identical to a full scan: best score first, ties
// broken by corpus insertion order.
//
// A built Index is immutable and safe for concurrent queries.
package index
