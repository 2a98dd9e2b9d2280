// Package textutil turns raw titles into comparable keys and extracts the
// token features the metrics and index work on.
//
// Normalize is the single entry point for canonicalization: NFKC
// compatibility folding, full Unicode case folding, control character removal
// and whitespace collapsing. The result is a Key, which every other package
// treats as immutable and compares by byte equality.
//
// Tokens and Grams split a Key into word tokens and padded character n-grams.
// Fingerprints build term-frequency vectors from either, and CosineSimilarity
// and JaccardSimilarity score pairs of them.
package textutil
