// Package main hosts the serieslink CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves single titles against the catalog,
// links library series folders to catalog entries, lists stored links,
// benchmarks matchers, and scaffolds configuration. It centralizes
// configuration resolution and logger setup so subcommands only wire the
// internal packages together.
package main
