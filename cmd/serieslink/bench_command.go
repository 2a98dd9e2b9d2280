package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"serieslink/internal/bench"
	"serieslink/internal/config"
	"serieslink/internal/index"
	"serieslink/internal/logging"
	"serieslink/internal/metric"
)

type benchFlags struct {
	queriesPath string
	random      int
	seed        uint64
	metrics     []string
	budget      time.Duration
	verbose     bool
	jsonOut     bool
}

// benchRow is one matcher result plus its agreement with the linear scan.
type benchRow struct {
	bench.Result
	PerQuery time.Duration `json:"per_query"`
	// Agreement is the share of processed queries whose best payload matches
	// the linear scan. Nil when no linear baseline ran.
	Agreement *float64 `json:"agreement,omitempty"`
}

func newBenchCommand(ctx *commandContext) *cobra.Command {
	var flags benchFlags

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark matchers over catalog titles",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, cfg, logger, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			if !flags.verbose {
				logger = logging.WithLevelOverride(logger, slog.LevelWarn)
			}

			kinds, err := benchKinds(cfg, flags.metrics)
			if err != nil {
				return err
			}
			entries, err := loadEntries(runCtx, cfg, logger)
			if err != nil {
				return err
			}
			queries, err := benchQueries(cfg, flags)
			if err != nil {
				return err
			}

			opts := bench.Options{
				Budget: time.Duration(cfg.Benchmark.TimeBudgetSeconds * float64(time.Second)),
				TopK:   cfg.Benchmark.TopK,
				Logger: logger,
			}
			if cmd.Flags().Changed("budget") {
				opts.Budget = flags.budget
			}
			if shouldShowProgress(cmd.ErrOrStderr()) {
				opts.Progress = cmd.ErrOrStderr()
			}

			var rows []benchRow
			for _, kind := range kinds {
				results, err := benchKind(runCtx, cfg, kind, entries, queries, opts)
				if err != nil {
					return err
				}
				rows = append(rows, results...)
			}

			if flags.jsonOut {
				return writeJSON(cmd, rows)
			}
			printBench(cmd.OutOrStdout(), rows, len(entries), len(queries))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.queriesPath, "queries", "", "File with one query per line (overrides benchmark.queries_path)")
	cmd.Flags().IntVar(&flags.random, "random", 0, "Generate this many random queries instead of reading a file")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "Seed for random queries (overrides benchmark.seed)")
	cmd.Flags().StringSliceVar(&flags.metrics, "metric", nil, "Metrics to benchmark (repeatable; default benchmark.metrics)")
	cmd.Flags().DurationVar(&flags.budget, "budget", 0, "Time budget per matcher (overrides benchmark.time_budget_seconds)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Keep info logs from index builds and runs")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "Output results as JSON")
	return cmd
}

func benchKinds(cfg *config.Config, names []string) ([]metric.Kind, error) {
	if len(names) == 0 {
		return cfg.BenchmarkKinds(), nil
	}
	kinds := make([]metric.Kind, 0, len(names))
	for _, name := range names {
		kind, err := metric.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func benchQueries(cfg *config.Config, flags benchFlags) ([]string, error) {
	path := strings.TrimSpace(flags.queriesPath)
	if path == "" && flags.random == 0 {
		path = cfg.Benchmark.QueriesPath
	}
	if path != "" {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return nil, fmt.Errorf("resolve queries path: %w", err)
		}
		return readQueries(expanded)
	}

	n := cfg.Benchmark.RandomQueries
	if flags.random > 0 {
		n = flags.random
	}
	seed := cfg.Benchmark.Seed
	if flags.seed != 0 {
		seed = flags.seed
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	return bench.RandomQueries(rng, n, cfg.Benchmark.RandomLength), nil
}

func readQueries(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open queries: %w", err)
	}
	defer file.Close()

	var queries []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			queries = append(queries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}
	return queries, nil
}

// benchKind runs the index matcher and, when enabled, the linear and SQLite
// matchers for one metric.
func benchKind(ctx context.Context, cfg *config.Config, kind metric.Kind, entries []index.Entry, queries []string, opts bench.Options) ([]benchRow, error) {
	idx, err := buildIndex(ctx, cfg, kind, entries, opts.Logger)
	if err != nil {
		return nil, err
	}

	matchers := []bench.Matcher{bench.NewIndexMatcher(idx, opts.TopK)}
	if cfg.Benchmark.Linear {
		linear, err := bench.NewLinearMatcher(idx.Metric(), entries)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, linear)
	}
	if cfg.Benchmark.SQLite {
		sqlite, err := bench.NewSQLiteMatcher(ctx, idx.Metric(), entries, opts.TopK)
		if err != nil {
			return nil, err
		}
		defer sqlite.Close()
		matchers = append(matchers, sqlite)
	}

	results := make([]bench.Result, 0, len(matchers))
	for _, m := range matchers {
		res, err := bench.Run(ctx, m, queries, opts)
		if err != nil {
			return nil, fmt.Errorf("bench %s: %w", m.Name(), err)
		}
		results = append(results, res)
	}

	var baseline *bench.Result
	if cfg.Benchmark.Linear {
		baseline = &results[1]
	}
	rows := make([]benchRow, 0, len(results))
	for i, res := range results {
		row := benchRow{Result: res, PerQuery: res.PerQuery()}
		if baseline != nil && i != 1 {
			row.Agreement = agreement(res, *baseline)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// agreement compares best payloads for queries both runs processed.
func agreement(res, baseline bench.Result) *float64 {
	compared, agreed := 0, 0
	for i, m := range res.Matches {
		if i >= len(baseline.Matches) {
			break
		}
		compared++
		got, okGot := m.Candidates.Best()
		want, okWant := baseline.Matches[i].Candidates.Best()
		if okGot == okWant && (!okGot || got.Entry.Payload == want.Entry.Payload) {
			agreed++
		}
	}
	if compared == 0 {
		return nil
	}
	share := float64(agreed) / float64(compared)
	return &share
}

func shouldShowProgress(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func printBench(out io.Writer, rows []benchRow, titles, queries int) {
	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		agree := "-"
		if row.Agreement != nil {
			agree = strconv.FormatFloat(*row.Agreement*100, 'f', 1, 64) + "%"
		}
		table = append(table, []string{
			row.Name,
			row.State.String(),
			fmt.Sprintf("%d/%d", len(row.Matches), row.Queries),
			row.Elapsed.Round(time.Millisecond).String(),
			row.PerQuery.Round(time.Microsecond).String(),
			agree,
		})
	}
	printTable(out, tableSpec{
		Title:   fmt.Sprintf("%d titles, %d queries", titles, queries),
		Headers: []string{"Matcher", "State", "Processed", "Elapsed", "Per Query", "Agreement"},
		Rows:    table,
		Aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	})
}
