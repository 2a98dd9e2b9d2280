package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"serieslink/internal/library"
	"serieslink/internal/linker"
	"serieslink/internal/linkstore"
)

func newLinkCommand(ctx *commandContext) *cobra.Command {
	var opts linker.Options
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link library series folders to catalog titles",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, cfg, logger, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			if len(cfg.Paths.SeriesDirs) == 0 {
				return errors.New("no series directories configured (set paths.series_dirs)")
			}

			series, err := library.Scan(cfg.Paths.SeriesDirs, logger)
			if err != nil {
				return err
			}
			r, err := newResolver(runCtx, cfg, logger)
			if err != nil {
				return err
			}

			store, err := linkstore.Open(cfg)
			if err != nil {
				return fmt.Errorf("open link store: %w", err)
			}
			defer store.Close()

			l, err := linker.New(r, store, string(cfg.MetricKind()), cfg.LinkLockPath(), logger)
			if err != nil {
				return err
			}
			report, err := l.Run(runCtx, series, opts)
			if errors.Is(err, linker.ErrLocked) {
				return fmt.Errorf("another link run holds %s", cfg.LinkLockPath())
			}
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, report)
			}
			printLinkReport(cmd.OutOrStdout(), report, opts.DryRun)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "Re-resolve folders that already have a link")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Resolve folders without writing links")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the run report as JSON")
	return cmd
}

func printLinkReport(out io.Writer, report linker.Report, dryRun bool) {
	if len(report.Outcomes) > 0 {
		rows := make([][]string, 0, len(report.Outcomes))
		for _, o := range report.Outcomes {
			title, series, score := "-", "-", "-"
			if best := o.Decision.Best; best != nil {
				title = best.Entry.Label()
				series = best.Entry.Payload
				score = strconv.FormatFloat(best.Score, 'g', 4, 64)
			}
			rows = append(rows, []string{
				o.Series.Name,
				title,
				series,
				score,
				yesNo(o.Decision.Accepted),
				strings.ReplaceAll(o.Decision.Reason, "_", " "),
			})
		}
		printTable(out, tableSpec{
			Headers: []string{"Folder", "Best Title", "Series", "Score", "Accepted", "Reason"},
			Rows:    rows,
			Aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
		})
	}

	prefix := "Linked"
	if dryRun {
		prefix = "Dry run"
	}
	fmt.Fprintf(out, "%s: %d scanned, %d skipped, %d accepted, %d rejected, %d unmatched\n",
		prefix, report.Scanned, report.Skipped, report.Accepted, report.Rejected, report.Unmatched)
}

func newLinksCommand(ctx *commandContext) *cobra.Command {
	var filterFlag string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "links",
		Short: "List stored folder links",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseFilter(filterFlag)
			if err != nil {
				return err
			}
			return withStore(ctx, cmd, func(store *linkstore.Store) error {
				links, err := store.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if jsonOut {
					if links == nil {
						links = []*linkstore.Link{}
					}
					return writeJSON(cmd, links)
				}
				summary, err := store.Summary(cmd.Context())
				if err != nil {
					return err
				}
				printLinks(cmd.OutOrStdout(), links, summary)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&filterFlag, "filter", "", "Only show accepted, rejected or unmatched links")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output links as JSON")

	cmd.AddCommand(newLinksRemoveCommand(ctx))
	cmd.AddCommand(newLinksClearCommand(ctx))
	return cmd
}

func newLinksRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <path> [path...]",
		Short: "Forget links so the next link run resolves those folders again",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, cmd, func(store *linkstore.Store) error {
				out := cmd.OutOrStdout()
				for _, path := range args {
					removed, err := store.Remove(cmd.Context(), path)
					if err != nil {
						return err
					}
					if removed {
						fmt.Fprintf(out, "Removed %s\n", path)
					} else {
						fmt.Fprintf(out, "No link for %s\n", path)
					}
				}
				return nil
			})
		},
	}
}

func newLinksClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored link",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, cmd, func(store *linkstore.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d link(s)\n", removed)
				return nil
			})
		},
	}
}

func withStore(ctx *commandContext, cmd *cobra.Command, fn func(*linkstore.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := linkstore.Open(cfg)
	if err != nil {
		return fmt.Errorf("open link store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func parseFilter(value string) (linkstore.Filter, error) {
	switch filter := linkstore.Filter(strings.ToLower(strings.TrimSpace(value))); filter {
	case linkstore.FilterAll, linkstore.FilterAccepted, linkstore.FilterRejected, linkstore.FilterUnmatched:
		return filter, nil
	default:
		return "", fmt.Errorf("unknown filter %q (expected accepted, rejected or unmatched)", value)
	}
}

func printLinks(out io.Writer, links []*linkstore.Link, summary linkstore.Summary) {
	if len(links) == 0 {
		fmt.Fprintln(out, "No links")
		return
	}
	rows := make([][]string, 0, len(links))
	for _, link := range links {
		series := link.Payload
		if series == "" {
			series = "-"
		}
		rows = append(rows, []string{
			link.Name,
			series,
			formatScore(link.Score),
			yesNo(link.Accepted),
			link.Metric,
			strconv.Itoa(link.BookCount),
			link.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	printTable(out, tableSpec{
		Headers: []string{"Folder", "Series", "Score", "Accepted", "Metric", "Books", "Updated"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
		Footer: []string{
			fmt.Sprintf("%d total", summary.Total),
			fmt.Sprintf("%d unmatched", summary.Unmatched),
			"",
			fmt.Sprintf("%d accepted", summary.Accepted),
			fmt.Sprintf("%d rejected", summary.Rejected),
		},
	})
}
