package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"serieslink/internal/resolver"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "match <title> [title...]",
		Short: "Resolve titles against the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, cfg, logger, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			r, err := newResolver(runCtx, cfg, logger)
			if err != nil {
				return err
			}

			decisions := make([]resolver.Decision, 0, len(args))
			for _, query := range args {
				d, err := r.Resolve(runCtx, query)
				if err != nil {
					return fmt.Errorf("resolve %q: %w", query, err)
				}
				decisions = append(decisions, d)
			}

			if jsonOut {
				return writeJSON(cmd, decisions)
			}
			out := cmd.OutOrStdout()
			for i, d := range decisions {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printDecision(out, d)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output decisions as JSON")
	return cmd
}

func printDecision(out io.Writer, d resolver.Decision) {
	verdict := "rejected"
	if d.Accepted {
		verdict = "accepted"
	}
	fmt.Fprintf(out, "%s -> %s (%s)\n", d.Query, verdict, strings.ReplaceAll(d.Reason, "_", " "))
	if len(d.All) == 0 {
		fmt.Fprintln(out, "No candidates")
		return
	}

	rows := make([][]string, 0, len(d.All))
	for i, c := range d.All {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Entry.Label(),
			c.Entry.Payload,
			strconv.FormatFloat(c.Score, 'g', 4, 64),
		})
	}
	printTable(out, tableSpec{
		Headers: []string{"#", "Title", "Series", "Score"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
	})
}
