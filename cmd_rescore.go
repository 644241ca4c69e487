package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trailscore/internal/service"
)

func newRescoreCommand() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "rescore",
		Short: "Recompute and save scores for a range of days",
		Long: `Recompute and save scores for every day from --from to --to inclusive.

Days are scored oldest first, so each day's consistency bonus and recovery
fallbacks see the freshly computed days before it. Days without enough data
are reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDay(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			end, err := parseDay(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close() //nolint:errcheck

			scores, err := ws.scores.ScoreRange(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			printRangeSummary(cmd, scores)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day to score (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "today", "Last day to score (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func printRangeSummary(cmd *cobra.Command, scores []service.DayScore) {
	out := cmd.OutOrStdout()
	scored := 0
	for _, s := range scores {
		if !s.Result.Sufficient() {
			fmt.Fprintf(out, "%s  -     (not enough data)\n", s.Date)
			continue
		}
		scored++
		fmt.Fprintf(out, "%s  %5.1f\n", s.Date, s.Result.CompositeScore)
	}
	fmt.Fprintf(out, "Scored %d of %d days\n", scored, len(scores))
}
