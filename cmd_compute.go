package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"trailscore/internal/service"
)

func newComputeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "compute <file>",
		Short: "Score a YAML snapshot without touching the database",
		Long: `Score a self-contained YAML snapshot without touching the database.

The snapshot carries the profile, plan, the day itself (nutrition, sessions,
sleep, steps and food) and optionally the prior week's session, bedtimes and
recent history. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			policy, err := consistencyPolicy(cfg)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening snapshot: %w", err)
				}
				defer f.Close() //nolint:errcheck
				in = f
			}

			snap, err := service.DecodeSnapshot(in)
			if err != nil {
				return err
			}

			result, err := service.NewScoreService(nil, policy).Compute(snap)
			if err != nil {
				return err
			}

			date := "snapshot"
			if snap.Day != nil && snap.Day.Date != "" {
				date = snap.Day.Date
			}
			score := &service.DayScore{Date: date, Result: result, Policy: policy.Name()}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeScoreJSON(out, score); err != nil {
					return err
				}
			} else if result.Sufficient() {
				printScore(out, score)
			} else {
				inputs, _ := snap.Inputs()
				fmt.Fprintf(out, "Not enough data to score %s. Missing: %s\n",
					date, strings.Join(service.MissingSources(inputs), ", "))
			}

			if !result.Sufficient() {
				return service.ErrInsufficientData
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}
