package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trailscore/internal/service"
	"trailscore/internal/store"
)

func newImportCommand() *cobra.Command {
	var noScore bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a YAML day log and rescore the affected days",
		Long: `Import a YAML day log into the database.

The log may carry a profile, a weekly plan and any number of days with
nutrition, sessions, sleep, steps and food. Re-importing a day replaces its
sleep and food and updates its sessions. Afterwards every day from the first
imported one through today is rescored, unless --no-score is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close() //nolint:errcheck

			ctx := cmd.Context()
			result, err := service.NewImportService(ws.db).ImportFile(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.ProfileSaved {
				fmt.Fprintln(out, "Saved profile")
			}
			if result.PlanSaved {
				fmt.Fprintln(out, "Saved plan")
			}
			if result.Days == 0 {
				fmt.Fprintln(out, "No days in the log")
				return nil
			}
			fmt.Fprintf(out, "Imported %d days (%s to %s): %d sessions, %d sleep nights, %d food entries\n",
				result.Days, result.From.Format(store.DateFormat), result.To.Format(store.DateFormat),
				result.Sessions, result.SleepNights, result.FoodEntries)

			if noScore {
				return nil
			}
			scores, err := ws.scores.Rescore(ctx, []time.Time{result.From, result.To})
			if err != nil {
				return err
			}
			printRangeSummary(cmd, scores)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noScore, "no-score", false, "Import only, skip rescoring")

	return cmd
}
