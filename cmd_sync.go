package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"trailscore/internal/service"
	"trailscore/internal/store"
)

func newSyncCommand() *cobra.Command {
	var noScore bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch new Strava activities and rescore the affected days",
		Long: `Fetch Strava activities since the last sync and store the runs, rides and
other endurance activities as training sessions. Activities with heart rate get
an intensity ratio against athlete.max_hr. Every day from the earliest new
session through today is rescored afterwards, unless --no-score is given.

Run 'trailscore login' once first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close() //nolint:errcheck

			if err := ws.cfg.ValidateStrava(); err != nil {
				return err
			}

			ctx := cmd.Context()
			client, err := service.NewStravaClient(ctx, ws.db, ws.cfg.Strava)
			if errors.Is(err, store.ErrNoAuth) {
				return errors.New("no Strava account linked: run 'trailscore login' first")
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			last, err := ws.db.LastSync(ctx, store.KeyLastStravaSync)
			if err != nil {
				return err
			}
			if last.IsZero() {
				fmt.Fprintln(out, "First sync: fetching all activities")
			} else {
				fmt.Fprintf(out, "Fetching activities since %s\n", humanize.Time(last))
			}

			progress := make(chan service.SyncProgress)
			done := make(chan struct{})
			go func() {
				defer close(done)
				reportProgress(cmd.ErrOrStderr(), progress)
			}()

			result, err := service.NewSyncService(client, ws.db, ws.cfg.Athlete).SyncAll(ctx, progress)
			<-done
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Fetched %s activities: %d sessions stored (%d with heart rate), %d skipped\n",
				humanize.Comma(int64(result.ActivitiesFetched)), result.SessionsStored, result.WithHR, result.Skipped)
			for _, e := range result.Errors {
				slog.Warn("sync error", "error", e)
			}
			short, daily := client.RateLimitStatus()
			fmt.Fprintf(out, "API requests left: %d (15 min), %d (daily)\n", short, daily)

			if noScore || len(result.Days) == 0 {
				return nil
			}
			scores, err := ws.scores.Rescore(ctx, result.Days)
			if err != nil {
				return err
			}
			printRangeSummary(cmd, scores)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noScore, "no-score", false, "Sync only, skip rescoring")

	return cmd
}

// reportProgress prints one line per phase change and drains the channel
func reportProgress(w io.Writer, progress <-chan service.SyncProgress) {
	var phase string
	for p := range progress {
		if p.Phase == phase {
			continue
		}
		phase = p.Phase
		switch phase {
		case "activities":
			fmt.Fprintln(w, "  fetching activities...")
		case "sessions":
			fmt.Fprintf(w, "  storing %d activities...\n", p.Total)
		}
	}
}
