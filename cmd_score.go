package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"trailscore/internal/scoring"
	"trailscore/internal/service"
)

func newScoreCommand() *cobra.Command {
	var asJSON, chart bool

	cmd := &cobra.Command{
		Use:   "score [date]",
		Short: "Score a day from the stored logs and save the result",
		Long: `Score a day from the stored logs and save the result.

The date is YYYY-MM-DD, "today" (the default) or "yesterday". A day missing its
profile, daily recap, food log or plan is not scored; the command then exits with
status 1 and lists what is missing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) > 0 {
				arg = args[0]
			}
			date, err := parseDay(arg)
			if err != nil {
				return err
			}

			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close() //nolint:errcheck

			ctx := cmd.Context()
			score, scoreErr := ws.scores.ScoreDay(ctx, date)
			if scoreErr != nil && !errors.Is(scoreErr, service.ErrInsufficientData) {
				return scoreErr
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeScoreJSON(out, score); err != nil {
					return err
				}
				return scoreErr
			}

			if scoreErr != nil {
				in, err := ws.scores.Inputs(ctx, date)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Not enough data to score %s. Missing: %s\n",
					score.Date, strings.Join(service.MissingSources(in), ", "))
				return scoreErr
			}

			printScore(out, score)

			if chart {
				history, err := ws.scores.History(ctx, date, ws.cfg.Display.ChartDays)
				if err != nil {
					return err
				}
				printChart(out, history)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&chart, "chart", false, "Plot the composite trend for the configured chart_days")

	return cmd
}

type scoreOutput struct {
	service.DayScore
	Sufficient bool `json:"sufficient"`
}

func writeScoreJSON(w io.Writer, score *service.DayScore) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(scoreOutput{DayScore: *score, Sufficient: score.Result.Sufficient()})
}

func printScore(w io.Writer, score *service.DayScore) {
	r := score.Result
	fmt.Fprintf(w, "%s  Trail Score %.1f  (goal %s, consistency +%.0f)\n\n",
		score.Date, r.CompositeScore, r.GoalType, r.ConsistencyBonus)

	if r.Detail == nil {
		return
	}
	printComponent(w, "Trail Fuel", r.TrailFuelScore, r.Detail.TrailFuel)
	printComponent(w, "Climb", r.ClimbScore, r.Detail.Climb)
	printComponent(w, "Base Camp", r.BaseCampScore, r.Detail.BaseCamp)
}

func printComponent(w io.Writer, name string, value float64, c scoring.ComponentScore) {
	fmt.Fprintf(w, "  %-10s %5.1f   confidence %.0f%%\n", name, value, c.Confidence*100)

	keys := make([]string, 0, len(c.Breakdown))
	for k := range c.Breakdown {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "      %-24s %6.1f\n", strings.ReplaceAll(k, "_", " "), c.Breakdown[k])
	}
}

func printChart(w io.Writer, history []service.DayScore) {
	if len(history) < 2 {
		fmt.Fprintln(w, "\nNot enough scored days for a chart yet.")
		return
	}

	series := make([]float64, len(history))
	for i, s := range history {
		series[i] = s.Result.CompositeScore
	}

	graph := asciigraph.Plot(series,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("composite %s to %s", history[0].Date, history[len(history)-1].Date)),
	)
	fmt.Fprintf(w, "\n%s\n", graph)
}
