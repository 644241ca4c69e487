package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"trailscore/internal/config"
	"trailscore/internal/scoring"
	"trailscore/internal/service"
	"trailscore/internal/store"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trailscore",
		Short: "TrailScore - daily fitness score from nutrition, training and recovery",
		Long: `TrailScore turns a day of logged food, training and sleep into one 0-100 score.

Three sub-scores are weighted by your goal:
  Trail Fuel  nutrition against calorie, protein, fiber and hydration targets
  Climb       training completion, intensity, progression and warm-up
  Base Camp   sleep duration, bedtime regularity and daily steps

Run without a subcommand to open the dashboard.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if *debugLogging {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

		// A missing .env is normal
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	}

	cmd.AddCommand(newScoreCommand())
	cmd.AddCommand(newRescoreCommand())
	cmd.AddCommand(newComputeCommand())
	cmd.AddCommand(newImportCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newSyncCommand())
	cmd.AddCommand(newLoginCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}

// loadConfig reads and validates the config file, falling back to the defaults
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		dir, _ := config.GetConfigDir()
		return nil, fmt.Errorf("invalid config in %s: %w", dir, err)
	}
	return cfg, nil
}

func consistencyPolicy(cfg *config.Config) (scoring.ConsistencyPolicy, error) {
	return scoring.ParseConsistencyPolicy(cfg.Scoring.ConsistencyPolicy, cfg.Scoring.Bonus())
}

// workspace bundles what most commands need: config, database and scoring
type workspace struct {
	cfg    *config.Config
	db     *store.DB
	scores *service.ScoreService
}

func openWorkspace() (*workspace, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	policy, err := consistencyPolicy(cfg)
	if err != nil {
		return nil, err
	}

	dir, err := config.GetConfigDir()
	if err != nil {
		return nil, err
	}
	db, err := store.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	slog.Debug("opened workspace", "dir", dir, "policy", policy.Name())

	return &workspace{cfg: cfg, db: db, scores: service.NewScoreService(db, policy)}, nil
}

func (w *workspace) Close() error {
	return w.db.Close()
}

// parseDay accepts YYYY-MM-DD, "today" or "yesterday"
func parseDay(s string) (time.Time, error) {
	today := store.StartOfDay(time.Now())
	switch s {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	d, err := store.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return d, nil
}
