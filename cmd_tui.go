package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"trailscore/internal/config"
	"trailscore/internal/service"
	"trailscore/internal/store"
	"trailscore/internal/tui"
)

// runTUI opens the dashboard on today. Sync is offered only when Strava is
// configured and linked.
func runTUI(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close() //nolint:errcheck

	// The alt screen owns the terminal, so logs go to a file
	dir, err := config.GetConfigDir()
	if err != nil {
		return err
	}
	logFile, err := os.OpenFile(filepath.Join(dir, "trailscore.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close() //nolint:errcheck

	ctx := cmd.Context()
	prev := slog.Default()
	level := slog.LevelInfo
	if prev.Enabled(ctx, slog.LevelDebug) {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level})))
	defer slog.SetDefault(prev)

	var syncSvc *service.SyncService
	if ws.cfg.ValidateStrava() == nil {
		client, err := service.NewStravaClient(ctx, ws.db, ws.cfg.Strava)
		switch {
		case err == nil:
			syncSvc = service.NewSyncService(client, ws.db, ws.cfg.Athlete)
		case errors.Is(err, store.ErrNoAuth):
			slog.Debug("strava not linked, sync disabled")
		default:
			return err
		}
	}

	querySvc := service.NewQueryService(ws.db, ws.scores)
	app := tui.NewApp(querySvc, ws.scores, syncSvc, time.Now())

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
