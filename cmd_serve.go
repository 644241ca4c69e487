package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trailscore/internal/api"
)

func newServeCommand() *cobra.Command {
	var addr string
	var origins []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the score API over HTTP",
		Long: `Serve the score API over HTTP.

Routes:
  GET  /healthz             liveness check
  GET  /api/scores?days=N   stored scores for the last N days (end=YYYY-MM-DD to shift)
  GET  /api/scores/{date}   one stored score
  POST /api/scores/{date}   score a day from the database and save it
  POST /api/compute         score a JSON snapshot without saving

The address defaults to server.addr from the config (or TRAILSCORE_ADDR).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close() //nolint:errcheck

			if addr == "" {
				addr = ws.cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			h := api.NewHandler(ws.scores, cmd.ErrOrStderr(), origins)
			return api.Serve(ctx, addr, h)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Address to listen on (overrides server.addr)")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", nil, "CORS origin to allow (repeatable, default any)")

	return cmd
}
