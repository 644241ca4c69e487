package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trailscore/internal/auth"
	"trailscore/internal/store"
)

func newLoginCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Connect a Strava account for activity sync",
		Long: `Connect a Strava account for activity sync.

Opens a local callback server and prints the Strava authorization URL.
Requires strava.client_id and strava.client_secret in the config; get them
from https://www.strava.com/settings/api.`,
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
			out := cmd.OutOrStdout()
			result, err := auth.Authenticate(ctx, auth.Config{
				ClientID:     ws.cfg.Strava.ClientID,
				ClientSecret: ws.cfg.Strava.ClientSecret,
				CallbackPort: port,
			}, out)
			if err != nil {
				return fmt.Errorf("authentication: %w", err)
			}

			stored := &store.Auth{
				AthleteID:    result.AthleteID,
				AccessToken:  result.Token.AccessToken,
				RefreshToken: result.Token.RefreshToken,
				ExpiresAt:    result.Token.Expiry,
			}
			if err := ws.db.SaveAuth(ctx, stored); err != nil {
				return fmt.Errorf("saving auth: %w", err)
			}

			fmt.Fprintf(out, "\nSuccessfully authenticated as athlete %d!\n", result.AthleteID)
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", auth.DefaultCallbackPort, "Local port for the OAuth callback")

	return cmd
}
