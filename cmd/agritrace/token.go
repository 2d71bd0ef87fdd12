package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/LACRA/agritrace360/internal/auth"
	"github.com/LACRA/agritrace360/internal/config"
	"github.com/LACRA/agritrace360/internal/database"
)

var (
	tokenAccount string
	tokenProfile string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for a portal account",
	Long: `Sign a bearer token for the given account with AUTH_JWT_SECRET.

With --profile the account profile is stored in the registry first, creating
the account if it does not exist.`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if tokenProfile != "" {
		db, err := database.New(&cfg.Database, cfg.Server.LogLevel)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()

		if err := database.Migrate(db, &auth.PortalAccount{}); err != nil {
			return err
		}
		if err := auth.NewAuthService(db).UpsertAccount(cmd.Context(), tokenAccount, json.RawMessage(tokenProfile)); err != nil {
			return err
		}
	}

	token, expiresAt, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()).Issue(tokenAccount)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
	return nil
}
