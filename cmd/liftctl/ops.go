package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	postgres "github.com/liftlog/liftlog-api/internal/adapters/postgres"
	"github.com/liftlog/liftlog-api/internal/platform/auth/jwtmint"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "migrate",
		Short:   "Create or update the Postgres schema",
		GroupID: "ops",
		Args:    cobra.NoArgs,
	}
	dsn := databaseURLFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if err := requireDatabaseURL(*dsn); err != nil {
			return err
		}
		pool, err := postgres.NewPool(cmd.Context(), *dsn, postgres.PoolOptions{MaxConns: 2})
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.Migrate(cmd.Context(), pool); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
		return nil
	}
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		subject  string
		issuer   string
		audience string
		secret   string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:     "token",
		Short:   "Mint an HS256 access token for local testing",
		GroupID: "ops",
		Example: `  JWT_SECRET=... JWT_ISSUER=http://localhost/auth/v1 liftctl token --sub user-1`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			tok, err := jwtmint.HS256([]byte(secret), jwtmint.Claims{
				Issuer:   issuer,
				Audience: audience,
				Subject:  subject,
				IssuedAt: time.Now().UTC(),
				TTL:      ttl,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "sub", "", "subject claim")
	cmd.Flags().StringVar(&issuer, "issuer", os.Getenv("JWT_ISSUER"), "issuer claim (default $JWT_ISSUER)")
	cmd.Flags().StringVar(&audience, "audience", envOr("JWT_AUDIENCE", "authenticated"), "audience claim")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "signing secret (default $JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
