// Command liftctl is the operator CLI: vocabulary tooling, migrations and dev tokens.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "liftctl",
		Short:        "LiftLog operator CLI",
		SilenceUsage: true,
	}
	root.AddGroup(
		&cobra.Group{ID: "vocab", Title: "Exercise vocabulary:"},
		&cobra.Group{ID: "ops", Title: "Operations:"},
	)
	root.AddCommand(
		newNormalizeCmd(),
		newClassifyCmd(),
		newSeedCmd(),
		newMigrateCmd(),
		newTokenCmd(),
	)
	return root
}

func databaseURLFlag(cmd *cobra.Command) *string {
	return cmd.Flags().String("database-url", os.Getenv("DATABASE_URL"), "Postgres DSN (default $DATABASE_URL)")
}

func requireDatabaseURL(dsn string) error {
	if dsn == "" {
		return fmt.Errorf("--database-url or DATABASE_URL is required")
	}
	return nil
}
