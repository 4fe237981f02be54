package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/pos/internal/config"
	db "github.com/JonMunkholm/pos/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runMigrate(ctx context.Context, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return withCode(exitUsage, err)
	}
	pool, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return withCode(exitDB, err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return withCode(exitDB, err)
	}
	fmt.Fprintln(out, "schema applied")
	return nil
}
