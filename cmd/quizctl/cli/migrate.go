package cli

import (
	"context"
	"log/slog"

	"github.com/brinda-08/Quiz/internal/config"
	"github.com/brinda-08/Quiz/internal/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long:  "Apply or inspect the embedded schema migrations. Connection settings come from DB_* environment variables or .env.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), cmd, func(ctx context.Context, db *database.DB) error {
				return db.Migrate(ctx)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show which migrations have been applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), cmd, func(ctx context.Context, db *database.DB) error {
				return db.MigrationStatus(ctx)
			})
		},
	})

	return cmd
}

func withDatabase(ctx context.Context, cmd *cobra.Command, fn func(context.Context, *database.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
	db, err := database.NewConnection(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, db)
}
