package main

import (
	"github.com/spf13/cobra"

	"github.com/lifelevels/journal-backend/internal/logging"
	"github.com/lifelevels/journal-backend/internal/objectstore"
	"github.com/lifelevels/journal-backend/internal/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables, indexes and the content bucket",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Bool("skip-bucket", false, "do not create the storage bucket")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	logging.Info().Msg("database schema is up to date")

	if skip, _ := cmd.Flags().GetBool("skip-bucket"); skip {
		return nil
	}

	store, err := objectstore.New(ctx, &cfg.Storage)
	if err != nil {
		return err
	}
	created, err := store.EnsureBucket(ctx)
	if err != nil {
		return err
	}
	logging.Info().Str("bucket", store.Bucket()).Bool("created", created).Msg("storage bucket ready")
	return nil
}
