package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lifelevels/journal-backend/internal/objectstore"
	"github.com/lifelevels/journal-backend/internal/storage/postgres"
)

var readinessCmd = &cobra.Command{
	Use:   "readiness",
	Short: "Report whether the tables and storage bucket are usable",
	RunE:  runReadiness,
}

func init() {
	rootCmd.AddCommand(readinessCmd)
}

func runReadiness(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	var buckets postgres.BucketChecker
	if store, err := objectstore.New(ctx, &cfg.Storage); err == nil {
		buckets = store
	}

	res := postgres.CheckReadiness(ctx, db, buckets)
	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !res.Ready {
		if res.NeedsSetup {
			return fmt.Errorf("not ready: %s (run `worker migrate`)", res.Reason)
		}
		return fmt.Errorf("not ready: %s", res.Reason)
	}
	return nil
}
