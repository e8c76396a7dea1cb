package main

import (
	"github.com/spf13/cobra"

	"github.com/lifelevels/journal-backend/config"
	"github.com/lifelevels/journal-backend/internal/logging"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "worker",
	Short: "Operational tasks for the journal backend",
	Long: `worker runs one-off and scheduled tasks against the journal database.

Example usage:
  worker migrate          # create tables and the content bucket
  worker readiness        # check tables and bucket are reachable
  worker backfill         # serve recommendations to users at an unserved milestone
  worker schedule         # run backfill on RECS_BACKFILL_SCHEDULE
  worker llm-check        # send a tiny prompt to the configured model`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logging.Init(logging.Config{Level: cfg.App.LogLevel, Format: cfg.App.LogFormat})
		return nil
	},
}
