package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifelevels/journal-backend/internal/bootstrap"
	"github.com/lifelevels/journal-backend/internal/logging"
	cronjob "github.com/lifelevels/journal-backend/internal/recommendations/cron"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Generate recommendations for every user at an unserved milestone",
	RunE:  runBackfill,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run backfill on the configured cron schedule until interrupted",
	RunE:  runSchedule,
}

func init() {
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().Duration("run-timeout", time.Hour, "upper bound for a single backfill run")
}

func runBackfill(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	_, err = app.Backfill.Run(ctx)
	return err
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	timeout, _ := cmd.Flags().GetDuration("run-timeout")
	s, err := cronjob.NewScheduler(cfg.Recommendations.BackfillSchedule, app.Backfill, timeout)
	if err != nil {
		return err
	}
	s.Start()

	<-ctx.Done()
	logging.Info().Msg("stopping scheduler, waiting for a running backfill")
	<-s.Stop().Done()
	return nil
}
