package main

import (
	"os"

	"github.com/lifelevels/journal-backend/internal/logging"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Error().Err(err).Msg("worker failed")
		os.Exit(1)
	}
}
