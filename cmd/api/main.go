package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lifelevels/journal-backend/config"
	"github.com/lifelevels/journal-backend/internal/bootstrap"
	"github.com/lifelevels/journal-backend/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.App.LogLevel, Format: cfg.App.LogFormat})
	bootstrap.SetGinMode(cfg.App.Environment)

	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize dependencies")
	}
	defer app.Close()

	identity, err := bootstrap.IdentityMiddleware(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("auth_mode", cfg.Auth.Mode).Msg("failed to initialize auth")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           bootstrap.BuildRouter(bootstrap.RouterDepsFromApp(app, identity)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Info().
		Str("port", cfg.Server.Port).
		Str("env", cfg.App.Environment).
		Str("auth_mode", cfg.Auth.Mode).
		Str("llm_model", app.LLM.Model()).
		Msg("starting journal API")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logging.Info().Msg("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Error().Err(err).Msg("server error")
		app.Close()
		os.Exit(1)
	}

	logging.Info().Msg("server exited properly")
}
