// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/homenav/internal/api"
	"github.com/tomtom215/homenav/internal/config"
	"github.com/tomtom215/homenav/internal/database"
	"github.com/tomtom215/homenav/internal/logging"
	"github.com/tomtom215/homenav/internal/supervisor"
	"github.com/tomtom215/homenav/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	api.Version = version

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("revocation_store", cfg.Security.RevocationStore).
		Msg("Starting HomeNav")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	app, err := initApp(cfg, db)
	if err != nil {
		// Fatal skips deferred calls.
		_ = db.Close()
		logging.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer app.Close()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           app.router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	addMaintenanceJobs(tree, cfg, app)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("HomeNav stopped")
}

func addMaintenanceJobs(tree *supervisor.SupervisorTree, cfg *config.Config, app *application) {
	limiter := app.auth.Limiter()
	tree.AddMaintenanceService(services.NewPeriodicService(
		"login-limiter-sweep",
		cfg.Security.LimiterCleanupInterval,
		func(context.Context) (int, error) { return limiter.Cleanup(), nil },
	))

	if cfg.Security.RevocationPruneInterval > 0 {
		tree.AddMaintenanceService(services.NewPeriodicService(
			"revocation-prune",
			cfg.Security.RevocationPruneInterval,
			app.auth.CleanupTokens,
		))
	}
}
