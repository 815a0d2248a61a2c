// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/homenav/internal/activity"
	"github.com/tomtom215/homenav/internal/api"
	"github.com/tomtom215/homenav/internal/articles"
	"github.com/tomtom215/homenav/internal/auth"
	"github.com/tomtom215/homenav/internal/cache"
	"github.com/tomtom215/homenav/internal/config"
	"github.com/tomtom215/homenav/internal/database"
	"github.com/tomtom215/homenav/internal/favicon"
	"github.com/tomtom215/homenav/internal/logging"
	"github.com/tomtom215/homenav/internal/navigation"
	"github.com/tomtom215/homenav/internal/settings"
)

// application holds what main needs after wiring: the router to serve, the
// auth service for maintenance jobs, and the resources to release.
type application struct {
	router *api.Router
	auth   *auth.Service
	cache  *cache.Cache
	ledger auth.RevocationLedger
}

// Close stops the cache janitor and closes the revocation ledger.
func (a *application) Close() {
	a.cache.Stop()
	if err := a.ledger.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing revocation ledger")
	}
}

func initApp(cfg *config.Config, db *database.DB) (*application, error) {
	authService, ledger, err := initAuth(&cfg.Security)
	if err != nil {
		return nil, err
	}

	views := cache.New(cfg.Cache.TTL,
		cache.WithName("views"),
		cache.WithCleanupInterval(cfg.Cache.CleanupInterval),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	activityStore := activity.NewDuckDBStore(db.Conn())
	if err := activityStore.CreateTable(ctx); err != nil {
		views.Stop()
		_ = ledger.Close()
		return nil, fmt.Errorf("create activity tables: %w", err)
	}

	articleStore, err := articles.NewStore(cfg.Articles.Dir)
	if err != nil {
		views.Stop()
		_ = ledger.Close()
		return nil, err
	}

	handler := api.NewHandler(api.HandlerDeps{
		Navigation: navigation.NewService(db, views, views),
		Settings:   settings.NewService(db, views),
		Activity:   activity.NewService(activityStore, cfg.Logs),
		Icons:      favicon.NewFetcher(cfg.Favicon),
		Articles:   articleStore,
		DB:         db,
	})

	router := api.NewRouter(handler, authService, api.NewChiMiddlewareFromConfig(&cfg.Security), cfg.Favicon.IconsDir)

	logging.Info().
		Str("articles_dir", articleStore.Root()).
		Str("icons_dir", cfg.Favicon.IconsDir).
		Dur("cache_ttl", cfg.Cache.TTL).
		Strs("trusted_proxies", cfg.Security.TrustedProxies).
		Msg("Services initialized")

	return &application{
		router: router,
		auth:   authService,
		cache:  views,
		ledger: ledger,
	}, nil
}

// initAuth refuses to continue on missing or weak credentials; every
// problem is reported at once.
func initAuth(cfg *config.SecurityConfig) (*auth.Service, auth.RevocationLedger, error) {
	creds := auth.NewCredentialStore(cfg)
	if errs := creds.Validate(); len(errs) > 0 {
		for _, e := range errs {
			logging.Error().Err(e).Msg("Invalid security configuration")
		}
		return nil, nil, fmt.Errorf("security configuration: %w", errors.Join(errs...))
	}

	ledger, err := auth.NewRevocationLedger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open revocation ledger: %w", err)
	}

	tokens := auth.NewTokenManager(creds.Secret(), cfg.TokenTTL, ledger)
	svc := auth.NewService(
		creds,
		auth.NewLoginLimiter(cfg.LoginMaxAttempts, cfg.LoginWindow),
		tokens,
		ledger,
	)
	svc.SetAuditLogger(logging.NewSecurityLogger())

	logging.Info().
		Str("admin", creds.Username()).
		Dur("token_ttl", tokens.TTL()).
		Int("login_max_attempts", cfg.LoginMaxAttempts).
		Msg("Authentication configured")

	return svc, ledger, nil
}
