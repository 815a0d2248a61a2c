// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package api

import (
	"context"
	"time"

	"github.com/tomtom215/homenav/internal/activity"
	"github.com/tomtom215/homenav/internal/articles"
	"github.com/tomtom215/homenav/internal/favicon"
	"github.com/tomtom215/homenav/internal/navigation"
	"github.com/tomtom215/homenav/internal/settings"
)

// Version is reported by /health. Overridden at build time with -ldflags.
var Version = "dev"

// IconFetcher downloads a site icon. favicon.Fetcher implements it.
type IconFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*favicon.Result, error)
}

// Pinger reports database reachability. database.DB implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files by route group:
//   - handlers_navigation.go: links and categories
//   - handlers_transfer.go: import and export
//   - handlers_settings.go, handlers_logs.go, handlers_favicon.go
//   - handlers_articles.go: articles and folders
//   - handlers_health.go
type Handler struct {
	nav       *navigation.Service
	settings  *settings.Service
	activity  *activity.Service
	icons     IconFetcher
	articles  *articles.Store
	db        Pinger
	startTime time.Time
}

// HandlerDeps lists the services a Handler serves. Icons and Articles may
// be nil, in which case their routes answer 503.
type HandlerDeps struct {
	Navigation *navigation.Service
	Settings   *settings.Service
	Activity   *activity.Service
	Icons      IconFetcher
	Articles   *articles.Store
	DB         Pinger
}

// NewHandler creates a new API handler.
func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		nav:       deps.Navigation,
		settings:  deps.Settings,
		activity:  deps.Activity,
		icons:     deps.Icons,
		articles:  deps.Articles,
		db:        deps.DB,
		startTime: time.Now(),
	}
}
