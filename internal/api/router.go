// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/homenav/internal/auth"
	"github.com/tomtom215/homenav/internal/middleware"
)

// Router wires handlers, auth and middleware into a chi router.
type Router struct {
	handler       *Handler
	auth          *auth.Service
	authHandlers  *auth.Handlers
	chiMiddleware *ChiMiddleware
	iconsDir      string
}

// NewRouter creates a router. iconsDir, when set, is served under
// IconsURLPrefix.
func NewRouter(handler *Handler, authService *auth.Service, mw *ChiMiddleware, iconsDir string) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		auth:          authService,
		authHandlers:  auth.NewHandlers(authService),
		chiMiddleware: mw,
		iconsDir:      iconsDir,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	// Global middleware, applied to every route in order
	r.Use(middleware.RequestID)
	r.Use(router.chiMiddleware.RealIP())
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	// Operations
	r.With(router.chiMiddleware.RateLimitHealth()).Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	if router.iconsDir != "" {
		icons := http.StripPrefix(IconsURLPrefix, http.FileServer(http.Dir(router.iconsDir)))
		r.Handle(IconsURLPrefix+"*", icons)
	}

	// Authentication
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAuth())
		r.Use(APISecurityHeaders())

		r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", router.authHandlers.Login)
		r.Post("/logout", router.authHandlers.Logout)

		r.Group(func(r chi.Router) {
			r.Use(router.auth.RequireAuth)
			r.Get("/me", router.authHandlers.Me)
			r.Post("/cleanup-tokens", router.authHandlers.CleanupTokens)
		})
	})

	// Navigation and admin
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		r.With(router.auth.OptionalAuth, middleware.RecordVisits(h.activity)).Get("/links", h.ListLinks)

		r.Group(func(r chi.Router) {
			r.Use(router.auth.RequireAuth)
			r.Use(router.chiMiddleware.RateLimitWrite())

			r.Post("/categories", h.CreateCategory)
			r.Post("/categories/reorder/batch", h.BatchReorderCategories)
			r.Put("/categories/{name}", h.UpdateCategory)
			r.Delete("/categories/{name}", h.DeleteCategory)
			r.Post("/categories/{name}/reorder", h.ReorderCategory)

			r.Post("/links", h.AddLink)
			r.Get("/links/export", h.ExportLinks)
			r.With(router.chiMiddleware.RateLimitImport()).Post("/links/import", h.ImportLinks)
			r.Post("/links/reorder/batch", h.BatchReorderLinks)
			r.Put("/links/{id}", h.UpdateLink)
			r.Delete("/links/{id}", h.DeleteLink)
			r.Post("/links/{id}/reorder", h.ReorderLink)

			r.Get("/logs/visits", h.VisitLogs)
			r.Delete("/logs/visits", h.ClearVisitLogs)
			r.Get("/logs/updates", h.UpdateLogs)
			r.Delete("/logs/updates", h.ClearUpdateLogs)

			r.With(router.chiMiddleware.RateLimitFavicon()).Post("/favicon/fetch", h.FetchFavicon)

			r.Get("/folders", h.ListFolders)
			r.Post("/folders", h.CreateFolder)
			r.Put("/folders/{name}", h.RenameFolder)
			r.Delete("/folders/{name}", h.DeleteFolder)
		})
	})

	// Site settings
	r.Route("/api/settings", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		r.Get("/", h.GetSettings)
		r.With(router.auth.RequireAuth).Put("/", h.UpdateSettings)
	})

	// Articles
	r.Route("/api/articles", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(router.auth.OptionalAuth)

		r.Get("/", h.ListArticles)
		r.With(middleware.RecordVisits(h.activity)).Get("/*", h.GetArticle)

		r.Group(func(r chi.Router) {
			r.Use(router.auth.RequireAuth)
			r.Use(router.chiMiddleware.RateLimitWrite())

			r.Post("/sync", h.SyncArticle)
			r.Put("/*", h.UpdateArticle)
			r.Delete("/*", h.DeleteArticle)
		})
	})

	return r
}
