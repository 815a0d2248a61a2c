// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/homenav/internal/activity"
	"github.com/tomtom215/homenav/internal/articles"
	"github.com/tomtom215/homenav/internal/auth"
	"github.com/tomtom215/homenav/internal/models"
)

func (h *Handler) articlesEnabled(w http.ResponseWriter) bool {
	if h.articles == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "articles are disabled", nil)
		return false
	}
	return true
}

// articlePath returns the decoded wildcard path of an article route.
func articlePath(r *http.Request) string {
	p := chi.URLParam(r, "*")
	if unescaped, err := url.PathUnescape(p); err == nil {
		p = unescaped
	}
	return strings.TrimPrefix(p, "/")
}

func articleName(p string) string {
	return strings.TrimSuffix(path.Base(p), ".md")
}

// ListArticles lists articles newest first. Protected articles are listed
// only for an authenticated caller.
// GET /api/articles
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	if !h.articlesEnabled(w) {
		return
	}
	protected, err := h.settings.ProtectedPaths(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	list, err := h.articles.List(r.Context(), auth.IsAuthenticated(r.Context()), protected)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondSuccess(w, map[string]interface{}{"articles": list})
}

// GetArticle returns one article's raw Markdown. An escaping path is 403, a
// protected article without a token is 401, and only then is a missing
// article 404, so anonymous callers cannot probe protected folders.
// GET /api/articles/*
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	if !h.articlesEnabled(w) {
		return
	}
	p := articlePath(r)

	content, err := h.articles.Get(p)
	if errors.Is(err, models.ErrForbidden) {
		writeServiceError(w, r, err)
		return
	}

	if !auth.IsAuthenticated(r.Context()) {
		protected, perr := h.settings.ProtectedPaths(r.Context())
		if perr != nil {
			writeServiceError(w, r, perr)
			return
		}
		if articles.IsProtected(p, protected) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "login required to read this article", nil)
			return
		}
	}

	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondSuccess(w, content)
}

// SyncArticle creates or replaces an article.
// POST /api/articles/sync
func (h *Handler) SyncArticle(w http.ResponseWriter, r *http.Request) {
	if !h.articlesEnabled(w) {
		return
	}
	var req articles.SyncRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}

	res, err := h.articles.Sync(&req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondSuccess(w, map[string]interface{}{
		"message": "article synced",
		"path":    res.Path,
		"title":   res.Title,
	})
}

// UpdateArticle replaces an existing article's content.
// PUT /api/articles/*
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	if !h.articlesEnabled(w) {
		return
	}
	p := articlePath(r)
	var req ArticleUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.articles.Update(p, req.Content); err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.recordUpdate(r, activity.ActionUpdate, activity.TargetArticle, articleName(p), "path: "+p)
	respondSuccess(w, map[string]string{"message": "article updated", "path": p})
}

// DeleteArticle removes an article.
// DELETE /api/articles/*
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if !h.articlesEnabled(w) {
		return
	}
	p := articlePath(r)

	title, err := h.articles.Delete(p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.recordUpdate(r, activity.ActionDelete, activity.TargetArticle, title, "path: "+p)
	respondSuccess(w, map[string]string{"message": "article deleted"})
}

// ListFolders lists top-level article folders.
// GET /api/v1/folders
func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	if !h.articlesEnabled(w) {
		return
	}
	folders, err := h.articles.Folders()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondSuccess(w, map[string]interface{}{"folders": folders})
}

// CreateFolder makes a top-level folder.
// POST /api/v1/folders
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	if !h.articlesEnabled(w) {
		return
	}
	var req FolderRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}

	name, err := h.articles.CreateFolder(req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.recordUpdate(r, activity.ActionAdd, activity.TargetFolder, name, "")
	respondSuccess(w, map[string]string{"message": "folder created", "name": name})
}

// RenameFolder renames a top-level folder.
// PUT /api/v1/folders/{name}
func (h *Handler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	if !h.articlesEnabled(w) {
		return
	}
	oldName := pathParam(r, "name")
	var req FolderRenameRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}

	newName, err := h.articles.RenameFolder(oldName, req.NewName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.recordUpdate(r, activity.ActionUpdate, activity.TargetFolder, oldName, "renamed to: "+newName)
	respondSuccess(w, map[string]string{
		"message":  "folder renamed",
		"old_name": oldName,
		"new_name": newName,
	})
}

// DeleteFolder removes a folder and every article in it.
// DELETE /api/v1/folders/{name}
func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	if !h.articlesEnabled(w) {
		return
	}
	name := pathParam(r, "name")

	n, err := h.articles.DeleteFolder(name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.recordUpdate(r, activity.ActionDelete, activity.TargetFolder, name, fmt.Sprintf("contained %d articles", n))
	respondSuccess(w, map[string]interface{}{"message": "folder deleted", "article_count": n})
}
