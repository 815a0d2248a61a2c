// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package api

import (
	"fmt"
	"net/http"

	"github.com/tomtom215/homenav/internal/activity"
	"github.com/tomtom215/homenav/internal/auth"
	"github.com/tomtom215/homenav/internal/models"
)

// ListLinks returns the navigation. Private categories are included only
// for an authenticated caller.
// GET /api/v1/links
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	view, err := h.nav.List(r.Context(), auth.IsAuthenticated(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondSuccess(w, view)
}

// CreateCategory adds a category at the end of the order.
// POST /api/v1/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}

	c, err := h.nav.CreateCategory(r.Context(), req.Name, req.AuthRequired)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.recordUpdate(r, activity.ActionAdd, activity.TargetCategory, c.Name,
		"private: "+yesNo(c.AuthRequired))
	respondSuccess(w, map[string]interface{}{"message": "category created", "category": c})
}

// UpdateCategory renames a category and sets its auth flag.
// PUT /api/v1/categories/{name}
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	var req CategoryRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}

	c, err := h.nav.UpdateCategory(r.Context(), name, req.Name, req.AuthRequired)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	details := "private: " + yesNo(c.AuthRequired)
	if c.Name != name {
		details = fmt.Sprintf("renamed to: %s, %s", c.Name, details)
	}
	h.recordUpdate(r, activity.ActionUpdate, activity.TargetCategory, name, details)
	respondSuccess(w, map[string]interface{}{"message": "category updated", "category": c})
}

// DeleteCategory removes a category and its links.
// DELETE /api/v1/categories/{name}
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	ok, err := h.nav.DeleteCategory(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !ok {
		writeServiceError(w, r, fmt.Errorf("category %q: %w", name, models.ErrNotFound))
		return
	}

	h.recordUpdate(r, activity.ActionDelete, activity.TargetCategory, name, "")
	respondSuccess(w, map[string]string{"message": "category deleted"})
}

// ReorderCategory moves a category one step up or down.
// POST /api/v1/categories/{name}/reorder
func (h *Handler) ReorderCategory(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}
	moved, err := h.nav.ReorderCategory(r.Context(), pathParam(r, "name"), models.Direction(req.Direction))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondMoved(w, moved)
}

// BatchReorderCategories sets the category order from a full list of names.
// POST /api/v1/categories/reorder/batch
func (h *Handler) BatchReorderCategories(w http.ResponseWriter, r *http.Request) {
	var req BatchReorderRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}
	if _, err := h.nav.BatchReorderCategories(r.Context(), req.IDs); err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondSuccess(w, map[string]string{"message": "order saved"})
}

// AddLink appends a link to the category named by the category_name query
// parameter, creating the category when needed.
// POST /api/v1/links?category_name=
func (h *Handler) AddLink(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category_name")
	var in models.LinkInput
	if !decodeJSON(w, r, &in) {
		return
	}

	l, err := h.nav.AddLink(r.Context(), category, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.recordUpdate(r, activity.ActionAdd, activity.TargetLink, l.Title,
		fmt.Sprintf("category: %s, URL: %s", category, l.URL))
	respondSuccess(w, map[string]interface{}{"message": "link added", "link": l})
}

// UpdateLink replaces a link and optionally moves it to another category.
// PUT /api/v1/links/{id}
func (h *Handler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	var upd models.LinkUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}

	l, err := h.nav.UpdateLink(r.Context(), pathParam(r, "id"), upd)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.recordUpdate(r, activity.ActionUpdate, activity.TargetLink, l.Title, "URL: "+l.URL)
	respondSuccess(w, map[string]interface{}{"message": "link updated", "link": l})
}

// DeleteLink removes a link.
// DELETE /api/v1/links/{id}
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	l, err := h.nav.GetLink(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	ok, err := h.nav.DeleteLink(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !ok {
		writeServiceError(w, r, fmt.Errorf("link %q: %w", id, models.ErrNotFound))
		return
	}

	h.recordUpdate(r, activity.ActionDelete, activity.TargetLink, l.Title, "")
	respondSuccess(w, map[string]string{"message": "link deleted"})
}

// ReorderLink moves a link one step within its category.
// POST /api/v1/links/{id}/reorder
func (h *Handler) ReorderLink(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}
	moved, err := h.nav.ReorderLink(r.Context(), pathParam(r, "id"), models.Direction(req.Direction))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondMoved(w, moved)
}

// BatchReorderLinks sets link order from a list of IDs.
// POST /api/v1/links/reorder/batch
func (h *Handler) BatchReorderLinks(w http.ResponseWriter, r *http.Request) {
	var req BatchReorderRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}
	if _, err := h.nav.BatchReorderLinks(r.Context(), req.IDs); err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondSuccess(w, map[string]string{"message": "order saved"})
}

// respondMoved answers a single-step reorder. A boundary or unknown target
// is not an error.
func respondMoved(w http.ResponseWriter, moved bool) {
	msg := "moved"
	if !moved {
		msg = "cannot move"
	}
	respondSuccess(w, map[string]interface{}{"moved": moved, "message": msg})
}

func (h *Handler) recordUpdate(r *http.Request, action, targetType, targetName, details string) {
	if h.activity == nil {
		return
	}
	h.activity.RecordUpdate(r.Context(), action, targetType, targetName, details,
		auth.UsernameFromContext(r.Context()))
}
