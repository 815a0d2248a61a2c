// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package api

import (
	"net/http"

	"github.com/tomtom215/homenav/internal/activity"
)

// VisitLogs returns the newest visits.
// GET /api/v1/logs/visits?limit=
func (h *Handler) VisitLogs(w http.ResponseWriter, r *http.Request) {
	page, err := h.activity.Visits(r.Context(), getIntParam(r, "limit", activity.DefaultListLimit))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondSuccess(w, page)
}

// ClearVisitLogs deletes every visit.
// DELETE /api/v1/logs/visits
func (h *Handler) ClearVisitLogs(w http.ResponseWriter, r *http.Request) {
	n, err := h.activity.ClearVisits(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondSuccess(w, map[string]interface{}{"message": "visit log cleared", "deleted_count": n})
}

// UpdateLogs returns the newest admin updates.
// GET /api/v1/logs/updates?limit=
func (h *Handler) UpdateLogs(w http.ResponseWriter, r *http.Request) {
	page, err := h.activity.Updates(r.Context(), getIntParam(r, "limit", activity.DefaultListLimit))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondSuccess(w, page)
}

// ClearUpdateLogs deletes every admin update.
// DELETE /api/v1/logs/updates
func (h *Handler) ClearUpdateLogs(w http.ResponseWriter, r *http.Request) {
	n, err := h.activity.ClearUpdates(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondSuccess(w, map[string]interface{}{"message": "update log cleared", "deleted_count": n})
}
