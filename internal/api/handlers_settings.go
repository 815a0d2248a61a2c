// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package api

import (
	"net/http"

	"github.com/tomtom215/homenav/internal/activity"
	"github.com/tomtom215/homenav/internal/settings"
)

// GetSettings returns the site settings. The route is public; the home page
// needs the title and footer before anyone logs in.
// GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondSuccess(w, s)
}

// UpdateSettings replaces every setting. Fields missing from the body take
// their default value.
// PUT /api/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	req := settings.Defaults()
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}
	if req.ProtectedArticlePaths == nil {
		req.ProtectedArticlePaths = []string{}
	}

	saved, err := h.settings.Update(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.recordUpdate(r, activity.ActionUpdate, activity.TargetSettings, "site settings", "")
	respondSuccess(w, map[string]interface{}{"message": "settings saved", "settings": saved})
}
