// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/homenav/internal/logging"
	"github.com/tomtom215/homenav/internal/models"
)

// IconsURLPrefix is where saved icons are served from.
const IconsURLPrefix = "/static/icons/"

// FaviconResponse is the body of a favicon fetch. Icon is null when nothing
// usable was found.
type FaviconResponse struct {
	Icon      *string `json:"icon"`
	SourceURL string  `json:"source_url,omitempty"`
	Message   string  `json:"message"`
}

// FetchFavicon downloads the icon for a site into the icons directory.
// Upstream failures degrade to a 200 with a null icon.
// POST /api/v1/favicon/fetch
func (h *Handler) FetchFavicon(w http.ResponseWriter, r *http.Request) {
	if h.icons == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "favicon fetching is disabled", nil)
		return
	}

	var req FaviconRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}

	res, err := h.icons.Fetch(r.Context(), req.URL)
	switch {
	case errors.Is(err, models.ErrUpstreamUnavailable):
		logging.Ctx(r.Context()).Debug().Str("url", sanitizeLogValue(req.URL)).Err(err).Msg("Favicon not found")
		respondSuccess(w, &FaviconResponse{Message: "icon not found"})
		return
	case err != nil:
		writeServiceError(w, r, err)
		return
	}

	icon := IconsURLPrefix + res.Icon
	respondSuccess(w, &FaviconResponse{Icon: &icon, SourceURL: res.SourceURL, Message: res.Message})
}
