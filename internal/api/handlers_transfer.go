// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package api

import (
	"fmt"
	"net/http"

	"github.com/tomtom215/homenav/internal/activity"
	"github.com/tomtom215/homenav/internal/navigation"
)

// ExportLinks returns every category, private ones included.
// GET /api/v1/links/export
func (h *Handler) ExportLinks(w http.ResponseWriter, r *http.Request) {
	doc, err := h.nav.Export(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondSuccess(w, doc)
}

// ImportResponse reports a completed import.
type ImportResponse struct {
	Message string `json:"message"`
	*navigation.ImportReport
}

// ImportLinks imports a native or SunPanel document. Bad items are skipped
// and reported; only a malformed document fails the request.
// POST /api/v1/links/import
func (h *Handler) ImportLinks(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !decodeJSONLimit(w, r, &req, maxImportBodyBytes) || !validateRequest(w, &req) {
		return
	}
	if len(req.Data) == 0 || string(req.Data) == "null" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "data is required", nil)
		return
	}

	report, err := h.nav.Import(r.Context(), req.Format, req.Data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	format := req.Format
	if format == "" {
		format = navigation.FormatNative
	}
	h.recordUpdate(r, activity.ActionImport, activity.TargetLinks, format,
		fmt.Sprintf("categories: %d, links: %d, skipped: %d", report.Categories, report.Links, report.Skipped))

	respondSuccess(w, &ImportResponse{
		Message:      fmt.Sprintf("imported %d links in %d categories", report.Links, report.Categories),
		ImportReport: report,
	})
}
