// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package api

import "github.com/goccy/go-json"

// CategoryRequest is the body of POST /categories and PUT /categories/{name}.
// On update an empty Name keeps the current name.
type CategoryRequest struct {
	Name         string `json:"name" validate:"max=100"`
	AuthRequired bool   `json:"auth_required"`
}

// ReorderRequest is the body of the single-step reorder routes.
type ReorderRequest struct {
	Direction string `json:"direction" validate:"required,direction"`
}

// BatchReorderRequest is the body of the batch reorder routes. IDs are
// category names or link IDs in their new order.
type BatchReorderRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// ImportRequest is the body of POST /links/import. Data is the raw
// document; Format is "native" (default) or "sunpanel".
type ImportRequest struct {
	Data   json.RawMessage `json:"data"`
	Format string          `json:"format" validate:"omitempty,oneof=native sunpanel"`
}

// FaviconRequest is the body of POST /favicon/fetch.
type FaviconRequest struct {
	URL string `json:"url" validate:"required,max=2048"`
}

// ArticleUpdateRequest is the body of PUT /api/articles/*.
type ArticleUpdateRequest struct {
	Content string `json:"content"`
}

// FolderRequest is the body of POST /folders.
type FolderRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// FolderRenameRequest is the body of PUT /folders/{name}.
type FolderRenameRequest struct {
	NewName string `json:"new_name" validate:"required,max=100"`
}
