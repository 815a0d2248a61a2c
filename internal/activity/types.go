// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package activity

import (
	"context"
	"time"
)

// Kind selects one of the two activity tables.
type Kind string

const (
	KindVisit  Kind = "visit"
	KindUpdate Kind = "update"
)

// Actions recorded for admin writes.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionImport = "import"
)

// Targets recorded for admin writes.
const (
	TargetCategory = "category"
	TargetLink     = "link"
	TargetLinks    = "links"
	TargetArticle  = "article"
	TargetSettings = "settings"
	TargetFolder   = "folder"
)

// Visit is one public read.
type Visit struct {
	ID        int64     `json:"id"`
	IP        string    `json:"ip"`
	Path      string    `json:"path"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"time"`
}

// Update is one admin write.
type Update struct {
	ID         int64     `json:"id"`
	Action     string    `json:"action"`
	TargetType string    `json:"target_type"`
	TargetName string    `json:"target_name"`
	Details    string    `json:"details"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"time"`
}

// VisitPage is the newest visits plus the table total.
type VisitPage struct {
	Visits []Visit `json:"visits"`
	Total  int64   `json:"total"`
}

// UpdatePage is the newest updates plus the table total.
type UpdatePage struct {
	Updates []Update `json:"updates"`
	Total   int64    `json:"total"`
}

// Store persists activity rows. Listing returns newest first.
type Store interface {
	SaveVisit(ctx context.Context, v *Visit) error
	SaveUpdate(ctx context.Context, u *Update) error
	Visits(ctx context.Context, limit int) ([]Visit, error)
	Updates(ctx context.Context, limit int) ([]Update, error)
	Count(ctx context.Context, kind Kind) (int64, error)

	// Trim deletes all but the keep newest rows of kind and returns how many
	// were removed.
	Trim(ctx context.Context, kind Kind, keep int) (int64, error)

	// Clear deletes every row of kind.
	Clear(ctx context.Context, kind Kind) (int64, error)
}
