// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package models

import "time"

// Field limits shared by the store, the validator and import.
const (
	MaxCategoryNameLength = 100
	MaxLinkTitleLength    = 200
	MaxLinkURLLength      = 2048
	MaxLinkIconLength     = 255
)

// Category is an ordered group of links. Name is unique.
type Category struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	AuthRequired bool      `json:"auth_required"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Link belongs to exactly one category. ID is a UUID unless supplied by import.
type Link struct {
	ID         string    `json:"id"`
	CategoryID int64     `json:"category_id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Icon       *string   `json:"icon"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LinkInput is a new link. ID is optional; import supplies it to keep IDs
// stable across installations.
type LinkInput struct {
	ID    string  `json:"id,omitempty" validate:"omitempty,max=64"`
	Title string  `json:"title" validate:"required,max=200"`
	URL   string  `json:"url" validate:"required,linkurl"`
	Icon  *string `json:"icon" validate:"omitempty,max=255"`
}

// LinkUpdate replaces a link's fields. A non-empty Category that differs
// from the current owner moves the link to the end of that category.
type LinkUpdate struct {
	Title    string  `json:"title" validate:"required,max=200"`
	URL      string  `json:"url" validate:"required,linkurl"`
	Icon     *string `json:"icon" validate:"omitempty,max=255"`
	Category string  `json:"category,omitempty" validate:"omitempty,max=100"`
}

// NavigationView is the nested category→link structure served by GET /links
// and cached under links:all / links:public.
type NavigationView struct {
	Categories []CategoryView `json:"categories"`
}

// CategoryView is one category of a NavigationView.
type CategoryView struct {
	Name         string     `json:"name"`
	AuthRequired bool       `json:"auth_required"`
	Links        []LinkView `json:"links"`
}

// LinkView is one link of a CategoryView.
type LinkView struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Icon  *string `json:"icon"`
}

// LinkCount returns the total number of links across all categories.
func (v *NavigationView) LinkCount() int {
	n := 0
	for i := range v.Categories {
		n += len(v.Categories[i].Links)
	}
	return n
}

// Direction is a single-step reorder direction.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Valid reports whether d is up or down.
func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}
