// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package navigation

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/homenav/internal/cache"
	"github.com/tomtom215/homenav/internal/logging"
	"github.com/tomtom215/homenav/internal/metrics"
	"github.com/tomtom215/homenav/internal/models"
	"github.com/tomtom215/homenav/internal/validation"
)

// Store is the persistence the engine needs. database.DB implements it.
type Store interface {
	CreateCategory(ctx context.Context, name string, authRequired bool) (*models.Category, error)
	GetCategory(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, oldName, newName string, authRequired bool) (*models.Category, error)
	DeleteCategory(ctx context.Context, name string) (bool, error)
	ReorderCategory(ctx context.Context, name string, dir models.Direction) (bool, error)
	ReorderCategories(ctx context.Context, names []string) (bool, error)

	GetLink(ctx context.Context, id string) (*models.Link, error)
	ListLinks(ctx context.Context) ([]models.Link, error)
	AddLink(ctx context.Context, categoryName string, in *models.LinkInput) (*models.Link, error)
	UpdateLink(ctx context.Context, id string, upd *models.LinkUpdate) (*models.Link, error)
	DeleteLink(ctx context.Context, id string) (bool, error)
	ReorderLink(ctx context.Context, id string, dir models.Direction) (bool, error)
	ReorderLinks(ctx context.Context, ids []string) (bool, error)
}

// Service is the ordered collection engine.
type Service struct {
	store       Store
	cache       cache.Cacher
	invalidator cache.Invalidator
}

// NewService wires the engine. c may be nil to disable caching; inv may be
// nil when nothing is cached.
func NewService(store Store, c cache.Cacher, inv cache.Invalidator) *Service {
	if inv == nil {
		inv = cache.NopInvalidator
	}
	return &Service{store: store, cache: c, invalidator: inv}
}

func (s *Service) invalidate(op string) {
	n := s.invalidator.InvalidatePrefix(cache.PrefixLinks)
	logging.Debug().Str("operation", op).Int("evicted", n).Msg("Invalidated navigation cache")
}

func (s *Service) mutated(op string, err error) {
	if err == nil {
		metrics.RecordMutation(op)
	}
}

func validateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: category name is required", models.ErrValidation)
	}
	if len(name) > models.MaxCategoryNameLength {
		return fmt.Errorf("%w: category name exceeds %d characters", models.ErrValidation, models.MaxCategoryNameLength)
	}
	return nil
}

func validateDirection(dir models.Direction) error {
	if !dir.Valid() {
		return fmt.Errorf("%w: direction must be %q or %q, got %q",
			models.ErrValidation, models.DirectionUp, models.DirectionDown, dir)
	}
	return nil
}

// validateInput runs the struct validator and wraps failures in
// models.ErrValidation while keeping the field details reachable via
// errors.As.
func validateInput(v interface{}) error {
	if verr := validation.ValidateStruct(v); verr != nil {
		return fmt.Errorf("%w: %w", models.ErrValidation, verr)
	}
	return nil
}

// CreateCategory appends a new category at the end of the order.
func (s *Service) CreateCategory(ctx context.Context, name string, authRequired bool) (*models.Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	defer s.invalidate("create_category")

	c, err := s.store.CreateCategory(ctx, name, authRequired)
	s.mutated("create_category", err)
	return c, err
}

// GetCategory returns a category by name.
func (s *Service) GetCategory(ctx context.Context, name string) (*models.Category, error) {
	return s.store.GetCategory(ctx, name)
}

// UpdateCategory renames a category and sets its auth flag. Renaming onto
// an existing name fails with models.ErrDuplicateName.
func (s *Service) UpdateCategory(ctx context.Context, oldName, newName string, authRequired bool) (*models.Category, error) {
	if newName == "" {
		newName = oldName
	}
	if err := validateCategoryName(newName); err != nil {
		return nil, err
	}
	defer s.invalidate("update_category")

	c, err := s.store.UpdateCategory(ctx, oldName, newName, authRequired)
	s.mutated("update_category", err)
	return c, err
}

// DeleteCategory removes a category and all of its links. It reports false
// when no category has that name.
func (s *Service) DeleteCategory(ctx context.Context, name string) (bool, error) {
	defer s.invalidate("delete_category")

	ok, err := s.store.DeleteCategory(ctx, name)
	s.mutated("delete_category", err)
	return ok, err
}

// ReorderCategory swaps a category with its neighbour in dir.
func (s *Service) ReorderCategory(ctx context.Context, name string, dir models.Direction) (bool, error) {
	if err := validateDirection(dir); err != nil {
		return false, err
	}
	defer s.invalidate("reorder_category")

	moved, err := s.store.ReorderCategory(ctx, name, dir)
	s.mutated("reorder_category", err)
	return moved, err
}

// BatchReorderCategories assigns sort_order = index to each named category.
func (s *Service) BatchReorderCategories(ctx context.Context, names []string) (bool, error) {
	defer s.invalidate("batch_reorder_categories")

	ok, err := s.store.ReorderCategories(ctx, names)
	s.mutated("batch_reorder_categories", err)
	return ok, err
}

// GetLink returns a link by id.
func (s *Service) GetLink(ctx context.Context, id string) (*models.Link, error) {
	return s.store.GetLink(ctx, id)
}

// AddLink appends a link to categoryName, creating a public category of
// that name when none exists.
func (s *Service) AddLink(ctx context.Context, categoryName string, in models.LinkInput) (*models.Link, error) {
	if err := validateCategoryName(categoryName); err != nil {
		return nil, err
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	defer s.invalidate("add_link")

	l, err := s.store.AddLink(ctx, categoryName, &in)
	s.mutated("add_link", err)
	return l, err
}

// UpdateLink replaces a link's fields and optionally moves it to the end of
// another existing category.
func (s *Service) UpdateLink(ctx context.Context, id string, upd models.LinkUpdate) (*models.Link, error) {
	if err := validateInput(&upd); err != nil {
		return nil, err
	}
	defer s.invalidate("update_link")

	l, err := s.store.UpdateLink(ctx, id, &upd)
	s.mutated("update_link", err)
	return l, err
}

// DeleteLink removes a link. It reports false when the id is unknown.
func (s *Service) DeleteLink(ctx context.Context, id string) (bool, error) {
	defer s.invalidate("delete_link")

	ok, err := s.store.DeleteLink(ctx, id)
	s.mutated("delete_link", err)
	return ok, err
}

// ReorderLink swaps a link with its neighbour inside its category.
func (s *Service) ReorderLink(ctx context.Context, id string, dir models.Direction) (bool, error) {
	if err := validateDirection(dir); err != nil {
		return false, err
	}
	defer s.invalidate("reorder_link")

	moved, err := s.store.ReorderLink(ctx, id, dir)
	s.mutated("reorder_link", err)
	return moved, err
}

// BatchReorderLinks assigns sort_order = index to each listed link.
func (s *Service) BatchReorderLinks(ctx context.Context, ids []string) (bool, error) {
	defer s.invalidate("batch_reorder_links")

	ok, err := s.store.ReorderLinks(ctx, ids)
	s.mutated("batch_reorder_links", err)
	return ok, err
}

// List returns the nested navigation view. Categories with auth_required
// are omitted unless includePrivate is set. The returned view may be shared
// with other callers through the cache and must not be modified.
func (s *Service) List(ctx context.Context, includePrivate bool) (*models.NavigationView, error) {
	key := cache.KeyLinksPublic
	if includePrivate {
		key = cache.KeyLinksAll
	}
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v.(*models.NavigationView), nil
		}
	}

	view, err := s.buildView(ctx, includePrivate)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(key, view)
	}
	return view, nil
}

func (s *Service) buildView(ctx context.Context, includePrivate bool) (*models.NavigationView, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	links, err := s.store.ListLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	byCategory := make(map[int64][]models.LinkView, len(categories))
	for i := range links {
		l := &links[i]
		byCategory[l.CategoryID] = append(byCategory[l.CategoryID], models.LinkView{
			ID:    l.ID,
			Title: l.Title,
			URL:   l.URL,
			Icon:  l.Icon,
		})
	}

	view := &models.NavigationView{Categories: make([]models.CategoryView, 0, len(categories))}
	for i := range categories {
		c := &categories[i]
		if c.AuthRequired && !includePrivate {
			continue
		}
		cv := models.CategoryView{
			Name:         c.Name,
			AuthRequired: c.AuthRequired,
			Links:        byCategory[c.ID],
		}
		if cv.Links == nil {
			cv.Links = []models.LinkView{}
		}
		view.Categories = append(view.Categories, cv)
	}
	return view, nil
}
