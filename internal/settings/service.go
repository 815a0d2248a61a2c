// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package settings

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/homenav/internal/cache"
	"github.com/tomtom215/homenav/internal/logging"
)

// Setting keys as stored in the settings table.
const (
	KeyICP                   = "icp"
	KeyCopyright             = "copyright"
	KeyArticlePageTitle      = "article_page_title"
	KeySiteTitle             = "site_title"
	KeyLinkSize              = "link_size"
	KeyProtectedArticlePaths = "protected_article_paths"
	KeyAnalyticsCode         = "analytics_code"
)

// Keys lists every known setting. Unknown keys in the table are ignored.
var Keys = []string{
	KeyICP,
	KeyCopyright,
	KeyArticlePageTitle,
	KeySiteTitle,
	KeyLinkSize,
	KeyProtectedArticlePaths,
	KeyAnalyticsCode,
}

// SiteSettings is the typed view of the settings table.
type SiteSettings struct {
	ICP                   string   `json:"icp" validate:"max=255"`
	Copyright             string   `json:"copyright" validate:"max=255"`
	ArticlePageTitle      string   `json:"article_page_title" validate:"max=100"`
	SiteTitle             string   `json:"site_title" validate:"max=100"`
	LinkSize              string   `json:"link_size" validate:"omitempty,oneof=small medium large"`
	ProtectedArticlePaths []string `json:"protected_article_paths" validate:"dive,max=500"`
	AnalyticsCode         string   `json:"analytics_code" validate:"max=10000"`
}

// Defaults returns the settings used for keys that were never written.
func Defaults() SiteSettings {
	return SiteSettings{
		ArticlePageTitle:      "Articles",
		SiteTitle:             "Personal Homepage",
		LinkSize:              "medium",
		ProtectedArticlePaths: []string{},
	}
}

// Store persists raw setting values. database.DB implements it.
type Store interface {
	GetSettings(ctx context.Context) (map[string]string, error)
	UpsertSettings(ctx context.Context, values map[string]string) error
}

// Service reads and writes SiteSettings through a cache.
type Service struct {
	store Store
	cache cache.Cacher
}

// NewService creates a settings service. c may be nil to disable caching.
func NewService(store Store, c cache.Cacher) *Service {
	return &Service{store: store, cache: c}
}

// Get returns the current settings with defaults applied.
func (s *Service) Get(ctx context.Context) (*SiteSettings, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(cache.KeySettings); ok {
			cached := v.(SiteSettings)
			return cloneSettings(&cached), nil
		}
	}

	values, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	out := fromValues(values)

	if s.cache != nil {
		s.cache.Set(cache.KeySettings, *cloneSettings(&out))
	}
	return &out, nil
}

// Update writes every known key from in and returns the stored result.
func (s *Service) Update(ctx context.Context, in SiteSettings) (*SiteSettings, error) {
	values, err := toValues(&in)
	if err != nil {
		return nil, err
	}
	err = s.store.UpsertSettings(ctx, values)
	if s.cache != nil {
		s.cache.Delete(cache.KeySettings)
	}
	if err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	return s.Get(ctx)
}

// ProtectedPaths returns the article paths hidden from anonymous readers.
func (s *Service) ProtectedPaths(ctx context.Context) ([]string, error) {
	cur, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return cur.ProtectedArticlePaths, nil
}

func fromValues(values map[string]string) SiteSettings {
	out := Defaults()
	if v, ok := values[KeyICP]; ok {
		out.ICP = v
	}
	if v, ok := values[KeyCopyright]; ok {
		out.Copyright = v
	}
	if v, ok := values[KeyArticlePageTitle]; ok {
		out.ArticlePageTitle = v
	}
	if v, ok := values[KeySiteTitle]; ok {
		out.SiteTitle = v
	}
	if v, ok := values[KeyLinkSize]; ok {
		out.LinkSize = v
	}
	if v, ok := values[KeyAnalyticsCode]; ok {
		out.AnalyticsCode = v
	}
	if v, ok := values[KeyProtectedArticlePaths]; ok && v != "" {
		var paths []string
		if err := json.Unmarshal([]byte(v), &paths); err != nil {
			logging.Warn().Err(err).Msg("Invalid protected_article_paths setting, using empty list")
		} else if paths != nil {
			out.ProtectedArticlePaths = paths
		}
	}
	return out
}

func toValues(in *SiteSettings) (map[string]string, error) {
	paths := in.ProtectedArticlePaths
	if paths == nil {
		paths = []string{}
	}
	encoded, err := json.Marshal(paths)
	if err != nil {
		return nil, fmt.Errorf("encode protected_article_paths: %w", err)
	}
	return map[string]string{
		KeyICP:                   in.ICP,
		KeyCopyright:             in.Copyright,
		KeyArticlePageTitle:      in.ArticlePageTitle,
		KeySiteTitle:             in.SiteTitle,
		KeyLinkSize:              in.LinkSize,
		KeyProtectedArticlePaths: string(encoded),
		KeyAnalyticsCode:         in.AnalyticsCode,
	}, nil
}

func cloneSettings(in *SiteSettings) *SiteSettings {
	out := *in
	out.ProtectedArticlePaths = append([]string{}, in.ProtectedArticlePaths...)
	return &out
}
