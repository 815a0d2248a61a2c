// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package navigation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/homenav/internal/database"
	"github.com/tomtom215/homenav/internal/logging"
	"github.com/tomtom215/homenav/internal/models"
)

// Import formats.
const (
	FormatNative   = "native"
	FormatSunPanel = "sunpanel"
)

const (
	exportVersion    = 1
	exportAppName    = "HomePage-Export"
	exportTimeLayout = "2006-01-02 15:04:05"

	uncategorized = "Uncategorized"

	// sunPanelPrivateGroup is imported as an auth_required category.
	sunPanelPrivateGroup = "Me"
)

// ExportDocument is the body of GET /links/export and the wrapped form
// accepted by a native import.
type ExportDocument struct {
	Version    int                    `json:"version"`
	AppName    string                 `json:"appName"`
	ExportTime string                 `json:"exportTime"`
	Data       *models.NavigationView `json:"data"`
}

// ImportReport summarises a best-effort import.
type ImportReport struct {
	Categories int      `json:"categories"`
	Links      int      `json:"links"`
	Skipped    int      `json:"skipped"`
	Warnings   []string `json:"warnings"`
}

func (r *ImportReport) skip(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.Skipped++
	r.Warnings = append(r.Warnings, msg)
	logging.Warn().Str("reason", msg).Msg("Skipped import item")
}

// Export returns every category, private ones included, in export form.
func (s *Service) Export(ctx context.Context) (*ExportDocument, error) {
	view, err := s.List(ctx, true)
	if err != nil {
		return nil, err
	}
	return &ExportDocument{
		Version:    exportVersion,
		AppName:    exportAppName,
		ExportTime: time.Now().Format(exportTimeLayout),
		Data:       view,
	}, nil
}

type nativeLink struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Icon  *string `json:"icon"`
}

type nativeCategory struct {
	Name         string       `json:"name"`
	AuthRequired bool         `json:"auth_required"`
	Links        []nativeLink `json:"links"`
}

type nativeDocument struct {
	Categories *[]nativeCategory `json:"categories"`
	Data       *nativeDocument   `json:"data"`
}

type sunPanelItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type sunPanelGroup struct {
	Title    *string        `json:"title"`
	Children []sunPanelItem `json:"children"`
}

type sunPanelDocument struct {
	Icons *[]sunPanelGroup `json:"icons"`
}

// Import loads raw in the given format. A document that cannot be decoded
// fails with models.ErrValidation; individual bad categories or links are
// skipped and reported.
func (s *Service) Import(ctx context.Context, format string, raw []byte) (*ImportReport, error) {
	if format == "" {
		format = FormatNative
	}

	var (
		categories []nativeCategory
		err        error
	)
	switch format {
	case FormatNative:
		categories, err = decodeNative(raw)
	case FormatSunPanel:
		categories, err = decodeSunPanel(raw)
	default:
		return nil, fmt.Errorf("%w: unknown import format %q", models.ErrValidation, format)
	}
	if err != nil {
		return nil, err
	}

	defer s.invalidate("import")

	report := &ImportReport{Warnings: []string{}}
	for i := range categories {
		if err := s.importCategory(ctx, &categories[i], report); err != nil {
			return report, err
		}
	}
	s.mutated("import", nil)

	logging.Info().
		Str("format", format).
		Int("categories", report.Categories).
		Int("links", report.Links).
		Int("skipped", report.Skipped).
		Msg("Import finished")
	return report, nil
}

func decodeNative(raw []byte) ([]nativeCategory, error) {
	var doc nativeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: import document is not valid JSON: %v", models.ErrValidation, err)
	}
	if doc.Data != nil {
		doc = *doc.Data
	}
	if doc.Categories == nil {
		return nil, fmt.Errorf("%w: import document has no categories field", models.ErrValidation)
	}
	return *doc.Categories, nil
}

func decodeSunPanel(raw []byte) ([]nativeCategory, error) {
	var doc sunPanelDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: SunPanel document is not valid JSON: %v", models.ErrValidation, err)
	}
	if doc.Icons == nil {
		return nil, fmt.Errorf("%w: SunPanel document has no icons field", models.ErrValidation)
	}

	out := make([]nativeCategory, 0, len(*doc.Icons))
	for _, g := range *doc.Icons {
		name := uncategorized
		if g.Title != nil && strings.TrimSpace(*g.Title) != "" {
			name = *g.Title
		}
		c := nativeCategory{Name: name, AuthRequired: name == sunPanelPrivateGroup}
		for _, item := range g.Children {
			c.Links = append(c.Links, nativeLink{Title: item.Title, URL: item.URL})
		}
		out = append(out, c)
	}
	return out, nil
}

// importCategory reuses or creates c, then adds its links. Only storage
// failures are returned; bad input is recorded on report.
func (s *Service) importCategory(ctx context.Context, c *nativeCategory, report *ImportReport) error {
	if err := validateCategoryName(c.Name); err != nil {
		report.skip("category %q: %v (%d links skipped)", c.Name, err, len(c.Links))
		report.Skipped += len(c.Links)
		return nil
	}

	_, err := s.store.GetCategory(ctx, c.Name)
	switch {
	case errors.Is(err, models.ErrNotFound):
		_, err = s.store.CreateCategory(ctx, c.Name, c.AuthRequired)
		if err != nil && !errors.Is(err, models.ErrDuplicateName) {
			return fmt.Errorf("create category %q: %w", c.Name, err)
		}
	case err != nil:
		return fmt.Errorf("look up category %q: %w", c.Name, err)
	}
	report.Categories++

	for i := range c.Links {
		l := &c.Links[i]
		in := models.LinkInput{ID: l.ID, Title: l.Title, URL: l.URL, Icon: l.Icon}
		if err := validateInput(&in); err != nil {
			report.skip("link %q in %q: %v", l.Title, c.Name, err)
			continue
		}
		if _, err := s.store.AddLink(ctx, c.Name, &in); err != nil {
			if errors.Is(err, database.ErrLinkIDConflict) {
				report.skip("link %q in %q: id %q already exists", l.Title, c.Name, l.ID)
				continue
			}
			return fmt.Errorf("add link %q: %w", l.Title, err)
		}
		report.Links++
	}
	return nil
}
