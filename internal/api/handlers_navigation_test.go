// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/homenav/internal/activity"
	"github.com/tomtom215/homenav/internal/models"
	"github.com/tomtom215/homenav/internal/navigation"
)

func categoryNames(v *models.NavigationView) []string {
	names := make([]string, 0, len(v.Categories))
	for i := range v.Categories {
		names = append(names, v.Categories[i].Name)
	}
	return names
}

func TestAPI_MutationsRequireAuth(t *testing.T) {
	s := newTestServer(t)

	routes := []struct {
		method, target string
	}{
		{http.MethodPost, "/api/v1/categories"},
		{http.MethodPut, "/api/v1/categories/Dev"},
		{http.MethodDelete, "/api/v1/categories/Dev"},
		{http.MethodPost, "/api/v1/categories/Dev/reorder"},
		{http.MethodPost, "/api/v1/categories/reorder/batch"},
		{http.MethodPost, "/api/v1/links?category_name=Dev"},
		{http.MethodPut, "/api/v1/links/abc"},
		{http.MethodDelete, "/api/v1/links/abc"},
		{http.MethodPost, "/api/v1/links/abc/reorder"},
		{http.MethodPost, "/api/v1/links/reorder/batch"},
		{http.MethodGet, "/api/v1/links/export"},
		{http.MethodPost, "/api/v1/links/import"},
		{http.MethodGet, "/api/v1/logs/visits"},
		{http.MethodDelete, "/api/v1/logs/updates"},
		{http.MethodPost, "/api/v1/favicon/fetch"},
		{http.MethodGet, "/api/v1/folders"},
		{http.MethodPut, "/api/settings"},
		{http.MethodPost, "/api/articles/sync"},
		{http.MethodDelete, "/api/articles/a.md"},
		{http.MethodGet, "/api/auth/me"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.target, func(t *testing.T) {
			rec := s.do(rt.method, rt.target, "", "{}")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "UNAUTHENTICATED", errorCode(t, rec))
		})
	}

	t.Run("invalid token", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/categories", "not-a-token", map[string]string{"name": "Dev"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAPI_PrivateCategoriesHiddenFromAnonymous(t *testing.T) {
	s := newTestServer(t)
	token := s.login()

	rec := s.do(http.MethodPost, "/api/v1/categories", token, map[string]interface{}{"name": "Public"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(http.MethodPost, "/api/v1/categories", token, map[string]interface{}{"name": "Secret", "auth_required": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var anon models.NavigationView
	decodeData(t, s.do(http.MethodGet, "/api/v1/links", "", nil), &anon)
	assert.Equal(t, []string{"Public"}, categoryNames(&anon))
	require.NotNil(t, anon.Categories[0].Links, "empty categories serialise links as []")

	var admin models.NavigationView
	decodeData(t, s.do(http.MethodGet, "/api/v1/links", token, nil), &admin)
	assert.Equal(t, []string{"Public", "Secret"}, categoryNames(&admin))

	page, err := s.activity.Visits(context.Background(), 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, "/api/v1/links", page.Visits[0].Path)
	assert.Equal(t, "192.0.2.44", page.Visits[0].IP)
}

func TestAPI_CategoryLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.login()

	for _, name := range []string{"Dev", "News", "Tools"} {
		rec := s.do(http.MethodPost, "/api/v1/categories", token, map[string]string{"name": name})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	t.Run("duplicate", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/categories", token, map[string]string{"name": "Dev"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "DUPLICATE_NAME", errorCode(t, rec))
	})

	t.Run("empty name", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/categories", token, map[string]string{"name": ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/categories", token, "{not json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rename onto existing", func(t *testing.T) {
		rec := s.do(http.MethodPut, "/api/v1/categories/Tools", token, map[string]string{"name": "News"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "DUPLICATE_NAME", errorCode(t, rec))
	})

	t.Run("rename to name with slash", func(t *testing.T) {
		rec := s.do(http.MethodPut, "/api/v1/categories/Tools", token, map[string]string{"name": "A/B"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = s.do(http.MethodPut, "/api/v1/categories/A%2FB", token, map[string]interface{}{"name": "Tools", "auth_required": true})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("unknown category", func(t *testing.T) {
		rec := s.do(http.MethodPut, "/api/v1/categories/Nope", token, map[string]string{"name": "Other"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
	})

	t.Run("reorder", func(t *testing.T) {
		var res struct {
			Moved bool `json:"moved"`
		}
		decodeData(t, s.do(http.MethodPost, "/api/v1/categories/Dev/reorder", token, map[string]string{"direction": "up"}), &res)
		assert.False(t, res.Moved, "first category cannot move up")

		decodeData(t, s.do(http.MethodPost, "/api/v1/categories/Dev/reorder", token, map[string]string{"direction": "down"}), &res)
		assert.True(t, res.Moved)

		rec := s.do(http.MethodPost, "/api/v1/categories/Dev/reorder", token, map[string]string{"direction": "sideways"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("batch reorder", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/categories/reorder/batch", token, map[string][]string{"ids": {}})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "empty batch")

		rec = s.do(http.MethodPost, "/api/v1/categories/reorder/batch", token, map[string][]string{"ids": {"Tools", "Dev", "News"}})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var view models.NavigationView
		decodeData(t, s.do(http.MethodGet, "/api/v1/links", token, nil), &view)
		assert.Equal(t, []string{"Tools", "Dev", "News"}, categoryNames(&view))
	})

	t.Run("delete", func(t *testing.T) {
		rec := s.do(http.MethodDelete, "/api/v1/categories/News", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		rec = s.do(http.MethodDelete, "/api/v1/categories/News", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	updates, err := s.activity.Updates(context.Background(), 50)
	require.NoError(t, err)
	require.NotEmpty(t, updates.Updates)
	latest := updates.Updates[0]
	assert.Equal(t, activity.ActionDelete, latest.Action)
	assert.Equal(t, activity.TargetCategory, latest.TargetType)
	assert.Equal(t, "News", latest.TargetName)
	assert.Equal(t, testUsername, latest.Username)
}

func TestAPI_LinkLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.login()

	add := func(title, url string) *models.Link {
		t.Helper()
		rec := s.do(http.MethodPost, "/api/v1/links?category_name=Dev", token, map[string]string{"title": title, "url": url})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var res struct {
			Link *models.Link `json:"link"`
		}
		decodeData(t, rec, &res)
		return res.Link
	}

	a := add("GitHub", "https://github.com")
	b := add("Go", "https://go.dev")

	t.Run("category auto-created", func(t *testing.T) {
		var view models.NavigationView
		decodeData(t, s.do(http.MethodGet, "/api/v1/links", "", nil), &view)
		require.Equal(t, []string{"Dev"}, categoryNames(&view))
		assert.Len(t, view.Categories[0].Links, 2)
	})

	t.Run("ftp url rejected", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/links?category_name=Dev", token, map[string]string{"title": "Files", "url": "ftp://example.com"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.NotEmpty(t, env.Error.Details)
	})

	t.Run("missing category name", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/links", token, map[string]string{"title": "x", "url": "https://x.example"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("move to another category", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/categories", token, map[string]string{"name": "Lang"})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = s.do(http.MethodPut, "/api/v1/links/"+b.ID, token, map[string]string{
			"title": "Go", "url": "https://go.dev/doc", "category": "Lang",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var view models.NavigationView
		decodeData(t, s.do(http.MethodGet, "/api/v1/links", "", nil), &view)
		require.Len(t, view.Categories, 2)
		assert.Len(t, view.Categories[0].Links, 1)
		require.Len(t, view.Categories[1].Links, 1)
		assert.Equal(t, "https://go.dev/doc", view.Categories[1].Links[0].URL)
	})

	t.Run("unknown category keeps link in place", func(t *testing.T) {
		rec := s.do(http.MethodPut, "/api/v1/links/"+a.ID, token, map[string]string{
			"title": "GitHub Home", "url": "https://github.com", "category": "Nope",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var view models.NavigationView
		decodeData(t, s.do(http.MethodGet, "/api/v1/links", "", nil), &view)
		require.Equal(t, []string{"Dev", "Lang"}, categoryNames(&view))
		require.Len(t, view.Categories[0].Links, 1)
		assert.Equal(t, "GitHub Home", view.Categories[0].Links[0].Title)
	})

	t.Run("reorder at boundary", func(t *testing.T) {
		var res struct {
			Moved bool `json:"moved"`
		}
		decodeData(t, s.do(http.MethodPost, "/api/v1/links/"+a.ID+"/reorder", token, map[string]string{"direction": "down"}), &res)
		assert.False(t, res.Moved)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/v1/links/"+a.ID, token, nil).Code)
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/links/"+a.ID, token, nil).Code)
	})

	updates, err := s.activity.Updates(context.Background(), 50)
	require.NoError(t, err)
	var details []string
	for _, u := range updates.Updates {
		if u.TargetType == activity.TargetLink && u.Action == activity.ActionAdd {
			details = append(details, u.Details)
		}
	}
	assert.Contains(t, details, "category: Dev, URL: https://github.com")
}

func TestAPI_ImportAndExport(t *testing.T) {
	s := newTestServer(t)
	token := s.login()

	doc := `{"format":"native","data":{"categories":[
		{"name":"Dev","auth_required":false,"links":[
			{"id":"l1","title":"GitHub","url":"https://github.com"},
			{"id":"l2","title":"Files","url":"ftp://files.example.com"}
		]},
		{"name":"Private","auth_required":true,"links":[
			{"id":"l3","title":"Bank","url":"https://bank.example"}
		]}
	]}}`

	rec := s.do(http.MethodPost, "/api/v1/links/import", token, doc)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	type importResult struct {
		Message  string   `json:"message"`
		Links    int      `json:"links"`
		Skipped  int      `json:"skipped"`
		Warnings []string `json:"warnings"`
	}
	var res importResult
	decodeData(t, rec, &res)
	assert.Equal(t, 2, res.Links)
	assert.Equal(t, 1, res.Skipped)
	assert.Len(t, res.Warnings, 1)
	assert.NotEmpty(t, res.Message)

	t.Run("export includes private", func(t *testing.T) {
		var exported navigation.ExportDocument
		decodeData(t, s.do(http.MethodGet, "/api/v1/links/export", token, nil), &exported)
		assert.Equal(t, "HomePage-Export", exported.AppName)
		require.NotNil(t, exported.Data)
		assert.Equal(t, []string{"Dev", "Private"}, categoryNames(exported.Data))
	})

	t.Run("reimport skips existing ids", func(t *testing.T) {
		var again importResult
		decodeData(t, s.do(http.MethodPost, "/api/v1/links/import", token, doc), &again)
		assert.Equal(t, 0, again.Links)
		assert.Equal(t, 3, again.Skipped)
	})

	t.Run("bad requests", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{"missing data", `{"format":"native"}`},
			{"unknown format", `{"format":"bookmarks.html","data":{}}`},
			{"no categories", `{"data":{"something":"else"}}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := s.do(http.MethodPost, "/api/v1/links/import", token, tt.body)
				assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			})
		}
	})
}
