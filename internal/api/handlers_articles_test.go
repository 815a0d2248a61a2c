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
	"github.com/tomtom215/homenav/internal/articles"
)

func TestAPI_Articles(t *testing.T) {
	s := newTestServer(t)
	token := s.login()

	for _, req := range []articles.SyncRequest{
		{Path: "notes/hello", Content: "# Hello\n", Frontmatter: map[string]interface{}{"title": "Hello"}},
		{Path: "private/diary.md", Content: "secret\n"},
	} {
		rec := s.do(http.MethodPost, "/api/articles/sync", token, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := s.do(http.MethodPut, "/api/settings", token, map[string]interface{}{
		"protected_article_paths": []string{"private"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	listPaths := func(token string) []string {
		t.Helper()
		var res struct {
			Articles []articles.Article `json:"articles"`
		}
		decodeData(t, s.do(http.MethodGet, "/api/articles", token, nil), &res)
		paths := make([]string, 0, len(res.Articles))
		for _, a := range res.Articles {
			paths = append(paths, a.Path)
		}
		return paths
	}

	t.Run("list hides protected from anonymous", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"notes/hello.md"}, listPaths(""))
		assert.ElementsMatch(t, []string{"notes/hello.md", "private/diary.md"}, listPaths(token))
	})

	t.Run("read", func(t *testing.T) {
		var c articles.Content
		decodeData(t, s.do(http.MethodGet, "/api/articles/notes/hello.md", "", nil), &c)
		assert.Contains(t, c.Content, "# Hello")
		assert.Equal(t, "Hello", c.Title)
	})

	t.Run("protected needs auth", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/articles/private/diary.md", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = s.do(http.MethodGet, "/api/articles/private/missing.md", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "missing protected article must not reveal 404")

		rec = s.do(http.MethodGet, "/api/articles/private/diary.md", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("escape is forbidden", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/articles/..%2F..%2Fetc%2Fpasswd.md", "", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(t, rec))

		rec = s.do(http.MethodPost, "/api/articles/sync", token, articles.SyncRequest{Path: "../outside", Content: "x"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/articles/notes/nope.md", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("update and delete", func(t *testing.T) {
		rec := s.do(http.MethodPut, "/api/articles/notes/hello.md", token, map[string]string{"content": "# Changed\n"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var c articles.Content
		decodeData(t, s.do(http.MethodGet, "/api/articles/notes/hello.md", "", nil), &c)
		assert.Equal(t, "# Changed\n", c.Content)

		rec = s.do(http.MethodPut, "/api/articles/notes/nope.md", token, map[string]string{"content": "x"})
		assert.Equal(t, http.StatusNotFound, rec.Code)

		require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/articles/notes/hello.md", token, nil).Code)
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/articles/notes/hello.md", token, nil).Code)
	})

	ctx := context.Background()
	visits, err := s.activity.Visits(ctx, 100)
	require.NoError(t, err)
	var articleVisits int
	for _, v := range visits.Visits {
		if v.Path == "/api/articles/notes/hello.md" || v.Path == "/api/articles/private/diary.md" {
			articleVisits++
		}
	}
	assert.Equal(t, 3, articleVisits, "only successful reads are recorded")

	updates, err := s.activity.Updates(ctx, 100)
	require.NoError(t, err)
	var actions []string
	for _, u := range updates.Updates {
		if u.TargetType == activity.TargetArticle {
			actions = append(actions, u.Action)
		}
	}
	assert.Equal(t, []string{activity.ActionDelete, activity.ActionUpdate}, actions)
}

func TestAPI_Folders(t *testing.T) {
	s := newTestServer(t)
	token := s.login()

	rec := s.do(http.MethodPost, "/api/v1/folders", token, map[string]string{"name": "recipes"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/v1/folders", token, map[string]string{"name": "recipes"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "DUPLICATE_NAME", errorCode(t, rec))

	_, err := s.articles.Sync(&articles.SyncRequest{Path: "recipes/bread", Content: "flour"})
	require.NoError(t, err)

	rec = s.do(http.MethodPut, "/api/v1/folders/recipes", token, map[string]string{"new_name": "cooking"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var list struct {
		Folders []articles.Folder `json:"folders"`
	}
	decodeData(t, s.do(http.MethodGet, "/api/v1/folders", token, nil), &list)
	require.Len(t, list.Folders, 1)
	assert.Equal(t, "cooking", list.Folders[0].Name)
	assert.Equal(t, 1, list.Folders[0].ArticleCount)

	rec = s.do(http.MethodDelete, "/api/v1/folders/cooking", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var deleted struct {
		ArticleCount int `json:"article_count"`
	}
	decodeData(t, rec, &deleted)
	assert.Equal(t, 1, deleted.ArticleCount)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/folders/cooking", token, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, "/api/v1/folders/..", token, nil).Code)
}
