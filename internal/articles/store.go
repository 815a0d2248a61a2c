// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package articles

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/homenav/internal/logging"
	"github.com/tomtom215/homenav/internal/models"
)

const articleExt = ".md"

// Article is one entry of the article list.
type Article struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Category  *string   `json:"category"`
	Protected bool      `json:"protected"`
	ModTime   time.Time `json:"created_time"`
}

// Content is a single article with its raw Markdown.
type Content struct {
	Path        string                 `json:"path"`
	Title       string                 `json:"title"`
	Content     string                 `json:"content"`
	Frontmatter map[string]interface{} `json:"frontmatter,omitempty"`
}

// Folder is a top-level directory of the article tree.
type Folder struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	ArticleCount int    `json:"article_count"`
}

// Store reads and writes articles under a root directory.
type Store struct {
	root string
	mu   sync.Mutex // serializes writes
}

// NewStore opens root, creating it when missing.
func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve articles dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create articles dir: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute root directory.
func (s *Store) Root() string {
	return s.root
}

// resolve maps a slash path to an absolute path inside the root.
func (s *Store) resolve(rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return "", fmt.Errorf("%w: empty path", models.ErrValidation)
	}
	if strings.ContainsRune(rel, 0) {
		return "", fmt.Errorf("%w: invalid path", models.ErrValidation)
	}

	full := filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(rel, "/")))
	if !s.within(full) {
		return "", fmt.Errorf("%w: path %q is outside the articles directory", models.ErrForbidden, rel)
	}

	// A symlink inside the tree may still point outside it.
	if real, err := filepath.EvalSymlinks(full); err == nil {
		if !s.within(real) {
			return "", fmt.Errorf("%w: path %q is outside the articles directory", models.ErrForbidden, rel)
		}
	} else if parent, perr := filepath.EvalSymlinks(filepath.Dir(full)); perr == nil && !s.within(parent) {
		return "", fmt.Errorf("%w: path %q is outside the articles directory", models.ErrForbidden, rel)
	}
	return full, nil
}

func (s *Store) within(p string) bool {
	r, err := filepath.Rel(s.root, p)
	if err != nil {
		return false
	}
	return r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator))
}

func (s *Store) relPath(full string) string {
	r, _ := filepath.Rel(s.root, full)
	return filepath.ToSlash(r)
}

// IsProtected reports whether p lies under any of the protected prefixes,
// compared segment by segment.
func IsProtected(p string, protected []string) bool {
	parts := splitPath(p)
	for _, prefix := range protected {
		pp := splitPath(prefix)
		if len(pp) == 0 || len(pp) > len(parts) {
			continue
		}
		match := true
		for i := range pp {
			if pp[i] != parts[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func splitPath(p string) []string {
	p = strings.Trim(path.Clean("/"+filepath.ToSlash(p)), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func titleOf(p string) string {
	return strings.TrimSuffix(path.Base(filepath.ToSlash(p)), articleExt)
}

// List returns every article, newest first. Protected articles are omitted
// unless includeProtected is set.
func (s *Store) List(ctx context.Context, includeProtected bool, protected []string) ([]Article, error) {
	articles := []Article{}
	err := filepath.WalkDir(s.root, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.Warn().Err(err).Str("path", full).Msg("Skipping unreadable article path")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), articleExt) {
			return nil
		}

		rel := s.relPath(full)
		isProtected := IsProtected(rel, protected)
		if isProtected && !includeProtected {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}

		a := Article{
			Path:      rel,
			Title:     titleOf(rel),
			Protected: isProtected,
			ModTime:   info.ModTime().UTC(),
		}
		if dir := path.Dir(rel); dir != "." {
			a.Category = &dir
		}
		articles = append(articles, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk articles: %w", err)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		if articles[i].ModTime.Equal(articles[j].ModTime) {
			return articles[i].Path < articles[j].Path
		}
		return articles[i].ModTime.After(articles[j].ModTime)
	})
	return articles, nil
}

// Get returns an article's raw content and its parsed frontmatter.
func (s *Store) Get(p string) (*Content, error) {
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(full) != articleExt {
		return nil, fmt.Errorf("article %q: %w", p, models.ErrNotFound)
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("article %q: %w", p, models.ErrNotFound)
		}
		return nil, fmt.Errorf("read article %q: %w", p, err)
	}

	rel := s.relPath(full)
	c := &Content{Path: rel, Title: titleOf(rel), Content: string(data)}
	if fm, ok := parseFrontmatter(data); ok {
		c.Frontmatter = fm
		if t, ok := fm["title"].(string); ok && t != "" {
			c.Title = t
		}
	}
	return c, nil
}

// SyncRequest creates or replaces an article.
type SyncRequest struct {
	Path        string                 `json:"path" validate:"required,max=500"`
	Content     string                 `json:"content"`
	Title       string                 `json:"title,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Frontmatter map[string]interface{} `json:"frontmatter,omitempty"`
}

// SyncResult identifies the written article.
type SyncResult struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// Sync writes req.Content to req.Path, appending ".md" when missing and
// prepending req.Frontmatter as a YAML block when set.
func (s *Store) Sync(req *SyncRequest) (*SyncResult, error) {
	p := strings.TrimSpace(req.Path)
	if !strings.HasSuffix(p, articleExt) {
		p += articleExt
	}
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}

	body := []byte(req.Content)
	if len(req.Frontmatter) > 0 {
		body, err = renderFrontmatter(req.Frontmatter, req.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: frontmatter: %v", models.ErrValidation, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return nil, fmt.Errorf("create article dir: %w", err)
	}
	if err := writeFileAtomic(full, body); err != nil {
		return nil, fmt.Errorf("write article: %w", err)
	}

	rel := s.relPath(full)
	title := req.Title
	if title == "" {
		title = titleOf(rel)
	}
	return &SyncResult{Path: rel, Title: title}, nil
}

// Update replaces the content of an existing article.
func (s *Store) Update(p, content string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if filepath.Ext(full) != articleExt {
		return fmt.Errorf("article %q: %w", p, models.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("article %q: %w", p, models.ErrNotFound)
		}
		return err
	}
	if err := writeFileAtomic(full, []byte(content)); err != nil {
		return fmt.Errorf("write article: %w", err)
	}
	return nil
}

// Delete removes an article and returns its title.
func (s *Store) Delete(p string) (string, error) {
	full, err := s.resolve(p)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("article %q: %w", p, models.ErrNotFound)
	}
	if err := os.Remove(full); err != nil {
		return "", fmt.Errorf("delete article: %w", err)
	}
	return titleOf(s.relPath(full)), nil
}

func writeFileAtomic(full string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(full), ".article-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o640); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), full)
}
