// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package articles

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tomtom215/homenav/internal/models"
)

func cleanFolderName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%w: invalid folder name %q", models.ErrValidation, name)
	}
	return name, nil
}

// Folders lists the top-level directories with their article counts.
func (s *Store) Folders() ([]Folder, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read articles dir: %w", err)
	}
	folders := []Folder{}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		folders = append(folders, Folder{
			Name:         e.Name(),
			Path:         e.Name(),
			ArticleCount: countArticles(filepath.Join(s.root, e.Name())),
		})
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
	return folders, nil
}

// CreateFolder makes a new top-level folder.
func (s *Store) CreateFolder(name string) (string, error) {
	name, err := cleanFolderName(name)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Mkdir(filepath.Join(s.root, name), 0o750); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("folder %q: %w", name, models.ErrDuplicateName)
		}
		return "", fmt.Errorf("create folder: %w", err)
	}
	return name, nil
}

// RenameFolder renames a top-level folder.
func (s *Store) RenameFolder(oldName, newName string) (string, error) {
	from, err := s.resolve(oldName)
	if err != nil {
		return "", err
	}
	newName, err = cleanFolderName(newName)
	if err != nil {
		return "", err
	}
	to := filepath.Join(s.root, newName)

	s.mu.Lock()
	defer s.mu.Unlock()

	if info, err := os.Stat(from); err != nil || !info.IsDir() {
		return "", fmt.Errorf("folder %q: %w", oldName, models.ErrNotFound)
	}
	if _, err := os.Stat(to); err == nil {
		return "", fmt.Errorf("folder %q: %w", newName, models.ErrDuplicateName)
	}
	if err := os.Rename(from, to); err != nil {
		return "", fmt.Errorf("rename folder: %w", err)
	}
	return newName, nil
}

// DeleteFolder removes a folder and everything in it. It returns the number
// of articles removed.
func (s *Store) DeleteFolder(name string) (int, error) {
	full, err := s.resolve(name)
	if err != nil {
		return 0, err
	}
	if full == s.root {
		return 0, fmt.Errorf("%w: cannot delete the articles root", models.ErrForbidden)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if info, err := os.Stat(full); err != nil || !info.IsDir() {
		return 0, fmt.Errorf("folder %q: %w", name, models.ErrNotFound)
	}
	n := countArticles(full)
	if err := os.RemoveAll(full); err != nil {
		return 0, fmt.Errorf("delete folder: %w", err)
	}
	return n, nil
}

func countArticles(dir string) int {
	n := 0
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && strings.HasSuffix(d.Name(), articleExt) {
			n++
		}
		return nil
	})
	return n
}
