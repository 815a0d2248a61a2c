// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package main

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/homenav/internal/navigation"
)

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, "links.json", &navigation.ImportReport{
		Categories: 2,
		Links:      5,
		Skipped:    1,
		Warnings:   []string{`link "FTP" in "Dev": url must start with http:// or https://`},
	})

	out := buf.String()
	for _, want := range []string{"Imported links.json", "categories: 2", "links:      5", "skipped:    1", `- link "FTP"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_MissingFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATABASE_PATH", filepath.Join(dir, "homenav.duckdb"))

	err := run(filepath.Join(dir, "absent.json"), "", navigation.FormatNative, &bytes.Buffer{})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("run = %v, want a not-exist error", err)
	}
}
