// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

// Command migrate loads a legacy links.json into the DuckDB store.
//
// It reads the same configuration as the server, so DATABASE_PATH and
// CONFIG_PATH apply. Run it while the server is stopped; DuckDB allows a
// single writer process.
//
//	migrate -file /data/links.json
//	migrate -file links.json -config ./config.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tomtom215/homenav/internal/cache"
	"github.com/tomtom215/homenav/internal/config"
	"github.com/tomtom215/homenav/internal/database"
	"github.com/tomtom215/homenav/internal/logging"
	"github.com/tomtom215/homenav/internal/navigation"
)

func main() {
	file := flag.String("file", "", "legacy links.json to import (required)")
	configPath := flag.String("config", "", "config file (overrides CONFIG_PATH)")
	format := flag.String("format", navigation.FormatNative, "import format: native or sunpanel")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "migrate: -file is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*file, *configPath, *format, os.Stdout); err != nil {
		logging.Fatal().Err(err).Msg("Migration failed")
	}
}

func run(file, configPath, format string, out io.Writer) error {
	if configPath != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, configPath); err != nil {
			return fmt.Errorf("set %s: %w", config.ConfigPathEnvVar, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	raw, err := os.ReadFile(file) //nolint:gosec // operator-supplied path
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	// Nothing reads through this cache; the service still needs one to invalidate.
	views := cache.New(time.Minute, cache.WithName("migrate"))
	defer views.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := navigation.NewService(db, views, views).Import(ctx, format, raw)
	if err != nil {
		return err
	}

	printReport(out, file, report)
	return nil
}

func printReport(out io.Writer, file string, report *navigation.ImportReport) {
	fmt.Fprintf(out, "Imported %s\n", file)
	fmt.Fprintf(out, "  categories: %d\n", report.Categories)
	fmt.Fprintf(out, "  links:      %d\n", report.Links)
	fmt.Fprintf(out, "  skipped:    %d\n", report.Skipped)
	for _, w := range report.Warnings {
		fmt.Fprintf(out, "  - %s\n", w)
	}
}
