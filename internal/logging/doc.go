// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

// Package logging provides centralized zerolog-based structured logging for HomeNav.
//
// The package provides:
//   - a global zerolog logger configured once at startup
//   - JSON output for production and console output for development
//   - request and correlation IDs carried through context
//   - an slog adapter so the suture supervisor logs through zerolog
//   - a security logger that masks usernames and token IDs
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("category", name).Msg("Category created")
//	logging.Warn().Err(err).Str("jti", jti).Msg("Revocation failed")
//
//	// Context-aware logging
//	logging.Ctx(ctx).Info().Msg("Processing import")
//
// # Configuration
//
// Level, format and caller come from the logging section of the config file
// or LOG_LEVEL, LOG_FORMAT and LOG_CALLER. Set HOMENAV_QUIET_TESTS=1 to
// silence the default logger in test runs.
//
// # Security
//
// SecurityLogger writes login, lockout and logout events under
// component=auth. Usernames are reduced to their first two characters and
// token IDs to their first and last four. Error messages that mention
// passwords, secrets or tokens are replaced with "authentication error".
package logging
