// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package logging

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent is one authentication-relevant event.
type SecurityEvent struct {
	// Event is the event name, e.g. "login_success" or "token_revoked".
	Event     string
	Username  string
	TokenID   string
	IPAddress string
	Success   bool
	Error     string
	Details   map[string]string
}

// SecurityLogger writes auth events with sensitive values masked.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger on the global logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{
		logger: With().Str("component", "auth").Logger(),
	}
}

// NewSecurityLoggerWithLogger creates a security logger over logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// LogEvent writes event. Failed events are logged at warn level.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	var e *zerolog.Event
	if event.Success {
		e = l.logger.Info().Str("status", "success")
	} else {
		e = l.logger.Warn().Str("status", "failed")
	}
	e = e.Str("event", event.Event)

	if event.Username != "" {
		e = e.Str("username", SanitizeUsername(event.Username))
	}
	if event.TokenID != "" {
		e = e.Str("jti", SanitizeToken(event.TokenID))
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.Error != "" && !event.Success {
		e = e.Str("error", SanitizeError(event.Error))
	}
	for k, v := range event.Details {
		e = e.Str(k, SanitizeValue(k, v))
	}

	e.Msg("")
}

// LogLoginSuccess logs a successful admin login.
func (l *SecurityLogger) LogLoginSuccess(username, ip string) {
	l.LogEvent(&SecurityEvent{
		Event:     "login_success",
		Username:  username,
		IPAddress: ip,
		Success:   true,
	})
}

// LogLoginFailure logs a rejected login.
func (l *SecurityLogger) LogLoginFailure(username, ip, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:     "login_failure",
		Username:  username,
		IPAddress: ip,
		Error:     reason,
	})
}

// LogLockout logs a login refused because ip is rate limited.
func (l *SecurityLogger) LogLockout(ip string, retryAfter int) {
	l.LogEvent(&SecurityEvent{
		Event:     "login_locked",
		IPAddress: ip,
		Error:     "too many failed attempts",
		Details:   map[string]string{"retry_after_secs": strconv.Itoa(retryAfter)},
	})
}

// LogLogout logs a logout. success is false when the token could not be
// revoked.
func (l *SecurityLogger) LogLogout(username, jti, ip string, success bool, errMsg string) {
	l.LogEvent(&SecurityEvent{
		Event:     "logout",
		Username:  username,
		TokenID:   jti,
		IPAddress: ip,
		Success:   success,
		Error:     errMsg,
	})
}

// LogTokensPruned logs a revocation ledger prune.
func (l *SecurityLogger) LogTokensPruned(count int) {
	l.LogEvent(&SecurityEvent{
		Event:   "revocations_pruned",
		Success: true,
		Details: map[string]string{"deleted_count": strconv.Itoa(count)},
	})
}

// SanitizeToken masks a token, showing only first and last 4 characters.
// Example: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..." -> "eyJh...kpXV"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeUsername masks a username, keeping first 2 characters.
// Example: "johndoe" -> "jo***"
func SanitizeUsername(username string) string {
	if username == "" {
		return ""
	}
	if len(username) <= 2 {
		return "***"
	}
	return username[:2] + "***"
}

// SanitizeError replaces error messages that mention credentials.
func SanitizeError(err string) string {
	sensitivePatterns := []string{
		"password",
		"secret",
		"token",
		"key",
		"bearer",
		"authorization",
	}

	lowerErr := strings.ToLower(err)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lowerErr, pattern) {
			return "authentication error"
		}
	}
	return truncateString(err, 200)
}

// SanitizeValue masks value when key names a credential.
func SanitizeValue(key, value string) string {
	switch strings.ToLower(key) {
	case "access_token", "token", "password", "secret", "authorization", "bearer", "jti":
		return SanitizeToken(value)
	}
	return value
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
