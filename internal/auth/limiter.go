// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package auth

import (
	"math"
	"sync"
	"time"
)

// LoginLimiter counts failed logins per client IP over a sliding window.
//
// The window is anchored to the oldest surviving failure: once MaxAttempts
// failures sit inside the window, the IP is locked until the oldest of them
// ages out. State is process-local and lost on restart.
type LoginLimiter struct {
	mu          sync.Mutex
	failures    map[string][]time.Time
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

// LimiterOption configures a LoginLimiter.
type LimiterOption func(*LoginLimiter)

// WithLimiterClock replaces time.Now, for tests.
func WithLimiterClock(now func() time.Time) LimiterOption {
	return func(l *LoginLimiter) { l.now = now }
}

// NewLoginLimiter creates a limiter allowing maxAttempts failures per window.
// Non-positive values fall back to 5 attempts per 900s.
func NewLoginLimiter(maxAttempts int, window time.Duration, opts ...LimiterOption) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 900 * time.Second
	}
	l := &LoginLimiter{
		failures:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check prunes failures older than the window and reports whether ip may try
// again. When denied, retryAfter is the whole seconds until the oldest
// surviving failure leaves the window (at least 1).
func (l *LoginLimiter) Check(ip string) (allowed bool, retryAfter int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	attempts := l.prune(ip, now)
	if len(attempts) < l.maxAttempts {
		return true, 0
	}

	remaining := l.window - now.Sub(attempts[0])
	retryAfter = int(math.Ceil(remaining.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}
	return false, retryAfter
}

// RecordFailure appends a failure for ip at the current time.
func (l *LoginLimiter) RecordFailure(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[ip] = append(l.failures[ip], l.now())
}

// Clear forgets every failure for ip. Called after a successful login.
func (l *LoginLimiter) Clear(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, ip)
}

// Cleanup drops IPs whose failures have all left the window and returns how
// many were dropped.
func (l *LoginLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for ip := range l.failures {
		if len(l.prune(ip, now)) == 0 {
			removed++
		}
	}
	return removed
}

// Tracked returns the number of IPs with recorded failures.
func (l *LoginLimiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.failures)
}

// prune removes expired timestamps for ip and returns the survivors. Caller
// must hold mu.
func (l *LoginLimiter) prune(ip string, now time.Time) []time.Time {
	attempts := l.failures[ip]
	cutoff := now.Add(-l.window)

	i := 0
	for i < len(attempts) && !attempts[i].After(cutoff) {
		i++
	}
	attempts = attempts[i:]

	if len(attempts) == 0 {
		delete(l.failures, ip)
		return nil
	}
	l.failures[ip] = attempts
	return attempts
}
