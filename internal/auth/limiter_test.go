// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package auth

import (
	"sync"
	"testing"
	"time"
)

func TestLoginLimiter_LocksAfterMaxAttempts(t *testing.T) {
	clock := newTestClock()
	l := NewLoginLimiter(5, 900*time.Second, WithLimiterClock(clock.Now))

	for i := 0; i < 4; i++ {
		l.RecordFailure("1.2.3.4")
		clock.Advance(time.Second)
	}
	if ok, _ := l.Check("1.2.3.4"); !ok {
		t.Fatal("locked after 4 failures")
	}

	l.RecordFailure("1.2.3.4")
	ok, retry := l.Check("1.2.3.4")
	if ok {
		t.Fatal("not locked after 5 failures")
	}
	// Oldest failure was 4s ago.
	if retry != 896 {
		t.Errorf("retryAfter = %d, want 896", retry)
	}

	if ok, _ := l.Check("5.6.7.8"); !ok {
		t.Error("other IPs must not be affected")
	}
}

func TestLoginLimiter_WindowSlides(t *testing.T) {
	clock := newTestClock()
	l := NewLoginLimiter(5, 900*time.Second, WithLimiterClock(clock.Now))

	l.RecordFailure("ip")
	clock.Advance(100 * time.Second)
	for i := 0; i < 4; i++ {
		l.RecordFailure("ip")
	}
	if ok, retry := l.Check("ip"); ok || retry != 800 {
		t.Fatalf("Check = (%v, %d), want (false, 800)", ok, retry)
	}

	// The first failure ages out; four remain inside the window.
	clock.Advance(800 * time.Second)
	if ok, _ := l.Check("ip"); !ok {
		t.Error("still locked after the oldest failure left the window")
	}
}

func TestLoginLimiter_RetryAfterAtLeastOne(t *testing.T) {
	clock := newTestClock()
	l := NewLoginLimiter(1, 10*time.Second, WithLimiterClock(clock.Now))

	l.RecordFailure("ip")
	clock.Advance(9*time.Second + 900*time.Millisecond)
	ok, retry := l.Check("ip")
	if ok || retry != 1 {
		t.Errorf("Check = (%v, %d), want (false, 1)", ok, retry)
	}
}

func TestLoginLimiter_Clear(t *testing.T) {
	l := NewLoginLimiter(2, time.Minute)
	l.RecordFailure("ip")
	l.RecordFailure("ip")
	if ok, _ := l.Check("ip"); ok {
		t.Fatal("expected lockout")
	}
	l.Clear("ip")
	if ok, _ := l.Check("ip"); !ok {
		t.Error("Clear did not lift the lockout")
	}
}

func TestLoginLimiter_Cleanup(t *testing.T) {
	clock := newTestClock()
	l := NewLoginLimiter(5, time.Minute, WithLimiterClock(clock.Now))

	l.RecordFailure("old")
	clock.Advance(2 * time.Minute)
	l.RecordFailure("fresh")

	if n := l.Cleanup(); n != 1 {
		t.Errorf("Cleanup() = %d, want 1", n)
	}
	if l.Tracked() != 1 {
		t.Errorf("Tracked() = %d, want 1", l.Tracked())
	}
}

func TestLoginLimiter_Defaults(t *testing.T) {
	l := NewLoginLimiter(0, 0)
	if l.maxAttempts != 5 || l.window != 900*time.Second {
		t.Errorf("defaults = (%d, %v), want (5, 15m0s)", l.maxAttempts, l.window)
	}
}

func TestLoginLimiter_Concurrent(t *testing.T) {
	l := NewLoginLimiter(1000, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.RecordFailure("ip")
				l.Check("ip")
			}
		}()
	}
	wg.Wait()

	l.mu.Lock()
	n := len(l.failures["ip"])
	l.mu.Unlock()
	if n != 500 {
		t.Errorf("recorded %d failures, want 500", n)
	}
}
