// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(ttl time.Duration) (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(ttl, WithName("test"), WithCleanupInterval(0), WithClock(clock.Now))
	return c, clock
}

func TestCacheBasicOperations(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Fatal("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	if _, exists = c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	c, clock := newTestCache(60 * time.Second)

	c.Set("links:public", "view")
	clock.Advance(59 * time.Second)
	if _, ok := c.Get("links:public"); !ok {
		t.Fatal("entry expired before TTL")
	}

	clock.Advance(2 * time.Second)
	if _, ok := c.Get("links:public"); ok {
		t.Fatal("entry still served after TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not removed, Len() = %d", c.Len())
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c, clock := newTestCache(time.Hour)
	c.SetWithTTL("short", 1, time.Second)
	clock.Advance(2 * time.Second)
	if _, ok := c.Get("short"); ok {
		t.Error("custom TTL not honoured")
	}
}

func TestCacheInvalidatePrefix(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set(KeyLinksAll, "all")
	c.Set(KeyLinksPublic, "public")
	c.Set(KeySettings, "settings")

	if n := c.InvalidatePrefix(PrefixLinks); n != 2 {
		t.Errorf("InvalidatePrefix removed %d, want 2", n)
	}
	if _, ok := c.Get(KeyLinksAll); ok {
		t.Error("links:all survived invalidation")
	}
	if _, ok := c.Get(KeyLinksPublic); ok {
		t.Error("links:public survived invalidation")
	}
	if _, ok := c.Get(KeySettings); !ok {
		t.Error("settings should not be touched by links: prefix")
	}
	if got := c.GetStats().Invalidations; got != 2 {
		t.Errorf("Invalidations = %d, want 2", got)
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("a survived Delete")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
	if c.GetStats().TotalKeys != 0 {
		t.Errorf("TotalKeys after Clear = %d", c.GetStats().TotalKeys)
	}
}

func TestCacheHitRate(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	if c.HitRate() != 0 {
		t.Errorf("empty HitRate = %v", c.HitRate())
	}
	c.Set("k", "v")
	c.Get("k")
	c.Get("k")
	c.Get("k")
	c.Get("missing")
	if got := c.HitRate(); got != 75 {
		t.Errorf("HitRate = %v, want 75", got)
	}
}

func TestCacheCleanup(t *testing.T) {
	c, clock := newTestCache(time.Second)
	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	clock.Advance(2 * time.Second)
	c.Set("fresh", true)

	c.cleanup()

	if c.Len() != 1 {
		t.Errorf("Len() after cleanup = %d, want 1", c.Len())
	}
	if got := c.GetStats().Evictions; got != 5 {
		t.Errorf("Evictions = %d, want 5", got)
	}
}

func TestCacheStopIsIdempotent(t *testing.T) {
	c := New(time.Minute, WithCleanupInterval(time.Millisecond))
	c.Stop()
	c.Stop()
}

func TestCacheConcurrentAccess(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("links:%d", j%4)
				c.Set(key, n)
				c.Get(key)
				if j%50 == 0 {
					c.InvalidatePrefix(PrefixLinks)
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestInvalidatorFunc(t *testing.T) {
	var got string
	inv := InvalidatorFunc(func(p string) int { got = p; return 3 })
	if n := inv.InvalidatePrefix("links:"); n != 3 || got != "links:" {
		t.Errorf("InvalidatorFunc passed %q returned %d", got, n)
	}
	if NopInvalidator.InvalidatePrefix("x") != 0 {
		t.Error("NopInvalidator should report 0")
	}
}
