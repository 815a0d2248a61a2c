// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package cache

import "time"

// Cacher is the read side used by services that cache derived views.
//
//	var c cache.Cacher = cache.New(60*time.Second, cache.WithName("navigation"))
//	if v, ok := c.Get(cache.KeyLinksPublic); ok {
//	    return v.(*models.NavigationView), nil
//	}
type Cacher interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	SetWithTTL(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Clear()
	GetStats() Stats
	HitRate() float64
}

// Invalidator drops every entry whose key starts with prefix. Writers hold
// only this capability, so tests can pass a spy.
type Invalidator interface {
	InvalidatePrefix(prefix string) int
}

// InvalidatorFunc adapts a function to Invalidator.
type InvalidatorFunc func(prefix string) int

// InvalidatePrefix calls f(prefix).
func (f InvalidatorFunc) InvalidatePrefix(prefix string) int {
	return f(prefix)
}

// NopInvalidator discards invalidations.
var NopInvalidator Invalidator = InvalidatorFunc(func(string) int { return 0 })

// Cache keys shared between the navigation service and its readers.
const (
	PrefixLinks    = "links:"
	KeyLinksAll    = "links:all"
	KeyLinksPublic = "links:public"
	KeySettings    = "settings"
)

var (
	_ Cacher      = (*Cache)(nil)
	_ Invalidator = (*Cache)(nil)
)
