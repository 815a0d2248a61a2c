// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

/*
Package cache provides the thread-safe read-through cache in front of the
navigation read path and the settings store.

# Keys

  - links:all    full navigation view, private categories included
  - links:public navigation view for anonymous visitors
  - settings     decoded site settings

Every navigation write calls InvalidatePrefix("links:") before it returns,
which drops both views at once. The TTL (60s by default) only bounds reads
that raced an invalidation.

# Usage Example

	views := cache.New(cfg.Cache.TTL, cache.WithName("navigation"))
	defer views.Stop()

	if v, ok := views.Get(cache.KeyLinksPublic); ok {
	    return v.(*models.NavigationView), nil
	}
	view := buildFromDatabase()
	views.Set(cache.KeyLinksPublic, view)

Writers receive the cache as an Invalidator only, never as a Cacher.
*/
package cache
