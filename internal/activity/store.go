// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package activity

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore implements Store using in-memory storage.
// Suitable for development and testing. Data is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	visits  []Visit
	updates []Update
	nextID  int64
}

// NewMemoryStore creates an empty in-memory activity store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SaveVisit(ctx context.Context, v *Visit) error {
	if v == nil {
		return fmt.Errorf("visit cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	v.ID = s.nextID
	s.visits = append(s.visits, *v)
	return nil
}

func (s *MemoryStore) SaveUpdate(ctx context.Context, u *Update) error {
	if u == nil {
		return fmt.Errorf("update cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	u.ID = s.nextID
	s.updates = append(s.updates, *u)
	return nil
}

func (s *MemoryStore) Visits(ctx context.Context, limit int) ([]Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Visit, 0)
	for i := len(s.visits) - 1; i >= 0 && len(results) < limit; i-- { // recent-first
		results = append(results, s.visits[i])
	}
	return results, nil
}

func (s *MemoryStore) Updates(ctx context.Context, limit int) ([]Update, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Update, 0)
	for i := len(s.updates) - 1; i >= 0 && len(results) < limit; i-- {
		results = append(results, s.updates[i])
	}
	return results, nil
}

func (s *MemoryStore) Count(ctx context.Context, kind Kind) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch kind {
	case KindVisit:
		return int64(len(s.visits)), nil
	case KindUpdate:
		return int64(len(s.updates)), nil
	}
	return 0, fmt.Errorf("unknown activity kind %q", kind)
}

func (s *MemoryStore) Trim(ctx context.Context, kind Kind, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case KindVisit:
		if excess := len(s.visits) - keep; excess > 0 {
			s.visits = append([]Visit(nil), s.visits[excess:]...)
			return int64(excess), nil
		}
		return 0, nil
	case KindUpdate:
		if excess := len(s.updates) - keep; excess > 0 {
			s.updates = append([]Update(nil), s.updates[excess:]...)
			return int64(excess), nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("unknown activity kind %q", kind)
}

func (s *MemoryStore) Clear(ctx context.Context, kind Kind) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case KindVisit:
		n := len(s.visits)
		s.visits = nil
		return int64(n), nil
	case KindUpdate:
		n := len(s.updates)
		s.updates = nil
		return int64(n), nil
	}
	return 0, fmt.Errorf("unknown activity kind %q", kind)
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*DuckDBStore)(nil)
)
