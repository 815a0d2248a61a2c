// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/homenav/internal/config"
	"github.com/tomtom215/homenav/internal/logging"
	"github.com/tomtom215/homenav/internal/metrics"
)

// Listing limits for Visits and Updates.
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// Service records visits and admin writes and keeps each table bounded.
type Service struct {
	store      Store
	maxVisits  int
	maxUpdates int
	now        func() time.Time
}

// NewService creates an activity service over store with the row caps in cfg.
func NewService(store Store, cfg config.LogsConfig) *Service {
	return &Service{
		store:      store,
		maxVisits:  cfg.MaxVisitRecords,
		maxUpdates: cfg.MaxUpdateRecords,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// RecordVisit logs a public read, then trims the visit table. Failures are
// logged and swallowed so a request never fails because of it.
func (s *Service) RecordVisit(ctx context.Context, ip, path, userAgent string) {
	v := &Visit{IP: ip, Path: path, UserAgent: userAgent, CreatedAt: s.now()}
	if err := s.store.SaveVisit(ctx, v); err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Failed to record visit")
		return
	}
	s.trim(ctx, KindVisit, s.maxVisits)
}

// RecordUpdate logs an admin write, then trims the update table. Failures
// are logged and swallowed.
func (s *Service) RecordUpdate(ctx context.Context, action, targetType, targetName, details, username string) {
	u := &Update{
		Action:     action,
		TargetType: targetType,
		TargetName: targetName,
		Details:    details,
		Username:   username,
		CreatedAt:  s.now(),
	}
	if err := s.store.SaveUpdate(ctx, u); err != nil {
		logging.Warn().Err(err).
			Str("action", action).
			Str("target_type", targetType).
			Msg("Failed to record update")
		return
	}
	s.trim(ctx, KindUpdate, s.maxUpdates)
}

func (s *Service) trim(ctx context.Context, kind Kind, keep int) {
	if keep <= 0 {
		metrics.RecordActivity(string(kind), 0)
		return
	}
	n, err := s.store.Trim(ctx, kind, keep)
	if err != nil {
		logging.Warn().Err(err).Str("kind", string(kind)).Msg("Failed to trim activity log")
	}
	metrics.RecordActivity(string(kind), n)
}

// Visits returns the newest visits and the total count.
func (s *Service) Visits(ctx context.Context, limit int) (*VisitPage, error) {
	visits, err := s.store.Visits(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	total, err := s.store.Count(ctx, KindVisit)
	if err != nil {
		return nil, fmt.Errorf("count visits: %w", err)
	}
	return &VisitPage{Visits: visits, Total: total}, nil
}

// Updates returns the newest updates and the total count.
func (s *Service) Updates(ctx context.Context, limit int) (*UpdatePage, error) {
	updates, err := s.store.Updates(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}
	total, err := s.store.Count(ctx, KindUpdate)
	if err != nil {
		return nil, fmt.Errorf("count updates: %w", err)
	}
	return &UpdatePage{Updates: updates, Total: total}, nil
}

// ClearVisits deletes every visit.
func (s *Service) ClearVisits(ctx context.Context) (int64, error) {
	return s.store.Clear(ctx, KindVisit)
}

// ClearUpdates deletes every update.
func (s *Service) ClearUpdates(ctx context.Context) (int64, error) {
	return s.store.Clear(ctx, KindUpdate)
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
