// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/homenav/internal/logging"
)

// Task is one run of a periodic job. It returns how many items it removed.
type Task func(ctx context.Context) (int, error)

// PeriodicService runs a Task on a fixed interval until ctx is canceled.
//
// A failing run is logged and the loop keeps going; a transient error in a
// sweep is not worth a supervisor restart. Panics still reach suture.
type PeriodicService struct {
	name     string
	interval time.Duration
	task     Task
}

// NewPeriodicService creates a periodic job. interval must be positive.
func NewPeriodicService(name string, interval time.Duration, task Task) *PeriodicService {
	return &PeriodicService{name: name, interval: interval, task: task}
}

// Serve implements suture.Service.
func (p *PeriodicService) Serve(ctx context.Context) error {
	if p.interval <= 0 {
		return fmt.Errorf("%s: interval must be positive, got %s", p.name, p.interval)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *PeriodicService) runOnce(ctx context.Context) {
	n, err := p.task(ctx)
	if err != nil {
		logging.Warn().Err(err).Str("job", p.name).Msg("Periodic job failed")
		return
	}
	if n > 0 {
		logging.Debug().Str("job", p.name).Int("removed", n).Msg("Periodic job completed")
	}
}

// String implements fmt.Stringer.
func (p *PeriodicService) String() string {
	return p.name
}
