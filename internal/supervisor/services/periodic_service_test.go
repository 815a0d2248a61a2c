// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPeriodicService_RunsUntilCanceled(t *testing.T) {
	var runs atomic.Int32
	svc := NewPeriodicService("sweep", 5*time.Millisecond, func(context.Context) (int, error) {
		if runs.Add(1)%2 == 0 {
			return 0, errors.New("transient")
		}
		return 1, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 4 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve = %v, want context.Canceled", err)
	}
	// A failing run must not stop the loop.
	if runs.Load() < 4 {
		t.Errorf("task ran %d times, want at least 4", runs.Load())
	}
	if svc.String() != "sweep" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestPeriodicService_RejectsNonPositiveInterval(t *testing.T) {
	svc := NewPeriodicService("bad", 0, func(context.Context) (int, error) { return 0, nil })
	if err := svc.Serve(context.Background()); err == nil {
		t.Fatal("Serve accepted a zero interval")
	}
}
