// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// fakeService counts its runs and can be told to fail a number of times
// before it settles into blocking on ctx.
type fakeService struct {
	name     string
	starts   atomic.Int32
	failures atomic.Int32
	failN    int32
}

func newFakeService(name string) *fakeService {
	return &fakeService{name: name}
}

func (f *fakeService) Serve(ctx context.Context) error {
	f.starts.Add(1)
	if f.failN > 0 && f.failures.Add(1) <= f.failN {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeService) String() string { return f.name }

func (f *fakeService) startCount() int32 { return f.starts.Load() }
