// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

/*
Package services provides suture.Service wrappers for HomeNav components.

Each wrapper implements suture's Serve(ctx) error and fmt.Stringer so the
supervisor can name it in log events.

HTTPServerService:
  - Runs ListenAndServe in a goroutine
  - On cancel, calls Shutdown with its own timeout
  - Treats http.ErrServerClosed as a clean stop

PeriodicService:
  - Runs a Task on a ticker
  - Logs a failing run and keeps ticking

Example:

	limiter := authService.Limiter()
	sweep := services.NewPeriodicService("login-limiter-sweep", time.Minute,
	    func(context.Context) (int, error) { return limiter.Cleanup(), nil })
	tree.AddMaintenanceService(sweep)
*/
package services
