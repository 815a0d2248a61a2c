// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

/*
Package supervisor runs HomeNav's long-lived goroutines under suture v4.

The tree has two layers so a misbehaving background job never restarts the
HTTP server:

	RootSupervisor ("homenav")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── PeriodicService "login-limiter-sweep"
	│   └── PeriodicService "revocation-prune" (if REVOCATION_PRUNE_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (start, failure, backoff, stop timeout) are logged through
the sutureslog adapter, which main wires to the zerolog-backed slog logger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
	tree.AddMaintenanceService(services.NewPeriodicService("login-limiter-sweep",
	    cfg.Security.LimiterCleanupInterval, sweepLimiter))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

See the services subpackage for the wrappers.
*/
package supervisor
