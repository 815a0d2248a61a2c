// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

/*
Package activity keeps the visit log and the admin update log.

Every public read of the navigation or an article records a Visit; every
admin write (category, link, import, article, settings) records an Update.
After each insert the table is trimmed to its configured cap, evicting the
oldest rows first:

	logs:
	  max_visit_records: 1000
	  max_update_records: 500

Recording never fails the caller. A store error is logged at warn level and
the request continues.

Stores:
  - DuckDBStore: visit_logs and update_logs in the main DuckDB file
  - MemoryStore: for tests and ephemeral runs

Usage:

	store := activity.NewDuckDBStore(db.Conn())
	if err := store.CreateTable(ctx); err != nil {
	    return err
	}
	svc := activity.NewService(store, cfg.Logs)
	svc.RecordUpdate(ctx, activity.ActionAdd, activity.TargetCategory, "Dev", "private: no", "admin")
*/
package activity
