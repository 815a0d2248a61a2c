// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package middleware

import (
	"context"
	"net/http"

	"github.com/tomtom215/homenav/internal/auth"
)

// VisitRecorder stores a visit. activity.Service implements it.
type VisitRecorder interface {
	RecordVisit(ctx context.Context, ip, path, userAgent string)
}

// RecordVisits logs a visit after every response with a 2xx status.
// Recording failures are handled by the recorder and never reach the client.
func RecordVisits(recorder VisitRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			if rec.statusCode < 200 || rec.statusCode > 299 {
				return
			}
			// The response is already written; detach from client cancellation.
			recorder.RecordVisit(context.WithoutCancel(r.Context()), auth.ClientIP(r), r.URL.Path, r.UserAgent())
		})
	}
}
