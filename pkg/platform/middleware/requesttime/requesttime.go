// Package requesttime provides middleware for request-scoped time.
// All operations within a single HTTP request use the same "now" timestamp,
// so a schedule is classified against one instant per request.
package requesttime

import (
	"net/http"
	"time"

	"vaxtrack/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return MiddlewareWithClock(time.Now)(next)
}

// MiddlewareIn captures the current time in loc, so the calendar day seen by
// handlers matches the one the nightly recompute uses.
func MiddlewareIn(loc *time.Location) func(http.Handler) http.Handler {
	if loc == nil {
		loc = time.UTC
	}
	return MiddlewareWithClock(func() time.Time { return time.Now().In(loc) })
}

// MiddlewareWithClock uses clock instead of time.Now so tests can pin "today".
func MiddlewareWithClock(clock func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), clock())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
