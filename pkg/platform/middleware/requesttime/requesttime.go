// Package requesttime captures a single "now" per request so every timestamp
// written or logged while serving it agrees.
package requesttime

import (
	"net/http"
	"time"

	"countryapi/pkg/requestcontext"
)

// Middleware stores the request start time in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
