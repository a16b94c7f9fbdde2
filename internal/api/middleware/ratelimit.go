package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/mcoot/playerdb/internal/api/apierr"
)

// RateLimit limits each client IP to requests per window.
// A non-positive requests value disables limiting.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			apierr.WriteError(w, apierr.NewRateLimitedError())
		}),
	)
}
