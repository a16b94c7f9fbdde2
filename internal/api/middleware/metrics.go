package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/playerdb/internal/metrics"
	"github.com/mcoot/playerdb/internal/middleware"
)

// Metrics records request count and latency labelled by route template,
// so /api/players/1 and /api/players/2 share a series
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := middleware.WrapResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.RecordHTTPRequest(r.Method, route, wrapped.Status(), time.Since(start))
	})
}
