package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/salonsuite/bella/internal/metrics"
)

// Metrics records per-route request latency. The chi route pattern is used
// rather than the raw path to keep label cardinality bounded.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			path := r.URL.Path
			if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
				if pattern := routeCtx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}
			metrics.APILatency.WithLabelValues(
				r.Method, path, strconv.Itoa(ww.Status()),
			).Observe(time.Since(start).Seconds())
		}()

		next.ServeHTTP(ww, r)
	})
}
