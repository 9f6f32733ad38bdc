package middleware

import (
	"net/http"
	"time"

	"github.com/angelmondragon/promopulse-backend/pkg/metrics"
)

// Metrics records request counts and latencies labelled by route pattern so
// that path parameters do not explode label cardinality.
func Metrics(m *metrics.PipelineMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			m.ObserveRequest(r.Method, routePattern(r), rec.status, time.Since(start))
		})
	}
}
