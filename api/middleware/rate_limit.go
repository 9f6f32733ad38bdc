package middleware

import (
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/angelmondragon/promopulse-backend/api/responses"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
	"github.com/angelmondragon/promopulse-backend/pkg/logger"
)

// RateLimit throttles the routes it wraps with a shared token bucket of rps
// requests per second and the given burst. rps <= 0 disables it.
func RateLimit(rps float64, burst int, logg *logger.Logger) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	retryAfter := strconv.Itoa(int(math.Ceil(1 / rps)))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Retry-After", retryAfter)
			err := pkgerrors.New(pkgerrors.CodeRateLimit, "simulation rate limit exceeded").
				WithDetails(map[string]any{"retry_after_seconds": retryAfter})
			responses.WriteError(r.Context(), logg, w, err)
		})
	}
}
