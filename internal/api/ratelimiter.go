package api

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/eugenenazirov/army-grid/internal/metrics"
)

const metricsPath = "/metrics"

// rateLimiter admits or rejects a single request.
type rateLimiter interface {
	Allow() bool
}

// retryHinter is implemented by limiters that can tell a rejected client how
// long to back off.
type retryHinter interface {
	RetryAfter() time.Duration
}

// tokenBucket shares one bucket across every client of the server.
type tokenBucket struct {
	limiter *rate.Limiter
}

// newTokenBucket returns nil, which disables limiting, when rps or burst is
// not positive.
func newTokenBucket(rps float64, burst int) rateLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	return &tokenBucket{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (b *tokenBucket) Allow() bool {
	return b.limiter.Allow()
}

// RetryAfter is the time the bucket needs to refill a single token.
func (b *tokenBucket) RetryAfter() time.Duration {
	return time.Duration(float64(time.Second) / float64(b.limiter.Limit()))
}

// rateLimitMiddleware answers 429 once the limiter runs dry and counts the
// rejection on collector. Metric scrapes bypass the limiter.
func rateLimitMiddleware(limiter rateLimiter, collector *metrics.Collector, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == metricsPath || limiter.Allow() {
			next.ServeHTTP(w, r)
			return
		}

		collector.ObserveRateLimited()
		if hinter, ok := limiter.(retryHinter); ok {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(hinter.RetryAfter())))
		}
		writeError(w, http.StatusTooManyRequests, "Too many requests", "rate limit exceeded, please retry shortly")
	})
}

// retryAfterSeconds rounds d up to whole seconds, at least one.
func retryAfterSeconds(d time.Duration) int {
	return max(1, int(math.Ceil(d.Seconds())))
}
