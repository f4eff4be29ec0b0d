package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"atelier/internal/models"
)

// RateLimiter keeps one token bucket per client IP. The buckets live in an
// expirable LRU so the map stays bounded under high IP cardinality.
type RateLimiter struct {
	buckets *lru.LRU[string, *rate.Limiter]
	limit   rate.Limit
	burst   int
}

// NewRateLimiter allows perMinute requests per IP, bursting up to the same
// amount. size bounds the number of tracked IPs; idle entries expire after ttl.
func NewRateLimiter(perMinute, size int, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: lru.NewLRU[string, *rate.Limiter](size, nil, ttl),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   perMinute,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	if l, ok := rl.buckets.Get(key); ok {
		return l
	}
	l := rate.NewLimiter(rl.limit, rl.burst)
	rl.buckets.Add(key, l)
	return l
}

// Middleware rejects over-limit requests with 429 before anything else runs.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiter(ClientIP(r)).Allow() {
			models.WriteProblem(w, http.StatusTooManyRequests,
				"Too Many Requests",
				"Rate limit exceeded. Please try again later.", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP prefers the first hop of X-Forwarded-For, falling back to the
// socket address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
