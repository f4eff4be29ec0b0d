package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func hit(h http.Handler, remoteAddr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimiterBlocksAfterBudget(t *testing.T) {
	rl := NewRateLimiter(100, 100, time.Minute)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 100; i++ {
		require.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1234", ""), "request %d", i+1)
	}
	require.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:1234", ""))

	// A different IP has its own bucket.
	require.Equal(t, http.StatusOK, hit(h, "10.0.0.2:1234", ""))
}

func TestRateLimiterKeyedByForwardedFor(t *testing.T) {
	rl := NewRateLimiter(1, 100, time.Minute)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	require.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1234", "203.0.113.7, 10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.9:9999", "203.0.113.7"))
	require.Equal(t, http.StatusOK, hit(h, "10.0.0.9:9999", "203.0.113.8"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5000"
	require.Equal(t, "192.0.2.1", ClientIP(req))

	req.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")
	require.Equal(t, "203.0.113.7", ClientIP(req))
}
