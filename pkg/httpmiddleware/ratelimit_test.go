package httpmiddleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveFrom(t *testing.T, h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitAllowsUnderLimit(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 3, Window: time.Minute})(okHandler())

	for i := range 3 {
		rec := serveFrom(t, h, "192.0.2.1:1000")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	}
	rec := serveFrom(t, h, "192.0.2.1:1000")
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 1, Window: time.Minute})(okHandler())

	require.Equal(t, http.StatusOK, serveFrom(t, h, "192.0.2.2:1000").Code)

	rec := serveFrom(t, h, "192.0.2.2:2000")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "rate limit exceeded", body["message"])
	assert.Equal(t, float64(http.StatusTooManyRequests), body["code"])
}

func TestRateLimitKeysAreIndependent(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 1, Window: time.Minute})(okHandler())

	require.Equal(t, http.StatusOK, serveFrom(t, h, "192.0.2.3:1").Code)
	require.Equal(t, http.StatusOK, serveFrom(t, h, "192.0.2.4:1").Code)
	require.Equal(t, http.StatusTooManyRequests, serveFrom(t, h, "192.0.2.3:2").Code)
}

func TestRateLimitWindowResets(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})
	now := time.Now()

	_, _, ok := rl.take("k", now)
	require.True(t, ok)
	_, _, ok = rl.take("k", now.Add(time.Second))
	require.False(t, ok)

	remaining, _, ok := rl.take("k", now.Add(time.Minute))
	require.True(t, ok)
	assert.Equal(t, 0, remaining)
}

func TestRateLimitCustomKeyFunc(t *testing.T) {
	h := RateLimit(RateLimitConfig{
		Max:    1,
		Window: time.Minute,
		KeyFunc: func(r *http.Request) string {
			return r.Header.Get("X-API-Key")
		},
	})(okHandler())

	do := func(key string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-Key", key)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, do("alpha"))
	require.Equal(t, http.StatusTooManyRequests, do("alpha"))
	require.Equal(t, http.StatusOK, do("beta"))
}

func TestClientIPForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:4000"
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 198.51.100.2")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}

func TestRateLimitEvict(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})
	now := time.Now()

	rl.take("stale", now)
	rl.take("fresh", now.Add(50*time.Second))
	rl.evict(now.Add(70 * time.Second))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.windows, "stale")
	assert.Contains(t, rl.windows, "fresh")
}
