package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventhub/internal/delivery/http/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2)
	rl.now = func() time.Time { return now }

	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		handler(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusCreated, do("10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusCreated, do("10.0.0.1:2222").Code)

	rr := do("10.0.0.1:3333")
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, helpers.ErrCodeTooManyRequests, envelope.Error.Code)

	assert.Equal(t, http.StatusCreated, do("10.0.0.2:1111").Code, "other IPs keep their own budget")

	now = now.Add(30 * time.Second)
	assert.Equal(t, http.StatusCreated, do("10.0.0.1:4444").Code, "one token refills every 30s")
}

func TestRateLimiter_ForgetsIdleVisitors(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1)
	rl.now = func() time.Time { return now }

	rl.getLimiter("10.0.0.1")
	require.Len(t, rl.visitors, 1)

	now = now.Add(visitorTTL + time.Second)
	rl.getLimiter("10.0.0.2")
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestRateLimiter_SweepsAtMostOncePerTTL(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1)
	rl.now = func() time.Time { return now }

	rl.getLimiter("10.0.0.1")
	sweptAt := rl.lastSweep
	require.Equal(t, now, sweptAt)

	// Requests inside the TTL window do not walk the visitor map again.
	now = sweptAt.Add(visitorTTL / 2)
	rl.getLimiter("10.0.0.2")
	now = sweptAt.Add(visitorTTL - time.Minute)
	rl.getLimiter("10.0.0.3")
	assert.Len(t, rl.visitors, 3)
	assert.Equal(t, sweptAt, rl.lastSweep)

	// The next request after a full TTL since the last sweep evicts only idle visitors.
	now = sweptAt.Add(visitorTTL + 3*time.Second)
	rl.getLimiter("10.0.0.3")
	assert.Equal(t, now, rl.lastSweep)
	assert.NotContains(t, rl.visitors, "10.0.0.1")
	assert.Contains(t, rl.visitors, "10.0.0.2")
	assert.Contains(t, rl.visitors, "10.0.0.3")
}
