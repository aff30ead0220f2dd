package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(max int, window time.Duration, clock *time.Time) *LoginRateLimiter {
	rl := NewLoginRateLimiter(max, window)
	rl.now = func() time.Time { return *clock }
	return rl
}

func TestLoginRateLimiter_AllowWithinWindow(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := newTestLimiter(3, time.Minute, &clock)
	defer rl.Stop()

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	// Other IPs are independent.
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestLoginRateLimiter_WindowExpires(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := newTestLimiter(1, time.Minute, &clock)
	defer rl.Stop()

	assert.True(t, rl.Allow("ip"))
	assert.False(t, rl.Allow("ip"))
	assert.Equal(t, 61, rl.RetryAfterSeconds("ip"))

	clock = clock.Add(61 * time.Second)
	assert.True(t, rl.Allow("ip"))
}

func TestLoginRateLimiter_ResetAndCleanup(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := newTestLimiter(1, time.Minute, &clock)
	defer rl.Stop()

	rl.Allow("a")
	rl.Allow("b")
	rl.Reset("a")
	assert.True(t, rl.Allow("a"))

	clock = clock.Add(2 * time.Minute)
	rl.cleanup()
	assert.Empty(t, rl.buckets)
	assert.Equal(t, 0, rl.RetryAfterSeconds("b"))
}

func TestExtractIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", ExtractIP(r))

	r.Header.Set("X-Real-IP", "172.16.0.9")
	assert.Equal(t, "172.16.0.9", ExtractIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	assert.Equal(t, "203.0.113.7", ExtractIP(r))
}

func TestFormatRetryMessage(t *testing.T) {
	assert.Equal(t, "2 minute(s)", FormatRetryMessage(120))
	assert.Equal(t, "45 second(s)", FormatRetryMessage(45))
}
