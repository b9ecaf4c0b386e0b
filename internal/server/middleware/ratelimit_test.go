package middleware

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRateLimiter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	limiter := NewRateLimiter(10, time.Minute, logger)
	defer limiter.Stop()

	assert.Equal(t, 10, limiter.rate)
	assert.Equal(t, time.Minute, limiter.window)
	assert.NotNil(t, limiter.buckets)
	assert.NotNil(t, limiter.cleanupC)
}

func TestRateLimiter_Allow(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("First requests within limit are allowed", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute, logger)
		defer limiter.Stop()

		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("192.168.1.1"), fmt.Sprintf("request %d should be allowed", i+1))
		}
	})

	t.Run("Requests over limit are denied", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute, logger)
		defer limiter.Stop()

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("192.168.1.2"))
		}

		assert.False(t, limiter.Allow("192.168.1.2"), "request over limit should be denied")
	})

	t.Run("Different keys are tracked separately", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute, logger)
		defer limiter.Stop()

		assert.True(t, limiter.Allow("192.168.1.1"))
		assert.True(t, limiter.Allow("192.168.1.1"))
		assert.False(t, limiter.Allow("192.168.1.1"), "key1 over limit")

		assert.True(t, limiter.Allow("192.168.1.2"))
		assert.True(t, limiter.Allow("192.168.1.2"))
		assert.False(t, limiter.Allow("192.168.1.2"), "key2 over limit")
	})

	t.Run("Tokens refill after window expires", func(t *testing.T) {
		limiter := NewRateLimiter(2, 50*time.Millisecond, logger)
		defer limiter.Stop()

		assert.True(t, limiter.Allow("192.168.1.3"))
		assert.True(t, limiter.Allow("192.168.1.3"))
		assert.False(t, limiter.Allow("192.168.1.3"), "should be rate limited")

		time.Sleep(60 * time.Millisecond)

		assert.True(t, limiter.Allow("192.168.1.3"), "tokens should be refilled")
		assert.True(t, limiter.Allow("192.168.1.3"), "tokens should be refilled")
	})
}

func TestRateLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Requests within limit pass through", func(t *testing.T) {
		handler := RateLimit(5, time.Minute, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("success"))
		}))

		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodGet, "/users/12345/gear", nil)
			req.RemoteAddr = "192.168.1.1:12345"
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("Requests over limit get 429", func(t *testing.T) {
		handler := RateLimit(2, time.Minute, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodGet, "/users/12345/gear", nil)
			req.RemoteAddr = "192.168.1.5:12345"
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}

		req := httptest.NewRequest(http.MethodGet, "/users/12345/gear", nil)
		req.RemoteAddr = "192.168.1.5:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "rate limit exceeded")
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *http.Request)
		expected string
	}{
		{
			name:     "RemoteAddr fallback",
			setup:    func(r *http.Request) { r.RemoteAddr = "10.0.0.1:54321" },
			expected: "10.0.0.1:54321",
		},
		{
			name: "X-Forwarded-For single",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "203.0.113.7")
			},
			expected: "203.0.113.7",
		},
		{
			name: "X-Forwarded-For chain takes first hop",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
			},
			expected: "203.0.113.7",
		},
		{
			name: "X-Real-IP",
			setup: func(r *http.Request) {
				r.Header.Set("X-Real-IP", "198.51.100.3")
			},
			expected: "198.51.100.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			assert.Equal(t, tt.expected, getClientIP(req))
		})
	}
}
