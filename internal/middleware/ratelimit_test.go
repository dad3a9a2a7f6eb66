package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testValkey connects to the local Valkey on DB 15 or skips the test.
func testValkey(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("valkey not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// newTestLimiter uses a unique name so runs never share counters.
func newTestLimiter(t *testing.T, limit int, window time.Duration) *RateLimiter {
	return NewRateLimiter(testValkey(t), "test-"+uuid.NewString(), limit, window)
}

func TestRateLimiterAllow(t *testing.T) {
	rl := newTestLimiter(t, 3, time.Second)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !rl.allow(ctx, "test-ip") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow(ctx, "test-ip") {
		t.Error("4th request should be rate-limited")
	}
	if !rl.allow(ctx, "other-ip") {
		t.Error("different IP should be allowed")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := newTestLimiter(t, 2, 200*time.Millisecond)
	ctx := context.Background()

	rl.allow(ctx, "test-ip")
	rl.allow(ctx, "test-ip")
	if rl.allow(ctx, "test-ip") {
		t.Error("should be rate-limited")
	}

	time.Sleep(400 * time.Millisecond)

	if !rl.allow(ctx, "test-ip") {
		t.Error("should be allowed after window expires")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := newTestLimiter(t, 2, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("request %d: got %d, want 200", i+1, rr.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("3rd request: got %d, want 429", rr.Code)
	}
	if got := rr.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After: got %q, want 60", got)
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	// Nothing listens on this port.
	client := redis.NewClient(&redis.Options{Addr: "localhost:1", DialTimeout: 100 * time.Millisecond})
	defer client.Close()

	rl := NewRateLimiter(client, "down", 1, time.Minute)
	for i := 0; i < 3; i++ {
		if !rl.allow(context.Background(), "ip") {
			t.Fatalf("request %d should pass while valkey is down", i+1)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{time.Minute, "60"},
		{1500 * time.Millisecond, "1"},
		{100 * time.Millisecond, "1"},
	}
	for _, tt := range tests {
		if got := formatSeconds(tt.in); got != tt.want {
			t.Errorf("formatSeconds(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"remote addr", "10.0.0.1:1234", "", "", "10.0.0.1"},
		{"x-forwarded-for single", "10.0.0.1:1234", "203.0.113.50", "", "203.0.113.50"},
		{"x-forwarded-for multiple", "10.0.0.1:1234", "203.0.113.50, 70.41.3.18", "", "203.0.113.50"},
		{"x-real-ip", "10.0.0.1:1234", "", "203.0.113.99", "203.0.113.99"},
		{"xff takes precedence", "10.0.0.1:1234", "1.2.3.4", "5.6.7.8", "1.2.3.4"},
		{"no port", "10.0.0.1", "", "", "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
