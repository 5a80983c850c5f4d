package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := NewRateLimiter(1, 3)
	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request beyond burst should be rejected")
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	if !rl.Allow("10.0.0.1") {
		t.Fatal("first IP should be allowed")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("second IP has its own bucket")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimit(1, 1, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/leads", nil)
	req.RemoteAddr = "10.0.0.9:51234"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
}

func TestRateLimitKeysOnHostNotPort(t *testing.T) {
	h := RateLimit(1, 1, nil)(okHandler())

	first := httptest.NewRequest(http.MethodPost, "/api/leads", nil)
	first.RemoteAddr = "10.0.0.9:51234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	// Same host, new ephemeral port: still the same bucket.
	second := httptest.NewRequest(http.MethodPost, "/api/leads", nil)
	second.RemoteAddr = "10.0.0.9:60000"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, second)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	if got := clientIP("203.0.113.7:8080"); got != "203.0.113.7" {
		t.Errorf("clientIP with port = %q", got)
	}
	if got := clientIP("203.0.113.7"); got != "203.0.113.7" {
		t.Errorf("clientIP without port = %q", got)
	}
}
