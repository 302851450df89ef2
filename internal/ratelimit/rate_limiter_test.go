package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterMiddleware(t *testing.T) {
	limiter := New(0.001, 2)

	handler := limiter.Middleware(RemoteAddr, http.MethodPost)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(method, remoteAddr string) int {
		req := httptest.NewRequest(method, "/login", nil)
		req.RemoteAddr = remoteAddr
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		return res.Code
	}

	for i := 0; i < 2; i++ {
		if e, g := http.StatusNoContent, do(http.MethodPost, "10.0.0.1:1234"); e != g {
			t.Fatalf("request #%d: expected status '%v', got '%v'", i, e, g)
		}
	}

	if e, g := http.StatusTooManyRequests, do(http.MethodPost, "10.0.0.1:5678"); e != g {
		t.Errorf("third request: expected status '%v', got '%v'", e, g)
	}

	if e, g := http.StatusNoContent, do(http.MethodPost, "10.0.0.2:1234"); e != g {
		t.Errorf("other client: expected status '%v', got '%v'", e, g)
	}

	if e, g := http.StatusNoContent, do(http.MethodGet, "10.0.0.1:1234"); e != g {
		t.Errorf("unlimited method: expected status '%v', got '%v'", e, g)
	}
}

func TestRateLimiterPrune(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	limiter := New(0.001, 1)
	limiter.now = func() time.Time { return now }
	limiter.lastPrune.Store(now.UnixNano())

	if !limiter.Allow("10.0.0.1") {
		t.Fatalf("first request: expected to be allowed")
	}

	if limiter.Allow("10.0.0.1") {
		t.Fatalf("second request: expected to be limited")
	}

	now = now.Add(time.Minute)

	if !limiter.Allow("10.0.0.2") {
		t.Fatalf("other client: expected to be allowed")
	}

	if e, g := 0, limiter.Prune(now.Add(-2*time.Minute)); e != g {
		t.Errorf("limiter.Prune(): expected '%v', got '%v'", e, g)
	}

	if e, g := 1, limiter.Prune(now.Add(-30*time.Second)); e != g {
		t.Errorf("limiter.Prune(): expected '%v', got '%v'", e, g)
	}

	// A forgotten client starts again with a full bucket
	if !limiter.Allow("10.0.0.1") {
		t.Errorf("pruned client: expected to be allowed")
	}

	now = now.Add(DefaultIdleTimeout + time.Minute)

	// Requests past the idle timeout trigger a prune of both clients
	limiter.Allow("10.0.0.3")

	remaining := 0
	limiter.clients.Range(func(key string, c *client) bool {
		remaining++
		return true
	})

	if e, g := 1, remaining; e != g {
		t.Errorf("remaining clients: expected '%v', got '%v'", e, g)
	}
}
