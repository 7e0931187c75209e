package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/goldenspoon/dinebot/internal/domain/response"
)

func TestRateLimiter_PerClientBurst(t *testing.T) {
	l := NewRateLimiter(1, 2)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	if !l.Allow("10.0.0.1") || !l.Allow("10.0.0.1") {
		t.Fatal("burst of 2 should be allowed")
	}
	if l.Allow("10.0.0.1") {
		t.Error("third request should be limited")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("other clients have their own bucket")
	}

	now = now.Add(time.Second)
	if !l.Allow("10.0.0.1") {
		t.Error("token should refill after a second")
	}
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	l := NewRateLimiter(1, 1)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")
	now = now.Add(idleClientTTL + sweepEvery + time.Second)
	l.Allow("10.0.0.2")

	if _, ok := l.clients["10.0.0.1"]; ok {
		t.Error("idle client should have been swept")
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	l := NewRateLimiter(1, 1)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.RemoteAddr = "192.0.2.1:5555"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestRateLimiter_DisabledPassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {})
	l := NewRateLimiter(0, 0)
	for range 10 {
		rec := httptest.NewRecorder()
		l.Middleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	}
}

func TestClientKey(t *testing.T) {
	tests := map[string]string{
		"192.0.2.1:5555":   "192.0.2.1",
		"[2001:db8::1]:80": "2001:db8::1",
		"unix":             "unix",
	}
	for addr, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = addr
		if got := clientKey(r); got != want {
			t.Errorf("clientKey(%q) = %q, want %q", addr, got, want)
		}
	}
}

func TestRoutes_RateLimitOnlyGuardsChat(t *testing.T) {
	r := chi.NewRouter()
	NewServer(&stubChat{env: response.Envelope{Response: "ok"}}, nil, nil).
		WithRateLimiter(NewRateLimiter(0.01, 1)).
		Routes(r)

	if rec := do(t, r, http.MethodPost, "/api/chat", `{"message":"hi"}`); rec.Code != http.StatusOK {
		t.Fatalf("first chat: expected 200, got %d", rec.Code)
	}
	if rec := do(t, r, http.MethodPost, "/api/chat", `{"message":"hi"}`); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second chat: expected 429, got %d", rec.Code)
	}
	for range 3 {
		if rec := do(t, r, http.MethodGet, "/api/categories", ""); rec.Code != http.StatusOK {
			t.Fatalf("categories should not be limited, got %d", rec.Code)
		}
	}
}
