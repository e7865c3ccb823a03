package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/docforge/docforge/internal/domain/tenant"
)

func limitedRequest(tenantID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	ctx := ContextWithIdentity(req.Context(), &tenant.Identity{TenantID: tenantID})
	return req.WithContext(ctx)
}

func TestRateLimitWithinQuota(t *testing.T) {
	rl := NewRateLimiter(5)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := range 5 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, limitedRequest("acme"))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
}

func TestRateLimitExceeded(t *testing.T) {
	rl := NewRateLimiter(2)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for range 2 {
		h.ServeHTTP(httptest.NewRecorder(), limitedRequest("acme"))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, limitedRequest("acme"))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("remaining = %s", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimitPerTenant(t *testing.T) {
	rl := NewRateLimiter(1)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), limitedRequest("acme"))

	// A different tenant has its own window.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, limitedRequest("globex"))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, other tenant should not be limited", rec.Code)
	}
}

func TestRateLimitWindowResets(t *testing.T) {
	rl := NewRateLimiter(1)
	clock := time.Date(2026, 3, 1, 10, 0, 30, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	if _, _, allowed := rl.allow("acme"); !allowed {
		t.Fatal("first request should pass")
	}
	if _, _, allowed := rl.allow("acme"); allowed {
		t.Fatal("second request in same window should be rejected")
	}

	clock = clock.Add(time.Minute)
	if _, _, allowed := rl.allow("acme"); !allowed {
		t.Error("request in next window should pass")
	}
}

func TestRateLimitCleanup(t *testing.T) {
	rl := NewRateLimiter(10)
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	rl.allow("acme")
	rl.allow("globex")
	if rl.Len() != 2 {
		t.Fatalf("windows = %d", rl.Len())
	}

	clock = clock.Add(10 * time.Minute)
	rl.cleanup(5 * time.Minute)
	if rl.Len() != 0 {
		t.Errorf("windows after cleanup = %d, want 0", rl.Len())
	}
}

func TestRateLimitUnauthenticatedPassthrough(t *testing.T) {
	rl := NewRateLimiter(0)
	var called bool
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Error("requests without identity should pass through")
	}
}
