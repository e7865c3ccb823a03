package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// RateLimiter enforces a fixed-window per-tenant request quota. Windows are
// keyed by (tenant, epoch minute): the count resets at the top of each
// minute rather than sliding.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[windowKey]int
	limit   int
	now     func() time.Time // for testing
}

type windowKey struct {
	tenantID string
	minute   int64
}

// NewRateLimiter creates a rate limiter allowing limit requests per tenant
// per minute.
func NewRateLimiter(limit int) *RateLimiter {
	return &RateLimiter{
		windows: make(map[windowKey]int),
		limit:   limit,
		now:     time.Now,
	}
}

// Handler returns HTTP middleware that enforces the per-tenant quota.
// Unauthenticated paths pass through; they are capped elsewhere.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := TenantIDFromContext(r.Context())
		if tenantID == "" {
			next.ServeHTTP(w, r)
			return
		}

		remaining, reset, allowed := rl.allow(tenantID)

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", reset.Unix()))

		if !allowed {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(time.Until(reset).Seconds())+1))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow counts a request against the tenant's current window. It reports
// the remaining quota and when the window resets.
func (rl *RateLimiter) allow(tenantID string) (remaining int, reset time.Time, allowed bool) {
	now := rl.now()
	minute := now.Unix() / 60
	reset = time.Unix((minute+1)*60, 0)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	key := windowKey{tenantID: tenantID, minute: minute}
	count := rl.windows[key]
	if count >= rl.limit {
		return 0, reset, false
	}
	rl.windows[key] = count + 1
	return rl.limit - count - 1, reset, true
}

// StartCleanup spawns a goroutine that drops windows older than maxAge
// every interval. Returns a cancel function that stops the goroutine.
func (rl *RateLimiter) StartCleanup(interval, maxAge time.Duration) func() {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.cleanup(maxAge)
			}
		}
	}()
	return cancel
}

func (rl *RateLimiter) cleanup(maxAge time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-maxAge).Unix() / 60
	for key := range rl.windows {
		if key.minute < cutoff {
			delete(rl.windows, key)
		}
	}
}

// Len returns the number of tracked windows (for metrics and testing).
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.windows)
}
