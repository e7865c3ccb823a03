package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/docforge/docforge/internal/domain/tenant"
)

type identityCtxKey struct{}

// publicPaths are exempt from authentication.
var publicPaths = map[string]bool{
	"/health":            true,
	"/health/ready":      true,
	"/api/v1/auth/token": true,
}

// CredentialValidator verifies raw credentials and produces an identity.
type CredentialValidator interface {
	ValidateToken(tokenStr string) (*tenant.Identity, error)
	ValidateAPIKey(ctx context.Context, rawKey, tenantID string) (*tenant.Identity, error)
}

// Auth returns middleware that authenticates every request. A Bearer token
// is checked first; when absent, the X-API-Key header together with
// X-Tenant-ID is tried. Requests with neither credential are rejected.
func Auth(validator CredentialValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				token := strings.TrimPrefix(authHeader, "Bearer ")
				if token == authHeader {
					unauthorized(w, "invalid authorization header")
					return
				}
				id, err := validator.ValidateToken(token)
				if err != nil {
					slog.Debug("bearer token rejected", "error", err)
					unauthorized(w, "invalid token")
					return
				}
				next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
				return
			}

			if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
				id, err := validator.ValidateAPIKey(r.Context(), apiKey, r.Header.Get("X-Tenant-ID"))
				if err != nil {
					unauthorized(w, "invalid api key")
					return
				}
				next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
				return
			}

			unauthorized(w, "authorization required")
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func withIdentity(ctx context.Context, id *tenant.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFromContext returns the authenticated identity, or nil on
// unauthenticated paths.
func IdentityFromContext(ctx context.Context) *tenant.Identity {
	return identityFrom(ctx)
}

// TenantIDFromContext returns the authenticated tenant ID, or "".
func TenantIDFromContext(ctx context.Context) string {
	if id := identityFrom(ctx); id != nil {
		return id.TenantID
	}
	return ""
}

func identityFrom(ctx context.Context) *tenant.Identity {
	id, _ := ctx.Value(identityCtxKey{}).(*tenant.Identity)
	return id
}

// ContextWithIdentity injects an identity into a context. Exported for
// handler tests that bypass the Auth middleware.
func ContextWithIdentity(ctx context.Context, id *tenant.Identity) context.Context {
	return withIdentity(ctx, id)
}
