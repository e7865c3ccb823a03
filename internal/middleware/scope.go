package middleware

import (
	"net/http"
)

// RequireScope returns middleware that checks the identity's credential
// scopes. Token identities carry nil scopes and pass through; API key
// identities must hold the required scope (or admin:all).
func RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromContext(r.Context())
			if id == nil {
				unauthorized(w, "authorization required")
				return
			}

			if !id.HasScope(scope) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"insufficient scope"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
