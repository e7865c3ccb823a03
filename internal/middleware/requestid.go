// Package middleware provides the HTTP middleware chain: request ids,
// authentication, scope checks, and tenant rate limiting.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/docforge/docforge/internal/logger"
)

const headerRequestID = "X-Request-ID"

// maxRequestIDLen bounds caller-supplied ids so they stay usable as a
// log field and an audit column value.
const maxRequestIDLen = 128

// RequestID propagates the caller's X-Request-ID or assigns a fresh
// UUID. The id rides the request context for log and audit correlation
// and is echoed on the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}
