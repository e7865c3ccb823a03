package http

import (
	"log/slog"
	"net/http"

	"github.com/docforge/docforge/internal/domain/audit"
	"github.com/docforge/docforge/internal/domain/tenant"
	"github.com/docforge/docforge/internal/middleware"
)

// IssueToken handles POST /api/v1/auth/token. The route is exempt from
// the auth middleware; the caller authenticates here with an admin API
// key and exchanges it for a short-lived signed token.
func (h *Handlers) IssueToken(w http.ResponseWriter, r *http.Request) {
	apiKey := r.Header.Get("X-API-Key")
	tenantID := r.Header.Get("X-Tenant-ID")
	if apiKey == "" || tenantID == "" {
		writeError(w, http.StatusUnauthorized, "X-API-Key and X-Tenant-ID are required")
		return
	}

	id, err := h.Auth.ValidateAPIKey(r.Context(), apiKey, tenantID)
	if err != nil {
		slog.Debug("token exchange rejected", "tenant", tenantID, "error", err)
		h.record(r, tenantID, audit.ActionAuthFailed, "token", audit.OutcomeDenied, nil)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !id.HasScope(tenant.ScopeAdminAll) {
		h.record(r, id.TenantID, audit.ActionAuthFailed, "token", audit.OutcomeDenied, nil)
		writeError(w, http.StatusForbidden, "admin scope required")
		return
	}

	resp, err := h.Auth.IssueToken(r.Context(), id.TenantID)
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}

	h.record(r, id.TenantID, audit.ActionTokenIssued, "token", audit.OutcomeSuccess, nil)
	writeJSON(w, http.StatusOK, resp)
}

// CreateAPIKey handles POST /api/v1/keys.
func (h *Handlers) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[tenant.CreateAPIKeyRequest](w, r, h.BodyLimit)
	if !ok {
		return
	}

	tenantID := middleware.TenantIDFromContext(r.Context())
	resp, err := h.Auth.CreateAPIKey(r.Context(), tenantID, req)
	if err != nil {
		writeDomainError(w, err, "api key not created")
		return
	}

	h.record(r, tenantID, audit.ActionKeyCreated, resp.APIKey.ID, audit.OutcomeSuccess,
		map[string]any{"name": resp.APIKey.Name, "scopes": resp.APIKey.Scopes})
	writeJSON(w, http.StatusCreated, resp)
}

// ListAPIKeys handles GET /api/v1/keys.
func (h *Handlers) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	keys, err := h.Auth.ListAPIKeys(r.Context(), tenantID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if keys == nil {
		keys = []tenant.APIKey{}
	}
	writeJSON(w, http.StatusOK, keys)
}

// DeleteAPIKey handles DELETE /api/v1/keys/{id}.
func (h *Handlers) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	id := urlParam(r, "id")

	if err := h.Auth.DeleteAPIKey(r.Context(), tenantID, id); err != nil {
		writeDomainError(w, err, "api key not found")
		return
	}

	h.record(r, tenantID, audit.ActionKeyDeleted, id, audit.OutcomeSuccess, nil)
	w.WriteHeader(http.StatusNoContent)
}
