package http

import (
	"context"
	"net/http"
	"time"

	"github.com/docforge/docforge/internal/domain/audit"
	"github.com/docforge/docforge/internal/service"
)

// ReadyCheck probes one backing dependency for the readiness endpoint.
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Auth      *service.AuthService
	Templates *service.TemplateService
	Documents *service.GenerateService
	Audit     *service.AuditService // nil disables audit recording

	// BodyLimit caps JSON and multipart request bodies, in bytes.
	BodyLimit int64

	ReadyChecks []ReadyCheck
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "docforge"})
}

// Ready handles GET /health/ready. Each configured dependency is probed
// with a short timeout; any failure flips the status to 503.
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	overall := "ok"
	deps := make(map[string]string, len(h.ReadyChecks))
	for _, c := range h.ReadyChecks {
		if err := c.Check(ctx); err != nil {
			deps[c.Name] = "unavailable"
			status = http.StatusServiceUnavailable
			overall = "degraded"
			continue
		}
		deps[c.Name] = "ok"
	}

	writeJSON(w, status, map[string]any{
		"status":       overall,
		"dependencies": deps,
	})
}

// record writes an audit entry for the request, tagging it with the
// transport-level context the services cannot see.
func (h *Handlers) record(r *http.Request, tenantID, action, resource, outcome string, details map[string]any) {
	if h.Audit == nil {
		return
	}
	if details == nil {
		details = make(map[string]any, 4)
	}
	details["method"] = r.Method
	details["path"] = r.URL.Path
	details["client_ip"] = r.RemoteAddr
	details["user_agent"] = r.UserAgent()

	h.Audit.Record(r.Context(), audit.Entry{
		TenantID: tenantID,
		Action:   action,
		Resource: resource,
		Outcome:  outcome,
		Details:  details,
	})
}
