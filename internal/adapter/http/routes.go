package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/docforge/docforge/internal/domain/tenant"
	"github.com/docforge/docforge/internal/middleware"
)

// MountRoutes registers all API routes on the given chi router. The auth
// and rate-limit middleware are installed by the caller; scope checks are
// applied per route group here.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/health", h.Health)
	r.Get("/health/ready", h.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		// Token exchange (public route, credential checked in the handler).
		r.Post("/auth/token", h.IssueToken)

		// API key management (admin only)
		r.Route("/keys", func(r chi.Router) {
			r.Use(middleware.RequireScope(tenant.ScopeAdminAll))
			r.Post("/", h.CreateAPIKey)
			r.Get("/", h.ListAPIKeys)
			r.Delete("/{id}", h.DeleteAPIKey)
		})

		// Templates
		r.Route("/templates", func(r chi.Router) {
			r.With(middleware.RequireScope(tenant.ScopeTemplatesWrite)).Post("/", h.UploadTemplate)
			r.With(middleware.RequireScope(tenant.ScopeTemplatesRead)).Get("/", h.ListTemplates)
			r.With(middleware.RequireScope(tenant.ScopeTemplatesRead)).Get("/{id}", h.GetTemplate)
			r.With(middleware.RequireScope(tenant.ScopeTemplatesRead)).Get("/{id}/variables", h.TemplateVariables)
			r.With(middleware.RequireScope(tenant.ScopeTemplatesWrite)).Delete("/{id}", h.DeleteTemplate)
		})

		// Documents
		r.Route("/documents", func(r chi.Router) {
			r.With(middleware.RequireScope(tenant.ScopeDocumentsWrite)).Post("/", h.GenerateDocument)
			r.With(middleware.RequireScope(tenant.ScopeDocumentsRead)).Get("/{id}", h.DownloadDocument)
			r.With(middleware.RequireScope(tenant.ScopeDocumentsWrite)).Delete("/{id}", h.DeleteDocument)
		})
	})
}
