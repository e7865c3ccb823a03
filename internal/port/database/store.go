// Package database defines the database store port (interface).
package database

import (
	"context"
	"time"

	"github.com/docforge/docforge/internal/domain/audit"
	"github.com/docforge/docforge/internal/domain/document"
	"github.com/docforge/docforge/internal/domain/template"
	"github.com/docforge/docforge/internal/domain/tenant"
)

// Store is the port interface for metadata persistence. Template and
// document lookups are tenant-scoped: an ID owned by another tenant
// behaves exactly like a missing one (domain.ErrNotFound).
type Store interface {
	// Tenants
	CreateTenant(ctx context.Context, req tenant.CreateRequest) (*tenant.Tenant, error)
	GetTenant(ctx context.Context, id string) (*tenant.Tenant, error)
	ListTenants(ctx context.Context) ([]tenant.Tenant, error)
	UpdateTenant(ctx context.Context, t *tenant.Tenant) error
	DeleteTenant(ctx context.Context, id string) error

	// API keys
	CreateAPIKey(ctx context.Context, key *tenant.APIKey) error
	GetAPIKeyByHash(ctx context.Context, keyHash string) (*tenant.APIKey, error)
	ListAPIKeysByTenant(ctx context.Context, tenantID string) ([]tenant.APIKey, error)
	DeleteAPIKey(ctx context.Context, tenantID, id string) error

	// Templates (metadata; raw bytes live in the object store)
	CreateTemplate(ctx context.Context, t *template.Template) error
	GetTemplate(ctx context.Context, tenantID, id string) (*template.Template, error)
	ListTemplates(ctx context.Context, tenantID string) ([]template.Template, error)
	DeleteTemplate(ctx context.Context, tenantID, id string) error

	// Generated documents (metadata)
	CreateDocument(ctx context.Context, d *document.Document) error
	GetDocument(ctx context.Context, tenantID, id string) (*document.Document, error)
	DeleteDocument(ctx context.Context, tenantID, id string) error
	// ListExpiredDocuments returns documents whose expiry is before cutoff,
	// for the retention sweep.
	ListExpiredDocuments(ctx context.Context, cutoff time.Time, limit int) ([]document.Document, error)

	// Audit
	InsertAuditEntry(ctx context.Context, e *audit.Entry) error
}
