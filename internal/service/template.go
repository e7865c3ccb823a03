package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/docforge/docforge/internal/docx"
	"github.com/docforge/docforge/internal/domain"
	"github.com/docforge/docforge/internal/domain/template"
	"github.com/docforge/docforge/internal/domain/tenant"
	"github.com/docforge/docforge/internal/port/cache"
	"github.com/docforge/docforge/internal/port/database"
	"github.com/docforge/docforge/internal/port/objectstore"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// TemplateService manages tenant templates: upload with variable
// extraction, retrieval, and deletion. Raw bytes are kept in the object
// store behind a write-through cache; metadata lives in postgres.
type TemplateService struct {
	store   database.Store
	objects objectstore.ObjectStore
	cache   cache.Cache
}

// NewTemplateService creates a new template service.
func NewTemplateService(store database.Store, objects objectstore.ObjectStore, c cache.Cache) *TemplateService {
	return &TemplateService{store: store, objects: objects, cache: c}
}

// Upload validates and parses a DOCX payload, extracts its placeholders,
// stores the bytes in the tenant's namespace, and records the metadata.
func (s *TemplateService) Upload(ctx context.Context, tenantID, name string, data []byte) (*template.Template, error) {
	if err := template.ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty template payload", domain.ErrValidation)
	}

	variables, err := docx.ExtractVariables(data)
	if err != nil {
		return nil, fmt.Errorf("extract variables: %w", err)
	}

	paths, err := tenant.PathsFor(tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	t := &template.Template{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		Name:       name,
		Variables:  variables,
		SizeBytes:  int64(len(data)),
		UploadedAt: time.Now().UTC(),
	}
	t.StorageKey = paths.Templates + "/" + t.ID + ".docx"

	if err := s.objects.Put(ctx, t.StorageKey, data, docxContentType); err != nil {
		return nil, fmt.Errorf("store template: %w", err)
	}
	if err := s.store.CreateTemplate(ctx, t); err != nil {
		// Best-effort rollback of the orphaned object.
		if delErr := s.objects.Delete(ctx, t.StorageKey); delErr != nil {
			slog.Warn("failed to clean up orphaned template object", "key", t.StorageKey, "error", delErr)
		}
		return nil, fmt.Errorf("create template: %w", err)
	}

	if err := s.cache.Set(ctx, t.StorageKey, data, 0); err != nil {
		slog.Warn("template cache set failed", "key", t.StorageKey, "error", err)
	}

	return t, nil
}

// Get returns template metadata. Another tenant's template is ErrNotFound.
func (s *TemplateService) Get(ctx context.Context, tenantID, id string) (*template.Template, error) {
	return s.store.GetTemplate(ctx, tenantID, id)
}

// List returns all of the tenant's templates, newest first.
func (s *TemplateService) List(ctx context.Context, tenantID string) ([]template.Template, error) {
	return s.store.ListTemplates(ctx, tenantID)
}

// Variables returns the placeholders extracted at upload time.
func (s *TemplateService) Variables(ctx context.Context, tenantID, id string) ([]string, error) {
	t, err := s.store.GetTemplate(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return t.Variables, nil
}

// Bytes loads the raw template, serving from the cache when warm.
func (s *TemplateService) Bytes(ctx context.Context, tenantID, id string) ([]byte, error) {
	t, err := s.store.GetTemplate(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if data, ok, err := s.cache.Get(ctx, t.StorageKey); err == nil && ok {
		return data, nil
	}

	data, err := s.objects.Get(ctx, t.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load template bytes: %w", err)
	}
	if err := s.cache.Set(ctx, t.StorageKey, data, 0); err != nil {
		slog.Warn("template cache set failed", "key", t.StorageKey, "error", err)
	}
	return data, nil
}

// Delete removes the metadata row, the stored object, and the cache entry.
func (s *TemplateService) Delete(ctx context.Context, tenantID, id string) error {
	t, err := s.store.GetTemplate(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTemplate(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.objects.Delete(ctx, t.StorageKey); err != nil {
		slog.Warn("failed to delete template object", "key", t.StorageKey, "error", err)
	}
	if err := s.cache.Delete(ctx, t.StorageKey); err != nil {
		slog.Warn("failed to evict template cache entry", "key", t.StorageKey, "error", err)
	}
	return nil
}
