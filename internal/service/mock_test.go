package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/docforge/docforge/internal/domain"
	"github.com/docforge/docforge/internal/domain/audit"
	"github.com/docforge/docforge/internal/domain/document"
	"github.com/docforge/docforge/internal/domain/template"
	"github.com/docforge/docforge/internal/domain/tenant"
)

// mockStore is an in-memory database.Store for service tests.
type mockStore struct {
	mu        sync.Mutex
	tenants   map[string]*tenant.Tenant
	apiKeys   map[string]*tenant.APIKey // by hash
	templates map[string]*template.Template
	documents map[string]*document.Document
	audits    []audit.Entry

	failAudit bool
}

func newMockStore() *mockStore {
	return &mockStore{
		tenants:   make(map[string]*tenant.Tenant),
		apiKeys:   make(map[string]*tenant.APIKey),
		templates: make(map[string]*template.Template),
		documents: make(map[string]*document.Document),
	}
}

func (m *mockStore) CreateTenant(_ context.Context, req tenant.CreateRequest) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tenants[req.ID]; ok {
		return nil, fmt.Errorf("tenant exists: %w", domain.ErrConflict)
	}
	t := &tenant.Tenant{ID: req.ID, Name: req.Name, Enabled: true, CreatedAt: time.Now()}
	m.tenants[req.ID] = t
	return t, nil
}

func (m *mockStore) GetTenant(_ context.Context, id string) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[id]
	if !ok {
		return nil, fmt.Errorf("get tenant %s: %w", id, domain.ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (m *mockStore) ListTenants(_ context.Context) ([]tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tenant.Tenant
	for _, t := range m.tenants {
		out = append(out, *t)
	}
	return out, nil
}

func (m *mockStore) UpdateTenant(_ context.Context, t *tenant.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tenants[t.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *t
	m.tenants[t.ID] = &cp
	return nil
}

func (m *mockStore) DeleteTenant(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tenants[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.tenants, id)
	return nil
}

func (m *mockStore) CreateAPIKey(_ context.Context, key *tenant.APIKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *key
	m.apiKeys[key.KeyHash] = &cp
	return nil
}

func (m *mockStore) GetAPIKeyByHash(_ context.Context, keyHash string) (*tenant.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.apiKeys[keyHash]
	if !ok {
		return nil, fmt.Errorf("get api key: %w", domain.ErrNotFound)
	}
	cp := *k
	return &cp, nil
}

func (m *mockStore) ListAPIKeysByTenant(_ context.Context, tenantID string) ([]tenant.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tenant.APIKey
	for _, k := range m.apiKeys {
		if k.TenantID == tenantID {
			out = append(out, *k)
		}
	}
	return out, nil
}

func (m *mockStore) DeleteAPIKey(_ context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, k := range m.apiKeys {
		if k.ID == id && k.TenantID == tenantID {
			delete(m.apiKeys, hash)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) CreateTemplate(_ context.Context, t *template.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.templates {
		if existing.TenantID == t.TenantID && existing.Name == t.Name {
			return fmt.Errorf("duplicate name: %w", domain.ErrConflict)
		}
	}
	cp := *t
	m.templates[t.ID] = &cp
	return nil
}

func (m *mockStore) GetTemplate(_ context.Context, tenantID, id string) (*template.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok || t.TenantID != tenantID {
		return nil, fmt.Errorf("get template %s: %w", id, domain.ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (m *mockStore) ListTemplates(_ context.Context, tenantID string) ([]template.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []template.Template
	for _, t := range m.templates {
		if t.TenantID == tenantID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockStore) DeleteTemplate(_ context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok || t.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(m.templates, id)
	return nil
}

func (m *mockStore) CreateDocument(_ context.Context, d *document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	m.documents[d.ID] = &cp
	return nil
}

func (m *mockStore) GetDocument(_ context.Context, tenantID, id string) (*document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.documents[id]
	if !ok || d.TenantID != tenantID {
		return nil, fmt.Errorf("get document %s: %w", id, domain.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

func (m *mockStore) DeleteDocument(_ context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.documents[id]
	if !ok || d.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(m.documents, id)
	return nil
}

func (m *mockStore) ListExpiredDocuments(_ context.Context, cutoff time.Time, limit int) ([]document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []document.Document
	for _, d := range m.documents {
		if !d.ExpiresAt.IsZero() && d.ExpiresAt.Before(cutoff) && len(out) < limit {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *mockStore) InsertAuditEntry(_ context.Context, e *audit.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAudit {
		return fmt.Errorf("audit insert: %w", domain.ErrStorage)
	}
	m.audits = append(m.audits, *e)
	return nil
}

func (m *mockStore) auditEntries() []audit.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]audit.Entry, len(m.audits))
	copy(out, m.audits)
	return out
}

// mockObjects is an in-memory object store.
type mockObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMockObjects() *mockObjects {
	return &mockObjects{objects: make(map[string][]byte)}
}

func (m *mockObjects) Put(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.objects[key] = cp
	return nil
}

func (m *mockObjects) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("get object %s: %w", key, domain.ErrNotFound)
	}
	return data, nil
}

func (m *mockObjects) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// mockCache is a TTL-less in-memory cache.
type mockCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{items: make(map[string][]byte)}
}

func (m *mockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *mockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// mockConverter returns canned PDF bytes or an error.
type mockConverter struct {
	pdf   []byte
	err   error
	calls int
}

func (m *mockConverter) Convert(_ context.Context, _ []byte) ([]byte, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.pdf, nil
}

// mockPublisher records published audit events.
type mockPublisher struct {
	mu       sync.Mutex
	subjects []string
	err      error
}

func (m *mockPublisher) Publish(_ context.Context, subject string, _ []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.subjects = append(m.subjects, subject)
	return nil
}

func (m *mockPublisher) published() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.subjects))
	copy(out, m.subjects)
	return out
}
