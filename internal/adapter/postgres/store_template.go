package postgres

import (
	"context"
	"fmt"

	"github.com/docforge/docforge/internal/domain/template"
)

func (s *Store) CreateTemplate(ctx context.Context, t *template.Template) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO templates (id, tenant_id, name, variables, size_bytes, storage_key, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.TenantID, t.Name, pgTextArray(t.Variables), t.SizeBytes, t.StorageKey, t.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

func (s *Store) GetTemplate(ctx context.Context, tenantID, id string) (*template.Template, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, name, variables, size_bytes, storage_key, uploaded_at
		FROM templates WHERE id = $1 AND tenant_id = $2`, id, tenantID)

	t, err := scanTemplate(row)
	if err != nil {
		return nil, notFoundWrap(err, "get template %s", id)
	}
	return t, nil
}

func (s *Store) ListTemplates(ctx context.Context, tenantID string) ([]template.Template, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, name, variables, size_bytes, storage_key, uploaded_at
		FROM templates WHERE tenant_id = $1 ORDER BY uploaded_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []template.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (s *Store) DeleteTemplate(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM templates WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	return execExpectOne(tag, err, "delete template %s", id)
}

func scanTemplate(row scannable) (*template.Template, error) {
	var t template.Template
	err := row.Scan(&t.ID, &t.TenantID, &t.Name, &t.Variables, &t.SizeBytes, &t.StorageKey, &t.UploadedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
