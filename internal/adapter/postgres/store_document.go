package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/docforge/docforge/internal/domain/document"
)

func (s *Store) CreateDocument(ctx context.Context, d *document.Document) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO documents (id, tenant_id, template_id, format, size_bytes, encrypted, storage_key, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID, d.TenantID, nullIfEmpty(d.TemplateID), string(d.Format), d.SizeBytes, d.Encrypted, d.StorageKey, d.CreatedAt, nullTime(d.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (s *Store) GetDocument(ctx context.Context, tenantID, id string) (*document.Document, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, COALESCE(template_id, ''), format, size_bytes, encrypted, storage_key, created_at, expires_at
		FROM documents WHERE id = $1 AND tenant_id = $2`, id, tenantID)

	d, err := scanDocument(row)
	if err != nil {
		return nil, notFoundWrap(err, "get document %s", id)
	}
	return d, nil
}

func (s *Store) DeleteDocument(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	return execExpectOne(tag, err, "delete document %s", id)
}

func (s *Store) ListExpiredDocuments(ctx context.Context, cutoff time.Time, limit int) ([]document.Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, COALESCE(template_id, ''), format, size_bytes, encrypted, storage_key, created_at, expires_at
		FROM documents WHERE expires_at IS NOT NULL AND expires_at < $1
		ORDER BY expires_at ASC LIMIT $2`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired documents: %w", err)
	}
	defer rows.Close()

	var docs []document.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

func scanDocument(row scannable) (*document.Document, error) {
	var d document.Document
	var format string
	var expiresAt sql.NullTime
	err := row.Scan(&d.ID, &d.TenantID, &d.TemplateID, &format, &d.SizeBytes, &d.Encrypted, &d.StorageKey, &d.CreatedAt, &expiresAt)
	if err != nil {
		return nil, err
	}
	d.Format = document.Format(format)
	if expiresAt.Valid {
		d.ExpiresAt = expiresAt.Time
	}
	return &d, nil
}
