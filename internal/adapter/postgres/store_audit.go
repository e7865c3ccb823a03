package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/docforge/docforge/internal/domain/audit"
)

// InsertAuditEntry persists one audit record. Entries are append-only;
// there is no update or delete path.
func (s *Store) InsertAuditEntry(ctx context.Context, e *audit.Entry) error {
	var detailsJSON []byte
	if e.Details != nil {
		var err error
		detailsJSON, err = json.Marshal(e.Details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_entries (id, tenant_id, action, resource, outcome, details, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.TenantID, e.Action, e.Resource, e.Outcome, detailsJSON, e.RequestID, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
