package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/docforge/docforge/internal/domain/audit"
	"github.com/docforge/docforge/internal/logger"
	"github.com/docforge/docforge/internal/port/database"
	"github.com/docforge/docforge/internal/port/events"
)

// recordTimeout bounds the detached persistence of one audit entry.
const recordTimeout = 5 * time.Second

// AuditService writes the audit trail. Entries land in postgres and are
// fanned out over NATS; neither path can fail a request.
type AuditService struct {
	store     database.Store
	publisher events.Publisher // nil disables fan-out
}

// NewAuditService creates a new audit service. publisher may be nil.
func NewAuditService(store database.Store, publisher events.Publisher) *AuditService {
	return &AuditService{store: store, publisher: publisher}
}

// Record persists an audit entry fire-and-forget. Details are redacted
// before the entry leaves this method; the caller's map is not mutated.
// The write continues past request cancellation so denied and failed
// requests still leave a trail.
func (s *AuditService) Record(ctx context.Context, e audit.Entry) {
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()
	e.Details = audit.Redact(e.Details)
	if e.RequestID == "" {
		e.RequestID = logger.RequestID(ctx)
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		wctx, cancel := context.WithTimeout(detached, recordTimeout)
		defer cancel()

		if err := s.store.InsertAuditEntry(wctx, &e); err != nil {
			slog.Warn("audit entry insert failed", "action", e.Action, "tenant", e.TenantID, "error", err)
		}

		if s.publisher == nil {
			return
		}
		payload, err := json.Marshal(&e)
		if err != nil {
			slog.Warn("audit entry marshal failed", "action", e.Action, "error", err)
			return
		}
		subject := "audit." + e.TenantID + "." + e.Action
		if err := s.publisher.Publish(wctx, subject, payload); err != nil {
			slog.Warn("audit publish failed", "subject", subject, "error", err)
		}
	}()
}
