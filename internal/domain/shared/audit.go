package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditEntry records a state-changing action for traceability
type AuditEntry struct {
	ID         uuid.UUID
	Actor      string
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Detail     string
	OccurredAt time.Time
}

// NewAuditEntry creates an audit entry for the given action
func NewAuditEntry(actor, action, entityType string, entityID uuid.UUID, detail string) AuditEntry {
	return AuditEntry{
		ID:         uuid.New(),
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		OccurredAt: time.Now(),
	}
}

// AuditSink persists audit entries. Implementations must be append-only.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
}
