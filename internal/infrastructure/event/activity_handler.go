package event

import (
	"context"

	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"go.uber.org/zap"
)

// ActivityLogHandler records every domain event as a structured log
// line, giving operators a single activity stream across warehouses,
// orders and receivables without querying the outbox table
type ActivityLogHandler struct {
	logger *zap.Logger
}

func NewActivityLogHandler(logger *zap.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{logger: logger}
}

// EventTypes returns nil so the handler subscribes as a wildcard and
// receives every event type
func (h *ActivityLogHandler) EventTypes() []string {
	return nil
}

func (h *ActivityLogHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	h.logger.Info("domain activity",
		zap.String("event_type", e.EventType()),
		zap.String("event_id", e.EventID().String()),
		zap.String("aggregate_type", e.AggregateType()),
		zap.String("aggregate_id", e.AggregateID().String()),
		zap.Time("occurred_at", e.OccurredAt()),
	)
	return nil
}

var _ shared.EventHandler = (*ActivityLogHandler)(nil)
