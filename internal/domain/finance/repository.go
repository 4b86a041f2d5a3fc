package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// ReceivableRepository defines the interface for receivable persistence
type ReceivableRepository interface {
	// FindByID finds a receivable with its payments
	FindByID(ctx context.Context, id uuid.UUID) (*Receivable, error)

	// FindByDeliveryOrder finds the receivable opened for a delivery order
	FindByDeliveryOrder(ctx context.Context, deliveryOrderID uuid.UUID) (*Receivable, error)

	// FindByWarung lists receivables for a warung
	FindByWarung(ctx context.Context, warungID uuid.UUID, filter shared.Filter) ([]Receivable, error)

	// FindByStatus lists receivables by status
	FindByStatus(ctx context.Context, status ReceivableStatus, filter shared.Filter) ([]Receivable, error)

	// FindOverdue lists receivables whose status is OVERDUE, most overdue first
	FindOverdue(ctx context.Context, filter shared.Filter) ([]Receivable, error)

	// FindDueForRefresh lists unsettled receivables past the given due date
	// whose stored status has not yet been flipped to OVERDUE
	FindDueForRefresh(ctx context.Context, asOf time.Time, limit int) ([]Receivable, error)

	// Save persists a receivable and its payments, enforcing the expected version.
	// Returns a CONCURRENCY_CONFLICT domain error if the row moved underneath.
	Save(ctx context.Context, receivable *Receivable, expectedVersion int) error

	// Create inserts a brand-new receivable
	Create(ctx context.Context, receivable *Receivable) error

	// Count counts receivables matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
