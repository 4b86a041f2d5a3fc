package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNo finds a purchase order by its order number
	FindByOrderNo(ctx context.Context, orderNo string) (*PurchaseOrder, error)

	// FindAll finds purchase orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByStatus finds purchase orders by status
	FindByStatus(ctx context.Context, status PurchaseOrderStatus, filter shared.Filter) ([]PurchaseOrder, error)

	// Create inserts a brand-new purchase order with its items
	Create(ctx context.Context, order *PurchaseOrder) error

	// Save updates a purchase order and its items, enforcing the version
	// the caller read so racing writers surface as a concurrency conflict
	Save(ctx context.Context, order *PurchaseOrder, expectedVersion int) error

	// Count counts purchase orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByOrderNo checks if an order number is already taken
	ExistsByOrderNo(ctx context.Context, orderNo string) (bool, error)
}

// DeliveryOrderRepository defines the interface for delivery order persistence
type DeliveryOrderRepository interface {
	// FindByID finds a delivery order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*DeliveryOrder, error)

	// FindByOrderNo finds a delivery order by its order number
	FindByOrderNo(ctx context.Context, orderNo string) (*DeliveryOrder, error)

	// FindAll finds delivery orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]DeliveryOrder, error)

	// FindByWarung finds delivery orders for a warung
	FindByWarung(ctx context.Context, warungID uuid.UUID, filter shared.Filter) ([]DeliveryOrder, error)

	// FindByStatus finds delivery orders by status
	FindByStatus(ctx context.Context, status DeliveryOrderStatus, filter shared.Filter) ([]DeliveryOrder, error)

	// Create inserts a brand-new delivery order with its items
	Create(ctx context.Context, order *DeliveryOrder) error

	// Save updates a delivery order and its items, enforcing the version
	// the caller read so racing writers surface as a concurrency conflict
	Save(ctx context.Context, order *DeliveryOrder, expectedVersion int) error

	// Count counts delivery orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByOrderNo checks if an order number is already taken
	ExistsByOrderNo(ctx context.Context, orderNo string) (bool, error)
}
