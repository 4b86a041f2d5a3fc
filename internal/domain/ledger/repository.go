package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// MovementFilter narrows ledger history queries
type MovementFilter struct {
	ProductID   *uuid.UUID
	WarehouseID *uuid.UUID
	Kind        *MovementKind
	SourceType  *SourceType
	SourceID    *uuid.UUID
	From        *time.Time
	To          *time.Time
	Page        int
	PageSize    int
}

// StockMovementRepository defines the interface for the append-only movement ledger.
// Movements are never updated or deleted.
type StockMovementRepository interface {
	// Append persists a new movement
	Append(ctx context.Context, movement *StockMovement) error

	// AppendBatch persists multiple movements atomically
	AppendBatch(ctx context.Context, movements []*StockMovement) error

	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)

	// FindBySource finds all movements produced by a source document
	FindBySource(ctx context.Context, sourceType SourceType, sourceID uuid.UUID) ([]StockMovement, error)

	// History lists movements matching the filter, newest first
	History(ctx context.Context, filter MovementFilter) ([]StockMovement, int64, error)

	// SumQuantity folds the signed deltas for a product in a warehouse.
	// This is the ground truth the stock level cache must agree with.
	SumQuantity(ctx context.Context, productID, warehouseID uuid.UUID) (int64, error)
}

// StockLevelRepository defines the interface for the derived stock level cache
type StockLevelRepository interface {
	// Find finds the stock level for a product in a warehouse
	Find(ctx context.Context, productID, warehouseID uuid.UUID) (*StockLevel, error)

	// FindByWarehouse lists all stock levels in a warehouse
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]StockLevel, error)

	// FindByProduct lists a product's stock levels across all warehouses
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]StockLevel, error)

	// Save persists a stock level, enforcing the expected version.
	// Returns a CONCURRENCY_CONFLICT domain error if the row moved underneath.
	Save(ctx context.Context, level *StockLevel, expectedVersion int) error

	// Create inserts a brand-new stock level row
	Create(ctx context.Context, level *StockLevel) error
}

// StockOpnameRepository defines the interface for opname persistence
type StockOpnameRepository interface {
	// FindByID finds an opname with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*StockOpname, error)

	// FindByWarehouse lists opnames for a warehouse
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]StockOpname, error)

	// Save creates or updates an opname and its lines
	Save(ctx context.Context, opname *StockOpname) error
}
