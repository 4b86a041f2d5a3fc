package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// WarehouseRepository defines the interface for warehouse persistence
type WarehouseRepository interface {
	// FindByID finds a warehouse by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)

	// FindByCode finds a warehouse by its code
	FindByCode(ctx context.Context, code string) (*Warehouse, error)

	// FindAll finds all warehouses matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Warehouse, error)

	// FindActive finds all active warehouses
	FindActive(ctx context.Context) ([]Warehouse, error)

	// Save creates or updates a warehouse
	Save(ctx context.Context, warehouse *Warehouse) error

	// Delete deletes a warehouse
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByCode checks if a warehouse with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// WarungRepository defines the interface for warung persistence
type WarungRepository interface {
	// FindByID finds a warung by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Warung, error)

	// FindByCode finds a warung by its code
	FindByCode(ctx context.Context, code string) (*Warung, error)

	// FindAll finds all warungs matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Warung, error)

	// FindByStatus finds warungs by status
	FindByStatus(ctx context.Context, status WarungStatus, filter shared.Filter) ([]Warung, error)

	// Save creates or updates a warung
	Save(ctx context.Context, warung *Warung) error

	// Delete deletes a warung
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts warungs matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a warung with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
