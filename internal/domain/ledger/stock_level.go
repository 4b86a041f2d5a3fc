package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// StockLevel is the derived on-hand quantity for a product in a warehouse.
// It is a cache over the movement ledger: the quantity must always equal
// the sum of signed movement deltas for the same product and warehouse.
// It carries a version for optimistic concurrency control.
type StockLevel struct {
	shared.BaseAggregateRoot
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_product_wh,priority:1"`
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_product_wh,priority:2"`
	Quantity    int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StockLevel) TableName() string {
	return "stock_levels"
}

// NewStockLevel creates a zero-quantity stock level for a product in a warehouse
func NewStockLevel(productID, warehouseID uuid.UUID) (*StockLevel, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Warehouse ID cannot be empty")
	}

	return &StockLevel{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		WarehouseID:       warehouseID,
		Quantity:          0,
	}, nil
}

// Apply applies a movement of the given kind and quantity to the level.
// Outbound movements that would drive the quantity negative are rejected,
// except adjustments, which trust the physical count.
func (s *StockLevel) Apply(kind MovementKind, quantity int64) error {
	if !kind.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Invalid movement kind")
	}
	if quantity <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}

	delta := quantity
	if kind.IsOutbound() {
		delta = -quantity
	}

	newQuantity := s.Quantity + delta
	if newQuantity < 0 && !kind.IsAdjustment() {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	}
	if newQuantity < 0 {
		// A count can never be negative, so an adjustment below zero is a bug upstream.
		return shared.NewDomainError("VALIDATION_ERROR", "Adjustment would drive stock negative")
	}

	s.Quantity = newQuantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// CanFulfill returns true if the level holds at least the requested quantity
func (s *StockLevel) CanFulfill(quantity int64) bool {
	return quantity > 0 && s.Quantity >= quantity
}
