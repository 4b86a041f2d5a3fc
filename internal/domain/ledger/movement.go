package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// MovementKind represents the kind of stock movement
type MovementKind string

const (
	// MovementKindPurchaseIn represents stock received from a supplier
	MovementKindPurchaseIn MovementKind = "PURCHASE_IN"
	// MovementKindSaleOut represents stock shipped to a warung
	MovementKindSaleOut MovementKind = "SALE_OUT"
	// MovementKindTransferOut represents stock leaving a warehouse for another warehouse
	MovementKindTransferOut MovementKind = "TRANSFER_OUT"
	// MovementKindTransferIn represents stock arriving from another warehouse
	MovementKindTransferIn MovementKind = "TRANSFER_IN"
	// MovementKindAdjustmentIn represents a positive correction from a stock count
	MovementKindAdjustmentIn MovementKind = "ADJUSTMENT_IN"
	// MovementKindAdjustmentOut represents a negative correction from a stock count
	MovementKindAdjustmentOut MovementKind = "ADJUSTMENT_OUT"
)

// String returns the string representation of MovementKind
func (k MovementKind) String() string {
	return string(k)
}

// IsValid returns true if the movement kind is valid
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementKindPurchaseIn,
		MovementKindSaleOut,
		MovementKindTransferOut,
		MovementKindTransferIn,
		MovementKindAdjustmentIn,
		MovementKindAdjustmentOut:
		return true
	}
	return false
}

// IsInbound returns true if this kind increases on-hand quantity
func (k MovementKind) IsInbound() bool {
	switch k {
	case MovementKindPurchaseIn, MovementKindTransferIn, MovementKindAdjustmentIn:
		return true
	}
	return false
}

// IsOutbound returns true if this kind decreases on-hand quantity
func (k MovementKind) IsOutbound() bool {
	switch k {
	case MovementKindSaleOut, MovementKindTransferOut, MovementKindAdjustmentOut:
		return true
	}
	return false
}

// IsAdjustment returns true if this kind originates from a stock count
func (k MovementKind) IsAdjustment() bool {
	return k == MovementKindAdjustmentIn || k == MovementKindAdjustmentOut
}

// SourceType represents the source document type for a movement
type SourceType string

const (
	// SourceTypePurchaseOrder is a purchase order receipt
	SourceTypePurchaseOrder SourceType = "PURCHASE_ORDER"
	// SourceTypeDeliveryOrder is a delivery order fulfillment
	SourceTypeDeliveryOrder SourceType = "DELIVERY_ORDER"
	// SourceTypeTransfer is an inter-warehouse transfer
	SourceTypeTransfer SourceType = "TRANSFER"
	// SourceTypeOpname is a stock count reconciliation
	SourceTypeOpname SourceType = "OPNAME"
	// SourceTypeManual is a manually recorded movement
	SourceTypeManual SourceType = "MANUAL"
)

// String returns the string representation of SourceType
func (s SourceType) String() string {
	return string(s)
}

// IsValid returns true if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypePurchaseOrder,
		SourceTypeDeliveryOrder,
		SourceTypeTransfer,
		SourceTypeOpname,
		SourceTypeManual:
		return true
	}
	return false
}

// StockMovement is an immutable, append-only record of stock changing hands.
// Corrections are never edits; they are new adjustment movements.
type StockMovement struct {
	shared.BaseEntity
	ProductID     uuid.UUID    `gorm:"type:uuid;not null;index:idx_movement_product_wh,priority:1"`
	WarehouseID   uuid.UUID    `gorm:"type:uuid;not null;index:idx_movement_product_wh,priority:2"`
	Kind          MovementKind `gorm:"type:varchar(20);not null;index"`
	Quantity      int64        `gorm:"not null"` // Always positive, direction determined by Kind
	BalanceBefore int64        `gorm:"not null"` // On-hand quantity in the warehouse before this movement
	BalanceAfter  int64        `gorm:"not null"` // On-hand quantity in the warehouse after this movement
	SourceType    SourceType   `gorm:"type:varchar(20);not null;index:idx_movement_source,priority:1"`
	SourceID      *uuid.UUID   `gorm:"type:uuid;index:idx_movement_source,priority:2"`
	PairID        *uuid.UUID   `gorm:"type:uuid;index"` // Links the two legs of a transfer
	Note          string       `gorm:"type:varchar(255)"`
	Actor         string       `gorm:"type:varchar(100)"`
	OccurredAt    time.Time    `gorm:"type:timestamptz;not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// SignedDelta returns the quantity with its direction applied
func (m *StockMovement) SignedDelta() int64 {
	if m.Kind.IsOutbound() {
		return -m.Quantity
	}
	return m.Quantity
}

// NewStockMovement creates a new immutable stock movement
func NewStockMovement(
	productID, warehouseID uuid.UUID,
	kind MovementKind,
	quantity int64,
	balanceBefore, balanceAfter int64,
	sourceType SourceType,
) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Warehouse ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid movement kind")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid source type")
	}
	if balanceAfter < 0 {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Movement would drive stock negative")
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		ProductID:     productID,
		WarehouseID:   warehouseID,
		Kind:          kind,
		Quantity:      quantity,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		SourceType:    sourceType,
		OccurredAt:    time.Now(),
	}, nil
}

// WithSourceID sets the source document ID
func (m *StockMovement) WithSourceID(sourceID uuid.UUID) *StockMovement {
	m.SourceID = &sourceID
	return m
}

// WithPairID links this movement to the opposite leg of a transfer
func (m *StockMovement) WithPairID(pairID uuid.UUID) *StockMovement {
	m.PairID = &pairID
	return m
}

// WithNote attaches a free-form note
func (m *StockMovement) WithNote(note string) *StockMovement {
	m.Note = note
	return m
}

// WithActor records who performed the operation
func (m *StockMovement) WithActor(actor string) *StockMovement {
	m.Actor = actor
	return m
}
