package ledger

import (
	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeStockMovement = "StockMovement"
	AggregateTypeStockOpname   = "StockOpname"
)

// Event type constants
const (
	EventTypeStockMovementRecorded = "StockMovementRecorded"
	EventTypeStockTransferred      = "StockTransferred"
	EventTypeOpnameReconciled      = "OpnameReconciled"
)

// StockMovementRecordedEvent is published when a movement is appended to the ledger
type StockMovementRecordedEvent struct {
	shared.BaseDomainEvent
	MovementID   uuid.UUID    `json:"movement_id"`
	ProductID    uuid.UUID    `json:"product_id"`
	WarehouseID  uuid.UUID    `json:"warehouse_id"`
	Kind         MovementKind `json:"kind"`
	Quantity     int64        `json:"quantity"`
	BalanceAfter int64        `json:"balance_after"`
}

// NewStockMovementRecordedEvent creates a new StockMovementRecordedEvent
func NewStockMovementRecordedEvent(movement *StockMovement) *StockMovementRecordedEvent {
	return &StockMovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMovementRecorded, AggregateTypeStockMovement, movement.ID),
		MovementID:      movement.ID,
		ProductID:       movement.ProductID,
		WarehouseID:     movement.WarehouseID,
		Kind:            movement.Kind,
		Quantity:        movement.Quantity,
		BalanceAfter:    movement.BalanceAfter,
	}
}

// StockTransferredEvent is published when both legs of a transfer commit
type StockTransferredEvent struct {
	shared.BaseDomainEvent
	ProductID       uuid.UUID `json:"product_id"`
	FromWarehouseID uuid.UUID `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID `json:"to_warehouse_id"`
	Quantity        int64     `json:"quantity"`
	OutMovementID   uuid.UUID `json:"out_movement_id"`
	InMovementID    uuid.UUID `json:"in_movement_id"`
}

// NewStockTransferredEvent creates a new StockTransferredEvent
func NewStockTransferredEvent(out, in *StockMovement) *StockTransferredEvent {
	return &StockTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferred, AggregateTypeStockMovement, out.ID),
		ProductID:       out.ProductID,
		FromWarehouseID: out.WarehouseID,
		ToWarehouseID:   in.WarehouseID,
		Quantity:        out.Quantity,
		OutMovementID:   out.ID,
		InMovementID:    in.ID,
	}
}

// OpnameReconciledEvent is published when an opname is reconciled
type OpnameReconciledEvent struct {
	shared.BaseDomainEvent
	OpnameID        uuid.UUID          `json:"opname_id"`
	WarehouseID     uuid.UUID          `json:"warehouse_id"`
	LineCount       int                `json:"line_count"`
	AdjustmentCount int                `json:"adjustment_count"`
	Adjustments     []OpnameAdjustment `json:"adjustments"`
}

// NewOpnameReconciledEvent creates a new OpnameReconciledEvent
func NewOpnameReconciledEvent(opname *StockOpname, adjustments []OpnameAdjustment) *OpnameReconciledEvent {
	return &OpnameReconciledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOpnameReconciled, AggregateTypeStockOpname, opname.ID),
		OpnameID:        opname.ID,
		WarehouseID:     opname.WarehouseID,
		LineCount:       len(opname.Lines),
		AdjustmentCount: len(adjustments),
		Adjustments:     adjustments,
	}
}
