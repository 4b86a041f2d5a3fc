package partner

import (
	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeWarehouse = "Warehouse"
	AggregateTypeWarung    = "Warung"
)

// Event type constants
const (
	EventTypeWarehouseCreated = "WarehouseCreated"
	EventTypeWarehouseUpdated = "WarehouseUpdated"
	EventTypeWarungCreated    = "WarungCreated"
	EventTypeWarungUpdated    = "WarungUpdated"
	EventTypeWarungSuspended  = "WarungSuspended"
)

// WarehouseCreatedEvent is published when a new warehouse is created
type WarehouseCreatedEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
}

// NewWarehouseCreatedEvent creates a new WarehouseCreatedEvent
func NewWarehouseCreatedEvent(warehouse *Warehouse) *WarehouseCreatedEvent {
	return &WarehouseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWarehouseCreated, AggregateTypeWarehouse, warehouse.ID),
		WarehouseID:     warehouse.ID,
		Code:            warehouse.Code,
		Name:            warehouse.Name,
	}
}

// WarehouseUpdatedEvent is published when a warehouse is updated
type WarehouseUpdatedEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
}

// NewWarehouseUpdatedEvent creates a new WarehouseUpdatedEvent
func NewWarehouseUpdatedEvent(warehouse *Warehouse) *WarehouseUpdatedEvent {
	return &WarehouseUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWarehouseUpdated, AggregateTypeWarehouse, warehouse.ID),
		WarehouseID:     warehouse.ID,
		Code:            warehouse.Code,
		Name:            warehouse.Name,
	}
}

// WarungCreatedEvent is published when a new warung is registered
type WarungCreatedEvent struct {
	shared.BaseDomainEvent
	WarungID   uuid.UUID `json:"warung_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	CreditDays int       `json:"credit_days"`
}

// NewWarungCreatedEvent creates a new WarungCreatedEvent
func NewWarungCreatedEvent(warung *Warung) *WarungCreatedEvent {
	return &WarungCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWarungCreated, AggregateTypeWarung, warung.ID),
		WarungID:        warung.ID,
		Code:            warung.Code,
		Name:            warung.Name,
		CreditDays:      warung.CreditDays,
	}
}

// WarungUpdatedEvent is published when a warung is updated
type WarungUpdatedEvent struct {
	shared.BaseDomainEvent
	WarungID uuid.UUID `json:"warung_id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
}

// NewWarungUpdatedEvent creates a new WarungUpdatedEvent
func NewWarungUpdatedEvent(warung *Warung) *WarungUpdatedEvent {
	return &WarungUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWarungUpdated, AggregateTypeWarung, warung.ID),
		WarungID:        warung.ID,
		Code:            warung.Code,
		Name:            warung.Name,
	}
}

// WarungSuspendedEvent is published when a warung's credit is suspended
type WarungSuspendedEvent struct {
	shared.BaseDomainEvent
	WarungID uuid.UUID `json:"warung_id"`
	Code     string    `json:"code"`
	Reason   string    `json:"reason"`
}

// NewWarungSuspendedEvent creates a new WarungSuspendedEvent
func NewWarungSuspendedEvent(warung *Warung, reason string) *WarungSuspendedEvent {
	return &WarungSuspendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWarungSuspended, AggregateTypeWarung, warung.ID),
		WarungID:        warung.ID,
		Code:            warung.Code,
		Reason:          reason,
	}
}
