package trade

import (
	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypePurchaseOrder = "PurchaseOrder"
	AggregateTypeDeliveryOrder = "DeliveryOrder"
)

// Event type constants
const (
	EventTypePurchaseOrderCreated   = "PurchaseOrderCreated"
	EventTypePurchaseOrderConfirmed = "PurchaseOrderConfirmed"
	EventTypePurchaseOrderReceived  = "PurchaseOrderReceived"
	EventTypePurchaseOrderCancelled = "PurchaseOrderCancelled"
	EventTypeDeliveryOrderCreated   = "DeliveryOrderCreated"
	EventTypeDeliveryOrderConfirmed = "DeliveryOrderConfirmed"
	EventTypeDeliveryOrderDelivered = "DeliveryOrderDelivered"
	EventTypeDeliveryOrderCancelled = "DeliveryOrderCancelled"
)

// PurchaseOrderCreatedEvent is published when a purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNo      string    `json:"order_no"`
	SupplierName string    `json:"supplier_name"`
	WarehouseID  uuid.UUID `json:"warehouse_id"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNo:         order.OrderNo,
		SupplierName:    order.SupplierName,
		WarehouseID:     order.WarehouseID,
	}
}

// PurchaseOrderConfirmedEvent is published when a purchase order is confirmed
type PurchaseOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNo     string          `json:"order_no"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

// NewPurchaseOrderConfirmedEvent creates a new PurchaseOrderConfirmedEvent
func NewPurchaseOrderConfirmedEvent(order *PurchaseOrder) *PurchaseOrderConfirmedEvent {
	return &PurchaseOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderConfirmed, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNo:         order.OrderNo,
		WarehouseID:     order.WarehouseID,
		TotalAmount:     order.TotalAmount,
		ItemCount:       len(order.Items),
	}
}

// PurchaseOrderReceivedEvent is published when ordered stock arrives
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNo     string    `json:"order_no"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNo:         order.OrderNo,
		WarehouseID:     order.WarehouseID,
	}
}

// PurchaseOrderCancelledEvent is published when a purchase order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	OrderNo string    `json:"order_no"`
	Reason  string    `json:"reason"`
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder, reason string) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNo:         order.OrderNo,
		Reason:          reason,
	}
}

// DeliveryOrderCreatedEvent is published when a delivery order is created
type DeliveryOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNo     string    `json:"order_no"`
	WarungID    uuid.UUID `json:"warung_id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
}

// NewDeliveryOrderCreatedEvent creates a new DeliveryOrderCreatedEvent
func NewDeliveryOrderCreatedEvent(order *DeliveryOrder) *DeliveryOrderCreatedEvent {
	return &DeliveryOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryOrderCreated, AggregateTypeDeliveryOrder, order.ID),
		OrderID:         order.ID,
		OrderNo:         order.OrderNo,
		WarungID:        order.WarungID,
		WarehouseID:     order.WarehouseID,
	}
}

// DeliveryOrderConfirmedEvent is published when a delivery order is confirmed
type DeliveryOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNo     string          `json:"order_no"`
	WarungID    uuid.UUID       `json:"warung_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

// NewDeliveryOrderConfirmedEvent creates a new DeliveryOrderConfirmedEvent
func NewDeliveryOrderConfirmedEvent(order *DeliveryOrder) *DeliveryOrderConfirmedEvent {
	return &DeliveryOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryOrderConfirmed, AggregateTypeDeliveryOrder, order.ID),
		OrderID:         order.ID,
		OrderNo:         order.OrderNo,
		WarungID:        order.WarungID,
		WarehouseID:     order.WarehouseID,
		TotalAmount:     order.TotalAmount,
		ItemCount:       len(order.Items),
	}
}

// DeliveryOrderDeliveredEvent is published when stock ships to the warung
type DeliveryOrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNo     string          `json:"order_no"`
	WarungID    uuid.UUID       `json:"warung_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewDeliveryOrderDeliveredEvent creates a new DeliveryOrderDeliveredEvent
func NewDeliveryOrderDeliveredEvent(order *DeliveryOrder) *DeliveryOrderDeliveredEvent {
	return &DeliveryOrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryOrderDelivered, AggregateTypeDeliveryOrder, order.ID),
		OrderID:         order.ID,
		OrderNo:         order.OrderNo,
		WarungID:        order.WarungID,
		WarehouseID:     order.WarehouseID,
		TotalAmount:     order.TotalAmount,
	}
}

// DeliveryOrderCancelledEvent is published when a delivery order is cancelled
type DeliveryOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID `json:"order_id"`
	OrderNo  string    `json:"order_no"`
	WarungID uuid.UUID `json:"warung_id"`
	Reason   string    `json:"reason"`
}

// NewDeliveryOrderCancelledEvent creates a new DeliveryOrderCancelledEvent
func NewDeliveryOrderCancelledEvent(order *DeliveryOrder, reason string) *DeliveryOrderCancelledEvent {
	return &DeliveryOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryOrderCancelled, AggregateTypeDeliveryOrder, order.ID),
		OrderID:         order.ID,
		OrderNo:         order.OrderNo,
		WarungID:        order.WarungID,
		Reason:          reason,
	}
}
