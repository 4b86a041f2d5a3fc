package event

import (
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/catalog"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/finance"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/partner"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/trade"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Catalog domain
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventTypeProductUpdated, &catalog.ProductUpdatedEvent{})
	serializer.Register(catalog.EventTypeProductStatusChanged, &catalog.ProductStatusChangedEvent{})

	// Partner domain
	serializer.Register(partner.EventTypeWarehouseCreated, &partner.WarehouseCreatedEvent{})
	serializer.Register(partner.EventTypeWarehouseUpdated, &partner.WarehouseUpdatedEvent{})
	serializer.Register(partner.EventTypeWarungCreated, &partner.WarungCreatedEvent{})
	serializer.Register(partner.EventTypeWarungUpdated, &partner.WarungUpdatedEvent{})
	serializer.Register(partner.EventTypeWarungSuspended, &partner.WarungSuspendedEvent{})

	// Ledger domain
	serializer.Register(ledger.EventTypeStockMovementRecorded, &ledger.StockMovementRecordedEvent{})
	serializer.Register(ledger.EventTypeStockTransferred, &ledger.StockTransferredEvent{})
	serializer.Register(ledger.EventTypeOpnameReconciled, &ledger.OpnameReconciledEvent{})

	// Trade domain
	serializer.Register(trade.EventTypePurchaseOrderCreated, &trade.PurchaseOrderCreatedEvent{})
	serializer.Register(trade.EventTypePurchaseOrderConfirmed, &trade.PurchaseOrderConfirmedEvent{})
	serializer.Register(trade.EventTypePurchaseOrderReceived, &trade.PurchaseOrderReceivedEvent{})
	serializer.Register(trade.EventTypePurchaseOrderCancelled, &trade.PurchaseOrderCancelledEvent{})
	serializer.Register(trade.EventTypeDeliveryOrderCreated, &trade.DeliveryOrderCreatedEvent{})
	serializer.Register(trade.EventTypeDeliveryOrderConfirmed, &trade.DeliveryOrderConfirmedEvent{})
	serializer.Register(trade.EventTypeDeliveryOrderDelivered, &trade.DeliveryOrderDeliveredEvent{})
	serializer.Register(trade.EventTypeDeliveryOrderCancelled, &trade.DeliveryOrderCancelledEvent{})

	// Finance domain
	serializer.Register(finance.EventTypeReceivableOpened, &finance.ReceivableOpenedEvent{})
	serializer.Register(finance.EventTypePaymentRecorded, &finance.PaymentRecordedEvent{})
	serializer.Register(finance.EventTypePaymentReversed, &finance.PaymentReversedEvent{})
	serializer.Register(finance.EventTypeReceivableOverdue, &finance.ReceivableOverdueEvent{})
}
