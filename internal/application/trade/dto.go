package trade

import (
	"time"

	"github.com/google/uuid"
	appledger "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one product line on an order submission
type OrderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreatePurchaseOrderRequest is the input for creating a purchase order
type CreatePurchaseOrderRequest struct {
	OrderNo      string             `json:"order_no" binding:"required"`
	SupplierName string             `json:"supplier_name" binding:"required"`
	WarehouseID  uuid.UUID          `json:"warehouse_id" binding:"required"`
	Note         string             `json:"note"`
	Items        []OrderItemRequest `json:"items" binding:"dive"`
}

// CreateDeliveryOrderRequest is the input for creating a delivery order
type CreateDeliveryOrderRequest struct {
	OrderNo     string             `json:"order_no" binding:"required"`
	WarungID    uuid.UUID          `json:"warung_id" binding:"required"`
	WarehouseID uuid.UUID          `json:"warehouse_id" binding:"required"`
	Note        string             `json:"note"`
	Items       []OrderItemRequest `json:"items" binding:"dive"`
}

// AddItemRequest adds or merges a product line on a draft order
type AddItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// UpdateItemRequest changes the quantity of an existing line
type UpdateItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
}

// CancelOrderRequest voids an order with a reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// OrderItemResponse is the API shape of an order line
type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseOrderResponse is the API shape of a purchase order
type PurchaseOrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	OrderNo      string              `json:"order_no"`
	SupplierName string              `json:"supplier_name"`
	WarehouseID  uuid.UUID           `json:"warehouse_id"`
	Status       string              `json:"status"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Note         string              `json:"note,omitempty"`
	ConfirmedAt  *time.Time          `json:"confirmed_at,omitempty"`
	ReceivedAt   *time.Time          `json:"received_at,omitempty"`
	CancelledAt  *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason string              `json:"cancel_reason,omitempty"`
	Items        []OrderItemResponse `json:"items"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ToPurchaseOrderResponse maps a domain purchase order to its API shape
func ToPurchaseOrderResponse(po *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]OrderItemResponse, 0, len(po.Items))
	for i := range po.Items {
		items = append(items, OrderItemResponse{
			ProductID: po.Items[i].ProductID,
			Quantity:  po.Items[i].Quantity,
			UnitPrice: po.Items[i].UnitPrice,
			Subtotal:  po.Items[i].Subtotal,
		})
	}
	return PurchaseOrderResponse{
		ID:           po.ID,
		OrderNo:      po.OrderNo,
		SupplierName: po.SupplierName,
		WarehouseID:  po.WarehouseID,
		Status:       po.Status.String(),
		TotalAmount:  po.TotalAmount,
		Note:         po.Note,
		ConfirmedAt:  po.ConfirmedAt,
		ReceivedAt:   po.ReceivedAt,
		CancelledAt:  po.CancelledAt,
		CancelReason: po.CancelReason,
		Items:        items,
		CreatedAt:    po.CreatedAt,
	}
}

// ToPurchaseOrderResponses maps a slice of domain purchase orders
func ToPurchaseOrderResponses(orders []trade.PurchaseOrder) []PurchaseOrderResponse {
	out := make([]PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToPurchaseOrderResponse(&orders[i]))
	}
	return out
}

// DeliveryOrderResponse is the API shape of a delivery order
type DeliveryOrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	OrderNo      string              `json:"order_no"`
	WarungID     uuid.UUID           `json:"warung_id"`
	WarehouseID  uuid.UUID           `json:"warehouse_id"`
	Status       string              `json:"status"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Note         string              `json:"note,omitempty"`
	ConfirmedAt  *time.Time          `json:"confirmed_at,omitempty"`
	DeliveredAt  *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt  *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason string              `json:"cancel_reason,omitempty"`
	Items        []OrderItemResponse `json:"items"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ToDeliveryOrderResponse maps a domain delivery order to its API shape
func ToDeliveryOrderResponse(do *trade.DeliveryOrder) DeliveryOrderResponse {
	items := make([]OrderItemResponse, 0, len(do.Items))
	for i := range do.Items {
		items = append(items, OrderItemResponse{
			ProductID: do.Items[i].ProductID,
			Quantity:  do.Items[i].Quantity,
			UnitPrice: do.Items[i].UnitPrice,
			Subtotal:  do.Items[i].Subtotal,
		})
	}
	return DeliveryOrderResponse{
		ID:           do.ID,
		OrderNo:      do.OrderNo,
		WarungID:     do.WarungID,
		WarehouseID:  do.WarehouseID,
		Status:       do.Status.String(),
		TotalAmount:  do.TotalAmount,
		Note:         do.Note,
		ConfirmedAt:  do.ConfirmedAt,
		DeliveredAt:  do.DeliveredAt,
		CancelledAt:  do.CancelledAt,
		CancelReason: do.CancelReason,
		Items:        items,
		CreatedAt:    do.CreatedAt,
	}
}

// ToDeliveryOrderResponses maps a slice of domain delivery orders
func ToDeliveryOrderResponses(orders []trade.DeliveryOrder) []DeliveryOrderResponse {
	out := make([]DeliveryOrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToDeliveryOrderResponse(&orders[i]))
	}
	return out
}

// ReceiveResponse returns the received order and the movements it booked
type ReceiveResponse struct {
	Order     PurchaseOrderResponse         `json:"order"`
	Movements []appledger.MovementResponse  `json:"movements"`
}

// DeliverResponse returns the delivered order, the movements it booked,
// and the receivable opened for the order total
type DeliverResponse struct {
	Order        DeliveryOrderResponse        `json:"order"`
	Movements    []appledger.MovementResponse `json:"movements"`
	ReceivableID uuid.UUID                    `json:"receivable_id"`
}
