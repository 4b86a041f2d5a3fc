package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusConfirmed PurchaseOrderStatus = "CONFIRMED"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusConfirmed,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are allowed
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceived || s == PurchaseOrderStatusCancelled
}

// CanTransitionTo returns true if the transition is allowed
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusConfirmed || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusConfirmed:
		return target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	}
	return false
}

// PurchaseOrderItem is a single product line on a purchase order
type PurchaseOrderItem struct {
	shared.BaseEntity
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        int64           `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// PurchaseOrder represents replenishment stock ordered from a supplier.
// Receiving a confirmed order books PURCHASE_IN movements for every line.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNo      string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierName string              `gorm:"type:varchar(200);not null"`
	WarehouseID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status       PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	TotalAmount  decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	Note         string              `gorm:"type:varchar(255)"`
	ConfirmedAt  *time.Time          `gorm:"type:timestamptz"`
	ReceivedAt   *time.Time          `gorm:"type:timestamptz"`
	CancelledAt  *time.Time          `gorm:"type:timestamptz"`
	CancelReason string              `gorm:"type:varchar(255)"`
	Items        []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new draft purchase order
func NewPurchaseOrder(orderNo, supplierName string, warehouseID uuid.UUID) (*PurchaseOrder, error) {
	if strings.TrimSpace(orderNo) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order number cannot be empty")
	}
	if strings.TrimSpace(supplierName) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Supplier name cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Warehouse ID cannot be empty")
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNo:           strings.ToUpper(orderNo),
		SupplierName:      supplierName,
		WarehouseID:       warehouseID,
		Status:            PurchaseOrderStatusDraft,
		TotalAmount:       decimal.Zero,
		Items:             make([]PurchaseOrderItem, 0),
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a product line to a draft order.
// Adding the same product again merges into the existing line.
func (po *PurchaseOrder) AddItem(productID uuid.UUID, quantity int64, unitPrice valueobject.Money) error {
	if po.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_TRANSITION", "Items can only be added to a draft order")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Unit price cannot be negative")
	}

	for i := range po.Items {
		if po.Items[i].ProductID == productID {
			po.Items[i].Quantity += quantity
			po.Items[i].UnitPrice = unitPrice.Amount()
			po.Items[i].Subtotal = unitPrice.Amount().Mul(decimal.NewFromInt(po.Items[i].Quantity))
			po.Items[i].UpdatedAt = time.Now()
			po.recalculateTotal()
			return nil
		}
	}

	po.Items = append(po.Items, PurchaseOrderItem{
		BaseEntity:      shared.NewBaseEntity(),
		PurchaseOrderID: po.ID,
		ProductID:       productID,
		Quantity:        quantity,
		UnitPrice:       unitPrice.Amount(),
		Subtotal:        unitPrice.Amount().Mul(decimal.NewFromInt(quantity)),
	})
	po.recalculateTotal()

	return nil
}

// UpdateItemQuantity changes the quantity of an existing line. Draft only.
func (po *PurchaseOrder) UpdateItemQuantity(productID uuid.UUID, quantity int64) error {
	if po.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_TRANSITION", "Items can only be changed on a draft order")
	}
	if quantity <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}

	for i := range po.Items {
		if po.Items[i].ProductID == productID {
			po.Items[i].Quantity = quantity
			po.Items[i].Subtotal = po.Items[i].UnitPrice.Mul(decimal.NewFromInt(quantity))
			po.Items[i].UpdatedAt = time.Now()
			po.recalculateTotal()
			return nil
		}
	}

	return shared.NewDomainError("NOT_FOUND", "Product not found on order")
}

// RemoveItem removes a product line. Draft only.
func (po *PurchaseOrder) RemoveItem(productID uuid.UUID) error {
	if po.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_TRANSITION", "Items can only be removed from a draft order")
	}

	for i := range po.Items {
		if po.Items[i].ProductID == productID {
			po.Items = append(po.Items[:i], po.Items[i+1:]...)
			po.recalculateTotal()
			return nil
		}
	}

	return shared.NewDomainError("NOT_FOUND", "Product not found on order")
}

// Confirm locks the order lines and commits to the supplier
func (po *PurchaseOrder) Confirm() error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_TRANSITION", "Order cannot be confirmed from status "+po.Status.String())
	}
	if len(po.Items) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Order has no items")
	}

	now := time.Now()
	po.Status = PurchaseOrderStatusConfirmed
	po.ConfirmedAt = &now
	po.touch()

	po.AddDomainEvent(NewPurchaseOrderConfirmedEvent(po))

	return nil
}

// MarkReceived records that all ordered stock arrived at the warehouse.
// The caller is responsible for booking the matching ledger movements
// in the same transaction.
func (po *PurchaseOrder) MarkReceived() error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusReceived) {
		return shared.NewDomainError("INVALID_TRANSITION", "Order cannot be received from status "+po.Status.String())
	}

	now := time.Now()
	po.Status = PurchaseOrderStatusReceived
	po.ReceivedAt = &now
	po.touch()

	po.AddDomainEvent(NewPurchaseOrderReceivedEvent(po))

	return nil
}

// Cancel voids the order before any stock has been received
func (po *PurchaseOrder) Cancel(reason string) error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", "Order cannot be cancelled from status "+po.Status.String())
	}

	now := time.Now()
	po.Status = PurchaseOrderStatusCancelled
	po.CancelledAt = &now
	po.CancelReason = reason
	po.touch()

	po.AddDomainEvent(NewPurchaseOrderCancelledEvent(po, reason))

	return nil
}

// IsReceived returns true if the order reached its received state
func (po *PurchaseOrder) IsReceived() bool {
	return po.Status == PurchaseOrderStatusReceived
}

func (po *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for i := range po.Items {
		total = total.Add(po.Items[i].Subtotal)
	}
	po.TotalAmount = total
	po.touch()
}

func (po *PurchaseOrder) touch() {
	po.UpdatedAt = time.Now()
	po.IncrementVersion()
}
