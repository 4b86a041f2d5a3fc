package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DeliveryOrderStatus represents the status of a delivery order
type DeliveryOrderStatus string

const (
	DeliveryOrderStatusDraft     DeliveryOrderStatus = "DRAFT"
	DeliveryOrderStatusConfirmed DeliveryOrderStatus = "CONFIRMED"
	DeliveryOrderStatusDelivered DeliveryOrderStatus = "DELIVERED"
	DeliveryOrderStatusCancelled DeliveryOrderStatus = "CANCELLED"
)

// String returns the string representation of DeliveryOrderStatus
func (s DeliveryOrderStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s DeliveryOrderStatus) IsValid() bool {
	switch s {
	case DeliveryOrderStatusDraft, DeliveryOrderStatusConfirmed,
		DeliveryOrderStatusDelivered, DeliveryOrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are allowed
func (s DeliveryOrderStatus) IsTerminal() bool {
	return s == DeliveryOrderStatusDelivered || s == DeliveryOrderStatusCancelled
}

// CanTransitionTo returns true if the transition is allowed
func (s DeliveryOrderStatus) CanTransitionTo(target DeliveryOrderStatus) bool {
	switch s {
	case DeliveryOrderStatusDraft:
		return target == DeliveryOrderStatusConfirmed || target == DeliveryOrderStatusCancelled
	case DeliveryOrderStatusConfirmed:
		return target == DeliveryOrderStatusDelivered || target == DeliveryOrderStatusCancelled
	}
	return false
}

// DeliveryOrderItem is a single product line on a delivery order
type DeliveryOrderItem struct {
	shared.BaseEntity
	DeliveryOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        int64           `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (DeliveryOrderItem) TableName() string {
	return "delivery_order_items"
}

// DeliveryOrder represents goods sold to a warung on credit.
// Delivering a confirmed order books SALE_OUT movements for every line
// and opens a receivable for the order total.
type DeliveryOrder struct {
	shared.BaseAggregateRoot
	OrderNo      string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	WarungID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	WarehouseID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status       DeliveryOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	TotalAmount  decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	CreditDays   int                 `gorm:"not null;default:0"` // Frozen from the warung at confirmation
	Note         string              `gorm:"type:varchar(255)"`
	ConfirmedAt  *time.Time          `gorm:"type:timestamptz"`
	DeliveredAt  *time.Time          `gorm:"type:timestamptz"`
	CancelledAt  *time.Time          `gorm:"type:timestamptz"`
	CancelReason string              `gorm:"type:varchar(255)"`
	Items        []DeliveryOrderItem `gorm:"foreignKey:DeliveryOrderID"`
}

// TableName returns the table name for GORM
func (DeliveryOrder) TableName() string {
	return "delivery_orders"
}

// NewDeliveryOrder creates a new draft delivery order
func NewDeliveryOrder(orderNo string, warungID, warehouseID uuid.UUID) (*DeliveryOrder, error) {
	if strings.TrimSpace(orderNo) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order number cannot be empty")
	}
	if warungID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Warung ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Warehouse ID cannot be empty")
	}

	order := &DeliveryOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNo:           strings.ToUpper(orderNo),
		WarungID:          warungID,
		WarehouseID:       warehouseID,
		Status:            DeliveryOrderStatusDraft,
		TotalAmount:       decimal.Zero,
		Items:             make([]DeliveryOrderItem, 0),
	}

	order.AddDomainEvent(NewDeliveryOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a product line to a draft order.
// Adding the same product again merges into the existing line.
func (do *DeliveryOrder) AddItem(productID uuid.UUID, quantity int64, unitPrice valueobject.Money) error {
	if do.Status != DeliveryOrderStatusDraft {
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

	for i := range do.Items {
		if do.Items[i].ProductID == productID {
			do.Items[i].Quantity += quantity
			do.Items[i].UnitPrice = unitPrice.Amount()
			do.Items[i].Subtotal = unitPrice.Amount().Mul(decimal.NewFromInt(do.Items[i].Quantity))
			do.Items[i].UpdatedAt = time.Now()
			do.recalculateTotal()
			return nil
		}
	}

	do.Items = append(do.Items, DeliveryOrderItem{
		BaseEntity:      shared.NewBaseEntity(),
		DeliveryOrderID: do.ID,
		ProductID:       productID,
		Quantity:        quantity,
		UnitPrice:       unitPrice.Amount(),
		Subtotal:        unitPrice.Amount().Mul(decimal.NewFromInt(quantity)),
	})
	do.recalculateTotal()

	return nil
}

// UpdateItemQuantity changes the quantity of an existing line. Draft only.
func (do *DeliveryOrder) UpdateItemQuantity(productID uuid.UUID, quantity int64) error {
	if do.Status != DeliveryOrderStatusDraft {
		return shared.NewDomainError("INVALID_TRANSITION", "Items can only be changed on a draft order")
	}
	if quantity <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}

	for i := range do.Items {
		if do.Items[i].ProductID == productID {
			do.Items[i].Quantity = quantity
			do.Items[i].Subtotal = do.Items[i].UnitPrice.Mul(decimal.NewFromInt(quantity))
			do.Items[i].UpdatedAt = time.Now()
			do.recalculateTotal()
			return nil
		}
	}

	return shared.NewDomainError("NOT_FOUND", "Product not found on order")
}

// RemoveItem removes a product line. Draft only.
func (do *DeliveryOrder) RemoveItem(productID uuid.UUID) error {
	if do.Status != DeliveryOrderStatusDraft {
		return shared.NewDomainError("INVALID_TRANSITION", "Items can only be removed from a draft order")
	}

	for i := range do.Items {
		if do.Items[i].ProductID == productID {
			do.Items = append(do.Items[:i], do.Items[i+1:]...)
			do.recalculateTotal()
			return nil
		}
	}

	return shared.NewDomainError("NOT_FOUND", "Product not found on order")
}

// Confirm locks the order lines and commits to the warung. The credit
// term is frozen on the order so later changes to the warung's terms do
// not shift the due date of an order already in flight.
func (do *DeliveryOrder) Confirm(creditDays int) error {
	if !do.Status.CanTransitionTo(DeliveryOrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_TRANSITION", "Order cannot be confirmed from status "+do.Status.String())
	}
	if len(do.Items) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Order has no items")
	}
	if creditDays < 1 || creditDays > 30 {
		return shared.NewDomainError("VALIDATION_ERROR", "Credit days must be between 1 and 30")
	}

	now := time.Now()
	do.Status = DeliveryOrderStatusConfirmed
	do.CreditDays = creditDays
	do.ConfirmedAt = &now
	do.touch()

	do.AddDomainEvent(NewDeliveryOrderConfirmedEvent(do))

	return nil
}

// MarkDelivered records that all ordered stock shipped to the warung.
// The caller is responsible for booking the matching ledger movements
// and opening the receivable in the same transaction.
func (do *DeliveryOrder) MarkDelivered() error {
	if !do.Status.CanTransitionTo(DeliveryOrderStatusDelivered) {
		return shared.NewDomainError("INVALID_TRANSITION", "Order cannot be delivered from status "+do.Status.String())
	}

	now := time.Now()
	do.Status = DeliveryOrderStatusDelivered
	do.DeliveredAt = &now
	do.touch()

	do.AddDomainEvent(NewDeliveryOrderDeliveredEvent(do))

	return nil
}

// Cancel voids the order before any stock has shipped
func (do *DeliveryOrder) Cancel(reason string) error {
	if !do.Status.CanTransitionTo(DeliveryOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", "Order cannot be cancelled from status "+do.Status.String())
	}

	now := time.Now()
	do.Status = DeliveryOrderStatusCancelled
	do.CancelledAt = &now
	do.CancelReason = reason
	do.touch()

	do.AddDomainEvent(NewDeliveryOrderCancelledEvent(do, reason))

	return nil
}

// IsDelivered returns true if the order reached its delivered state
func (do *DeliveryOrder) IsDelivered() bool {
	return do.Status == DeliveryOrderStatusDelivered
}

// Total returns the order total as Money in the default currency
func (do *DeliveryOrder) Total() valueobject.Money {
	return valueobject.NewMoneyIDR(do.TotalAmount)
}

func (do *DeliveryOrder) recalculateTotal() {
	total := decimal.Zero
	for i := range do.Items {
		total = total.Add(do.Items[i].Subtotal)
	}
	do.TotalAmount = total
	do.touch()
}

func (do *DeliveryOrder) touch() {
	do.UpdatedAt = time.Now()
	do.IncrementVersion()
}
