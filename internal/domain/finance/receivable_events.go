package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeReceivable = "Receivable"

// Event type constants
const (
	EventTypeReceivableOpened  = "ReceivableOpened"
	EventTypePaymentRecorded   = "PaymentRecorded"
	EventTypePaymentReversed   = "PaymentReversed"
	EventTypeReceivableOverdue = "ReceivableOverdue"
)

// ReceivableOpenedEvent is published when a receivable is opened for a delivery
type ReceivableOpenedEvent struct {
	shared.BaseDomainEvent
	ReceivableID    uuid.UUID       `json:"receivable_id"`
	DeliveryOrderID uuid.UUID       `json:"delivery_order_id"`
	WarungID        uuid.UUID       `json:"warung_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DueDate         time.Time       `json:"due_date"`
}

// NewReceivableOpenedEvent creates a new ReceivableOpenedEvent
func NewReceivableOpenedEvent(receivable *Receivable) *ReceivableOpenedEvent {
	return &ReceivableOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceivableOpened, AggregateTypeReceivable, receivable.ID),
		ReceivableID:    receivable.ID,
		DeliveryOrderID: receivable.DeliveryOrderID,
		WarungID:        receivable.WarungID,
		TotalAmount:     receivable.TotalAmount,
		DueDate:         receivable.DueDate,
	}
}

// PaymentRecordedEvent is published when a payment is applied
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	ReceivableID uuid.UUID        `json:"receivable_id"`
	PaymentID    uuid.UUID        `json:"payment_id"`
	WarungID     uuid.UUID        `json:"warung_id"`
	Amount       decimal.Decimal  `json:"amount"`
	Method       PaymentMethod    `json:"method"`
	PaidAmount   decimal.Decimal  `json:"paid_amount"`
	Outstanding  decimal.Decimal  `json:"outstanding"`
	Status       ReceivableStatus `json:"status"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(receivable *Receivable, payment *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypeReceivable, receivable.ID),
		ReceivableID:    receivable.ID,
		PaymentID:       payment.ID,
		WarungID:        receivable.WarungID,
		Amount:          payment.Amount,
		Method:          payment.Method,
		PaidAmount:      receivable.PaidAmount,
		Outstanding:     receivable.Outstanding(),
		Status:          receivable.Status,
	}
}

// PaymentReversedEvent is published when a payment is reversed
type PaymentReversedEvent struct {
	shared.BaseDomainEvent
	ReceivableID uuid.UUID        `json:"receivable_id"`
	PaymentID    uuid.UUID        `json:"payment_id"`
	WarungID     uuid.UUID        `json:"warung_id"`
	Amount       decimal.Decimal  `json:"amount"`
	Reason       string           `json:"reason"`
	Status       ReceivableStatus `json:"status"`
}

// NewPaymentReversedEvent creates a new PaymentReversedEvent
func NewPaymentReversedEvent(receivable *Receivable, payment *Payment) *PaymentReversedEvent {
	return &PaymentReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentReversed, AggregateTypeReceivable, receivable.ID),
		ReceivableID:    receivable.ID,
		PaymentID:       payment.ID,
		WarungID:        receivable.WarungID,
		Amount:          payment.Amount,
		Reason:          payment.ReverseReason,
		Status:          receivable.Status,
	}
}

// ReceivableOverdueEvent is published when a receivable crosses its due date unpaid
type ReceivableOverdueEvent struct {
	shared.BaseDomainEvent
	ReceivableID uuid.UUID       `json:"receivable_id"`
	WarungID     uuid.UUID       `json:"warung_id"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	DueDate      time.Time       `json:"due_date"`
	DaysOverdue  int             `json:"days_overdue"`
}

// NewReceivableOverdueEvent creates a new ReceivableOverdueEvent
func NewReceivableOverdueEvent(receivable *Receivable, now time.Time) *ReceivableOverdueEvent {
	return &ReceivableOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceivableOverdue, AggregateTypeReceivable, receivable.ID),
		ReceivableID:    receivable.ID,
		WarungID:        receivable.WarungID,
		Outstanding:     receivable.Outstanding(),
		DueDate:         receivable.DueDate,
		DaysOverdue:     receivable.DaysOverdue(now),
	}
}
