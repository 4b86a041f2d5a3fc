package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ReceivableStatus represents the payment state of a receivable
type ReceivableStatus string

const (
	ReceivableStatusUnpaid  ReceivableStatus = "UNPAID"
	ReceivableStatusPartial ReceivableStatus = "PARTIAL"
	ReceivableStatusPaid    ReceivableStatus = "PAID"
	ReceivableStatusOverdue ReceivableStatus = "OVERDUE"
)

// String returns the string representation of ReceivableStatus
func (s ReceivableStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s ReceivableStatus) IsValid() bool {
	switch s {
	case ReceivableStatusUnpaid, ReceivableStatusPartial, ReceivableStatusPaid, ReceivableStatusOverdue:
		return true
	}
	return false
}

// DeriveStatus computes the receivable status from its payment state.
// A fully paid receivable is PAID regardless of the due date. Otherwise
// anything past due is OVERDUE, and the paid amount splits UNPAID from PARTIAL.
func DeriveStatus(paid, total decimal.Decimal, now, dueDate time.Time) ReceivableStatus {
	if paid.GreaterThanOrEqual(total) && total.IsPositive() {
		return ReceivableStatusPaid
	}
	if now.After(dueDate) {
		return ReceivableStatusOverdue
	}
	if paid.IsPositive() {
		return ReceivableStatusPartial
	}
	return ReceivableStatusUnpaid
}

// Receivable tracks the money a warung owes for one delivered order.
// The total is frozen at delivery; only payments move the balance.
type Receivable struct {
	shared.BaseAggregateRoot
	DeliveryOrderID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	WarungID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	TotalAmount     decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	PaidAmount      decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	DueDate         time.Time        `gorm:"type:timestamptz;not null;index"`
	Status          ReceivableStatus `gorm:"type:varchar(20);not null;default:'UNPAID';index"`
	Payments        []Payment        `gorm:"foreignKey:ReceivableID"`
}

// TableName returns the table name for GORM
func (Receivable) TableName() string {
	return "receivables"
}

// NewReceivable opens a receivable for a delivered order
func NewReceivable(deliveryOrderID, warungID uuid.UUID, total valueobject.Money, dueDate time.Time) (*Receivable, error) {
	if deliveryOrderID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Delivery order ID cannot be empty")
	}
	if warungID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Warung ID cannot be empty")
	}
	if !total.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Receivable total must be positive")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Due date cannot be empty")
	}

	receivable := &Receivable{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DeliveryOrderID:   deliveryOrderID,
		WarungID:          warungID,
		TotalAmount:       total.Amount(),
		PaidAmount:        decimal.Zero,
		DueDate:           dueDate,
		Status:            ReceivableStatusUnpaid,
		Payments:          make([]Payment, 0),
	}

	receivable.AddDomainEvent(NewReceivableOpenedEvent(receivable))

	return receivable, nil
}

// Outstanding returns the unpaid remainder
func (r *Receivable) Outstanding() decimal.Decimal {
	return r.TotalAmount.Sub(r.PaidAmount)
}

// IsSettled returns true if nothing remains to be paid
func (r *Receivable) IsSettled() bool {
	return r.PaidAmount.GreaterThanOrEqual(r.TotalAmount)
}

// RecordPayment applies a payment to the receivable.
// A payment that would push the paid amount over the total is rejected whole;
// partial application is never done silently.
func (r *Receivable) RecordPayment(amount valueobject.Money, method PaymentMethod, reference string, now time.Time) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid payment method")
	}
	if r.IsSettled() {
		return nil, shared.NewDomainError("OVERPAYMENT_REJECTED", "Receivable is already settled")
	}
	if amount.Amount().GreaterThan(r.Outstanding()) {
		return nil, shared.NewDomainError("OVERPAYMENT_REJECTED", "Payment exceeds outstanding balance")
	}

	payment := newPayment(r.ID, amount.Amount(), method, reference, now)
	r.Payments = append(r.Payments, *payment)
	r.PaidAmount = r.PaidAmount.Add(amount.Amount())
	r.refreshStatus(now)
	r.touch()

	r.AddDomainEvent(NewPaymentRecordedEvent(r, payment))

	return payment, nil
}

// ReversePayment undoes a previously recorded payment, for bounced
// transfers or data-entry mistakes. The payment row stays for audit.
func (r *Receivable) ReversePayment(paymentID uuid.UUID, reason string, now time.Time) error {
	for i := range r.Payments {
		if r.Payments[i].ID != paymentID {
			continue
		}
		if r.Payments[i].Reversed {
			return shared.NewDomainError("INVALID_TRANSITION", "Payment is already reversed")
		}

		r.Payments[i].markReversed(reason, now)
		r.PaidAmount = r.PaidAmount.Sub(r.Payments[i].Amount)
		r.refreshStatus(now)
		r.touch()

		r.AddDomainEvent(NewPaymentReversedEvent(r, &r.Payments[i]))

		return nil
	}

	return shared.NewDomainError("NOT_FOUND", "Payment not found on receivable")
}

// RefreshStatus re-derives the status against the clock.
// Returns true if the status changed; crossing into OVERDUE emits an event.
func (r *Receivable) RefreshStatus(now time.Time) bool {
	oldStatus := r.Status
	r.refreshStatus(now)
	if r.Status == oldStatus {
		return false
	}

	r.touch()
	if r.Status == ReceivableStatusOverdue {
		r.AddDomainEvent(NewReceivableOverdueEvent(r, now))
	}

	return true
}

// IsOverdue returns true if the receivable is unpaid past its due date
func (r *Receivable) IsOverdue(now time.Time) bool {
	return !r.IsSettled() && now.After(r.DueDate)
}

// DaysOverdue returns how many whole days past due the receivable is
func (r *Receivable) DaysOverdue(now time.Time) int {
	if !r.IsOverdue(now) {
		return 0
	}
	return int(now.Sub(r.DueDate).Hours() / 24)
}

func (r *Receivable) refreshStatus(now time.Time) {
	r.Status = DeriveStatus(r.PaidAmount, r.TotalAmount, now, r.DueDate)
}

func (r *Receivable) touch() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}
