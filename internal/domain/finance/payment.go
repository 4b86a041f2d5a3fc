package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a warung settled part of its debt
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodQRIS     PaymentMethod = "QRIS"
)

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid returns true if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodQRIS:
		return true
	}
	return false
}

// Payment is a single settlement against a receivable.
// Payments are never deleted; mistakes are reversed and kept for audit.
type Payment struct {
	shared.BaseEntity
	ReceivableID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Method        PaymentMethod   `gorm:"type:varchar(20);not null"`
	Reference     string          `gorm:"type:varchar(100)"`
	PaidAt        time.Time       `gorm:"type:timestamptz;not null"`
	Reversed      bool            `gorm:"not null;default:false"`
	ReversedAt    *time.Time      `gorm:"type:timestamptz"`
	ReverseReason string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

func newPayment(receivableID uuid.UUID, amount decimal.Decimal, method PaymentMethod, reference string, paidAt time.Time) *Payment {
	return &Payment{
		BaseEntity:   shared.NewBaseEntity(),
		ReceivableID: receivableID,
		Amount:       amount,
		Method:       method,
		Reference:    reference,
		PaidAt:       paidAt,
	}
}

func (p *Payment) markReversed(reason string, now time.Time) {
	p.Reversed = true
	p.ReversedAt = &now
	p.ReverseReason = reason
	p.UpdatedAt = now
}
