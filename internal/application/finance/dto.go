package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest is the input for settling part of a receivable
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required"`
	Reference string          `json:"reference"`
	Actor     string          `json:"-"`
}

// ReversePaymentRequest undoes a recorded payment with a reason
type ReversePaymentRequest struct {
	PaymentID uuid.UUID `json:"payment_id" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
	Actor     string    `json:"-"`
}

// PaymentResponse is the API shape of a payment
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	ReceivableID  uuid.UUID       `json:"receivable_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Reference     string          `json:"reference,omitempty"`
	PaidAt        time.Time       `json:"paid_at"`
	Reversed      bool            `json:"reversed"`
	ReversedAt    *time.Time      `json:"reversed_at,omitempty"`
	ReverseReason string          `json:"reverse_reason,omitempty"`
}

// ToPaymentResponse maps a domain payment to its API shape
func ToPaymentResponse(p *finance.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		ReceivableID:  p.ReceivableID,
		Amount:        p.Amount,
		Method:        p.Method.String(),
		Reference:     p.Reference,
		PaidAt:        p.PaidAt,
		Reversed:      p.Reversed,
		ReversedAt:    p.ReversedAt,
		ReverseReason: p.ReverseReason,
	}
}

// ReceivableResponse is the API shape of a receivable
type ReceivableResponse struct {
	ID              uuid.UUID         `json:"id"`
	DeliveryOrderID uuid.UUID         `json:"delivery_order_id"`
	WarungID        uuid.UUID         `json:"warung_id"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	PaidAmount      decimal.Decimal   `json:"paid_amount"`
	Outstanding     decimal.Decimal   `json:"outstanding"`
	DueDate         time.Time         `json:"due_date"`
	Status          string            `json:"status"`
	DaysOverdue     int               `json:"days_overdue,omitempty"`
	Payments        []PaymentResponse `json:"payments"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ToReceivableResponse maps a domain receivable to its API shape
func ToReceivableResponse(r *finance.Receivable, now time.Time) ReceivableResponse {
	payments := make([]PaymentResponse, 0, len(r.Payments))
	for i := range r.Payments {
		payments = append(payments, ToPaymentResponse(&r.Payments[i]))
	}
	return ReceivableResponse{
		ID:              r.ID,
		DeliveryOrderID: r.DeliveryOrderID,
		WarungID:        r.WarungID,
		TotalAmount:     r.TotalAmount,
		PaidAmount:      r.PaidAmount,
		Outstanding:     r.Outstanding(),
		DueDate:         r.DueDate,
		Status:          r.Status.String(),
		DaysOverdue:     r.DaysOverdue(now),
		Payments:        payments,
		CreatedAt:       r.CreatedAt,
	}
}

// ToReceivableResponses maps a slice of domain receivables
func ToReceivableResponses(receivables []finance.Receivable, now time.Time) []ReceivableResponse {
	out := make([]ReceivableResponse, 0, len(receivables))
	for i := range receivables {
		out = append(out, ToReceivableResponse(&receivables[i], now))
	}
	return out
}
