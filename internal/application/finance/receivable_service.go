package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appledger "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/finance"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared/valueobject"
)

// maxConflictRetries bounds how often a payment mutation is retried after
// losing an optimistic concurrency race before the conflict is surfaced.
const maxConflictRetries = 3

// refreshBatchSize is how many receivables one overdue sweep pass loads
const refreshBatchSize = 100

// ReceivableService handles receivable and payment operations
type ReceivableService struct {
	receivableRepo finance.ReceivableRepository
	eventPublisher shared.EventPublisher
	auditSink      shared.AuditSink
	now            func() time.Time
}

// NewReceivableService creates a new ReceivableService
func NewReceivableService(receivableRepo finance.ReceivableRepository) *ReceivableService {
	return &ReceivableService{
		receivableRepo: receivableRepo,
		now:            time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReceivableService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetAuditSink sets the sink receiving audit entries for payment mutations
func (s *ReceivableService) SetAuditSink(sink shared.AuditSink) {
	s.auditSink = sink
}

// SetClock overrides the clock. For tests.
func (s *ReceivableService) SetClock(now func() time.Time) {
	s.now = now
}

// Get retrieves a receivable with its payments
func (s *ReceivableService) Get(ctx context.Context, id uuid.UUID) (*ReceivableResponse, error) {
	receivable, err := s.receivableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToReceivableResponse(receivable, s.now())
	return &response, nil
}

// GetByDeliveryOrder retrieves the receivable opened for a delivery order
func (s *ReceivableService) GetByDeliveryOrder(ctx context.Context, deliveryOrderID uuid.UUID) (*ReceivableResponse, error) {
	receivable, err := s.receivableRepo.FindByDeliveryOrder(ctx, deliveryOrderID)
	if err != nil {
		return nil, err
	}
	response := ToReceivableResponse(receivable, s.now())
	return &response, nil
}

// ListByWarung lists receivables for a warung
func (s *ReceivableService) ListByWarung(ctx context.Context, warungID uuid.UUID, filter shared.Filter) ([]ReceivableResponse, error) {
	receivables, err := s.receivableRepo.FindByWarung(ctx, warungID, filter)
	if err != nil {
		return nil, err
	}
	return ToReceivableResponses(receivables, s.now()), nil
}

// ListByStatus lists receivables in one payment state
func (s *ReceivableService) ListByStatus(ctx context.Context, status string, filter shared.Filter) ([]ReceivableResponse, error) {
	receivableStatus := finance.ReceivableStatus(status)
	if !receivableStatus.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid receivable status")
	}
	receivables, err := s.receivableRepo.FindByStatus(ctx, receivableStatus, filter)
	if err != nil {
		return nil, err
	}
	return ToReceivableResponses(receivables, s.now()), nil
}

// ListOverdue lists overdue receivables, most overdue first
func (s *ReceivableService) ListOverdue(ctx context.Context, filter shared.Filter) ([]ReceivableResponse, error) {
	receivables, err := s.receivableRepo.FindOverdue(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToReceivableResponses(receivables, s.now()), nil
}

// RecordPayment applies a payment to a receivable. A payment that would
// overshoot the outstanding balance is rejected whole.
func (s *ReceivableService) RecordPayment(ctx context.Context, receivableID uuid.UUID, req RecordPaymentRequest) (*ReceivableResponse, error) {
	method := finance.PaymentMethod(req.Method)
	if !method.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid payment method")
	}
	amount := valueobject.NewMoneyIDR(req.Amount)

	response, err := s.mutate(ctx, receivableID, func(receivable *finance.Receivable) error {
		_, err := receivable.RecordPayment(amount, method, req.Reference, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, req.Actor, "receivable.payment.recorded", "Receivable", receivableID,
		fmt.Sprintf("amount=%s method=%s", req.Amount.String(), req.Method))
	return response, nil
}

// ReversePayment undoes a recorded payment. The payment row is kept and
// marked reversed; the balance and status are restored.
func (s *ReceivableService) ReversePayment(ctx context.Context, receivableID uuid.UUID, req ReversePaymentRequest) (*ReceivableResponse, error) {
	response, err := s.mutate(ctx, receivableID, func(receivable *finance.Receivable) error {
		return receivable.ReversePayment(req.PaymentID, req.Reason, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, req.Actor, "receivable.payment.reversed", "Receivable", receivableID,
		fmt.Sprintf("payment=%s reason=%s", req.PaymentID, req.Reason))
	return response, nil
}

// RefreshOverdueStatuses sweeps unsettled receivables past their due date
// and flips them to OVERDUE. Returns how many receivables changed status.
// Safe to run repeatedly; an already flipped receivable is left alone.
func (s *ReceivableService) RefreshOverdueStatuses(ctx context.Context) (int, error) {
	now := s.now()
	flipped := 0

	for {
		batch, err := s.receivableRepo.FindDueForRefresh(ctx, now, refreshBatchSize)
		if err != nil {
			return flipped, err
		}
		if len(batch) == 0 {
			return flipped, nil
		}

		progressed := 0
		for i := range batch {
			receivable := &batch[i]
			expectedVersion := receivable.GetVersion()
			if !receivable.RefreshStatus(now) {
				continue
			}
			if err := s.receivableRepo.Save(ctx, receivable, expectedVersion); err != nil {
				if appledger.IsConcurrencyConflict(err) {
					// lost the race; the next sweep picks it up
					continue
				}
				return flipped, err
			}
			s.publishEvents(ctx, receivable)
			flipped++
			progressed++
		}

		if progressed == 0 {
			return flipped, nil
		}
		if len(batch) < refreshBatchSize {
			return flipped, nil
		}
	}
}

func (s *ReceivableService) mutate(ctx context.Context, receivableID uuid.UUID, fn func(receivable *finance.Receivable) error) (*ReceivableResponse, error) {
	var receivable *finance.Receivable
	var err error

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		receivable, err = s.receivableRepo.FindByID(ctx, receivableID)
		if err != nil {
			return nil, err
		}

		expectedVersion := receivable.GetVersion()
		if err = fn(receivable); err != nil {
			return nil, err
		}

		err = s.receivableRepo.Save(ctx, receivable, expectedVersion)
		if !appledger.IsConcurrencyConflict(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, receivable)

	response := ToReceivableResponse(receivable, s.now())
	return &response, nil
}

func (s *ReceivableService) audit(ctx context.Context, actor, action, entityType string, entityID uuid.UUID, detail string) {
	if s.auditSink == nil {
		return
	}
	_ = s.auditSink.Record(ctx, shared.NewAuditEntry(actor, action, entityType, entityID, detail))
}

func (s *ReceivableService) publishEvents(ctx context.Context, receivable *finance.Receivable) {
	if s.eventPublisher == nil {
		return
	}
	events := receivable.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	receivable.ClearDomainEvents()
}
