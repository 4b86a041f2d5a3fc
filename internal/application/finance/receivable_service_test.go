package finance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/finance"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher captures published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.EventType())
	}
	return out
}

// memReceivableRepo is an in-memory receivable store with version checking
type memReceivableRepo struct {
	mu          sync.Mutex
	receivables map[uuid.UUID]*finance.Receivable
}

func newMemReceivableRepo() *memReceivableRepo {
	return &memReceivableRepo{receivables: make(map[uuid.UUID]*finance.Receivable)}
}

func copyReceivable(receivable *finance.Receivable) *finance.Receivable {
	cp := *receivable
	cp.Payments = append([]finance.Payment(nil), receivable.Payments...)
	return &cp
}

func (r *memReceivableRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.Receivable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	receivable, ok := r.receivables[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyReceivable(receivable), nil
}

func (r *memReceivableRepo) FindByDeliveryOrder(_ context.Context, deliveryOrderID uuid.UUID) (*finance.Receivable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, receivable := range r.receivables {
		if receivable.DeliveryOrderID == deliveryOrderID {
			return copyReceivable(receivable), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memReceivableRepo) FindByWarung(_ context.Context, warungID uuid.UUID, _ shared.Filter) ([]finance.Receivable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []finance.Receivable
	for _, receivable := range r.receivables {
		if receivable.WarungID == warungID {
			out = append(out, *copyReceivable(receivable))
		}
	}
	return out, nil
}

func (r *memReceivableRepo) FindByStatus(_ context.Context, status finance.ReceivableStatus, _ shared.Filter) ([]finance.Receivable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []finance.Receivable
	for _, receivable := range r.receivables {
		if receivable.Status == status {
			out = append(out, *copyReceivable(receivable))
		}
	}
	return out, nil
}

func (r *memReceivableRepo) FindOverdue(_ context.Context, filter shared.Filter) ([]finance.Receivable, error) {
	warungID, scoped := filter.Filters["warung_id"].(uuid.UUID)
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []finance.Receivable
	for _, receivable := range r.receivables {
		if receivable.Status != finance.ReceivableStatusOverdue {
			continue
		}
		if scoped && receivable.WarungID != warungID {
			continue
		}
		out = append(out, *copyReceivable(receivable))
	}
	return out, nil
}

func (r *memReceivableRepo) FindDueForRefresh(_ context.Context, asOf time.Time, limit int) ([]finance.Receivable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []finance.Receivable
	for _, receivable := range r.receivables {
		if receivable.Status == finance.ReceivableStatusPaid || receivable.Status == finance.ReceivableStatusOverdue {
			continue
		}
		if asOf.After(receivable.DueDate) {
			out = append(out, *copyReceivable(receivable))
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *memReceivableRepo) Save(_ context.Context, receivable *finance.Receivable, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.receivables[receivable.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if existing.GetVersion() != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	r.receivables[receivable.ID] = copyReceivable(receivable)
	return nil
}

func (r *memReceivableRepo) Create(_ context.Context, receivable *finance.Receivable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receivables[receivable.ID] = copyReceivable(receivable)
	return nil
}

func (r *memReceivableRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.receivables)), nil
}

func seedReceivable(t *testing.T, repo *memReceivableRepo, total int64, dueDate time.Time) *finance.Receivable {
	t.Helper()
	receivable, err := finance.NewReceivable(uuid.New(), uuid.New(), valueobject.NewMoneyIDRFromInt(total), dueDate)
	require.NoError(t, err)
	receivable.ClearDomainEvents()
	require.NoError(t, repo.Create(context.Background(), receivable))
	return receivable
}

func newTestReceivableService() (*ReceivableService, *memReceivableRepo, *MockEventPublisher) {
	repo := newMemReceivableRepo()
	service := NewReceivableService(repo)
	publisher := &MockEventPublisher{}
	service.SetEventPublisher(publisher)
	return service, repo, publisher
}

func TestReceivableService_RecordPayment(t *testing.T) {
	ctx := context.Background()
	dueDate := time.Now().AddDate(0, 0, 14)

	t.Run("partial payment moves status to PARTIAL", func(t *testing.T) {
		service, repo, publisher := newTestReceivableService()
		receivable := seedReceivable(t, repo, 100000, dueDate)

		resp, err := service.RecordPayment(ctx, receivable.ID, RecordPaymentRequest{
			Amount: decimal.NewFromInt(40000),
			Method: "CASH",
		})

		require.NoError(t, err)
		assert.Equal(t, "PARTIAL", resp.Status)
		assert.True(t, resp.PaidAmount.Equal(decimal.NewFromInt(40000)))
		assert.True(t, resp.Outstanding.Equal(decimal.NewFromInt(60000)))
		require.Len(t, resp.Payments, 1)
		assert.Contains(t, publisher.EventTypes(), finance.EventTypePaymentRecorded)
	})

	t.Run("exact settlement moves status to PAID", func(t *testing.T) {
		service, repo, _ := newTestReceivableService()
		receivable := seedReceivable(t, repo, 100000, dueDate)

		_, err := service.RecordPayment(ctx, receivable.ID, RecordPaymentRequest{
			Amount: decimal.NewFromInt(60000),
			Method: "TRANSFER",
		})
		require.NoError(t, err)

		resp, err := service.RecordPayment(ctx, receivable.ID, RecordPaymentRequest{
			Amount: decimal.NewFromInt(40000),
			Method: "QRIS",
		})
		require.NoError(t, err)
		assert.Equal(t, "PAID", resp.Status)
		assert.True(t, resp.Outstanding.IsZero())
	})

	t.Run("overpayment is rejected whole", func(t *testing.T) {
		service, repo, _ := newTestReceivableService()
		receivable := seedReceivable(t, repo, 100000, dueDate)

		_, err := service.RecordPayment(ctx, receivable.ID, RecordPaymentRequest{
			Amount: decimal.NewFromInt(100001),
			Method: "CASH",
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "OVERPAYMENT_REJECTED", domainErr.Code)

		// nothing was applied
		stored, err := repo.FindByID(ctx, receivable.ID)
		require.NoError(t, err)
		assert.True(t, stored.PaidAmount.IsZero())
		assert.Empty(t, stored.Payments)
	})

	t.Run("payment on settled receivable is rejected", func(t *testing.T) {
		service, repo, _ := newTestReceivableService()
		receivable := seedReceivable(t, repo, 50000, dueDate)

		_, err := service.RecordPayment(ctx, receivable.ID, RecordPaymentRequest{
			Amount: decimal.NewFromInt(50000),
			Method: "CASH",
		})
		require.NoError(t, err)

		_, err = service.RecordPayment(ctx, receivable.ID, RecordPaymentRequest{
			Amount: decimal.NewFromInt(1),
			Method: "CASH",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "OVERPAYMENT_REJECTED", domainErr.Code)
	})

	t.Run("invalid method is rejected", func(t *testing.T) {
		service, repo, _ := newTestReceivableService()
		receivable := seedReceivable(t, repo, 50000, dueDate)

		_, err := service.RecordPayment(ctx, receivable.ID, RecordPaymentRequest{
			Amount: decimal.NewFromInt(1000),
			Method: "BARTER",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("paying in full past due still lands on PAID", func(t *testing.T) {
		service, repo, _ := newTestReceivableService()
		receivable := seedReceivable(t, repo, 30000, time.Now().AddDate(0, 0, -5))

		resp, err := service.RecordPayment(ctx, receivable.ID, RecordPaymentRequest{
			Amount: decimal.NewFromInt(30000),
			Method: "CASH",
		})
		require.NoError(t, err)
		assert.Equal(t, "PAID", resp.Status)
	})
}

func TestReceivableService_ReversePayment(t *testing.T) {
	ctx := context.Background()
	dueDate := time.Now().AddDate(0, 0, 14)

	t.Run("reversal restores the balance and keeps the row", func(t *testing.T) {
		service, repo, publisher := newTestReceivableService()
		receivable := seedReceivable(t, repo, 100000, dueDate)

		paid, err := service.RecordPayment(ctx, receivable.ID, RecordPaymentRequest{
			Amount:    decimal.NewFromInt(100000),
			Method:    "TRANSFER",
			Reference: "TRX-123",
		})
		require.NoError(t, err)
		assert.Equal(t, "PAID", paid.Status)

		resp, err := service.ReversePayment(ctx, receivable.ID, ReversePaymentRequest{
			PaymentID: paid.Payments[0].ID,
			Reason:    "transfer bounced",
		})
		require.NoError(t, err)
		assert.Equal(t, "UNPAID", resp.Status)
		assert.True(t, resp.PaidAmount.IsZero())
		require.Len(t, resp.Payments, 1)
		assert.True(t, resp.Payments[0].Reversed)
		assert.Equal(t, "transfer bounced", resp.Payments[0].ReverseReason)
		assert.Contains(t, publisher.EventTypes(), finance.EventTypePaymentReversed)
	})

	t.Run("reversing twice is rejected", func(t *testing.T) {
		service, repo, _ := newTestReceivableService()
		receivable := seedReceivable(t, repo, 100000, dueDate)

		paid, err := service.RecordPayment(ctx, receivable.ID, RecordPaymentRequest{
			Amount: decimal.NewFromInt(20000),
			Method: "CASH",
		})
		require.NoError(t, err)

		_, err = service.ReversePayment(ctx, receivable.ID, ReversePaymentRequest{
			PaymentID: paid.Payments[0].ID,
			Reason:    "typo",
		})
		require.NoError(t, err)

		_, err = service.ReversePayment(ctx, receivable.ID, ReversePaymentRequest{
			PaymentID: paid.Payments[0].ID,
			Reason:    "typo again",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	})

	t.Run("unknown payment", func(t *testing.T) {
		service, repo, _ := newTestReceivableService()
		receivable := seedReceivable(t, repo, 100000, dueDate)

		_, err := service.ReversePayment(ctx, receivable.ID, ReversePaymentRequest{
			PaymentID: uuid.New(),
			Reason:    "oops",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestReceivableService_RefreshOverdueStatuses(t *testing.T) {
	ctx := context.Background()

	t.Run("flips past due receivables and leaves the rest", func(t *testing.T) {
		service, repo, publisher := newTestReceivableService()
		pastDue := seedReceivable(t, repo, 100000, time.Now().AddDate(0, 0, -3))
		current := seedReceivable(t, repo, 50000, time.Now().AddDate(0, 0, 7))

		flipped, err := service.RefreshOverdueStatuses(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, flipped)

		stored, err := repo.FindByID(ctx, pastDue.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.ReceivableStatusOverdue, stored.Status)

		untouched, err := repo.FindByID(ctx, current.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.ReceivableStatusUnpaid, untouched.Status)

		assert.Contains(t, publisher.EventTypes(), finance.EventTypeReceivableOverdue)
	})

	t.Run("second sweep is a no-op", func(t *testing.T) {
		service, repo, _ := newTestReceivableService()
		seedReceivable(t, repo, 100000, time.Now().AddDate(0, 0, -3))

		flipped, err := service.RefreshOverdueStatuses(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, flipped)

		flipped, err = service.RefreshOverdueStatuses(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, flipped)
	})

	t.Run("lists overdue scoped to one warung", func(t *testing.T) {
		service, repo, _ := newTestReceivableService()
		warungID := uuid.New()

		mine, err := finance.NewReceivable(uuid.New(), warungID, valueobject.NewMoneyIDRFromInt(100000), time.Now().AddDate(0, 0, -3))
		require.NoError(t, err)
		mine.ClearDomainEvents()
		require.NoError(t, repo.Create(ctx, mine))
		seedReceivable(t, repo, 50000, time.Now().AddDate(0, 0, -5))

		_, err = service.RefreshOverdueStatuses(ctx)
		require.NoError(t, err)

		filter := shared.DefaultFilter()
		filter.Filters["warung_id"] = warungID
		scoped, err := service.ListOverdue(ctx, filter)
		require.NoError(t, err)
		require.Len(t, scoped, 1)
		assert.Equal(t, mine.ID, scoped[0].ID)

		all, err := service.ListOverdue(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("paid receivables are never flipped", func(t *testing.T) {
		service, repo, _ := newTestReceivableService()
		receivable := seedReceivable(t, repo, 40000, time.Now().AddDate(0, 0, -3))

		// settle before the sweep; paid in full always reads PAID
		_, err := service.RecordPayment(ctx, receivable.ID, RecordPaymentRequest{
			Amount: decimal.NewFromInt(40000),
			Method: "CASH",
		})
		require.NoError(t, err)

		flipped, err := service.RefreshOverdueStatuses(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, flipped)

		stored, err := repo.FindByID(ctx, receivable.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.ReceivableStatusPaid, stored.Status)
	})
}
