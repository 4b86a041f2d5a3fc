package trade

import (
	"context"

	appledger "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/finance"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories an
// order fulfillment touches. Receiving or delivering an order writes the
// order, the ledger, the stock levels, and possibly a receivable, and all
// of it must commit or roll back as one.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories scoped to the
// current transaction. The ledger repositories are embedded so fulfillment
// can book movements through the same path manual movements take.
type TransactionalRepositories interface {
	appledger.TransactionalRepositories

	// PurchaseOrderRepo returns the purchase order repository scoped to the current transaction
	PurchaseOrderRepo() trade.PurchaseOrderRepository
	// DeliveryOrderRepo returns the delivery order repository scoped to the current transaction
	DeliveryOrderRepo() trade.DeliveryOrderRepository
	// ReceivableRepo returns the receivable repository scoped to the current transaction
	ReceivableRepo() finance.ReceivableRepository
}

// NoOpTransactionScope runs functions without a real transaction. For tests.
type NoOpTransactionScope struct {
	*appledger.NoOpTransactionScope
	purchaseOrderRepo trade.PurchaseOrderRepository
	deliveryOrderRepo trade.DeliveryOrderRepository
	receivableRepo    finance.ReceivableRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	ledgerScope *appledger.NoOpTransactionScope,
	purchaseOrderRepo trade.PurchaseOrderRepository,
	deliveryOrderRepo trade.DeliveryOrderRepository,
	receivableRepo finance.ReceivableRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		NoOpTransactionScope: ledgerScope,
		purchaseOrderRepo:    purchaseOrderRepo,
		deliveryOrderRepo:    deliveryOrderRepo,
		receivableRepo:       receivableRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PurchaseOrderRepo returns the purchase order repository
func (s *NoOpTransactionScope) PurchaseOrderRepo() trade.PurchaseOrderRepository {
	return s.purchaseOrderRepo
}

// DeliveryOrderRepo returns the delivery order repository
func (s *NoOpTransactionScope) DeliveryOrderRepo() trade.DeliveryOrderRepository {
	return s.deliveryOrderRepo
}

// ReceivableRepo returns the receivable repository
func (s *NoOpTransactionScope) ReceivableRepo() finance.ReceivableRepository {
	return s.receivableRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
