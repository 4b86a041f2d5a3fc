package ledger

import (
	"context"

	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/ledger"
)

// TransactionScope provides transactional access to ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories
// within a transaction. The movement append and the stock level update
// for one operation must always share a transaction, or the cache and
// the ledger can disagree.
type TransactionalRepositories interface {
	// MovementRepo returns the movement repository scoped to the current transaction
	MovementRepo() ledger.StockMovementRepository
	// LevelRepo returns the stock level repository scoped to the current transaction
	LevelRepo() ledger.StockLevelRepository
	// OpnameRepo returns the opname repository scoped to the current transaction
	OpnameRepo() ledger.StockOpnameRepository
}

// NoOpTransactionScope runs functions without a real transaction. For tests.
type NoOpTransactionScope struct {
	movementRepo ledger.StockMovementRepository
	levelRepo    ledger.StockLevelRepository
	opnameRepo   ledger.StockOpnameRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	movementRepo ledger.StockMovementRepository,
	levelRepo ledger.StockLevelRepository,
	opnameRepo ledger.StockOpnameRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		movementRepo: movementRepo,
		levelRepo:    levelRepo,
		opnameRepo:   opnameRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// MovementRepo returns the movement repository
func (s *NoOpTransactionScope) MovementRepo() ledger.StockMovementRepository {
	return s.movementRepo
}

// LevelRepo returns the stock level repository
func (s *NoOpTransactionScope) LevelRepo() ledger.StockLevelRepository {
	return s.levelRepo
}

// OpnameRepo returns the opname repository
func (s *NoOpTransactionScope) OpnameRepo() ledger.StockOpnameRepository {
	return s.opnameRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
