package persistence

import (
	"context"

	appledger "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/ledger"
	apptrade "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/trade"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/finance"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/trade"
	"gorm.io/gorm"
)

// GormLedgerTransactionScope runs ledger operations inside a database
// transaction. Each Execute call opens a transaction, rebinds the
// repositories to it, and commits or rolls back with the callback.
type GormLedgerTransactionScope struct {
	db *gorm.DB
}

// NewGormLedgerTransactionScope creates a new GormLedgerTransactionScope
func NewGormLedgerTransactionScope(db *gorm.DB) *GormLedgerTransactionScope {
	return &GormLedgerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormLedgerTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerRepositories{tx: tx})
	})
}

// gormLedgerRepositories binds the ledger repositories to one transaction
type gormLedgerRepositories struct {
	tx *gorm.DB
}

func (r *gormLedgerRepositories) MovementRepo() ledger.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormLedgerRepositories) LevelRepo() ledger.StockLevelRepository {
	return NewGormStockLevelRepository(r.tx)
}

func (r *gormLedgerRepositories) OpnameRepo() ledger.StockOpnameRepository {
	return NewGormStockOpnameRepository(r.tx)
}

// GormTradeTransactionScope runs order fulfillment inside a database
// transaction spanning the order, ledger, and receivable repositories.
type GormTradeTransactionScope struct {
	db *gorm.DB
}

// NewGormTradeTransactionScope creates a new GormTradeTransactionScope
func NewGormTradeTransactionScope(db *gorm.DB) *GormTradeTransactionScope {
	return &GormTradeTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTradeTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTradeRepositories{gormLedgerRepositories{tx: tx}})
	})
}

// gormTradeRepositories binds the trade and finance repositories to one
// transaction, sharing the ledger bindings.
type gormTradeRepositories struct {
	gormLedgerRepositories
}

func (r *gormTradeRepositories) PurchaseOrderRepo() trade.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

func (r *gormTradeRepositories) DeliveryOrderRepo() trade.DeliveryOrderRepository {
	return NewGormDeliveryOrderRepository(r.tx)
}

func (r *gormTradeRepositories) ReceivableRepo() finance.ReceivableRepository {
	return NewGormReceivableRepository(r.tx)
}

var _ appledger.TransactionScope = (*GormLedgerTransactionScope)(nil)
var _ appledger.TransactionalRepositories = (*gormLedgerRepositories)(nil)
var _ apptrade.TransactionScope = (*GormTradeTransactionScope)(nil)
var _ apptrade.TransactionalRepositories = (*gormTradeRepositories)(nil)
