package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockLevelRepository implements StockLevelRepository using GORM
type GormStockLevelRepository struct {
	db *gorm.DB
}

// NewGormStockLevelRepository creates a new GormStockLevelRepository
func NewGormStockLevelRepository(db *gorm.DB) *GormStockLevelRepository {
	return &GormStockLevelRepository{db: db}
}

// Find finds the stock level for a product in a warehouse
func (r *GormStockLevelRepository) Find(ctx context.Context, productID, warehouseID uuid.UUID) (*ledger.StockLevel, error) {
	var level ledger.StockLevel
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// FindByWarehouse lists all stock levels in a warehouse
func (r *GormStockLevelRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]ledger.StockLevel, error) {
	var levels []ledger.StockLevel
	query := r.db.WithContext(ctx).
		Model(&ledger.StockLevel{}).
		Where("warehouse_id = ?", warehouseID)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockLevelSortFields, "product_id")
	orderDir := ValidateSortOrder(filter.OrderDir)

	if err := query.Order(orderBy + " " + orderDir).Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// FindByProduct lists a product's stock levels across all warehouses
func (r *GormStockLevelRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]ledger.StockLevel, error) {
	var levels []ledger.StockLevel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("warehouse_id ASC").
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// Save persists a stock level, enforcing the expected version.
// The WHERE clause carries the version the caller read, so a row moved by a
// concurrent writer matches nothing and surfaces as a conflict.
func (r *GormStockLevelRepository) Save(ctx context.Context, level *ledger.StockLevel, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&ledger.StockLevel{}).
		Where("id = ? AND version = ?", level.ID, expectedVersion).
		Updates(map[string]interface{}{
			"quantity":   level.Quantity,
			"version":    level.Version,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Create inserts a brand-new stock level row. A unique index on
// (product_id, warehouse_id) stops two first movements from racing each
// other into duplicate rows; the loser surfaces as ErrAlreadyExists.
func (r *GormStockLevelRepository) Create(ctx context.Context, level *ledger.StockLevel) error {
	err := r.db.WithContext(ctx).Create(level).Error
	if err != nil && isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// isUniqueViolation matches the dialect-specific duplicate key error
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// Ensure GormStockLevelRepository implements StockLevelRepository
var _ ledger.StockLevelRepository = (*GormStockLevelRepository)(nil)
