package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements StockMovementRepository using GORM.
// The ledger is append-only: there is no update or delete path here.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Append persists a new movement
func (r *GormStockMovementRepository) Append(ctx context.Context, movement *ledger.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// AppendBatch persists multiple movements atomically
func (r *GormStockMovementRepository) AppendBatch(ctx context.Context, movements []*ledger.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(movements).Error
}

// FindByID finds a movement by its ID
func (r *GormStockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.StockMovement, error) {
	var movement ledger.StockMovement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindBySource finds all movements produced by a source document
func (r *GormStockMovementRepository) FindBySource(ctx context.Context, sourceType ledger.SourceType, sourceID uuid.UUID) ([]ledger.StockMovement, error) {
	var movements []ledger.StockMovement
	if err := r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("occurred_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// History lists movements matching the filter, newest first
func (r *GormStockMovementRepository) History(ctx context.Context, filter ledger.MovementFilter) ([]ledger.StockMovement, int64, error) {
	countQuery := applyMovementFilter(r.db.WithContext(ctx).Model(&ledger.StockMovement{}), filter)

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	findQuery := applyMovementFilter(r.db.WithContext(ctx).Model(&ledger.StockMovement{}), filter)

	var movements []ledger.StockMovement
	if err := findQuery.
		Order("occurred_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&movements).Error; err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}

// SumQuantity folds the signed deltas for a product in a warehouse
func (r *GormStockMovementRepository) SumQuantity(ctx context.Context, productID, warehouseID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&ledger.StockMovement{}).
		Select("COALESCE(SUM(CASE WHEN kind IN ? THEN -quantity ELSE quantity END), 0)", []ledger.MovementKind{
			ledger.MovementKindSaleOut,
			ledger.MovementKindTransferOut,
			ledger.MovementKindAdjustmentOut,
		}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}

// applyMovementFilter narrows the query to the filter's criteria
func applyMovementFilter(query *gorm.DB, filter ledger.MovementFilter) *gorm.DB {
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.SourceType != nil {
		query = query.Where("source_type = ?", *filter.SourceType)
	}
	if filter.SourceID != nil {
		query = query.Where("source_id = ?", *filter.SourceID)
	}
	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at <= ?", *filter.To)
	}
	return query
}

// Ensure GormStockMovementRepository implements StockMovementRepository
var _ ledger.StockMovementRepository = (*GormStockMovementRepository)(nil)
