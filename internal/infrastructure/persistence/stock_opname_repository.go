package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockOpnameRepository implements StockOpnameRepository using GORM
type GormStockOpnameRepository struct {
	db *gorm.DB
}

// NewGormStockOpnameRepository creates a new GormStockOpnameRepository
func NewGormStockOpnameRepository(db *gorm.DB) *GormStockOpnameRepository {
	return &GormStockOpnameRepository{db: db}
}

// FindByID finds an opname with its lines
func (r *GormStockOpnameRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.StockOpname, error) {
	var opname ledger.StockOpname
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&opname, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &opname, nil
}

// FindByWarehouse lists opnames for a warehouse
func (r *GormStockOpnameRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]ledger.StockOpname, error) {
	var opnames []ledger.StockOpname
	query := r.db.WithContext(ctx).
		Model(&ledger.StockOpname{}).
		Preload("Lines").
		Where("warehouse_id = ?", warehouseID)

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, OpnameSortFields, "counted_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	if err := query.Order(orderBy + " " + orderDir).Find(&opnames).Error; err != nil {
		return nil, err
	}
	return opnames, nil
}

// Save creates or updates an opname and its lines
func (r *GormStockOpnameRepository) Save(ctx context.Context, opname *ledger.StockOpname) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(opname).Error
}

// Ensure GormStockOpnameRepository implements StockOpnameRepository
var _ ledger.StockOpnameRepository = (*GormStockOpnameRepository)(nil)
