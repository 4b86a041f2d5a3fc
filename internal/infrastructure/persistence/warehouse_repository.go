package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/partner"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"gorm.io/gorm"
)

// GormWarehouseRepository stores warehouses in the warehouses table.
// Codes are uppercased on write, so lookups uppercase the input.
type GormWarehouseRepository struct {
	db *gorm.DB
}

func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

func (r *GormWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Warehouse, error) {
	var warehouse partner.Warehouse
	err := r.db.WithContext(ctx).First(&warehouse, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func (r *GormWarehouseRepository) FindByCode(ctx context.Context, code string) (*partner.Warehouse, error) {
	var warehouse partner.Warehouse
	err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&warehouse).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func (r *GormWarehouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Warehouse, error) {
	var warehouses []partner.Warehouse
	err := r.scoped(r.db.WithContext(ctx).Model(&partner.Warehouse{}), filter).
		Find(&warehouses).Error
	if err != nil {
		return nil, err
	}
	return warehouses, nil
}

// FindActive lists every active warehouse ordered by code, for pickers
// and sweep fan-out where pagination is unwanted
func (r *GormWarehouseRepository) FindActive(ctx context.Context) ([]partner.Warehouse, error) {
	var warehouses []partner.Warehouse
	err := r.db.WithContext(ctx).
		Where("status = ?", partner.WarehouseStatusActive).
		Order("code ASC").
		Find(&warehouses).Error
	if err != nil {
		return nil, err
	}
	return warehouses, nil
}

func (r *GormWarehouseRepository) Save(ctx context.Context, warehouse *partner.Warehouse) error {
	return r.db.WithContext(ctx).Save(warehouse).Error
}

func (r *GormWarehouseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Warehouse{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormWarehouseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&partner.Warehouse{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormWarehouseRepository) scoped(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR city ILIKE ?",
			pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "city":
			query = query.Where("city = ?", value)
		case "province":
			query = query.Where("province = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, WarehouseSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

var _ partner.WarehouseRepository = (*GormWarehouseRepository)(nil)
