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

// GormWarungRepository implements WarungRepository using GORM
type GormWarungRepository struct {
	db *gorm.DB
}

// NewGormWarungRepository creates a new GormWarungRepository
func NewGormWarungRepository(db *gorm.DB) *GormWarungRepository {
	return &GormWarungRepository{db: db}
}

// FindByID finds a warung by its ID
func (r *GormWarungRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Warung, error) {
	var warung partner.Warung
	if err := r.db.WithContext(ctx).First(&warung, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &warung, nil
}

// FindByCode finds a warung by its code
func (r *GormWarungRepository) FindByCode(ctx context.Context, code string) (*partner.Warung, error) {
	var warung partner.Warung
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&warung).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &warung, nil
}

// FindAll finds all warungs matching the filter
func (r *GormWarungRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Warung, error) {
	var warungs []partner.Warung
	query := r.applyFilter(r.db.WithContext(ctx).Model(&partner.Warung{}), filter)

	if err := query.Find(&warungs).Error; err != nil {
		return nil, err
	}
	return warungs, nil
}

// FindByStatus finds warungs by status
func (r *GormWarungRepository) FindByStatus(ctx context.Context, status partner.WarungStatus, filter shared.Filter) ([]partner.Warung, error) {
	var warungs []partner.Warung
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&partner.Warung{}).Where("status = ?", status),
		filter,
	)

	if err := query.Find(&warungs).Error; err != nil {
		return nil, err
	}
	return warungs, nil
}

// Save creates or updates a warung
func (r *GormWarungRepository) Save(ctx context.Context, warung *partner.Warung) error {
	return r.db.WithContext(ctx).Save(warung).Error
}

// Delete deletes a warung
func (r *GormWarungRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Warung{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts warungs matching the filter
func (r *GormWarungRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&partner.Warung{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a warung with the given code exists
func (r *GormWarungRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Warung{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormWarungRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, WarungSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormWarungRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR owner_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "city":
			query = query.Where("city = ?", value)
		}
	}

	return query
}

// Ensure GormWarungRepository implements WarungRepository
var _ partner.WarungRepository = (*GormWarungRepository)(nil)
