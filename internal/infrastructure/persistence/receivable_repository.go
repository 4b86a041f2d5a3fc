package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/finance"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReceivableRepository implements ReceivableRepository using GORM
type GormReceivableRepository struct {
	db *gorm.DB
}

// NewGormReceivableRepository creates a new GormReceivableRepository
func NewGormReceivableRepository(db *gorm.DB) *GormReceivableRepository {
	return &GormReceivableRepository{db: db}
}

// FindByID finds a receivable with its payments
func (r *GormReceivableRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Receivable, error) {
	var receivable finance.Receivable
	if err := r.db.WithContext(ctx).
		Preload("Payments").
		First(&receivable, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receivable, nil
}

// FindByDeliveryOrder finds the receivable opened for a delivery order
func (r *GormReceivableRepository) FindByDeliveryOrder(ctx context.Context, deliveryOrderID uuid.UUID) (*finance.Receivable, error) {
	var receivable finance.Receivable
	if err := r.db.WithContext(ctx).
		Preload("Payments").
		Where("delivery_order_id = ?", deliveryOrderID).
		First(&receivable).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receivable, nil
}

// FindByWarung lists receivables for a warung
func (r *GormReceivableRepository) FindByWarung(ctx context.Context, warungID uuid.UUID, filter shared.Filter) ([]finance.Receivable, error) {
	var receivables []finance.Receivable
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&finance.Receivable{}).Preload("Payments").Where("warung_id = ?", warungID),
		filter,
	)

	if err := query.Find(&receivables).Error; err != nil {
		return nil, err
	}
	return receivables, nil
}

// FindByStatus lists receivables by status
func (r *GormReceivableRepository) FindByStatus(ctx context.Context, status finance.ReceivableStatus, filter shared.Filter) ([]finance.Receivable, error) {
	var receivables []finance.Receivable
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&finance.Receivable{}).Preload("Payments").Where("status = ?", status),
		filter,
	)

	if err := query.Find(&receivables).Error; err != nil {
		return nil, err
	}
	return receivables, nil
}

// FindOverdue lists receivables whose status is OVERDUE, most overdue
// first, optionally narrowed by the filter (warung_id in particular)
func (r *GormReceivableRepository) FindOverdue(ctx context.Context, filter shared.Filter) ([]finance.Receivable, error) {
	var receivables []finance.Receivable
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).
			Model(&finance.Receivable{}).
			Preload("Payments").
			Where("status = ?", finance.ReceivableStatusOverdue),
		filter,
	)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("due_date ASC").Find(&receivables).Error; err != nil {
		return nil, err
	}
	return receivables, nil
}

// FindDueForRefresh lists unsettled receivables past the given due date
// whose stored status has not yet been flipped to OVERDUE
func (r *GormReceivableRepository) FindDueForRefresh(ctx context.Context, asOf time.Time, limit int) ([]finance.Receivable, error) {
	if limit <= 0 {
		limit = 100
	}

	var receivables []finance.Receivable
	if err := r.db.WithContext(ctx).
		Where("due_date < ? AND status IN ?", asOf, []finance.ReceivableStatus{
			finance.ReceivableStatusUnpaid,
			finance.ReceivableStatusPartial,
		}).
		Order("due_date ASC").
		Limit(limit).
		Find(&receivables).Error; err != nil {
		return nil, err
	}
	return receivables, nil
}

// Save persists a receivable and its payments, enforcing the expected version.
// The receivable row is updated under a version guard while payments are
// appended. Payment rows are immutable once written except for the reversal
// columns, so existing rows are updated in place and never deleted.
func (r *GormReceivableRepository) Save(ctx context.Context, receivable *finance.Receivable, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&finance.Receivable{}).
			Where("id = ? AND version = ?", receivable.ID, expectedVersion).
			Updates(map[string]interface{}{
				"paid_amount": receivable.PaidAmount,
				"due_date":    receivable.DueDate,
				"status":      receivable.Status,
				"version":     receivable.Version,
				"updated_at":  time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		for i := range receivable.Payments {
			payment := &receivable.Payments[i]
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"reversed", "reversed_at", "reverse_reason", "updated_at",
				}),
			}).Create(payment).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Create inserts a brand-new receivable
func (r *GormReceivableRepository) Create(ctx context.Context, receivable *finance.Receivable) error {
	return r.db.WithContext(ctx).Create(receivable).Error
}

// Count counts receivables matching the filter
func (r *GormReceivableRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&finance.Receivable{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormReceivableRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ReceivableSortFields, "due_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormReceivableRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "warung_id":
			query = query.Where("warung_id = ?", value)
		case "due_before":
			query = query.Where("due_date < ?", value)
		case "due_after":
			query = query.Where("due_date >= ?", value)
		}
	}

	return query
}

// Ensure GormReceivableRepository implements ReceivableRepository
var _ finance.ReceivableRepository = (*GormReceivableRepository)(nil)
