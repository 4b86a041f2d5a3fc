package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDeliveryOrderRepository implements DeliveryOrderRepository using GORM
type GormDeliveryOrderRepository struct {
	db *gorm.DB
}

// NewGormDeliveryOrderRepository creates a new GormDeliveryOrderRepository
func NewGormDeliveryOrderRepository(db *gorm.DB) *GormDeliveryOrderRepository {
	return &GormDeliveryOrderRepository{db: db}
}

// FindByID finds a delivery order with its items
func (r *GormDeliveryOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.DeliveryOrder, error) {
	var order trade.DeliveryOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNo finds a delivery order by its order number
func (r *GormDeliveryOrderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*trade.DeliveryOrder, error) {
	var order trade.DeliveryOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_no = ?", strings.ToUpper(orderNo)).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds delivery orders matching the filter
func (r *GormDeliveryOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.DeliveryOrder, error) {
	var orders []trade.DeliveryOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.DeliveryOrder{}).Preload("Items"),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByWarung finds delivery orders for a warung
func (r *GormDeliveryOrderRepository) FindByWarung(ctx context.Context, warungID uuid.UUID, filter shared.Filter) ([]trade.DeliveryOrder, error) {
	var orders []trade.DeliveryOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.DeliveryOrder{}).Preload("Items").Where("warung_id = ?", warungID),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds delivery orders by status
func (r *GormDeliveryOrderRepository) FindByStatus(ctx context.Context, status trade.DeliveryOrderStatus, filter shared.Filter) ([]trade.DeliveryOrder, error) {
	var orders []trade.DeliveryOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.DeliveryOrder{}).Preload("Items").Where("status = ?", status),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Create inserts a brand-new delivery order with its items
func (r *GormDeliveryOrderRepository) Create(ctx context.Context, order *trade.DeliveryOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Save updates a delivery order and its items, enforcing the expected
// version. The order row is updated under a version guard; item rows are
// upserted and lines removed from the aggregate are deleted.
func (r *GormDeliveryOrderRepository) Save(ctx context.Context, order *trade.DeliveryOrder, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&trade.DeliveryOrder{}).
			Where("id = ? AND version = ?", order.ID, expectedVersion).
			Updates(map[string]interface{}{
				"status":        order.Status,
				"total_amount":  order.TotalAmount,
				"credit_days":   order.CreditDays,
				"note":          order.Note,
				"confirmed_at":  order.ConfirmedAt,
				"delivered_at":  order.DeliveredAt,
				"cancelled_at":  order.CancelledAt,
				"cancel_reason": order.CancelReason,
				"version":       order.Version,
				"updated_at":    time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		keep := make([]uuid.UUID, 0, len(order.Items))
		for i := range order.Items {
			item := &order.Items[i]
			keep = append(keep, item.ID)
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"quantity", "unit_price", "subtotal", "updated_at",
				}),
			}).Create(item).Error; err != nil {
				return err
			}
		}

		removal := tx.Where("delivery_order_id = ?", order.ID)
		if len(keep) > 0 {
			removal = removal.Where("id NOT IN ?", keep)
		}
		return removal.Delete(&trade.DeliveryOrderItem{}).Error
	})
}

// Count counts delivery orders matching the filter
func (r *GormDeliveryOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.DeliveryOrder{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByOrderNo checks if an order number is already taken
func (r *GormDeliveryOrderRepository) ExistsByOrderNo(ctx context.Context, orderNo string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.DeliveryOrder{}).
		Where("order_no = ?", strings.ToUpper(orderNo)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormDeliveryOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, DeliveryOrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDeliveryOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_no ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "warung_id":
			query = query.Where("warung_id = ?", value)
		}
	}

	return query
}

// Ensure GormDeliveryOrderRepository implements DeliveryOrderRepository
var _ trade.DeliveryOrderRepository = (*GormDeliveryOrderRepository)(nil)
