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

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order with its items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
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

// FindByOrderNo finds a purchase order by its order number
func (r *GormPurchaseOrderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
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

// FindAll finds purchase orders matching the filter
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	var orders []trade.PurchaseOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.PurchaseOrder{}).Preload("Items"),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds purchase orders by status
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, status trade.PurchaseOrderStatus, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	var orders []trade.PurchaseOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.PurchaseOrder{}).Preload("Items").Where("status = ?", status),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Create inserts a brand-new purchase order with its items
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *trade.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Save updates a purchase order and its items, enforcing the expected
// version. The order row is updated under a version guard; item rows are
// upserted and lines removed from the aggregate are deleted.
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&trade.PurchaseOrder{}).
			Where("id = ? AND version = ?", order.ID, expectedVersion).
			Updates(map[string]interface{}{
				"status":        order.Status,
				"total_amount":  order.TotalAmount,
				"note":          order.Note,
				"confirmed_at":  order.ConfirmedAt,
				"received_at":   order.ReceivedAt,
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

		removal := tx.Where("purchase_order_id = ?", order.ID)
		if len(keep) > 0 {
			removal = removal.Where("id NOT IN ?", keep)
		}
		return removal.Delete(&trade.PurchaseOrderItem{}).Error
	})
}

// Count counts purchase orders matching the filter
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.PurchaseOrder{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByOrderNo checks if an order number is already taken
func (r *GormPurchaseOrderRepository) ExistsByOrderNo(ctx context.Context, orderNo string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.PurchaseOrder{}).
		Where("order_no = ?", strings.ToUpper(orderNo)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPurchaseOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_no ILIKE ? OR supplier_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "supplier_name":
			query = query.Where("supplier_name = ?", value)
		}
	}

	return query
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
