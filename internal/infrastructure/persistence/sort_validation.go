package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"sku":            true,
	"name":           true,
	"unit":           true,
	"status":         true,
	"purchase_price": true,
	"selling_price":  true,
	"min_stock":      true,
}

// WarehouseSortFields contains allowed sort fields for warehouses
var WarehouseSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"status":     true,
	"city":       true,
	"province":   true,
}

// WarungSortFields contains allowed sort fields for warungs
var WarungSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"name":         true,
	"owner_name":   true,
	"status":       true,
	"city":         true,
	"credit_days":  true,
	"credit_limit": true,
}

// MovementSortFields contains allowed sort fields for stock movements
var MovementSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"occurred_at":  true,
	"product_id":   true,
	"warehouse_id": true,
	"kind":         true,
	"quantity":     true,
	"source_type":  true,
}

// StockLevelSortFields contains allowed sort fields for stock levels
var StockLevelSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"product_id":   true,
	"warehouse_id": true,
	"quantity":     true,
}

// OpnameSortFields contains allowed sort fields for stock opnames
var OpnameSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"warehouse_id":  true,
	"status":        true,
	"counted_at":    true,
	"reconciled_at": true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"order_no":      true,
	"supplier_name": true,
	"warehouse_id":  true,
	"status":        true,
	"total_amount":  true,
	"confirmed_at":  true,
	"received_at":   true,
}

// DeliveryOrderSortFields contains allowed sort fields for delivery orders
var DeliveryOrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_no":     true,
	"warung_id":    true,
	"warehouse_id": true,
	"status":       true,
	"total_amount": true,
	"confirmed_at": true,
	"delivered_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"display_name":  true,
	"status":        true,
	"last_login_at": true,
}

// ReceivableSortFields contains allowed sort fields for receivables
var ReceivableSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"delivery_order_id": true,
	"warung_id":         true,
	"total_amount":      true,
	"paid_amount":       true,
	"due_date":          true,
	"status":            true,
}
