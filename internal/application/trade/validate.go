package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/catalog"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/partner"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// ensureWarehouseActive verifies the warehouse exists and accepts stock
// operations. Confirming an order against a retired or unknown warehouse
// would book movements into a location nobody operates.
func ensureWarehouseActive(ctx context.Context, repo partner.WarehouseRepository, warehouseID uuid.UUID) error {
	warehouse, err := repo.FindByID(ctx, warehouseID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Warehouse not found")
		}
		return err
	}
	if !warehouse.IsActive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Warehouse "+warehouse.Code+" is not active")
	}
	return nil
}

// ensureProductsActive verifies every referenced product exists and is
// active, in one batched lookup.
func ensureProductsActive(ctx context.Context, repo catalog.ProductRepository, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	products, err := repo.FindByIDs(ctx, productIDs)
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for _, id := range productIDs {
		product, ok := byID[id]
		if !ok {
			return shared.NewDomainError("NOT_FOUND", "Product not found: "+id.String())
		}
		if !product.IsActive() {
			return shared.NewDomainError("VALIDATION_ERROR", "Product "+product.SKU+" is not active")
		}
	}
	return nil
}
