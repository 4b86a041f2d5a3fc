package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the input for registering a product
type CreateProductRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Unit          string          `json:"unit" binding:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	MinStock      int64           `json:"min_stock" binding:"gte=0"`
}

// UpdateProductRequest is the input for updating product information
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// SetPricesRequest is the input for repricing a product
type SetPricesRequest struct {
	PurchasePrice decimal.Decimal `json:"purchase_price" binding:"required"`
	SellingPrice  decimal.Decimal `json:"selling_price" binding:"required"`
}

// SetMinStockRequest is the input for changing the reorder threshold
type SetMinStockRequest struct {
	MinStock int64 `json:"min_stock" binding:"gte=0"`
}

// ProductResponse is the API shape of a product
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	MinStock      int64           `json:"min_stock"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToProductResponse maps a domain product to its API shape
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Unit:          p.Unit,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		MinStock:      p.MinStock,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToProductResponses maps a slice of domain products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out
}
