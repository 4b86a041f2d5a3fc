package catalog

import (
	"strings"
	"time"

	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// IsValid checks if the product status is valid
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDiscontinued:
		return true
	}
	return false
}

// Product represents a SKU in the catalog.
// It is the aggregate root for product-related operations.
type Product struct {
	shared.BaseAggregateRoot
	SKU           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	Unit          string          `gorm:"type:varchar(20);not null"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	MinStock      int64           `gorm:"not null;default:0"`
	Status        ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(sku, name, unit string) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(unit) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unit cannot be empty")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(sku),
		Name:              name,
		Unit:              unit,
		PurchasePrice:     decimal.Zero,
		SellingPrice:      decimal.Zero,
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// NewProductWithPrices creates a new product with prices set
func NewProductWithPrices(sku, name, unit string, purchasePrice, sellingPrice valueobject.Money) (*Product, error) {
	product, err := NewProduct(sku, name, unit)
	if err != nil {
		return nil, err
	}
	if err := product.SetPrices(purchasePrice, sellingPrice); err != nil {
		return nil, err
	}
	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetPrices sets both purchase and selling prices
func (p *Product) SetPrices(purchasePrice, sellingPrice valueobject.Money) error {
	if purchasePrice.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Purchase price cannot be negative")
	}
	if sellingPrice.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Selling price cannot be negative")
	}

	p.PurchasePrice = purchasePrice.Amount()
	p.SellingPrice = sellingPrice.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetMinStock sets the minimum stock threshold for reorder alerts
func (p *Product) SetMinStock(minStock int64) error {
	if minStock < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Minimum stock cannot be negative")
	}

	p.MinStock = minStock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Activate sets the product status to active
func (p *Product) Activate() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("INVALID_TRANSITION", "Discontinued products cannot be reactivated")
	}
	p.changeStatus(ProductStatusActive)
	return nil
}

// Deactivate sets the product status to inactive
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("INVALID_TRANSITION", "Discontinued products cannot be deactivated")
	}
	p.changeStatus(ProductStatusInactive)
	return nil
}

// Discontinue permanently retires the product
func (p *Product) Discontinue() {
	p.changeStatus(ProductStatusDiscontinued)
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

func (p *Product) changeStatus(newStatus ProductStatus) {
	if p.Status == newStatus {
		return
	}
	oldStatus := p.Status
	p.Status = newStatus
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, newStatus))
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "SKU cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("VALIDATION_ERROR", "Product name cannot exceed 200 characters")
	}
	return nil
}
