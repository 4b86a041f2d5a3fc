package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/catalog"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared/valueobject"
)

// ProductService handles product catalog operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new product in the catalog
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, strings.ToUpper(req.SKU))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "SKU is already taken")
	}

	product, err := catalog.NewProductWithPrices(
		req.SKU, req.Name, req.Unit,
		valueobject.NewMoneyIDR(req.PurchasePrice),
		valueobject.NewMoneyIDR(req.SellingPrice),
	)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	if req.MinStock > 0 {
		if err := product.SetMinStock(req.MinStock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Get retrieves a product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by its SKU
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, strings.ToUpper(sku))
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List lists products, optionally narrowed to one status
func (s *ProductService) List(ctx context.Context, status string, filter shared.Filter) ([]ProductResponse, error) {
	if status != "" {
		productStatus := catalog.ProductStatus(status)
		if !productStatus.IsValid() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid product status")
		}
		products, err := s.productRepo.FindByStatus(ctx, productStatus, filter)
		if err != nil {
			return nil, err
		}
		return ToProductResponses(products), nil
	}

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Update updates a product's basic information
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	return s.mutate(ctx, id, func(product *catalog.Product) error {
		return product.Update(req.Name, req.Description)
	})
}

// SetPrices reprices a product
func (s *ProductService) SetPrices(ctx context.Context, id uuid.UUID, req SetPricesRequest) (*ProductResponse, error) {
	return s.mutate(ctx, id, func(product *catalog.Product) error {
		return product.SetPrices(
			valueobject.NewMoneyIDR(req.PurchasePrice),
			valueobject.NewMoneyIDR(req.SellingPrice),
		)
	})
}

// SetMinStock changes the reorder threshold
func (s *ProductService) SetMinStock(ctx context.Context, id uuid.UUID, req SetMinStockRequest) (*ProductResponse, error) {
	return s.mutate(ctx, id, func(product *catalog.Product) error {
		return product.SetMinStock(req.MinStock)
	})
}

// Activate sets the product status to active
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, id, func(product *catalog.Product) error {
		return product.Activate()
	})
}

// Deactivate sets the product status to inactive
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, id, func(product *catalog.Product) error {
		return product.Deactivate()
	})
}

// Discontinue permanently retires a product
func (s *ProductService) Discontinue(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, id, func(product *catalog.Product) error {
		product.Discontinue()
		return nil
	})
}

func (s *ProductService) mutate(ctx context.Context, id uuid.UUID, fn func(product *catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}
