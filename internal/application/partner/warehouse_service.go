package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/partner"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// WarehouseService handles warehouse operations
type WarehouseService struct {
	warehouseRepo  partner.WarehouseRepository
	eventPublisher shared.EventPublisher
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(warehouseRepo partner.WarehouseRepository) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *WarehouseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new warehouse
func (s *WarehouseService) Create(ctx context.Context, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	exists, err := s.warehouseRepo.ExistsByCode(ctx, strings.ToUpper(req.Code))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Warehouse code is already taken")
	}

	warehouse, err := partner.NewWarehouse(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := warehouse.SetContact(req.ContactName, req.Phone); err != nil {
		return nil, err
	}
	warehouse.SetAddress(req.Address, req.City, req.Province)

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, warehouse)

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// Get retrieves a warehouse by ID
func (s *WarehouseService) Get(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// List lists all warehouses
func (s *WarehouseService) List(ctx context.Context, filter shared.Filter) ([]WarehouseResponse, error) {
	warehouses, err := s.warehouseRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToWarehouseResponses(warehouses), nil
}

// ListActive lists warehouses that can take new orders
func (s *WarehouseService) ListActive(ctx context.Context) ([]WarehouseResponse, error) {
	warehouses, err := s.warehouseRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return ToWarehouseResponses(warehouses), nil
}

// Update updates a warehouse's information
func (s *WarehouseService) Update(ctx context.Context, id uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	return s.mutate(ctx, id, func(warehouse *partner.Warehouse) error {
		if err := warehouse.Update(req.Name); err != nil {
			return err
		}
		if err := warehouse.SetContact(req.ContactName, req.Phone); err != nil {
			return err
		}
		warehouse.SetAddress(req.Address, req.City, req.Province)
		return nil
	})
}

// Activate sets the warehouse status to active
func (s *WarehouseService) Activate(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	return s.mutate(ctx, id, func(warehouse *partner.Warehouse) error {
		warehouse.Activate()
		return nil
	})
}

// Deactivate excludes the warehouse from new orders
func (s *WarehouseService) Deactivate(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	return s.mutate(ctx, id, func(warehouse *partner.Warehouse) error {
		warehouse.Deactivate()
		return nil
	})
}

func (s *WarehouseService) mutate(ctx context.Context, id uuid.UUID, fn func(warehouse *partner.Warehouse) error) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(warehouse); err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, warehouse)

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

func (s *WarehouseService) publishEvents(ctx context.Context, warehouse *partner.Warehouse) {
	if s.eventPublisher == nil {
		return
	}
	events := warehouse.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	warehouse.ClearDomainEvents()
}
