package trade

import (
	"context"
	"strings"

	"github.com/google/uuid"
	appledger "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/catalog"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/partner"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared/valueobject"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/trade"
)

// maxConflictRetries bounds how often fulfillment is retried after losing
// an optimistic concurrency race before the conflict is surfaced.
const maxConflictRetries = 3

// PurchaseOrderService handles purchase order operations
type PurchaseOrderService struct {
	txScope        TransactionScope
	orderRepo      trade.PurchaseOrderRepository
	productRepo    catalog.ProductRepository
	warehouseRepo  partner.WarehouseRepository
	eventPublisher shared.EventPublisher
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	txScope TransactionScope,
	orderRepo trade.PurchaseOrderRepository,
	productRepo catalog.ProductRepository,
	warehouseRepo partner.WarehouseRepository,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		txScope:       txScope,
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft purchase order with the given lines
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	exists, err := s.orderRepo.ExistsByOrderNo(ctx, strings.ToUpper(req.OrderNo))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Order number is already taken")
	}

	order, err := trade.NewPurchaseOrder(req.OrderNo, req.SupplierName, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	order.Note = req.Note

	for _, item := range req.Items {
		if err := order.AddItem(item.ProductID, item.Quantity, valueobject.NewMoneyIDR(item.UnitPrice)); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Get retrieves a purchase order with its items
func (s *PurchaseOrderService) Get(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByOrderNo retrieves a purchase order by its order number
func (s *PurchaseOrderService) GetByOrderNo(ctx context.Context, orderNo string) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNo(ctx, strings.ToUpper(orderNo))
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List lists purchase orders, optionally narrowed to one status
func (s *PurchaseOrderService) List(ctx context.Context, status string, filter shared.Filter) ([]PurchaseOrderResponse, error) {
	if status != "" {
		orderStatus := trade.PurchaseOrderStatus(status)
		if !orderStatus.IsValid() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid order status")
		}
		orders, err := s.orderRepo.FindByStatus(ctx, orderStatus, filter)
		if err != nil {
			return nil, err
		}
		return ToPurchaseOrderResponses(orders), nil
	}

	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponses(orders), nil
}

// AddItem adds or merges a product line on a draft order
func (s *PurchaseOrderService) AddItem(ctx context.Context, orderID uuid.UUID, req AddItemRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.PurchaseOrder) error {
		return order.AddItem(req.ProductID, req.Quantity, valueobject.NewMoneyIDR(req.UnitPrice))
	})
}

// UpdateItemQuantity changes the quantity of an existing line on a draft order
func (s *PurchaseOrderService) UpdateItemQuantity(ctx context.Context, orderID uuid.UUID, req UpdateItemRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.PurchaseOrder) error {
		return order.UpdateItemQuantity(req.ProductID, req.Quantity)
	})
}

// RemoveItem removes a product line from a draft order
func (s *PurchaseOrderService) RemoveItem(ctx context.Context, orderID, productID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.PurchaseOrder) error {
		return order.RemoveItem(productID)
	})
}

// Confirm locks the order lines and commits to the supplier. Every
// referenced product and the receiving warehouse must still exist and be
// active; a draft can go stale while a product is discontinued or a
// warehouse is retired.
func (s *PurchaseOrderService) Confirm(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.PurchaseOrder) error {
		if err := ensureWarehouseActive(ctx, s.warehouseRepo, order.WarehouseID); err != nil {
			return err
		}
		productIDs := make([]uuid.UUID, 0, len(order.Items))
		for i := range order.Items {
			productIDs = append(productIDs, order.Items[i].ProductID)
		}
		if err := ensureProductsActive(ctx, s.productRepo, productIDs); err != nil {
			return err
		}
		return order.Confirm()
	})
}

// Cancel voids the order before any stock has been received
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.PurchaseOrder) error {
		return order.Cancel(reason)
	})
}

// Receive books the arrival of a confirmed order. The status change and
// one PURCHASE_IN movement per line commit in a single transaction.
// Receiving an already received order is a no-op that returns the
// movements booked the first time.
func (s *PurchaseOrderService) Receive(ctx context.Context, orderID uuid.UUID, actor string) (*ReceiveResponse, error) {
	var order *trade.PurchaseOrder
	var movements []*ledger.StockMovement
	var alreadyReceived []ledger.StockMovement

	run := func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		expectedVersion := order.GetVersion()

		if order.IsReceived() {
			alreadyReceived, err = repos.MovementRepo().FindBySource(ctx, ledger.SourceTypePurchaseOrder, order.ID)
			return err
		}

		if err := order.MarkReceived(); err != nil {
			return err
		}

		movements = movements[:0]
		for i := range order.Items {
			movement, err := appledger.ApplyMovement(ctx, repos, appledger.MovementCommand{
				ProductID:   order.Items[i].ProductID,
				WarehouseID: order.WarehouseID,
				Kind:        ledger.MovementKindPurchaseIn,
				Quantity:    order.Items[i].Quantity,
				SourceType:  ledger.SourceTypePurchaseOrder,
				SourceID:    &order.ID,
				Actor:       actor,
			})
			if err != nil {
				return err
			}
			movements = append(movements, movement)
		}

		return repos.PurchaseOrderRepo().Save(ctx, order, expectedVersion)
	}

	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = s.txScope.Execute(ctx, run)
		if !appledger.IsConcurrencyConflict(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	if alreadyReceived != nil {
		return &ReceiveResponse{
			Order:     ToPurchaseOrderResponse(order),
			Movements: appledger.ToMovementResponses(alreadyReceived),
		}, nil
	}

	s.publishEvents(ctx, order)
	s.publishMovements(ctx, movements)

	booked := make([]appledger.MovementResponse, 0, len(movements))
	for _, movement := range movements {
		booked = append(booked, appledger.ToMovementResponse(movement))
	}

	return &ReceiveResponse{
		Order:     ToPurchaseOrderResponse(order),
		Movements: booked,
	}, nil
}

// mutate loads the order, applies fn, and saves under the version that
// was read. Losing the optimistic race re-reads and re-applies, so a
// transition raced by another writer is re-judged against the fresh
// status instead of overwriting it.
func (s *PurchaseOrderService) mutate(ctx context.Context, orderID uuid.UUID, fn func(order *trade.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	var order *trade.PurchaseOrder
	var err error

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		order, err = s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		expectedVersion := order.GetVersion()

		if err = fn(order); err != nil {
			return nil, err
		}

		err = s.orderRepo.Save(ctx, order, expectedVersion)
		if !appledger.IsConcurrencyConflict(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

func (s *PurchaseOrderService) publishEvents(ctx context.Context, order *trade.PurchaseOrder) {
	if s.eventPublisher == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}

func (s *PurchaseOrderService) publishMovements(ctx context.Context, movements []*ledger.StockMovement) {
	if s.eventPublisher == nil {
		return
	}
	for _, movement := range movements {
		_ = s.eventPublisher.Publish(ctx, ledger.NewStockMovementRecordedEvent(movement))
	}
}
