package trade

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	appledger "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/catalog"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/finance"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/partner"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared/valueobject"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/trade"
)

// DeliveryOrderService handles delivery order operations
type DeliveryOrderService struct {
	txScope        TransactionScope
	orderRepo      trade.DeliveryOrderRepository
	warungRepo     partner.WarungRepository
	productRepo    catalog.ProductRepository
	warehouseRepo  partner.WarehouseRepository
	eventPublisher shared.EventPublisher
}

// NewDeliveryOrderService creates a new DeliveryOrderService
func NewDeliveryOrderService(
	txScope TransactionScope,
	orderRepo trade.DeliveryOrderRepository,
	warungRepo partner.WarungRepository,
	productRepo catalog.ProductRepository,
	warehouseRepo partner.WarehouseRepository,
) *DeliveryOrderService {
	return &DeliveryOrderService{
		txScope:       txScope,
		orderRepo:     orderRepo,
		warungRepo:    warungRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DeliveryOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft delivery order for an active warung
func (s *DeliveryOrderService) Create(ctx context.Context, req CreateDeliveryOrderRequest) (*DeliveryOrderResponse, error) {
	exists, err := s.orderRepo.ExistsByOrderNo(ctx, strings.ToUpper(req.OrderNo))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Order number is already taken")
	}

	warung, err := s.warungRepo.FindByID(ctx, req.WarungID)
	if err != nil {
		return nil, err
	}
	if !warung.IsActive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Warung cannot accept new credit orders")
	}

	order, err := trade.NewDeliveryOrder(req.OrderNo, req.WarungID, req.WarehouseID)
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

	response := ToDeliveryOrderResponse(order)
	return &response, nil
}

// Get retrieves a delivery order with its items
func (s *DeliveryOrderService) Get(ctx context.Context, id uuid.UUID) (*DeliveryOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDeliveryOrderResponse(order)
	return &response, nil
}

// GetByOrderNo retrieves a delivery order by its order number
func (s *DeliveryOrderService) GetByOrderNo(ctx context.Context, orderNo string) (*DeliveryOrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNo(ctx, strings.ToUpper(orderNo))
	if err != nil {
		return nil, err
	}
	response := ToDeliveryOrderResponse(order)
	return &response, nil
}

// List lists delivery orders, optionally narrowed to one status
func (s *DeliveryOrderService) List(ctx context.Context, status string, filter shared.Filter) ([]DeliveryOrderResponse, error) {
	if status != "" {
		orderStatus := trade.DeliveryOrderStatus(status)
		if !orderStatus.IsValid() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid order status")
		}
		orders, err := s.orderRepo.FindByStatus(ctx, orderStatus, filter)
		if err != nil {
			return nil, err
		}
		return ToDeliveryOrderResponses(orders), nil
	}

	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToDeliveryOrderResponses(orders), nil
}

// ListByWarung lists delivery orders for a warung
func (s *DeliveryOrderService) ListByWarung(ctx context.Context, warungID uuid.UUID, filter shared.Filter) ([]DeliveryOrderResponse, error) {
	orders, err := s.orderRepo.FindByWarung(ctx, warungID, filter)
	if err != nil {
		return nil, err
	}
	return ToDeliveryOrderResponses(orders), nil
}

// AddItem adds or merges a product line on a draft order
func (s *DeliveryOrderService) AddItem(ctx context.Context, orderID uuid.UUID, req AddItemRequest) (*DeliveryOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.DeliveryOrder) error {
		return order.AddItem(req.ProductID, req.Quantity, valueobject.NewMoneyIDR(req.UnitPrice))
	})
}

// UpdateItemQuantity changes the quantity of an existing line on a draft order
func (s *DeliveryOrderService) UpdateItemQuantity(ctx context.Context, orderID uuid.UUID, req UpdateItemRequest) (*DeliveryOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.DeliveryOrder) error {
		return order.UpdateItemQuantity(req.ProductID, req.Quantity)
	})
}

// RemoveItem removes a product line from a draft order
func (s *DeliveryOrderService) RemoveItem(ctx context.Context, orderID, productID uuid.UUID) (*DeliveryOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.DeliveryOrder) error {
		return order.RemoveItem(productID)
	})
}

// Confirm locks the order lines and commits to the warung. The warung,
// the shipping warehouse, and every product on the order must still be
// active, and the warung's current credit term is frozen on the order.
func (s *DeliveryOrderService) Confirm(ctx context.Context, orderID uuid.UUID) (*DeliveryOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.DeliveryOrder) error {
		warung, err := s.warungRepo.FindByID(ctx, order.WarungID)
		if err != nil {
			return err
		}
		if !warung.IsActive() {
			return shared.NewDomainError("VALIDATION_ERROR", "Warung cannot accept new credit orders")
		}
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
		return order.Confirm(warung.CreditDays)
	})
}

// Cancel voids the order before any stock has shipped
func (s *DeliveryOrderService) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*DeliveryOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.DeliveryOrder) error {
		return order.Cancel(reason)
	})
}

// Deliver books the shipment of a confirmed order. The status change, one
// SALE_OUT movement per line, and the receivable for the order total all
// commit in a single transaction. The due date is the delivery time plus
// the credit days frozen on the order at confirmation. Delivering an
// already delivered order is a no-op that returns the movements and
// receivable booked the first time.
func (s *DeliveryOrderService) Deliver(ctx context.Context, orderID uuid.UUID, actor string) (*DeliverResponse, error) {
	var order *trade.DeliveryOrder
	var receivable *finance.Receivable
	var movements []*ledger.StockMovement
	var alreadyDelivered []ledger.StockMovement

	run := func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.DeliveryOrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		expectedVersion := order.GetVersion()

		if order.IsDelivered() {
			alreadyDelivered, err = repos.MovementRepo().FindBySource(ctx, ledger.SourceTypeDeliveryOrder, order.ID)
			if err != nil {
				return err
			}
			receivable, err = repos.ReceivableRepo().FindByDeliveryOrder(ctx, order.ID)
			return err
		}

		if err := order.MarkDelivered(); err != nil {
			return err
		}

		movements = movements[:0]
		for i := range order.Items {
			movement, err := appledger.ApplyMovement(ctx, repos, appledger.MovementCommand{
				ProductID:   order.Items[i].ProductID,
				WarehouseID: order.WarehouseID,
				Kind:        ledger.MovementKindSaleOut,
				Quantity:    order.Items[i].Quantity,
				SourceType:  ledger.SourceTypeDeliveryOrder,
				SourceID:    &order.ID,
				Actor:       actor,
			})
			if err != nil {
				return err
			}
			movements = append(movements, movement)
		}

		dueDate := time.Now().AddDate(0, 0, order.CreditDays)
		receivable, err = finance.NewReceivable(order.ID, order.WarungID, order.Total(), dueDate)
		if err != nil {
			return err
		}
		if err := repos.ReceivableRepo().Create(ctx, receivable); err != nil {
			return err
		}

		return repos.DeliveryOrderRepo().Save(ctx, order, expectedVersion)
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

	if alreadyDelivered != nil {
		return &DeliverResponse{
			Order:        ToDeliveryOrderResponse(order),
			Movements:    appledger.ToMovementResponses(alreadyDelivered),
			ReceivableID: receivable.ID,
		}, nil
	}

	s.publishEvents(ctx, order)
	s.publishReceivableEvents(ctx, receivable)
	s.publishMovements(ctx, movements)

	booked := make([]appledger.MovementResponse, 0, len(movements))
	for _, movement := range movements {
		booked = append(booked, appledger.ToMovementResponse(movement))
	}

	return &DeliverResponse{
		Order:        ToDeliveryOrderResponse(order),
		Movements:    booked,
		ReceivableID: receivable.ID,
	}, nil
}

// mutate loads the order, applies fn, and saves under the version that
// was read. Losing the optimistic race re-reads and re-applies, so a
// transition raced by another writer is re-judged against the fresh
// status instead of overwriting it.
func (s *DeliveryOrderService) mutate(ctx context.Context, orderID uuid.UUID, fn func(order *trade.DeliveryOrder) error) (*DeliveryOrderResponse, error) {
	var order *trade.DeliveryOrder
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

	response := ToDeliveryOrderResponse(order)
	return &response, nil
}

func (s *DeliveryOrderService) publishEvents(ctx context.Context, order *trade.DeliveryOrder) {
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

func (s *DeliveryOrderService) publishReceivableEvents(ctx context.Context, receivable *finance.Receivable) {
	if s.eventPublisher == nil || receivable == nil {
		return
	}
	events := receivable.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	receivable.ClearDomainEvents()
}

func (s *DeliveryOrderService) publishMovements(ctx context.Context, movements []*ledger.StockMovement) {
	if s.eventPublisher == nil {
		return
	}
	for _, movement := range movements {
		_ = s.eventPublisher.Publish(ctx, ledger.NewStockMovementRecordedEvent(movement))
	}
}
