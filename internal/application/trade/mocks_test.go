package trade

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	appledger "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/catalog"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/finance"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/partner"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/trade"
)

// MockEventPublisher captures published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) Events() []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]shared.DomainEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockEventPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.EventType())
	}
	return out
}

// memMovementRepo is an in-memory append-only movement store
type memMovementRepo struct {
	mu        sync.Mutex
	movements []ledger.StockMovement
}

func (r *memMovementRepo) Append(_ context.Context, movement *ledger.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *memMovementRepo) AppendBatch(ctx context.Context, movements []*ledger.StockMovement) error {
	for _, m := range movements {
		if err := r.Append(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *memMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.movements {
		if r.movements[i].ID == id {
			m := r.movements[i]
			return &m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMovementRepo) FindBySource(_ context.Context, sourceType ledger.SourceType, sourceID uuid.UUID) ([]ledger.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.StockMovement
	for i := range r.movements {
		m := r.movements[i]
		if m.SourceType == sourceType && m.SourceID != nil && *m.SourceID == sourceID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) History(_ context.Context, _ ledger.MovementFilter) ([]ledger.StockMovement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]ledger.StockMovement(nil), r.movements...)
	return out, int64(len(out)), nil
}

func (r *memMovementRepo) SumQuantity(_ context.Context, productID, warehouseID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for i := range r.movements {
		m := r.movements[i]
		if m.ProductID == productID && m.WarehouseID == warehouseID {
			sum += m.SignedDelta()
		}
	}
	return sum, nil
}

// memLevelRepo is an in-memory stock level store with version checking
type memLevelRepo struct {
	mu     sync.Mutex
	levels map[string]*ledger.StockLevel

	// movements receives the opening movement booked by seed, keeping the
	// fold over the ledger consistent with the seeded level
	movements *memMovementRepo
}

func newMemLevelRepo(movements *memMovementRepo) *memLevelRepo {
	return &memLevelRepo{
		levels:    make(map[string]*ledger.StockLevel),
		movements: movements,
	}
}

func levelKey(productID, warehouseID uuid.UUID) string {
	return productID.String() + "/" + warehouseID.String()
}

func (r *memLevelRepo) Find(_ context.Context, productID, warehouseID uuid.UUID) (*ledger.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	level, ok := r.levels[levelKey(productID, warehouseID)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *level
	return &cp, nil
}

func (r *memLevelRepo) FindByWarehouse(_ context.Context, warehouseID uuid.UUID, _ shared.Filter) ([]ledger.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.StockLevel
	for _, level := range r.levels {
		if level.WarehouseID == warehouseID {
			out = append(out, *level)
		}
	}
	return out, nil
}

func (r *memLevelRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]ledger.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.StockLevel
	for _, level := range r.levels {
		if level.ProductID == productID {
			out = append(out, *level)
		}
	}
	return out, nil
}

func (r *memLevelRepo) Save(_ context.Context, level *ledger.StockLevel, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := levelKey(level.ProductID, level.WarehouseID)
	existing, ok := r.levels[key]
	if !ok {
		return shared.ErrNotFound
	}
	if existing.GetVersion() != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	cp := *level
	r.levels[key] = &cp
	return nil
}

func (r *memLevelRepo) Create(_ context.Context, level *ledger.StockLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := levelKey(level.ProductID, level.WarehouseID)
	if _, ok := r.levels[key]; ok {
		return shared.ErrAlreadyExists
	}
	cp := *level
	r.levels[key] = &cp
	return nil
}

// seed installs a stock level by booking an opening PURCHASE_IN movement,
// so folding the movement history agrees with the seeded quantity
func (r *memLevelRepo) seed(productID, warehouseID uuid.UUID, quantity int64) {
	level, _ := ledger.NewStockLevel(productID, warehouseID)
	if quantity > 0 {
		_ = level.Apply(ledger.MovementKindPurchaseIn, quantity)
		movement, _ := ledger.NewStockMovement(
			productID, warehouseID,
			ledger.MovementKindPurchaseIn, quantity,
			0, quantity,
			ledger.SourceTypeManual,
		)
		_ = r.movements.Append(context.Background(), movement)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels[levelKey(productID, warehouseID)] = level
}

// memPurchaseOrderRepo is an in-memory purchase order store
type memPurchaseOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*trade.PurchaseOrder

	// failConflicts makes the next N Save calls fail with a concurrency
	// conflict, invoking onConflict first so a test can play the winning
	// writer
	failConflicts int
	onConflict    func()
}

func newMemPurchaseOrderRepo() *memPurchaseOrderRepo {
	return &memPurchaseOrderRepo{orders: make(map[uuid.UUID]*trade.PurchaseOrder)}
}

func copyPurchaseOrder(order *trade.PurchaseOrder) *trade.PurchaseOrder {
	cp := *order
	cp.Items = append([]trade.PurchaseOrderItem(nil), order.Items...)
	return &cp
}

func (r *memPurchaseOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyPurchaseOrder(order), nil
}

func (r *memPurchaseOrderRepo) FindByOrderNo(_ context.Context, orderNo string) (*trade.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.OrderNo == strings.ToUpper(orderNo) {
			return copyPurchaseOrder(order), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memPurchaseOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]trade.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trade.PurchaseOrder
	for _, order := range r.orders {
		out = append(out, *copyPurchaseOrder(order))
	}
	return out, nil
}

func (r *memPurchaseOrderRepo) FindByStatus(_ context.Context, status trade.PurchaseOrderStatus, _ shared.Filter) ([]trade.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trade.PurchaseOrder
	for _, order := range r.orders {
		if order.Status == status {
			out = append(out, *copyPurchaseOrder(order))
		}
	}
	return out, nil
}

func (r *memPurchaseOrderRepo) Create(_ context.Context, order *trade.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; ok {
		return shared.ErrAlreadyExists
	}
	r.orders[order.ID] = copyPurchaseOrder(order)
	return nil
}

func (r *memPurchaseOrderRepo) Save(_ context.Context, order *trade.PurchaseOrder, expectedVersion int) error {
	r.mu.Lock()
	if r.failConflicts > 0 {
		r.failConflicts--
		hook := r.onConflict
		r.mu.Unlock()
		if hook != nil {
			hook()
		}
		return shared.ErrConcurrencyConflict
	}
	defer r.mu.Unlock()
	existing, ok := r.orders[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if existing.GetVersion() != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	r.orders[order.ID] = copyPurchaseOrder(order)
	return nil
}

func (r *memPurchaseOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.orders)), nil
}

func (r *memPurchaseOrderRepo) ExistsByOrderNo(_ context.Context, orderNo string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.OrderNo == strings.ToUpper(orderNo) {
			return true, nil
		}
	}
	return false, nil
}

// memDeliveryOrderRepo is an in-memory delivery order store
type memDeliveryOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*trade.DeliveryOrder

	// failConflicts makes the next N Save calls fail with a concurrency
	// conflict, invoking onConflict first so a test can play the winning
	// writer
	failConflicts int
	onConflict    func()
}

func newMemDeliveryOrderRepo() *memDeliveryOrderRepo {
	return &memDeliveryOrderRepo{orders: make(map[uuid.UUID]*trade.DeliveryOrder)}
}

func copyDeliveryOrder(order *trade.DeliveryOrder) *trade.DeliveryOrder {
	cp := *order
	cp.Items = append([]trade.DeliveryOrderItem(nil), order.Items...)
	return &cp
}

func (r *memDeliveryOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.DeliveryOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyDeliveryOrder(order), nil
}

func (r *memDeliveryOrderRepo) FindByOrderNo(_ context.Context, orderNo string) (*trade.DeliveryOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.OrderNo == strings.ToUpper(orderNo) {
			return copyDeliveryOrder(order), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memDeliveryOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]trade.DeliveryOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trade.DeliveryOrder
	for _, order := range r.orders {
		out = append(out, *copyDeliveryOrder(order))
	}
	return out, nil
}

func (r *memDeliveryOrderRepo) FindByWarung(_ context.Context, warungID uuid.UUID, _ shared.Filter) ([]trade.DeliveryOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trade.DeliveryOrder
	for _, order := range r.orders {
		if order.WarungID == warungID {
			out = append(out, *copyDeliveryOrder(order))
		}
	}
	return out, nil
}

func (r *memDeliveryOrderRepo) FindByStatus(_ context.Context, status trade.DeliveryOrderStatus, _ shared.Filter) ([]trade.DeliveryOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trade.DeliveryOrder
	for _, order := range r.orders {
		if order.Status == status {
			out = append(out, *copyDeliveryOrder(order))
		}
	}
	return out, nil
}

func (r *memDeliveryOrderRepo) Create(_ context.Context, order *trade.DeliveryOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; ok {
		return shared.ErrAlreadyExists
	}
	r.orders[order.ID] = copyDeliveryOrder(order)
	return nil
}

func (r *memDeliveryOrderRepo) Save(_ context.Context, order *trade.DeliveryOrder, expectedVersion int) error {
	r.mu.Lock()
	if r.failConflicts > 0 {
		r.failConflicts--
		hook := r.onConflict
		r.mu.Unlock()
		if hook != nil {
			hook()
		}
		return shared.ErrConcurrencyConflict
	}
	defer r.mu.Unlock()
	existing, ok := r.orders[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if existing.GetVersion() != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	r.orders[order.ID] = copyDeliveryOrder(order)
	return nil
}

func (r *memDeliveryOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.orders)), nil
}

func (r *memDeliveryOrderRepo) ExistsByOrderNo(_ context.Context, orderNo string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.OrderNo == strings.ToUpper(orderNo) {
			return true, nil
		}
	}
	return false, nil
}

// memWarungRepo is an in-memory warung store
type memWarungRepo struct {
	mu      sync.Mutex
	warungs map[uuid.UUID]*partner.Warung
}

func newMemWarungRepo() *memWarungRepo {
	return &memWarungRepo{warungs: make(map[uuid.UUID]*partner.Warung)}
}

func (r *memWarungRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Warung, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	warung, ok := r.warungs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *warung
	return &cp, nil
}

func (r *memWarungRepo) FindByCode(_ context.Context, code string) (*partner.Warung, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, warung := range r.warungs {
		if warung.Code == strings.ToUpper(code) {
			cp := *warung
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memWarungRepo) FindAll(_ context.Context, _ shared.Filter) ([]partner.Warung, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []partner.Warung
	for _, warung := range r.warungs {
		out = append(out, *warung)
	}
	return out, nil
}

func (r *memWarungRepo) FindByStatus(_ context.Context, status partner.WarungStatus, _ shared.Filter) ([]partner.Warung, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []partner.Warung
	for _, warung := range r.warungs {
		if warung.Status == status {
			out = append(out, *warung)
		}
	}
	return out, nil
}

func (r *memWarungRepo) Save(_ context.Context, warung *partner.Warung) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *warung
	r.warungs[warung.ID] = &cp
	return nil
}

func (r *memWarungRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.warungs, id)
	return nil
}

func (r *memWarungRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.warungs)), nil
}

func (r *memWarungRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, warung := range r.warungs {
		if warung.Code == strings.ToUpper(code) {
			return true, nil
		}
	}
	return false, nil
}

// memProductRepo is an in-memory product store
type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *product
	return &cp, nil
}

func (r *memProductRepo) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, product := range r.products {
		if product.SKU == strings.ToUpper(sku) {
			cp := *product
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []catalog.Product
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (r *memProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []catalog.Product
	for _, product := range r.products {
		out = append(out, *product)
	}
	return out, nil
}

func (r *memProductRepo) FindByStatus(_ context.Context, status catalog.ProductStatus, _ shared.Filter) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []catalog.Product
	for _, product := range r.products {
		if product.Status == status {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

func (r *memProductRepo) ExistsBySKU(_ context.Context, sku string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, product := range r.products {
		if product.SKU == strings.ToUpper(sku) {
			return true, nil
		}
	}
	return false, nil
}

// memWarehouseRepo is an in-memory warehouse store
type memWarehouseRepo struct {
	mu         sync.Mutex
	warehouses map[uuid.UUID]*partner.Warehouse
}

func newMemWarehouseRepo() *memWarehouseRepo {
	return &memWarehouseRepo{warehouses: make(map[uuid.UUID]*partner.Warehouse)}
}

func (r *memWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	warehouse, ok := r.warehouses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *warehouse
	return &cp, nil
}

func (r *memWarehouseRepo) FindByCode(_ context.Context, code string) (*partner.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, warehouse := range r.warehouses {
		if warehouse.Code == strings.ToUpper(code) {
			cp := *warehouse
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memWarehouseRepo) FindAll(_ context.Context, _ shared.Filter) ([]partner.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []partner.Warehouse
	for _, warehouse := range r.warehouses {
		out = append(out, *warehouse)
	}
	return out, nil
}

func (r *memWarehouseRepo) FindActive(_ context.Context) ([]partner.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []partner.Warehouse
	for _, warehouse := range r.warehouses {
		if warehouse.IsActive() {
			out = append(out, *warehouse)
		}
	}
	return out, nil
}

func (r *memWarehouseRepo) Save(_ context.Context, warehouse *partner.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *warehouse
	r.warehouses[warehouse.ID] = &cp
	return nil
}

func (r *memWarehouseRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.warehouses, id)
	return nil
}

func (r *memWarehouseRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, warehouse := range r.warehouses {
		if warehouse.Code == strings.ToUpper(code) {
			return true, nil
		}
	}
	return false, nil
}

// memReceivableRepo is an in-memory receivable store with version checking
type memReceivableRepo struct {
	mu          sync.Mutex
	receivables map[uuid.UUID]*finance.Receivable
}

func newMemReceivableRepo() *memReceivableRepo {
	return &memReceivableRepo{receivables: make(map[uuid.UUID]*finance.Receivable)}
}

func copyReceivable(receivable *finance.Receivable) *finance.Receivable {
	cp := *receivable
	cp.Payments = append([]finance.Payment(nil), receivable.Payments...)
	return &cp
}

func (r *memReceivableRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.Receivable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	receivable, ok := r.receivables[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyReceivable(receivable), nil
}

func (r *memReceivableRepo) FindByDeliveryOrder(_ context.Context, deliveryOrderID uuid.UUID) (*finance.Receivable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, receivable := range r.receivables {
		if receivable.DeliveryOrderID == deliveryOrderID {
			return copyReceivable(receivable), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memReceivableRepo) FindByWarung(_ context.Context, warungID uuid.UUID, _ shared.Filter) ([]finance.Receivable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []finance.Receivable
	for _, receivable := range r.receivables {
		if receivable.WarungID == warungID {
			out = append(out, *copyReceivable(receivable))
		}
	}
	return out, nil
}

func (r *memReceivableRepo) FindByStatus(_ context.Context, status finance.ReceivableStatus, _ shared.Filter) ([]finance.Receivable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []finance.Receivable
	for _, receivable := range r.receivables {
		if receivable.Status == status {
			out = append(out, *copyReceivable(receivable))
		}
	}
	return out, nil
}

func (r *memReceivableRepo) FindOverdue(_ context.Context, filter shared.Filter) ([]finance.Receivable, error) {
	warungID, scoped := filter.Filters["warung_id"].(uuid.UUID)
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []finance.Receivable
	for _, receivable := range r.receivables {
		if receivable.Status != finance.ReceivableStatusOverdue {
			continue
		}
		if scoped && receivable.WarungID != warungID {
			continue
		}
		out = append(out, *copyReceivable(receivable))
	}
	return out, nil
}

func (r *memReceivableRepo) FindDueForRefresh(_ context.Context, asOf time.Time, limit int) ([]finance.Receivable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []finance.Receivable
	for _, receivable := range r.receivables {
		if receivable.Status == finance.ReceivableStatusPaid || receivable.Status == finance.ReceivableStatusOverdue {
			continue
		}
		if asOf.After(receivable.DueDate) {
			out = append(out, *copyReceivable(receivable))
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *memReceivableRepo) Save(_ context.Context, receivable *finance.Receivable, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.receivables[receivable.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if existing.GetVersion() != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	r.receivables[receivable.ID] = copyReceivable(receivable)
	return nil
}

func (r *memReceivableRepo) Create(_ context.Context, receivable *finance.Receivable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.receivables {
		if existing.DeliveryOrderID == receivable.DeliveryOrderID {
			return shared.ErrAlreadyExists
		}
	}
	r.receivables[receivable.ID] = copyReceivable(receivable)
	return nil
}

func (r *memReceivableRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.receivables)), nil
}

type tradeFixture struct {
	scope          *NoOpTransactionScope
	movementRepo   *memMovementRepo
	levelRepo      *memLevelRepo
	poRepo         *memPurchaseOrderRepo
	doRepo         *memDeliveryOrderRepo
	warungRepo     *memWarungRepo
	productRepo    *memProductRepo
	warehouseRepo  *memWarehouseRepo
	receivableRepo *memReceivableRepo
	publisher      *MockEventPublisher
}

func newTradeFixture() *tradeFixture {
	movementRepo := &memMovementRepo{}
	levelRepo := newMemLevelRepo(movementRepo)
	poRepo := newMemPurchaseOrderRepo()
	doRepo := newMemDeliveryOrderRepo()
	warungRepo := newMemWarungRepo()
	productRepo := newMemProductRepo()
	warehouseRepo := newMemWarehouseRepo()
	receivableRepo := newMemReceivableRepo()

	ledgerScope := appledger.NewNoOpTransactionScope(movementRepo, levelRepo, nil)
	scope := NewNoOpTransactionScope(ledgerScope, poRepo, doRepo, receivableRepo)

	return &tradeFixture{
		scope:          scope,
		movementRepo:   movementRepo,
		levelRepo:      levelRepo,
		poRepo:         poRepo,
		doRepo:         doRepo,
		warungRepo:     warungRepo,
		productRepo:    productRepo,
		warehouseRepo:  warehouseRepo,
		receivableRepo: receivableRepo,
		publisher:      &MockEventPublisher{},
	}
}

// seedProduct installs an active product under the given ID
func (f *tradeFixture) seedProduct(id uuid.UUID, sku string) {
	product, _ := catalog.NewProduct(sku, "Product "+sku, "carton")
	product.ID = id
	_ = f.productRepo.Save(context.Background(), product)
}

// seedWarehouse installs an active warehouse under the given ID
func (f *tradeFixture) seedWarehouse(id uuid.UUID, code string) {
	warehouse, _ := partner.NewWarehouse(code, "Gudang "+code)
	warehouse.ID = id
	_ = f.warehouseRepo.Save(context.Background(), warehouse)
}

func (f *tradeFixture) purchaseOrderService() *PurchaseOrderService {
	service := NewPurchaseOrderService(f.scope, f.poRepo, f.productRepo, f.warehouseRepo)
	service.SetEventPublisher(f.publisher)
	return service
}

func (f *tradeFixture) deliveryOrderService() *DeliveryOrderService {
	service := NewDeliveryOrderService(f.scope, f.doRepo, f.warungRepo, f.productRepo, f.warehouseRepo)
	service.SetEventPublisher(f.publisher)
	return service
}
