package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
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

// memMovementRepo is an in-memory append-only movement store
type memMovementRepo struct {
	mu        sync.Mutex
	movements []ledger.StockMovement
}

func newMemMovementRepo() *memMovementRepo {
	return &memMovementRepo{}
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

func (r *memMovementRepo) History(_ context.Context, filter ledger.MovementFilter) ([]ledger.StockMovement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.StockMovement
	for i := range r.movements {
		m := r.movements[i]
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.WarehouseID != nil && m.WarehouseID != *filter.WarehouseID {
			continue
		}
		if filter.Kind != nil && m.Kind != *filter.Kind {
			continue
		}
		out = append(out, m)
	}
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

	// failConflicts makes the next N Save calls fail with a concurrency conflict
	failConflicts int

	// missOnFind makes the next N Find calls report no level, as if the
	// row appeared only after the read
	missOnFind int
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
	if r.missOnFind > 0 {
		r.missOnFind--
		return nil, shared.ErrNotFound
	}
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
	if r.failConflicts > 0 {
		r.failConflicts--
		return shared.ErrConcurrencyConflict
	}
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

// memOpnameRepo is an in-memory opname store
type memOpnameRepo struct {
	mu      sync.Mutex
	opnames map[uuid.UUID]*ledger.StockOpname
}

func newMemOpnameRepo() *memOpnameRepo {
	return &memOpnameRepo{opnames: make(map[uuid.UUID]*ledger.StockOpname)}
}

func (r *memOpnameRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.StockOpname, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	opname, ok := r.opnames[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *opname
	cp.Lines = append([]ledger.OpnameLine(nil), opname.Lines...)
	return &cp, nil
}

func (r *memOpnameRepo) FindByWarehouse(_ context.Context, warehouseID uuid.UUID, _ shared.Filter) ([]ledger.StockOpname, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.StockOpname
	for _, opname := range r.opnames {
		if opname.WarehouseID == warehouseID {
			out = append(out, *opname)
		}
	}
	return out, nil
}

func (r *memOpnameRepo) Save(_ context.Context, opname *ledger.StockOpname) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *opname
	cp.Lines = append([]ledger.OpnameLine(nil), opname.Lines...)
	r.opnames[opname.ID] = &cp
	return nil
}

func newTestScope() (*NoOpTransactionScope, *memMovementRepo, *memLevelRepo, *memOpnameRepo) {
	movementRepo := newMemMovementRepo()
	levelRepo := newMemLevelRepo(movementRepo)
	opnameRepo := newMemOpnameRepo()
	scope := NewNoOpTransactionScope(movementRepo, levelRepo, opnameRepo)
	return scope, movementRepo, levelRepo, opnameRepo
}
