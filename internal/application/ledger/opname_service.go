package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// OpnameService handles stock count operations
type OpnameService struct {
	txScope        TransactionScope
	opnameRepo     ledger.StockOpnameRepository
	eventPublisher shared.EventPublisher
	auditSink      shared.AuditSink
}

// NewOpnameService creates a new OpnameService
func NewOpnameService(txScope TransactionScope, opnameRepo ledger.StockOpnameRepository) *OpnameService {
	return &OpnameService{
		txScope:    txScope,
		opnameRepo: opnameRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OpnameService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetAuditSink sets the sink receiving audit entries for opname mutations
func (s *OpnameService) SetAuditSink(sink shared.AuditSink) {
	s.auditSink = sink
}

// Create starts a new draft opname with the submitted counts
func (s *OpnameService) Create(ctx context.Context, req CreateOpnameRequest) (*OpnameResponse, error) {
	opname, err := ledger.NewStockOpname(req.WarehouseID, req.Note, req.CountedBy)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Lines {
		if err := opname.AddLine(line.ProductID, line.CountedQty); err != nil {
			return nil, err
		}
	}

	if err := s.opnameRepo.Save(ctx, opname); err != nil {
		return nil, err
	}

	s.audit(ctx, req.CountedBy, "stock.opname.created", "StockOpname", opname.ID,
		fmt.Sprintf("warehouse=%s lines=%d", req.WarehouseID, len(opname.Lines)))

	response := ToOpnameResponse(opname)
	return &response, nil
}

// Get retrieves an opname with its lines
func (s *OpnameService) Get(ctx context.Context, id uuid.UUID) (*OpnameResponse, error) {
	opname, err := s.opnameRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOpnameResponse(opname)
	return &response, nil
}

// ListByWarehouse lists opnames for a warehouse
func (s *OpnameService) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]OpnameResponse, error) {
	opnames, err := s.opnameRepo.FindByWarehouse(ctx, warehouseID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]OpnameResponse, 0, len(opnames))
	for i := range opnames {
		out = append(out, ToOpnameResponse(&opnames[i]))
	}
	return out, nil
}

// Reconcile finalizes a draft opname. The book quantities are snapshotted,
// every discrepancy becomes an adjustment movement, and the opname, the
// movements, and the stock levels all commit in one transaction.
func (s *OpnameService) Reconcile(ctx context.Context, opnameID uuid.UUID, actor string) (*OpnameResponse, error) {
	var opname *ledger.StockOpname
	var movements []*ledger.StockMovement

	run := func(repos TransactionalRepositories) error {
		var err error
		opname, err = repos.OpnameRepo().FindByID(ctx, opnameID)
		if err != nil {
			return err
		}

		systemQtys := make(map[uuid.UUID]int64, len(opname.Lines))
		for i := range opname.Lines {
			level, err := repos.LevelRepo().Find(ctx, opname.Lines[i].ProductID, opname.WarehouseID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					continue
				}
				return err
			}
			systemQtys[opname.Lines[i].ProductID] = level.Quantity
		}

		adjustments, err := opname.Reconcile(systemQtys)
		if err != nil {
			return err
		}

		movements = movements[:0]
		for _, adj := range adjustments {
			kind := ledger.MovementKindAdjustmentIn
			quantity := adj.Delta
			if adj.Delta < 0 {
				kind = ledger.MovementKindAdjustmentOut
				quantity = -adj.Delta
			}

			movement, err := ApplyMovement(ctx, repos, MovementCommand{
				ProductID:   adj.ProductID,
				WarehouseID: opname.WarehouseID,
				Kind:        kind,
				Quantity:    quantity,
				SourceType:  ledger.SourceTypeOpname,
				SourceID:    &opname.ID,
				Note:        opname.Note,
				Actor:       actor,
			})
			if err != nil {
				return err
			}
			movements = append(movements, movement)
		}

		return repos.OpnameRepo().Save(ctx, opname)
	}

	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = s.txScope.Execute(ctx, run)
		if !IsConcurrencyConflict(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.publishOpnameEvents(ctx, opname, movements)
	s.audit(ctx, actor, "stock.opname.reconciled", "StockOpname", opname.ID,
		fmt.Sprintf("warehouse=%s adjustments=%d", opname.WarehouseID, len(movements)))

	response := ToOpnameResponse(opname)
	return &response, nil
}

// Cancel abandons a draft opname
func (s *OpnameService) Cancel(ctx context.Context, opnameID uuid.UUID) error {
	opname, err := s.opnameRepo.FindByID(ctx, opnameID)
	if err != nil {
		return err
	}
	if err := opname.Cancel(); err != nil {
		return err
	}
	return s.opnameRepo.Save(ctx, opname)
}

func (s *OpnameService) audit(ctx context.Context, actor, action, entityType string, entityID uuid.UUID, detail string) {
	if s.auditSink == nil {
		return
	}
	_ = s.auditSink.Record(ctx, shared.NewAuditEntry(actor, action, entityType, entityID, detail))
}

func (s *OpnameService) publishOpnameEvents(ctx context.Context, opname *ledger.StockOpname, movements []*ledger.StockMovement) {
	if s.eventPublisher == nil {
		return
	}
	events := opname.GetDomainEvents()
	for _, movement := range movements {
		events = append(events, ledger.NewStockMovementRecordedEvent(movement))
	}
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	opname.ClearDomainEvents()
}
