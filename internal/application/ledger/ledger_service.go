package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// maxConflictRetries bounds how often an operation is retried after losing
// an optimistic concurrency race before the conflict is surfaced.
const maxConflictRetries = 3

// LedgerService handles stock movement operations
type LedgerService struct {
	txScope        TransactionScope
	movementRepo   ledger.StockMovementRepository
	levelRepo      ledger.StockLevelRepository
	eventPublisher shared.EventPublisher
	auditSink      shared.AuditSink
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	txScope TransactionScope,
	movementRepo ledger.StockMovementRepository,
	levelRepo ledger.StockLevelRepository,
) *LedgerService {
	return &LedgerService{
		txScope:      txScope,
		movementRepo: movementRepo,
		levelRepo:    levelRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetAuditSink sets the sink receiving audit entries for ledger mutations
func (s *LedgerService) SetAuditSink(sink shared.AuditSink) {
	s.auditSink = sink
}

// RecordMovement appends a manual movement to the ledger and updates the
// stock level cache in the same transaction.
func (s *LedgerService) RecordMovement(ctx context.Context, req RecordMovementRequest) (*MovementResponse, error) {
	kind := ledger.MovementKind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid movement kind")
	}
	if kind.IsAdjustment() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Adjustments must go through a stock opname")
	}

	var movement *ledger.StockMovement
	err := s.withConflictRetry(ctx, func(repos TransactionalRepositories) error {
		var err error
		movement, err = ApplyMovement(ctx, repos, MovementCommand{
			ProductID:   req.ProductID,
			WarehouseID: req.WarehouseID,
			Kind:        kind,
			Quantity:    req.Quantity,
			SourceType:  ledger.SourceTypeManual,
			Note:        req.Note,
			Actor:       req.Actor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ledger.NewStockMovementRecordedEvent(movement))
	s.audit(ctx, req.Actor, "stock.movement.recorded", "StockMovement", movement.ID,
		fmt.Sprintf("%s %d product=%s warehouse=%s", movement.Kind, movement.Quantity, req.ProductID, req.WarehouseID))

	response := ToMovementResponse(movement)
	return &response, nil
}

// Transfer moves stock between two warehouses atomically. Both legs are
// appended in one transaction: either both commit or neither does.
func (s *LedgerService) Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	if req.FromWarehouseID == req.ToWarehouseID {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Transfer source and destination must differ")
	}

	// Movements are append-only, so both IDs are fixed up front and each
	// leg is inserted already pointing at the other.
	outID, inID := uuid.New(), uuid.New()

	var out, in *ledger.StockMovement
	err := s.withConflictRetry(ctx, func(repos TransactionalRepositories) error {
		var err error
		out, err = ApplyMovement(ctx, repos, MovementCommand{
			MovementID:  &outID,
			ProductID:   req.ProductID,
			WarehouseID: req.FromWarehouseID,
			Kind:        ledger.MovementKindTransferOut,
			Quantity:    req.Quantity,
			SourceType:  ledger.SourceTypeTransfer,
			Note:        req.Note,
			Actor:       req.Actor,
			PairID:      &inID,
		})
		if err != nil {
			return err
		}

		in, err = ApplyMovement(ctx, repos, MovementCommand{
			MovementID:  &inID,
			ProductID:   req.ProductID,
			WarehouseID: req.ToWarehouseID,
			Kind:        ledger.MovementKindTransferIn,
			Quantity:    req.Quantity,
			SourceType:  ledger.SourceTypeTransfer,
			Note:        req.Note,
			Actor:       req.Actor,
			PairID:      &outID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ledger.NewStockTransferredEvent(out, in))
	s.audit(ctx, req.Actor, "stock.transferred", "StockMovement", out.ID,
		fmt.Sprintf("%d product=%s from=%s to=%s", req.Quantity, req.ProductID, req.FromWarehouseID, req.ToWarehouseID))

	return &TransferResponse{
		Out: ToMovementResponse(out),
		In:  ToMovementResponse(in),
	}, nil
}

// CurrentQuantity returns the cached on-hand quantity for a product in a
// warehouse. A product that never moved through the warehouse reads as zero.
func (s *LedgerService) CurrentQuantity(ctx context.Context, productID, warehouseID uuid.UUID) (int64, error) {
	level, err := s.levelRepo.Find(ctx, productID, warehouseID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return level.Quantity, nil
}

// FoldQuantity recomputes the on-hand quantity from the movement ledger.
// It must always agree with CurrentQuantity; a mismatch means the cache
// was updated outside a ledger transaction.
func (s *LedgerService) FoldQuantity(ctx context.Context, productID, warehouseID uuid.UUID) (int64, error) {
	return s.movementRepo.SumQuantity(ctx, productID, warehouseID)
}

// LevelsByWarehouse lists the stock levels in a warehouse
func (s *LedgerService) LevelsByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]StockLevelResponse, error) {
	levels, err := s.levelRepo.FindByWarehouse(ctx, warehouseID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]StockLevelResponse, 0, len(levels))
	for i := range levels {
		out = append(out, ToStockLevelResponse(&levels[i]))
	}
	return out, nil
}

// History lists ledger movements matching the filter, newest first
func (s *LedgerService) History(ctx context.Context, filter HistoryFilter) ([]MovementResponse, int64, error) {
	domainFilter := ledger.MovementFilter{
		ProductID:   filter.ProductID,
		WarehouseID: filter.WarehouseID,
		From:        filter.From,
		To:          filter.To,
		Page:        filter.Page,
		PageSize:    filter.PageSize,
	}
	if filter.Kind != nil {
		kind := ledger.MovementKind(*filter.Kind)
		if !kind.IsValid() {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid movement kind")
		}
		domainFilter.Kind = &kind
	}
	if filter.SourceType != nil {
		sourceType := ledger.SourceType(*filter.SourceType)
		if !sourceType.IsValid() {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid source type")
		}
		domainFilter.SourceType = &sourceType
	}
	if domainFilter.Page < 1 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize < 1 {
		domainFilter.PageSize = 20
	}

	movements, total, err := s.movementRepo.History(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToMovementResponses(movements), total, nil
}

// MovementsBySource lists the movements produced by a source document
func (s *LedgerService) MovementsBySource(ctx context.Context, sourceType ledger.SourceType, sourceID uuid.UUID) ([]MovementResponse, error) {
	movements, err := s.movementRepo.FindBySource(ctx, sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	return ToMovementResponses(movements), nil
}

func (s *LedgerService) withConflictRetry(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = s.txScope.Execute(ctx, fn)
		if !IsConcurrencyConflict(err) {
			return err
		}
	}
	return err
}

func (s *LedgerService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

func (s *LedgerService) audit(ctx context.Context, actor, action, entityType string, entityID uuid.UUID, detail string) {
	if s.auditSink == nil {
		return
	}
	_ = s.auditSink.Record(ctx, shared.NewAuditEntry(actor, action, entityType, entityID, detail))
}

// MovementCommand describes one movement to apply against the ledger.
// MovementID pins the ID of the appended row when the caller needs to
// know it before the insert, as with the cross-linked legs of a transfer.
type MovementCommand struct {
	MovementID  *uuid.UUID
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	Kind        ledger.MovementKind
	Quantity    int64
	SourceType  ledger.SourceType
	SourceID    *uuid.UUID
	PairID      *uuid.UUID
	Note        string
	Actor       string
}

// ApplyMovement applies a single movement inside an open transaction:
// it loads or creates the stock level, applies the delta with the
// non-negative guard, persists the level under its expected version,
// and appends the immutable movement row.
func ApplyMovement(ctx context.Context, repos TransactionalRepositories, cmd MovementCommand) (*ledger.StockMovement, error) {
	level, err := repos.LevelRepo().Find(ctx, cmd.ProductID, cmd.WarehouseID)
	created := false
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		level, err = ledger.NewStockLevel(cmd.ProductID, cmd.WarehouseID)
		if err != nil {
			return nil, err
		}
		created = true
	}

	expectedVersion := level.GetVersion()
	balanceBefore := level.Quantity

	if err := level.Apply(cmd.Kind, cmd.Quantity); err != nil {
		return nil, err
	}

	if created {
		if err := repos.LevelRepo().Create(ctx, level); err != nil {
			// A concurrent first movement for the same product and
			// warehouse already inserted the row; retry as a conflict
			// so the caller re-reads it.
			if errors.Is(err, shared.ErrAlreadyExists) {
				return nil, shared.ErrConcurrencyConflict
			}
			return nil, err
		}
	} else {
		if err := repos.LevelRepo().Save(ctx, level, expectedVersion); err != nil {
			return nil, err
		}
	}

	movement, err := ledger.NewStockMovement(
		cmd.ProductID, cmd.WarehouseID,
		cmd.Kind, cmd.Quantity,
		balanceBefore, level.Quantity,
		cmd.SourceType,
	)
	if err != nil {
		return nil, err
	}
	if cmd.MovementID != nil {
		movement.ID = *cmd.MovementID
	}
	if cmd.SourceID != nil {
		movement.WithSourceID(*cmd.SourceID)
	}
	if cmd.PairID != nil {
		movement.WithPairID(*cmd.PairID)
	}
	if cmd.Note != "" {
		movement.WithNote(cmd.Note)
	}
	if cmd.Actor != "" {
		movement.WithActor(cmd.Actor)
	}

	if err := repos.MovementRepo().Append(ctx, movement); err != nil {
		return nil, err
	}

	return movement, nil
}

// IsConcurrencyConflict reports whether the error is an optimistic lock failure
func IsConcurrencyConflict(err error) bool {
	if err == nil {
		return false
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == "CONCURRENCY_CONFLICT"
	}
	return false
}
