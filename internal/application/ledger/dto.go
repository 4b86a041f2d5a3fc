package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/ledger"
)

// RecordMovementRequest is the input for recording a manual movement
type RecordMovementRequest struct {
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	WarehouseID uuid.UUID `json:"warehouse_id" binding:"required"`
	Kind        string    `json:"kind" binding:"required"`
	Quantity    int64     `json:"quantity" binding:"required,gt=0"`
	Note        string    `json:"note"`
	Actor       string    `json:"-"`
}

// TransferRequest is the input for an inter-warehouse transfer
type TransferRequest struct {
	ProductID       uuid.UUID `json:"product_id" binding:"required"`
	FromWarehouseID uuid.UUID `json:"from_warehouse_id" binding:"required"`
	ToWarehouseID   uuid.UUID `json:"to_warehouse_id" binding:"required"`
	Quantity        int64     `json:"quantity" binding:"required,gt=0"`
	Note            string    `json:"note"`
	Actor           string    `json:"-"`
}

// HistoryFilter narrows movement history queries
type HistoryFilter struct {
	ProductID   *uuid.UUID `form:"product_id"`
	WarehouseID *uuid.UUID `form:"warehouse_id"`
	Kind        *string    `form:"kind"`
	SourceType  *string    `form:"source_type"`
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size"`
}

// MovementResponse is the API shape of a ledger movement
type MovementResponse struct {
	ID            uuid.UUID  `json:"id"`
	ProductID     uuid.UUID  `json:"product_id"`
	WarehouseID   uuid.UUID  `json:"warehouse_id"`
	Kind          string     `json:"kind"`
	Quantity      int64      `json:"quantity"`
	BalanceBefore int64      `json:"balance_before"`
	BalanceAfter  int64      `json:"balance_after"`
	SourceType    string     `json:"source_type"`
	SourceID      *uuid.UUID `json:"source_id,omitempty"`
	PairID        *uuid.UUID `json:"pair_id,omitempty"`
	Note          string     `json:"note,omitempty"`
	Actor         string     `json:"actor,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// ToMovementResponse maps a domain movement to its API shape
func ToMovementResponse(m *ledger.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		WarehouseID:   m.WarehouseID,
		Kind:          m.Kind.String(),
		Quantity:      m.Quantity,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		SourceType:    m.SourceType.String(),
		SourceID:      m.SourceID,
		PairID:        m.PairID,
		Note:          m.Note,
		Actor:         m.Actor,
		OccurredAt:    m.OccurredAt,
	}
}

// ToMovementResponses maps a slice of domain movements
func ToMovementResponses(movements []ledger.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		out = append(out, ToMovementResponse(&movements[i]))
	}
	return out
}

// TransferResponse returns both legs of a completed transfer
type TransferResponse struct {
	Out MovementResponse `json:"out"`
	In  MovementResponse `json:"in"`
}

// StockLevelResponse is the API shape of a stock level
type StockLevelResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Quantity    int64     `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToStockLevelResponse maps a domain stock level to its API shape
func ToStockLevelResponse(level *ledger.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ProductID:   level.ProductID,
		WarehouseID: level.WarehouseID,
		Quantity:    level.Quantity,
		UpdatedAt:   level.UpdatedAt,
	}
}

// OpnameLineRequest is one counted product in an opname submission
type OpnameLineRequest struct {
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	CountedQty int64     `json:"counted_qty" binding:"gte=0"`
}

// CreateOpnameRequest is the input for starting a stock count. The note
// carries the reason for the count and ends up on every adjustment row.
type CreateOpnameRequest struct {
	WarehouseID uuid.UUID           `json:"warehouse_id" binding:"required"`
	Note        string              `json:"note" binding:"required"`
	Lines       []OpnameLineRequest `json:"lines" binding:"required,min=1,dive"`
	CountedBy   string              `json:"-"`
}

// OpnameLineResponse is the API shape of an opname line
type OpnameLineResponse struct {
	ProductID  uuid.UUID `json:"product_id"`
	CountedQty int64     `json:"counted_qty"`
	SystemQty  int64     `json:"system_qty"`
	Delta      int64     `json:"delta"`
}

// OpnameResponse is the API shape of a stock opname
type OpnameResponse struct {
	ID           uuid.UUID            `json:"id"`
	WarehouseID  uuid.UUID            `json:"warehouse_id"`
	Status       string               `json:"status"`
	Note         string               `json:"note,omitempty"`
	CountedBy    string               `json:"counted_by,omitempty"`
	CountedAt    time.Time            `json:"counted_at"`
	ReconciledAt *time.Time           `json:"reconciled_at,omitempty"`
	Lines        []OpnameLineResponse `json:"lines"`
}

// ToOpnameResponse maps a domain opname to its API shape
func ToOpnameResponse(o *ledger.StockOpname) OpnameResponse {
	lines := make([]OpnameLineResponse, 0, len(o.Lines))
	for i := range o.Lines {
		lines = append(lines, OpnameLineResponse{
			ProductID:  o.Lines[i].ProductID,
			CountedQty: o.Lines[i].CountedQty,
			SystemQty:  o.Lines[i].SystemQty,
			Delta:      o.Lines[i].Delta,
		})
	}
	return OpnameResponse{
		ID:           o.ID,
		WarehouseID:  o.WarehouseID,
		Status:       o.Status.String(),
		Note:         o.Note,
		CountedBy:    o.CountedBy,
		CountedAt:    o.CountedAt,
		ReconciledAt: o.ReconciledAt,
		Lines:        lines,
	}
}
