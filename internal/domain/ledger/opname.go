package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// OpnameStatus represents the status of a stock opname
type OpnameStatus string

const (
	OpnameStatusDraft      OpnameStatus = "DRAFT"
	OpnameStatusReconciled OpnameStatus = "RECONCILED"
	OpnameStatusCancelled  OpnameStatus = "CANCELLED"
)

// String returns the string representation of OpnameStatus
func (s OpnameStatus) String() string {
	return string(s)
}

// IsValid returns true if the opname status is valid
func (s OpnameStatus) IsValid() bool {
	switch s {
	case OpnameStatusDraft, OpnameStatusReconciled, OpnameStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are allowed
func (s OpnameStatus) IsTerminal() bool {
	return s == OpnameStatusReconciled || s == OpnameStatusCancelled
}

// OpnameLine is a single counted product within an opname
type OpnameLine struct {
	shared.BaseEntity
	OpnameID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null"`
	CountedQty int64     `gorm:"not null"`
	SystemQty  int64     `gorm:"not null;default:0"` // Snapshot taken at reconciliation
	Delta      int64     `gorm:"not null;default:0"` // CountedQty - SystemQty at reconciliation
}

// TableName returns the table name for GORM
func (OpnameLine) TableName() string {
	return "stock_opname_lines"
}

// OpnameAdjustment describes the correction a reconciled line requires
type OpnameAdjustment struct {
	ProductID uuid.UUID
	Delta     int64 // positive means ADJUSTMENT_IN, negative means ADJUSTMENT_OUT
}

// StockOpname is a physical stock count for one warehouse.
// Reconciling it fixes the book quantity to the counted quantity by
// emitting adjustment movements for every discrepancy.
type StockOpname struct {
	shared.BaseAggregateRoot
	WarehouseID  uuid.UUID    `gorm:"type:uuid;not null;index"`
	Status       OpnameStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Note         string       `gorm:"type:varchar(255)"`
	CountedBy    string       `gorm:"type:varchar(100)"`
	CountedAt    time.Time    `gorm:"type:timestamptz;not null"`
	ReconciledAt *time.Time   `gorm:"type:timestamptz"`
	Lines        []OpnameLine `gorm:"foreignKey:OpnameID"`
}

// TableName returns the table name for GORM
func (StockOpname) TableName() string {
	return "stock_opnames"
}

// NewStockOpname creates a new draft opname for a warehouse. The note is
// the reason for the count and is stamped onto every adjustment movement
// the reconciliation books, so it cannot be empty.
func NewStockOpname(warehouseID uuid.UUID, note, countedBy string) (*StockOpname, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Warehouse ID cannot be empty")
	}
	if strings.TrimSpace(note) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Opname reason cannot be empty")
	}

	return &StockOpname{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WarehouseID:       warehouseID,
		Status:            OpnameStatusDraft,
		Note:              note,
		CountedBy:         countedBy,
		CountedAt:         time.Now(),
		Lines:             make([]OpnameLine, 0),
	}, nil
}

// AddLine records a counted quantity for a product. Draft only.
// Counting the same product twice replaces the earlier count.
func (o *StockOpname) AddLine(productID uuid.UUID, countedQty int64) error {
	if o.Status != OpnameStatusDraft {
		return shared.NewDomainError("INVALID_TRANSITION", "Lines can only be added to a draft opname")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if countedQty < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Counted quantity cannot be negative")
	}

	for i := range o.Lines {
		if o.Lines[i].ProductID == productID {
			o.Lines[i].CountedQty = countedQty
			o.Lines[i].UpdatedAt = time.Now()
			o.touch()
			return nil
		}
	}

	o.Lines = append(o.Lines, OpnameLine{
		BaseEntity: shared.NewBaseEntity(),
		OpnameID:   o.ID,
		ProductID:  productID,
		CountedQty: countedQty,
	})
	o.touch()

	return nil
}

// Reconcile finalizes the opname against the given system quantities.
// systemQtys maps product ID to the book quantity at reconciliation time;
// products missing from the map are treated as zero on hand.
// It returns one adjustment per line whose count differs from the book.
func (o *StockOpname) Reconcile(systemQtys map[uuid.UUID]int64) ([]OpnameAdjustment, error) {
	if o.Status != OpnameStatusDraft {
		return nil, shared.NewDomainError("INVALID_TRANSITION", "Only draft opnames can be reconciled")
	}
	if len(o.Lines) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Opname has no counted lines")
	}

	adjustments := make([]OpnameAdjustment, 0, len(o.Lines))
	now := time.Now()

	for i := range o.Lines {
		line := &o.Lines[i]
		line.SystemQty = systemQtys[line.ProductID]
		line.Delta = line.CountedQty - line.SystemQty
		line.UpdatedAt = now
		if line.Delta != 0 {
			adjustments = append(adjustments, OpnameAdjustment{
				ProductID: line.ProductID,
				Delta:     line.Delta,
			})
		}
	}

	o.Status = OpnameStatusReconciled
	o.ReconciledAt = &now
	o.touch()

	o.AddDomainEvent(NewOpnameReconciledEvent(o, adjustments))

	return adjustments, nil
}

// Cancel abandons a draft opname
func (o *StockOpname) Cancel() error {
	if o.Status != OpnameStatusDraft {
		return shared.NewDomainError("INVALID_TRANSITION", "Only draft opnames can be cancelled")
	}

	o.Status = OpnameStatusCancelled
	o.touch()

	return nil
}

func (o *StockOpname) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}
