package partner

import (
	"strings"
	"time"

	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// WarungStatus represents the status of a warung
type WarungStatus string

const (
	WarungStatusActive    WarungStatus = "active"
	WarungStatusSuspended WarungStatus = "suspended"
	WarungStatusInactive  WarungStatus = "inactive"
)

// IsValid checks if the warung status is valid
func (s WarungStatus) IsValid() bool {
	switch s {
	case WarungStatusActive, WarungStatusSuspended, WarungStatusInactive:
		return true
	}
	return false
}

// DefaultCreditDays is the credit term applied when none is specified
const DefaultCreditDays = 14

// MaxCreditDays caps how long a warung may take to settle a receivable
const MaxCreditDays = 30

// Warung represents a small retail store buying on credit terms.
// It is the aggregate root for warung-related operations.
type Warung struct {
	shared.BaseAggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	OwnerName   string          `gorm:"type:varchar(100)"`
	Phone       string          `gorm:"type:varchar(50)"`
	Address     string          `gorm:"type:text"`
	City        string          `gorm:"type:varchar(100)"`
	CreditDays  int             `gorm:"not null;default:14"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status      WarungStatus    `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Warung) TableName() string {
	return "warungs"
}

// NewWarung registers a new warung with the given credit terms.
// creditDays of zero falls back to DefaultCreditDays; otherwise it must
// lie between 1 and MaxCreditDays.
func NewWarung(code, name string, creditDays int) (*Warung, error) {
	if err := validateCode(code, "Warung code"); err != nil {
		return nil, err
	}
	if err := validateName(name, "Warung name"); err != nil {
		return nil, err
	}
	if creditDays == 0 {
		creditDays = DefaultCreditDays
	}
	if err := validateCreditDays(creditDays); err != nil {
		return nil, err
	}

	warung := &Warung{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		CreditDays:        creditDays,
		CreditLimit:       decimal.Zero,
		Status:            WarungStatusActive,
	}

	warung.AddDomainEvent(NewWarungCreatedEvent(warung))

	return warung, nil
}

// Update updates the warung's basic information
func (w *Warung) Update(name, ownerName, phone string) error {
	if err := validateName(name, "Warung name"); err != nil {
		return err
	}
	if ownerName != "" && len(ownerName) > 100 {
		return shared.NewDomainError("VALIDATION_ERROR", "Owner name cannot exceed 100 characters")
	}

	w.Name = name
	w.OwnerName = ownerName
	w.Phone = phone
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	w.AddDomainEvent(NewWarungUpdatedEvent(w))

	return nil
}

// SetAddress sets the warung's address
func (w *Warung) SetAddress(address, city string) {
	w.Address = address
	w.City = city
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// validateCreditDays enforces the allowed credit term range
func validateCreditDays(creditDays int) error {
	if creditDays < 1 || creditDays > MaxCreditDays {
		return shared.NewDomainError("VALIDATION_ERROR", "Credit days must be between 1 and 30")
	}
	return nil
}

// SetCreditTerms updates the warung's credit days and limit
func (w *Warung) SetCreditTerms(creditDays int, creditLimit valueobject.Money) error {
	if err := validateCreditDays(creditDays); err != nil {
		return err
	}
	if creditLimit.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Credit limit cannot be negative")
	}

	w.CreditDays = creditDays
	w.CreditLimit = creditLimit.Amount()
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// Suspend blocks new credit orders for the warung
func (w *Warung) Suspend(reason string) error {
	if w.Status != WarungStatusActive {
		return shared.NewDomainError("INVALID_TRANSITION", "Only active warungs can be suspended")
	}

	w.Status = WarungStatusSuspended
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	w.AddDomainEvent(NewWarungSuspendedEvent(w, reason))

	return nil
}

// Reinstate restores a suspended warung to active
func (w *Warung) Reinstate() error {
	if w.Status != WarungStatusSuspended {
		return shared.NewDomainError("INVALID_TRANSITION", "Only suspended warungs can be reinstated")
	}

	w.Status = WarungStatusActive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// Deactivate retires the warung
func (w *Warung) Deactivate() {
	if w.Status == WarungStatusInactive {
		return
	}
	w.Status = WarungStatusInactive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// IsActive returns true if the warung can place new orders
func (w *Warung) IsActive() bool {
	return w.Status == WarungStatusActive
}
