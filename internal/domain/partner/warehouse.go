package partner

import (
	"strings"
	"time"

	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
)

// WarehouseStatus represents the status of a warehouse
type WarehouseStatus string

const (
	WarehouseStatusActive   WarehouseStatus = "active"
	WarehouseStatusInactive WarehouseStatus = "inactive"
)

// Warehouse represents a physical storage location stock moves through.
// It is the aggregate root for warehouse-related operations.
type Warehouse struct {
	shared.BaseAggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Status      WarehouseStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName string          `gorm:"type:varchar(100)"`
	Phone       string          `gorm:"type:varchar(50)"`
	Address     string          `gorm:"type:text"`
	City        string          `gorm:"type:varchar(100)"`
	Province    string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse with required fields
func NewWarehouse(code, name string) (*Warehouse, error) {
	if err := validateCode(code, "Warehouse code"); err != nil {
		return nil, err
	}
	if err := validateName(name, "Warehouse name"); err != nil {
		return nil, err
	}

	warehouse := &Warehouse{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            WarehouseStatusActive,
	}

	warehouse.AddDomainEvent(NewWarehouseCreatedEvent(warehouse))

	return warehouse, nil
}

// Update updates the warehouse's basic information
func (w *Warehouse) Update(name string) error {
	if err := validateName(name, "Warehouse name"); err != nil {
		return err
	}

	w.Name = name
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	w.AddDomainEvent(NewWarehouseUpdatedEvent(w))

	return nil
}

// SetContact sets the warehouse's contact information
func (w *Warehouse) SetContact(contactName, phone string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("VALIDATION_ERROR", "Contact name cannot exceed 100 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "Phone cannot exceed 50 characters")
	}

	w.ContactName = contactName
	w.Phone = phone
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// SetAddress sets the warehouse's address
func (w *Warehouse) SetAddress(address, city, province string) {
	w.Address = address
	w.City = city
	w.Province = province
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// Activate sets the warehouse status to active
func (w *Warehouse) Activate() {
	if w.Status == WarehouseStatusActive {
		return
	}
	w.Status = WarehouseStatusActive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// Deactivate sets the warehouse status to inactive.
// Inactive warehouses are excluded from new orders but keep their history.
func (w *Warehouse) Deactivate() {
	if w.Status == WarehouseStatusInactive {
		return
	}
	w.Status = WarehouseStatusInactive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// IsActive returns true if the warehouse is active
func (w *Warehouse) IsActive() bool {
	return w.Status == WarehouseStatusActive
}

func validateCode(code, label string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("VALIDATION_ERROR", label+" cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", label+" cannot exceed 50 characters")
	}
	return nil
}

func validateName(name, label string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", label+" cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("VALIDATION_ERROR", label+" cannot exceed 200 characters")
	}
	return nil
}
