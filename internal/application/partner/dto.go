package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CreateWarehouseRequest is the input for registering a warehouse
type CreateWarehouseRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Province    string `json:"province"`
}

// UpdateWarehouseRequest is the input for updating warehouse information
type UpdateWarehouseRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Province    string `json:"province"`
}

// WarehouseResponse is the API shape of a warehouse
type WarehouseResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	Province    string    `json:"province,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToWarehouseResponse maps a domain warehouse to its API shape
func ToWarehouseResponse(w *partner.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:          w.ID,
		Code:        w.Code,
		Name:        w.Name,
		Status:      string(w.Status),
		ContactName: w.ContactName,
		Phone:       w.Phone,
		Address:     w.Address,
		City:        w.City,
		Province:    w.Province,
		CreatedAt:   w.CreatedAt,
	}
}

// ToWarehouseResponses maps a slice of domain warehouses
func ToWarehouseResponses(warehouses []partner.Warehouse) []WarehouseResponse {
	out := make([]WarehouseResponse, 0, len(warehouses))
	for i := range warehouses {
		out = append(out, ToWarehouseResponse(&warehouses[i]))
	}
	return out
}

// CreateWarungRequest is the input for registering a warung
type CreateWarungRequest struct {
	Code        string          `json:"code" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	OwnerName   string          `json:"owner_name"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	CreditDays  int             `json:"credit_days" binding:"gte=0"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// UpdateWarungRequest is the input for updating warung information
type UpdateWarungRequest struct {
	Name      string `json:"name" binding:"required"`
	OwnerName string `json:"owner_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
}

// SetCreditTermsRequest changes a warung's credit days and limit
type SetCreditTermsRequest struct {
	CreditDays  int             `json:"credit_days" binding:"required,gt=0"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// SuspendWarungRequest blocks new credit orders with a reason
type SuspendWarungRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// WarungResponse is the API shape of a warung
type WarungResponse struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	OwnerName   string          `json:"owner_name,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	City        string          `json:"city,omitempty"`
	CreditDays  int             `json:"credit_days"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToWarungResponse maps a domain warung to its API shape
func ToWarungResponse(w *partner.Warung) WarungResponse {
	return WarungResponse{
		ID:          w.ID,
		Code:        w.Code,
		Name:        w.Name,
		OwnerName:   w.OwnerName,
		Phone:       w.Phone,
		Address:     w.Address,
		City:        w.City,
		CreditDays:  w.CreditDays,
		CreditLimit: w.CreditLimit,
		Status:      string(w.Status),
		CreatedAt:   w.CreatedAt,
	}
}

// ToWarungResponses maps a slice of domain warungs
func ToWarungResponses(warungs []partner.Warung) []WarungResponse {
	out := make([]WarungResponse, 0, len(warungs))
	for i := range warungs {
		out = append(out, ToWarungResponse(&warungs[i]))
	}
	return out
}
