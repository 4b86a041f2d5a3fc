package handler

import (
	"context"

	partnerapp "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WarungHandler handles warung (retail customer) API endpoints
type WarungHandler struct {
	BaseHandler
	warungService *partnerapp.WarungService
}

// NewWarungHandler creates a new WarungHandler
func NewWarungHandler(warungService *partnerapp.WarungService) *WarungHandler {
	return &WarungHandler{warungService: warungService}
}

// Create registers a new warung
func (h *WarungHandler) Create(c *gin.Context) {
	var req partnerapp.CreateWarungRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warung, err := h.warungService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, warung)
}

// Get retrieves a warung by ID
func (h *WarungHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warung ID format")
		return
	}

	warung, err := h.warungService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warung)
}

// GetByCode retrieves a warung by code
func (h *WarungHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Warung code is required")
		return
	}

	warung, err := h.warungService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warung)
}

// List retrieves warungs with optional status filter and search
func (h *WarungHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warungs, err := h.warungService.List(c.Request.Context(), c.Query("status"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warungs)
}

// Update changes warung details
func (h *WarungHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warung ID format")
		return
	}

	var req partnerapp.UpdateWarungRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warung, err := h.warungService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warung)
}

// SetCreditTerms changes a warung's credit days and limit
func (h *WarungHandler) SetCreditTerms(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warung ID format")
		return
	}

	var req partnerapp.SetCreditTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warung, err := h.warungService.SetCreditTerms(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warung)
}

// Suspend blocks new credit orders for a warung
func (h *WarungHandler) Suspend(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warung ID format")
		return
	}

	var req partnerapp.SuspendWarungRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warung, err := h.warungService.Suspend(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warung)
}

// Reinstate lifts a suspension
func (h *WarungHandler) Reinstate(c *gin.Context) {
	h.transition(c, h.warungService.Reinstate)
}

// Deactivate permanently closes a warung account
func (h *WarungHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.warungService.Deactivate)
}

func (h *WarungHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*partnerapp.WarungResponse, error)) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warung ID format")
		return
	}

	warung, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warung)
}
