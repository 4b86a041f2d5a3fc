package handler

import (
	"context"

	partnerapp "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WarehouseHandler handles warehouse API endpoints
type WarehouseHandler struct {
	BaseHandler
	warehouseService *partnerapp.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouseService *partnerapp.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// Create registers a new warehouse
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req partnerapp.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouse, err := h.warehouseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, warehouse)
}

// Get retrieves a warehouse by ID
func (h *WarehouseHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	warehouse, err := h.warehouseService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// List retrieves warehouses with pagination and search
func (h *WarehouseHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouses, err := h.warehouseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouses)
}

// ListActive retrieves all active warehouses
func (h *WarehouseHandler) ListActive(c *gin.Context) {
	warehouses, err := h.warehouseService.ListActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouses)
}

// Update changes warehouse details
func (h *WarehouseHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	var req partnerapp.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouse, err := h.warehouseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// Activate enables a warehouse
func (h *WarehouseHandler) Activate(c *gin.Context) {
	h.transition(c, h.warehouseService.Activate)
}

// Deactivate disables a warehouse
func (h *WarehouseHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.warehouseService.Deactivate)
}

func (h *WarehouseHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*partnerapp.WarehouseResponse, error)) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	warehouse, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}
