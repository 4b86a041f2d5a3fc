package handler

import (
	ledgerapp "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/ledger"
	"github.com/gin-gonic/gin"
)

// LedgerHandler handles stock ledger API endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *ledgerapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *ledgerapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// RecordMovement books a manual stock movement
func (h *LedgerHandler) RecordMovement(c *gin.Context) {
	var req ledgerapp.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Actor = getActor(c)

	movement, err := h.ledgerService.RecordMovement(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movement)
}

// Transfer moves stock between two warehouses atomically
func (h *LedgerHandler) Transfer(c *gin.Context) {
	var req ledgerapp.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Actor = getActor(c)

	result, err := h.ledgerService.Transfer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// History retrieves paginated movement history with filters
func (h *LedgerHandler) History(c *gin.Context) {
	var filter ledgerapp.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	movements, total, err := h.ledgerService.History(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// MovementsBySource retrieves all movements booked by a source document
func (h *LedgerHandler) MovementsBySource(c *gin.Context) {
	sourceType := ledger.SourceType(c.Param("type"))
	if !sourceType.IsValid() {
		h.BadRequest(c, "Invalid source type")
		return
	}

	sourceID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid source ID format")
		return
	}

	movements, err := h.ledgerService.MovementsBySource(c.Request.Context(), sourceType, sourceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movements)
}

// CurrentQuantity returns the on-hand quantity for a product in a warehouse
func (h *LedgerHandler) CurrentQuantity(c *gin.Context) {
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	warehouseID, ok := parseIDParam(c, "warehouse_id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	quantity, err := h.ledgerService.CurrentQuantity(c.Request.Context(), productID, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"product_id":   productID,
		"warehouse_id": warehouseID,
		"quantity":     quantity,
	})
}

// LevelsByWarehouse retrieves stock levels for all products in a warehouse
func (h *LedgerHandler) LevelsByWarehouse(c *gin.Context) {
	warehouseID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	levels, err := h.ledgerService.LevelsByWarehouse(c.Request.Context(), warehouseID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, levels)
}
