package handler

import (
	ledgerapp "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// OpnameHandler handles stock opname (physical count) API endpoints
type OpnameHandler struct {
	BaseHandler
	opnameService *ledgerapp.OpnameService
}

// NewOpnameHandler creates a new OpnameHandler
func NewOpnameHandler(opnameService *ledgerapp.OpnameService) *OpnameHandler {
	return &OpnameHandler{opnameService: opnameService}
}

// Create submits a physical stock count for a warehouse
func (h *OpnameHandler) Create(c *gin.Context) {
	var req ledgerapp.CreateOpnameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.CountedBy = getActor(c)

	opname, err := h.opnameService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, opname)
}

// Get retrieves an opname by ID
func (h *OpnameHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid opname ID format")
		return
	}

	opname, err := h.opnameService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, opname)
}

// ListByWarehouse retrieves opnames for a warehouse
func (h *OpnameHandler) ListByWarehouse(c *gin.Context) {
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

	opnames, err := h.opnameService.ListByWarehouse(c.Request.Context(), warehouseID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, opnames)
}

// Reconcile books adjustment movements for every counted delta
func (h *OpnameHandler) Reconcile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid opname ID format")
		return
	}

	opname, err := h.opnameService.Reconcile(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, opname)
}

// Cancel discards a draft opname without booking adjustments
func (h *OpnameHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid opname ID format")
		return
	}

	if err := h.opnameService.Cancel(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
