package handler

import (
	financeapp "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReceivableHandler handles receivable and payment API endpoints
type ReceivableHandler struct {
	BaseHandler
	receivableService *financeapp.ReceivableService
}

// NewReceivableHandler creates a new ReceivableHandler
func NewReceivableHandler(receivableService *financeapp.ReceivableService) *ReceivableHandler {
	return &ReceivableHandler{receivableService: receivableService}
}

// Get retrieves a receivable with its payment history
func (h *ReceivableHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	receivable, err := h.receivableService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receivable)
}

// GetByDeliveryOrder retrieves the receivable opened for a delivery order
func (h *ReceivableHandler) GetByDeliveryOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	receivable, err := h.receivableService.GetByDeliveryOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receivable)
}

// ListByWarung retrieves receivables for a warung
func (h *ReceivableHandler) ListByWarung(c *gin.Context) {
	warungID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warung ID format")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receivables, err := h.receivableService.ListByWarung(c.Request.Context(), warungID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receivables)
}

// List retrieves receivables filtered by status
func (h *ReceivableHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receivables, err := h.receivableService.ListByStatus(c.Request.Context(), c.Query("status"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receivables)
}

// ListOverdue retrieves receivables past their due date, most overdue
// first, optionally narrowed to one warung via ?warung_id=
func (h *ReceivableHandler) ListOverdue(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if raw := c.Query("warung_id"); raw != "" {
		warungID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid warung ID format")
			return
		}
		filter.Filters["warung_id"] = warungID
	}

	receivables, err := h.receivableService.ListOverdue(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receivables)
}

// RecordPayment settles part or all of a receivable
func (h *ReceivableHandler) RecordPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	var req financeapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Actor = getActor(c)

	receivable, err := h.receivableService.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, receivable)
}

// ReversePayment undoes a recorded payment with a reason
func (h *ReceivableHandler) ReversePayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	var req financeapp.ReversePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Actor = getActor(c)

	receivable, err := h.receivableService.ReversePayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receivable)
}

// RefreshOverdue re-derives overdue statuses against the wall clock
func (h *ReceivableHandler) RefreshOverdue(c *gin.Context) {
	count, err := h.receivableService.RefreshOverdueStatuses(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"refreshed": count})
}
