package handler

import (
	tradeapp "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// PurchaseOrderHandler handles purchase order API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	purchaseOrderService *tradeapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(purchaseOrderService *tradeapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{purchaseOrderService: purchaseOrderService}
}

// Create opens a draft purchase order
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.purchaseOrderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// Get retrieves a purchase order by ID
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.purchaseOrderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByOrderNo retrieves a purchase order by order number
func (h *PurchaseOrderHandler) GetByOrderNo(c *gin.Context) {
	orderNo := c.Param("order_no")
	if orderNo == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	order, err := h.purchaseOrderService.GetByOrderNo(c.Request.Context(), orderNo)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List retrieves purchase orders with optional status filter
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, err := h.purchaseOrderService.List(c.Request.Context(), c.Query("status"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// AddItem adds or merges a product line on a draft order
func (h *PurchaseOrderHandler) AddItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req tradeapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.purchaseOrderService.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateItem changes the quantity of an existing line
func (h *PurchaseOrderHandler) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req tradeapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.purchaseOrderService.UpdateItemQuantity(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// RemoveItem removes a product line from a draft order
func (h *PurchaseOrderHandler) RemoveItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	order, err := h.purchaseOrderService.RemoveItem(c.Request.Context(), id, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Confirm locks the order lines and commits it to the supplier
func (h *PurchaseOrderHandler) Confirm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.purchaseOrderService.Confirm(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel voids the order with a reason
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req tradeapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.purchaseOrderService.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Receive books PURCHASE_IN movements for every line and closes the order
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	result, err := h.purchaseOrderService.Receive(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
