package handler

import (
	tradeapp "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// DeliveryOrderHandler handles delivery order API endpoints
type DeliveryOrderHandler struct {
	BaseHandler
	deliveryOrderService *tradeapp.DeliveryOrderService
}

// NewDeliveryOrderHandler creates a new DeliveryOrderHandler
func NewDeliveryOrderHandler(deliveryOrderService *tradeapp.DeliveryOrderService) *DeliveryOrderHandler {
	return &DeliveryOrderHandler{deliveryOrderService: deliveryOrderService}
}

// Create opens a draft delivery order for a warung
func (h *DeliveryOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateDeliveryOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.deliveryOrderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// Get retrieves a delivery order by ID
func (h *DeliveryOrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.deliveryOrderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByOrderNo retrieves a delivery order by order number
func (h *DeliveryOrderHandler) GetByOrderNo(c *gin.Context) {
	orderNo := c.Param("order_no")
	if orderNo == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	order, err := h.deliveryOrderService.GetByOrderNo(c.Request.Context(), orderNo)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List retrieves delivery orders with optional status filter
func (h *DeliveryOrderHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, err := h.deliveryOrderService.List(c.Request.Context(), c.Query("status"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// ListByWarung retrieves delivery orders for a warung
func (h *DeliveryOrderHandler) ListByWarung(c *gin.Context) {
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

	orders, err := h.deliveryOrderService.ListByWarung(c.Request.Context(), warungID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// AddItem adds or merges a product line on a draft order
func (h *DeliveryOrderHandler) AddItem(c *gin.Context) {
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

	order, err := h.deliveryOrderService.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateItem changes the quantity of an existing line
func (h *DeliveryOrderHandler) UpdateItem(c *gin.Context) {
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

	order, err := h.deliveryOrderService.UpdateItemQuantity(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// RemoveItem removes a product line from a draft order
func (h *DeliveryOrderHandler) RemoveItem(c *gin.Context) {
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

	order, err := h.deliveryOrderService.RemoveItem(c.Request.Context(), id, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Confirm locks the order lines pending delivery
func (h *DeliveryOrderHandler) Confirm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.deliveryOrderService.Confirm(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel voids the order with a reason
func (h *DeliveryOrderHandler) Cancel(c *gin.Context) {
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

	order, err := h.deliveryOrderService.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Deliver ships the order, booking SALE_OUT movements and opening a
// receivable for the order total
func (h *DeliveryOrderHandler) Deliver(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	result, err := h.deliveryOrderService.Deliver(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
