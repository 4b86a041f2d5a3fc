package handler

import (
	"context"

	catalogapp "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler handles product catalog API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create registers a new product
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Get retrieves a product by ID
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// GetBySKU retrieves a product by SKU
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	sku := c.Param("sku")
	if sku == "" {
		h.BadRequest(c, "Product SKU is required")
		return
	}

	product, err := h.productService.GetBySKU(c.Request.Context(), sku)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List retrieves products with optional status filter and search
func (h *ProductHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	products, err := h.productService.List(c.Request.Context(), c.Query("status"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// Update changes product name and description
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// SetPrices reprices a product
func (h *ProductHandler) SetPrices(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req catalogapp.SetPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.SetPrices(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// SetMinStock changes the reorder threshold
func (h *ProductHandler) SetMinStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req catalogapp.SetMinStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.SetMinStock(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Activate enables a product for trading
func (h *ProductHandler) Activate(c *gin.Context) {
	h.transition(c, h.productService.Activate)
}

// Deactivate disables a product
func (h *ProductHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.productService.Deactivate)
}

// Discontinue permanently retires a product
func (h *ProductHandler) Discontinue(c *gin.Context) {
	h.transition(c, h.productService.Discontinue)
}

func (h *ProductHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}
