package handler

import (
	catalogapp "github.com/asspharma/backend/internal/application/catalog"
	"github.com/asspharma/backend/internal/interfaces/http/dto"
	"github.com/asspharma/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		BaseHandler:    NewBaseHandler(log),
		productService: productService,
	}
}

// RegisterRoutes mounts the catalog routes. Price changes and catalog
// entries are reserved to the titulaire and assistants; lookup is open
// to all staff.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.List)
		products.GET("/:id", h.Get)
		products.GET("/barcode/:code", h.LookupByBarcode)

		manage := products.Group("", middleware.RequirePharmacist())
		{
			manage.POST("", h.Create)
			manage.PUT("/:id/price", h.UpdatePrice)
			manage.PUT("/:id/shelf", h.Relocate)
			manage.PUT("/:id/min-stock", h.SetMinStock)
			manage.PUT("/:id/status", h.ChangeStatus)
		}
	}
}

// Create registers a new product reference
func (h *ProductHandler) Create(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}

	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.productService.CreateProduct(c.Request.Context(), pharmacyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one product by ID
func (h *ProductHandler) Get(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.productService.GetProduct(c.Request.Context(), pharmacyID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// LookupByBarcode resolves a scanned barcode to its product
func (h *ProductHandler) LookupByBarcode(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}

	resp, err := h.productService.LookupByBarcode(c.Request.Context(), pharmacyID, c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns a page of products with search and sorting
func (h *ProductHandler) List(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	products, total, err := h.productService.ListProducts(c.Request.Context(), pharmacyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, dto.NewMeta(filter, total))
}

// UpdatePrice changes the unit sale price
func (h *ProductHandler) UpdatePrice(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req catalogapp.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.productService.UpdatePrice(c.Request.Context(), pharmacyID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Relocate moves a product to another shelf
func (h *ProductHandler) Relocate(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req catalogapp.RelocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.productService.Relocate(c.Request.Context(), pharmacyID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetMinStock adjusts the low-stock alert threshold
func (h *ProductHandler) SetMinStock(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req catalogapp.SetMinStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.productService.SetMinStock(c.Request.Context(), pharmacyID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangeStatus transitions the product lifecycle status
func (h *ProductHandler) ChangeStatus(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req catalogapp.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.productService.ChangeStatus(c.Request.Context(), pharmacyID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
