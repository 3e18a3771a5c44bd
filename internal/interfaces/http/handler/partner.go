package handler

import (
	partnerapp "github.com/asspharma/backend/internal/application/partner"
	"github.com/asspharma/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PartnerHandler handles customer and supplier endpoints
type PartnerHandler struct {
	BaseHandler
	partnerService *partnerapp.PartnerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partnerService *partnerapp.PartnerService, log *zap.Logger) *PartnerHandler {
	return &PartnerHandler{
		BaseHandler:    NewBaseHandler(log),
		partnerService: partnerService,
	}
}

// RegisterRoutes mounts the customer and supplier routes
func (h *PartnerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
		customers.GET("/phone/:phone", h.SearchCustomerByPhone)
		customers.POST("/:id/affiliation", h.Affiliate)
		customers.DELETE("/:id/affiliation", h.RemoveAffiliation)
		customers.POST("/:id/deactivate", middleware.RequirePharmacist(), h.DeactivateCustomer)
	}

	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", middleware.RequirePharmacist(), h.CreateSupplier)
		suppliers.GET("", h.ListSuppliers)
		suppliers.GET("/:id", h.GetSupplier)
		suppliers.POST("/:id/deactivate", middleware.RequirePharmacist(), h.DeactivateSupplier)
	}
}

// CreateCustomer registers a new customer
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}

	var req partnerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.partnerService.CreateCustomer(c.Request.Context(), pharmacyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Affiliate attaches a customer to an insurer convention
func (h *PartnerHandler) Affiliate(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	customerID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req partnerapp.AffiliateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.partnerService.Affiliate(c.Request.Context(), pharmacyID, customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveAffiliation detaches a customer from their insurer
func (h *PartnerHandler) RemoveAffiliation(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	customerID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.partnerService.RemoveAffiliation(c.Request.Context(), pharmacyID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetCustomer returns one customer
func (h *PartnerHandler) GetCustomer(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	customerID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.partnerService.GetCustomer(c.Request.Context(), pharmacyID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SearchCustomerByPhone finds a customer by exact phone number
func (h *PartnerHandler) SearchCustomerByPhone(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}

	resp, err := h.partnerService.SearchCustomerByPhone(c.Request.Context(), pharmacyID, c.Param("phone"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListCustomers lists customers with name and phone search
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	if insurerID := c.Query("insurer_id"); insurerID != "" {
		filter.Filters["insurer_id"] = insurerID
	}

	customers, err := h.partnerService.ListCustomers(c.Request.Context(), pharmacyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// DeactivateCustomer disables a customer record
func (h *PartnerHandler) DeactivateCustomer(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	customerID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.partnerService.DeactivateCustomer(c.Request.Context(), pharmacyID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateSupplier registers a new supplier
func (h *PartnerHandler) CreateSupplier(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}

	var req partnerapp.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.partnerService.CreateSupplier(c.Request.Context(), pharmacyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetSupplier returns one supplier
func (h *PartnerHandler) GetSupplier(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	supplierID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.partnerService.GetSupplier(c.Request.Context(), pharmacyID, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListSuppliers lists suppliers with name search
func (h *PartnerHandler) ListSuppliers(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	suppliers, err := h.partnerService.ListSuppliers(c.Request.Context(), pharmacyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suppliers)
}

// DeactivateSupplier disables a supplier record
func (h *PartnerHandler) DeactivateSupplier(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	supplierID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.partnerService.DeactivateSupplier(c.Request.Context(), pharmacyID, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
