package handler

import (
	insuranceapp "github.com/asspharma/backend/internal/application/insurance"
	"github.com/asspharma/backend/internal/domain/insurance"
	"github.com/asspharma/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InsuranceHandler handles insurer convention and claim endpoints
type InsuranceHandler struct {
	BaseHandler
	insuranceService *insuranceapp.InsuranceService
}

// NewInsuranceHandler creates a new InsuranceHandler
func NewInsuranceHandler(insuranceService *insuranceapp.InsuranceService, log *zap.Logger) *InsuranceHandler {
	return &InsuranceHandler{
		BaseHandler:      NewBaseHandler(log),
		insuranceService: insuranceService,
	}
}

// RegisterRoutes mounts the insurance routes. Managing conventions and
// invoicing insurers stays with the titulaire and assistants.
func (h *InsuranceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	insurers := rg.Group("/insurers")
	{
		insurers.GET("", h.ListInsurers)
		insurers.GET("/:id", h.GetInsurer)
		insurers.GET("/:id/claims", h.ListClaims)

		manage := insurers.Group("", middleware.RequirePharmacist())
		{
			manage.POST("", h.CreateInsurer)
			manage.POST("/:id/suspend", h.SuspendInsurer)
			manage.POST("/:id/reinstate", h.ReinstateInsurer)
			manage.PUT("/:id/ceiling", h.SetCeiling)
			manage.POST("/:id/invoice", h.BatchInvoice)
			manage.POST("/:id/settle", h.SettleInvoice)
		}
	}
}

// CreateInsurer registers a convention with a third-party payer
func (h *InsuranceHandler) CreateInsurer(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}

	var req insuranceapp.CreateInsurerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.insuranceService.CreateInsurer(c.Request.Context(), pharmacyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetInsurer returns one insurer
func (h *InsuranceHandler) GetInsurer(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	insurerID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.insuranceService.GetInsurer(c.Request.Context(), pharmacyID, insurerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListInsurers lists the pharmacy's conventions
func (h *InsuranceHandler) ListInsurers(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	if kind := c.Query("kind"); kind != "" {
		filter.Filters["kind"] = kind
	}

	insurers, err := h.insuranceService.ListInsurers(c.Request.Context(), pharmacyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, insurers)
}

// SuspendInsurer pauses coverage under a convention
func (h *InsuranceHandler) SuspendInsurer(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	insurerID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.insuranceService.SuspendInsurer(c.Request.Context(), pharmacyID, insurerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ReinstateInsurer resumes a suspended convention
func (h *InsuranceHandler) ReinstateInsurer(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	insurerID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.insuranceService.ReinstateInsurer(c.Request.Context(), pharmacyID, insurerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// setCeilingRequest carries the new monthly ceiling per member
type setCeilingRequest struct {
	MonthlyCeiling decimal.Decimal `json:"monthly_ceiling" binding:"required"`
}

// SetCeiling changes the monthly coverage ceiling per member
func (h *InsuranceHandler) SetCeiling(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	insurerID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req setCeilingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.insuranceService.SetCeiling(c.Request.Context(), pharmacyID, insurerID, req.MonthlyCeiling)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListClaims lists an insurer's claims, pending by default
func (h *InsuranceHandler) ListClaims(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	insurerID, ok := h.pathID(c)
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	status := insurance.ClaimPending
	if raw := c.Query("status"); raw != "" {
		switch insurance.ClaimStatus(raw) {
		case insurance.ClaimPending, insurance.ClaimInvoiced, insurance.ClaimPaid:
			status = insurance.ClaimStatus(raw)
		default:
			h.BadRequest(c, errInvalidStatusParam)
			return
		}
	}

	claims, err := h.insuranceService.ListClaims(c.Request.Context(), pharmacyID, insurerID, status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, claims)
}

// BatchInvoice groups an insurer's pending claims under one invoice
// reference for the monthly run
func (h *InsuranceHandler) BatchInvoice(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	insurerID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.insuranceService.BatchInvoice(c.Request.Context(), pharmacyID, insurerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// settleRequest names the invoice the insurer has paid
type settleRequest struct {
	InvoiceRef string `json:"invoice_ref" binding:"required,max=100"`
}

// SettleInvoice marks every claim under an invoice reference as paid
func (h *InsuranceHandler) SettleInvoice(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	insurerID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.insuranceService.SettleInvoice(c.Request.Context(), pharmacyID, insurerID, req.InvoiceRef)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
