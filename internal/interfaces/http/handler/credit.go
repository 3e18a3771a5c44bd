package handler

import (
	creditapp "github.com/asspharma/backend/internal/application/credit"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/asspharma/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreditHandler handles customer credit account endpoints
type CreditHandler struct {
	BaseHandler
	creditService *creditapp.CreditService
}

// NewCreditHandler creates a new CreditHandler
func NewCreditHandler(creditService *creditapp.CreditService, log *zap.Logger) *CreditHandler {
	return &CreditHandler{
		BaseHandler:   NewBaseHandler(log),
		creditService: creditService,
	}
}

// RegisterRoutes mounts the credit routes. Opening accounts and raising
// limits stays with the titulaire and assistants.
func (h *CreditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	credit := rg.Group("/credit")
	{
		credit.POST("/accounts", middleware.RequirePharmacist(), h.OpenAccount)
		credit.GET("/accounts", h.ListAccounts)
		credit.PUT("/customers/:id/limit", middleware.RequirePharmacist(), h.SetCreditLimit)
		credit.GET("/customers/:id/statement", h.GetStatement)
		credit.POST("/payments", h.RecordPayment)
	}
}

// OpenAccount opens a credit account for a customer
func (h *CreditHandler) OpenAccount(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}

	var req creditapp.OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.creditService.OpenAccount(c.Request.Context(), pharmacyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RecordPayment applies a payment against a customer's open debts,
// oldest first
func (h *CreditHandler) RecordPayment(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	operator, ok := h.userID(c)
	if !ok {
		return
	}

	var req creditapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.creditService.RecordPayment(c.Request.Context(), pharmacyID, operator, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// setLimitRequest carries the new credit ceiling
type setLimitRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit" binding:"required"`
}

// SetCreditLimit changes a customer's authorized credit ceiling
func (h *CreditHandler) SetCreditLimit(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	customerID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req setLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.creditService.SetCreditLimit(c.Request.Context(), pharmacyID, customerID, valueobject.NewMoneyXOF(req.CreditLimit))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetStatement returns the full ledger of a customer's account
func (h *CreditHandler) GetStatement(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	customerID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.creditService.GetStatement(c.Request.Context(), pharmacyID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListAccounts lists credit accounts with their balances
func (h *CreditHandler) ListAccounts(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	accounts, err := h.creditService.ListAccounts(c.Request.Context(), pharmacyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}
