package handler

import (
	cashierapp "github.com/asspharma/backend/internal/application/cashier"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CashierHandler handles register session endpoints
type CashierHandler struct {
	BaseHandler
	cashierService *cashierapp.CashierService
}

// NewCashierHandler creates a new CashierHandler
func NewCashierHandler(cashierService *cashierapp.CashierService, log *zap.Logger) *CashierHandler {
	return &CashierHandler{
		BaseHandler:    NewBaseHandler(log),
		cashierService: cashierService,
	}
}

// RegisterRoutes mounts the cash session routes
func (h *CashierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cash := rg.Group("/cash")
	{
		cash.POST("/sessions/open", h.OpenSession)
		cash.POST("/sessions/close", h.CloseSession)
		cash.POST("/transactions", h.RecordTransaction)
		cash.GET("/sessions", h.ListSessions)
		cash.GET("/sessions/:id", h.GetSession)
	}
}

// OpenSession opens a register session with its opening float
func (h *CashierHandler) OpenSession(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	actor, ok := h.userID(c)
	if !ok {
		return
	}

	var req cashierapp.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.cashierService.OpenSession(c.Request.Context(), pharmacyID, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RecordTransaction appends a cash movement to the register's open session
func (h *CashierHandler) RecordTransaction(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	actor, ok := h.userID(c)
	if !ok {
		return
	}

	var req cashierapp.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.cashierService.RecordTransaction(c.Request.Context(), pharmacyID, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// CloseSession reconciles the counted float and closes the session
func (h *CashierHandler) CloseSession(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	actor, ok := h.userID(c)
	if !ok {
		return
	}

	var req cashierapp.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.cashierService.CloseSession(c.Request.Context(), pharmacyID, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetSession returns one session with its transaction count
func (h *CashierHandler) GetSession(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	sessionID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.cashierService.GetSession(c.Request.Context(), pharmacyID, sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListSessions lists sessions with optional register and status filters
func (h *CashierHandler) ListSessions(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	if register := c.Query("register"); register != "" {
		filter.Filters["register"] = register
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	sessions, err := h.cashierService.ListSessions(c.Request.Context(), pharmacyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sessions)
}
