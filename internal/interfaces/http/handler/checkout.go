package handler

import (
	salesapp "github.com/asspharma/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckoutHandler handles the point-of-sale checkout endpoint
type CheckoutHandler struct {
	BaseHandler
	checkoutService *salesapp.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *salesapp.CheckoutService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		BaseHandler:     NewBaseHandler(log),
		checkoutService: checkoutService,
	}
}

// RegisterRoutes mounts the checkout route
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.Checkout)
}

// Checkout commits a complete sale: FEFO stock draw, cash or credit
// booking and the insurer claim when the customer presents coverage
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	operator, ok := h.userID(c)
	if !ok {
		return
	}

	var req salesapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.checkoutService.Checkout(c.Request.Context(), pharmacyID, operator, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
