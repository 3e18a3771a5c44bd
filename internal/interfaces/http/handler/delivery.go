package handler

import (
	deliveryapp "github.com/asspharma/backend/internal/application/delivery"
	"github.com/asspharma/backend/internal/domain/delivery"
	"github.com/asspharma/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DeliveryHandler handles supplier delivery endpoints
type DeliveryHandler struct {
	BaseHandler
	deliveryService *deliveryapp.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveryService *deliveryapp.DeliveryService, log *zap.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		BaseHandler:     NewBaseHandler(log),
		deliveryService: deliveryService,
	}
}

// RegisterRoutes mounts the delivery routes. Validation, which brings
// stock in, requires a pharmacist.
func (h *DeliveryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	deliveries := rg.Group("/deliveries")
	{
		deliveries.POST("", h.Announce)
		deliveries.GET("", h.List)
		deliveries.GET("/:id", h.Get)
		deliveries.POST("/:id/receive", h.Receive)
		deliveries.POST("/:id/check-line", h.CheckLine)
		deliveries.POST("/:id/finish-check", h.FinishCheck)
		deliveries.POST("/:id/dispute", h.Dispute)
		deliveries.POST("/:id/validate", middleware.RequirePharmacist(), h.Validate)
	}
}

// Announce registers a delivery announced by a supplier
func (h *DeliveryHandler) Announce(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}

	var req deliveryapp.AnnounceDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.deliveryService.Announce(c.Request.Context(), pharmacyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one delivery with its lines
func (h *DeliveryHandler) Get(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	deliveryID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.deliveryService.GetDelivery(c.Request.Context(), pharmacyID, deliveryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List lists deliveries filtered by status or supplier
func (h *DeliveryHandler) List(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	if supplierID := c.Query("supplier_id"); supplierID != "" {
		id, ok := h.queryUUID(c, "supplier_id")
		if !ok {
			return
		}
		deliveries, err := h.deliveryService.ListBySupplier(c.Request.Context(), pharmacyID, id, filter)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, deliveries)
		return
	}

	status := delivery.StatusPending
	if raw := c.Query("status"); raw != "" {
		switch delivery.Status(raw) {
		case delivery.StatusPending, delivery.StatusReceived, delivery.StatusChecked,
			delivery.StatusValidated, delivery.StatusDisputed:
			status = delivery.Status(raw)
		default:
			h.BadRequest(c, errInvalidStatusParam)
			return
		}
	}

	deliveries, err := h.deliveryService.ListByStatus(c.Request.Context(), pharmacyID, status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deliveries)
}

// Receive marks the parcels as physically arrived
func (h *DeliveryHandler) Receive(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	deliveryID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.deliveryService.Receive(c.Request.Context(), pharmacyID, deliveryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CheckLine records the counted quantity and lot details for one line
func (h *DeliveryHandler) CheckLine(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	deliveryID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req deliveryapp.CheckLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.deliveryService.CheckLine(c.Request.Context(), pharmacyID, deliveryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// FinishCheck closes the counting phase once every line is checked
func (h *DeliveryHandler) FinishCheck(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	checker, ok := h.userID(c)
	if !ok {
		return
	}
	deliveryID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.deliveryService.FinishCheck(c.Request.Context(), pharmacyID, deliveryID, checker)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Dispute flags a checked delivery for supplier follow-up
func (h *DeliveryHandler) Dispute(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	deliveryID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req deliveryapp.DisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.deliveryService.Dispute(c.Request.Context(), pharmacyID, deliveryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Validate accepts the delivery and brings the checked quantities into
// stock as new lots
func (h *DeliveryHandler) Validate(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	validator, ok := h.userID(c)
	if !ok {
		return
	}
	deliveryID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.deliveryService.Validate(c.Request.Context(), pharmacyID, deliveryID, validator)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
