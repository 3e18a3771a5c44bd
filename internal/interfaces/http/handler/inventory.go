package handler

import (
	"strconv"

	inventoryapp "github.com/asspharma/backend/internal/application/inventory"
	"github.com/asspharma/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InventoryHandler handles stock lot, movement and alert endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
	alertService     *inventoryapp.AlertService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService, alertService *inventoryapp.AlertService, log *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		BaseHandler:      NewBaseHandler(log),
		inventoryService: inventoryService,
		alertService:     alertService,
	}
}

// RegisterRoutes mounts the inventory routes. Destroying stock is a
// pharmacist act; reading and regular movements are open to all staff.
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.POST("/lots", h.CreateLot)
		inv.GET("/lots/:id", h.GetLot)
		inv.GET("/lots/:id/movements", h.ListLotMovements)
		inv.POST("/lots/:id/destroy", middleware.RequirePharmacist(), h.DestroyLot)
		inv.POST("/lots/:id/write-off", middleware.RequirePharmacist(), h.WriteOffExpired)

		inv.POST("/movements", h.RecordMovement)

		inv.GET("/products/:id/lots", h.ListLots)
		inv.GET("/products/:id/stock", h.GetStockLevel)
		inv.GET("/products/:id/allocation-preview", h.PreviewAllocation)
		inv.GET("/products/:id/movements", h.ListMovements)

		inv.GET("/alerts/low-stock", h.LowStockAlerts)
		inv.GET("/alerts/expiry", h.ExpiryAlerts)
	}
}

// CreateLot brings a new stock lot in with its opening movement
func (h *InventoryHandler) CreateLot(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	actor, ok := h.userID(c)
	if !ok {
		return
	}

	var req inventoryapp.CreateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.inventoryService.CreateLot(c.Request.Context(), pharmacyID, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetLot returns one stock lot
func (h *InventoryHandler) GetLot(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	lotID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.inventoryService.GetLot(c.Request.Context(), pharmacyID, lotID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordMovement appends a stock entry or exit on a lot
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	actor, ok := h.userID(c)
	if !ok {
		return
	}

	var req inventoryapp.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.inventoryService.RecordMovement(c.Request.Context(), pharmacyID, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// destroyRequest carries the mandatory comment for a destruction
type destroyRequest struct {
	Comment string `json:"comment" binding:"required,max=500"`
}

// DestroyLot writes a lot's remaining quantity off as destroyed
func (h *InventoryHandler) DestroyLot(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	actor, ok := h.userID(c)
	if !ok {
		return
	}
	lotID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req destroyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	if err := h.inventoryService.DestroyLot(c.Request.Context(), pharmacyID, actor, lotID, req.Comment); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// WriteOffExpired destroys a lot that has passed its expiry date
func (h *InventoryHandler) WriteOffExpired(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	actor, ok := h.userID(c)
	if !ok {
		return
	}
	lotID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req destroyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	if err := h.inventoryService.WriteOffExpired(c.Request.Context(), pharmacyID, actor, lotID, req.Comment); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListLots returns a product's lots in FEFO order
func (h *InventoryHandler) ListLots(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c)
	if !ok {
		return
	}
	includeDestroyed, _ := strconv.ParseBool(c.Query("include_destroyed"))

	lots, err := h.inventoryService.ListLots(c.Request.Context(), pharmacyID, productID, includeDestroyed)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lots)
}

// GetStockLevel returns a product's summed allocatable stock
func (h *InventoryHandler) GetStockLevel(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.inventoryService.GetStockLevel(c.Request.Context(), pharmacyID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// PreviewAllocation shows which lots would serve a quantity without
// committing anything
func (h *InventoryHandler) PreviewAllocation(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c)
	if !ok {
		return
	}
	quantity, err := strconv.ParseInt(c.Query("quantity"), 10, 64)
	if err != nil || quantity <= 0 {
		h.BadRequest(c, errInvalidQuantityParam)
		return
	}

	resp, err := h.inventoryService.PreviewAllocation(c.Request.Context(), pharmacyID, productID, quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListMovements returns a product's ledger, newest first
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c)
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	movements, err := h.inventoryService.ListMovements(c.Request.Context(), pharmacyID, productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

// ListLotMovements returns one lot's ledger, oldest first
func (h *InventoryHandler) ListLotMovements(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	lotID, ok := h.pathID(c)
	if !ok {
		return
	}

	movements, err := h.inventoryService.ListLotMovements(c.Request.Context(), pharmacyID, lotID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

// LowStockAlerts lists products at or under their minimum stock
func (h *InventoryHandler) LowStockAlerts(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}

	alerts, err := h.alertService.LowStockAlerts(c.Request.Context(), pharmacyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alerts)
}

// ExpiryAlerts lists lots expiring inside the horizon. An explicit
// horizon_days query overrides the configured default.
func (h *InventoryHandler) ExpiryAlerts(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	horizonDays := 0
	if raw := c.Query("horizon_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.BadRequest(c, errInvalidHorizonParam)
			return
		}
		horizonDays = parsed
	}

	alerts, err := h.alertService.ExpiryAlerts(c.Request.Context(), pharmacyID, horizonDays)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alerts)
}
