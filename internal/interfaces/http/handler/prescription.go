package handler

import (
	"io"

	prescriptionapp "github.com/asspharma/backend/internal/application/prescription"
	"github.com/asspharma/backend/internal/domain/prescription"
	"github.com/asspharma/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PrescriptionHandler handles ordonnance endpoints
type PrescriptionHandler struct {
	BaseHandler
	prescriptionService *prescriptionapp.PrescriptionService
}

// NewPrescriptionHandler creates a new PrescriptionHandler
func NewPrescriptionHandler(prescriptionService *prescriptionapp.PrescriptionService, log *zap.Logger) *PrescriptionHandler {
	return &PrescriptionHandler{
		BaseHandler:         NewBaseHandler(log),
		prescriptionService: prescriptionService,
	}
}

// RegisterRoutes mounts the prescription routes. Dispensing against an
// ordonnance is a pharmacist act.
func (h *PrescriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	prescriptions := rg.Group("/prescriptions")
	{
		prescriptions.POST("", h.Capture)
		prescriptions.GET("", h.ListByStatus)
		prescriptions.GET("/:id", h.Get)
		prescriptions.POST("/:id/scan", h.AttachScan)
		prescriptions.GET("/:id/scan-url", h.ScanURL)
		prescriptions.POST("/:id/dispense", middleware.RequirePharmacist(), h.Dispense)
		prescriptions.POST("/:id/cancel", middleware.RequirePharmacist(), h.Cancel)
	}

	rg.GET("/customers/:id/prescriptions", h.ListByCustomer)
}

// Capture records an ordonnance brought by a customer
func (h *PrescriptionHandler) Capture(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}

	var req prescriptionapp.CapturePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.prescriptionService.Capture(c.Request.Context(), pharmacyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one prescription with its lines
func (h *PrescriptionHandler) Get(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	prescriptionID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.prescriptionService.GetPrescription(c.Request.Context(), pharmacyID, prescriptionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AttachScan stores the uploaded scan image for a prescription. The file
// comes in as multipart form data under the "scan" field.
func (h *PrescriptionHandler) AttachScan(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	prescriptionID, ok := h.pathID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("scan")
	if err != nil {
		h.BadRequest(c, errMissingScanFile)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")

	resp, err := h.prescriptionService.AttachScan(c.Request.Context(), pharmacyID, prescriptionID, contentType, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ScanURL returns a short-lived download link for the stored scan
func (h *PrescriptionHandler) ScanURL(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	prescriptionID, ok := h.pathID(c)
	if !ok {
		return
	}

	url, err := h.prescriptionService.ScanURL(c.Request.Context(), pharmacyID, prescriptionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"url": url})
}

// Dispense records quantities handed to the patient against a line
func (h *PrescriptionHandler) Dispense(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	prescriptionID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req prescriptionapp.DispenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.prescriptionService.Dispense(c.Request.Context(), pharmacyID, prescriptionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel voids a prescription that will not be served
func (h *PrescriptionHandler) Cancel(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	prescriptionID, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := h.prescriptionService.Cancel(c.Request.Context(), pharmacyID, prescriptionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListByStatus lists prescriptions in a given state, pending by default
func (h *PrescriptionHandler) ListByStatus(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	status := prescription.StatusPending
	if raw := c.Query("status"); raw != "" {
		switch prescription.Status(raw) {
		case prescription.StatusPending, prescription.StatusPartial,
			prescription.StatusDispensed, prescription.StatusCancelled:
			status = prescription.Status(raw)
		default:
			h.BadRequest(c, errInvalidStatusParam)
			return
		}
	}

	prescriptions, err := h.prescriptionService.ListByStatus(c.Request.Context(), pharmacyID, status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prescriptions)
}

// ListByCustomer lists a customer's prescriptions, newest first
func (h *PrescriptionHandler) ListByCustomer(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}
	customerID, ok := h.pathID(c)
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	prescriptions, err := h.prescriptionService.ListByCustomer(c.Request.Context(), pharmacyID, customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prescriptions)
}
