package handler

import (
	"time"

	reportapp "github.com/asspharma/backend/internal/application/report"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportHandler handles read-only reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(log),
		reportService: reportService,
	}
}

// RegisterRoutes mounts the reporting routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/daily", h.DailySummary)
}

// DailySummary returns the activity summary for one business day. The
// date query defaults to today in the server's location.
func (h *ReportHandler) DailySummary(c *gin.Context) {
	pharmacyID, ok := h.pharmacyID(c)
	if !ok {
		return
	}

	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			h.BadRequest(c, errInvalidDateParam)
			return
		}
		day = parsed
	}

	resp, err := h.reportService.DailySummary(c.Request.Context(), pharmacyID, day)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
