package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/brightpath-ed/tutoring-service/internal/services"
	"github.com/brightpath-ed/tutoring-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
	exportService    services.ReportExportService
}

func NewAnalyticsHandler(
	analyticsService services.AnalyticsService,
	exportService services.ReportExportService,
	logger utils.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
		exportService:    exportService,
	}
}

// GetReport returns the full analytics report for a student
func (h *AnalyticsHandler) GetReport(c *gin.Context) {
	studentID := ParseStringIDParam(c, "id")
	if studentID == "" {
		return
	}

	var window services.TimeRange
	var failed bool
	if window.From, failed = parseTimeQuery(c, "from"); failed {
		return
	}
	if window.To, failed = parseTimeQuery(c, "to"); failed {
		return
	}

	report, err := h.analyticsService.GetReport(c.Request.Context(), studentID, window)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetScorecard returns only the scorecard section
func (h *AnalyticsHandler) GetScorecard(c *gin.Context) {
	studentID := ParseStringIDParam(c, "id")
	if studentID == "" {
		return
	}

	card, err := h.analyticsService.GetScorecard(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

// ExportScorecard streams the scorecard workbook as an attachment
func (h *AnalyticsHandler) ExportScorecard(c *gin.Context) {
	studentID := ParseStringIDParam(c, "id")
	if studentID == "" {
		return
	}

	h.LogRequest(c, "Exporting scorecard", "student_id", studentID)

	data, err := h.exportService.ExportScorecardToExcel(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("scorecard_%s_%s.xlsx", studentID, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
