package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/brightpath-ed/tutoring-service/internal/models"
	"github.com/brightpath-ed/tutoring-service/internal/repositories"
	"github.com/brightpath-ed/tutoring-service/internal/services"
	"github.com/brightpath-ed/tutoring-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	BaseHandler
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     NewBaseHandler(logger),
		progressService: progressService,
	}
}

// RecordProgress appends one progress event
func (h *ProgressHandler) RecordProgress(c *gin.Context) {
	var req services.RecordProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	event, err := h.progressService.Record(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// QueryProgress returns a student's events newest-first, optionally filtered
// by subject, type and date range
func (h *ProgressHandler) QueryProgress(c *gin.Context) {
	studentID := ParseStringIDParam(c, "id")
	if studentID == "" {
		return
	}

	filters := repositories.ProgressFilters{
		Subject: strings.TrimSpace(c.Query("subject")),
	}

	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid limit",
				Details: "must be a non-negative integer",
			})
			return
		}
		filters.Limit = limit
	}

	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		filters.Types = []models.EventType{models.EventType(raw)}
	}

	var failed bool
	if filters.DateFrom, failed = parseTimeQuery(c, "from"); failed {
		return
	}
	if filters.DateTo, failed = parseTimeQuery(c, "to"); failed {
		return
	}

	events, err := h.progressService.Query(c.Request.Context(), studentID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"student_id": studentID,
		"count":      len(events),
		"events":     events,
	})
}
