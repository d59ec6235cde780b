package handlers

import (
	"net/http"

	"github.com/brightpath-ed/tutoring-service/internal/services"
	"github.com/brightpath-ed/tutoring-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type TutorHandler struct {
	BaseHandler
	tutorService services.TutorService
}

func NewTutorHandler(tutorService services.TutorService, logger utils.Logger) *TutorHandler {
	return &TutorHandler{
		BaseHandler:  NewBaseHandler(logger),
		tutorService: tutorService,
	}
}

// StartSession opens a tutoring session and returns the opening message
func (h *TutorHandler) StartSession(c *gin.Context) {
	var req services.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Starting tutoring session",
		"student_id", req.StudentID,
		"subject", req.Subject)

	resp, err := h.tutorService.StartSession(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// SendMessage exchanges one turn within a session
func (h *TutorHandler) SendMessage(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}

	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.SessionID = sessionID

	resp, err := h.tutorService.SendMessage(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// EndSession closes a session and records its summary
func (h *TutorHandler) EndSession(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	studentID := c.Query("student_id")
	if studentID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid student_id",
			Details: "student_id query parameter is required",
		})
		return
	}

	resp, err := h.tutorService.EndSession(c.Request.Context(), sessionID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
