package handlers

import (
	"net/http"

	"github.com/brightpath-ed/tutoring-service/internal/services"
	"github.com/brightpath-ed/tutoring-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	BaseHandler
	studentService services.StudentService
}

func NewStudentHandler(studentService services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler:    NewBaseHandler(logger),
		studentService: studentService,
	}
}

// RegisterStudent creates a new student profile
func (h *StudentHandler) RegisterStudent(c *gin.Context) {
	var req services.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Registering student", "student_id", req.StudentID)

	profile, err := h.studentService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// GetStudent retrieves a student profile by ID
func (h *StudentHandler) GetStudent(c *gin.Context) {
	studentID := ParseStringIDParam(c, "id")
	if studentID == "" {
		return
	}

	profile, err := h.studentService.Get(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateStudent merges a partial update into the profile
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	studentID := ParseStringIDParam(c, "id")
	if studentID == "" {
		return
	}

	var req services.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	profile, err := h.studentService.Update(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// DeactivateStudent soft-deletes a student profile
func (h *StudentHandler) DeactivateStudent(c *gin.Context) {
	studentID := ParseStringIDParam(c, "id")
	if studentID == "" {
		return
	}

	h.LogRequest(c, "Deactivating student", "student_id", studentID)

	if err := h.studentService.Deactivate(c.Request.Context(), studentID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Student deactivated", nil)
}
