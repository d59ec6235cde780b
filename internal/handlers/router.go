package handlers

import (
	"net/http"

	"github.com/brightpath-ed/tutoring-service/internal/services"
	"github.com/brightpath-ed/tutoring-service/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	studentHandler   *StudentHandler
	progressHandler  *ProgressHandler
	tutorHandler     *TutorHandler
	analyticsHandler *AnalyticsHandler
}

func NewHandlerManager(
	studentService services.StudentService,
	progressService services.ProgressService,
	tutorService services.TutorService,
	analyticsService services.AnalyticsService,
	exportService services.ReportExportService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		studentHandler:   NewStudentHandler(studentService, logger),
		progressHandler:  NewProgressHandler(progressService, logger),
		tutorHandler:     NewTutorHandler(tutorService, logger),
		analyticsHandler: NewAnalyticsHandler(analyticsService, exportService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "tutoring-service",
		})
	})

	v1 := router.Group("/api/v1")
	{
		students := v1.Group("/students")
		{
			students.POST("", hm.studentHandler.RegisterStudent)
			students.GET("/:id", hm.studentHandler.GetStudent)
			students.PATCH("/:id", hm.studentHandler.UpdateStudent)
			students.DELETE("/:id", hm.studentHandler.DeactivateStudent)

			students.GET("/:id/progress", hm.progressHandler.QueryProgress)
			students.GET("/:id/analytics", hm.analyticsHandler.GetReport)
			students.GET("/:id/scorecard", hm.analyticsHandler.GetScorecard)
			students.GET("/:id/scorecard/export", hm.analyticsHandler.ExportScorecard)
		}

		v1.POST("/progress", hm.progressHandler.RecordProgress)

		tutorSessions := v1.Group("/sessions")
		{
			tutorSessions.POST("", hm.tutorHandler.StartSession)
			tutorSessions.POST("/:id/messages", hm.tutorHandler.SendMessage)
			tutorSessions.DELETE("/:id", hm.tutorHandler.EndSession)
		}
	}
}
