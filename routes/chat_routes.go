package routes

import (
	"github.com/gin-gonic/gin"

	"afyalink/internal/handlers/shared"
	"afyalink/internal/middleware"
)

// SetupMentalHealthRoutes sets up counseling sessions, assessments and
// resources. Session handles are capabilities: holding one is enough to
// read, post and cancel.
func SetupMentalHealthRoutes(r *gin.RouterGroup, chatHandler *shared.ChatHandler, assessmentHandler *shared.AssessmentHandler, jwtSecret string) {
	mentalHealth := r.Group("/mental-health")
	mentalHealth.Use(middleware.OptionalAuth(jwtSecret))
	{
		mentalHealth.POST("/start-session", chatHandler.StartSession)
		mentalHealth.GET("/sessions/:sessionId", chatHandler.GetSession)
		mentalHealth.POST("/sessions/:sessionId/messages", chatHandler.SendMessage)
		mentalHealth.GET("/sessions/:sessionId/messages", chatHandler.GetMessages)
		mentalHealth.POST("/sessions/:sessionId/read", chatHandler.MarkRead)
		mentalHealth.POST("/sessions/:sessionId/cancel", chatHandler.CancelSession)

		mentalHealth.GET("/assessments", assessmentHandler.ListAssessments)
		mentalHealth.POST("/assessments/:id/submit", assessmentHandler.SubmitAssessment)
		mentalHealth.GET("/resources", assessmentHandler.ListResources)
	}

	// Counselor console
	counselors := r.Group("/mental-health/sessions")
	counselors.Use(middleware.AuthRequired(jwtSecret), middleware.CounselorRequired())
	{
		counselors.GET("/waiting", chatHandler.ListWaiting)
		counselors.POST("/:sessionId/assign", chatHandler.AssignCounselor)
		counselors.POST("/:sessionId/end", chatHandler.EndSession)
	}
}

// SetupChatbotRoutes sets up the scripted support bot
func SetupChatbotRoutes(r *gin.RouterGroup, chatHandler *shared.ChatHandler) {
	chat := r.Group("/chat")
	{
		chat.POST("/sessions/:sessionId/bot", chatHandler.BotReply)
	}
}
