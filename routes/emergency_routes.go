package routes

import (
	"github.com/gin-gonic/gin"

	"afyalink/internal/handlers/shared"
)

// SetupEmergencyRoutes sets up SMS alerts and the public emergency directory
func SetupEmergencyRoutes(r *gin.RouterGroup, emergencyHandler *shared.EmergencyHandler) {
	emergency := r.Group("/emergency")
	{
		emergency.POST("/alert", emergencyHandler.SendAlert)
		emergency.POST("/ambulance", emergencyHandler.RequestAmbulance)
		emergency.GET("/alerts/:id", emergencyHandler.GetAlert)
		emergency.GET("/contacts", emergencyHandler.GetContacts)
		emergency.GET("/guidelines", emergencyHandler.GetGuidelines)
	}
}
