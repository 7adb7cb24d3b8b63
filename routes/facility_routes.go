package routes

import (
	"github.com/gin-gonic/gin"

	"afyalink/internal/handlers/shared"
	"afyalink/internal/middleware"
)

// SetupFacilityRoutes sets up the health service directory
func SetupFacilityRoutes(r *gin.RouterGroup, facilityHandler *shared.FacilityHandler, jwtSecret string) {
	facilities := r.Group("/health-services")
	{
		facilities.GET("", facilityHandler.SearchFacilities)
		facilities.GET("/:id", facilityHandler.GetFacility)
	}

	// Directory maintenance
	admin := r.Group("/health-services")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.POST("", facilityHandler.CreateFacility)
		admin.PUT("/:id", facilityHandler.UpdateFacility)
		admin.DELETE("/:id", facilityHandler.DeleteFacility)
	}
}
