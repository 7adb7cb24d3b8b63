package shared

import (
	"strings"

	"github.com/gin-gonic/gin"

	"afyalink/internal/models"
	"afyalink/internal/services"
	"afyalink/internal/utils"
	"afyalink/internal/validators"
)

type FacilityHandler struct {
	facilityService services.FacilityService
}

func NewFacilityHandler(facilityService services.FacilityService) *FacilityHandler {
	return &FacilityHandler{
		facilityService: facilityService,
	}
}

// SearchFacilities lists active facilities near an optional origin
func (h *FacilityHandler) SearchFacilities(c *gin.Context) {
	query, fields := parseFacilityQuery(c)
	if len(fields) > 0 {
		utils.ValidationErrorResponse(c, fields)
		return
	}

	result, err := h.facilityService.Search(c.Request.Context(), query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// GetFacility returns a single active facility
func (h *FacilityHandler) GetFacility(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "health service")
	if !ok {
		return
	}

	facility, err := h.facilityService.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, facility)
}

// CreateFacility adds a facility to the directory
func (h *FacilityHandler) CreateFacility(c *gin.Context) {
	var request validators.FacilityCreateRequest
	if !bindJSON(c, &request, false) {
		return
	}
	if !checkValid(c, validators.ValidateFacilityCreate(&request)) {
		return
	}

	facility, err := h.facilityService.Create(c.Request.Context(), request.ToModel())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, facility)
}

// UpdateFacility applies a partial update
func (h *FacilityHandler) UpdateFacility(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "health service")
	if !ok {
		return
	}

	var request validators.FacilityUpdateRequest
	if !bindJSON(c, &request, false) {
		return
	}
	if !checkValid(c, validators.ValidateFacilityUpdate(&request)) {
		return
	}

	facility, err := h.facilityService.Update(c.Request.Context(), id, request.ToUpdate())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, facility)
}

// DeleteFacility soft-deletes a facility
func (h *FacilityHandler) DeleteFacility(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "health service")
	if !ok {
		return
	}

	if err := h.facilityService.Deactivate(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func parseFacilityQuery(c *gin.Context) (models.FacilityQuery, map[string]string) {
	fields := map[string]string{}
	query := models.FacilityQuery{
		SearchText:    c.Query("search"),
		EmergencyOnly: queryBool(c, "emergency", fields),
		Open24h:       queryBool(c, "is24Hours", fields),
		Page:          queryInt(c, "page", fields),
		Limit:         queryInt(c, "limit", fields),
	}

	lat := queryFloat(c, "lat", fields)
	lng := queryFloat(c, "lng", fields)
	switch {
	case lat != nil && lng != nil:
		origin := models.NewCoordinate(*lat, *lng)
		query.Origin = &origin
	case lat != nil || lng != nil:
		fields["location"] = "lat and lng must be provided together"
	}

	if radius := queryFloat(c, "radius", fields); radius != nil {
		query.RadiusKm = *radius
		if *radius == 0 {
			fields["radius"] = "must be between 1 and 50"
		}
	}

	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		facilityType := models.FacilityType(raw)
		query.Type = &facilityType
	}

	return query, fields
}
