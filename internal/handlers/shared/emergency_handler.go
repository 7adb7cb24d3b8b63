package shared

import (
	"github.com/gin-gonic/gin"

	"afyalink/internal/models"
	"afyalink/internal/services"
	"afyalink/internal/utils"
	"afyalink/internal/validators"
)

type EmergencyHandler struct {
	emergencyService services.EmergencyService
}

func NewEmergencyHandler(emergencyService services.EmergencyService) *EmergencyHandler {
	return &EmergencyHandler{
		emergencyService: emergencyService,
	}
}

// SendAlert queues an emergency SMS. Delivery happens after the response.
func (h *EmergencyHandler) SendAlert(c *gin.Context) {
	var request models.EmergencyAlertRequest
	if !bindJSON(c, &request, false) {
		return
	}
	if !checkValid(c, validators.ValidateStruct(&request)) {
		return
	}

	receipt, err := h.emergencyService.SendAlert(c.Request.Context(), &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.AcceptedResponse(c, receipt)
}

// RequestAmbulance queues an ambulance dispatch SMS
func (h *EmergencyHandler) RequestAmbulance(c *gin.Context) {
	var request models.AmbulanceRequest
	if !bindJSON(c, &request, false) {
		return
	}
	if !checkValid(c, validators.ValidateStruct(&request)) {
		return
	}

	receipt, err := h.emergencyService.RequestAmbulance(c.Request.Context(), &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.AcceptedResponse(c, receipt)
}

// GetAlert reports the dispatch status of a queued alert
func (h *EmergencyHandler) GetAlert(c *gin.Context) {
	id, ok := objectIDParam(c, "id", "emergency alert")
	if !ok {
		return
	}

	alert, err := h.emergencyService.GetAlert(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, alert)
}

func (h *EmergencyHandler) GetContacts(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{"contacts": h.emergencyService.Contacts()})
}

func (h *EmergencyHandler) GetGuidelines(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{"guidelines": h.emergencyService.Guidelines()})
}
