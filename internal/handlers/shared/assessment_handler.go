package shared

import (
	"github.com/gin-gonic/gin"

	"afyalink/internal/models"
	"afyalink/internal/services"
	"afyalink/internal/utils"
	"afyalink/internal/validators"
)

type AssessmentHandler struct {
	assessmentService services.AssessmentService
}

func NewAssessmentHandler(assessmentService services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{
		assessmentService: assessmentService,
	}
}

func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{"assessments": h.assessmentService.ListAssessments()})
}

// SubmitAssessment scores a completed questionnaire
func (h *AssessmentHandler) SubmitAssessment(c *gin.Context) {
	var request models.SubmitAssessmentRequest
	if !bindJSON(c, &request, false) {
		return
	}
	if !checkValid(c, validators.ValidateStruct(&request)) {
		return
	}

	result, err := h.assessmentService.Submit(c.Request.Context(), c.Param("id"), request.Answers)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

func (h *AssessmentHandler) ListResources(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{"resources": h.assessmentService.ListResources()})
}
