package validators

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"afyalink/internal/models"
)

// AssignCounselorRequest lets an admin hand a session to a named counselor.
// Counselors claiming a session for themselves send an empty body.
type AssignCounselorRequest struct {
	CounselorID string `json:"counselorId" validate:"omitempty,object_id"`
}

func ValidateStartSession(req *models.StartSessionRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateSendMessage(req *models.SendMessageRequest) ValidationErrors {
	errors := ValidateStruct(req)
	if req.Message != "" && strings.TrimSpace(req.Message) == "" {
		errors = append(errors, ValidationError{
			Field:   "message",
			Tag:     "required",
			Message: "must not be blank",
		})
	}
	return errors
}

func ValidateEndSession(req *models.EndSessionRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateAssignCounselor(req *AssignCounselorRequest) ValidationErrors {
	return ValidateStruct(req)
}

// CounselorObjectID returns the requested counselor, or nil when absent.
func (r *AssignCounselorRequest) CounselorObjectID() *primitive.ObjectID {
	if r.CounselorID == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(r.CounselorID)
	if err != nil {
		return nil
	}
	return &id
}

type BotMessageRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}

func ValidateBotMessage(req *BotMessageRequest) ValidationErrors {
	return ValidateSendMessage(&models.SendMessageRequest{Message: req.Message, SenderType: models.SenderTypeUser})
}
