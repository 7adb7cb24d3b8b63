package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"afyalink/internal/models"
	"afyalink/internal/utils"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their JSON names so errors match the request body.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	// Register custom validation functions
	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("phone_number", validatePhoneNumber)
	validate.RegisterValidation("coordinates", validateCoordinates)
	validate.RegisterValidation("facility_type", validateFacilityType)
	validate.RegisterValidation("session_priority", validateSessionPriority)
	validate.RegisterValidation("sender_type", validateSenderType)
}

var ErrNotStruct = errors.New("validation target must be a struct")

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// Fields flattens the errors into the details map of an error response. The
// first failure per field wins.
func (v ValidationErrors) Fields() map[string]string {
	fields := make(map[string]string, len(v))
	for _, err := range v {
		if _, seen := fields[err.Field]; !seen {
			fields[err.Field] = err.Message
		}
	}
	return fields
}

// AsAppError converts the errors into a validation AppError, or nil when
// there are none.
func (v ValidationErrors) AsAppError() error {
	if len(v) == 0 {
		return nil
	}
	return utils.NewValidationError(utils.ErrValidationFailed, v.Fields())
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return ValidationErrors{{Field: "body", Tag: "struct", Message: ErrNotStruct.Error()}}
	}

	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, ValidationError{
			Field:   fieldPath(fe),
			Tag:     fe.Tag(),
			Value:   fmt.Sprintf("%v", fe.Value()),
			Message: getErrorMessage(fe),
		})
	}

	return validationErrors
}

// fieldPath drops the root type name from the namespace, so nested fields
// read like "location.latitude" or "answers[2].value".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		if isNumeric(err.Kind()) {
			return fmt.Sprintf("must be at least %s", err.Param())
		}
		return fmt.Sprintf("must be at least %s characters", err.Param())
	case "max":
		if isNumeric(err.Kind()) {
			return fmt.Sprintf("must be at most %s", err.Param())
		}
		return fmt.Sprintf("must be at most %s characters", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(err.Param(), " ", ", "))
	case "latitude":
		return "latitude must be within [-90,90]"
	case "longitude":
		return "longitude must be within [-180,180]"
	case "email":
		return "invalid email format"
	case "url":
		return "invalid URL"
	case "object_id":
		return "invalid ID format"
	case "phone_number":
		return "invalid phone number"
	case "coordinates":
		return "latitude must be within [-90,90] and longitude within [-180,180]"
	case "facility_type":
		return "unknown facility type"
	case "session_priority":
		return "must be one of: low, medium, high, urgent"
	case "sender_type":
		return "must be one of: user, counselor"
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Custom validation functions
func validateObjectID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let required tag handle empty values
	}
	return IsValidObjectID(value)
}

// validatePhoneNumber accepts local and international formats that normalize
// to E.164.
func validatePhoneNumber(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if phone == "" {
		return true
	}
	return utils.IsValidPhone(phone)
}

func validateCoordinates(fl validator.FieldLevel) bool {
	switch coord := fl.Field().Interface().(type) {
	case models.Coordinate:
		return coord.IsValid()
	case *models.Coordinate:
		return coord == nil || coord.IsValid()
	default:
		return false
	}
}

func validateFacilityType(fl validator.FieldLevel) bool {
	return models.FacilityType(fl.Field().String()).IsValid()
}

func validateSessionPriority(fl validator.FieldLevel) bool {
	return models.SessionPriority(fl.Field().String()).IsValid()
}

// validateSenderType rejects "system": clients never author system messages.
func validateSenderType(fl validator.FieldLevel) bool {
	switch models.SenderType(fl.Field().String()) {
	case models.SenderTypeUser, models.SenderTypeCounselor:
		return true
	}
	return false
}

// Helper functions for common validations
func IsValidObjectID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// IsValidSessionID checks the shape of a public session handle.
func IsValidSessionID(id string) bool {
	if !strings.HasPrefix(id, utils.SessionIDPrefix) {
		return false
	}
	suffix := id[len(utils.SessionIDPrefix):]
	if len(suffix) == 0 || len(suffix) > utils.SessionIDRandomLength {
		return false
	}
	for _, r := range suffix {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
