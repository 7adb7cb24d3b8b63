package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status    string    `json:"status"`
	Error     *APIError `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Success bodies are written as-is so clients get the documented shape
// ({services, pagination, ...}) without an extra wrapper.
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func AcceptedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, data)
}

func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	ErrorResponseWithDetails(c, statusCode, code, message, nil)
}

func ErrorResponseWithDetails(c *gin.Context, statusCode int, code, message string, details map[string]string) {
	c.AbortWithStatusJSON(statusCode, APIResponse{
		Status: StatusError,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: time.Now(),
	})
}

func ValidationErrorResponse(c *gin.Context, errors map[string]string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, string(ErrorTypeValidation), ErrValidationFailed, errors)
}

func InternalServerErrorResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusInternalServerError, string(ErrorTypeInternal), ErrInternalServer)
}

func UnauthorizedResponse(c *gin.Context) {
	HandleServiceError(c, NewUnauthorizedError(ErrUnauthorized))
}

func ForbiddenResponse(c *gin.Context) {
	HandleServiceError(c, NewForbiddenError(ErrForbidden))
}

func NotFoundResponse(c *gin.Context, resource string) {
	ErrorResponse(c, http.StatusNotFound, string(ErrorTypeNotFound), resource+" not found")
}

func BadRequestResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, string(ErrorTypeValidation), message)
}

// HandleServiceError renders err with the status its type maps to. Internal
// and unavailable errors never leak their cause to the client; the cause is
// attached to the context for the request logger instead.
func HandleServiceError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	appErr := AsAppError(err)

	switch appErr.Type {
	case ErrorTypeInternal:
		InternalServerErrorResponse(c)
	case ErrorTypeUnavailable:
		ErrorResponse(c, http.StatusServiceUnavailable, string(ErrorTypeUnavailable), ErrServiceUnavailable)
	case ErrorTypeValidation:
		message := appErr.Message
		if message == "" {
			message = ErrValidationFailed
		}
		ErrorResponseWithDetails(c, http.StatusBadRequest, string(appErr.Type), message, appErr.Fields)
	default:
		ErrorResponse(c, appErr.HTTPStatus(), string(appErr.Type), appErr.Message)
	}
}
