package shared

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"afyalink/internal/utils"
	"afyalink/internal/validators"
)

// bindJSON decodes the request body into dst. An empty body is accepted when
// optional is set, leaving dst at its zero value.
func bindJSON(c *gin.Context, dst interface{}, optional bool) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	utils.BadRequestResponse(c, "Invalid request body")
	return false
}

// checkValid writes a 400 with per-field details when errs is non-empty.
func checkValid(c *gin.Context, errs validators.ValidationErrors) bool {
	if len(errs) == 0 {
		return true
	}
	utils.ValidationErrorResponse(c, errs.Fields())
	return false
}

func objectIDParam(c *gin.Context, name, resource string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.NotFoundResponse(c, resource)
		return primitive.NilObjectID, false
	}
	return id, true
}

// sessionIDParam rejects malformed handles before they reach the store.
func sessionIDParam(c *gin.Context) (string, bool) {
	sessionID := c.Param("sessionId")
	if !validators.IsValidSessionID(sessionID) {
		utils.NotFoundResponse(c, "chat session")
		return "", false
	}
	return sessionID, true
}

func queryBool(c *gin.Context, key string, fields map[string]string) bool {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		fields[key] = "must be true or false"
		return false
	}
	return value
}

func queryFloat(c *gin.Context, key string, fields map[string]string) *float64 {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fields[key] = "must be a number"
		return nil
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		fields[key] = "must be a finite number"
		return nil
	}
	return &value
}

func queryInt(c *gin.Context, key string, fields map[string]string) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		fields[key] = "must be an integer"
		return 0
	}
	return value
}
