package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"afyalink/internal/models"
	"afyalink/internal/utils"
)

const (
	ContextUserID   = "user_id"
	ContextUserType = "user_type"
)

// AuthRequired middleware validates JWT token and sets user context
func AuthRequired(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, secretKey)
		if !ok {
			utils.UnauthorizedResponse(c)
			return
		}

		setUser(c, claims)
		c.Next()
	}
}

// OptionalAuth sets the user context when a valid token is present and lets
// anonymous requests through. A malformed or expired token is rejected so
// clients notice instead of silently losing their identity.
func OptionalAuth(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		claims, ok := bearerClaims(c, secretKey)
		if !ok {
			utils.UnauthorizedResponse(c)
			return
		}

		setUser(c, claims)
		c.Next()
	}
}

// CounselorRequired middleware ensures user is a counselor or an admin
func CounselorRequired() gin.HandlerFunc {
	return requireUserType(models.UserTypeCounselor, models.UserTypeAdmin)
}

// AdminRequired middleware ensures user is an admin
func AdminRequired() gin.HandlerFunc {
	return requireUserType(models.UserTypeAdmin)
}

func requireUserType(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userType, exists := c.Get(ContextUserType)
		if !exists {
			utils.UnauthorizedResponse(c)
			return
		}

		userTypeStr, _ := userType.(string)
		for _, t := range allowed {
			if userTypeStr == t {
				c.Next()
				return
			}
		}

		utils.ForbiddenResponse(c)
	}
}

func bearerClaims(c *gin.Context, secretKey string) (*utils.JWTClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if authHeader == "" || tokenString == authHeader {
		return nil, false
	}

	claims, err := utils.ValidateToken(tokenString, secretKey)
	if err != nil || claims.UserID.IsZero() {
		return nil, false
	}
	return claims, true
}

func setUser(c *gin.Context, claims *utils.JWTClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUserType, claims.UserType)
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (primitive.ObjectID, string, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return primitive.NilObjectID, "", false
	}
	userID, ok := value.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, "", false
	}
	return userID, c.GetString(ContextUserType), true
}
