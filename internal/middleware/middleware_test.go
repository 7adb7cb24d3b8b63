package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"afyalink/internal/models"
	"afyalink/internal/utils"
	"afyalink/pkg/logger"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func tokenFor(t *testing.T, userType string) (primitive.ObjectID, string) {
	t.Helper()
	userID := primitive.NewObjectID()
	token, err := utils.GenerateToken(userID, userType, testSecret, time.Hour)
	require.NoError(t, err)
	return userID, token
}

func whoAmI(c *gin.Context) {
	userID, userType, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID.Hex(), "userType": userType})
}

func serve(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	router := gin.New()
	router.GET("/me", AuthRequired(testSecret), whoAmI)

	userID, token := tokenFor(t, models.UserTypeUser)
	w := serve(router, http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.Hex())

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/me", "garbage").Code)

	forged, err := utils.GenerateToken(userID, models.UserTypeAdmin, "other-secret", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/me", forged).Code)

	expired, err := utils.GenerateToken(userID, models.UserTypeUser, testSecret, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/me", expired).Code)
}

func TestOptionalAuth(t *testing.T) {
	router := gin.New()
	router.GET("/me", OptionalAuth(testSecret), whoAmI)

	w := serve(router, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")

	_, token := tokenFor(t, models.UserTypeCounselor)
	w = serve(router, http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userType":"counselor"`)

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/me", "garbage").Code)
}

func TestRoleMiddleware(t *testing.T) {
	router := gin.New()
	router.GET("/queue", AuthRequired(testSecret), CounselorRequired(), whoAmI)
	router.GET("/admin", AuthRequired(testSecret), AdminRequired(), whoAmI)

	_, user := tokenFor(t, models.UserTypeUser)
	_, counselor := tokenFor(t, models.UserTypeCounselor)
	_, admin := tokenFor(t, models.UserTypeAdmin)

	tests := []struct {
		path  string
		token string
		want  int
	}{
		{"/queue", user, http.StatusForbidden},
		{"/queue", counselor, http.StatusOK},
		{"/queue", admin, http.StatusOK},
		{"/admin", counselor, http.StatusForbidden},
		{"/admin", admin, http.StatusOK},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, serve(router, http.MethodGet, tt.path, tt.token).Code, tt.path)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/id", func(c *gin.Context) {
		id, _ := c.Request.Context().Value(logger.RequestIDKey).(string)
		c.String(http.StatusOK, id)
	})

	w := serve(router, http.MethodGet, "/id", "")
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, "client-supplied")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "client-supplied", w.Body.String())
}

func TestCORSMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware([]string{"https://afyalink.example"}))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://afyalink.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://afyalink.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RecoveryMiddleware(logger.NewNop()))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(router, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), utils.ErrInternalServer)
}

func TestLoggingMiddleware_LogsServiceErrorCause(t *testing.T) {
	log, err := logger.NewLogger(&logger.Config{Level: logger.InfoLevel, Format: "json", AppName: "test"})
	require.NoError(t, err)
	buf := &bytes.Buffer{}
	log.SetOutput(buf)

	router := gin.New()
	router.Use(LoggingMiddleware(log))
	router.GET("/facilities", func(c *gin.Context) {
		utils.HandleServiceError(c, utils.NewUnavailableError("facility store unavailable", errors.New("server selection timeout")))
	})

	w := serve(router, http.MethodGet, "/facilities", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "server selection timeout")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Contains(t, entry["error"], "server selection timeout")
}
