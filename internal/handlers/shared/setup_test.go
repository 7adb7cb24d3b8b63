package shared_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"afyalink/internal/config"
	"afyalink/internal/handlers/shared"
	"afyalink/internal/middleware"
	"afyalink/internal/repositories/memory"
	"afyalink/internal/services"
	"afyalink/internal/utils"
	"afyalink/pkg/cache"
	"afyalink/pkg/logger"
	"afyalink/pkg/push"
	"afyalink/pkg/sms"
	"afyalink/routes"
)

const testSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type mockSMSProvider struct {
	mock.Mock
}

func (m *mockSMSProvider) SendSMS(ctx context.Context, request *sms.SMSRequest) (*sms.SMSResponse, error) {
	args := m.Called(ctx, request)
	if response := args.Get(0); response != nil {
		return response.(*sms.SMSResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSMSProvider) Name() string {
	return "mock"
}

type testServer struct {
	router    *gin.Engine
	sms       *mockSMSProvider
	emergency services.EmergencyService
	notifier  services.NotificationService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.NewNop()

	smsProvider := new(mockSMSProvider)
	smsProvider.On("SendSMS", mock.Anything, mock.Anything).Return(&sms.SMSResponse{MessageID: "SM-test", Status: "queued"}, nil).Maybe()

	chatRepo := memory.NewChatRepository()
	localCache := cache.NewLocalCache(time.Minute, time.Minute)
	t.Cleanup(func() { _ = localCache.Close() })

	notifier := services.NewNotificationService(push.NewLogProvider(log), "", log)
	chatService := services.NewChatService(chatRepo, notifier, &config.ChatConfig{
		PollInterval:     4 * time.Second,
		BotTurnLimit:     2,
		MaxMessageLength: utils.MaxMessageLength,
	}, log)
	emergency := services.NewEmergencyService(memory.NewEmergencyRepository(), smsProvider, &config.SMSConfig{
		DispatchTimeout: time.Second,
		AmbulancePhone:  "+254711111111",
	}, time.UTC, log)
	facilityService := services.NewFacilityService(memory.NewFacilityRepository(), localCache, nil, &config.FacilityConfig{
		DefaultRadiusKm: utils.DefaultSearchRadius,
		SearchCacheTTL:  time.Minute,
	}, log)

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware(), middleware.RecoveryMiddleware(log))
	api := router.Group("/api")
	api.GET("/health", shared.NewHealthHandler("test", map[string]shared.Pinger{"cache": localCache}).Health)

	chatHandler := shared.NewChatHandler(chatService, services.NewChatbotService(chatService, chatRepo, 2, log))
	routes.SetupFacilityRoutes(api, shared.NewFacilityHandler(facilityService), testSecret)
	routes.SetupMentalHealthRoutes(api, chatHandler, shared.NewAssessmentHandler(services.NewAssessmentService(log)), testSecret)
	routes.SetupChatbotRoutes(api, chatHandler)
	routes.SetupEmergencyRoutes(api, shared.NewEmergencyHandler(emergency))

	server := &testServer{router: router, sms: smsProvider, emergency: emergency, notifier: notifier}
	t.Cleanup(func() {
		emergency.Wait()
		notifier.Wait()
	})
	return server
}

func tokenFor(t *testing.T, userType string) string {
	t.Helper()
	token, err := utils.GenerateToken(primitive.NewObjectID(), userType, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

// do sends body (marshalled when not nil) and returns the recorder.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

type errorBody struct {
	Status string `json:"status"`
	Error  struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	decode(t, w, &body)
	return body
}
