package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"afyalink/internal/config"
	"afyalink/internal/handlers/shared"
	"afyalink/internal/middleware"
	"afyalink/internal/services"
	"afyalink/pkg/logger"
	"afyalink/routes"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:   logger.LogLevel(cfg.App.LogLevel),
		Format:  cfg.App.LogFormat,
		Output:  "stdout",
		Caller:  cfg.App.Debug,
		AppName: cfg.App.Name,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := newDependencies(ctx, cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize dependencies")
	}
	defer deps.Close()

	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		appLogger.WithError(err).WithField("timezone", cfg.App.Timezone).Warn("Unknown timezone, using UTC")
		location = time.UTC
	}

	// Initialize services
	notificationService := services.NewNotificationService(deps.push, cfg.Push.FCM.CounselorTopic, appLogger)
	facilityService := services.NewFacilityService(deps.facilityRepo, deps.cache, deps.geocoder, cfg.Facility, appLogger)
	chatService := services.NewChatService(deps.chatRepo, notificationService, cfg.Chat, appLogger)
	chatbotService := services.NewChatbotService(chatService, deps.chatRepo, cfg.Chat.BotTurnLimit, appLogger)
	assessmentService := services.NewAssessmentService(appLogger)
	emergencyService := services.NewEmergencyService(deps.emergencyRepo, deps.sms, cfg.SMS, location, appLogger)

	// Initialize handlers
	facilityHandler := shared.NewFacilityHandler(facilityService)
	chatHandler := shared.NewChatHandler(chatService, chatbotService)
	assessmentHandler := shared.NewAssessmentHandler(assessmentService)
	emergencyHandler := shared.NewEmergencyHandler(emergencyService)
	healthHandler := shared.NewHealthHandler(cfg.App.Version, deps.healthChecks)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		appLogger.WithError(err).Fatal("Invalid trusted proxies")
	}

	// Global middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLogger))
	router.Use(middleware.RecoveryMiddleware(appLogger))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))

	// API routes
	api := router.Group("/api")
	{
		api.GET("/health", healthHandler.Health)

		routes.SetupFacilityRoutes(api, facilityHandler, cfg.Security.JWTSecret)
		routes.SetupMentalHealthRoutes(api, chatHandler, assessmentHandler, cfg.Security.JWTSecret)
		routes.SetupChatbotRoutes(api, chatHandler)
		routes.SetupEmergencyRoutes(api, emergencyHandler)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.WithField("addr", server.Addr).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		appLogger.WithError(err).Error("Server stopped")
	case <-ctx.Done():
		appLogger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Graceful shutdown failed")
	}

	// Let queued SMS and pager dispatches finish before closing the stores.
	emergencyService.Wait()
	notificationService.Wait()
	appLogger.Info("Server exited")
}
