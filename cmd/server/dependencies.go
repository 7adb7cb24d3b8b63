package main

import (
	"context"
	"fmt"
	"net/http"

	gmaps "googlemaps.github.io/maps"

	"afyalink/internal/config"
	"afyalink/internal/handlers/shared"
	"afyalink/internal/repositories/interfaces"
	"afyalink/internal/repositories/memory"
	"afyalink/internal/repositories/mongodb"
	"afyalink/internal/utils"
	"afyalink/pkg/cache"
	"afyalink/pkg/database"
	"afyalink/pkg/logger"
	"afyalink/pkg/maps"
	"afyalink/pkg/push"
	"afyalink/pkg/sms"
)

type dependencies struct {
	facilityRepo  interfaces.FacilityRepository
	chatRepo      interfaces.ChatRepository
	emergencyRepo interfaces.EmergencyRepository

	cache    cache.Cache
	sms      sms.SMSProvider
	push     push.PushProvider
	geocoder maps.Geocoder

	healthChecks map[string]shared.Pinger
	closers      []func() error
	logger       *logger.Logger
}

func newDependencies(ctx context.Context, cfg *config.Config, log *logger.Logger) (*dependencies, error) {
	deps := &dependencies{
		healthChecks: map[string]shared.Pinger{},
		logger:       log,
	}

	if err := deps.initRepositories(ctx, cfg.Database); err != nil {
		deps.Close()
		return nil, err
	}
	if err := deps.initCache(ctx, cfg.Redis); err != nil {
		deps.Close()
		return nil, err
	}
	if err := deps.initProviders(ctx, cfg); err != nil {
		deps.Close()
		return nil, err
	}

	return deps, nil
}

func (d *dependencies) initRepositories(ctx context.Context, cfg *config.DatabaseConfig) error {
	if cfg.Driver == config.DriverMemory {
		d.logger.Warn("Using in-memory storage; data is lost on restart")
		d.facilityRepo = memory.NewFacilityRepository()
		d.chatRepo = memory.NewChatRepository()
		d.emergencyRepo = memory.NewEmergencyRepository()
		return nil
	}

	db, err := database.NewMongoDB(ctx, &database.DatabaseConfig{
		URI:            cfg.URI,
		Database:       cfg.Database,
		MaxPoolSize:    cfg.MaxPoolSize,
		MinPoolSize:    cfg.MinPoolSize,
		ConnectTimeout: cfg.ConnectTimeout,
		SocketTimeout:  cfg.SocketTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	d.closers = append(d.closers, db.Close)
	d.healthChecks["mongodb"] = db

	if cfg.RunMigrations {
		if err := database.NewMigrator(db.Database, d.logger).Up(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	d.facilityRepo = mongodb.NewFacilityRepository(db)
	d.chatRepo = mongodb.NewChatRepository(db)
	d.emergencyRepo = mongodb.NewEmergencyRepository(db)
	return nil
}

func (d *dependencies) initCache(ctx context.Context, cfg *config.RedisConfig) error {
	if !cfg.Enabled {
		local := cache.NewLocalCache(utils.FacilitySearchCacheTTL, 2*utils.FacilitySearchCacheTTL)
		d.cache = local
		d.closers = append(d.closers, local.Close)
		return nil
	}

	redisCache, err := cache.NewRedisCache(ctx, &cache.RedisConfig{
		Host:         cfg.Host,
		Port:         cfg.Port,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	d.cache = redisCache
	d.closers = append(d.closers, redisCache.Close)
	d.healthChecks["redis"] = redisCache
	return nil
}

func (d *dependencies) initProviders(ctx context.Context, cfg *config.Config) error {
	switch cfg.SMS.ResolvedProvider() {
	case config.SMSProviderTwilio:
		d.sms = sms.NewTwilioProvider(cfg.SMS.Twilio.AccountSID, cfg.SMS.Twilio.AuthToken, cfg.SMS.Twilio.FromNumber)
	case config.SMSProviderAWSSNS:
		provider, err := sms.NewAWSSNSProvider(ctx, cfg.SMS.AWS.Region, cfg.SMS.DefaultFrom)
		if err != nil {
			return fmt.Errorf("failed to initialize AWS SNS: %w", err)
		}
		d.sms = provider
	default:
		d.logger.Warn("No SMS credentials configured; emergency messages are only logged")
		d.sms = sms.NewLogProvider(d.logger)
	}

	if cfg.Push.Enabled {
		provider, err := push.NewFCMProvider(ctx, cfg.Push.FCM.ProjectID, cfg.Push.FCM.Credentials)
		if err != nil {
			return fmt.Errorf("failed to initialize FCM: %w", err)
		}
		d.push = provider
	} else {
		d.push = push.NewLogProvider(d.logger)
	}

	if cfg.Maps.GeocodingEnabled() {
		geocoder, err := maps.NewGoogleMapsProvider(
			cfg.Maps.GoogleMaps.APIKey,
			cfg.Maps.GoogleMaps.Region,
			gmaps.WithHTTPClient(&http.Client{Timeout: cfg.Maps.GoogleMaps.RequestTimeout}),
		)
		if err != nil {
			return err
		}
		d.geocoder = geocoder
	}

	return nil
}

// Close releases connections in reverse order of creation.
func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.logger.WithError(err).Warn("Failed to close dependency")
		}
	}
	d.closers = nil
}
