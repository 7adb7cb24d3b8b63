package config

import "time"

type ChatConfig struct {
	PollInterval     time.Duration `yaml:"poll_interval"`
	BotTurnLimit     int           `yaml:"bot_turn_limit"`
	MaxMessageLength int           `yaml:"max_message_length"`
}

type FacilityConfig struct {
	SearchCacheTTL  time.Duration `yaml:"search_cache_ttl"`
	DefaultRadiusKm float64       `yaml:"default_radius_km"`
}

func loadChatConfig() *ChatConfig {
	return &ChatConfig{
		PollInterval:     getEnvAsDuration("CHAT_POLL_INTERVAL", 4*time.Second),
		BotTurnLimit:     getEnvAsInt("CHAT_BOT_TURN_LIMIT", 5),
		MaxMessageLength: getEnvAsInt("CHAT_MAX_MESSAGE_LENGTH", 1000),
	}
}

func loadFacilityConfig() *FacilityConfig {
	return &FacilityConfig{
		SearchCacheTTL:  getEnvAsDuration("FACILITY_SEARCH_CACHE_TTL", 2*time.Minute),
		DefaultRadiusKm: getEnvAsFloat64("FACILITY_DEFAULT_RADIUS_KM", 10),
	}
}
