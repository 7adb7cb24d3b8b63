package config

import "time"

type MapsConfig struct {
	GoogleMaps *GoogleMapsConfig `yaml:"google_maps"`
}

type GoogleMapsConfig struct {
	APIKey         string        `yaml:"api_key"`
	Region         string        `yaml:"region"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

func (c *MapsConfig) GeocodingEnabled() bool {
	return c.GoogleMaps != nil && c.GoogleMaps.APIKey != ""
}

func loadMapsConfig() *MapsConfig {
	return &MapsConfig{
		GoogleMaps: &GoogleMapsConfig{
			APIKey:         getEnv("GOOGLE_MAPS_API_KEY", ""),
			Region:         getEnv("GOOGLE_MAPS_REGION", "ke"),
			RequestTimeout: getEnvAsDuration("GOOGLE_MAPS_TIMEOUT", 5*time.Second),
		},
	}
}
