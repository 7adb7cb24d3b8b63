package config

import (
	"time"
)

const (
	SMSProviderTwilio = "twilio"
	SMSProviderAWSSNS = "aws_sns"
	SMSProviderLog    = "log"
)

type SMSConfig struct {
	Provider        string            `yaml:"provider"`
	Twilio          *TwilioConfig     `yaml:"twilio"`
	AWS             *AWSSNSConfig     `yaml:"aws"`
	DefaultFrom     string            `yaml:"default_from"`
	DispatchTimeout time.Duration     `yaml:"dispatch_timeout"`
	AmbulancePhone  string            `yaml:"ambulance_phone"`
	Settings        map[string]string `yaml:"settings"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type AWSSNSConfig struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// ResolvedProvider returns the configured provider, falling back to the log
// provider when its credentials are missing.
func (c *SMSConfig) ResolvedProvider() string {
	switch c.Provider {
	case SMSProviderTwilio:
		if c.Twilio.AccountSID != "" && c.Twilio.AuthToken != "" {
			return SMSProviderTwilio
		}
	case SMSProviderAWSSNS:
		if c.AWS.Region != "" {
			return SMSProviderAWSSNS
		}
	}
	return SMSProviderLog
}

func loadSMSConfig() *SMSConfig {
	return &SMSConfig{
		Provider: getEnv("SMS_PROVIDER", SMSProviderTwilio),
		Twilio: &TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		},
		AWS: &AWSSNSConfig{
			Region:          getEnv("AWS_REGION", "eu-west-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		DefaultFrom:     getEnv("SMS_DEFAULT_FROM", "AfyaLink"),
		DispatchTimeout: getEnvAsDuration("SMS_DISPATCH_TIMEOUT", 30*time.Second),
		AmbulancePhone:  getEnv("AMBULANCE_PHONE", "+254700000001"),
		Settings:        make(map[string]string),
	}
}
