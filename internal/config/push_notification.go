package config

type PushConfig struct {
	Enabled bool       `yaml:"enabled"`
	FCM     *FCMConfig `yaml:"fcm"`
}

type FCMConfig struct {
	ProjectID      string `yaml:"project_id"`
	Credentials    string `yaml:"credentials_file"`
	CounselorTopic string `yaml:"counselor_topic"`
}

func loadPushConfig() *PushConfig {
	return &PushConfig{
		Enabled: getEnvAsBool("PUSH_ENABLED", false),
		FCM: &FCMConfig{
			ProjectID:      getEnv("FCM_PROJECT_ID", ""),
			Credentials:    getEnv("FCM_CREDENTIALS_FILE", ""),
			CounselorTopic: getEnv("FCM_COUNSELOR_TOPIC", "counselors-on-call"),
		},
	}
}
