package config

import (
	"log"
	"os"

	"Disastrous/pkg/logger"
	"Disastrous/pkg/util"
)

// config/config.go
type Config struct {
	DBDriver      string `env:"DB_DRIVER"`
	DSN           string `env:"DSN"`
	Log           logger.LogConfig
	Addr          string `env:"ADDR"`
	Mode          string `env:"MODE"`
	SessionSecret string `env:"SESSION_SECRET"`
	MapsAPIKey    string `env:"MAPS_API_KEY"`
	LLMApiKey     string `env:"LLM_API_KEY"`
	LLMBaseURL    string `env:"LLM_BASE_URL"`
	LLMModel      string `env:"LLM_MODEL"`
	AssistantRate string `env:"ASSISTANT_RATE"` // e.g. "30-M"
	SeedAccounts  bool   `env:"SEED_ACCOUNTS"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

var GlobalConfig *Config

func Load() error {
	// 1. 根据环境加载 .env 文件
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	err := util.LoadEnv(env)
	if err != nil {
		log.Printf("Failed to load .env file: %v", err)
	}

	// 2. 加载全局配置
	GlobalConfig = &Config{
		DBDriver:      util.GetEnv("DB_DRIVER"),
		DSN:           util.GetEnv("DSN"),
		Addr:          util.GetEnvDefault("ADDR", ":5000"),
		Mode:          util.GetEnv("MODE"),
		SessionSecret: util.GetEnvDefault("SESSION_SECRET", "your-secret-key-here"),
		MapsAPIKey:    util.GetEnv("MAPS_API_KEY"),
		Log: logger.LogConfig{
			Level:      util.GetEnv("LOG_LEVEL"),
			Filename:   util.GetEnv("LOG_FILENAME"),
			MaxSize:    int(util.GetIntEnv("LOG_MAX_SIZE")),
			MaxAge:     int(util.GetIntEnv("LOG_MAX_AGE")),
			MaxBackups: int(util.GetIntEnv("LOG_MAX_BACKUPS")),
		},
		LLMApiKey:     util.GetEnv("LLM_API_KEY"),
		LLMBaseURL:    util.GetEnvDefault("LLM_BASE_URL", "https://api.a4f.co/v1"),
		LLMModel:      util.GetEnvDefault("LLM_MODEL", "provider-3/gpt-4o-mini"),
		AssistantRate: util.GetEnvDefault("ASSISTANT_RATE", "30-M"),
		SeedAccounts:  util.GetBoolEnv("SEED_ACCOUNTS"),
		AdminEmail:    util.GetEnvDefault("ADMIN_EMAIL", "admin@disastrous.local"),
		AdminPassword: util.GetEnv("ADMIN_PASSWORD"),
	}
	return nil
}
