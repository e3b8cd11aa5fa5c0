// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`
	RedisURL   string `mapstructure:"REDIS_URL"`

	TwitterConsumerKey    string `mapstructure:"TWITTER_CONSUMER_KEY"`
	TwitterConsumerSecret string `mapstructure:"TWITTER_CONSUMER_SECRET"`
	TwitterCallbackURL    string `mapstructure:"TWITTER_CALLBACK_URL"`

	GenAIKey   string `mapstructure:"GENAI_API_KEY"`
	GenAIModel string `mapstructure:"GENAI_MODEL"`

	PostCron               string `mapstructure:"POST_CRON"`
	RunnerWorkers          int    `mapstructure:"RUNNER_WORKERS"`
	TempCredTTLMinutes     int    `mapstructure:"TEMP_CRED_TTL_MINUTES"`
	ExternalTimeoutSeconds int    `mapstructure:"EXTERNAL_TIMEOUT_SECONDS"`

	TracingEnabled  bool   `mapstructure:"TRACING_ENABLED"`
	TracingExporter string `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string `mapstructure:"OTLP_ENDPOINT"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; env vars and defaults are enough to run.
	_ = viper.ReadInConfig()

	viper.SetDefault("PORT", "8390")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "pulsepost")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("TWITTER_CALLBACK_URL", "http://localhost:5173/twitter-callback")
	viper.SetDefault("GENAI_MODEL", "gemini-2.0-flash")
	viper.SetDefault("POST_CRON", "0 * * * *")
	viper.SetDefault("RUNNER_WORKERS", 4)
	viper.SetDefault("TEMP_CRED_TTL_MINUTES", 15)
	viper.SetDefault("EXTERNAL_TIMEOUT_SECONDS", 30)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.DBSSLMode = strings.ToLower(strings.TrimSpace(config.DBSSLMode))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.PostCron == "" {
		return errors.New("POST_CRON is required")
	}
	if _, err := cron.ParseStandard(c.PostCron); err != nil {
		return fmt.Errorf("POST_CRON is not a valid cron expression: %w", err)
	}
	if c.RunnerWorkers < 1 {
		return errors.New("RUNNER_WORKERS must be at least 1")
	}
	if c.TempCredTTLMinutes < 1 {
		return errors.New("TEMP_CRED_TTL_MINUTES must be at least 1")
	}
	if c.ExternalTimeoutSeconds < 1 {
		return errors.New("EXTERNAL_TIMEOUT_SECONDS must be at least 1")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	// Strict checks for production
	if isProduction {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			return errors.New("DB_SSLMODE must be enabled in production")
		}
		if c.TwitterConsumerKey == "" || c.TwitterConsumerSecret == "" {
			log.Println("WARNING: Twitter consumer credentials are not set; account linking and publishing will fail until they are.")
		}
		if c.GenAIKey == "" {
			log.Println("WARNING: GENAI_API_KEY is not set; content generation will fail until it is.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
