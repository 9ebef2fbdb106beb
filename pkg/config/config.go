package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/korjavin/mealclock/pkg/logger"
)

// Config holds all configuration for the application
type Config struct {
	// HTTP configuration
	HTTPAddr  string
	JSONLimit int64
	TLSCert   string
	TLSKey    string

	// Storage configuration; an empty DataDir keeps courses in memory
	DataDir string

	// Telegram Bot configuration, optional
	BotToken string

	// OpenAI configuration, optional
	OpenAIAPIBase string
	OpenAIAPIKey  string
	OpenAIModel   string

	// Application configuration
	SeedFromName bool
	LogLevel     string
}

// LoadFromEnv loads configuration from environment variables, reading a
// .env file first when one exists
func LoadFromEnv() (*Config, error) {
	log := logger.New("config")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("Error loading .env file: %v", err)
	}

	cfg := &Config{
		HTTPAddr:      getEnvWithDefault("HTTP_ADDR", ":1111"),
		TLSCert:       os.Getenv("TLS_CERT"),
		TLSKey:        os.Getenv("TLS_KEY"),
		DataDir:       os.Getenv("DATA_DIR"),
		BotToken:      os.Getenv("BOT_TOKEN"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIAPIBase: getEnvWithDefault("OPENAI_API_BASE", "https://api.openai.com/v1"),
		OpenAIModel:   getEnvWithDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
		LogLevel:      getEnvWithDefault("LOG_LEVEL", "info"),
	}

	limit, err := strconv.ParseInt(getEnvWithDefault("JSON_LIMIT", "2097152"), 10, 64)
	if err != nil || limit <= 0 {
		return nil, fmt.Errorf("JSON_LIMIT must be a positive byte count, got %q", os.Getenv("JSON_LIMIT"))
	}
	cfg.JSONLimit = limit

	seed, err := strconv.ParseBool(getEnvWithDefault("SEED_FROM_NAME", "false"))
	if err != nil {
		return nil, fmt.Errorf("SEED_FROM_NAME must be a boolean: %w", err)
	}
	cfg.SeedFromName = seed

	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return nil, fmt.Errorf("TLS_CERT and TLS_KEY must be set together")
	}

	log.Info("Configuration loaded: %s", cfg.Redacted())
	return cfg, nil
}

// Redacted renders the configuration with secrets shortened
func (c Config) Redacted() string {
	c.BotToken = redact(c.BotToken)
	c.OpenAIAPIKey = redact(c.OpenAIAPIKey)
	return fmt.Sprintf("%+v", c)
}

func redact(secret string) string {
	if len(secret) > 8 {
		return secret[:8] + "...REDACTED..."
	}
	if secret != "" {
		return strings.Repeat("*", len(secret))
	}
	return ""
}

// getEnvWithDefault returns the value of the environment variable or the default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
