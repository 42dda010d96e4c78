package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	CORS      CORSConfig
	Telegram  TelegramConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name      string
	Version   string
	Debug     bool
	Port      string
	Host      string
	StaticDir string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	SecretKey          string
	TokenExpiryMinutes int
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// TelegramConfig holds the lead-notification bot configuration.
// Credentials are only ever read from the environment; an empty or
// placeholder value disables notifications without failing startup.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	// APIBaseURL is overridable so tests can point at a fake API.
	APIBaseURL string
}

// RateLimitConfig holds per-IP rate limit configuration
type RateLimitConfig struct {
	APIPerWindow    int // requests per 15 minutes across /api/v1
	SubmitPerWindow int // lead submissions per hour
}

const credentialPlaceholderPrefix = "YOUR_"

var globalConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:      getEnv("APP_NAME", "Solara API"),
			Version:   getEnv("APP_VERSION", "1.0.0"),
			Debug:     getEnvAsBool("DEBUG", false),
			Port:      getEnv("PORT", "3000"),
			Host:      getEnv("HOST", "0.0.0.0"),
			StaticDir: getEnv("STATIC_DIR", "./public"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", "sqlite:///./data/solara.db"),
		},
		Auth: AuthConfig{
			SecretKey:          getEnv("SECRET_KEY", ""),
			TokenExpiryMinutes: getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: []string{"GET", "POST", "OPTIONS", "HEAD"},
			AllowedHeaders: []string{"*"},
			MaxAge:         86400,
		},
		Telegram: TelegramConfig{
			BotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:     getEnv("TELEGRAM_CHAT_ID", ""),
			APIBaseURL: getEnv("TELEGRAM_API_BASE_URL", "https://api.telegram.org"),
		},
		RateLimit: RateLimitConfig{
			APIPerWindow:    getEnvAsInt("RATE_LIMIT_API", 100),
			SubmitPerWindow: getEnvAsInt("RATE_LIMIT_SUBMIT", 5),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	globalConfig = config
	return config, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.App.Port == "" {
		return fmt.Errorf("PORT must be set")
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.Auth.TokenExpiryMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be greater than 0")
	}
	return nil
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		config, _ := Load()
		return config
	}
	return globalConfig
}

// IsConfigured reports whether both notification credentials are present
// and are not copy-paste placeholders from setup instructions.
func (c *TelegramConfig) IsConfigured() bool {
	if c.BotToken == "" || c.ChatID == "" {
		return false
	}
	if strings.HasPrefix(c.BotToken, credentialPlaceholderPrefix) {
		return false
	}
	if strings.HasPrefix(c.ChatID, credentialPlaceholderPrefix) {
		return false
	}
	return true
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}

// IsPostgres checks if the database URL is for PostgreSQL
func (c *DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(c.URL, "postgresql://") || strings.HasPrefix(c.URL, "postgres://")
}

// GetSQLitePath extracts the SQLite database path from the URL
func (c *DatabaseConfig) GetSQLitePath() string {
	if strings.HasPrefix(c.URL, "sqlite:///") {
		return strings.TrimPrefix(c.URL, "sqlite:///")
	}
	return c.URL
}
