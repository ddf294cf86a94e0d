package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode    string
	Port       string
	Database   DatabaseConfig
	JWT        JWTConfig
	RedisAddr  string // optional, empty disables the dashboard cache
	WebhookURL string // optional, empty disables webhook notifications
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL      string // full DSN, takes precedence when set
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables.
// Signing secrets are required: startup fails when they are absent so a
// misconfigured deployment never falls back to a known default key.
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	jwtCfg, err := loadJWTConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:    appMode,
		Port:       getEnv("PORT", "3000"),
		Database:   loadDatabaseConfig(),
		JWT:        jwtCfg,
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		WebhookURL: os.Getenv("WEBHOOK_URL"),
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config; DATABASE_URL wins over discrete vars
func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:      os.Getenv("DATABASE_URL"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		User:     getEnv("DB_USER", "root"),
		Password: getEnv("DB_PASS", ""),
		DBName:   getEnv("DB_NAME", "saccohub"),
	}
}

// loadJWTConfig loads JWT config; both secrets are mandatory
func loadJWTConfig() (JWTConfig, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return JWTConfig{}, fmt.Errorf("JWT_SECRET is required")
	}

	refreshSecret := strings.TrimSpace(os.Getenv("JWT_REFRESH_SECRET"))
	if refreshSecret == "" {
		return JWTConfig{}, fmt.Errorf("JWT_REFRESH_SECRET is required")
	}

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "15"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:           secret,
		RefreshSecret:    refreshSecret,
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://portal.saccohub.example"
	}
	return origins
}

// RequiredEnvPresence reports which required environment variables are set.
// Values are never included; only presence. Used by the health endpoint.
func RequiredEnvPresence() map[string]bool {
	return map[string]bool{
		"DATABASE_URL":       os.Getenv("DATABASE_URL") != "",
		"JWT_SECRET":         os.Getenv("JWT_SECRET") != "",
		"JWT_REFRESH_SECRET": os.Getenv("JWT_REFRESH_SECRET") != "",
	}
}
