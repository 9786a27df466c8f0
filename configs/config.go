package configs

import (
	"os"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Ops      OpsConfig
	Database DatabaseConfig
	Rates    RatesConfig
	Push     PushConfig
	Store    StoreConfig
}

// ServerConfig holds API server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// OpsConfig holds the operational listener configuration (health, metrics)
type OpsConfig struct {
	Port string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// RatesConfig holds currency rate provider configuration
type RatesConfig struct {
	BaseURL        string
	RefreshSpec    string
	RequestTimeout time.Duration
}

// PushConfig holds push notification gateway configuration
type PushConfig struct {
	GatewayURL string
}

// StoreConfig holds timeouts applied to store-touching operations
type StoreConfig struct {
	Timeout time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		Ops: OpsConfig{
			Port: getEnv("OPS_PORT", "9090"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Rates: RatesConfig{
			BaseURL:        getEnv("RATES_API_URL", "http://localhost:8100"),
			RefreshSpec:    getEnv("RATES_REFRESH_SPEC", "@every 15m"),
			RequestTimeout: getDurationEnv("RATES_REQUEST_TIMEOUT", 15*time.Second),
		},
		Push: PushConfig{
			GatewayURL: getEnv("PUSH_GATEWAY_URL", ""),
		},
		Store: StoreConfig{
			Timeout: getDurationEnv("STORE_TIMEOUT", 5*time.Second),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv parses a duration from the environment or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
