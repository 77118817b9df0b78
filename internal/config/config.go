package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Directions DirectionsConfig
	Engine     EngineConfig
	NewRelic   NewRelicConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DirectionsConfig holds the directions provider configuration.
type DirectionsConfig struct {
	BaseURL string
	APIKey  string
	Mode    string
	Timeout time.Duration
}

// EngineConfig holds route engine tuning knobs.
type EngineConfig struct {
	FetchWindow          time.Duration
	ETADebounce          time.Duration
	LocationPollInterval time.Duration
	SimplifyMaxPoints    int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "triproute"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Directions: DirectionsConfig{
			BaseURL: getEnv("DIRECTIONS_BASE_URL", "http://localhost:5000"),
			APIKey:  getEnv("DIRECTIONS_API_KEY", ""),
			Mode:    getEnv("DIRECTIONS_MODE", "driving"),
			Timeout: getDurationEnv("DIRECTIONS_TIMEOUT", 10*time.Second),
		},
		Engine: EngineConfig{
			FetchWindow:          getDurationEnv("ROUTE_FETCH_WINDOW", 30*time.Second),
			ETADebounce:          getDurationEnv("ETA_DEBOUNCE", 5*time.Second),
			LocationPollInterval: getDurationEnv("LOCATION_POLL_INTERVAL", 10*time.Second),
			SimplifyMaxPoints:    getIntEnv("ROUTE_SIMPLIFY_MAX_POINTS", 300),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "trip-route-engine"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
