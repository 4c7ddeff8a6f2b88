package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/studyhall/studyhall/pkg/storage"
)

// minSecretLength is the shortest JWT signing secret accepted, in bytes
const minSecretLength = 32

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage configuration
	Storage storage.Config

	// Auth configuration
	Auth AuthConfig

	// Observability configuration
	Observability ObservabilityConfig

	// UploadDir is where plan cover images are stored
	UploadDir string

	// CORSOrigins is the list of allowed browser origins. The single entry
	// "*" allows any origin.
	CORSOrigins []string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// AuthConfig holds token issuing configuration
type AuthConfig struct {
	// JWTSecret signs and verifies bearer tokens. Required, minimum 32 bytes.
	JWTSecret string

	// TokenTTL is how long an issued token stays valid
	TokenTTL time.Duration
}

// ObservabilityConfig holds logging and metrics settings
type ObservabilityConfig struct {
	LogLevel       string
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Storage:       loadStorageConfig(),
		Auth:          loadAuthConfig(),
		Observability: loadObservabilityConfig(),
		UploadDir:     getEnv("STUDYHALL_UPLOAD_DIR", "uploads"),
		CORSOrigins:   splitAndTrim(getEnv("STUDYHALL_CORS_ORIGINS", "http://localhost:5173")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("STUDYHALL_HOST", "0.0.0.0"),
		Port:            getEnv("STUDYHALL_PORT", "8080"),
		ReadTimeout:     getEnvDuration("STUDYHALL_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("STUDYHALL_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("STUDYHALL_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("STUDYHALL_SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func loadStorageConfig() storage.Config {
	cfg := storage.DefaultConfig()

	if driver := getEnv("STUDYHALL_DB_DRIVER", ""); driver != "" {
		cfg.Driver = driver
	}
	if dsn := getEnv("STUDYHALL_DB_DSN", ""); dsn != "" {
		cfg.DSN = dsn
	}
	if maxOpen := getEnvInt("STUDYHALL_DB_MAX_OPEN_CONNS", 0); maxOpen > 0 {
		cfg.MaxOpenConns = maxOpen
	}
	if maxIdle := getEnvInt("STUDYHALL_DB_MAX_IDLE_CONNS", 0); maxIdle > 0 {
		cfg.MaxIdleConns = maxIdle
	}
	if lifetime := getEnvDuration("STUDYHALL_DB_CONN_MAX_LIFETIME", 0); lifetime > 0 {
		cfg.ConnMaxLifetime = lifetime
	}

	return cfg
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret: getEnv("STUDYHALL_JWT_SECRET", ""),
		TokenTTL:  getEnvDuration("STUDYHALL_TOKEN_TTL", 24*time.Hour),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       getEnv("STUDYHALL_LOG_LEVEL", "info"),
		MetricsEnabled: getEnvBool("STUDYHALL_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch c.Storage.Driver {
	case storage.DriverSQLite, storage.DriverPostgres:
	default:
		return fmt.Errorf("invalid database driver: %s (must be %s or %s)",
			c.Storage.Driver, storage.DriverSQLite, storage.DriverPostgres)
	}
	if c.Storage.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("STUDYHALL_JWT_SECRET is required")
	}
	if len(c.Auth.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT secret must be at least %d bytes", minSecretLength)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}

	if c.UploadDir == "" {
		return fmt.Errorf("upload directory is required")
	}
	if len(c.CORSOrigins) == 0 {
		return fmt.Errorf("at least one CORS origin is required")
	}

	return nil
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
