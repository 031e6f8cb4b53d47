package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	App     AppConfig
	API     APIConfig
	Auth    AuthConfig
	MockAPI MockAPIConfig
	Redis   RedisConfig
	OTEL    OTELConfig
}

// AppConfig holds process-wide settings
type AppConfig struct {
	Env         string
	ServiceName string
}

// APIConfig holds the remote restaurant API client configuration
type APIConfig struct {
	BaseURL            string
	Timeout            time.Duration
	Debounce           time.Duration
	CachedLimit        int
	FetchImages        bool
	SearchRequiresAuth bool
}

// AuthConfig holds where the client picks up its bearer token
type AuthConfig struct {
	Token     string
	TokenFile string
}

// MockAPIConfig holds the fixture API server configuration
type MockAPIConfig struct {
	Host           string
	Port           int
	JWTSecret      string
	VerifyDelay    time.Duration
	AllowedOrigins []string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables
// take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	return &Config{
		App: AppConfig{
			Env:         getEnv("APP_ENV", "development"),
			ServiceName: getEnv("APP_SERVICE_NAME", "hungry-monkey-finder"),
		},
		API: APIConfig{
			BaseURL:            strings.TrimRight(getEnv("FINDER_API_URL", "http://localhost:8000"), "/"),
			Timeout:            getEnvAsDuration("FINDER_API_TIMEOUT", 10*time.Second),
			Debounce:           getEnvAsDuration("FINDER_DEBOUNCE", 300*time.Millisecond),
			CachedLimit:        getEnvAsInt("FINDER_CACHED_LIMIT", 0),
			FetchImages:        getEnvAsBool("FINDER_FETCH_IMAGES", true),
			SearchRequiresAuth: getEnvAsBool("FINDER_SEARCH_REQUIRES_AUTH", false),
		},
		Auth: AuthConfig{
			Token:     getEnv("FINDER_AUTH_TOKEN", ""),
			TokenFile: getEnv("FINDER_AUTH_TOKEN_FILE", ""),
		},
		MockAPI: MockAPIConfig{
			Host:           getEnv("MOCKAPI_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("MOCKAPI_PORT", 8000),
			JWTSecret:      getEnv("MOCKAPI_JWT_SECRET", ""),
			VerifyDelay:    getEnvAsDuration("MOCKAPI_VERIFY_DELAY", 2*time.Second),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "hungry-monkey-finder"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// Addr returns the listen address of the fixture API
func (c *MockAPIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Enabled reports whether a Redis host was configured
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
