package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service configuration
type Config struct {
	Service   ServiceConfig
	Bucket    BucketConfig
	Content   ContentConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Debug     DebugConfig
	Telemetry TelemetryConfig
}

// ServiceConfig holds service-specific settings
type ServiceConfig struct {
	Name        string
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
}

// BucketConfig selects and configures the blob bucket backend
type BucketConfig struct {
	// Backend is one of "http", "postgres", "redis", "memory"
	Backend        string
	BaseURL        string
	Token          string
	RequestTimeout time.Duration
}

// ContentConfig holds document-store settings
type ContentConfig struct {
	// Prefixes is the closed set of bucket prefixes documents may live under
	Prefixes    []string
	SiteBaseURL string
	RingLogSize int
}

// DatabaseConfig holds Postgres connection settings (postgres backend only)
type DatabaseConfig struct {
	Host        string
	Port        int
	Database    string
	User        string
	Password    string
	MaxConns    int
	MinConns    int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings (redis backend only)
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// DebugConfig holds settings for the protected debug routes
type DebugConfig struct {
	Token string
}

// TelemetryConfig holds observability settings
type TelemetryConfig struct {
	EnablePprof bool
	PprofPort   int
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	cfg := &Config{
		Service: ServiceConfig{
			Name:        serviceName,
			Port:        getEnvInt("PORT", 8080),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"),
		},
		Bucket: BucketConfig{
			Backend:        getEnv("BUCKET_BACKEND", "http"),
			BaseURL:        getEnv("BUCKET_BASE_URL", ""),
			Token:          getEnv("BUCKET_TOKEN", ""),
			RequestTimeout: getEnvDuration("BUCKET_TIMEOUT", 30*time.Second),
		},
		Content: ContentConfig{
			Prefixes:    getEnvSlice("CONTENT_PREFIXES", []string{"blog/", "interviews/"}),
			SiteBaseURL: getEnv("SITE_BASE_URL", "https://juice.fitness"),
			RingLogSize: getEnvInt("RING_LOG_SIZE", 500),
		},
		Database: DatabaseConfig{
			Host:        getEnv("POSTGRES_HOST", "localhost"),
			Port:        getEnvInt("POSTGRES_PORT", 5432),
			Database:    getEnv("POSTGRES_DB", "juice_content"),
			User:        getEnv("POSTGRES_USER", "juice"),
			Password:    getEnv("POSTGRES_PASSWORD", "juice"),
			MaxConns:    getEnvInt("POSTGRES_MAX_CONNS", 20),
			MinConns:    getEnvInt("POSTGRES_MIN_CONNS", 2),
			MaxIdleTime: getEnvDuration("POSTGRES_MAX_IDLE_TIME", 30*time.Minute),
			MaxLifetime: getEnvDuration("POSTGRES_MAX_LIFETIME", 1*time.Hour),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Debug: DebugConfig{
			Token: getEnv("DEBUG_TOKEN", ""),
		},
		Telemetry: TelemetryConfig{
			EnablePprof: getEnvBool("ENABLE_PPROF", false),
			PprofPort:   getEnvInt("PPROF_PORT", 6060),
		},
	}

	return cfg, cfg.Validate()
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}

	switch c.Bucket.Backend {
	case "http":
		if c.Bucket.BaseURL == "" {
			return fmt.Errorf("BUCKET_BASE_URL is required for the http backend")
		}
	case "postgres", "redis", "memory":
	default:
		return fmt.Errorf("unknown bucket backend: %s", c.Bucket.Backend)
	}

	if len(c.Content.Prefixes) == 0 {
		return fmt.Errorf("at least one content prefix is required")
	}
	for _, p := range c.Content.Prefixes {
		if !strings.HasSuffix(p, "/") {
			return fmt.Errorf("content prefix %q must end with '/'", p)
		}
	}

	if c.Content.RingLogSize < 1 {
		return fmt.Errorf("ring log size must be positive")
	}

	return nil
}

// DefaultPrefix returns the first configured content prefix
func (c *Config) DefaultPrefix() string {
	return c.Content.Prefixes[0]
}

// AllowedPrefix reports whether prefix is one of the configured content
// prefixes
func (c *Config) AllowedPrefix(prefix string) bool {
	for _, p := range c.Content.Prefixes {
		if p == prefix {
			return true
		}
	}
	return false
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
	)
}

// RedisAddr returns the host:port address for the Redis backend
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
