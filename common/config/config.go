package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration
type Config struct {
	Service   ServiceConfig
	Providers ProvidersConfig
	Fetch     FetchConfig
	Bundler   BundlerConfig
	Redis     RedisConfig
	Database  DatabaseConfig
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

// ProvidersConfig holds credentials for the upstream image sources
type ProvidersConfig struct {
	PexelsAPIKey      string
	PixabayAPIKey     string
	UnsplashAccessKey string
}

// FetchConfig bounds every outbound HTTP call made by the pipeline
type FetchConfig struct {
	Timeout     time.Duration
	InsecureTLS bool
}

// BundlerConfig holds archive-creation policy knobs
type BundlerConfig struct {
	OutputDir     string
	PerBatchLimit int
	ThrottleEvery int
	ThrottlePause time.Duration
}

// RedisConfig holds search-cache backend settings
type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	Enabled   bool
	SearchTTL time.Duration
}

// DatabaseConfig holds Postgres connection settings
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

// TelemetryConfig holds observability settings
type TelemetryConfig struct {
	EnablePprof bool
	PprofPort   int
}

// Load loads configuration from environment variables.
// A .env file in the working directory is applied first, if present.
func Load(serviceName string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Service: ServiceConfig{
			Name:        serviceName,
			Port:        getEnvInt("PORT", 8080),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"),
		},
		Providers: ProvidersConfig{
			PexelsAPIKey:      getEnv("PEXELS_API_KEY", ""),
			PixabayAPIKey:     getEnv("PIXABAY_API_KEY", ""),
			UnsplashAccessKey: getEnv("UNSPLASH_ACCESS_KEY", ""),
		},
		Fetch: FetchConfig{
			Timeout:     getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
			InsecureTLS: getEnvBool("FETCH_INSECURE_TLS", false),
		},
		Bundler: BundlerConfig{
			OutputDir:     getEnv("BUNDLER_OUTPUT_DIR", "downloads"),
			PerBatchLimit: getEnvInt("BUNDLER_BATCH_LIMIT", 30),
			ThrottleEvery: getEnvInt("BUNDLER_THROTTLE_EVERY", 10),
			ThrottlePause: getEnvDuration("BUNDLER_THROTTLE_PAUSE", 100*time.Millisecond),
		},
		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnvInt("REDIS_PORT", 6379),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvInt("REDIS_DB", 0),
			Enabled:   getEnvBool("REDIS_ENABLED", false),
			SearchTTL: getEnvDuration("SEARCH_CACHE_TTL", 5*time.Minute),
		},
		Database: DatabaseConfig{
			Host:        getEnv("POSTGRES_HOST", "localhost"),
			Port:        getEnvInt("POSTGRES_PORT", 5432),
			Database:    getEnv("POSTGRES_DB", "bundler"),
			User:        getEnv("POSTGRES_USER", "bundler"),
			Password:    getEnv("POSTGRES_PASSWORD", "bundler"),
			MaxConns:    getEnvInt("POSTGRES_MAX_CONNS", 20),
			MinConns:    getEnvInt("POSTGRES_MIN_CONNS", 2),
			MaxIdleTime: getEnvDuration("POSTGRES_MAX_IDLE_TIME", 30*time.Minute),
			MaxLifetime: getEnvDuration("POSTGRES_MAX_LIFETIME", 1*time.Hour),
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

	if c.Bundler.OutputDir == "" {
		return fmt.Errorf("bundler output directory is required")
	}

	if c.Bundler.PerBatchLimit < 1 {
		return fmt.Errorf("batch limit must be positive, got %d", c.Bundler.PerBatchLimit)
	}

	if c.Bundler.ThrottleEvery < 1 {
		return fmt.Errorf("throttle interval must be positive, got %d", c.Bundler.ThrottleEvery)
	}

	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.Fetch.Timeout)
	}

	return nil
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

// RedisAddr returns the host:port address of the Redis cache
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
