package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service configuration
type Config struct {
	Service   ServiceConfig
	GitHub    GitHubConfig
	Store     StoreConfig
	Cache     CacheConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
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

// GitHubConfig identifies the repository whose discussions back the knowledge base
type GitHubConfig struct {
	Endpoint string
	Token    string
	Owner    string
	Repo     string
	Timeout  time.Duration

	PatternCategory                string
	SolutionImplementationCategory string
	RelationshipCategory           string
}

// StoreConfig holds entity store settings
type StoreConfig struct {
	PageSize        int
	CommentPageSize int
}

// CacheConfig holds comment cache settings
type CacheConfig struct {
	Enabled    bool
	Backend    string // "memory" or "redis"
	CommentTTL time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Channel  string
}

// RateLimitConfig holds mutation rate limits, per minute
type RateLimitConfig struct {
	Enabled      bool
	UserPerMin   int
	GlobalPerMin int

	// InternalSecret lets callers presenting it in X-Internal-Service skip limits.
	// Empty disables the bypass.
	InternalSecret string
}

// TelemetryConfig holds observability settings
type TelemetryConfig struct {
	EnablePprof   bool
	PprofPort     int
	EnableMetrics bool
	MetricsPort   int
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	cfg := &Config{
		Service: ServiceConfig{
			Name:        serviceName,
			Port:        getEnvInt("PORT", 8080),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"), // Default to text for development
		},
		GitHub: GitHubConfig{
			Endpoint: getEnv("GITHUB_GRAPHQL_URL", "https://api.github.com/graphql"),
			Token:    getEnv("GITHUB_TOKEN", ""),
			Owner:    getEnv("GITHUB_OWNER", ""),
			Repo:     getEnv("GITHUB_REPO", ""),
			Timeout:  getEnvDuration("GITHUB_TIMEOUT", 15*time.Second),

			PatternCategory:                getEnv("PATTERN_CATEGORY", "Patterns"),
			SolutionImplementationCategory: getEnv("SOLUTION_CATEGORY", "Solution Implementations"),
			RelationshipCategory:           getEnv("RELATIONSHIP_CATEGORY", "Pattern - Solution Implementation Mapping"),
		},
		Store: StoreConfig{
			PageSize:        getEnvInt("STORE_PAGE_SIZE", 10),
			CommentPageSize: getEnvInt("STORE_COMMENT_PAGE_SIZE", 20),
		},
		Cache: CacheConfig{
			Enabled:    getEnvBool("CACHE_ENABLED", true),
			Backend:    getEnv("CACHE_BACKEND", "memory"),
			CommentTTL: getEnvDuration("CACHE_COMMENT_TTL", 2*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Channel:  getEnv("EVENTS_CHANNEL", "patternatlas:events"),
		},
		RateLimit: RateLimitConfig{
			Enabled:      getEnvBool("RATE_LIMIT_ENABLED", true),
			UserPerMin:   getEnvInt("RATE_LIMIT_USER_PER_MIN", 30),
			GlobalPerMin: getEnvInt("RATE_LIMIT_GLOBAL_PER_MIN", 600),

			InternalSecret: getEnv("INTERNAL_SERVICE_SECRET", ""),
		},
		Telemetry: TelemetryConfig{
			EnablePprof:   getEnvBool("ENABLE_PPROF", false),
			PprofPort:     getEnvInt("PPROF_PORT", 6060),
			EnableMetrics: getEnvBool("ENABLE_METRICS", true),
			MetricsPort:   getEnvInt("METRICS_PORT", 9090),
		},
	}

	return cfg, cfg.Validate()
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}

	if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
		return fmt.Errorf("github owner and repo are required")
	}

	if c.GitHub.Endpoint == "" {
		return fmt.Errorf("github graphql endpoint is required")
	}

	if c.Store.PageSize < 1 {
		return fmt.Errorf("invalid page size: %d", c.Store.PageSize)
	}

	if c.Store.CommentPageSize < 1 {
		return fmt.Errorf("invalid comment page size: %d", c.Store.CommentPageSize)
	}

	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.Enabled && !c.Redis.Enabled {
			return fmt.Errorf("cache backend redis requires REDIS_ENABLED")
		}
	default:
		return fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}

	if c.RateLimit.Enabled && (c.RateLimit.UserPerMin < 1 || c.RateLimit.GlobalPerMin < 1) {
		return fmt.Errorf("rate limits must be positive")
	}

	return nil
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
