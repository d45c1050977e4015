package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries all process configuration. It is built once at startup and
// passed by reference into each component's constructor; core logic never
// reads the environment itself.
type Config struct {
	Port   string
	AppURL string

	APIKey     string
	APISecret  string
	Scopes     []string
	APIVersion string

	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string

	SyncPageSize int
	SyncMaxPages int
	SyncTimeout  time.Duration
	PruneStale   bool
}

// Load reads configuration from the environment. SHOPIFY_API_KEY and
// SHOPIFY_API_SECRET are required; everything else has a default.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		AppURL:        getEnv("APP_URL", "http://localhost:8080"),
		APIKey:        os.Getenv("SHOPIFY_API_KEY"),
		APISecret:     os.Getenv("SHOPIFY_API_SECRET"),
		Scopes:        splitScopes(getEnv("SHOPIFY_SCOPES", "read_products")),
		APIVersion:    getEnv("SHOPIFY_API_VERSION", "2024-01"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "vylist"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SyncPageSize:  getEnvInt("SYNC_PAGE_SIZE", 250),
		SyncMaxPages:  getEnvInt("SYNC_MAX_PAGES", 200),
		SyncTimeout:   getEnvDuration("SYNC_TIMEOUT", 5*time.Minute),
		PruneStale:    getEnvBool("SYNC_PRUNE_STALE", false),
	}

	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("SHOPIFY_API_KEY and SHOPIFY_API_SECRET are required")
	}
	if cfg.SyncPageSize < 1 || cfg.SyncPageSize > 250 {
		return nil, fmt.Errorf("SYNC_PAGE_SIZE must be between 1 and 250, got %d", cfg.SyncPageSize)
	}
	if cfg.SyncMaxPages < 1 {
		return nil, fmt.Errorf("SYNC_MAX_PAGES must be positive, got %d", cfg.SyncMaxPages)
	}

	return cfg, nil
}

func splitScopes(s string) []string {
	var scopes []string
	for _, scope := range strings.Split(s, ",") {
		if scope = strings.TrimSpace(scope); scope != "" {
			scopes = append(scopes, scope)
		}
	}
	return scopes
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
