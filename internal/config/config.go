// Package config loads the application configuration from environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting. All values come from environment
// variables with sensible local-development defaults.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `env:"ADDR" envDefault:":8080"`

	// DBDriver selects the database: "sqlite" (default) or "postgres".
	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite"`

	// DBDSN is the driver-specific connection string. For sqlite it is
	// the database file path.
	DBDSN string `env:"DB_DSN" envDefault:"data.db"`

	// RunMigrations enables GORM auto-migration at startup.
	RunMigrations bool `env:"RUN_MIGRATIONS" envDefault:"false"`

	// UploadDir is the content directory for stored images.
	UploadDir string `env:"UPLOAD_DIR" envDefault:"uploads"`

	// Redis connection. Leave RedisHost empty to run without Redis;
	// the label cache and session records degrade gracefully.
	RedisHost     string `env:"REDIS_HOST"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// JWTSecret signs access tokens. Must be set in production.
	JWTSecret string `env:"JWT_SECRET"`

	// TokenTTL is the access token lifetime.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// GeminiAPIKey enables the Gemini analysis backend. Empty means
	// mock analysis results.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	// VisionEnabled turns on Cloud Vision label detection (requires
	// Application Default Credentials).
	VisionEnabled bool `env:"VISION_ENABLED" envDefault:"false"`

	// AnalysisTimeout bounds each external model call.
	AnalysisTimeout time.Duration `env:"ANALYSIS_TIMEOUT" envDefault:"30s"`

	// GeminiRateLimit caps Gemini calls per minute.
	GeminiRateLimit int `env:"GEMINI_RATE_LIMIT" envDefault:"60"`

	// LabelCacheTTL is how long distinct-label lists stay cached.
	LabelCacheTTL time.Duration `env:"LABEL_CACHE_TTL" envDefault:"5m"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// RedisAddr returns host:port, or empty when Redis is not configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}
