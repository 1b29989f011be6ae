package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "data.db", cfg.DBDSN)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 30*time.Second, cfg.AnalysisTimeout)
	assert.Equal(t, 60, cfg.GeminiRateLimit)
	assert.Equal(t, 5*time.Minute, cfg.LabelCacheTTL)
	assert.False(t, cfg.VisionEnabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("VISION_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.VisionEnabled)
	assert.Equal(t, "redis.internal:6380", cfg.RedisAddr())
}

func TestRedisAddr(t *testing.T) {
	t.Run("empty host disables redis", func(t *testing.T) {
		cfg := &Config{RedisPort: "6379"}
		assert.Empty(t, cfg.RedisAddr())
	})

	t.Run("host and port join", func(t *testing.T) {
		cfg := &Config{RedisHost: "localhost", RedisPort: "6379"}
		assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	})
}

func TestLoadInvalidValue(t *testing.T) {
	t.Setenv("TOKEN_TTL", "not-a-duration")

	_, err := Load()
	assert.Error(t, err)
}
