package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "whatsapp", cfg.MongoDBName)
	assert.Equal(t, 5*time.Second, cfg.MongoRetryWait)
	assert.Equal(t, 800*time.Millisecond, cfg.DeliveredDelay)
	assert.Equal(t, 2200*time.Millisecond, cfg.ReadDelay)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.S3Enabled())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DELIVERED_DELAY_MS", "100")
	t.Setenv("READ_DELAY_MS", "250")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("S3_BUCKET", "media")

	cfg := LoadConfig()
	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, 100*time.Millisecond, cfg.DeliveredDelay)
	assert.Equal(t, 250*time.Millisecond, cfg.ReadDelay)
	assert.True(t, cfg.RedisEnabled())
	assert.True(t, cfg.S3Enabled())
}

func TestGetEnvAsIntFallback(t *testing.T) {
	t.Setenv("SOME_INT", "not a number")
	assert.Equal(t, 42, getEnvAsInt("SOME_INT", 42))

	t.Setenv("SOME_INT", "7")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 42))
}
