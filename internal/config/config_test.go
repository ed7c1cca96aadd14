package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("WORKER_CONCURRENCY", "")
	t.Setenv("CONVERSATION_DETAIL_TURNS", "")
	t.Setenv("TRUSTED_PROXIES", "")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Contains(t, cfg.DBDSN, "tcp(127.0.0.1:3306)/dxcases")
	assert.Equal(t, 2, cfg.WorkerConcurrency)
	assert.Equal(t, 3, cfg.DetailTurns)
	assert.Equal(t, 12, cfg.GalleryPageSize)
	assert.Equal(t, "gpt-4o", cfg.ChatModel)
	assert.Equal(t, 24*time.Hour, cfg.AdminTokenTTL)
	assert.Nil(t, cfg.TrustedProxies)
	assert.True(t, cfg.InsecureJWTSecret())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_DSN", "")
	t.Setenv("WORKER_CONCURRENCY", "500")
	t.Setenv("CONVERSATION_MAX_USER_TURNS", "0")
	t.Setenv("ADMIN_TOKEN_TTL", "90m")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, ,192.168.1.10 ")
	t.Setenv("JWT_SECRET", "a-real-secret")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Contains(t, cfg.DBDSN, "dbname=dxcases")
	assert.Equal(t, 50, cfg.WorkerConcurrency)
	assert.Equal(t, 0, cfg.MaxUserTurns)
	assert.Equal(t, 90*time.Minute, cfg.AdminTokenTTL)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.10"}, cfg.TrustedProxies)
	assert.False(t, cfg.InsecureJWTSecret())
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Setenv("WORKER_CONCURRENCY", "abc")
	t.Setenv("GALLERY_PAGE_SIZE", "twelve")

	cfg := Load()

	assert.Equal(t, 2, cfg.WorkerConcurrency)
	assert.Equal(t, 12, cfg.GalleryPageSize)
}
