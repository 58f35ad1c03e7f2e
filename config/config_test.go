package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "database:\n  dsn: host=localhost\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Server.RateLimitPerSec)
	assert.Equal(t, 5, cfg.Server.RateLimitBurst)
	assert.Equal(t, 300, cfg.Server.CacheTTLSeconds)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 28, cfg.Booking.MaxNights)
	assert.Equal(t, int64(5000), cfg.Booking.CleaningFeeCents)
	assert.Equal(t, 14, cfg.Booking.ServiceFeePercent)
	assert.Equal(t, 3600, cfg.Push.TTL)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.Equal(t, 64, cfg.WorkerPool.QueueSize)
	assert.Equal(t, 10*time.Second, cfg.Webhook.Timeout)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 300, cfg.Directory.CacheTTLSeconds)
	assert.False(t, cfg.Push.Enabled())
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  rate_limit_per_sec: 2.5
database:
  driver: sqlite
  dsn: file::memory:
booking:
  max_nights: 14
  cleaning_fee_cents: 2500
  service_fee_percent: 10
push:
  vapid_public_key: pub
  vapid_private_key: priv
webhook:
  url: https://hooks.example.com/booking
  timeout_seconds: 3
  headers:
    X-Api-Key: secret
worker_pool:
  size: 4
  queue_size: 16
seed_path: ./config/seed.yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2.5, cfg.Server.RateLimitPerSec)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 14, cfg.Booking.MaxNights)
	assert.Equal(t, int64(2500), cfg.Booking.CleaningFeeCents)
	assert.Equal(t, 10, cfg.Booking.ServiceFeePercent)
	assert.True(t, cfg.Push.Enabled())
	assert.Equal(t, "https://hooks.example.com/booking", cfg.Webhook.URL)
	assert.Equal(t, "secret", cfg.Webhook.Headers["X-Api-Key"])
	assert.Equal(t, 3*time.Second, cfg.Webhook.Timeout)
	assert.Equal(t, 4, cfg.WorkerPool.Size)
	assert.Equal(t, 16, cfg.WorkerPool.QueueSize)
	assert.Equal(t, "./config/seed.yaml", cfg.SeedPath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\ndatabase:\n  dsn: from-file\n")
	t.Setenv("DATABASE_DSN", "from-env")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.DSN)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)

	t.Setenv("SERVER_PORT", "eighty")
	_, err = Load(writeConfig(t, "server:\n  port: 1\n"))
	assert.ErrorContains(t, err, "SERVER_PORT")
}
