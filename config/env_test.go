package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverFallbacks(t *testing.T) {
	Set("DB_DRIVER", "oracle")
	Set("DATABASE_DSN", "")
	t.Cleanup(func() { Set("DB_DRIVER", defaultDatabaseDriver) })

	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, defaultSQLiteDSN, DatabaseDSN())

	Set("DB_DRIVER", "Postgres")
	assert.Equal(t, "postgres", DatabaseDriver())
	assert.Equal(t, defaultPostgresDSN, DatabaseDSN())

	Set("DATABASE_DSN", "host=db")
	t.Cleanup(func() { Set("DATABASE_DSN", "") })
	assert.Equal(t, "host=db", DatabaseDSN())
}

func TestMailDriver(t *testing.T) {
	t.Cleanup(func() { Set("MAIL_DRIVER", "") })

	for in, want := range map[string]string{"": "log", "SMTP": "smtp", "ses": "ses", "pigeon": "log"} {
		Set("MAIL_DRIVER", in)
		assert.Equal(t, want, MailDriver(), "MAIL_DRIVER=%q", in)
	}
}

func TestMailSESRegionDefaultsToS3(t *testing.T) {
	Set("S3_REGION", "eu-west-1")
	t.Cleanup(func() { Set("S3_REGION", "") })

	assert.Equal(t, "eu-west-1", MailSESRegion())
	Set("MAIL_SES_REGION", "us-west-2")
	t.Cleanup(func() { Set("MAIL_SES_REGION", "") })
	assert.Equal(t, "us-west-2", MailSESRegion())
}

func TestNumericSettings(t *testing.T) {
	t.Cleanup(func() {
		Set("QUEUE_WORKERS", "")
		Set("LOW_STOCK_THRESHOLD", "")
		Set("RATE_LIMIT_PER_MINUTE", "")
		Set("SESSION_TTL", "")
	})

	Set("QUEUE_WORKERS", "0")
	assert.Equal(t, 0, QueueWorkers())
	Set("QUEUE_WORKERS", "-3")
	assert.Equal(t, 2, QueueWorkers())

	Set("LOW_STOCK_THRESHOLD", "abc")
	assert.Equal(t, 5, LowStockThreshold())

	Set("RATE_LIMIT_PER_MINUTE", "0")
	assert.Equal(t, 200, RateLimit())

	Set("SESSION_TTL", "30m")
	assert.Equal(t, 30*time.Minute, SessionTTL())
	Set("SESSION_TTL", "forever")
	assert.Equal(t, 336*time.Hour, SessionTTL())
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app_port": 9000, "app_env": "staging", "debug": true}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("APP_ENV=production\nS3_BUCKET=media\n"), 0o644))

	_ = Load()
	mu.RLock()
	saved := values
	mu.RUnlock()
	t.Cleanup(func() {
		mu.Lock()
		values = saved
		mu.Unlock()
	})

	require.NoError(t, loadFromFiles(jsonPath, envPath))

	assert.Equal(t, "9000", get("APP_PORT", ""))
	assert.Equal(t, "production", get("APP_ENV", ""))
	assert.Equal(t, "true", get("DEBUG", ""))
	assert.Equal(t, "media", get("S3_BUCKET", ""))
	assert.True(t, IsProduction())
}

func TestLoadFromFilesMissingIsFine(t *testing.T) {
	_ = Load()
	mu.RLock()
	saved := values
	mu.RUnlock()
	t.Cleanup(func() {
		mu.Lock()
		values = saved
		mu.Unlock()
	})

	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, ".env")))
	assert.Equal(t, defaultAppPort, get("APP_PORT", ""))
}
