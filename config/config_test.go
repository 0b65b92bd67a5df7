package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, int64(5<<20), cfg.Uploads.MaxResumeSize)
	assert.Equal(t, "notification_queue", cfg.RabbitMQ.Queue)
	assert.Equal(t, "local", cfg.Uploads.Storage)
	assert.Equal(t, "@every 15m", cfg.Scheduler.Sweep)
}

func TestLoadConfigExpandsVarsAndAppliesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: 9000
database:
  driver: sqlite
  dsn: ${ITC_TEST_DSN}
redis:
  enabled: true
  metrics_ttl: 30s
uploads:
  storage: spaces
  spaces:
    bucket: resumes
    secret_key: ${ITC_TEST_SECRET}
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	t.Setenv("ITC_TEST_DSN", "file:test.db")
	t.Setenv("PORT", "9100")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ITC_TEST_SECRET", "s3cr3t")
	t.Setenv("SCHEDULER_ENABLED", "false")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:test.db", cfg.Database.DSN)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Redis.MetricsTTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "spaces", cfg.Uploads.Storage)
	assert.Equal(t, "resumes", cfg.Uploads.Spaces.Bucket)
	assert.Equal(t, "s3cr3t", cfg.Uploads.Spaces.SecretKey)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "0.0.0.0:9100", cfg.Address())
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("ITC_KNOWN", "value")
	got := expandEnvVars("a=${ITC_KNOWN} b=$ITC_UNKNOWN_VAR c=${ITC_UNKNOWN_VAR}")
	assert.Equal(t, "a=value b=$ITC_UNKNOWN_VAR c=", got)
}

func TestShippedConfigLeavesSecretsEmptyWhenEnvUnset(t *testing.T) {
	for _, name := range []string{"JWT_SECRET", "DB_DSN", "SPACES_ACCESS_KEY", "SPACES_SECRET_KEY"} {
		t.Setenv(name, "")
	}

	cfg, err := LoadConfig(filepath.Join("..", "configs", "config.yaml"))
	require.NoError(t, err)

	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Empty(t, cfg.Database.DSN)
	assert.Empty(t, cfg.Uploads.Spaces.AccessKey)
	assert.Empty(t, cfg.Uploads.Spaces.SecretKey)
	assert.Equal(t, "mysql", cfg.Database.Driver)
}
