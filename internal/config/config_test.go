package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 8083
shutdown_timeout = 10

[storage]
backend = "redis"

[database]
host = "db"
port = 5432
user = "app"
password = "secret"
dbname = "booking"
sslmode = "disable"

[metrics]
enabled = true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8083, cfg.Server.HTTPPort)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=booking sslmode=disable timezone=UTC", cfg.Database.DSN())
	assert.Equal(t, "postgres://app:secret@db:5432/booking?sslmode=disable", cfg.Database.URL())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "mongo")
		_, err := Load(writeConfig(t, sampleConfig))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("bad port in env", func(t *testing.T) {
		t.Setenv("DB_PORT", "abc")
		_, err := Load(writeConfig(t, sampleConfig))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}
