package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("STORAGE_DRIVER")

		cfg := Load()

		assert.Equal(t, DefaultDatabaseURL, cfg.Database.URL)
		assert.Equal(t, "local", cfg.Storage.Driver)
		assert.Equal(t, 500, cfg.Extract.SummaryMaxChars)
		assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/docs")
		t.Setenv("DB_MAX_OPEN_CONNS", "20")
		t.Setenv("STORAGE_DRIVER", "minio")
		t.Setenv("MINIO_USE_SSL", "true")
		t.Setenv("EXTRACT_WORKERS", "8")

		cfg := Load()

		assert.Equal(t, "postgres://u:p@db:5432/docs", cfg.Database.URL)
		assert.Equal(t, 20, cfg.Database.MaxOpenConns)
		assert.Equal(t, "minio", cfg.Storage.Driver)
		assert.True(t, cfg.Storage.MinIO.UseSSL)
		assert.Equal(t, 8, cfg.Extract.Workers)
	})
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	t.Setenv(key, "value")

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	t.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	t.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	t.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	t.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	t.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))
}
