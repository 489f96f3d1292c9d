package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("BACKUP_URL_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 3, cfg.Database.ConnectAttempts)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, time.Hour, cfg.Backup.URLTTL)
	assert.Equal(t, 7, cfg.Backup.Keep)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "invalid")

	_, err := Load()
	assert.Error(t, err)
}

func TestMinIOConfig_Enabled(t *testing.T) {
	assert.False(t, MinIOConfig{}.Enabled())
	assert.True(t, MinIOConfig{Endpoint: "localhost:9000"}.Enabled())
}

func TestAppConfig_Location(t *testing.T) {
	cfg := &AppConfig{TimeZone: "Europe/Rome"}
	assert.Equal(t, "Europe/Rome", cfg.Location().String())

	cfg.TimeZone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadClient(t *testing.T) {
	t.Setenv("SCHOLARPORT_URL", "http://api.test")
	t.Setenv("SEARCH_DEBOUNCE", "50ms")

	cfg, err := LoadClient()
	require.NoError(t, err)

	assert.Equal(t, "http://api.test", cfg.BaseURL)
	assert.Equal(t, 50*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}
