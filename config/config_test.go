package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.AppPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 72, cfg.TokenTTLHours)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.RedisHost)
}

func TestReadFileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"APP_PORT":"9000","DB_DRIVER":"sqlite","LOG_LEVEL":"debug"}`), 0o600))
	t.Setenv("APP_PORT", "9100")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	base := AppConfig{AppPort: "8000", JWTSecret: DefaultJWTSecret, DBDriver: "mysql"}
	require.NoError(t, base.Validate())

	prod := base
	prod.Env = "production"
	assert.Error(t, prod.Validate())
	prod.JWTSecret = "short"
	assert.Error(t, prod.Validate())
	prod.JWTSecret = "a-production-secret-that-is-long-enough"
	assert.NoError(t, prod.Validate())

	bad := base
	bad.DBDriver = "postgres"
	assert.Error(t, bad.Validate())
}

func TestOpenDatabaseSQLite(t *testing.T) {
	db, err := OpenDatabase(AppConfig{DBDriver: "sqlite", DatabaseURI: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}
