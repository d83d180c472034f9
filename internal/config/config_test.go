package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/budget-buddy/api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `server:
  host: 127.0.0.1
  port: 9000
  mode: release
database:
  host: db
  port: 5432
  user: app
  password: secret
  dbname: budget
  sslmode: disable
redis:
  host: cache
  port: 6379
jwt:
  secret: file-secret
  expire_hours: 12
cors:
  allowed_origins:
    - http://localhost:8080
    - https://app.example.com
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 12, cfg.JWT.ExpireHours)
	assert.Equal(t, []string{"http://localhost:8080", "https://app.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=budget sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := config.Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoadRequiresSecret(t *testing.T) {
	_, err := config.Load(writeConfig(t, "server:\n  port: 8000\n"))
	assert.Error(t, err)
}

func TestExpireHoursDefault(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "jwt:\n  secret: s\n"))
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.JWT.ExpireHours)
}
