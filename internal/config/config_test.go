package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalTOML = `
[auth]
admin_pin_hash = "$2a$12$abcdefghijklmnopqrstuv"
jwt_secret = "secret"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", minimalTOML)

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "salon.db", cfg.SQLite.Path)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, 5000, cfg.Redis.LockTTLMs)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 720, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, 400, cfg.Gallery.ThumbWidth)
	assert.Equal(t, "https://wa.me", cfg.WhatsApp.BaseURL)
	assert.True(t, cfg.Booking.StrictStatusTransitions)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", minimalTOML+`
[server]
http_port = 9090

[storage]
driver = "postgres"

[database]
host = "db"
dbname = "salon"
user = "salon"

[booking]
strict_status_transitions = false
`)

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "host=db port=5432 user=salon password= dbname=salon sslmode=disable", cfg.Database.DSN())
	assert.False(t, cfg.Booking.StrictStatusTransitions)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", minimalTOML)
	envPath := writeFile(t, dir, ".env", "SALON_TEST_UNUSED=1\n")

	t.Setenv("SALON_JWT_SECRET", "from-env")
	t.Setenv("SALON_HTTP_PORT", "7070")
	t.Setenv("SALON_SQLITE_PATH", "/tmp/other.db")

	cfg, err := Load(path, envPath)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 7070, cfg.Server.HTTPPort)
	assert.Equal(t, "/tmp/other.db", cfg.SQLite.Path)
	assert.Equal(t, "1", os.Getenv("SALON_TEST_UNUSED"))
	require.NoError(t, os.Unsetenv("SALON_TEST_UNUSED"))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown driver", content: minimalTOML + "\n[storage]\ndriver = \"mysql\"\n"},
		{name: "postgres without host", content: minimalTOML + "\n[storage]\ndriver = \"postgres\"\n"},
		{name: "no jwt secret", content: "[auth]\nadmin_pin_hash = \"x\"\n"},
		{name: "no pin hash", content: "[auth]\njwt_secret = \"x\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.toml", tt.content)
			_, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
