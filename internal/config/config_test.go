package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "task_tracker", cfg.Auth.Issuer)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "app.db", cfg.DB.Path)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.WS.Interval)
	assert.Empty(t, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Server.ExposeInternalErrors)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	yml := `
server:
  port: "9000"
  allowed_origins:
    - https://a.example.com
auth:
  token_ttl: 30m
db:
  path: from-file.db
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o600))

	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("DB_PATH", "from-env.db")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "from-env.db", cfg.DB.Path, "env must override file")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "s3cr3t", cfg.Auth.JWTSecret)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_AllowedOriginsFromEnv(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("server: [unclosed"), 0o600))
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfg, err := Load("")
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.Auth.JWTSecret = "x"
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = "abc"
	cfg.Auth.BcryptCost = 99
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "bcrypt_cost")
}

func TestDBConfig_Validate(t *testing.T) {
	assert.NoError(t, DBConfig{Driver: "sqlite", Path: "a.db"}.Validate())
	assert.Error(t, DBConfig{Driver: "sqlite"}.Validate())
	assert.Error(t, DBConfig{Driver: "postgres"}.Validate())
	assert.NoError(t, DBConfig{Driver: "postgres", DSN: "postgres://u@h/db"}.Validate())
	assert.Error(t, DBConfig{Driver: "mysql"}.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TASK_TRACKER_TEST_VAR=hello\n"), 0o600))
	t.Setenv("TASK_TRACKER_TEST_VAR", "")
	require.NoError(t, os.Unsetenv("TASK_TRACKER_TEST_VAR"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "hello", os.Getenv("TASK_TRACKER_TEST_VAR"))
}
