package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, StoreTable, cfg.Notifications.Store)
	require.Equal(t, "default", cfg.Auth.DefaultUser)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
db:
  path: /tmp/board.db
timeline:
  location: UTC
  lock_grace: 15m
notifications:
  store: collection
  retention: 48h
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("STAFFBOARD_CONFIG_PATH", path)
	t.Setenv("STAFFBOARD_SERVER_PORT", "7070")
	t.Setenv("STAFFBOARD_AUTH_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "/tmp/board.db", cfg.DB.Path)
	require.Equal(t, 15*time.Minute, cfg.Timeline.LockGrace)
	require.Equal(t, StoreCollection, cfg.Notifications.Store)
	require.Equal(t, 48*time.Hour, cfg.Notifications.Retention)
	require.True(t, cfg.Auth.Enabled)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, time.UTC, loc)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("STAFFBOARD_SERVER_PORT", "eighty")
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Notifications.Store = "redis"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Transport.Mode = "grpc"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Timeline.Location = "Mars/Olympus"
	require.Error(t, cfg.Validate())
}
