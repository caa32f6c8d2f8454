package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "org.kde.kdenlive", cfg.Engine.DBusService)
	assert.Equal(t, "/MainApplication", cfg.Engine.DBusPath)
	assert.Equal(t, 10*time.Second, cfg.Engine.CommandTimeout)
	assert.Equal(t, 300*time.Millisecond, cfg.Engine.ImportSettle)
	assert.Equal(t, 200*time.Millisecond, cfg.Engine.InsertSettle)
	assert.Equal(t, 125, cfg.Engine.DefaultClipDuration)
	assert.Equal(t, 13, cfg.Engine.DefaultTransition)
	assert.Equal(t, 25.0, cfg.Engine.FPS)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine:
  dbus_service: org.kde.kdenlive-12345
  import_settle: 500ms
  default_transition: 25
log:
  level: debug
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "org.kde.kdenlive-12345", cfg.Engine.DBusService)
	assert.Equal(t, 500*time.Millisecond, cfg.Engine.ImportSettle)
	assert.Equal(t, 25, cfg.Engine.DefaultTransition)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Keys the file omits keep their defaults.
	assert.Equal(t, 125, cfg.Engine.DefaultClipDuration)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
