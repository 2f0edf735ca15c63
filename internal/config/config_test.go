package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Face.Version)
	assert.Equal(t, "auto", cfg.Clock.Format)
	assert.Equal(t, "auto", cfg.Health.Source)
	assert.Equal(t, DefaultDBusName, cfg.Health.DBusName)
	assert.Equal(t, 0, cfg.Health.StaticSteps)
	assert.Empty(t, cfg.Health.File)
	assert.Empty(t, cfg.Log.File)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Face.Version, cfg.Face.Version)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[face]
version = 3

[clock]
format = "24h"

[health]
source = "static"
file = "/tmp/health.yaml"
dbus_name = "org.example.Health"
static_steps = 8421

[log]
file = "/tmp/watchface.log"
`
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Face.Version)
	assert.Equal(t, "24h", cfg.Clock.Format)
	assert.Equal(t, "static", cfg.Health.Source)
	assert.Equal(t, "/tmp/health.yaml", cfg.Health.File)
	assert.Equal(t, "org.example.Health", cfg.Health.DBusName)
	assert.Equal(t, 8421, cfg.Health.StaticSteps)
	assert.Equal(t, "/tmp/watchface.log", cfg.Log.File)
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[clock]
format = "12h"
`
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// Changed field
	assert.Equal(t, "12h", cfg.Clock.Format)

	// Unchanged fields should have defaults
	assert.Equal(t, 2, cfg.Face.Version)
	assert.Equal(t, "auto", cfg.Health.Source)
	assert.Equal(t, DefaultDBusName, cfg.Health.DBusName)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	err := os.WriteFile(path, []byte(`this is not valid toml [`), 0644)
	require.NoError(t, err)

	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"version", "[face]\nversion = 4\n"},
		{"clock", "[clock]\nformat = \"36h\"\n"},
		{"source", "[health]\nsource = \"bluetooth\"\n"},
		{"static steps", "[health]\nstatic_steps = -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestConfig_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.toml")

	cfg := DefaultConfig()
	cfg.Face.Version = 1
	cfg.Health.Source = SourceNone

	err := cfg.Save(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Face.Version)
	assert.Equal(t, "none", loaded.Health.Source)
}

func TestConfig_HealthFilePath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")

	cfg := DefaultConfig()
	assert.Equal(t, "/data/watchface/health.yaml", cfg.HealthFilePath())

	cfg.Health.File = "/elsewhere/steps.yaml"
	assert.Equal(t, "/elsewhere/steps.yaml", cfg.HealthFilePath())
}

func TestConfig_LogFilePath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")

	cfg := DefaultConfig()
	assert.Equal(t, "/state/watchface/watchface.log", cfg.LogFilePath())

	cfg.Log.File = "/tmp/face.log"
	assert.Equal(t, "/tmp/face.log", cfg.LogFilePath())
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/watchface/config.toml", ConfigPath())
}

func TestConfigPath_FallsBackToHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/.config/watchface/config.toml", ConfigPath())
}
