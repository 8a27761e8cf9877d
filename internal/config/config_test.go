package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10, cfg.Workspaces.Count)
	assert.Equal(t, 10, cfg.Workspaces.QueueSize)
	assert.Equal(t, 48, cfg.Workspaces.IconSize)
	assert.Equal(t, "display", cfg.Workspaces.DefaultIcon)
	assert.True(t, cfg.Power.Enabled)
	assert.Equal(t, DefaultPowerDevice, cfg.Power.Device)
	assert.Equal(t, 30, cfg.Power.IconSize)
	assert.Equal(t, "left", cfg.Panel.Edge)
	assert.Equal(t, "top", cfg.Panel.Layer)
	assert.Equal(t, "15:04", cfg.Panel.ClockFormat)
	assert.Equal(t, 30*time.Second, cfg.Hyprland.ReconnectMaxInterval.Duration())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/wspanel.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wspanel.toml")

	content := `
[workspaces]
count = 6
queue_size = 32
icon_size = 40
default_icon = "user-desktop"

[power]
enabled = false
device = "/org/freedesktop/UPower/devices/DisplayDevice"

[panel]
edge = "right"
layer = "overlay"
clock_format = "3:04PM"

[style]
path = "/etc/wspanel/style.css"

[hyprland]
instance_signature = "abc_123"
reconnect_max_interval = "5s"
`
	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Workspaces.Count)
	assert.Equal(t, 32, cfg.Workspaces.QueueSize)
	assert.Equal(t, 40, cfg.Workspaces.IconSize)
	assert.Equal(t, "user-desktop", cfg.Workspaces.DefaultIcon)
	assert.False(t, cfg.Power.Enabled)
	assert.Equal(t, "/org/freedesktop/UPower/devices/DisplayDevice", cfg.Power.Device)
	assert.Equal(t, "right", cfg.Panel.Edge)
	assert.Equal(t, "overlay", cfg.Panel.Layer)
	assert.Equal(t, "3:04PM", cfg.Panel.ClockFormat)
	assert.Equal(t, "/etc/wspanel/style.css", cfg.StylePath())
	assert.Equal(t, "abc_123", cfg.Hyprland.InstanceSignature)
	assert.Equal(t, 5*time.Second, cfg.Hyprland.ReconnectMaxInterval.Duration())
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wspanel.toml")

	content := `
[workspaces]
count = 4
`
	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// Changed field
	assert.Equal(t, 4, cfg.Workspaces.Count)

	// Unchanged fields should have defaults
	assert.Equal(t, DefaultQueueSize, cfg.Workspaces.QueueSize)
	assert.Equal(t, "display", cfg.Workspaces.DefaultIcon)
	assert.True(t, cfg.Power.Enabled)
	assert.Equal(t, "left", cfg.Panel.Edge)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wspanel.toml")

	err := os.WriteFile(path, []byte(`this is not valid toml [`), 0o644)
	require.NoError(t, err)

	_, err = LoadConfig(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"count too high", "[workspaces]\ncount = 33\n", "workspaces.count"},
		{"count zero", "[workspaces]\ncount = 0\n", "workspaces.count"},
		{"queue zero", "[workspaces]\nqueue_size = 0\n", "workspaces.queue_size"},
		{"tiny icon", "[workspaces]\nicon_size = 2\n", "workspaces.icon_size"},
		{"bad edge", "[panel]\nedge = \"top\"\n", "panel.edge"},
		{"bad layer", "[panel]\nlayer = \"background\"\n", "panel.layer"},
		{"bad duration", "[hyprland]\nreconnect_max_interval = \"soon\"\n", "invalid duration"},
		{"negative duration", "[hyprland]\nreconnect_max_interval = \"-1s\"\n", "reconnect_max_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "wspanel.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadConfig(path)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestValidate_DisabledPowerIgnoresIconSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Power.Enabled = false
	cfg.Power.IconSize = 0
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "wspanel.toml")

	cfg := DefaultConfig()
	cfg.Workspaces.Count = 5
	cfg.Hyprland.ReconnectMaxInterval = Duration(2 * time.Minute)

	err := cfg.Save(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"1m30s", 90 * time.Second},
		{"250", 250 * time.Millisecond},
		{"0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			require.NoError(t, d.UnmarshalText([]byte(tt.in)))
			assert.Equal(t, tt.want, d.Duration())
		})
	}

	var d Duration
	assert.Error(t, d.UnmarshalText([]byte("forever")))
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/wspanel/wspanel.toml", ConfigPath())
}

func TestConfigPathDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Contains(t, ConfigPath(), "wspanel/wspanel.toml")
}

func TestStylePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg := DefaultConfig()
	assert.Empty(t, cfg.StylePath(), "no user stylesheet yet")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "wspanel"), 0o755))
	style := filepath.Join(dir, "wspanel", "style.css")
	require.NoError(t, os.WriteFile(style, []byte("window {}"), 0o644))
	assert.Equal(t, style, cfg.StylePath())

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	cfg.Style.Path = "~/panel.css"
	assert.Equal(t, filepath.Join(home, "panel.css"), cfg.StylePath())
}
