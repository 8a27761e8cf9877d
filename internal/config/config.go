// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/wspanel/internal/workspace"
)

// Default configuration values.
const (
	DefaultCount            = 10
	DefaultQueueSize        = workspace.DefaultQueueSize
	DefaultWorkspaceIcon    = 48
	DefaultIdleIcon         = "display"
	DefaultPowerDevice      = "/org/freedesktop/UPower/devices/battery_BAT0"
	DefaultPowerIconSize    = 30
	DefaultClockFormat      = "15:04"
	DefaultReconnectMaxWait = 30 * time.Second
)

// Config represents the wspanel configuration.
// Loaded from ~/.config/wspanel/wspanel.toml
type Config struct {
	Workspaces WorkspacesConfig `toml:"workspaces"`
	Power      PowerConfig      `toml:"power"`
	Panel      PanelConfig      `toml:"panel"`
	Style      StyleConfig      `toml:"style"`
	Hyprland   HyprlandConfig   `toml:"hyprland"`
}

// WorkspacesConfig holds the slot settings.
type WorkspacesConfig struct {
	Count       int    `toml:"count"`        // Number of slots, 1..32
	QueueSize   int    `toml:"queue_size"`   // Ingestion queue capacity
	IconSize    int    `toml:"icon_size"`    // Pixels
	DefaultIcon string `toml:"default_icon"` // Icon shown on slots with no window
}

// PowerConfig holds the battery indicator settings.
type PowerConfig struct {
	Enabled  bool   `toml:"enabled"`
	Device   string `toml:"device"`    // UPower object path
	IconSize int    `toml:"icon_size"` // Pixels
}

// PanelConfig holds window placement settings.
type PanelConfig struct {
	Edge        string `toml:"edge"`         // "left" or "right"
	Layer       string `toml:"layer"`        // "top", "overlay" or "bottom"
	ClockFormat string `toml:"clock_format"` // Go time layout, empty hides the clock
}

// StyleConfig holds the stylesheet location.
type StyleConfig struct {
	Path string `toml:"path"` // Empty uses style.css next to the config file if present
}

// HyprlandConfig holds compositor connection settings.
type HyprlandConfig struct {
	InstanceSignature    string   `toml:"instance_signature"`     // Empty uses $HYPRLAND_INSTANCE_SIGNATURE
	ReconnectMaxInterval Duration `toml:"reconnect_max_interval"` // e.g. "30s"
}

// Edge is the screen edge the panel is anchored to.
type Edge string

const (
	EdgeLeft  Edge = "left"
	EdgeRight Edge = "right"
)

// ValidEdges returns all valid edge values.
func ValidEdges() []Edge {
	return []Edge{EdgeLeft, EdgeRight}
}

// Layer is the layer-shell layer the panel is placed on.
type Layer string

const (
	LayerBottom  Layer = "bottom"
	LayerTop     Layer = "top"
	LayerOverlay Layer = "overlay"
)

// ValidLayers returns all valid layer values.
func ValidLayers() []Layer {
	return []Layer{LayerBottom, LayerTop, LayerOverlay}
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Workspaces: WorkspacesConfig{
			Count:       DefaultCount,
			QueueSize:   DefaultQueueSize,
			IconSize:    DefaultWorkspaceIcon,
			DefaultIcon: DefaultIdleIcon,
		},
		Power: PowerConfig{
			Enabled:  true,
			Device:   DefaultPowerDevice,
			IconSize: DefaultPowerIconSize,
		},
		Panel: PanelConfig{
			Edge:        string(EdgeLeft),
			Layer:       string(LayerTop),
			ClockFormat: DefaultClockFormat,
		},
		Style: StyleConfig{
			Path: "",
		},
		Hyprland: HyprlandConfig{
			InstanceSignature:    "",
			ReconnectMaxInterval: Duration(DefaultReconnectMaxWait),
		},
	}
}

// configDir returns $XDG_CONFIG_HOME/wspanel, or ~/.config/wspanel.
func configDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "wspanel")
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	return filepath.Join(configDir(), "wspanel.toml")
}

// StylePath returns the stylesheet to load, or "" when only the built-in
// style applies. An explicit path is returned even if it does not exist yet
// so it can be watched.
func (c *Config) StylePath() string {
	if c.Style.Path != "" {
		return expandPath(c.Style.Path)
	}
	path := filepath.Join(configDir(), "style.css")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults, then overlay with file contents
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Workspaces.Count < 1 || c.Workspaces.Count > workspace.MaxCount {
		return fmt.Errorf("workspaces.count must be between 1 and %d, got %d", workspace.MaxCount, c.Workspaces.Count)
	}
	if c.Workspaces.QueueSize < 1 {
		return fmt.Errorf("workspaces.queue_size must be at least 1, got %d", c.Workspaces.QueueSize)
	}
	if c.Workspaces.IconSize < 8 || c.Workspaces.IconSize > 512 {
		return fmt.Errorf("workspaces.icon_size must be between 8 and 512, got %d", c.Workspaces.IconSize)
	}
	if c.Power.Enabled && (c.Power.IconSize < 8 || c.Power.IconSize > 512) {
		return fmt.Errorf("power.icon_size must be between 8 and 512, got %d", c.Power.IconSize)
	}

	if !slices.Contains(ValidEdges(), Edge(c.Panel.Edge)) {
		return fmt.Errorf("invalid panel.edge %q, must be one of: %v", c.Panel.Edge, ValidEdges())
	}
	if !slices.Contains(ValidLayers(), Layer(c.Panel.Layer)) {
		return fmt.Errorf("invalid panel.layer %q, must be one of: %v", c.Panel.Layer, ValidLayers())
	}

	if c.Hyprland.ReconnectMaxInterval.Duration() < 0 {
		return fmt.Errorf("hyprland.reconnect_max_interval must not be negative, got %s",
			c.Hyprland.ReconnectMaxInterval.Duration())
	}

	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
