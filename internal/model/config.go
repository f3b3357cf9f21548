package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ProviderConfig holds the connection settings for the disposable-mail
// provider's HTTP API.
type ProviderConfig struct {
	// BaseURL is the single API endpoint; operations are selected with
	// the "f" query parameter.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds every provider call.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// SessionConfig controls the persisted mailbox session.
type SessionConfig struct {
	// TimeoutHours is how long a saved session stays valid.
	TimeoutHours int `mapstructure:"timeout_hours" yaml:"timeout_hours"`
}

// DisplayConfig holds UI and polling preferences.
type DisplayConfig struct {
	// Theme selects the palette ("dark" or "light").
	Theme string `mapstructure:"theme" yaml:"theme"`

	// RefreshIntervalSec is the auto-refresh cadence.
	RefreshIntervalSec int `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`

	// AutoRefresh enables background polling on startup.
	AutoRefresh bool `mapstructure:"auto_refresh" yaml:"auto_refresh"`
}

// LogConfig controls file logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	Path  string `mapstructure:"path" yaml:"path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Provider ProviderConfig `mapstructure:"provider" yaml:"provider"`
	Session  SessionConfig  `mapstructure:"session" yaml:"session"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`

	// DatabasePath locates the local SQLite database for settings,
	// users, API keys, and notification history.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`
}

// ConfigDir returns the application's configuration directory,
// ~/.config/burnbox.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "burnbox")
}

// DefaultConfigPath returns the default path for the configuration file.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Provider: ProviderConfig{
			BaseURL:    "https://api.guerrillamail.com/ajax.php",
			TimeoutSec: 15,
		},
		Session: SessionConfig{
			TimeoutHours: 2,
		},
		Display: DisplayConfig{
			Theme:              "dark",
			RefreshIntervalSec: 30,
			AutoRefresh:        true,
		},
		Log: LogConfig{
			Level: "info",
			Path:  filepath.Join(ConfigDir(), "burnbox.log"),
		},
		DatabasePath: filepath.Join(ConfigDir(), "burnbox.db"),
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	def := defaultAppConfig()
	v.SetDefault("provider.base_url", def.Provider.BaseURL)
	v.SetDefault("provider.timeout_sec", def.Provider.TimeoutSec)
	v.SetDefault("session.timeout_hours", def.Session.TimeoutHours)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("display.refresh_interval_sec", def.Display.RefreshIntervalSec)
	v.SetDefault("display.auto_refresh", def.Display.AutoRefresh)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.path", def.Log.Path)
	v.SetDefault("database_path", def.DatabasePath)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("provider", cfg.Provider)
	v.Set("session", cfg.Session)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)
	v.Set("database_path", cfg.DatabasePath)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}

	return nil
}
