package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// config holds the persisted tandemctl settings.
type config struct {
	ServerURL string `mapstructure:"server_url" yaml:"server_url"`
	UserID    int64  `mapstructure:"user_id" yaml:"user_id"`
	CoupleID  int64  `mapstructure:"couple_id" yaml:"couple_id"`
}

// defaultConfigPath returns ~/.config/tandemctl/config.yaml (or the
// platform equivalent).
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "tandemctl.yaml")
	}
	return filepath.Join(dir, "tandemctl", "config.yaml")
}

// loadConfig reads the config file at path. A missing file yields defaults.
func loadConfig(path string) (*config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("server_url", "http://localhost:8080")

	// A missing config file just means first run.
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// saveConfig writes cfg back to path, creating the directory if needed.
func saveConfig(path string, cfg *config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("server_url", cfg.ServerURL)
	v.Set("user_id", cfg.UserID)
	v.Set("couple_id", cfg.CoupleID)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
