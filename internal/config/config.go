// Package config provides configuration management for the journal application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	apperrors "tradejournal/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// DatabaseConfig holds record-store configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// JournalConfig holds journal behavior configuration.
type JournalConfig struct {
	UndoWindow      time.Duration `mapstructure:"undo_window"`
	BackupFrequency string        `mapstructure:"backup_frequency"` // off, daily, weekly
}

// AnalyticsConfig holds analytics thresholds.
type AnalyticsConfig struct {
	LargeLossThreshold float64 `mapstructure:"large_loss_threshold"`
	OvertradingLimit   int     `mapstructure:"overtrading_limit"`
	RapidSequenceMins  int     `mapstructure:"rapid_sequence_mins"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradejournal"
	}
	return filepath.Join(home, ".config", "tradejournal")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
		// Missing file is fine, defaults apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("database.path", filepath.Join(configDir, "journal.db"))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("journal.undo_window", 30*time.Second)
	v.SetDefault("journal.backup_frequency", "off")
	v.SetDefault("analytics.large_loss_threshold", 500.0)
	v.SetDefault("analytics.overtrading_limit", 10)
	v.SetDefault("analytics.rapid_sequence_mins", 15)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRADEJOURNAL_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("TRADEJOURNAL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration. Every failure unwraps to
// apperrors.ErrConfigInvalid.
func (c *Config) Validate() error {
	switch c.Journal.BackupFrequency {
	case "", "off", "daily", "weekly":
	default:
		return apperrors.Wrapf(apperrors.ErrConfigInvalid,
			"backup_frequency %q must be 'off', 'daily' or 'weekly'", c.Journal.BackupFrequency)
	}
	if c.Journal.UndoWindow < 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "undo_window must be non-negative")
	}
	if c.Analytics.LargeLossThreshold < 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "large_loss_threshold must be non-negative")
	}
	if c.Analytics.OvertradingLimit < 1 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "overtrading_limit must be at least 1")
	}
	if c.Analytics.RapidSequenceMins < 1 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "rapid_sequence_mins must be at least 1")
	}
	return nil
}
