package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "tradejournal/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path == "" {
		t.Error("default database path empty")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default log level = %q", cfg.Logging.Level)
	}
	if cfg.Journal.UndoWindow != 30*time.Second {
		t.Errorf("default undo window = %v", cfg.Journal.UndoWindow)
	}
	if cfg.Analytics.LargeLossThreshold != 500 || cfg.Analytics.OvertradingLimit != 10 || cfg.Analytics.RapidSequenceMins != 15 {
		t.Errorf("default analytics thresholds = %+v", cfg.Analytics)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	toml := `
[database]
path = "/tmp/custom.db"

[logging]
level = "debug"

[journal]
undo_window = "2m"
backup_frequency = "weekly"

[analytics]
large_loss_threshold = 250.0
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "/tmp/custom.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
	if cfg.Journal.UndoWindow != 2*time.Minute {
		t.Errorf("undo window = %v", cfg.Journal.UndoWindow)
	}
	if cfg.Journal.BackupFrequency != "weekly" {
		t.Errorf("backup frequency = %q", cfg.Journal.BackupFrequency)
	}
	if cfg.Analytics.LargeLossThreshold != 250 {
		t.Errorf("large loss threshold = %v", cfg.Analytics.LargeLossThreshold)
	}
	// Unset keys keep their defaults.
	if cfg.Analytics.OvertradingLimit != 10 {
		t.Errorf("overtrading limit = %d", cfg.Analytics.OvertradingLimit)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	toml := `
[journal]
backup_frequency = "hourly"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(dir)
	if err == nil {
		t.Fatal("invalid backup_frequency accepted")
	}
	if !errors.Is(err, apperrors.ErrConfigInvalid) {
		t.Errorf("error %v does not unwrap to ErrConfigInvalid", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRADEJOURNAL_DB", "/tmp/override.db")
	t.Setenv("TRADEJOURNAL_LOG_LEVEL", "warn")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("env db override not applied: %q", cfg.Database.Path)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("env log level override not applied: %q", cfg.Logging.Level)
	}
}
