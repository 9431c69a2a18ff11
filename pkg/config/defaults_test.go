package config

import "testing"

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Log.File != DefaultLogFile {
		t.Errorf("log.file = %q, want %q", cfg.Log.File, DefaultLogFile)
	}
	if cfg.Log.DatePattern != DefaultLogDatePattern {
		t.Errorf("log.date_pattern = %q, want %q", cfg.Log.DatePattern, DefaultLogDatePattern)
	}
	if !cfg.Log.LocalTime {
		t.Error("log.local_time should default to true")
	}
	if cfg.Retention.Window != "" {
		t.Errorf("retention.window = %q, want empty", cfg.Retention.Window)
	}
	if cfg.Retention.Mode != DefaultRetentionMode {
		t.Errorf("retention.mode = %q, want %q", cfg.Retention.Mode, DefaultRetentionMode)
	}
	if !cfg.Journal.Enabled || cfg.Journal.Driver != DefaultJournalDriver {
		t.Errorf("journal = %+v", cfg.Journal)
	}
	if !cfg.Telemetry.Metrics.Enabled || cfg.Telemetry.Tracing.Enabled {
		t.Error("metrics should default on and tracing off")
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Log:       LogConfig{File: "x.log", DatePattern: "2006010215", MaxSizeMB: 5},
		Retention: RetentionConfig{Mode: "calendar"},
		Journal:   JournalConfig{Driver: "sqlite3", Path: "j.db"},
	}

	ApplyDefaults(cfg)

	if cfg.Log.File != "x.log" || cfg.Log.DatePattern != "2006010215" || cfg.Log.MaxSizeMB != 5 {
		t.Errorf("log section overwritten: %+v", cfg.Log)
	}
	if cfg.Retention.Mode != "calendar" {
		t.Errorf("retention.mode overwritten: %q", cfg.Retention.Mode)
	}
	if cfg.Journal.Driver != "sqlite3" || cfg.Journal.Path != "j.db" {
		t.Errorf("journal section overwritten: %+v", cfg.Journal)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	first := *cfg
	ApplyDefaults(cfg)
	if *cfg != first {
		t.Errorf("ApplyDefaults is not idempotent: %+v vs %+v", first, *cfg)
	}
}
