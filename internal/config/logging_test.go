package config

import "testing"

func TestLoadLogDefaults(t *testing.T) {
	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "info" {
		t.Fatalf("Level = %q, want info", cfg.Level)
	}
}

func TestLoadLogParse(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "debug" {
		t.Fatalf("unexpected log config: %+v", cfg)
	}
}

func TestLoadLogFileSink(t *testing.T) {
	t.Setenv("LOG_FILE", "/tmp/spot-trainer.log")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.File != "/tmp/spot-trainer.log" || cfg.MaxMB != 10 || !cfg.Pretty || cfg.SampleEvery != 5 {
		t.Fatalf("unexpected log config: %+v", cfg)
	}
}
