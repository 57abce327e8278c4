package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holdtype", "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Hotkey != "ctrl+shift" || cfg.Engine != EngineWhisperLocal {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	// The defaults were written out for the user to edit.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte(`{"hotkey": "ctrl+alt", "model": "small"}`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Hotkey != "ctrl+alt" {
		t.Errorf("Hotkey = %q, want ctrl+alt", cfg.Hotkey)
	}
	if cfg.Model != "small" {
		t.Errorf("Model = %q, want small", cfg.Model)
	}
	// Absent fields fall back to defaults.
	if cfg.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", cfg.SampleRate)
	}
	if !cfg.PrependSpace {
		t.Error("PrependSpace = false, want default true")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("invalid JSON accepted")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.Engine = EngineWhisperAPI
	cfg.APIKey = "sk-test"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Engine != EngineWhisperAPI || got.APIKey != "sk-test" {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"api_engine", func(c *Config) { c.Engine = EngineWhisperAPI }, false},
		{"empty_hotkey", func(c *Config) { c.Hotkey = "" }, true},
		{"unknown_engine", func(c *Config) { c.Engine = "parakeet" }, true},
		{"zero_sample_rate", func(c *Config) { c.SampleRate = 0 }, true},
		{"negative_min_duration", func(c *Config) { c.MinDuration = -1 }, true},
		{"negative_typing_delay", func(c *Config) { c.TypingDelayMS = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Default()
	if got := cfg.MinUtterance(); got != 300*time.Millisecond {
		t.Errorf("MinUtterance = %v, want 300ms", got)
	}
	if got := cfg.TypingDelay(); got != 10*time.Millisecond {
		t.Errorf("TypingDelay = %v, want 10ms", got)
	}
}
