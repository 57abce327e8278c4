// Package config handles application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	appName        = "holdtype"
	configFileName = "config.json"
)

// Engine names accepted in the "engine" field.
const (
	EngineWhisperLocal = "whisper-local"
	EngineWhisperAPI   = "whisper-api"
)

// Config represents the application configuration.
type Config struct {
	Hotkey   string `json:"hotkey"`
	Engine   string `json:"engine"`
	Model    string `json:"model"`
	Language string `json:"language"`

	// API engine settings
	APIKey     string `json:"api_key,omitempty"`
	APIBaseURL string `json:"api_base_url,omitempty"`

	// Audio settings
	AudioDevice string `json:"audio_device"`
	SampleRate  int    `json:"sample_rate"`

	// Injection settings
	TypingDelayMS int  `json:"typing_delay_ms"`
	PrependSpace  bool `json:"prepend_space"`

	// MinDuration is the shortest utterance, in seconds, that gets
	// transcribed. Accidental taps fall below it.
	MinDuration float64 `json:"min_duration"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Hotkey:        "ctrl+shift",
		Engine:        EngineWhisperLocal,
		Model:         "base",
		Language:      "en",
		AudioDevice:   "auto",
		SampleRate:    16000,
		TypingDelayMS: 10,
		PrependSpace:  true,
		MinDuration:   0.3,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}

// Load reads configuration from path. A missing file yields the defaults,
// which are also written out so the user has something to edit. Fields
// absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Best effort; a read-only config dir is not fatal.
			_ = cfg.Save(path)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Save persists the configuration to path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks for values the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.Hotkey == "" {
		return fmt.Errorf("hotkey required")
	}
	if c.Engine != EngineWhisperLocal && c.Engine != EngineWhisperAPI {
		return fmt.Errorf("unknown engine: %s", c.Engine)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	if c.MinDuration < 0 {
		return fmt.Errorf("min duration must not be negative, got %v", c.MinDuration)
	}
	if c.TypingDelayMS < 0 {
		return fmt.Errorf("typing delay must not be negative, got %d", c.TypingDelayMS)
	}
	return nil
}

// MinUtterance returns MinDuration as a time.Duration.
func (c *Config) MinUtterance() time.Duration {
	return time.Duration(c.MinDuration * float64(time.Second))
}

// TypingDelay returns TypingDelayMS as a time.Duration.
func (c *Config) TypingDelay() time.Duration {
	return time.Duration(c.TypingDelayMS) * time.Millisecond
}
