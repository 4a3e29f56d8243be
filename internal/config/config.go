// Package config holds the nudge agent configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the agent configuration.
type Config struct {
	// AgentName is the bare name the agent answers to.
	AgentName string `yaml:"agent_name"`
	// WakePhrases are matched case-insensitively at the start of a message.
	WakePhrases []string `yaml:"wake_phrases"`
	// AttentiveWindowSec is how long a user stays attentive after a wake,
	// in seconds.
	AttentiveWindowSec int `yaml:"attentive_window_sec"`
	// SlidingWindow makes in-window messages refresh the attentive window.
	// The default is a fixed window from the wake event.
	SlidingWindow bool `yaml:"sliding_window"`
	// DefaultLocale is used when a message carries no locale.
	DefaultLocale string `yaml:"default_locale"`
	// MinConfidence is the classifier acceptance floor.
	MinConfidence float64 `yaml:"min_confidence"`
	// MaxRemindersPerUser caps pending reminders per author. 0 means no cap.
	MaxRemindersPerUser int `yaml:"max_reminders_per_user"`
	// DBPath is the SQLite database location.
	DBPath string `yaml:"db_path"`
	// ListenAddr is the HTTP API bind address.
	ListenAddr string `yaml:"listen_addr"`
	// PollIntervalSec is the dispatcher's due-reminder poll period, in seconds.
	PollIntervalSec int `yaml:"poll_interval_sec"`
}

// AttentiveWindow returns the attentive window as a duration.
func (c *Config) AttentiveWindow() time.Duration {
	return time.Duration(c.AttentiveWindowSec) * time.Second
}

// PollInterval returns the dispatcher poll period as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSec) * time.Second
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		AgentName:           "nudge",
		WakePhrases:         []string{"hey nudge", "ok nudge"},
		AttentiveWindowSec:  300,
		SlidingWindow:       false,
		DefaultLocale:       "en",
		MinConfidence:       0.3,
		MaxRemindersPerUser: 100,
		DBPath:              filepath.Join(home, ".nudge", "nudge.db"),
		ListenAddr:          "127.0.0.1:7467",
		PollIntervalSec:     15,
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadFromHome loads configuration from ~/.nudge/config.yaml.
func LoadFromHome() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfig(), nil
	}
	return Load(filepath.Join(home, ".nudge", "config.yaml"))
}

// Save writes configuration to a YAML file, creating parent directories.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.AgentName == "" {
		return fmt.Errorf("agent_name must not be empty")
	}
	if c.AttentiveWindowSec <= 0 {
		return fmt.Errorf("attentive_window_sec must be positive")
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be in [0,1]")
	}
	if c.MaxRemindersPerUser < 0 {
		return fmt.Errorf("max_reminders_per_user must not be negative")
	}
	if c.PollIntervalSec <= 0 {
		return fmt.Errorf("poll_interval_sec must be positive")
	}
	return nil
}
