// Package daemon holds the long-running process configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the daemon configuration, loaded from ~/.quita/config.toml.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Advisor AdvisorConfig `toml:"advisor"`
}

type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

type StorageConfig struct {
	// Path is the directory holding the sqlite database.
	Path string `toml:"path"`
}

type AdvisorConfig struct {
	// APIKey is the Gemini API key. The QUITA_GEMINI_API_KEY environment
	// variable overrides the file value so the key can stay out of the
	// config file entirely.
	APIKey       string `toml:"api_key"`
	Model        string `toml:"model"`
	ChatModel    string `toml:"chat_model"`
	Timeout      string `toml:"timeout"`
	HistoryLimit int    `toml:"history_limit"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    8087,
			Metrics: true,
		},
		Storage: StorageConfig{
			Path: filepath.Join(home, ".quita"),
		},
		Advisor: AdvisorConfig{
			Model:        "gemini-2.5-flash-lite",
			ChatModel:    "gemini-2.0-flash",
			Timeout:      "60s",
			HistoryLimit: 20,
		},
	}
}

// Load reads the config file at path, falling back to defaults for any
// missing file or field. An unreadable or malformed file is an error; a
// missing one is not.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = filepath.Join(cfg.Storage.Path, "config.toml")
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if key := os.Getenv("QUITA_GEMINI_API_KEY"); key != "" {
		cfg.Advisor.APIKey = key
	}
	return cfg, nil
}

// Addr returns the host:port the API server binds to.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// AdvisorTimeout parses the advisor request timeout, defaulting to a
// minute when the value is empty or malformed.
func (c Config) AdvisorTimeout() time.Duration {
	d, err := time.ParseDuration(c.Advisor.Timeout)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}
