// Package config loads server configuration from an optional YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Config holds all settings for the server process.
type Config struct {
	// Listen is the address the HTTP server binds to.
	Listen string `yaml:"listen"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogFormat is "json" or "console".
	LogFormat string `yaml:"log_format"`

	// ConnectionsFile is the path of the saved-connections YAML file.
	ConnectionsFile string `yaml:"connections_file"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Listen:          ":8080",
		LogLevel:        "info",
		LogFormat:       "json",
		ConnectionsFile: filepath.Join(home, ".bucketeer", "connections.yaml"),
	}
}

// Load reads path (when non-empty and present) over the defaults, then
// applies BUCKETEER_* environment overrides. A missing file is not an error;
// a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BUCKETEER_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("BUCKETEER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("BUCKETEER_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("BUCKETEER_CONNECTIONS_FILE"); v != "" {
		cfg.ConnectionsFile = v
	}
}
