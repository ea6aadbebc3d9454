// Package config loads application settings from a YAML file. The path
// comes from the TALLY_CONFIG environment variable; when it is unset and
// the default file doesn't exist, built-in defaults apply.
package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

const (
	envVar      = "TALLY_CONFIG"
	defaultPath = "config.yaml"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`
	APIBaseURL string `yaml:"api_base_url"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Resend credentials for missed-habit nudge mails; nudging is off
	// when either is empty.
	ResendAPIKey string `yaml:"resend_api_key"`
	NudgeEmail   string `yaml:"nudge_email"`
}

func defaults() Config {
	return Config{
		ListenAddr: ":8080",
		DBPath:     "tally.db",
		APIBaseURL: "http://localhost:8080",
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load reads the config file. A missing file is only an error when the
// path was set explicitly via TALLY_CONFIG.
func Load() (Config, error) {
	path := os.Getenv(envVar)
	explicit := path != ""
	if !explicit {
		path = defaultPath
	}

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
