package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIBaseURL string `yaml:"api_base_url"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	SessionPath string `yaml:"session_path"`

	PollIntervalSeconds int `yaml:"poll_interval_seconds"`

	MetricsPort string `yaml:"metrics_port"`
}

// Load builds the configuration from environment variables on top of the
// built-in defaults. JURISCLI_CONFIG may point at a YAML file whose values
// sit between the two: defaults, then file, then environment.
func Load() (Config, error) {
	cfg := Config{
		APIBaseURL:          "http://localhost:8000/api",
		LogLevel:            "info",
		LogFormat:           "text",
		PollIntervalSeconds: 4,
		MetricsPort:         "",
	}

	if path := os.Getenv("JURISCLI_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.APIBaseURL = mustEnv("JURISCLI_API_URL", cfg.APIBaseURL)
	cfg.LogLevel = mustEnv("JURISCLI_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = mustEnv("JURISCLI_LOG_FORMAT", cfg.LogFormat)
	cfg.SessionPath = mustEnv("JURISCLI_SESSION_PATH", cfg.SessionPath)
	cfg.PollIntervalSeconds = mustEnvInt("JURISCLI_POLL_INTERVAL_SECONDS", cfg.PollIntervalSeconds)
	cfg.MetricsPort = mustEnv("JURISCLI_METRICS_PORT", cfg.MetricsPort)

	if cfg.PollIntervalSeconds < 1 {
		cfg.PollIntervalSeconds = 1
	}
	return cfg, nil
}

// PollInterval is the pending-document re-fetch pacing as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
