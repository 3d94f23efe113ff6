package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds service configuration loaded from YAML and env.
type Config struct {
	ServerPort string

	ForecastAPIURL     string
	ForecastAPITimeout time.Duration

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	HealthErrorWindow  time.Duration
	HealthErrorRatePct int
}

type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	ForecastAPI struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"forecast_api"`

	Request struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"request"`

	Shutdown struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"shutdown"`

	Health struct {
		ErrorWindow  string `yaml:"error_window"`
		ErrorRatePct int    `yaml:"error_rate_pct"`
	} `yaml:"health"`
}

// Load reads configuration from config/{ENV_NAME}.yaml (default dev),
// then applies env overrides (PORT, FORECAST_API_URL). The config file is
// optional; defaults cover a local run against the public Open-Meteo API.
func Load() (*Config, error) {
	cfg := &Config{}

	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}

	var fc fileConfig
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.ServerPort = strings.TrimSpace(os.Getenv("PORT"))
	if cfg.ServerPort == "" {
		cfg.ServerPort = fc.Server.Port
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "3000"
	}

	cfg.ForecastAPIURL = strings.TrimSpace(os.Getenv("FORECAST_API_URL"))
	if cfg.ForecastAPIURL == "" {
		cfg.ForecastAPIURL = fc.ForecastAPI.URL
	}
	if cfg.ForecastAPIURL == "" {
		cfg.ForecastAPIURL = "https://api.open-meteo.com/v1/forecast"
	}
	cfg.ForecastAPITimeout = parseDuration(fc.ForecastAPI.Timeout, 5*time.Second)

	cfg.RequestTimeout = parseDuration(fc.Request.Timeout, 10*time.Second)
	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, 30*time.Second)

	cfg.HealthErrorWindow = parseDuration(fc.Health.ErrorWindow, 60*time.Second)
	cfg.HealthErrorRatePct = fc.Health.ErrorRatePct
	if cfg.HealthErrorRatePct <= 0 {
		cfg.HealthErrorRatePct = 50
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseDuration parses a duration string and returns defaultVal if
// parsing fails or the result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// validate performs post-load validation. The request timeout must leave
// room for the outbound call.
func validate(cfg *Config) error {
	if cfg.ForecastAPITimeout <= 0 {
		return fmt.Errorf("forecast_api.timeout must be positive")
	}
	if cfg.RequestTimeout <= cfg.ForecastAPITimeout {
		cfg.RequestTimeout = cfg.ForecastAPITimeout + time.Second
	}
	return nil
}
