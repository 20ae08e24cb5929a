// Package config loads runtime settings. Sources are layered: built-in
// defaults, then an optional YAML file, then the environment (including a
// .env file in the working directory). Command-line flags are applied last by
// the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting the calculator reads at startup.
type Config struct {
	// Addr is the HTTP listen address for the web front end.
	Addr string `yaml:"addr"`
	// ServiceName is reported to the OTLP collector.
	ServiceName string `yaml:"service_name"`
	// Telemetry enables the OTLP trace, metric and log exporters.
	Telemetry bool `yaml:"telemetry"`
	LogLevel  string `yaml:"log_level"`
	// LogFile redirects logs to a file. The terminal front end never logs to
	// stdout; with no file it does not log at all.
	LogFile string `yaml:"log_file"`
	// DarkMode is the theme new views start with.
	DarkMode bool `yaml:"dark_mode"`
	// ViewIdleTimeout unmounts web views that have not been touched for this
	// long.
	ViewIdleTimeout time.Duration `yaml:"view_idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:            ":8080",
		ServiceName:     "go-chi-calculator",
		LogLevel:        "info",
		ViewIdleTimeout: 30 * time.Minute,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr must not be empty")
	}
	if c.ServiceName == "" {
		return errors.New("config: service_name must not be empty")
	}
	if c.ViewIdleTimeout <= 0 {
		return fmt.Errorf("config: view_idle_timeout must be positive, got %s", c.ViewIdleTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	return nil
}

// loadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	envString(lookup, "CALCULATOR_ADDR", &c.Addr)
	envString(lookup, "OTEL_SERVICE_NAME", &c.ServiceName)
	envString(lookup, "CALCULATOR_LOG_LEVEL", &c.LogLevel)
	envString(lookup, "CALCULATOR_LOG_FILE", &c.LogFile)

	if err := envBool(lookup, "CALCULATOR_TELEMETRY", &c.Telemetry); err != nil {
		return err
	}
	if err := envBool(lookup, "CALCULATOR_DARK_MODE", &c.DarkMode); err != nil {
		return err
	}
	if err := envDuration(lookup, "CALCULATOR_VIEW_IDLE_TIMEOUT", &c.ViewIdleTimeout); err != nil {
		return err
	}
	if err := envDuration(lookup, "CALCULATOR_SHUTDOWN_TIMEOUT", &c.ShutdownTimeout); err != nil {
		return err
	}

	return nil
}

// An empty variable counts as unset, for every kind of value.
func envString(lookup lookupFunc, key string, dst *string) {
	if v, ok := lookup(key); ok && v != "" {
		*dst = v
	}
}

func envBool(lookup lookupFunc, key string, dst *bool) error {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}

	*dst = b
	return nil
}

func envDuration(lookup lookupFunc, key string, dst *time.Duration) error {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}

	*dst = d
	return nil
}
